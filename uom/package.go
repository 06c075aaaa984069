package uom

import (
	"fmt"
	"github.com/cottand/uom/ast"
	"github.com/cottand/uom/infer"
	"github.com/cottand/uom/internal/log"
	"github.com/cottand/uom/parser"
	"github.com/cottand/uom/units"
	"github.com/cottand/uom/uomerr"
	"github.com/cottand/uom/util"
	"github.com/pkg/errors"
	"io/fs"
	"path"
	"slices"
	"strings"
	"testing/fstest"
)

var packageLogger = log.DefaultLogger.With("section", "system")

// System is a set of unit equations solved together.
//
// Equations are folded into a single accumulated solution in source order,
// so a variable constrained by an early equation keeps that constraint when
// later equations mention it. Errors from every phase accumulate rather
// than aborting the load.
type System struct {
	name, fileName string
	source         string

	equations []*ast.Equation
	solver    *infer.Solver
	errors    *uomerr.Errors
}

func (s *System) Equations() []*ast.Equation {
	return s.equations
}

func (s *System) Name() string {
	return s.name
}

func (s *System) Errors() *uomerr.Errors {
	return s.errors
}

// Solution is the accumulated most general substitution for the equations
// loaded so far.
func (s *System) Solution() units.Subst {
	return s.solver.Solution()
}

// FreeVars lists the variables the equations mention but the solution does
// not determine, sorted by name.
func (s *System) FreeVars() []string {
	return s.solver.FreeVars()
}

// LoadSystem parses and solves the equations under dir,
// where dir is the root folder for the system
//
// Only single-file systems are supported
func LoadSystem(dir fs.FS, config SysLoadSettings) (*System, error) {
	dirPath := config.Dir
	if dirPath == "" {
		dirPath = "."
	}
	fileName := config.File
	if fileName == "" {
		files, err := fs.ReadDir(dir, dirPath)
		if err != nil {
			return nil, errors.Wrapf(err, "read directory %v", dirPath)
		}
		if len(files) == 0 || files[0].IsDir() {
			return nil, errors.Errorf("no equation files under %v", dirPath)
		}
		if len(files) > 1 {
			packageLogger.Warn("multiple equation files found, but we do not support multi-file systems - using the first one")
		}
		fileName = files[0].Name()
	}
	sys := &System{
		name:     strings.TrimSuffix(fileName, path.Ext(fileName)),
		fileName: fileName,
		solver:   infer.NewSolver(),
	}

	fileOpen, err := fs.ReadFile(dir, path.Join(dirPath, fileName))
	if err != nil {
		// a file that was located but cannot be read reports through the
		// error stream like a parse or solve failure
		sys.errors = sys.errors.With(uomerr.New(uomerr.Unclassified{
			Positioner: ast.Range{},
			From:       errors.Wrapf(err, "read %v", fileName),
		}))
		return sys, nil
	}
	sys.source = string(fileOpen)

	// parse phase
	equations, parseErrors := parser.ParseSource(sys.source)
	sys.errors = sys.errors.Merge(parseErrors)
	sys.equations = equations

	// solve phase
	constraints := slices.Collect(util.MapIter(slices.Values(equations), infer.FromEquation))
	sys.solver.Solve(constraints...)
	sys.errors = sys.errors.Merge(sys.solver.Errors())

	packageLogger.Debug("loaded system",
		"name", sys.name,
		"equations", len(sys.equations),
		"bindings", sys.Solution().Len(),
		"errors", len(sys.errors.Errors()),
	)
	return sys, nil
}

type SysLoadSettings struct {
	// Dir is the path of the folder in the filesystem where the equations are located
	// the default is `.`
	Dir string
	// File names a single file under Dir to load, rather than the first file found
	File string
}

// NewSystemFromBytes does all passes end-to-end for a single source, meant for testing
func NewSystemFromBytes(data []byte, fileName string) (*System, *uomerr.Errors, error) {
	filesystem := fstest.MapFS{
		fileName: &fstest.MapFile{
			Data: data,
		},
	}
	sys, err := LoadSystem(filesystem, SysLoadSettings{})
	if err != nil && sys == nil {
		return nil, nil, err
	}
	return sys, sys.errors, err
}

// DisplaySolution renders the solution with one line per determined variable,
// followed by one line per free variable, like
//
//	v = Meter * Second^-1
//	t is free
func (s *System) DisplaySolution() string {
	sol := s.Solution()
	lines := slices.Collect(util.MapIter(sol.Domain(), func(name string) string {
		bound, _ := sol.Lookup(name)
		return fmt.Sprintf("%s = %s", name, bound)
	}))
	for _, name := range s.FreeVars() {
		lines = append(lines, fmt.Sprintf("%s is free", name))
	}
	return strings.Join(lines, "\n")
}

// DisplayNormalForms renders each equation with both sides in canonical
// normal form, one equation per line.
func (s *System) DisplayNormalForms() string {
	lines := slices.Collect(util.MapIter(slices.Values(s.equations), func(eq *ast.Equation) string {
		return fmt.Sprintf("%s = %s", units.Normalise(eq.Lhs), units.Normalise(eq.Rhs))
	}))
	return strings.Join(lines, "\n")
}

// DisplayErrors renders every accumulated error with its position in the
// source, one block per error.
func (s *System) DisplayErrors() string {
	sb := strings.Builder{}
	for _, e := range s.errors.Errors() {
		sb.WriteString(uomerr.FormatWithCodeAndSource(e, s.fileName, s.source))
		sb.WriteString("\n")
	}
	return sb.String()
}
