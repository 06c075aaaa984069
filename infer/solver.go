// Package infer solves systems of unit equations.
//
// A Solver folds equations one at a time into a running substitution: each
// new equation is rewritten under the solution so far, unified, and the
// resulting bindings composed in. Equations that cannot be satisfied are
// collected as errors rather than stopping the solve, so one contradiction
// does not hide another.
package infer

import (
	"cmp"
	"github.com/cottand/uom/ast"
	"github.com/cottand/uom/internal/log"
	"github.com/cottand/uom/units"
	"github.com/cottand/uom/uomerr"
	"github.com/hashicorp/go-set/v3"
	xset "github.com/xtgo/set"
	"log/slog"
	"sort"
)

var logger = log.DefaultLogger.With("section", "infer")

// Constraint requires two unit expressions to denote the same unit.
type Constraint struct {
	ast.Range
	Lhs ast.Expr
	Rhs ast.Expr
}

// Equal constrains lhs and rhs to be the same unit.
func Equal(lhs, rhs ast.Expr) Constraint {
	return Constraint{
		Range: ast.MergeRanges(ast.RangeOf(lhs), ast.RangeOf(rhs)),
		Lhs:   lhs,
		Rhs:   rhs,
	}
}

// ProductOf constrains x to be the product of y and z.
func ProductOf(x, y, z ast.Expr) Constraint {
	rhs := &ast.Product{Range: ast.RangeBetween(ast.RangeOf(y), ast.RangeOf(z)), Lhs: y, Rhs: z}
	return Equal(x, rhs)
}

// InverseOf constrains x to be the inverse of y.
func InverseOf(x, y ast.Expr) Constraint {
	return Equal(x, &ast.Inverse{Range: ast.RangeOf(y), Of: y})
}

// Dimensionless constrains x to denote no unit at all.
func Dimensionless(x ast.Expr) Constraint {
	return Equal(x, &ast.One{Range: ast.RangeOf(x)})
}

// FromEquation lifts a parsed equation into a constraint.
func FromEquation(eq *ast.Equation) Constraint {
	return Constraint{Range: eq.Range, Lhs: eq.Lhs, Rhs: eq.Rhs}
}

// Solver accumulates unit equations and maintains their most general
// solution. The zero value is not ready to use; construct with NewSolver.
type Solver struct {
	*slog.Logger
	solution units.Subst
	errs     *uomerr.Errors
	vars     *set.TreeSet[string]
	// seen caches constraints already processed. An equation folded into
	// the solution stays satisfied, and one that failed would fail the same
	// way again, so repeats are no-ops either way.
	seen map[constraintKey]bool
}

// constraintKey identifies a constraint by the hashes of its two sides
// before substitution.
type constraintKey struct {
	lhs, rhs uint64
}

func NewSolver() *Solver {
	return &Solver{
		Logger:   logger,
		solution: units.Identity(),
		vars:     set.NewTreeSet[string](cmp.Compare[string]),
		seen:     map[constraintKey]bool{},
	}
}

// Solve folds constraints into the running solution, in order. It returns
// the solver so calls can chain.
func (s *Solver) Solve(constraints ...Constraint) *Solver {
	for _, c := range constraints {
		s.solve(c)
	}
	return s
}

func (s *Solver) solve(c Constraint) {
	lhs := units.Normalise(c.Lhs)
	rhs := units.Normalise(c.Rhs)

	key := constraintKey{lhs.Hash(), rhs.Hash()}
	if s.seen[key] {
		s.Debug("skipping constraint seen before", "lhs", lhs.String(), "rhs", rhs.String())
		return
	}
	s.seen[key] = true

	for name := range lhs.FreeVars().Items() {
		s.vars.Insert(name)
	}
	for name := range rhs.FreeVars().Items() {
		s.vars.Insert(name)
	}

	form := s.solution.ApplyTo(lhs.Mul(rhs.Invert()))
	mgu, err := units.Unify(form)
	if err != nil {
		// report the two sides as they stand under the current solution,
		// which is what actually failed to unify
		s.errs = s.errs.With(uomerr.New(uomerr.NewUnitUnify{
			Positioner: c.Range,
			Left:       s.solution.ApplyTo(lhs).String(),
			Right:      s.solution.ApplyTo(rhs).String(),
		}))
		return
	}
	s.solution = units.Compose(s.solution, mgu)
	s.Debug("constraint solved",
		"lhs", lhs.String(),
		"rhs", rhs.String(),
		"solution", s.solution.String(),
	)
}

// Solution returns the most general substitution satisfying every
// successfully solved constraint so far.
func (s *Solver) Solution() units.Subst {
	return s.solution
}

// Errors returns the constraints that could not be satisfied, nil when all
// of them could.
func (s *Solver) Errors() *uomerr.Errors {
	return s.errs
}

// FreeVars returns, in lexicographic order, the variables that appeared in
// some constraint but remain unconstrained by the solution.
func (s *Solver) FreeVars() []string {
	names := s.vars.Slice()
	boundary := len(names)
	for name := range s.solution.Domain() {
		names = append(names, name)
	}
	n := xset.Diff(sort.StringSlice(names), boundary)
	return names[:n]
}
