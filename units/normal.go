// Package units implements the algebra of units of measure: normalisation
// of unit expressions into exponent vectors, substitution over unit
// variables, and unification of unit equations.
//
// A unit expression denotes an element of the free abelian group generated
// by base units and unit variables. Its normal form is a pair of exponent
// maps, one for variables and one for base units. Normalisation decides
// equality outright; unification additionally solves for variables, and is
// where all the interesting work happens.
package units

import (
	"cmp"
	"encoding/binary"
	"github.com/cottand/uom/ast"
	"github.com/cottand/uom/internal/log"
	"github.com/cottand/uom/util"
	"github.com/hashicorp/go-set/v3"
	"go/token"
	"hash/fnv"
	"iter"
	"log/slog"
	"strconv"
	"strings"
)

var logger = log.DefaultLogger.With("section", "units")

// NormalForm is a unit expression reduced to its exponent maps. The zero
// value is the dimensionless unit.
//
// Variable and base unit names live in disjoint namespaces, so the two maps
// never share a name. Provenance is carried for diagnostics and ignored by
// Equivalent and Hash.
type NormalForm struct {
	vars       expMap
	bases      expMap
	provenance ast.Range
}

var _ ast.Positioner = NormalForm{}

// Normalise reduces a unit expression to its NormalForm. It is total: every
// expression has exactly one normal form, and expressions denote the same
// group element exactly when their normal forms are Equivalent.
func Normalise(expr ast.Expr) NormalForm {
	n := &normaliser{
		Logger: logger.With("section", "units.normalise"),
		vars:   newExpBuilder(emptyExps),
		bases:  newExpBuilder(emptyExps),
	}
	n.walk(expr, 1)
	nf := NormalForm{
		vars:       n.vars.build(),
		bases:      n.bases.build(),
		provenance: ast.RangeOf(expr),
	}
	n.Debug("normalised", "expr", expr.String(), "form", nf.String())
	return nf
}

// normaliser accumulates atom exponents during a single expression walk.
type normaliser struct {
	*slog.Logger
	vars  expBuilder
	bases expBuilder
}

// walk adds scale times the exponents of expr to the accumulators. Inverses
// negate the scale and powers multiply it, so one pass suffices.
func (n *normaliser) walk(expr ast.Expr, scale int) {
	switch e := expr.(type) {
	case *ast.One:
	case *ast.Base:
		n.bases.add(e.Name, scale)
	case *ast.Var:
		n.vars.add(e.Name, scale)
	case *ast.Product:
		n.walk(e.Lhs, scale)
		n.walk(e.Rhs, scale)
	case *ast.Inverse:
		n.walk(e.Of, -scale)
	case *ast.Power:
		n.walk(e.Of, scale*e.Exp)
	default:
		panic("should be unreachable: unknown expression node")
	}
}

// Dimensionless returns the normal form of the unit 1.
func Dimensionless() NormalForm {
	return NormalForm{vars: emptyExps, bases: emptyExps}
}

// IsDimensionless reports whether the form is the identity, that is, has no
// atoms left after cancellation.
func (nf NormalForm) IsDimensionless() bool {
	return nf.vars.isEmpty() && nf.bases.isEmpty()
}

// Degree returns the exponent of the named atom, variable or base unit, and
// zero for atoms that do not occur.
func (nf NormalForm) Degree(name string) int {
	if d := nf.vars.degree(name); d != 0 {
		return d
	}
	return nf.bases.degree(name)
}

// Mul is the group product: exponents of matching atoms are summed, and
// atoms whose exponents cancel to zero disappear.
func (nf NormalForm) Mul(other NormalForm) NormalForm {
	return NormalForm{
		vars:       nf.vars.times(other.vars),
		bases:      nf.bases.times(other.bases),
		provenance: ast.MergeRanges(nf.provenance, other.provenance),
	}
}

// Invert is the group inverse: every exponent is negated.
func (nf NormalForm) Invert() NormalForm {
	return nf.Pow(-1)
}

// Pow raises the form to the k-th power. Pow(0) is dimensionless.
func (nf NormalForm) Pow(k int) NormalForm {
	return NormalForm{
		vars:       nf.vars.scaled(k),
		bases:      nf.bases.scaled(k),
		provenance: nf.provenance,
	}
}

// Vars iterates variable atoms and their exponents in canonical order.
func (nf NormalForm) Vars() iter.Seq2[string, int] { return nf.vars.all() }

// Bases iterates base unit atoms and their exponents in canonical order.
func (nf NormalForm) Bases() iter.Seq2[string, int] { return nf.bases.all() }

// Atoms iterates all atoms in canonical order: variables first, then base
// units, each lexicographically.
func (nf NormalForm) Atoms() iter.Seq2[string, int] {
	return util.ConcatIter2(nf.vars.all(), nf.bases.all())
}

// NumVars returns how many distinct variables occur in the form.
func (nf NormalForm) NumVars() int { return nf.vars.size() }

// FreeVars returns the set of variable names occurring in the form.
func (nf NormalForm) FreeVars() *set.TreeSet[string] {
	vars := set.NewTreeSet[string](cmp.Compare[string])
	for name := range nf.vars.all() {
		vars.Insert(name)
	}
	return vars
}

// Equivalent reports whether two forms denote the same group element.
// Provenance does not participate.
func (nf NormalForm) Equivalent(other NormalForm) bool {
	return nf.vars.equal(other.vars) && nf.bases.equal(other.bases)
}

// Hash returns a hash value for the form, ignoring provenance, so that
// Equivalent forms hash alike.
func (nf NormalForm) Hash() uint64 {
	h := fnv.New64a()
	arr := []byte("NormalForm")
	for name, exp := range nf.vars.all() {
		arr = append(arr, name...)
		arr = binary.LittleEndian.AppendUint64(arr, uint64(int64(exp)))
	}
	arr = append(arr, '|')
	for name, exp := range nf.bases.all() {
		arr = append(arr, name...)
		arr = binary.LittleEndian.AppendUint64(arr, uint64(int64(exp)))
	}
	_, _ = h.Write(arr)
	return h.Sum64()
}

// String renders the canonical notation: atoms in canonical order joined by
// " * ", exponents spelled with ^ and omitted when 1, and "1" for the
// dimensionless form.
func (nf NormalForm) String() string {
	if nf.IsDimensionless() {
		return "1"
	}
	var parts []string
	for name, exp := range nf.Atoms() {
		if exp == 1 {
			parts = append(parts, name)
		} else {
			parts = append(parts, name+"^"+strconv.Itoa(exp))
		}
	}
	return strings.Join(parts, " * ")
}

// Pos returns the starting position of the expression this form came from.
func (nf NormalForm) Pos() token.Pos { return nf.provenance.Pos() }

// End returns the ending position of the expression this form came from.
func (nf NormalForm) End() token.Pos { return nf.provenance.End() }
