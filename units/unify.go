package units

import (
	"github.com/cottand/uom/ast"
	"github.com/cottand/uom/uomerr"
	"log/slog"
)

// Unify finds the most general substitution that makes nf dimensionless.
//
// Every solution of the equation nf ≡ 1 factors through the returned
// substitution: if t.ApplyTo(nf) is dimensionless for some t, then t is
// Compose(s, r) for the returned s and some r. Unifying two forms u and v
// amounts to calling Unify on u.Mul(v.Invert()).
//
// Variables absent from the result are unconstrained and remain free. When
// no substitution works at all, for example for Meter * Foot^-1, the error
// is a uomerr.NewUnitUnify naming the irreducible form.
func Unify(nf NormalForm) (Subst, error) {
	u := &unifier{Logger: logger.With("section", "units.unify")}
	return u.unify(nf, 0)
}

// UnifyExprs finds the most general substitution that makes u and v
// equivalent, by unifying u * v^-1 against the dimensionless form.
func UnifyExprs(u, v ast.Expr) (Subst, error) {
	return Unify(Normalise(u).Mul(Normalise(v).Invert()))
}

type unifier struct {
	*slog.Logger
}

func (u *unifier) unify(nf NormalForm, depth int) (Subst, error) {
	u.Debug("unify step", "form", nf.String(), "vars", nf.NumVars(), "depth", depth)
	switch nf.NumVars() {
	case 0:
		if nf.IsDimensionless() {
			return Identity(), nil
		}
		return Subst{}, uomerr.New(uomerr.NewUnitUnify{
			Positioner: nf,
			Left:       nf.String(),
			Right:      "1",
		})
	case 1:
		return u.solveSingle(nf)
	default:
		return u.reduce(nf, depth)
	}
}

// solveSingle handles a form with a single variable v^d. A solution exists
// exactly when d divides every base exponent, and then binding v to the
// product of base^-(f/d) for every base exponent f is most general.
func (u *unifier) solveSingle(nf NormalForm) (Subst, error) {
	var name string
	var d int
	for n, e := range nf.vars.all() {
		name, d = n, e
	}
	bases := newExpBuilder(emptyExps)
	for base, f := range nf.bases.all() {
		if f%d != 0 {
			return Subst{}, uomerr.New(uomerr.NewUnitUnify{
				Positioner: nf,
				Left:       nf.String(),
				Right:      "1",
			})
		}
		bases.set(base, -(f / d))
	}
	binding := NormalForm{vars: emptyExps, bases: bases.build(), provenance: nf.provenance}
	u.Debug("solved last variable", "var", name, "binding", binding.String())
	return Identity().Bind(name, binding), nil
}

// reduce performs one step of Euclidean descent on a form with two or more
// variables. The pivot, the variable with the smallest absolute exponent d,
// is rebound to absorb the divisible part of every other exponent:
//
//	pivot ↦ pivot * ∏ other^-(e/d) * ∏ base^-(f/d)
//
// Applying that step leaves pivot^d alongside the division remainders, all
// smaller than |d|, so either the next pivot is strictly smaller or every
// remainder is zero and a variable disappears. Keeping pivot on its own
// right-hand side is what makes the final substitution most general: the
// pivot survives as the free parameter of the solution space.
func (u *unifier) reduce(nf NormalForm, depth int) (Subst, error) {
	pivot, d := pivotOf(nf)
	vars := newExpBuilder(emptyExps)
	vars.set(pivot, 1)
	for name, e := range nf.vars.all() {
		if name == pivot {
			continue
		}
		vars.set(name, -(e / d))
	}
	bases := newExpBuilder(emptyExps)
	for name, f := range nf.bases.all() {
		bases.set(name, -(f / d))
	}
	step := Identity().Bind(pivot, NormalForm{
		vars:       vars.build(),
		bases:      bases.build(),
		provenance: nf.provenance,
	})
	u.Debug("descent step", "pivot", pivot, "exp", d, "step", step.String())

	rest, err := u.unify(step.ApplyTo(nf), depth+1)
	if err != nil {
		return Subst{}, err
	}
	return Compose(step, rest), nil
}

// pivotOf selects the variable with the smallest absolute exponent,
// breaking ties towards the lexicographically smallest name.
func pivotOf(nf NormalForm) (name string, d int) {
	for n, e := range nf.vars.all() {
		if name == "" || abs(e) < abs(d) {
			name, d = n, e
		}
	}
	return name, d
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
