package infer_test

import (
	"github.com/cottand/uom/ast"
	"github.com/cottand/uom/infer"
	"github.com/cottand/uom/parser"
	"github.com/cottand/uom/units"
	"github.com/cottand/uom/uomerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func constraintOf(t *testing.T, src string) infer.Constraint {
	t.Helper()
	eq, errs := parser.ParseEquation(src)
	require.False(t, errs.HasError(), "bad test equation %q: %v", src, errs.Errors())
	return infer.FromEquation(eq)
}

func exprOf(t *testing.T, src string) ast.Expr {
	t.Helper()
	expr, errs := parser.ParseExpr(src)
	require.False(t, errs.HasError(), "bad test expression %q: %v", src, errs.Errors())
	return expr
}

// satisfied reports whether the solver's solution makes both sides of the
// equation the same unit.
func satisfied(s *infer.Solver, t *testing.T, src string) bool {
	t.Helper()
	eq, errs := parser.ParseEquation(src)
	require.False(t, errs.HasError())
	lhs := s.Solution().ApplyTo(units.Normalise(eq.Lhs))
	rhs := s.Solution().ApplyTo(units.Normalise(eq.Rhs))
	return lhs.Equivalent(rhs)
}

func TestSolverSingleEquation(t *testing.T) {
	s := infer.NewSolver().Solve(constraintOf(t, "v = Meter / Second"))

	require.False(t, s.Errors().HasError())
	binding, ok := s.Solution().Lookup("v")
	require.True(t, ok)
	assert.Equal(t, "Meter * Second^-1", binding.String())
	assert.Empty(t, s.FreeVars())
}

func TestSolverChainsEquations(t *testing.T) {
	s := infer.NewSolver().Solve(
		constraintOf(t, "a = Meter * b"),
		constraintOf(t, "b = Second^-1"),
	)

	require.False(t, s.Errors().HasError())
	a, ok := s.Solution().Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "Meter * Second^-1", a.String())
	b, ok := s.Solution().Lookup("b")
	require.True(t, ok)
	assert.Equal(t, "Second^-1", b.String())

	assert.True(t, satisfied(s, t, "a = Meter * b"))
	assert.True(t, satisfied(s, t, "b = Second^-1"))
}

func TestSolverDetectsContradiction(t *testing.T) {
	s := infer.NewSolver().Solve(
		constraintOf(t, "x = Meter"),
		constraintOf(t, "x = Foot"),
	)

	require.True(t, s.Errors().HasError())
	require.Len(t, s.Errors().Errors(), 1)
	err := s.Errors().Errors()[0]
	assert.Equal(t, uomerr.UnitUnify, err.Code())
	// the error shows both sides as they stand under the solution so far
	assert.Contains(t, err.Error(), "'Meter'")
	assert.Contains(t, err.Error(), "'Foot'")
}

func TestSolverContinuesAfterContradiction(t *testing.T) {
	s := infer.NewSolver().Solve(
		constraintOf(t, "x = Meter"),
		constraintOf(t, "x = Foot"),
		constraintOf(t, "y = Second"),
	)

	require.Len(t, s.Errors().Errors(), 1)
	y, ok := s.Solution().Lookup("y")
	require.True(t, ok)
	assert.Equal(t, "Second", y.String())
}

func TestSolverSkipsRepeatedEquations(t *testing.T) {
	bad := constraintOf(t, "Meter = Foot")
	s := infer.NewSolver().Solve(bad, bad, bad)

	// a repeated contradiction is reported once
	require.Len(t, s.Errors().Errors(), 1)
}

func TestSolverFreeVars(t *testing.T) {
	s := infer.NewSolver().Solve(constraintOf(t, "a * b = Meter"))
	require.False(t, s.Errors().HasError())
	assert.Equal(t, []string{"b"}, s.FreeVars())

	s.Solve(constraintOf(t, "b = Second"))
	require.False(t, s.Errors().HasError())
	assert.Empty(t, s.FreeVars())
	assert.True(t, satisfied(s, t, "a * b = Meter"))
}

func TestSolverIsOrderInsensitiveForSatisfiability(t *testing.T) {
	eqs := []string{
		"energy = Kilogram * speed^2",
		"speed = Meter / Second",
		"work = energy",
	}
	forwards := infer.NewSolver()
	for _, eq := range eqs {
		forwards.Solve(constraintOf(t, eq))
	}
	backwards := infer.NewSolver()
	for i := len(eqs) - 1; i >= 0; i-- {
		backwards.Solve(constraintOf(t, eqs[i]))
	}

	for _, s := range []*infer.Solver{forwards, backwards} {
		require.False(t, s.Errors().HasError())
		for _, eq := range eqs {
			assert.True(t, satisfied(s, t, eq), "unsatisfied %q with %v", eq, s.Solution())
		}
	}

	work, ok := forwards.Solution().Lookup("work")
	require.True(t, ok)
	assert.Equal(t, "Kilogram * Meter^2 * Second^-2", work.String())
}

func TestSolverPowersOfVariables(t *testing.T) {
	s := infer.NewSolver().Solve(constraintOf(t, "a^2 = Meter^2"))
	require.False(t, s.Errors().HasError())
	a, ok := s.Solution().Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "Meter", a.String())

	s = infer.NewSolver().Solve(constraintOf(t, "a^2 = Meter^3"))
	require.True(t, s.Errors().HasError())
}

func TestSolverConstraintShapes(t *testing.T) {
	s := infer.NewSolver().Solve(
		infer.ProductOf(exprOf(t, "d"), exprOf(t, "v"), exprOf(t, "t")),
		infer.InverseOf(exprOf(t, "hz"), exprOf(t, "Second")),
		infer.Dimensionless(exprOf(t, "strain")),
		infer.Equal(exprOf(t, "v"), exprOf(t, "Meter / Second")),
		infer.Equal(exprOf(t, "t"), exprOf(t, "Second")),
	)

	require.False(t, s.Errors().HasError())
	d, ok := s.Solution().Lookup("d")
	require.True(t, ok)
	assert.Equal(t, "Meter", d.String())
	hz, ok := s.Solution().Lookup("hz")
	require.True(t, ok)
	assert.Equal(t, "Second^-1", hz.String())
	strain, ok := s.Solution().Lookup("strain")
	require.True(t, ok)
	assert.True(t, strain.IsDimensionless())
}

func TestSolverErrorPositions(t *testing.T) {
	src := "x = Meter\nx = Foot"
	eqs, errs := parser.ParseSource(src)
	require.False(t, errs.HasError())
	require.Len(t, eqs, 2)

	s := infer.NewSolver()
	for _, eq := range eqs {
		s.Solve(infer.FromEquation(eq))
	}
	require.Len(t, s.Errors().Errors(), 1)
	err := s.Errors().Errors()[0]
	// the second equation starts after "x = Meter\n"
	assert.Equal(t, eqs[1].Pos(), err.Pos())
}
