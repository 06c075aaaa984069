package units

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestSubstApplyTo(t *testing.T) {
	speed := Normalise(mul(b("Meter"), inv(b("Second"))))

	tests := []struct {
		name  string
		subst Subst
		in    NormalForm
		want  string
	}{
		{
			name:  "identity leaves the form alone",
			subst: Identity(),
			in:    Normalise(mul(v("a"), b("Meter"))),
			want:  "a * Meter",
		},
		{
			name:  "binding replaces the variable",
			subst: Identity().Bind("a", speed),
			in:    Normalise(v("a")),
			want:  "Meter * Second^-1",
		},
		{
			name:  "binding respects the variable exponent",
			subst: Identity().Bind("a", speed),
			in:    Normalise(mul(pow(v("a"), 2), pow(b("Second"), 2))),
			want:  "Meter^2",
		},
		{
			name:  "unbound variables pass through",
			subst: Identity().Bind("a", speed),
			in:    Normalise(mul(v("a"), v("z"))),
			want:  "z * Meter * Second^-1",
		},
		{
			name:  "binding to dimensionless erases the variable",
			subst: Identity().Bind("a", Dimensionless()),
			in:    Normalise(mul(v("a"), b("Meter"))),
			want:  "Meter",
		},
		{
			name:  "substitution can cancel atoms entirely",
			subst: Identity().Bind("a", speed.Invert()),
			in:    Normalise(mul(v("a"), mul(b("Meter"), inv(b("Second"))))),
			want:  "1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.subst.ApplyTo(tt.in).String())
		})
	}
}

func TestSubstIsImmutable(t *testing.T) {
	base := Identity().Bind("a", Normalise(b("Meter")))
	extended := base.Bind("b", Normalise(b("Second")))

	assert.Equal(t, 1, base.Len())
	assert.Equal(t, 2, extended.Len())
	_, ok := base.Lookup("b")
	assert.False(t, ok)
}

func TestSubstString(t *testing.T) {
	s := Identity().
		Bind("b", Dimensionless()).
		Bind("a", Normalise(mul(b("Meter"), inv(b("Second")))))
	assert.Equal(t, "{a ↦ Meter * Second^-1, b ↦ 1}", s.String())
	assert.Equal(t, "{}", Identity().String())
}

func TestComposeAppliesOuterThenInner(t *testing.T) {
	outer := Identity().Bind("a", Normalise(mul(v("b"), b("Meter"))))
	inner := Identity().Bind("b", Normalise(inv(b("Second"))))

	composed := Compose(outer, inner)

	forms := []NormalForm{
		Normalise(v("a")),
		Normalise(mul(pow(v("a"), 2), v("b"))),
		Normalise(mul(v("c"), pow(b("Meter"), -1))),
	}
	for _, nf := range forms {
		want := inner.ApplyTo(outer.ApplyTo(nf))
		got := composed.ApplyTo(nf)
		assert.True(t, got.Equivalent(want), "compose mismatch on %v: got %v, want %v", nf, got, want)
	}

	// the outer binding itself must have been rewritten by inner
	got, ok := composed.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, "Meter * Second^-1", got.String())
}

func TestComposeCollisionKeepsRewrittenOuter(t *testing.T) {
	outer := Identity().Bind("a", Normalise(b("Meter")))
	inner := Identity().Bind("a", Normalise(b("Second")))

	composed := Compose(outer, inner)
	got, ok := composed.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, "Meter", got.String())
}

func TestComposeWithIdentity(t *testing.T) {
	s := Identity().Bind("a", Normalise(b("Meter")))
	assert.Equal(t, s.String(), Compose(s, Identity()).String())
	assert.Equal(t, s.String(), Compose(Identity(), s).String())
}

func TestComposeIsAssociative(t *testing.T) {
	fst := Identity().Bind("a", Normalise(mul(v("b"), v("c"))))
	snd := Identity().Bind("b", Normalise(mul(b("Meter"), v("c"))))
	trd := Identity().Bind("c", Normalise(inv(b("Second"))))

	left := Compose(Compose(fst, snd), trd)
	right := Compose(fst, Compose(snd, trd))

	forms := []NormalForm{
		Normalise(v("a")),
		Normalise(mul(v("a"), pow(v("b"), 2))),
		Normalise(mul(v("c"), b("Kilogram"))),
	}
	for _, nf := range forms {
		assert.True(t, left.ApplyTo(nf).Equivalent(right.ApplyTo(nf)),
			"associativity broken on %v: %v vs %v", nf, left.ApplyTo(nf), right.ApplyTo(nf))
	}
	assert.Equal(t, left.String(), right.String())
}
