package units

import (
	"github.com/benbjohnson/immutable"
	"iter"
	"strings"
)

// Subst is an immutable mapping from unit variable names to normal forms.
// Binding a variable never mutates a Subst; operations return new ones.
//
// The zero value is the identity substitution.
type Subst struct {
	m *immutable.SortedMap
}

// Identity returns the substitution that binds nothing.
func Identity() Subst {
	return Subst{emptyMap}
}

// Len returns the number of bound variables.
func (s Subst) Len() int {
	if s.m == nil {
		return 0
	}
	return s.m.Len()
}

// Lookup returns the binding for a variable name, if any.
func (s Subst) Lookup(name string) (NormalForm, bool) {
	if s.m == nil {
		return NormalForm{}, false
	}
	v, ok := s.m.Get(name)
	if !ok {
		return NormalForm{}, false
	}
	return v.(NormalForm), true
}

// Bind returns a substitution extended with name bound to nf. An existing
// binding for name is replaced.
func (s Subst) Bind(name string, nf NormalForm) Subst {
	m := s.m
	if m == nil {
		m = emptyMap
	}
	return Subst{m.Set(name, nf)}
}

// All iterates bindings in lexicographic order of the variable name.
func (s Subst) All() iter.Seq2[string, NormalForm] {
	return func(yield func(string, NormalForm) bool) {
		if s.m == nil {
			return
		}
		iterator := s.m.Iterator()
		for !iterator.Done() {
			k, v := iterator.Next()
			if !yield(k.(string), v.(NormalForm)) {
				return
			}
		}
	}
}

// Domain iterates the bound variable names in lexicographic order.
func (s Subst) Domain() iter.Seq[string] {
	return func(yield func(string) bool) {
		for name := range s.All() {
			if !yield(name) {
				return
			}
		}
	}
}

// ApplyTo replaces every bound variable of nf by its binding raised to the
// variable's exponent, and renormalises. Unbound variables pass through.
func (s Subst) ApplyTo(nf NormalForm) NormalForm {
	if s.Len() == 0 || nf.vars.isEmpty() {
		return nf
	}
	vars := newExpBuilder(emptyExps)
	bases := newExpBuilder(nf.bases)
	for name, exp := range nf.vars.all() {
		bound, ok := s.Lookup(name)
		if !ok {
			vars.add(name, exp)
			continue
		}
		for n, e := range bound.vars.all() {
			vars.add(n, e*exp)
		}
		for n, e := range bound.bases.all() {
			bases.add(n, e*exp)
		}
	}
	return NormalForm{
		vars:       vars.build(),
		bases:      bases.build(),
		provenance: nf.provenance,
	}
}

// Compose combines two substitutions into one equivalent to applying outer
// first and inner second: for every form nf,
//
//	Compose(outer, inner).ApplyTo(nf) ≡ inner.ApplyTo(outer.ApplyTo(nf))
//
// Bindings of outer have inner applied to their right-hand sides. Where both
// bind the same variable, the rewritten outer binding wins.
func Compose(outer, inner Subst) Subst {
	if outer.Len() == 0 {
		return inner
	}
	if inner.Len() == 0 {
		return outer
	}
	b := immutable.NewSortedMapBuilder(inner.m)
	for name, nf := range outer.All() {
		b.Set(name, inner.ApplyTo(nf))
	}
	return Subst{b.Map()}
}

// String renders the substitution as "{a ↦ Meter, b ↦ 1}", bindings in
// lexicographic order.
func (s Subst) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	first := true
	for name, nf := range s.All() {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(name)
		sb.WriteString(" ↦ ")
		sb.WriteString(nf.String())
	}
	sb.WriteString("}")
	return sb.String()
}
