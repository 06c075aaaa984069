package units

import (
	"github.com/benbjohnson/immutable"
	"iter"
)

var emptyMap = immutable.NewSortedMap(nil)

// expMap is an immutable mapping from atom names to nonzero integer
// exponents. Entries with exponent zero are never stored, so two maps
// represent the same group element exactly when they are equal entry-wise,
// and iteration order is the canonical (lexicographic) atom order.
//
// The zero value is the empty map, so zero-valued NormalForms behave as
// dimensionless.
type expMap struct {
	m *immutable.SortedMap
}

var emptyExps = expMap{emptyMap}

// degree returns the exponent of the given atom, zero when absent.
func (e expMap) degree(name string) int {
	if e.m == nil {
		return 0
	}
	v, ok := e.m.Get(name)
	if !ok {
		return 0
	}
	return v.(int)
}

func (e expMap) size() int {
	if e.m == nil {
		return 0
	}
	return e.m.Len()
}

func (e expMap) isEmpty() bool { return e.size() == 0 }

// all iterates entries in lexicographic name order.
func (e expMap) all() iter.Seq2[string, int] {
	return func(yield func(string, int) bool) {
		if e.m == nil {
			return
		}
		iterator := e.m.Iterator()
		for !iterator.Done() {
			k, v := iterator.Next()
			if !yield(k.(string), v.(int)) {
				return
			}
		}
	}
}

// times is the pointwise sum of exponents, the group product.
func (e expMap) times(other expMap) expMap {
	b := newExpBuilder(e)
	for name, exp := range other.all() {
		b.add(name, exp)
	}
	return b.build()
}

// scaled multiplies every exponent by k, the group power.
func (e expMap) scaled(k int) expMap {
	if k == 0 {
		return emptyExps
	}
	if k == 1 {
		return e
	}
	b := newExpBuilder(emptyExps)
	for name, exp := range e.all() {
		b.set(name, exp*k)
	}
	return b.build()
}

func (e expMap) equal(other expMap) bool {
	if e.size() != other.size() {
		return false
	}
	for name, exp := range e.all() {
		if other.degree(name) != exp {
			return false
		}
	}
	return true
}

// expBuilder accumulates exponent deltas before freezing them into an
// expMap. It maintains the nonzero invariant as it goes.
type expBuilder struct {
	b *immutable.SortedMapBuilder
}

func newExpBuilder(from expMap) expBuilder {
	m := from.m
	if m == nil {
		m = emptyMap
	}
	return expBuilder{immutable.NewSortedMapBuilder(m)}
}

// add sums delta into the exponent for name, removing the entry when the
// total reaches zero.
func (b expBuilder) add(name string, delta int) {
	if delta == 0 {
		return
	}
	total := delta
	if prev, ok := b.b.Get(name); ok {
		total += prev.(int)
	}
	if total == 0 {
		b.b.Delete(name)
		return
	}
	b.b.Set(name, total)
}

// set overwrites the exponent for name, removing the entry on zero.
func (b expBuilder) set(name string, exp int) {
	if exp == 0 {
		b.b.Delete(name)
		return
	}
	b.b.Set(name, exp)
}

func (b expBuilder) build() expMap {
	return expMap{b.b.Map()}
}
