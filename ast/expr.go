// Package ast defines the syntax tree for unit-of-measure expressions.
//
// Unit expressions form a free abelian group: atoms (base units and unit
// variables) combined through products, inverses, and integer powers. The
// set of expression nodes is closed; code that consumes an Expr can switch
// over the types below and assume no other implementations exist.
//
// By convention, names starting with an upper-case letter denote base units
// (Meter, Second) and names starting with a lower-case letter denote unit
// variables (a, speed, α). The parser enforces this convention; programmatic
// construction is expected to follow it.
package ast

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"strconv"
)

// Expr is the interface for all unit expression nodes.
type Expr interface {
	Positioner
	fmt.Stringer
	Hash() uint64
	exprNode() // Marker method to keep the expression set closed
}

var _ Expr = (*One)(nil)
var _ Expr = (*Base)(nil)
var _ Expr = (*Var)(nil)
var _ Expr = (*Product)(nil)
var _ Expr = (*Inverse)(nil)
var _ Expr = (*Power)(nil)

// One is the dimensionless unit, the identity of the group.
type One struct {
	Range
}

func (e *One) exprNode() {}

func (e *One) String() string { return "1" }

// Hash returns a hash value for the One literal
func (e *One) Hash() uint64 {
	h := fnv.New64a()
	arr := []byte("One")
	arr = binary.LittleEndian.AppendUint64(arr, e.Range.Hash())
	_, _ = h.Write(arr)
	return h.Sum64()
}

// Base is a named base unit, such as Meter or Second.
//
// Base units are uninterpreted: two base units are the same exactly when
// their names are equal.
type Base struct {
	Range
	Name string
}

func (e *Base) exprNode() {}

func (e *Base) String() string { return e.Name }

// Hash returns a hash value for the Base, based on its structural characteristics
func (e *Base) Hash() uint64 {
	h := fnv.New64a()
	arr := []byte("Base")
	_, _ = h.Write([]byte(e.Name))
	arr = binary.LittleEndian.AppendUint64(arr, e.Range.Hash())
	_, _ = h.Write(arr)
	return h.Sum64()
}

// Var is a unit variable standing for an unknown unit expression.
type Var struct {
	Range
	Name string
}

func (e *Var) exprNode() {}

func (e *Var) String() string { return e.Name }

// Hash returns a hash value for the Var, based on its structural characteristics
func (e *Var) Hash() uint64 {
	h := fnv.New64a()
	arr := []byte("Var")
	_, _ = h.Write([]byte(e.Name))
	arr = binary.LittleEndian.AppendUint64(arr, e.Range.Hash())
	_, _ = h.Write(arr)
	return h.Sum64()
}

// Product is the product of two unit expressions.
type Product struct {
	Range
	Lhs Expr
	Rhs Expr
}

func (e *Product) exprNode() {}

func (e *Product) String() string {
	return e.Lhs.String() + " * " + e.Rhs.String()
}

// Hash returns a hash value for the Product, based on its structural characteristics
func (e *Product) Hash() uint64 {
	h := fnv.New64a()
	arr := []byte("Product")
	arr = binary.LittleEndian.AppendUint64(arr, e.Lhs.Hash())
	arr = binary.LittleEndian.AppendUint64(arr, e.Rhs.Hash())
	arr = binary.LittleEndian.AppendUint64(arr, e.Range.Hash())
	_, _ = h.Write(arr)
	return h.Sum64()
}

// Inverse is the multiplicative inverse of a unit expression.
type Inverse struct {
	Range
	Of Expr
}

func (e *Inverse) exprNode() {}

func (e *Inverse) String() string {
	return parenthesized(e.Of) + "^-1"
}

// Hash returns a hash value for the Inverse, based on its structural characteristics
func (e *Inverse) Hash() uint64 {
	h := fnv.New64a()
	arr := []byte("Inverse")
	arr = binary.LittleEndian.AppendUint64(arr, e.Of.Hash())
	arr = binary.LittleEndian.AppendUint64(arr, e.Range.Hash())
	_, _ = h.Write(arr)
	return h.Sum64()
}

// Power raises a unit expression to an integer exponent.
type Power struct {
	Range
	Of  Expr
	Exp int
}

func (e *Power) exprNode() {}

func (e *Power) String() string {
	return parenthesized(e.Of) + "^" + strconv.Itoa(e.Exp)
}

// Hash returns a hash value for the Power, based on its structural characteristics
func (e *Power) Hash() uint64 {
	h := fnv.New64a()
	arr := []byte("Power")
	arr = binary.LittleEndian.AppendUint64(arr, e.Of.Hash())
	arr = binary.LittleEndian.AppendUint64(arr, uint64(e.Exp))
	arr = binary.LittleEndian.AppendUint64(arr, e.Range.Hash())
	_, _ = h.Write(arr)
	return h.Sum64()
}

// parenthesized renders an operand of ^, wrapping composite expressions so
// the result reads back with the same structure.
func parenthesized(e Expr) string {
	switch e.(type) {
	case *Product, *Inverse, *Power:
		return "(" + e.String() + ")"
	default:
		return e.String()
	}
}

// Equation equates two unit expressions. It is the top-level declaration of
// a unit source file, and what inference consumes as input.
type Equation struct {
	Range
	Lhs Expr
	Rhs Expr
}

func (e *Equation) String() string {
	return e.Lhs.String() + " = " + e.Rhs.String()
}

// Hash returns a hash value for the Equation, based on its structural characteristics
func (e *Equation) Hash() uint64 {
	h := fnv.New64a()
	arr := []byte("Equation")
	arr = binary.LittleEndian.AppendUint64(arr, e.Lhs.Hash())
	arr = binary.LittleEndian.AppendUint64(arr, e.Rhs.Hash())
	arr = binary.LittleEndian.AppendUint64(arr, e.Range.Hash())
	_, _ = h.Write(arr)
	return h.Sum64()
}
