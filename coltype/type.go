// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coltype implements the logical type algebra of spec §4.4:
// primitives, option(T), array(length, T), product (A & B) and sum
// (A | B), with structural equality modulo field/alternative
// reordering. It mirrors the way the teacher keeps a small closed type
// lattice (robpike.io/ivy/value's valueType ladder) but generalizes it
// from a numeric tower to the full algebra spec.md asks for.
package coltype

import (
	"sort"
	"strings"

	set3 "github.com/TomTonic/Set3"
)

// Prim enumerates the primitive leaf dtypes, mirroring buffer.DType
// plus the two non-numeric leaf kinds (string, bytes) that package
// buffer does not carry.
type Prim int

const (
	Int64 Prim = iota
	Float64
	Complex128
	Bool
	String
	Bytes
	Object
)

func (p Prim) String() string {
	switch p {
	case Int64:
		return "int64"
	case Float64:
		return "float64"
	case Complex128:
		return "complex128"
	case Bool:
		return "bool"
	case String:
		return "string"
	case Bytes:
		return "bytes"
	case Object:
		return "object"
	}
	return "?"
}

// Kind discriminates the five alternatives of the type algebra.
type Kind int

const (
	KindPrimitive Kind = iota
	KindOption
	KindArray
	KindProduct
	KindSum
)

// Unbounded marks an array.Length with no fixed length ("unbounded").
const Unbounded = -1

// Field is one named member of a product type. Fields are kept in
// first-seen order (spec §9, "Construction from heterogeneous
// iterables").
type Field struct {
	Name string
	Type *Type
}

// Type is one node of the logical type algebra.
type Type struct {
	Kind   Kind
	Prim   Prim     // valid when Kind == KindPrimitive
	Elem   *Type    // valid when Kind == KindOption or KindArray
	Length int      // valid when Kind == KindArray; Unbounded if not fixed
	Fields []Field  // valid when Kind == KindProduct, first-seen order
	Alts   []*Type  // valid when Kind == KindSum, first-seen order, deduplicated
}

// Primitive returns the primitive type for p.
func Primitive(p Prim) *Type { return &Type{Kind: KindPrimitive, Prim: p} }

// Option returns option(t).
func Option(t *Type) *Type { return &Type{Kind: KindOption, Elem: t} }

// Array returns array(length, t). Pass Unbounded for an unknown length.
func Array(length int, t *Type) *Type {
	return &Type{Kind: KindArray, Elem: t, Length: length}
}

// Product returns the product type with the given fields, in the
// order given. Use (*Type).And to merge two products field-wise.
func Product(fields ...Field) *Type {
	return &Type{Kind: KindProduct, Fields: fields}
}

// Sum returns the sum type over alts, deduplicating structurally
// equal alternatives and keeping first-seen order, per spec §4.4.
func Sum(alts ...*Type) *Type {
	t := &Type{Kind: KindSum}
	for _, a := range alts {
		t = t.Or(a)
	}
	return t
}

// canonicalKey returns a deterministic string identifying t up to
// field/alternative reordering, used for Set3 membership tests during
// sum deduplication and as a structural-equality cache key.
func (t *Type) canonicalKey() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KindPrimitive:
		return "p:" + t.Prim.String()
	case KindOption:
		return "o:" + t.Elem.canonicalKey()
	case KindArray:
		length := "u"
		if t.Length != Unbounded {
			length = itoa(t.Length)
		}
		return "a:" + length + ":" + t.Elem.canonicalKey()
	case KindProduct:
		keys := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			keys[i] = f.Name + "=" + f.Type.canonicalKey()
		}
		sort.Strings(keys)
		return "r:{" + strings.Join(keys, ",") + "}"
	case KindSum:
		keys := make([]string, len(t.Alts))
		for i, a := range t.Alts {
			keys[i] = a.canonicalKey()
		}
		sort.Strings(keys)
		return "u:{" + strings.Join(keys, "|") + "}"
	}
	return "?"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Equal reports whether t and u are structurally equal, treating
// product field order and sum alternative order as insignificant
// (spec §4.4 "type equality is structural modulo field reordering in
// products and alternative reordering in sums").
func (t *Type) Equal(u *Type) bool {
	if t == nil || u == nil {
		return t == u
	}
	return t.canonicalKey() == u.canonicalKey()
}

// String renders t in its declared (not canonicalized) field/
// alternative order, for diagnostics and persistence schema display.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KindPrimitive:
		return t.Prim.String()
	case KindOption:
		return "?" + t.Elem.String()
	case KindArray:
		if t.Length == Unbounded {
			return "var * " + t.Elem.String()
		}
		return itoa(t.Length) + " * " + t.Elem.String()
	case KindProduct:
		parts := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			parts[i] = f.Name + ": " + f.Type.String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindSum:
		parts := make([]string, len(t.Alts))
		for i, a := range t.Alts {
			parts[i] = a.String()
		}
		return strings.Join(parts, " | ")
	}
	return "?"
}

// Or returns the sum t | u, flattening nested sums and deduplicating
// structurally equal alternatives while keeping first-seen order.
func (t *Type) Or(u *Type) *Type {
	seen := set3.Empty[string]()
	var alts []*Type
	add := func(x *Type) {
		key := x.canonicalKey()
		if seen.Contains(key) {
			return
		}
		seen.Add(key)
		alts = append(alts, x)
	}
	flatten := func(x *Type) {
		if x.Kind == KindSum {
			for _, a := range x.Alts {
				add(a)
			}
		} else {
			add(x)
		}
	}
	if t != nil {
		flatten(t)
	}
	if u != nil {
		flatten(u)
	}
	if len(alts) == 1 {
		return alts[0]
	}
	return &Type{Kind: KindSum, Alts: alts}
}

// And returns the product concatenation t & u (spec §4.4: "record
// concatenation; associative, commutative up to field order").
// Fields already present in t by name are left untouched (the type
// lattice never needs to reconcile a column against itself); a field
// with the same name but a structurally different type is a conflict
// and the second occurrence is dropped in favor of the first, matching
// how a Table's column type is fixed at construction.
func (t *Type) And(u *Type) *Type {
	var fields []Field
	have := map[string]bool{}
	appendFields := func(x *Type) {
		if x == nil {
			return
		}
		if x.Kind != KindProduct {
			return
		}
		for _, f := range x.Fields {
			if have[f.Name] {
				continue
			}
			have[f.Name] = true
			fields = append(fields, f)
		}
	}
	appendFields(t)
	appendFields(u)
	return &Type{Kind: KindProduct, Fields: fields}
}

// IsOption reports whether t is an option(...) type.
func (t *Type) IsOption() bool { return t != nil && t.Kind == KindOption }
