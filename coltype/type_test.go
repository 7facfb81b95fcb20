// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coltype

import "testing"

func TestEqualIgnoresFieldOrder(t *testing.T) {
	a := Product(Field{Name: "x", Type: Primitive(Int64)}, Field{Name: "y", Type: Primitive(Bool)})
	b := Product(Field{Name: "y", Type: Primitive(Bool)}, Field{Name: "x", Type: Primitive(Int64)})
	if !a.Equal(b) {
		t.Errorf("products with reordered fields should be equal: %s vs %s", a, b)
	}
}

func TestSumDeduplicatesStructurally(t *testing.T) {
	s := Sum(Primitive(Int64), Primitive(Bool), Primitive(Int64))
	if len(s.Alts) != 2 {
		t.Fatalf("Sum alts = %v, want 2 deduplicated alternatives", s.Alts)
	}
}

func TestOrFlattensNestedSums(t *testing.T) {
	inner := Sum(Primitive(Int64), Primitive(Bool))
	outer := inner.Or(Primitive(Float64))
	if outer.Kind != KindSum || len(outer.Alts) != 3 {
		t.Fatalf("Or should flatten into a 3-alternative sum, got %s", outer)
	}
}

func TestOrSingleAlternativeCollapses(t *testing.T) {
	got := Primitive(Int64).Or(Primitive(Int64))
	if got.Kind != KindPrimitive {
		t.Fatalf("Or of identical types should collapse to the primitive itself, got kind %d", got.Kind)
	}
}

func TestAndConcatenatesFields(t *testing.T) {
	a := Product(Field{Name: "x", Type: Primitive(Int64)})
	b := Product(Field{Name: "y", Type: Primitive(Bool)})
	out := a.And(b)
	if len(out.Fields) != 2 {
		t.Fatalf("And should concatenate fields, got %v", out.Fields)
	}
}

func TestAndKeepsFirstOnNameConflict(t *testing.T) {
	a := Product(Field{Name: "x", Type: Primitive(Int64)})
	b := Product(Field{Name: "x", Type: Primitive(Bool)})
	out := a.And(b)
	if len(out.Fields) != 1 || out.Fields[0].Type.Prim != Int64 {
		t.Fatalf("And should keep the first field on a name conflict, got %v", out.Fields)
	}
}

func TestArrayStringUnbounded(t *testing.T) {
	arr := Array(Unbounded, Primitive(Int64))
	if got, want := arr.String(), "var * int64"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
