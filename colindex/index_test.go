// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package colindex

import (
	"reflect"
	"testing"

	"github.com/awkgo/colarray"
	"github.com/awkgo/colarray/buffer"
)

func leafInts(xs ...int64) *colarray.Leaf { return colarray.NewLeaf(buffer.NewInt64(xs)) }

func jaggedFromCounts(t *testing.T, counts []int, content colarray.Node) *colarray.Jagged {
	t.Helper()
	j, err := colarray.FromCounts(counts, content)
	if err != nil {
		t.Fatal(err)
	}
	return j
}

func TestIndexIntSelectsSingleElement(t *testing.T) {
	n := leafInts(1, 2, 3)
	got, err := Index(n, IntSel(1))
	if err != nil {
		t.Fatal(err)
	}
	if got != int64(2) {
		t.Errorf("Index(n, 1) = %v, want 2", got)
	}
}

func TestIndexJaggedSliceThenInnerInt(t *testing.T) {
	// N[:, 1] on a jagged: outer slice preserves rows, inner int
	// applies per-row (spec rule 4).
	content := leafInts(10, 20, 30, 40, 50, 60)
	j := jaggedFromCounts(t, []int{2, 2, 2}, content)
	got, err := Index(j, SliceSel{}, IntSel(1))
	if err != nil {
		t.Fatal(err)
	}
	node, ok := got.(colarray.Node)
	if !ok {
		t.Fatalf("expected a Node result, got %T", got)
	}
	want := []interface{}{int64(20), int64(40), int64(60)}
	if got := node.ToList(); !reflect.DeepEqual(got, want) {
		t.Errorf("ToList() = %v, want %v", got, want)
	}
}

func TestIndexJaggedInnerOutOfBoundsFails(t *testing.T) {
	content := leafInts(1, 2, 3, 4)
	j := jaggedFromCounts(t, []int{1, 3}, content) // row 0 has length 1
	if _, err := Index(j, SliceSel{}, IntSel(2)); err == nil {
		t.Fatal("expected out-of-bounds error: row 0 has no index 2")
	}
}

func TestIndexBooleanMaskThenIndex(t *testing.T) {
	n := leafInts(10, 20, 30, 40)
	masked, err := Index(n, BoolArraySel{true, false, true, false})
	if err != nil {
		t.Fatal(err)
	}
	node := masked.(colarray.Node)
	if node.Len() != 2 {
		t.Fatalf("masked length = %d, want 2", node.Len())
	}
	got, err := Index(node, IntSel(1))
	if err != nil {
		t.Fatal(err)
	}
	if got != int64(30) {
		t.Errorf("Index(masked, 1) = %v, want 30", got)
	}
}

func TestIndexNegativeIntWraps(t *testing.T) {
	n := leafInts(1, 2, 3)
	got, err := Index(n, IntSel(-1))
	if err != nil {
		t.Fatal(err)
	}
	if got != int64(3) {
		t.Errorf("Index(n, -1) = %v, want 3", got)
	}
}

func TestIndexFieldSelectorOnJaggedOfTable(t *testing.T) {
	tbl, err := colarray.NewTable([]string{"x"}, []colarray.Node{leafInts(1, 2, 3, 4, 5)})
	if err != nil {
		t.Fatal(err)
	}
	j := jaggedFromCounts(t, []int{2, 3}, tbl)
	got, err := Index(j, FieldSel("x"))
	if err != nil {
		t.Fatal(err)
	}
	node, ok := got.(colarray.Node)
	if !ok {
		t.Fatalf("expected Node, got %T", got)
	}
	want := []interface{}{
		[]interface{}{int64(1), int64(2)},
		[]interface{}{int64(3), int64(4), int64(5)},
	}
	if got := node.ToList(); !reflect.DeepEqual(got, want) {
		t.Errorf("ToList() = %v, want %v", got, want)
	}
}

func TestIndexIntArraySelGathers(t *testing.T) {
	n := leafInts(10, 20, 30, 40)
	got, err := Index(n, IntArraySel{3, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	node := got.(colarray.Node)
	want := []interface{}{int64(40), int64(10), int64(10)}
	if got := node.ToList(); !reflect.DeepEqual(got, want) {
		t.Errorf("ToList() = %v, want %v", got, want)
	}
}

func TestIndexIntArrayOutOfRangeFails(t *testing.T) {
	n := leafInts(1, 2, 3)
	if _, err := Index(n, IntArraySel{5}); err == nil {
		t.Fatal("expected out-of-bounds error")
	}
}
