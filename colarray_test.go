// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package colarray

import (
	"reflect"
	"testing"

	"github.com/awkgo/colarray/buffer"
)

func leafInts(xs ...int64) *Leaf { return NewLeaf(buffer.NewInt64(xs)) }

func TestJaggedFromCounts(t *testing.T) {
	content := leafInts(1, 2, 3, 4, 5)
	j, err := FromCounts([]int{2, 0, 3}, content)
	if err != nil {
		t.Fatal(err)
	}
	if j.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", j.Len())
	}
	got := j.ToList()
	want := []interface{}{
		[]interface{}{int64(1), int64(2)},
		[]interface{}{},
		[]interface{}{int64(3), int64(4), int64(5)},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ToList() = %v, want %v", got, want)
	}
}

func TestJaggedRowOutOfBounds(t *testing.T) {
	content := leafInts(1, 2, 3)
	j, err := FromCounts([]int{3}, content)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := j.Row(5); err == nil {
		t.Fatal("expected out-of-bounds error for row 5")
	}
}

func TestJaggedCompactGathersNonCompactRows(t *testing.T) {
	// starts/stops out of order relative to content, and non-adjacent:
	// row 0 is content[3:5], row 1 is content[0:2].
	content := leafInts(10, 20, 30, 40, 50)
	j, err := NewJagged([]int{3, 0}, []int{5, 2}, content)
	if err != nil {
		t.Fatal(err)
	}
	if j.IsCompact() {
		t.Fatal("expected non-compact jagged")
	}
	jc := j.Compact()
	if !jc.IsCompact() {
		t.Fatal("Compact() result should be compact")
	}
	want := []interface{}{
		[]interface{}{int64(40), int64(50)},
		[]interface{}{int64(10), int64(20)},
	}
	if got := jc.ToList(); !reflect.DeepEqual(got, want) {
		t.Errorf("Compact().ToList() = %v, want %v", got, want)
	}
}

func TestBoolmaskedNulls(t *testing.T) {
	content := leafInts(1, 2, 3)
	m, err := NewBoolmasked([]bool{false, true, false}, content, true)
	if err != nil {
		t.Fatal(err)
	}
	got := m.ToList()
	want := []interface{}{int64(1), Null{}, int64(3)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ToList() = %v, want %v", got, want)
	}
}

func TestTableFieldAndProject(t *testing.T) {
	tbl, err := NewTable(
		[]string{"x", "y"},
		[]Node{leafInts(1, 2, 3), leafInts(10, 20, 30)},
	)
	if err != nil {
		t.Fatal(err)
	}
	x, err := tbl.Field("x")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(x.ToList(), []interface{}{int64(1), int64(2), int64(3)}) {
		t.Errorf("Field(x) = %v", x.ToList())
	}
	proj, err := tbl.Project("y", "x")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(proj.Names(), []string{"y", "x"}) {
		t.Errorf("Project names = %v, want [y x]", proj.Names())
	}
	// repeated projection should hit the cache and return the same *Table.
	proj2, err := tbl.Project("y", "x")
	if err != nil {
		t.Fatal(err)
	}
	if proj != proj2 {
		t.Errorf("Project should return the cached *Table on repeat, got distinct pointers")
	}
}

func TestTableLengthMismatchRejected(t *testing.T) {
	_, err := NewTable([]string{"x", "y"}, []Node{leafInts(1, 2), leafInts(1, 2, 3)})
	if err == nil {
		t.Fatal("expected length-mismatch error")
	}
}

func TestUnionRoundTrip(t *testing.T) {
	ints := leafInts(100, 200)
	bools := NewLeaf(buffer.NewBool([]bool{true}))
	u, err := NewUnion([]int{0, 1, 0}, []int{0, 0, 1}, []Node{ints, bools})
	if err != nil {
		t.Fatal(err)
	}
	want := []interface{}{int64(100), true, int64(200)}
	if got := u.ToList(); !reflect.DeepEqual(got, want) {
		t.Errorf("ToList() = %v, want %v", got, want)
	}
}

func TestUnionRejectsOutOfRangeTag(t *testing.T) {
	ints := leafInts(1)
	if _, err := NewUnion([]int{5}, []int{0}, []Node{ints}); err == nil {
		t.Fatal("expected out-of-range tag to fail")
	}
}

func TestChunkedConcatenatesLogicalView(t *testing.T) {
	c, err := NewChunked([]Node{leafInts(1, 2), leafInts(3, 4, 5)}, []int{2, 3})
	if err != nil {
		t.Fatal(err)
	}
	want := []interface{}{int64(1), int64(2), int64(3), int64(4), int64(5)}
	if got := c.ToList(); !reflect.DeepEqual(got, want) {
		t.Errorf("ToList() = %v, want %v", got, want)
	}
}

func TestStringNodeRangeSliceRebasesOffsets(t *testing.T) {
	sn, err := NewStringNode([]int{0, 2, 7, 9}, []byte("hiworldgo"), nil)
	if err != nil {
		t.Fatal(err)
	}
	sliced := sn.RangeSlice(1, 3).(*StringNode)
	if sliced.Offsets[0] != 0 {
		t.Fatalf("sliced Offsets[0] = %d, want 0", sliced.Offsets[0])
	}
	want := []interface{}{"world", "go"}
	if got := sliced.ToList(); !reflect.DeepEqual(got, want) {
		t.Errorf("ToList() = %v, want %v", got, want)
	}
	// re-slicing the rebased offsets must still satisfy NewStringNode's
	// own invariant, the same check Save/Load relies on.
	if _, err := NewStringNode(sliced.Offsets, sliced.Chars, nil); err != nil {
		t.Errorf("rebased offsets failed NewStringNode's own validation: %v", err)
	}
}

func TestIndexedGathersByIndex(t *testing.T) {
	dict := leafInts(7, 8, 9)
	idx, err := NewIndexed([]int{2, 0, 0, 1}, dict)
	if err != nil {
		t.Fatal(err)
	}
	want := []interface{}{int64(9), int64(7), int64(7), int64(8)}
	if got := idx.ToList(); !reflect.DeepEqual(got, want) {
		t.Errorf("ToList() = %v, want %v", got, want)
	}
}
