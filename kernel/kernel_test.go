// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"reflect"
	"testing"

	"github.com/awkgo/colarray"
	"github.com/awkgo/colarray/buffer"
)

func leafInts(xs ...int64) *colarray.Leaf { return colarray.NewLeaf(buffer.NewInt64(xs)) }

func TestBinaryLeafLeaf(t *testing.T) {
	a := leafInts(1, 2, 3)
	b := leafInts(10, 20, 30)
	out, err := Binary(buffer.Add, a, b)
	if err != nil {
		t.Fatal(err)
	}
	want := []interface{}{int64(11), int64(22), int64(33)}
	if got := out.ToList(); !reflect.DeepEqual(got, want) {
		t.Errorf("ToList() = %v, want %v", got, want)
	}
}

func TestBinaryJaggedPlusScalarBroadcastsByParents(t *testing.T) {
	content := leafInts(1, 2, 3, 4, 5)
	j, err := colarray.FromCounts([]int{2, 3}, content)
	if err != nil {
		t.Fatal(err)
	}
	perRow := leafInts(100, 200) // one scalar per row, broadcast by parents
	out, err := Binary(buffer.Add, j, perRow)
	if err != nil {
		t.Fatal(err)
	}
	want := []interface{}{
		[]interface{}{int64(101), int64(102)},
		[]interface{}{int64(203), int64(204), int64(205)},
	}
	if got := out.ToList(); !reflect.DeepEqual(got, want) {
		t.Errorf("ToList() = %v, want %v", got, want)
	}
}

func TestBinaryJaggedJaggedRequiresEqualShape(t *testing.T) {
	a, _ := colarray.FromCounts([]int{2, 1}, leafInts(1, 2, 3))
	b, _ := colarray.FromCounts([]int{1, 2}, leafInts(1, 2, 3))
	if _, err := Binary(buffer.Add, a, b); err == nil {
		t.Fatal("expected incompatible-jagged error for mismatched row shapes")
	}
}

func TestBinaryMaskedPropagatesNulls(t *testing.T) {
	a, err := colarray.NewBoolmasked([]bool{false, true, false}, leafInts(1, 2, 3), true)
	if err != nil {
		t.Fatal(err)
	}
	b := leafInts(10, 20, 30)
	out, err := Binary(buffer.Add, a, b)
	if err != nil {
		t.Fatal(err)
	}
	want := []interface{}{int64(11), colarray.Null{}, int64(33)}
	if got := out.ToList(); !reflect.DeepEqual(got, want) {
		t.Errorf("ToList() = %v, want %v", got, want)
	}
}

func TestUnaryNegThroughJagged(t *testing.T) {
	j, _ := colarray.FromCounts([]int{2, 1}, leafInts(1, -2, 3))
	out, err := Unary(buffer.Neg, j)
	if err != nil {
		t.Fatal(err)
	}
	want := []interface{}{
		[]interface{}{int64(-1), int64(2)},
		[]interface{}{int64(-3)},
	}
	if got := out.ToList(); !reflect.DeepEqual(got, want) {
		t.Errorf("ToList() = %v, want %v", got, want)
	}
}

func TestReduceJaggedSumsPerRow(t *testing.T) {
	j, _ := colarray.FromCounts([]int{3, 0, 2}, leafInts(1, 2, 3, 10, 20))
	out, err := Reduce(buffer.Add, j)
	if err != nil {
		t.Fatal(err)
	}
	want := []interface{}{int64(6), int64(0), int64(30)}
	if got := out.ToList(); !reflect.DeepEqual(got, want) {
		t.Errorf("ToList() = %v, want %v", got, want)
	}
}

func TestReduceEmptyRowUsesNeutralElement(t *testing.T) {
	j, _ := colarray.FromCounts([]int{0}, leafInts())
	out, err := Reduce(buffer.Mul, j)
	if err != nil {
		t.Fatal(err)
	}
	if got := out.ToList(); !reflect.DeepEqual(got, []interface{}{int64(1)}) {
		t.Errorf("ToList() = %v, want [1] (multiplicative identity)", got)
	}
}

func TestReduceTableAppliesPerColumn(t *testing.T) {
	tbl, err := colarray.NewTable([]string{"x"}, []colarray.Node{
		mustJagged(t, []int{2, 2}, leafInts(1, 2, 3, 4)),
	})
	if err != nil {
		t.Fatal(err)
	}
	out, err := Reduce(buffer.Add, tbl)
	if err != nil {
		t.Fatal(err)
	}
	tOut := out.(*colarray.Table)
	x, _ := tOut.Field("x")
	want := []interface{}{int64(3), int64(7)}
	if got := x.ToList(); !reflect.DeepEqual(got, want) {
		t.Errorf("x.ToList() = %v, want %v", got, want)
	}
}

func mustJagged(t *testing.T, counts []int, content colarray.Node) *colarray.Jagged {
	t.Helper()
	j, err := colarray.FromCounts(counts, content)
	if err != nil {
		t.Fatal(err)
	}
	return j
}
