// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package arrowbridge

import (
	"reflect"
	"testing"

	"github.com/awkgo/colarray"
	"github.com/awkgo/colarray/buffer"
)

func leafInts(xs ...int64) *colarray.Leaf { return colarray.NewLeaf(buffer.NewInt64(xs)) }

// fakeArray is the ExternalArray test double: it just remembers what
// it was built from, so assertions can inspect the shape a real Arrow
// binding would have been handed.
type fakeArray struct {
	kind     string
	values   interface{}
	nullMask []bool
	indices  []int
	dict     ExternalArray
	offsets  []int
	items    ExternalArray
	names    []string
	fields   []ExternalArray
	tags     []int8
	index    []int32
	children []ExternalArray
	chars    []byte
	length   int
}

func (f *fakeArray) Len() int { return f.length }

type fakeFactory struct{}

func (fakeFactory) Primitive(values interface{}, nullMask []bool) ExternalArray {
	return &fakeArray{kind: "primitive", values: values, nullMask: nullMask, length: reflectLen(values)}
}

func (fakeFactory) DictionaryEncoded(indices []int, dictionary ExternalArray) ExternalArray {
	return &fakeArray{kind: "dictionary", indices: indices, dict: dictionary, length: len(indices)}
}

func (fakeFactory) List(offsets []int, values ExternalArray) ExternalArray {
	return &fakeArray{kind: "list", offsets: offsets, items: values, length: len(offsets) - 1}
}

func (fakeFactory) Struct(names []string, fields []ExternalArray) ExternalArray {
	l := 0
	if len(fields) > 0 {
		l = fields[0].Len()
	}
	return &fakeArray{kind: "struct", names: names, fields: fields, length: l}
}

func (fakeFactory) DenseUnion(tags []int8, index []int32, children []ExternalArray) ExternalArray {
	return &fakeArray{kind: "union", tags: tags, index: index, children: children, length: len(tags)}
}

func (fakeFactory) Utf8List(offsets []int, chars []byte) ExternalArray {
	return &fakeArray{kind: "utf8", offsets: offsets, chars: chars, length: len(offsets) - 1}
}

func reflectLen(values interface{}) int {
	switch v := values.(type) {
	case []interface{}:
		return len(v)
	}
	return 0
}

func TestToExternalLeafMapsToPrimitive(t *testing.T) {
	out, err := ToExternal(leafInts(1, 2, 3), fakeFactory{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	fa := out.(*fakeArray)
	if fa.kind != "primitive" {
		t.Fatalf("kind = %q, want primitive", fa.kind)
	}
	want := []interface{}{int64(1), int64(2), int64(3)}
	if !reflect.DeepEqual(fa.values, want) {
		t.Errorf("values = %v, want %v", fa.values, want)
	}
}

func TestToExternalIndexedWithoutMaskUsesDictionary(t *testing.T) {
	dict := leafInts(7, 8, 9)
	idx, err := colarray.NewIndexed([]int{2, 0, 1}, dict)
	if err != nil {
		t.Fatal(err)
	}
	out, err := ToExternal(idx, fakeFactory{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	fa := out.(*fakeArray)
	if fa.kind != "dictionary" {
		t.Fatalf("kind = %q, want dictionary", fa.kind)
	}
	if !reflect.DeepEqual(fa.indices, []int{2, 0, 1}) {
		t.Errorf("indices = %v", fa.indices)
	}
}

func TestToExternalIndexedWithMaskGathersAndRecurses(t *testing.T) {
	dict := leafInts(7, 8, 9)
	idx, err := colarray.NewIndexed([]int{2, 0, 1}, dict)
	if err != nil {
		t.Fatal(err)
	}
	out, err := ToExternal(idx, fakeFactory{}, []bool{false, true, false})
	if err != nil {
		t.Fatal(err)
	}
	fa := out.(*fakeArray)
	if fa.kind != "primitive" {
		t.Fatalf("kind = %q, want primitive (gathered then recursed)", fa.kind)
	}
	if !reflect.DeepEqual(fa.nullMask, []bool{false, true, false}) {
		t.Errorf("nullMask = %v", fa.nullMask)
	}
}

func TestToExternalJaggedMapsToList(t *testing.T) {
	content := leafInts(1, 2, 3, 4, 5)
	j, err := colarray.FromCounts([]int{2, 3}, content)
	if err != nil {
		t.Fatal(err)
	}
	out, err := ToExternal(j, fakeFactory{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	fa := out.(*fakeArray)
	if fa.kind != "list" {
		t.Fatalf("kind = %q, want list", fa.kind)
	}
	if !reflect.DeepEqual(fa.offsets, []int{0, 2, 5}) {
		t.Errorf("offsets = %v, want [0 2 5]", fa.offsets)
	}
}

func TestToExternalMaskedCollapsesIntoLeafMask(t *testing.T) {
	m, err := colarray.NewBoolmasked([]bool{false, true, false}, leafInts(1, 2, 3), true)
	if err != nil {
		t.Fatal(err)
	}
	out, err := ToExternal(m, fakeFactory{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	fa := out.(*fakeArray)
	if fa.kind != "primitive" {
		t.Fatalf("kind = %q, want primitive", fa.kind)
	}
	if !reflect.DeepEqual(fa.nullMask, []bool{false, true, false}) {
		t.Errorf("nullMask = %v, want [false true false]", fa.nullMask)
	}
}

func TestToExternalTableMapsToStruct(t *testing.T) {
	tbl, err := colarray.NewTable([]string{"x", "y"}, []colarray.Node{leafInts(1, 2), leafInts(3, 4)})
	if err != nil {
		t.Fatal(err)
	}
	out, err := ToExternal(tbl, fakeFactory{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	fa := out.(*fakeArray)
	if fa.kind != "struct" || !reflect.DeepEqual(fa.names, []string{"x", "y"}) {
		t.Fatalf("kind/names = %q/%v", fa.kind, fa.names)
	}
}

func TestToExternalUnionRejectsRepeatedIndexUnderMask(t *testing.T) {
	ints := leafInts(1, 2)
	u, err := colarray.NewUnion([]int{0, 0}, []int{0, 0}, []colarray.Node{ints})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ToExternal(u, fakeFactory{}, []bool{false, true}); err == nil {
		t.Fatal("expected unsupported-conversion for a repeated (tag, index) pair under a null mask")
	}
}

func TestToExternalUnionWithoutMaskSucceeds(t *testing.T) {
	ints := leafInts(1, 2)
	u, err := colarray.NewUnion([]int{0, 0}, []int{0, 0}, []colarray.Node{ints})
	if err != nil {
		t.Fatal(err)
	}
	out, err := ToExternal(u, fakeFactory{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	fa := out.(*fakeArray)
	if fa.kind != "union" {
		t.Fatalf("kind = %q, want union", fa.kind)
	}
}

func TestToExternalStringNodeMapsToUtf8List(t *testing.T) {
	sn, err := colarray.NewStringNode([]int{0, 2, 5}, []byte("hiworld"), nil)
	if err != nil {
		t.Fatal(err)
	}
	out, err := ToExternal(sn, fakeFactory{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	fa := out.(*fakeArray)
	if fa.kind != "utf8" {
		t.Fatalf("kind = %q, want utf8", fa.kind)
	}
}

// fakeSource is the ExternalSource test double for FromExternal.
type fakeSource struct {
	kind        Kind
	nullMask    []bool
	primValues  interface{}
	dictIndices []int
	dictValues  ExternalSource
	listOffsets []int
	listValues  ExternalSource
	structNames []string
	structVals  []ExternalSource
	unionTags   []int8
	unionIndex  []int32
	unionKids   []ExternalSource
	utf8Offsets []int
	utf8Chars   []byte
}

func (f *fakeSource) Kind() Kind                                { return f.kind }
func (f *fakeSource) NullMask() []bool                          { return f.nullMask }
func (f *fakeSource) PrimitiveValues() interface{}              { return f.primValues }
func (f *fakeSource) DictIndices() []int                        { return f.dictIndices }
func (f *fakeSource) DictValues() ExternalSource                { return f.dictValues }
func (f *fakeSource) ListOffsets() []int                        { return f.listOffsets }
func (f *fakeSource) ListValues() ExternalSource                { return f.listValues }
func (f *fakeSource) StructFields() ([]string, []ExternalSource) { return f.structNames, f.structVals }
func (f *fakeSource) UnionTags() []int8                         { return f.unionTags }
func (f *fakeSource) UnionIndex() []int32                       { return f.unionIndex }
func (f *fakeSource) UnionChildren() []ExternalSource           { return f.unionKids }
func (f *fakeSource) Utf8Offsets() []int                        { return f.utf8Offsets }
func (f *fakeSource) Utf8Chars() []byte                         { return f.utf8Chars }

func TestFromExternalPrimitiveWithoutMask(t *testing.T) {
	src := &fakeSource{kind: KindPrimitive, primValues: []int64{1, 2, 3}}
	n, err := FromExternal(src)
	if err != nil {
		t.Fatal(err)
	}
	want := []interface{}{int64(1), int64(2), int64(3)}
	if got := n.ToList(); !reflect.DeepEqual(got, want) {
		t.Errorf("ToList() = %v, want %v", got, want)
	}
}

func TestFromExternalPrimitiveWithMaskWrapsInBoolmasked(t *testing.T) {
	src := &fakeSource{kind: KindPrimitive, primValues: []int64{1, 2, 3}, nullMask: []bool{false, true, false}}
	n, err := FromExternal(src)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := n.(*colarray.Boolmasked); !ok {
		t.Fatalf("expected *colarray.Boolmasked, got %T", n)
	}
	want := []interface{}{int64(1), colarray.Null{}, int64(3)}
	if got := n.ToList(); !reflect.DeepEqual(got, want) {
		t.Errorf("ToList() = %v, want %v", got, want)
	}
}

func TestFromExternalDictionaryReconstructsIndexed(t *testing.T) {
	dictSrc := &fakeSource{kind: KindPrimitive, primValues: []int64{7, 8, 9}}
	src := &fakeSource{kind: KindDictionary, dictIndices: []int{2, 0, 1}, dictValues: dictSrc}
	n, err := FromExternal(src)
	if err != nil {
		t.Fatal(err)
	}
	want := []interface{}{int64(9), int64(7), int64(8)}
	if got := n.ToList(); !reflect.DeepEqual(got, want) {
		t.Errorf("ToList() = %v, want %v", got, want)
	}
}

func TestFromExternalListReconstructsJagged(t *testing.T) {
	valuesSrc := &fakeSource{kind: KindPrimitive, primValues: []int64{1, 2, 3, 4, 5}}
	src := &fakeSource{kind: KindList, listOffsets: []int{0, 2, 5}, listValues: valuesSrc}
	n, err := FromExternal(src)
	if err != nil {
		t.Fatal(err)
	}
	want := []interface{}{
		[]interface{}{int64(1), int64(2)},
		[]interface{}{int64(3), int64(4), int64(5)},
	}
	if got := n.ToList(); !reflect.DeepEqual(got, want) {
		t.Errorf("ToList() = %v, want %v", got, want)
	}
}

func TestFromExternalStructReconstructsTable(t *testing.T) {
	xSrc := &fakeSource{kind: KindPrimitive, primValues: []int64{1, 2}}
	ySrc := &fakeSource{kind: KindPrimitive, primValues: []int64{3, 4}}
	src := &fakeSource{kind: KindStruct, structNames: []string{"x", "y"}, structVals: []ExternalSource{xSrc, ySrc}}
	n, err := FromExternal(src)
	if err != nil {
		t.Fatal(err)
	}
	tbl, ok := n.(*colarray.Table)
	if !ok {
		t.Fatalf("expected *colarray.Table, got %T", n)
	}
	y, err := tbl.Field("y")
	if err != nil {
		t.Fatal(err)
	}
	want := []interface{}{int64(3), int64(4)}
	if got := y.ToList(); !reflect.DeepEqual(got, want) {
		t.Errorf("y.ToList() = %v, want %v", got, want)
	}
}

func TestFromExternalDenseUnionReconstructsUnion(t *testing.T) {
	childSrc := &fakeSource{kind: KindPrimitive, primValues: []int64{100, 200}}
	src := &fakeSource{
		kind:       KindDenseUnion,
		unionTags:  []int8{0, 0},
		unionIndex: []int32{0, 1},
		unionKids:  []ExternalSource{childSrc},
	}
	n, err := FromExternal(src)
	if err != nil {
		t.Fatal(err)
	}
	want := []interface{}{int64(100), int64(200)}
	if got := n.ToList(); !reflect.DeepEqual(got, want) {
		t.Errorf("ToList() = %v, want %v", got, want)
	}
}

func TestFromExternalUtf8ReconstructsStringNode(t *testing.T) {
	src := &fakeSource{kind: KindUtf8, utf8Offsets: []int{0, 2, 5}, utf8Chars: []byte("hiworld")}
	n, err := FromExternal(src)
	if err != nil {
		t.Fatal(err)
	}
	if n.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", n.Len())
	}
}
