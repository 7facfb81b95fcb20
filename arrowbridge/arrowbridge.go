// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package arrowbridge implements the external columnar bridge of spec
// §4.6: converting a colarray.Node tree to and from a duck-typed
// external columnar memory format. There is no Arrow client library
// anywhere in the retrieval pack, so the external side is expressed as
// a small interface (ExternalArray) a real Arrow (or any other
// columnar-memory) binding can implement, rather than a hard
// dependency — grounded on _examples/original_source/awkward/arrow.py's
// per-variant toarrow dispatch, translated from its duck-typed pyarrow
// calls into an explicit Go interface boundary.
package arrowbridge

import (
	"github.com/awkgo/colarray"
	"github.com/awkgo/colarray/colerr"
	"github.com/awkgo/colarray/virtual"
)

// ExternalArray is the external columnar format's array value, opaque
// to this package beyond its constructors (spec §4.6's
// leaf/indexed/jagged/table/union mapping).
type ExternalArray interface {
	Len() int
}

// ExternalFactory builds ExternalArray values; a real binding supplies
// one backed by its own array builders. DictionaryEncoded and
// DenseUnion are only called when the corresponding node-variant
// mapping applies (spec §4.6).
type ExternalFactory interface {
	Primitive(values interface{}, nullMask []bool) ExternalArray
	DictionaryEncoded(indices []int, dictionary ExternalArray) ExternalArray
	List(offsets []int, values ExternalArray) ExternalArray
	Struct(names []string, fields []ExternalArray) ExternalArray
	// DenseUnion encodes tags as int8 and index as int32, per spec §4.6.
	DenseUnion(tags []int8, index []int32, children []ExternalArray) ExternalArray
	// Utf8List exports a string node through the jagged-of-bytes path
	// with a utf-8 tag (spec §9's resolution of the source's
	// unimplemented string export).
	Utf8List(offsets []int, chars []byte) ExternalArray
}

// ToExternal converts n to the external format via factory, recursing
// per spec §4.6. nullMask, when non-nil, is an enclosing masked node's
// null mask. Only the leaf mapping consumes it, either directly or
// after an indexed node has been gathered; the list, struct, dense
// union and utf-8 mappings do not carry it.
func ToExternal(n colarray.Node, factory ExternalFactory, nullMask []bool) (ExternalArray, error) {
	if v, ok := n.(*virtual.Virtual); ok {
		m, err := v.Materialized()
		if err != nil {
			return nil, err
		}
		return ToExternal(m, factory, nullMask)
	}
	if m, ok := n.(colarray.Masked); ok {
		combined := make([]bool, m.Len())
		for i := range combined {
			combined[i] = m.IsNull(i)
			if nullMask != nil {
				combined[i] = combined[i] || nullMask[i]
			}
		}
		return ToExternal(m.Unwrap(), factory, combined)
	}
	switch node := n.(type) {
	case *colarray.Leaf:
		return factory.Primitive(node.ToList(), nullMask), nil
	case *colarray.Indexed:
		if nullMask == nil {
			dict, err := ToExternal(node.Content, factory, nil)
			if err != nil {
				return nil, err
			}
			return factory.DictionaryEncoded(node.Index, dict), nil
		}
		if leaf, ok := node.Content.(*colarray.Leaf); ok {
			buf, err := leaf.Buffer().Gather(node.Index)
			if err != nil {
				return nil, colerr.Wrap(colerr.OutOfBounds, err, "arrowbridge: indexed gather")
			}
			return ToExternal(colarray.NewLeaf(buf), factory, nullMask)
		}
		gathered, err := colarray.Gather(node.Content, node.Index)
		if err != nil {
			return nil, err
		}
		return ToExternal(gathered, factory, nullMask)
	case *colarray.Jagged:
		jc := node.Compact()
		values, err := ToExternal(jc.Content, factory, nil)
		if err != nil {
			return nil, err
		}
		return factory.List(jc.Offsets(), values), nil
	case *colarray.Table:
		names := node.Names()
		fields := make([]ExternalArray, len(names))
		for i, name := range names {
			col, _ := node.Field(name)
			f, err := ToExternal(col, factory, nil)
			if err != nil {
				return nil, err
			}
			fields[i] = f
		}
		return factory.Struct(names, fields), nil
	case *colarray.Union:
		if hasRepeatedIndex(node) && nullMask != nil {
			return nil, colerr.New(colerr.UnsupportedConversion, "arrowbridge: union export with repeated indices under an indexed-mask path is ill-defined")
		}
		tags := make([]int8, node.Len())
		index := make([]int32, node.Len())
		for i := range tags {
			tags[i] = int8(node.Tags[i])
			index[i] = int32(node.Index[i])
		}
		children := make([]ExternalArray, len(node.Contents))
		for i, c := range node.Contents {
			ch, err := ToExternal(c, factory, nil)
			if err != nil {
				return nil, err
			}
			children[i] = ch
		}
		return factory.DenseUnion(tags, index, children), nil
	case *colarray.StringNode:
		offsets, chars := node.RawBytesPerRow()
		return factory.Utf8List(offsets, chars), nil
	}
	return nil, colerr.New(colerr.UnsupportedConversion, "arrowbridge: no external mapping for %T", n)
}

// hasRepeatedIndex reports whether any (tag, index) pair repeats,
// which under an indexed-mask path produces an ill-defined external
// null mask (spec §9 open question, resolved as unsupported-conversion).
func hasRepeatedIndex(u *colarray.Union) bool {
	type pair struct{ tag, idx int }
	seen := make(map[pair]bool, u.Len())
	for i := range u.Tags {
		p := pair{u.Tags[i], u.Index[i]}
		if seen[p] {
			return true
		}
		seen[p] = true
	}
	return false
}

// ExternalSource is the read side mirrored for FromExternal: an
// external array's documented buffer layout exposed generically enough
// that this package can reconstruct the mirror node tree without
// depending on a concrete Arrow binding (spec §4.6: "consuming buffers
// in the order specified by the external format's documented buffer
// layout for each type").
type ExternalSource interface {
	Kind() Kind
	NullMask() []bool // nil if the array has no validity buffer
	PrimitiveValues() interface{}
	DictIndices() []int
	DictValues() ExternalSource
	ListOffsets() []int
	ListValues() ExternalSource
	StructFields() ([]string, []ExternalSource)
	UnionTags() []int8
	UnionIndex() []int32
	UnionChildren() []ExternalSource
	Utf8Offsets() []int
	Utf8Chars() []byte
}

// Kind identifies which ExternalSource accessor group is valid.
type Kind int

const (
	KindPrimitive Kind = iota
	KindDictionary
	KindList
	KindStruct
	KindDenseUnion
	KindUtf8
)

// FromExternal reconstructs the mirror colarray node tree from src,
// the inverse of ToExternal (spec §4.6).
func FromExternal(src ExternalSource) (colarray.Node, error) {
	switch src.Kind() {
	case KindPrimitive:
		return fromPrimitive(src)
	case KindDictionary:
		dict, err := FromExternal(src.DictValues())
		if err != nil {
			return nil, err
		}
		return colarray.NewIndexed(src.DictIndices(), dict)
	case KindList:
		values, err := FromExternal(src.ListValues())
		if err != nil {
			return nil, err
		}
		return colarray.FromOffsets(src.ListOffsets(), values)
	case KindStruct:
		names, fieldSrcs := src.StructFields()
		fields := make([]colarray.Node, len(fieldSrcs))
		for i, fs := range fieldSrcs {
			f, err := FromExternal(fs)
			if err != nil {
				return nil, err
			}
			fields[i] = f
		}
		return colarray.NewTable(names, fields)
	case KindDenseUnion:
		rawTags, rawIndex := src.UnionTags(), src.UnionIndex()
		tags := make([]int, len(rawTags))
		index := make([]int, len(rawIndex))
		for i := range rawTags {
			tags[i] = int(rawTags[i])
			index[i] = int(rawIndex[i])
		}
		childSrcs := src.UnionChildren()
		contents := make([]colarray.Node, len(childSrcs))
		for i, cs := range childSrcs {
			c, err := FromExternal(cs)
			if err != nil {
				return nil, err
			}
			contents[i] = c
		}
		return colarray.NewUnion(tags, index, contents)
	case KindUtf8:
		return colarray.NewStringNode(src.Utf8Offsets(), src.Utf8Chars(), nil)
	}
	return nil, colerr.New(colerr.UnsupportedConversion, "arrowbridge: unknown external kind")
}

func fromPrimitive(src ExternalSource) (colarray.Node, error) {
	leaf, err := primitiveLeaf(src.PrimitiveValues())
	if err != nil {
		return nil, err
	}
	mask := src.NullMask()
	if mask == nil {
		return leaf, nil
	}
	return colarray.NewBoolmasked(mask, leaf, true)
}
