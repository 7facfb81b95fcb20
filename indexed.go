// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package colarray

import (
	"iter"
	"sort"

	"github.com/awkgo/colarray/colerr"
	"github.com/awkgo/colarray/coltype"
)

// Indexed is a gather-index over Content: index[i] selects the
// element of Content that logically sits at position i (spec §3,
// "Indexed"). It performs no bounds-check elision by default.
type Indexed struct {
	Index   []int
	Content Node
}

// NewIndexed validates 0 <= index[i] < len(content) and builds an
// Indexed node.
func NewIndexed(index []int, content Node) (*Indexed, error) {
	n := content.Len()
	for _, i := range index {
		if i < 0 || i >= n {
			return nil, colerr.New(colerr.OutOfBounds, "indexed: index %d out of range [0:%d)", i, n)
		}
	}
	return &Indexed{Index: index, Content: content}, nil
}

// gatherNode wraps content in an Indexed gather without the bounds
// check (used internally where idx is already known-valid, e.g. a
// Jagged's own Compact()).
func gatherNode(content Node, idx []int) Node {
	return &Indexed{Index: idx, Content: content}
}

func (x *Indexed) Len() int { return len(x.Index) }

func (x *Indexed) Type() *coltype.Type { return x.Content.Type() }

func (x *Indexed) At(i int) Node { return elemAt(x.Content, x.Index[i]) }

func (x *Indexed) RangeSlice(i, j int) Node {
	return &Indexed{Index: append([]int(nil), x.Index[i:j]...), Content: x.Content}
}

func (x *Indexed) ToList() []interface{} {
	out := make([]interface{}, x.Len())
	for i := range out {
		out[i] = valueAt(x.Content, x.Index[i])
	}
	return out
}

func (x *Indexed) Iter() iter.Seq[interface{}] {
	return func(yield func(interface{}) bool) {
		for i := 0; i < x.Len(); i++ {
			if !yield(valueAt(x.Content, x.Index[i])) {
				return
			}
		}
	}
}

// Sparse stores positions of non-default values: index[K] (sorted,
// unique) into a length-K Content, with every other logical position
// taking Default (spec §3, "Sparse").
type Sparse struct {
	Index   []int // sorted, unique
	Content Node  // length K
	Length  int
	Default interface{}
}

// NewSparse validates index is sorted, unique, and index[K-1] < Length.
func NewSparse(index []int, content Node, length int, def interface{}) (*Sparse, error) {
	if len(index) != content.Len() {
		return nil, colerr.New(colerr.LengthMismatch, "sparse: len(index)=%d != len(content)=%d", len(index), content.Len())
	}
	for i := range index {
		if i > 0 && index[i-1] >= index[i] {
			return nil, colerr.New(colerr.InvalidShape, "sparse: index not sorted/unique at %d", i)
		}
	}
	if len(index) > 0 && index[len(index)-1] >= length {
		return nil, colerr.New(colerr.OutOfBounds, "sparse: index[K-1]=%d >= length %d", index[len(index)-1], length)
	}
	return &Sparse{Index: index, Content: content, Length: length, Default: def}, nil
}

func (s *Sparse) Len() int { return s.Length }

func (s *Sparse) Type() *coltype.Type { return s.Content.Type() }

// At performs a binary search on Index, returning Default on miss.
func (s *Sparse) At(i int) interface{} {
	k := sort.SearchInts(s.Index, i)
	if k < len(s.Index) && s.Index[k] == i {
		return valueAt(s.Content, k)
	}
	return s.Default
}

func (s *Sparse) RangeSlice(i, j int) Node {
	lo := sort.SearchInts(s.Index, i)
	hi := sort.SearchInts(s.Index, j)
	newIndex := make([]int, hi-lo)
	for k := lo; k < hi; k++ {
		newIndex[k-lo] = s.Index[k] - i
	}
	return &Sparse{
		Index:   newIndex,
		Content: rangeOf(s.Content, lo, hi),
		Length:  j - i,
		Default: s.Default,
	}
}

func (s *Sparse) ToList() []interface{} {
	out := make([]interface{}, s.Len())
	for i := range out {
		out[i] = s.At(i)
	}
	return out
}

func (s *Sparse) Iter() iter.Seq[interface{}] { return defaultIter(s, s.At) }

// elemAt returns element i of content as a Node when content is
// itself a nested container (used by Indexed.At, which must preserve
// structure rather than flatten it).
func elemAt(content Node, i int) Node {
	if r, ok := content.(Ranger); ok {
		return r.RangeSlice(i, i+1)
	}
	return rangeOf(content, i, i+1)
}

// ValueAtter is implemented by node variants that can produce their
// i'th logical value without materializing the whole node. valueAt
// below falls back to ToList()[i] for variants that do not bother
// (acceptable for variants whose ToList is already O(1) amortized).
type ValueAtter interface {
	ValueAt(i int) interface{}
}

// valueAt returns element i of content as a plain logical value
// (mirrors ToList()[i] without necessarily materializing the whole
// node).
func valueAt(content Node, i int) interface{} {
	if va, ok := content.(ValueAtter); ok {
		return va.ValueAt(i)
	}
	return content.ToList()[i]
}

func (l *Leaf) ValueAt(i int) interface{} { return l.At(i) }

func (j *Jagged) ValueAt(i int) interface{} {
	row, _ := j.Row(i)
	return row.ToList()
}

func (x *Indexed) ValueAt(i int) interface{} { return valueAt(x.Content, x.Index[i]) }

func (s *Sparse) ValueAt(i int) interface{} { return s.At(i) }
