// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package colarray

import (
	"iter"

	"github.com/awkgo/colarray/buffer"
	"github.com/awkgo/colarray/coltype"
)

// Leaf wraps a rectangular buffer.Buffer as a Node — the base case
// every other variant ultimately bottoms out on (spec §2 item 1).
type Leaf struct {
	Buf *buffer.Buffer
}

// NewLeaf wraps b as a leaf node.
func NewLeaf(b *buffer.Buffer) *Leaf { return &Leaf{Buf: b} }

func (l *Leaf) Len() int { return l.Buf.Len() }

func (l *Leaf) Type() *coltype.Type {
	switch l.Buf.DType {
	case buffer.Int64:
		return coltype.Primitive(coltype.Int64)
	case buffer.Float64:
		return coltype.Primitive(coltype.Float64)
	case buffer.Complex128:
		return coltype.Primitive(coltype.Complex128)
	case buffer.Bool:
		return coltype.Primitive(coltype.Bool)
	}
	panic("colarray: leaf has unknown dtype")
}

func (l *Leaf) ToList() []interface{} { return l.Buf.ToList() }

func (l *Leaf) At(i int) interface{} { return l.Buf.At(i) }

func (l *Leaf) Iter() iter.Seq[interface{}] { return defaultIter(l, l.At) }

// Slice returns the view l[i:j], sharing the underlying buffer.
func (l *Leaf) Slice(i, j int) *Leaf { return &Leaf{Buf: l.Buf.Slice(i, j)} }

// RangeSlice implements Ranger.
func (l *Leaf) RangeSlice(i, j int) Node { return l.Slice(i, j) }

// Leaf exposes its buffer so kernel dispatch can delegate straight
// through to package buffer once structural recursion bottoms out.
func (l *Leaf) Buffer() *buffer.Buffer { return l.Buf }
