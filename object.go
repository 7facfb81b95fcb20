// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package colarray

import (
	"iter"

	"github.com/awkgo/colarray/coltype"
)

// Object wraps Content with a Decode function that produces
// high-level values on demand (spec §3, §4.1). Decode receives the
// content node's i'th raw logical value (from valueAt) and returns
// the decoded value.
type Object struct {
	Content Node
	Decode  func(raw interface{}) interface{}
}

// NewObject builds an Object node.
func NewObject(content Node, decode func(interface{}) interface{}) *Object {
	return &Object{Content: content, Decode: decode}
}

func (o *Object) Len() int { return o.Content.Len() }

func (o *Object) Type() *coltype.Type { return coltype.Primitive(coltype.Object) }

func (o *Object) ValueAt(i int) interface{} { return o.Decode(valueAt(o.Content, i)) }

func (o *Object) ToList() []interface{} {
	out := make([]interface{}, o.Len())
	for i := range out {
		out[i] = o.ValueAt(i)
	}
	return out
}

func (o *Object) Iter() iter.Seq[interface{}] { return defaultIter(o, o.ValueAt) }

func (o *Object) RangeSlice(i, j int) Node {
	return &Object{Content: rangeOf(o.Content, i, j), Decode: o.Decode}
}
