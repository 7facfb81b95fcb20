// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package colarray

import "github.com/awkgo/colarray/buffer"

// ValueAt returns the i'th logical value of n, exported for use by the
// indexing (colindex) and kernel packages, which operate on Node from
// outside this package.
func ValueAt(n Node, i int) interface{} { return valueAt(n, i) }

// Gather builds the node that results from selecting idx (in order,
// with repeats and arbitrary order allowed) out of n's outer axis
// (spec §4.2 rules 7-8). Jagged nodes gather their starts/stops over
// the same content. Masked nodes gather on their own content and
// rebuild a parallel mask so nulls travel with their element; every
// other variant wraps in an Indexed gather.
func Gather(n Node, idx []int) (Node, error) {
	switch node := n.(type) {
	case *Jagged:
		return gatherJaggedNodes(node, idx)
	case Masked:
		return gatherMasked(node, idx)
	default:
		return gatherNode(n, idx), nil
	}
}

func gatherJaggedNodes(j *Jagged, idx []int) (Node, error) {
	starts := make([]int, len(idx))
	stops := make([]int, len(idx))
	for k, i := range idx {
		starts[k] = j.Starts[i]
		stops[k] = j.Stops[i]
	}
	return NewJagged(starts, stops, j.Content)
}

func gatherMasked(m Masked, idx []int) (Node, error) {
	if im, ok := m.(*IndexedMask); ok {
		mask := make([]int, len(idx))
		for k, i := range idx {
			mask[k] = im.Mask[i]
		}
		return &IndexedMask{Mask: mask, Content: im.Content}, nil
	}
	content := m.Unwrap()
	bits := make([]bool, len(idx))
	for k, i := range idx {
		bits[k] = m.IsNull(i)
	}
	gathered, err := Gather(content, idx)
	if err != nil {
		return nil, err
	}
	return NewBoolmasked(bits, gathered, true)
}

// NewLeafFromInts wraps a plain []int as an int64 Leaf, used by the
// indexing algebra to expose a jagged node's "counts"/"offsets"
// pseudo-fields as ordinary array values (spec §4.2 rule 1 note).
func NewLeafFromInts(values []int) *Leaf {
	v64 := make([]int64, len(values))
	for i, v := range values {
		v64[i] = int64(v)
	}
	return NewLeaf(buffer.NewInt64(v64))
}
