// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package colarray

import (
	"iter"

	"github.com/awkgo/colarray/colerr"
	"github.com/awkgo/colarray/coltype"
)

// Union selects among heterogeneous Contents via a tag+index pair per
// element (spec §3, §4.1). Dense encoding packs index densely per
// alternative; sparse encoding sets index[i] = i with every content
// holding the full length — Union itself is agnostic to which
// encoding produced tags/index, it only requires the invariant below.
type Union struct {
	Tags, Index []int
	Contents    []Node
}

// NewUnion validates 0 <= tags[i] < len(contents) and
// index[i] < len(contents[tags[i]]).
func NewUnion(tags, index []int, contents []Node) (*Union, error) {
	if len(tags) != len(index) {
		return nil, colerr.New(colerr.LengthMismatch, "union: len(tags)=%d != len(index)=%d", len(tags), len(index))
	}
	for i, tag := range tags {
		if tag < 0 || tag >= len(contents) {
			return nil, colerr.New(colerr.OutOfBounds, "union: tag %d out of range [0:%d)", tag, len(contents))
		}
		if index[i] < 0 || index[i] >= contents[tag].Len() {
			return nil, colerr.New(colerr.OutOfBounds, "union: index %d out of range [0:%d) for tag %d", index[i], contents[tag].Len(), tag)
		}
	}
	return &Union{Tags: tags, Index: index, Contents: contents}, nil
}

func (u *Union) Len() int { return len(u.Tags) }

func (u *Union) Type() *coltype.Type {
	var t *coltype.Type
	for _, c := range u.Contents {
		t = t.Or(c.Type())
	}
	return t
}

// ValueAt materializes contents[tags[i]][index[i]] (spec §4.1, §8).
func (u *Union) ValueAt(i int) interface{} {
	return valueAt(u.Contents[u.Tags[i]], u.Index[i])
}

func (u *Union) ToList() []interface{} {
	out := make([]interface{}, u.Len())
	for i := range out {
		out[i] = u.ValueAt(i)
	}
	return out
}

func (u *Union) Iter() iter.Seq[interface{}] { return defaultIter(u, u.ValueAt) }

func (u *Union) RangeSlice(i, j int) Node {
	return &Union{
		Tags:     append([]int(nil), u.Tags[i:j]...),
		Index:    append([]int(nil), u.Index[i:j]...),
		Contents: u.Contents,
	}
}

// partitionByTag splits u's positions by tag, returning for each
// content index the row positions (into u) and the local index into
// that content. Used by the kernel package's per-alternative
// broadcasting recursion (spec §4.3 "Union -> partition each input by
// tag; recurse per alternative; reassemble").
func (u *Union) PartitionByTag() (positions [][]int, localIndex [][]int) {
	positions = make([][]int, len(u.Contents))
	localIndex = make([][]int, len(u.Contents))
	for i, tag := range u.Tags {
		positions[tag] = append(positions[tag], i)
		localIndex[tag] = append(localIndex[tag], u.Index[i])
	}
	return positions, localIndex
}
