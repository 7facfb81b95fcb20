// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package colarray

import (
	"iter"

	"github.com/awkgo/colarray/coltype"

	"github.com/awkgo/colarray/colerr"
)

// Ranger is implemented by every node variant that can produce a
// length-preserving sub-view over a contiguous outer range without
// copying leaf data; the indexing algebra (package colindex) uses it
// uniformly across the family (spec §4.2).
type Ranger interface {
	Node
	RangeSlice(i, j int) Node
}

// Jagged represents a sequence of variable-length sublists via
// parallel start/stop index arrays over Content (spec §3, §4.1).
type Jagged struct {
	Starts, Stops []int
	Content       Node
	compact       bool // true iff Stops[i] == Starts[i+1] and Starts[0] == 0
}

// checkStartsStops enforces the _check_startsstops constraint of
// spec §4.1: equal-length integer arrays with starts[i] <= stops[i].
func checkStartsStops(starts, stops []int, contentLen int) error {
	if len(starts) != len(stops) {
		return colerr.New(colerr.LengthMismatch, "jagged: len(starts)=%d != len(stops)=%d", len(starts), len(stops))
	}
	for i := range starts {
		if starts[i] < 0 || starts[i] > stops[i] {
			return colerr.New(colerr.LengthMismatch, "jagged: starts[%d]=%d > stops[%d]=%d", i, starts[i], i, stops[i])
		}
		if stops[i] > contentLen {
			return colerr.New(colerr.OutOfBounds, "jagged: stops[%d]=%d exceeds content length %d", i, stops[i], contentLen)
		}
	}
	return nil
}

// NewJagged builds a Jagged from explicit starts/stops, validating the
// _check_startsstops invariant.
func NewJagged(starts, stops []int, content Node) (*Jagged, error) {
	if err := checkStartsStops(starts, stops, content.Len()); err != nil {
		return nil, err
	}
	j := &Jagged{Starts: starts, Stops: stops, Content: content}
	j.compact = isCompact(starts, stops)
	return j, nil
}

func isCompact(starts, stops []int) bool {
	if len(starts) == 0 {
		return true
	}
	if starts[0] != 0 {
		return false
	}
	for i := range starts {
		if i > 0 && stops[i-1] != starts[i] {
			return false
		}
	}
	return true
}

// FromOffsets builds a compact Jagged from an offsets array of length
// L+1 (spec §4.1 constructor list).
func FromOffsets(offsets []int, content Node) (*Jagged, error) {
	if len(offsets) == 0 {
		return nil, colerr.New(colerr.InvalidShape, "jagged: offsets must have at least one element")
	}
	starts := offsets[:len(offsets)-1]
	stops := offsets[1:]
	j, err := NewJagged(append([]int(nil), starts...), append([]int(nil), stops...), content)
	if err != nil {
		return nil, err
	}
	j.compact = true
	return j, nil
}

// FromCounts builds a compact Jagged from per-row counts (spec §4.1
// constructor list).
func FromCounts(counts []int, content Node) (*Jagged, error) {
	offsets := make([]int, len(counts)+1)
	for i, c := range counts {
		offsets[i+1] = offsets[i] + c
	}
	return FromOffsets(offsets, content)
}

// FromIterable builds a Jagged from a slice of slices, by flattening
// them into a freshly built content node (spec §4.1 constructor list).
// The caller supplies build, which receives the values of all rows
// flattened in order and returns the content node.
func FromIterable(rows [][]interface{}, build func([]interface{}) (Node, error)) (*Jagged, error) {
	counts := make([]int, len(rows))
	var flat []interface{}
	for i, row := range rows {
		counts[i] = len(row)
		flat = append(flat, row...)
	}
	content, err := build(flat)
	if err != nil {
		return nil, err
	}
	return FromCounts(counts, content)
}

func (j *Jagged) Len() int { return len(j.Starts) }

func (j *Jagged) Type() *coltype.Type {
	return coltype.Array(coltype.Unbounded, j.Content.Type())
}

// Counts returns stops[i] - starts[i] for each row.
func (j *Jagged) Counts() []int {
	counts := make([]int, j.Len())
	for i := range counts {
		counts[i] = j.Stops[i] - j.Starts[i]
	}
	return counts
}

// Offsets returns the compact offsets view of length Len()+1. It is
// only valid to call when j.IsCompact(); callers that need an offsets
// array unconditionally should call j.Compact().Offsets() (spec §9:
// "record a compact flag and regenerate an offsets view on demand").
func (j *Jagged) Offsets() []int {
	offsets := make([]int, j.Len()+1)
	copy(offsets, j.Starts)
	if j.Len() > 0 {
		offsets[j.Len()] = j.Stops[j.Len()-1]
	}
	return offsets
}

// IsCompact reports whether stops[i] == starts[i+1] and starts[0] == 0.
func (j *Jagged) IsCompact() bool { return j.compact }

// Compact returns an equivalent Jagged whose content has no gaps
// between consecutive rows (spec §4.1).
func (j *Jagged) Compact() *Jagged {
	if j.compact {
		return j
	}
	n := j.Len()
	offsets := make([]int, n+1)
	idx := make([]int, 0, j.totalCount())
	for i := 0; i < n; i++ {
		offsets[i] = len(idx)
		for k := j.Starts[i]; k < j.Stops[i]; k++ {
			idx = append(idx, k)
		}
	}
	offsets[n] = len(idx)
	gathered := gatherNode(j.Content, idx)
	out, _ := FromOffsets(offsets, gathered)
	return out
}

func (j *Jagged) totalCount() int {
	total := 0
	for i := range j.Starts {
		total += j.Stops[i] - j.Starts[i]
	}
	return total
}

// Parents returns, for each element of Content, the outer row index
// that owns it (undefined — left zero — for elements in gaps, spec
// §3).
func (j *Jagged) Parents() []int {
	parents := make([]int, j.Content.Len())
	for i := range j.Starts {
		for k := j.Starts[i]; k < j.Stops[i]; k++ {
			parents[k] = i
		}
	}
	return parents
}

// RangeSlice returns a new Jagged over rows [i, j), gathering
// starts/stops but sharing Content (spec §4.2 rule 3).
func (jg *Jagged) RangeSlice(i, j int) Node {
	out := &Jagged{
		Starts:  append([]int(nil), jg.Starts[i:j]...),
		Stops:   append([]int(nil), jg.Stops[i:j]...),
		Content: jg.Content,
	}
	out.compact = isCompact(out.Starts, out.Stops)
	return out
}

// Row returns the i'th sublist as content[starts[i]:stops[i]] (spec
// §4.2 rule 3).
func (j *Jagged) Row(i int) (Node, error) {
	if i < 0 || i >= j.Len() {
		return nil, colerr.New(colerr.OutOfBounds, "jagged: row index %d out of range [0:%d)", i, j.Len())
	}
	return rangeOf(j.Content, j.Starts[i], j.Stops[i]), nil
}

func (j *Jagged) ToList() []interface{} {
	out := make([]interface{}, j.Len())
	for i := range out {
		row, _ := j.Row(i)
		out[i] = row.ToList()
	}
	return out
}

func (j *Jagged) Iter() iter.Seq[interface{}] {
	return func(yield func(interface{}) bool) {
		for i := 0; i < j.Len(); i++ {
			row, _ := j.Row(i)
			if !yield(row) {
				return
			}
		}
	}
}

// rangeOf returns content[i:j), using Ranger when available and
// falling back to a freshly gathered Leaf/generic node otherwise.
func rangeOf(content Node, i, j int) Node {
	if r, ok := content.(Ranger); ok {
		return r.RangeSlice(i, j)
	}
	idx := make([]int, j-i)
	for k := range idx {
		idx[k] = i + k
	}
	return gatherNode(content, idx)
}
