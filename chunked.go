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

// Chunked is the logical concatenation of equal-schema child arrays,
// with a cumulative-counts index for random access (spec §3, §4.1).
type Chunked struct {
	Chunks []Node
	Counts []int
	cum    []int // length len(Chunks)+1; cum[k] is the logical start of Chunks[k]
}

// NewChunked validates that there is one count per chunk and that
// each chunk is at least as long as its declared count (spec §3:
// "each len(chunks[i]) >= counts[i]").
func NewChunked(chunks []Node, counts []int) (*Chunked, error) {
	if len(chunks) != len(counts) {
		return nil, colerr.New(colerr.LengthMismatch, "chunked: %d chunks != %d counts", len(chunks), len(counts))
	}
	cum := make([]int, len(chunks)+1)
	for i, c := range counts {
		if chunks[i].Len() < c {
			return nil, colerr.New(colerr.LengthMismatch, "chunked: chunk %d has length %d, declared count %d", i, chunks[i].Len(), c)
		}
		cum[i+1] = cum[i] + c
	}
	return &Chunked{Chunks: chunks, Counts: counts, cum: cum}, nil
}

func (c *Chunked) Len() int {
	if len(c.cum) == 0 {
		return 0
	}
	return c.cum[len(c.cum)-1]
}

func (c *Chunked) Type() *coltype.Type {
	if len(c.Chunks) == 0 {
		return coltype.Primitive(coltype.Object)
	}
	return c.Chunks[0].Type()
}

// locate returns the chunk index owning logical position i and the
// offset within that chunk, via binary search on the cumulative
// counts (spec §4.1 "random access performs a binary search on the
// cumulative count vector").
func (c *Chunked) locate(i int) (chunk, offset int) {
	k := sort.SearchInts(c.cum, i+1) - 1
	return k, i - c.cum[k]
}

func (c *Chunked) ValueAt(i int) interface{} {
	k, off := c.locate(i)
	return valueAt(c.Chunks[k], off)
}

func (c *Chunked) ToList() []interface{} {
	out := make([]interface{}, 0, c.Len())
	for k, chunk := range c.Chunks {
		n := c.Counts[k]
		sub := rangeOf(chunk, 0, n)
		out = append(out, sub.ToList()...)
	}
	return out
}

func (c *Chunked) Iter() iter.Seq[interface{}] {
	return func(yield func(interface{}) bool) {
		for k, chunk := range c.Chunks {
			for i := 0; i < c.Counts[k]; i++ {
				if !yield(valueAt(chunk, i)) {
					return
				}
			}
		}
	}
}

// RangeSlice slices the logical concatenation, truncating the first
// and last chunks as needed (spec §4.1 "Slicing produces a chunked
// view that may truncate the first and last chunks").
func (c *Chunked) RangeSlice(i, j int) Node {
	if i == j {
		return &Chunked{}
	}
	firstChunk, firstOff := c.locate(i)
	lastChunk, lastOff := c.locate(j - 1)
	var chunks []Node
	var counts []int
	for k := firstChunk; k <= lastChunk; k++ {
		lo, hi := 0, c.Counts[k]
		if k == firstChunk {
			lo = firstOff
		}
		if k == lastChunk {
			hi = lastOff + 1
		}
		chunks = append(chunks, rangeOf(c.Chunks[k], lo, hi))
		counts = append(counts, hi-lo)
	}
	out, _ := NewChunked(chunks, counts)
	return out
}

// Appendable is a Chunked node with a growable tail chunk, sealed
// into the chunk list once it reaches threshold elements (spec §3,
// §4.1 "Appendable").
type Appendable struct {
	base      *Chunked
	tail      []interface{}
	build     func([]interface{}) (Node, error)
	threshold int
}

// NewAppendable starts an empty appendable node. build converts a
// slice of pending logical values into a sealed content Node when the
// tail reaches threshold elements.
func NewAppendable(build func([]interface{}) (Node, error), threshold int) *Appendable {
	return &Appendable{base: &Chunked{cum: []int{0}}, build: build, threshold: threshold}
}

func (a *Appendable) Len() int { return a.base.Len() + len(a.tail) }

func (a *Appendable) Type() *coltype.Type {
	if a.base.Len() > 0 {
		return a.base.Type()
	}
	return coltype.Primitive(coltype.Object)
}

// Append adds values to the growing tail, sealing it into a new chunk
// once len(tail) reaches the threshold.
func (a *Appendable) Append(values ...interface{}) error {
	a.tail = append(a.tail, values...)
	if len(a.tail) >= a.threshold {
		return a.Seal()
	}
	return nil
}

// Seal flushes any pending tail values into a new sealed chunk.
func (a *Appendable) Seal() error {
	if len(a.tail) == 0 {
		return nil
	}
	node, err := a.build(a.tail)
	if err != nil {
		return err
	}
	a.base.Chunks = append(a.base.Chunks, node)
	a.base.Counts = append(a.base.Counts, len(a.tail))
	a.base.cum = append(a.base.cum, a.base.Len()+len(a.tail))
	a.tail = nil
	return nil
}

func (a *Appendable) ValueAt(i int) interface{} {
	if i < a.base.Len() {
		return a.base.ValueAt(i)
	}
	return a.tail[i-a.base.Len()]
}

func (a *Appendable) ToList() []interface{} {
	out := a.base.ToList()
	return append(out, a.tail...)
}

func (a *Appendable) Iter() iter.Seq[interface{}] { return defaultIter(a, a.ValueAt) }

// AsChunked returns the sealed-chunk view, for callers (e.g. the
// persistence and kernel layers) that only operate on Chunked.
func (a *Appendable) AsChunked() (*Chunked, error) {
	if err := a.Seal(); err != nil {
		return nil, err
	}
	return a.base, nil
}
