// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package colindex

import (
	"github.com/awkgo/colarray"
	"github.com/awkgo/colarray/colerr"
)

// Index is the single entry point of the indexing algebra (spec
// §4.2): it interprets sels outer-to-inner against n and returns
// either a Node (the axis was preserved or gathered) or a bare scalar
// value (the axis was fully collapsed).
func Index(n colarray.Node, sels ...Selector) (interface{}, error) {
	if len(sels) == 0 {
		return n, nil
	}
	sel := sels[0]
	switch sel.(type) {
	case FieldSel, FieldsSel:
		next, err := applyOne(n, sel)
		if err != nil {
			return nil, err
		}
		return chainRest(next, sels[1:])
	case EllipsisSel:
		sel = SliceSel{}
	}

	// Rule 4 (spec §4.2): a jagged outer selector followed by an inner
	// (non-field) selector applies the inner selector per-row, not to
	// the jagged node's own outer axis a second time.
	if j, ok := n.(*colarray.Jagged); ok && len(sels) >= 2 {
		if !isFieldSelector(sels[1]) {
			return indexJaggedTwoLevel(j, sel, sels[1], sels[2:])
		}
	}

	next, err := applyOne(n, sel)
	if err != nil {
		return nil, err
	}
	return chainRest(next, sels[1:])
}

func isFieldSelector(s Selector) bool {
	switch s.(type) {
	case FieldSel, FieldsSel:
		return true
	}
	return false
}

func chainRest(cur interface{}, rest []Selector) (interface{}, error) {
	if len(rest) == 0 {
		return cur, nil
	}
	node, ok := cur.(colarray.Node)
	if !ok {
		return nil, colerr.New(colerr.OutOfBounds, "colindex: cannot apply further selector to a scalar result")
	}
	return Index(node, rest...)
}

// indexJaggedTwoLevel resolves a (outer, inner) selector pair against
// a jagged node per spec §4.2 rules 3-5: an integer outer selector
// returns a single row, to which inner (and rest) apply normally; any
// other outer selector preserves the row axis, and inner is then
// applied independently to each selected row's own [start,stop) range
// (spec §4.2 rule 4, "rectangular slicing ... succeeds only if every
// inner list is long enough", and rule 5, "negative inner indices are
// wrapped per outer row").
func indexJaggedTwoLevel(j *colarray.Jagged, outer, inner Selector, rest []Selector) (interface{}, error) {
	if i, ok := outer.(IntSel); ok {
		row, err := j.Row(normalizeIndex(int(i), j.Len()))
		if err != nil {
			return nil, err
		}
		return Index(row, append([]Selector{inner}, rest...)...)
	}

	rows, err := selectedRowIndices(outer, j)
	if err != nil {
		return nil, err
	}

	switch in := inner.(type) {
	case IntSel:
		idx := make([]int, len(rows))
		for k, i := range rows {
			rowLen := j.Stops[i] - j.Starts[i]
			pos := normalizeIndex(int(in), rowLen)
			if pos < 0 || pos >= rowLen {
				return nil, colerr.New(colerr.OutOfBounds, "colindex: inner index %d out of range for row %d of length %d", int(in), i, rowLen)
			}
			idx[k] = j.Starts[i] + pos
		}
		result, err := colarray.Gather(j.Content, idx)
		if err != nil {
			return nil, err
		}
		return chainRest(result, rest)
	case SliceSel:
		starts := make([]int, len(rows))
		stops := make([]int, len(rows))
		for k, i := range rows {
			rowLen := j.Stops[i] - j.Starts[i]
			s, e := normalizeSlice(in, rowLen)
			starts[k] = j.Starts[i] + s
			stops[k] = j.Starts[i] + e
		}
		result, err := colarray.NewJagged(starts, stops, j.Content)
		if err != nil {
			return nil, err
		}
		return chainRest(result, rest)
	}
	return nil, colerr.New(colerr.NotImplemented, "colindex: boolean/integer-array inner selectors on a jagged axis are not implemented")
}

func selectedRowIndices(sel Selector, j *colarray.Jagged) ([]int, error) {
	switch s := sel.(type) {
	case SliceSel:
		start, stop := normalizeSlice(s, j.Len())
		idx := make([]int, stop-start)
		for i := range idx {
			idx[i] = start + i
		}
		return idx, nil
	case BoolArraySel:
		return boolToIndex([]bool(s), j.Len())
	case IntArraySel:
		return normalizeIntArray([]int(s), j.Len())
	}
	return nil, colerr.New(colerr.UnknownVariant, "colindex: unsupported outer selector on jagged")
}

// applyOne applies a single selector to n, dispatching on n's
// concrete variant. Field/tuple-of-field selectors are commutative
// with integer/slice selectors per spec §4.2 rule 1 and are handled
// first, including pass-through into a jagged-of-table (spec §9).
func applyOne(n colarray.Node, sel Selector) (interface{}, error) {
	switch s := sel.(type) {
	case FieldSel:
		return applyField(n, string(s))
	case FieldsSel:
		return applyFields(n, []string(s))
	case EllipsisSel:
		return applyOne(n, SliceSel{})
	}

	switch node := n.(type) {
	case *colarray.Jagged:
		return applyJagged(node, sel)
	case *colarray.Table:
		return applyTableRows(node, sel)
	default:
		return applyGeneric(n, sel)
	}
}

// applyField implements spec §4.2 rule 1 and the per-variant
// forwarding rule of spec §9 ("Property/method fall-through"):
// `.column_name` on a jagged-of-table forwards to the inner table.
func applyField(n colarray.Node, name string) (interface{}, error) {
	switch node := n.(type) {
	case *colarray.Table:
		return node.Field(name)
	case *colarray.Jagged:
		if name == "counts" {
			return colarray.NewLeafFromInts(node.Counts()), nil
		}
		if name == "offsets" {
			return colarray.NewLeafFromInts(node.Compact().Offsets()), nil
		}
		inner, err := applyField(node.Content, name)
		if err != nil {
			return nil, err
		}
		innerNode, ok := inner.(colarray.Node)
		if !ok {
			return inner, nil
		}
		return colarray.NewJagged(append([]int(nil), node.Starts...), append([]int(nil), node.Stops...), innerNode)
	case colarray.Masked:
		return applyField(node.Unwrap(), name)
	}
	return nil, colerr.New(colerr.UnknownVariant, "colindex: field selector not supported on this node variant")
}

func applyFields(n colarray.Node, names []string) (interface{}, error) {
	switch node := n.(type) {
	case *colarray.Table:
		return node.Project(names...)
	case *colarray.Jagged:
		inner, err := applyFields(node.Content, names)
		if err != nil {
			return nil, err
		}
		innerNode := inner.(colarray.Node)
		return colarray.NewJagged(append([]int(nil), node.Starts...), append([]int(nil), node.Stops...), innerNode)
	}
	return nil, colerr.New(colerr.UnknownVariant, "colindex: multi-field selector not supported on this node variant")
}

// applyTableRows applies a row-axis selector to a table: every column
// is sliced/gathered with the same selector (spec §4.1).
func applyTableRows(t *colarray.Table, sel Selector) (interface{}, error) {
	switch s := sel.(type) {
	case IntSel:
		i := normalizeIndex(int(s), t.Len())
		if i < 0 || i >= t.Len() {
			return nil, colerr.New(colerr.OutOfBounds, "colindex: table row %d out of range [0:%d)", i, t.Len())
		}
		return t.Row(i), nil
	case SliceSel:
		start, stop := normalizeSlice(s, t.Len())
		return t.RangeSlice(start, stop), nil
	case BoolArraySel:
		idx, err := boolToIndex([]bool(s), t.Len())
		if err != nil {
			return nil, err
		}
		return gatherRows(t, idx)
	case IntArraySel:
		idx, err := normalizeIntArray([]int(s), t.Len())
		if err != nil {
			return nil, err
		}
		return gatherRows(t, idx)
	}
	return nil, colerr.New(colerr.UnknownVariant, "colindex: unsupported selector on table")
}

func gatherRows(t *colarray.Table, idx []int) (*colarray.Table, error) {
	names := t.Names()
	fields := make([]colarray.Node, len(names))
	for i, name := range names {
		col, _ := t.Field(name)
		gathered, err := colarray.Gather(col, idx)
		if err != nil {
			return nil, err
		}
		fields[i] = gathered
	}
	return colarray.NewTable(names, fields)
}

// applyJagged implements spec §4.2 rule 3: an integer row selector
// returns the single row's content view; a slice/array selector
// returns a new jagged node with gathered starts/stops. It is used
// for a lone selector on a jagged axis (the two-selector case is
// handled by indexJaggedTwoLevel above, per rule 4).
func applyJagged(j *colarray.Jagged, sel Selector) (interface{}, error) {
	switch s := sel.(type) {
	case IntSel:
		i := normalizeIndex(int(s), j.Len())
		return j.Row(i)
	case SliceSel:
		start, stop := normalizeSlice(s, j.Len())
		return j.RangeSlice(start, stop), nil
	case BoolArraySel:
		idx, err := boolToIndex([]bool(s), j.Len())
		if err != nil {
			return nil, err
		}
		return gatherJaggedRows(j, idx)
	case IntArraySel:
		idx, err := normalizeIntArray([]int(s), j.Len())
		if err != nil {
			return nil, err
		}
		return gatherJaggedRows(j, idx)
	}
	return nil, colerr.New(colerr.UnknownVariant, "colindex: unsupported selector on jagged")
}

func gatherJaggedRows(j *colarray.Jagged, idx []int) (*colarray.Jagged, error) {
	starts := make([]int, len(idx))
	stops := make([]int, len(idx))
	for k, i := range idx {
		starts[k] = j.Starts[i]
		stops[k] = j.Stops[i]
	}
	return colarray.NewJagged(starts, stops, j.Content)
}

// applyGeneric handles every node variant not given bespoke treatment
// above, via the shared Ranger/bool-mask/gather primitives.
func applyGeneric(n colarray.Node, sel Selector) (interface{}, error) {
	switch s := sel.(type) {
	case IntSel:
		i := normalizeIndex(int(s), n.Len())
		if i < 0 || i >= n.Len() {
			return nil, colerr.New(colerr.OutOfBounds, "colindex: index %d out of range [0:%d)", i, n.Len())
		}
		return colarray.ValueAt(n, i), nil
	case SliceSel:
		start, stop := normalizeSlice(s, n.Len())
		r, ok := n.(colarray.Ranger)
		if !ok {
			return nil, colerr.New(colerr.UnknownVariant, "colindex: node does not support slicing")
		}
		return r.RangeSlice(start, stop), nil
	case BoolArraySel:
		idx, err := boolToIndex([]bool(s), n.Len())
		if err != nil {
			return nil, err
		}
		return colarray.Gather(n, idx)
	case IntArraySel:
		idx, err := normalizeIntArray([]int(s), n.Len())
		if err != nil {
			return nil, err
		}
		return colarray.Gather(n, idx)
	}
	return nil, colerr.New(colerr.UnknownVariant, "colindex: unsupported selector")
}

func boolToIndex(mask []bool, length int) ([]int, error) {
	if len(mask) != length {
		return nil, colerr.New(colerr.LengthMismatch, "colindex: boolean selector length %d != axis length %d", len(mask), length)
	}
	var idx []int
	for i, m := range mask {
		if m {
			idx = append(idx, i)
		}
	}
	return idx, nil
}

func normalizeIntArray(raw []int, length int) ([]int, error) {
	idx := make([]int, len(raw))
	for i, v := range raw {
		nv := normalizeIndex(v, length)
		if nv < 0 || nv >= length {
			return nil, colerr.New(colerr.OutOfBounds, "colindex: gather index %d out of range [0:%d)", v, length)
		}
		idx[i] = nv
	}
	return idx, nil
}
