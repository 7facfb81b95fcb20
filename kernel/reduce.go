// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"github.com/awkgo/colarray"
	"github.com/awkgo/colarray/buffer"
	"github.com/awkgo/colarray/colerr"
	"github.com/awkgo/colarray/virtual"
)

// Reduce collapses the innermost axis of n with op (spec §4.3:
// "Reductions collapse the innermost axis: jagged reduces per sublist
// to a flat array; repeated reductions peel off one axis each").
// Calling Reduce again on the result peels off the next axis out.
func Reduce(op buffer.BinaryOp, n colarray.Node) (colarray.Node, error) {
	if v, ok := n.(*virtual.Virtual); ok {
		m, err := v.Materialized()
		if err != nil {
			return nil, err
		}
		return Reduce(op, m)
	}
	switch node := n.(type) {
	case *colarray.Jagged:
		return reduceJagged(op, node)
	case *colarray.Chunked:
		return reduceChunked(op, node)
	case colarray.Masked:
		content, err := Reduce(op, node.Unwrap())
		if err != nil {
			return nil, err
		}
		return content, nil
	case *colarray.Table:
		names := node.Names()
		fields := make([]colarray.Node, len(names))
		for i, name := range names {
			col, _ := node.Field(name)
			r, err := Reduce(op, col)
			if err != nil {
				return nil, err
			}
			fields[i] = r
		}
		return colarray.NewTable(names, fields)
	}
	return nil, colerr.New(colerr.UnknownVariant, "kernel: reduce: %T has no innermost axis to collapse", n)
}

// reduceJagged folds op across each row's elements, producing one
// leaf value per row. The row's identity element (spec-grounded on
// buffer.BinaryOp.Neutral, used for the broadcasting-identity testable
// property of §8) seeds empty rows. When the content is not a leaf,
// the content is reduced instead and rewrapped in the same rows.
func reduceJagged(op buffer.BinaryOp, j *colarray.Jagged) (colarray.Node, error) {
	leaf, ok := j.Content.(*colarray.Leaf)
	if !ok {
		inner, err := Reduce(op, j.Content)
		if err != nil {
			return nil, err
		}
		return colarray.NewJagged(j.Starts, j.Stops, inner)
	}
	buf := leaf.Buffer()
	out := make([]interface{}, j.Len())
	for i := 0; i < j.Len(); i++ {
		start, stop := j.Starts[i], j.Stops[i]
		if stop == start {
			out[i] = op.Neutral(buf.DType).At(0)
			continue
		}
		rowBuf := buf.Slice(start, start+1)
		for k := start + 1; k < stop; k++ {
			step, err := op.Binary(rowBuf, buf.Slice(k, k+1))
			if err != nil {
				return nil, err
			}
			rowBuf = step
		}
		out[i] = rowBuf.At(0)
	}
	built, err := buildLeafFrom(buf.DType, out)
	if err != nil {
		return nil, err
	}
	return colarray.NewLeaf(built), nil
}

func reduceChunked(op buffer.BinaryOp, c *colarray.Chunked) (colarray.Node, error) {
	chunks := make([]colarray.Node, len(c.Chunks))
	counts := make([]int, len(c.Chunks))
	for i, chunk := range c.Chunks {
		r, err := Reduce(op, chunk)
		if err != nil {
			return nil, err
		}
		chunks[i] = r
		counts[i] = r.Len()
	}
	return colarray.NewChunked(chunks, counts)
}

func buildLeafFrom(d buffer.DType, values []interface{}) (*buffer.Buffer, error) {
	switch d {
	case buffer.Int64:
		out := make([]int64, len(values))
		for i, v := range values {
			out[i] = v.(int64)
		}
		return buffer.NewInt64(out), nil
	case buffer.Float64:
		out := make([]float64, len(values))
		for i, v := range values {
			out[i] = v.(float64)
		}
		return buffer.NewFloat64(out), nil
	case buffer.Complex128:
		out := make([]complex128, len(values))
		for i, v := range values {
			out[i] = v.(complex128)
		}
		return buffer.NewComplex128(out), nil
	case buffer.Bool:
		out := make([]bool, len(values))
		for i, v := range values {
			out[i] = v.(bool)
		}
		return buffer.NewBool(out), nil
	}
	return nil, colerr.New(colerr.InvalidDType, "kernel: reduce: unknown dtype")
}
