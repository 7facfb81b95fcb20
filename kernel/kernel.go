// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kernel implements the broadcasting/UFunc dispatch of spec
// §4.3: element-wise binary and unary kernels and innermost-axis
// reductions, recursing structurally through every node variant down
// to the leaf buffer. It is grounded on the teacher's own
// binaryArithType/BinaryOp dispatch (robpike.io/ivy/value/binary.go),
// generalized from ivy's flat Value operands to the jagged/masked/
// table/union node family.
package kernel

import (
	"github.com/awkgo/colarray"
	"github.com/awkgo/colarray/buffer"
	"github.com/awkgo/colarray/colerr"
	"github.com/awkgo/colarray/virtual"
)

// Binary applies op element-wise across a and b, recursing structurally
// per spec §4.3.
func Binary(op buffer.BinaryOp, a, b colarray.Node) (colarray.Node, error) {
	if v, ok := a.(*virtual.Virtual); ok {
		n, err := v.Materialized()
		if err != nil {
			return nil, err
		}
		return Binary(op, n, b)
	}
	if v, ok := b.(*virtual.Virtual); ok {
		n, err := v.Materialized()
		if err != nil {
			return nil, err
		}
		return Binary(op, a, n)
	}

	if ac, ok := a.(*colarray.Chunked); ok {
		return chunkedBinary(op, ac, b)
	}
	if bc, ok := b.(*colarray.Chunked); ok {
		return chunkedBinaryRHS(op, a, bc)
	}

	if am, ok := a.(colarray.Masked); ok {
		return maskedBinary(op, am, b)
	}
	if bm, ok := b.(colarray.Masked); ok {
		return maskedBinaryRHS(op, a, bm)
	}

	if aj, ok := a.(*colarray.Jagged); ok {
		return jaggedBinaryLHS(op, aj, b)
	}
	if bj, ok := b.(*colarray.Jagged); ok {
		return jaggedBinaryRHS(op, a, bj)
	}

	if au, ok := a.(*colarray.Union); ok {
		return unionBinary(op, au, b)
	}
	if bu, ok := b.(*colarray.Union); ok {
		return unionBinaryRHS(op, a, bu)
	}

	if at, ok := a.(*colarray.Table); ok {
		return tableBinary(op, at, b)
	}
	if bt, ok := b.(*colarray.Table); ok {
		return tableBinaryRHS(op, a, bt)
	}

	if ax, ok := a.(*colarray.Indexed); ok {
		return indexedBinary(op, ax, b)
	}
	if bx, ok := b.(*colarray.Indexed); ok {
		return indexedBinaryRHS(op, a, bx)
	}

	al, aok := a.(*colarray.Leaf)
	bl, bok := b.(*colarray.Leaf)
	if aok && bok {
		out, err := op.Binary(al.Buffer(), bl.Buffer())
		if err != nil {
			return nil, colerr.Wrap(colerr.InvalidDType, err, "kernel: binary %s", op)
		}
		return colarray.NewLeaf(out), nil
	}
	return nil, colerr.New(colerr.UnknownVariant, "kernel: binary %s not supported between %T and %T", op, a, b)
}

// Unary applies op element-wise to a, recursing structurally.
func Unary(op buffer.UnaryOp, a colarray.Node) (colarray.Node, error) {
	if v, ok := a.(*virtual.Virtual); ok {
		n, err := v.Materialized()
		if err != nil {
			return nil, err
		}
		return Unary(op, n)
	}
	switch node := a.(type) {
	case *colarray.Chunked:
		chunks := make([]colarray.Node, len(node.Chunks))
		for i, c := range node.Chunks {
			r, err := Unary(op, c)
			if err != nil {
				return nil, err
			}
			chunks[i] = r
		}
		return colarray.NewChunked(chunks, node.Counts)
	case colarray.Masked:
		content, err := Unary(op, node.Unwrap())
		if err != nil {
			return nil, err
		}
		return rewrapMask(node, content)
	case *colarray.Jagged:
		content, err := Unary(op, node.Content)
		if err != nil {
			return nil, err
		}
		return colarray.NewJagged(append([]int(nil), node.Starts...), append([]int(nil), node.Stops...), content)
	case *colarray.Union:
		contents := make([]colarray.Node, len(node.Contents))
		for i, c := range node.Contents {
			r, err := Unary(op, c)
			if err != nil {
				return nil, err
			}
			contents[i] = r
		}
		return colarray.NewUnion(node.Tags, node.Index, contents)
	case *colarray.Table:
		names := node.Names()
		fields := make([]colarray.Node, len(names))
		for i, name := range names {
			col, _ := node.Field(name)
			r, err := Unary(op, col)
			if err != nil {
				return nil, err
			}
			fields[i] = r
		}
		return colarray.NewTable(names, fields)
	case *colarray.Indexed:
		content, err := Unary(op, node.Content)
		if err != nil {
			return nil, err
		}
		return colarray.NewIndexed(node.Index, content)
	case *colarray.Leaf:
		out, err := op.Unary(node.Buffer())
		if err != nil {
			return nil, colerr.Wrap(colerr.InvalidDType, err, "kernel: unary")
		}
		return colarray.NewLeaf(out), nil
	}
	return nil, colerr.New(colerr.UnknownVariant, "kernel: unary not supported on %T", a)
}

func chunkedBinary(op buffer.BinaryOp, ac *colarray.Chunked, b colarray.Node) (colarray.Node, error) {
	if bc, ok := b.(*colarray.Chunked); ok {
		if len(ac.Counts) != len(bc.Counts) {
			return nil, colerr.New(colerr.LengthMismatch, "kernel: chunk layouts differ (%d vs %d chunks)", len(ac.Counts), len(bc.Counts))
		}
		chunks := make([]colarray.Node, len(ac.Chunks))
		for i := range ac.Chunks {
			if ac.Counts[i] != bc.Counts[i] {
				return nil, colerr.New(colerr.LengthMismatch, "kernel: chunk %d counts differ (%d vs %d)", i, ac.Counts[i], bc.Counts[i])
			}
			r, err := Binary(op, ac.Chunks[i], bc.Chunks[i])
			if err != nil {
				return nil, err
			}
			chunks[i] = r
		}
		return colarray.NewChunked(chunks, ac.Counts)
	}
	chunks := make([]colarray.Node, len(ac.Chunks))
	off := 0
	for i, c := range ac.Chunks {
		slice := rangeOf(b, off, off+ac.Counts[i])
		r, err := Binary(op, c, slice)
		if err != nil {
			return nil, err
		}
		chunks[i] = r
		off += ac.Counts[i]
	}
	return colarray.NewChunked(chunks, ac.Counts)
}

func chunkedBinaryRHS(op buffer.BinaryOp, a colarray.Node, bc *colarray.Chunked) (colarray.Node, error) {
	chunks := make([]colarray.Node, len(bc.Chunks))
	off := 0
	for i, c := range bc.Chunks {
		slice := rangeOf(a, off, off+bc.Counts[i])
		r, err := Binary(op, slice, c)
		if err != nil {
			return nil, err
		}
		chunks[i] = r
		off += bc.Counts[i]
	}
	return colarray.NewChunked(chunks, bc.Counts)
}

func maskedBinary(op buffer.BinaryOp, am colarray.Masked, b colarray.Node) (colarray.Node, error) {
	if bm, ok := b.(colarray.Masked); ok {
		content, err := Binary(op, am.Unwrap(), bm.Unwrap())
		if err != nil {
			return nil, err
		}
		nulls := orNulls(am, bm, am.Len())
		return colarray.NewBoolmasked(nulls, content, true)
	}
	content, err := Binary(op, am.Unwrap(), b)
	if err != nil {
		return nil, err
	}
	return rewrapMask(am, content)
}

func maskedBinaryRHS(op buffer.BinaryOp, a colarray.Node, bm colarray.Masked) (colarray.Node, error) {
	content, err := Binary(op, a, bm.Unwrap())
	if err != nil {
		return nil, err
	}
	return rewrapMask(bm, content)
}

func rewrapMask(m colarray.Masked, content colarray.Node) (colarray.Node, error) {
	nulls := make([]bool, m.Len())
	for i := range nulls {
		nulls[i] = m.IsNull(i)
	}
	return colarray.NewBoolmasked(nulls, content, true)
}

func orNulls(a, b colarray.Masked, n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = a.IsNull(i) || b.IsNull(i)
	}
	return out
}

func jaggedBinaryLHS(op buffer.BinaryOp, aj *colarray.Jagged, b colarray.Node) (colarray.Node, error) {
	if bj, ok := b.(*colarray.Jagged); ok {
		return jaggedJaggedBinary(op, aj, bj)
	}
	ac := aj.Compact()
	bx, err := broadcastToJagged(ac, b)
	if err != nil {
		return nil, err
	}
	content, err := Binary(op, ac.Content, bx)
	if err != nil {
		return nil, err
	}
	return colarray.FromOffsets(ac.Offsets(), content)
}

func jaggedBinaryRHS(op buffer.BinaryOp, a colarray.Node, bj *colarray.Jagged) (colarray.Node, error) {
	bc := bj.Compact()
	ax, err := broadcastToJagged(bc, a)
	if err != nil {
		return nil, err
	}
	content, err := Binary(op, ax, bc.Content)
	if err != nil {
		return nil, err
	}
	return colarray.FromOffsets(bc.Offsets(), content)
}

func jaggedJaggedBinary(op buffer.BinaryOp, aj, bj *colarray.Jagged) (colarray.Node, error) {
	ac, bc := aj.Compact(), bj.Compact()
	ao, bo := ac.Offsets(), bc.Offsets()
	if !equalInts(ao, bo) {
		return nil, colerr.New(colerr.IncompatibleJagged, "kernel: jagged-shape-mismatch")
	}
	content, err := Binary(op, ac.Content, bc.Content)
	if err != nil {
		return nil, err
	}
	return colarray.FromOffsets(ao, content)
}

// broadcastToJagged repeats a non-jagged operand across every row of
// jc (compacted) according to its parents map, so a per-row scalar
// array (length = number of rows) aligns element-for-element with
// jc.Content (spec §4.3: "Scalar and rectangular operands broadcast
// by repetition according to parents").
func broadcastToJagged(jc *colarray.Jagged, operand colarray.Node) (colarray.Node, error) {
	if operand.Len() == jc.Content.Len() {
		return operand, nil
	}
	if operand.Len() != jc.Len() {
		return nil, colerr.New(colerr.IncompatibleJagged, "kernel: cannot broadcast length %d against %d rows or %d elements", operand.Len(), jc.Len(), jc.Content.Len())
	}
	parents := jc.Parents()
	return colarray.Gather(operand, parents)
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func unionBinary(op buffer.BinaryOp, au *colarray.Union, b colarray.Node) (colarray.Node, error) {
	positions, localIdx := au.PartitionByTag()
	contents := make([]colarray.Node, len(au.Contents))
	for tag, content := range au.Contents {
		var operand colarray.Node = content
		if positions[tag] != nil {
			var err error
			operand, err = colarray.Gather(content, localIdx[tag])
			if err != nil {
				return nil, err
			}
			bSub, err := colarray.Gather(b, positions[tag])
			if err != nil {
				return nil, err
			}
			r, err := Binary(op, operand, bSub)
			if err != nil {
				return nil, err
			}
			contents[tag] = r
			continue
		}
		contents[tag] = content
	}
	tags := make([]int, au.Len())
	index := make([]int, au.Len())
	cursor := make([]int, len(au.Contents))
	for i := 0; i < au.Len(); i++ {
		tag := au.Tags[i]
		tags[i] = tag
		index[i] = cursor[tag]
		cursor[tag]++
	}
	return colarray.NewUnion(tags, index, contents)
}

func unionBinaryRHS(op buffer.BinaryOp, a colarray.Node, bu *colarray.Union) (colarray.Node, error) {
	positions, localIdx := bu.PartitionByTag()
	contents := make([]colarray.Node, len(bu.Contents))
	for tag, content := range bu.Contents {
		if positions[tag] == nil {
			contents[tag] = content
			continue
		}
		operand, err := colarray.Gather(content, localIdx[tag])
		if err != nil {
			return nil, err
		}
		aSub, err := colarray.Gather(a, positions[tag])
		if err != nil {
			return nil, err
		}
		r, err := Binary(op, aSub, operand)
		if err != nil {
			return nil, err
		}
		contents[tag] = r
	}
	tags := make([]int, bu.Len())
	index := make([]int, bu.Len())
	cursor := make([]int, len(bu.Contents))
	for i := 0; i < bu.Len(); i++ {
		tag := bu.Tags[i]
		tags[i] = tag
		index[i] = cursor[tag]
		cursor[tag]++
	}
	return colarray.NewUnion(tags, index, contents)
}

func tableBinary(op buffer.BinaryOp, at *colarray.Table, b colarray.Node) (colarray.Node, error) {
	names := at.Names()
	fields := make([]colarray.Node, len(names))
	if bt, ok := b.(*colarray.Table); ok {
		for i, name := range names {
			ac, _ := at.Field(name)
			bc, err := bt.Field(name)
			if err != nil {
				return nil, colerr.New(colerr.UnknownVariant, "kernel: table operands have mismatched field %q", name)
			}
			r, err := Binary(op, ac, bc)
			if err != nil {
				return nil, err
			}
			fields[i] = r
		}
		return colarray.NewTable(names, fields)
	}
	for i, name := range names {
		ac, _ := at.Field(name)
		r, err := Binary(op, ac, b)
		if err != nil {
			return nil, err
		}
		fields[i] = r
	}
	return colarray.NewTable(names, fields)
}

func tableBinaryRHS(op buffer.BinaryOp, a colarray.Node, bt *colarray.Table) (colarray.Node, error) {
	names := bt.Names()
	fields := make([]colarray.Node, len(names))
	for i, name := range names {
		bc, _ := bt.Field(name)
		r, err := Binary(op, a, bc)
		if err != nil {
			return nil, err
		}
		fields[i] = r
	}
	return colarray.NewTable(names, fields)
}

func indexedBinary(op buffer.BinaryOp, ax *colarray.Indexed, b colarray.Node) (colarray.Node, error) {
	content, err := Binary(op, ax.Content, b)
	if err != nil {
		return nil, err
	}
	return colarray.NewIndexed(ax.Index, content)
}

func indexedBinaryRHS(op buffer.BinaryOp, a colarray.Node, bx *colarray.Indexed) (colarray.Node, error) {
	content, err := Binary(op, a, bx.Content)
	if err != nil {
		return nil, err
	}
	return colarray.NewIndexed(bx.Index, content)
}

// rangeOf slices n[i:j) for the broadcast path of a non-chunked
// operand paired against a Chunked node; it mirrors the package-level
// helper colarray keeps unexported, reimplemented here through the
// exported Ranger/Gather surface since kernel lives outside colarray.
func rangeOf(n colarray.Node, i, j int) colarray.Node {
	if r, ok := n.(colarray.Ranger); ok {
		return r.RangeSlice(i, j)
	}
	idx := make([]int, j-i)
	for k := range idx {
		idx[k] = i + k
	}
	g, _ := colarray.Gather(n, idx)
	return g
}
