// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package buffer is the rectangular leaf-buffer primitive that
// spec.md §1 deliberately keeps out of scope for the node tree: a
// typed, fixed-stride, multidimensional array plus element-wise
// arithmetic, reductions, gather/scatter, boolean masking, bit
// packing and type promotion. Every node variant in package colarray
// ultimately bottoms out in a Buffer; nothing above this package
// reimplements arithmetic on raw numbers.
//
// There is no numeric tensor library anywhere in the retrieval pack,
// so this is a minimal reference implementation of that external
// boundary, grounded on the promotion ladder the teacher builds for
// its own numeric tower (robpike.io/ivy/value/binary.go's
// binaryArithType/divType/rationalType and bigint.go's shrink()) but
// reduced from ivy's five-rung tower to the three numeric dtypes a
// columnar store actually needs on the wire: int64, float64 and
// complex128, plus a bool dtype for masks.
package buffer

import "fmt"

// DType identifies the element type of a Buffer.
type DType int

const (
	Int64 DType = iota
	Float64
	Complex128
	Bool
)

func (d DType) String() string {
	switch d {
	case Int64:
		return "int64"
	case Float64:
		return "float64"
	case Complex128:
		return "complex128"
	case Bool:
		return "bool"
	}
	return "unknown"
}

// rank gives the promotion order used by Promote: the wider dtype of
// two operands wins, mirroring binaryArithType's "maximum of the two
// types" rule.
func (d DType) rank() int {
	switch d {
	case Bool:
		return 0
	case Int64:
		return 1
	case Float64:
		return 2
	case Complex128:
		return 3
	}
	return -1
}

// Promote returns the wider of a and b, the dtype a binary kernel
// over a and b must compute in.
func Promote(a, b DType) DType {
	if a.rank() >= b.rank() {
		return a
	}
	return b
}

// Buffer is a typed, fixed-stride, possibly multidimensional, flat
// array. Exactly one of the typed slices is populated, selected by
// DType; Shape[0] is always the logical length (the outer axis other
// node variants index over). A Buffer with len(Shape) > 1 is
// rectangular: every row has the same trailing shape.
type Buffer struct {
	DType DType
	Shape []int

	I64  []int64
	F64  []float64
	C128 []complex128
	B    []bool
}

// rowSize is the number of scalar elements per outer row, i.e. the
// product of Shape[1:].
func (b *Buffer) rowSize() int {
	return productInts(b.Shape[1:])
}

func productInts(xs []int) int {
	n := 1
	for _, x := range xs {
		n *= x
	}
	return n
}

// Len returns the outer (logical) length of the buffer: Shape[0].
func (b *Buffer) Len() int {
	if len(b.Shape) == 0 {
		return 0
	}
	return b.Shape[0]
}

// flatLen returns the total number of scalar elements.
func (b *Buffer) flatLen() int {
	switch b.DType {
	case Int64:
		return len(b.I64)
	case Float64:
		return len(b.F64)
	case Complex128:
		return len(b.C128)
	case Bool:
		return len(b.B)
	}
	return 0
}

// NewInt64 builds a 1-D int64 buffer.
func NewInt64(data []int64) *Buffer {
	return &Buffer{DType: Int64, Shape: []int{len(data)}, I64: data}
}

// NewFloat64 builds a 1-D float64 buffer.
func NewFloat64(data []float64) *Buffer {
	return &Buffer{DType: Float64, Shape: []int{len(data)}, F64: data}
}

// NewComplex128 builds a 1-D complex128 buffer.
func NewComplex128(data []complex128) *Buffer {
	return &Buffer{DType: Complex128, Shape: []int{len(data)}, C128: data}
}

// NewBool builds a 1-D bool buffer.
func NewBool(data []bool) *Buffer {
	return &Buffer{DType: Bool, Shape: []int{len(data)}, B: data}
}

// At returns the scalar (or, for rank > 1, the row slice reinterpreted
// as a new Buffer view) at outer index i as an untyped Go value.
func (b *Buffer) At(i int) interface{} {
	if len(b.Shape) > 1 {
		return b.RowView(i)
	}
	switch b.DType {
	case Int64:
		return b.I64[i]
	case Float64:
		return b.F64[i]
	case Complex128:
		return b.C128[i]
	case Bool:
		return b.B[i]
	}
	panic("buffer: unknown dtype")
}

// RowView returns row i of a rank > 1 buffer as its own Buffer,
// sharing storage (a view, not a copy).
func (b *Buffer) RowView(i int) *Buffer {
	rs := b.rowSize()
	shape := append([]int(nil), b.Shape[1:]...)
	v := &Buffer{DType: b.DType, Shape: shape}
	switch b.DType {
	case Int64:
		v.I64 = b.I64[i*rs : (i+1)*rs]
	case Float64:
		v.F64 = b.F64[i*rs : (i+1)*rs]
	case Complex128:
		v.C128 = b.C128[i*rs : (i+1)*rs]
	case Bool:
		v.B = b.B[i*rs : (i+1)*rs]
	}
	return v
}

// Slice returns the view b[i:j] along the outer axis, sharing the
// backing array (§4.2: "Returned nodes share buffers with their
// parents whenever possible").
func (b *Buffer) Slice(i, j int) *Buffer {
	rs := b.rowSize()
	shape := append([]int(nil), b.Shape...)
	shape[0] = j - i
	v := &Buffer{DType: b.DType, Shape: shape}
	switch b.DType {
	case Int64:
		v.I64 = b.I64[i*rs : j*rs]
	case Float64:
		v.F64 = b.F64[i*rs : j*rs]
	case Complex128:
		v.C128 = b.C128[i*rs : j*rs]
	case Bool:
		v.B = b.B[i*rs : j*rs]
	}
	return v
}

// Gather returns a new buffer containing b[index[k]] for each k: a
// copy, since a gather over arbitrary indices cannot be a contiguous
// view.
func (b *Buffer) Gather(index []int) (*Buffer, error) {
	rs := b.rowSize()
	shape := append([]int(nil), b.Shape...)
	shape[0] = len(index)
	out := &Buffer{DType: b.DType, Shape: shape}
	n := b.Len()
	for _, idx := range index {
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("buffer: gather index %d out of range [0:%d)", idx, n)
		}
	}
	switch b.DType {
	case Int64:
		out.I64 = make([]int64, 0, len(index)*rs)
		for _, idx := range index {
			out.I64 = append(out.I64, b.I64[idx*rs:(idx+1)*rs]...)
		}
	case Float64:
		out.F64 = make([]float64, 0, len(index)*rs)
		for _, idx := range index {
			out.F64 = append(out.F64, b.F64[idx*rs:(idx+1)*rs]...)
		}
	case Complex128:
		out.C128 = make([]complex128, 0, len(index)*rs)
		for _, idx := range index {
			out.C128 = append(out.C128, b.C128[idx*rs:(idx+1)*rs]...)
		}
	case Bool:
		out.B = make([]bool, 0, len(index)*rs)
		for _, idx := range index {
			out.B = append(out.B, b.B[idx*rs:(idx+1)*rs]...)
		}
	}
	return out, nil
}

// BooleanMask returns the elements of b for which mask is true, in
// order; len(mask) must equal b.Len().
func (b *Buffer) BooleanMask(mask []bool) (*Buffer, error) {
	if len(mask) != b.Len() {
		return nil, fmt.Errorf("buffer: boolean mask length %d != buffer length %d", len(mask), b.Len())
	}
	idx := make([]int, 0, len(mask))
	for i, m := range mask {
		if m {
			idx = append(idx, i)
		}
	}
	return b.Gather(idx)
}

// Copy returns a deep copy of b.
func (b *Buffer) Copy() *Buffer {
	out := &Buffer{DType: b.DType, Shape: append([]int(nil), b.Shape...)}
	switch b.DType {
	case Int64:
		out.I64 = append([]int64(nil), b.I64...)
	case Float64:
		out.F64 = append([]float64(nil), b.F64...)
	case Complex128:
		out.C128 = append([]complex128(nil), b.C128...)
	case Bool:
		out.B = append([]bool(nil), b.B...)
	}
	return out
}

// ToList materializes b as nested ordinary Go values, used by
// to_list() (test/debug only per spec §3).
func (b *Buffer) ToList() []interface{} {
	n := b.Len()
	out := make([]interface{}, n)
	for i := range out {
		out[i] = b.At(i)
	}
	return out
}
