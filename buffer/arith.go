// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package buffer

import "fmt"

// promoteTo returns a copy of b converted to dtype d. Only used
// internally by BinaryOp/UnaryOp to align operand dtypes before
// computing, matching the teacher's binaryArithType promote-then-
// compute shape.
func (b *Buffer) promoteTo(d DType) *Buffer {
	if b.DType == d {
		return b
	}
	n := b.flatLen()
	switch d {
	case Float64:
		out := make([]float64, n)
		for i := range out {
			out[i] = b.float64At(i)
		}
		return NewFloat64(out)
	case Complex128:
		out := make([]complex128, n)
		for i := range out {
			out[i] = b.complex128At(i)
		}
		return NewComplex128(out)
	case Int64:
		out := make([]int64, n)
		for i := range out {
			out[i] = b.int64At(i)
		}
		return NewInt64(out)
	}
	panic("buffer: cannot promote to " + d.String())
}

func (b *Buffer) int64At(i int) int64 {
	switch b.DType {
	case Int64:
		return b.I64[i]
	case Bool:
		if b.B[i] {
			return 1
		}
		return 0
	}
	panic("buffer: cannot read int64 from " + b.DType.String())
}

func (b *Buffer) float64At(i int) float64 {
	switch b.DType {
	case Int64:
		return float64(b.I64[i])
	case Float64:
		return b.F64[i]
	case Bool:
		if b.B[i] {
			return 1
		}
		return 0
	}
	panic("buffer: cannot read float64 from " + b.DType.String())
}

func (b *Buffer) complex128At(i int) complex128 {
	switch b.DType {
	case Int64:
		return complex(float64(b.I64[i]), 0)
	case Float64:
		return complex(b.F64[i], 0)
	case Complex128:
		return b.C128[i]
	}
	panic("buffer: cannot read complex128 from " + b.DType.String())
}

// BinaryOp is the set of element-wise binary kernels a Buffer
// supports, the only surface package kernel talks to once it has
// recursed down to a leaf (spec §4.3: "Leaf buffer: delegate to the
// external primitive library").
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
)

func (op BinaryOp) String() string {
	return [...]string{"add", "sub", "mul", "div"}[op]
}

// Binary applies op element-wise to a and b, which must have equal
// length, promoting to the wider dtype first.
func (op BinaryOp) Binary(a, b *Buffer) (*Buffer, error) {
	if a.Len() != b.Len() {
		return nil, fmt.Errorf("buffer: length mismatch %d != %d in %s", a.Len(), b.Len(), op)
	}
	d := Promote(a.DType, b.DType)
	if op == Div && d != Complex128 {
		d = Float64 // division always promotes to at least float, like ivy's divType.
	}
	a, b = a.promoteTo(d), b.promoteTo(d)
	n := a.Len()
	switch d {
	case Int64:
		out := make([]int64, n)
		for i := range out {
			out[i] = intBinary(op, a.I64[i], b.I64[i])
		}
		return NewInt64(out), nil
	case Float64:
		out := make([]float64, n)
		for i := range out {
			out[i] = floatBinary(op, a.F64[i], b.F64[i])
		}
		return NewFloat64(out), nil
	case Complex128:
		out := make([]complex128, n)
		for i := range out {
			out[i] = complexBinary(op, a.C128[i], b.C128[i])
		}
		return NewComplex128(out), nil
	}
	return nil, fmt.Errorf("buffer: cannot apply %s to dtype %s", op, d)
}

func intBinary(op BinaryOp, x, y int64) int64 {
	switch op {
	case Add:
		return x + y
	case Sub:
		return x - y
	case Mul:
		return x * y
	}
	panic("unreachable")
}

func floatBinary(op BinaryOp, x, y float64) float64 {
	switch op {
	case Add:
		return x + y
	case Sub:
		return x - y
	case Mul:
		return x * y
	case Div:
		return x / y
	}
	panic("unreachable")
}

func complexBinary(op BinaryOp, x, y complex128) complex128 {
	switch op {
	case Add:
		return x + y
	case Sub:
		return x - y
	case Mul:
		return x * y
	case Div:
		return x / y
	}
	panic("unreachable")
}

// UnaryOp is the set of element-wise unary kernels.
type UnaryOp int

const (
	Neg UnaryOp = iota
)

// Unary applies op element-wise to a.
func (op UnaryOp) Unary(a *Buffer) (*Buffer, error) {
	switch a.DType {
	case Int64:
		out := make([]int64, len(a.I64))
		for i, v := range a.I64 {
			out[i] = -v
		}
		return NewInt64(out), nil
	case Float64:
		out := make([]float64, len(a.F64))
		for i, v := range a.F64 {
			out[i] = -v
		}
		return NewFloat64(out), nil
	case Complex128:
		out := make([]complex128, len(a.C128))
		for i, v := range a.C128 {
			out[i] = -v
		}
		return NewComplex128(out), nil
	}
	return nil, fmt.Errorf("buffer: cannot negate dtype %s", a.DType)
}

// Neutral returns the identity element for op in dtype d, used by the
// broadcasting-identity testable property (spec §8).
func (op BinaryOp) Neutral(d DType) *Buffer {
	switch op {
	case Add, Sub:
		switch d {
		case Int64:
			return NewInt64([]int64{0})
		case Float64:
			return NewFloat64([]float64{0})
		case Complex128:
			return NewComplex128([]complex128{0})
		}
	case Mul, Div:
		switch d {
		case Int64:
			return NewInt64([]int64{1})
		case Float64:
			return NewFloat64([]float64{1})
		case Complex128:
			return NewComplex128([]complex128{1})
		}
	}
	panic("buffer: no neutral element for " + op.String())
}

// SumInt64 returns the sum of xs.
func SumInt64(xs []int64) int64 {
	var s int64
	for _, x := range xs {
		s += x
	}
	return s
}

func SumFloat64(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}
