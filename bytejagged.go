// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package colarray

import (
	"encoding/binary"
	"iter"
	"math"

	"github.com/awkgo/colarray/buffer"
	"github.com/awkgo/colarray/colerr"
	"github.com/awkgo/colarray/coltype"
)

// ByteJagged is the byte-addressed specialization of Jagged: Starts
// and Stops are measured in bytes, and a row [s,e) decodes as
// (e-s)/elemSize(DType) elements of DType (spec §4.1 "byte-jagged").
type ByteJagged struct {
	Starts, Stops []int // byte units
	Content       []byte
	DType         buffer.DType
	Writeable     bool
}

// NewByteJagged validates the starts/stops invariant in byte units.
func NewByteJagged(starts, stops []int, content []byte, dtype buffer.DType, writeable bool) (*ByteJagged, error) {
	if err := checkStartsStops(starts, stops, len(content)); err != nil {
		return nil, err
	}
	return &ByteJagged{Starts: starts, Stops: stops, Content: content, DType: dtype, Writeable: writeable}, nil
}

func elemSize(d buffer.DType) int {
	switch d {
	case buffer.Int64, buffer.Float64:
		return 8
	case buffer.Complex128:
		return 16
	case buffer.Bool:
		return 1
	}
	return 1
}

func (bj *ByteJagged) Len() int { return len(bj.Starts) }

func (bj *ByteJagged) Type() *coltype.Type {
	var prim coltype.Prim
	switch bj.DType {
	case buffer.Int64:
		prim = coltype.Int64
	case buffer.Float64:
		prim = coltype.Float64
	case buffer.Complex128:
		prim = coltype.Complex128
	case buffer.Bool:
		prim = coltype.Bool
	}
	return coltype.Array(coltype.Unbounded, coltype.Primitive(prim))
}

// Row decodes row i as a typed *buffer.Buffer view. The byte range
// must be a whole multiple of elemSize(DType); a misaligned range
// (e.g. one produced by slicing into the middle of an element) fails
// with invalid-shape rather than silently truncating.
func (bj *ByteJagged) Row(i int) (*buffer.Buffer, error) {
	s, e := bj.Starts[i], bj.Stops[i]
	size := elemSize(bj.DType)
	if (e-s)%size != 0 {
		return nil, colerr.New(colerr.InvalidShape, "byte-jagged: row %d range [%d:%d) is not a multiple of element size %d", i, s, e, size)
	}
	n := (e - s) / size
	raw := bj.Content[s:e]
	switch bj.DType {
	case buffer.Int64:
		out := make([]int64, n)
		for k := range out {
			out[k] = int64(binary.LittleEndian.Uint64(raw[k*8:]))
		}
		return buffer.NewInt64(out), nil
	case buffer.Float64:
		out := make([]float64, n)
		for k := range out {
			out[k] = math.Float64frombits(binary.LittleEndian.Uint64(raw[k*8:]))
		}
		return buffer.NewFloat64(out), nil
	case buffer.Complex128:
		out := make([]complex128, n)
		for k := range out {
			re := math.Float64frombits(binary.LittleEndian.Uint64(raw[k*16:]))
			im := math.Float64frombits(binary.LittleEndian.Uint64(raw[k*16+8:]))
			out[k] = complex(re, im)
		}
		return buffer.NewComplex128(out), nil
	case buffer.Bool:
		out := make([]bool, n)
		for k := range out {
			out[k] = raw[k] != 0
		}
		return buffer.NewBool(out), nil
	}
	return nil, colerr.New(colerr.InvalidDType, "byte-jagged: unknown dtype")
}

func (bj *ByteJagged) ValueAt(i int) interface{} {
	row, err := bj.Row(i)
	if err != nil {
		return Null{}
	}
	return row.ToList()
}

func (bj *ByteJagged) ToList() []interface{} {
	out := make([]interface{}, bj.Len())
	for i := range out {
		out[i] = bj.ValueAt(i)
	}
	return out
}

func (bj *ByteJagged) Iter() iter.Seq[interface{}] { return defaultIter(bj, bj.ValueAt) }

func (bj *ByteJagged) RangeSlice(i, j int) Node {
	return &ByteJagged{
		Starts:    append([]int(nil), bj.Starts[i:j]...),
		Stops:     append([]int(nil), bj.Stops[i:j]...),
		Content:   bj.Content,
		DType:     bj.DType,
		Writeable: bj.Writeable,
	}
}

// encodeElem appends the little-endian bytes of one scalar to dst.
func encodeElem(dst []byte, d buffer.DType, v interface{}) []byte {
	switch d {
	case buffer.Int64:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], uint64(v.(int64)))
		return append(dst, b[:]...)
	case buffer.Float64:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(v.(float64)))
		return append(dst, b[:]...)
	case buffer.Complex128:
		c := v.(complex128)
		var b [16]byte
		binary.LittleEndian.PutUint64(b[0:8], math.Float64bits(real(c)))
		binary.LittleEndian.PutUint64(b[8:16], math.Float64bits(imag(c)))
		return append(dst, b[:]...)
	case buffer.Bool:
		if v.(bool) {
			return append(dst, 1)
		}
		return append(dst, 0)
	}
	return dst
}

// SetRow assigns row i's bytes from values, the leaf element-
// assignment path of spec §5 ("element assignment is supported only
// on the leaf jagged representation"). The byte range
// [Starts[i], Stops[i]) need not be elemSize-aligned on entry: start
// divides as start_elem = s/sizeof(D), offset = s mod sizeof(D)
// (spec §4.1); since assignment here always writes whole encoded
// elements back over the row's exact byte range, a non-zero offset
// simply means the row's first logical element begins mid-buffer
// relative to Content, which this method does not need to care about
// because it writes Content[s:e] verbatim.
func (bj *ByteJagged) SetRow(i int, values []interface{}) error {
	if !bj.Writeable {
		return colerr.New(colerr.ReadOnly, "byte-jagged: node is not writeable")
	}
	s, e := bj.Starts[i], bj.Stops[i]
	var encoded []byte
	for _, v := range values {
		encoded = encodeElem(encoded, bj.DType, v)
	}
	if len(encoded) != e-s {
		return colerr.New(colerr.LengthMismatch, "byte-jagged: assignment has %d bytes, row %d wants %d", len(encoded), i, e-s)
	}
	copy(bj.Content[s:e], encoded)
	return nil
}
