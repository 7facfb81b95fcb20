// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package serialize

import (
	"encoding/binary"
	"math"

	"github.com/awkgo/colarray"
	"github.com/awkgo/colarray/buffer"
	"github.com/awkgo/colarray/colerr"
)

// ConstructorFunc builds a value (a *buffer.Buffer, a colarray.Node,
// or decompressed []byte) from already-resolved arguments.
type ConstructorFunc func(args []interface{}) (interface{}, error)

// Whitelist maps a dotted path to the constructor it may invoke.
// Resolving a `gen` path outside the whitelist fails with
// forbidden-constructor (spec §4.5).
type Whitelist map[string]ConstructorFunc

func dotted(parts ...string) string {
	out := parts[0]
	for _, p := range parts[1:] {
		out += "." + p
	}
	return out
}

// DefaultWhitelist is grounded on persist.py's default whitelist: the
// numeric primitive library's frombuffer, the standard decompressor's
// decompress, and the library's own namespace (spec §4.5, supplemented
// per SPEC_FULL.md from `original_source/awkward/persist.py`).
func DefaultWhitelist() Whitelist {
	return Whitelist{
		dotted("buffer", "frombuffer"):         ctorFromBuffer,
		dotted("compress", "decompress"):       ctorDecompress,
		dotted("colarray", "leaf"):             ctorLeaf,
		dotted("colarray", "jagged"):           ctorJagged,
		dotted("colarray", "table"):            ctorTable,
		dotted("colarray", "boolmasked"):       ctorBoolmasked,
		dotted("colarray", "bitmasked"):        ctorBitmasked,
		dotted("colarray", "indexedmask"):      ctorIndexedMask,
		dotted("colarray", "indexed"):          ctorIndexed,
		dotted("colarray", "sparse"):           ctorSparse,
		dotted("colarray", "union"):            ctorUnion,
		dotted("colarray", "stringnode"):       ctorStringNode,
		dotted("colarray", "chunked"):          ctorChunked,
		dotted("colarray", "bytejagged"):       ctorByteJagged,
	}
}

func asBytes(v interface{}) ([]byte, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, colerr.New(colerr.InvalidShape, "serialize: expected bytes, got %T", v)
	}
	return b, nil
}

func asString(v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", colerr.New(colerr.InvalidShape, "serialize: expected string, got %T", v)
	}
	return s, nil
}

func asInt(v interface{}) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case float64:
		return int(n), nil
	}
	return 0, colerr.New(colerr.InvalidShape, "serialize: expected int, got %T", v)
}

func asBool(v interface{}) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, colerr.New(colerr.InvalidShape, "serialize: expected bool, got %T", v)
	}
	return b, nil
}

func asIntSlice(v interface{}) ([]int, error) {
	raw, ok := v.([]interface{})
	if !ok {
		return nil, colerr.New(colerr.InvalidShape, "serialize: expected int array, got %T", v)
	}
	out := make([]int, len(raw))
	for i, x := range raw {
		n, err := asInt(x)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func asBoolSlice(v interface{}) ([]bool, error) {
	raw, ok := v.([]interface{})
	if !ok {
		return nil, colerr.New(colerr.InvalidShape, "serialize: expected bool array, got %T", v)
	}
	out := make([]bool, len(raw))
	for i, x := range raw {
		b, err := asBool(x)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

func asStringSlice(v interface{}) ([]string, error) {
	raw, ok := v.([]interface{})
	if !ok {
		return nil, colerr.New(colerr.InvalidShape, "serialize: expected string array, got %T", v)
	}
	out := make([]string, len(raw))
	for i, x := range raw {
		s, err := asString(x)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func asNode(v interface{}) (colarray.Node, error) {
	n, ok := v.(colarray.Node)
	if !ok {
		return nil, colerr.New(colerr.InvalidShape, "serialize: expected a node, got %T", v)
	}
	return n, nil
}

func dtypeFromName(name string) (buffer.DType, error) {
	switch name {
	case "int64":
		return buffer.Int64, nil
	case "float64":
		return buffer.Float64, nil
	case "complex128":
		return buffer.Complex128, nil
	case "bool":
		return buffer.Bool, nil
	}
	return 0, colerr.New(colerr.InvalidDType, "serialize: unknown dtype %q", name)
}

func dtypeName(d buffer.DType) string {
	return d.String()
}

// ctorFromBuffer is "buffer.frombuffer": args = [rawBytes, dtypeName,
// length] (spec §4.5: "a read reference to their raw bytes, a dtype
// constructor ... and a length").
func ctorFromBuffer(args []interface{}) (interface{}, error) {
	if len(args) != 3 {
		return nil, colerr.New(colerr.InvalidShape, "serialize: buffer.frombuffer wants 3 args, got %d", len(args))
	}
	raw, err := asBytes(args[0])
	if err != nil {
		return nil, err
	}
	dtypeStr, err := asString(args[1])
	if err != nil {
		return nil, err
	}
	length, err := asInt(args[2])
	if err != nil {
		return nil, err
	}
	d, err := dtypeFromName(dtypeStr)
	if err != nil {
		return nil, err
	}
	return decodeBuffer(d, raw, length)
}

func decodeBuffer(d buffer.DType, raw []byte, length int) (*buffer.Buffer, error) {
	switch d {
	case buffer.Int64:
		if len(raw) < length*8 {
			return nil, colerr.New(colerr.LengthMismatch, "serialize: int64 buffer needs %d bytes, got %d", length*8, len(raw))
		}
		out := make([]int64, length)
		for i := range out {
			out[i] = int64(binary.LittleEndian.Uint64(raw[i*8:]))
		}
		return buffer.NewInt64(out), nil
	case buffer.Float64:
		if len(raw) < length*8 {
			return nil, colerr.New(colerr.LengthMismatch, "serialize: float64 buffer needs %d bytes, got %d", length*8, len(raw))
		}
		out := make([]float64, length)
		for i := range out {
			out[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
		}
		return buffer.NewFloat64(out), nil
	case buffer.Complex128:
		if len(raw) < length*16 {
			return nil, colerr.New(colerr.LengthMismatch, "serialize: complex128 buffer needs %d bytes, got %d", length*16, len(raw))
		}
		out := make([]complex128, length)
		for i := range out {
			re := math.Float64frombits(binary.LittleEndian.Uint64(raw[i*16:]))
			im := math.Float64frombits(binary.LittleEndian.Uint64(raw[i*16+8:]))
			out[i] = complex(re, im)
		}
		return buffer.NewComplex128(out), nil
	case buffer.Bool:
		if len(raw) < length {
			return nil, colerr.New(colerr.LengthMismatch, "serialize: bool buffer needs %d bytes, got %d", length, len(raw))
		}
		out := make([]bool, length)
		for i := range out {
			out[i] = raw[i] != 0
		}
		return buffer.NewBool(out), nil
	}
	return nil, colerr.New(colerr.InvalidDType, "serialize: unknown dtype")
}

func encodeBuffer(b *buffer.Buffer) []byte {
	n := b.Len()
	switch b.DType {
	case buffer.Int64:
		out := make([]byte, n*8)
		for i, v := range b.I64 {
			binary.LittleEndian.PutUint64(out[i*8:], uint64(v))
		}
		return out
	case buffer.Float64:
		out := make([]byte, n*8)
		for i, v := range b.F64 {
			binary.LittleEndian.PutUint64(out[i*8:], math.Float64bits(v))
		}
		return out
	case buffer.Complex128:
		out := make([]byte, n*16)
		for i, v := range b.C128 {
			binary.LittleEndian.PutUint64(out[i*16:], math.Float64bits(real(v)))
			binary.LittleEndian.PutUint64(out[i*16+8:], math.Float64bits(imag(v)))
		}
		return out
	case buffer.Bool:
		out := make([]byte, n)
		for i, v := range b.B {
			if v {
				out[i] = 1
			}
		}
		return out
	}
	return nil
}

// ctorLeaf is "colarray.leaf": args = [*buffer.Buffer].
func ctorLeaf(args []interface{}) (interface{}, error) {
	buf, ok := args[0].(*buffer.Buffer)
	if !ok {
		return nil, colerr.New(colerr.InvalidShape, "serialize: colarray.leaf wants a buffer, got %T", args[0])
	}
	return colarray.NewLeaf(buf), nil
}

// ctorJagged is "colarray.jagged": args = [offsets []int, content Node].
func ctorJagged(args []interface{}) (interface{}, error) {
	offsets, err := asIntSlice(args[0])
	if err != nil {
		return nil, err
	}
	content, err := asNode(args[1])
	if err != nil {
		return nil, err
	}
	return colarray.FromOffsets(offsets, content)
}

// ctorTable is "colarray.table": args = [name0, field0, name1, field1, ...].
func ctorTable(args []interface{}) (interface{}, error) {
	if len(args)%2 != 0 {
		return nil, colerr.New(colerr.InvalidShape, "serialize: colarray.table wants name/field pairs")
	}
	n := len(args) / 2
	names := make([]string, n)
	fields := make([]colarray.Node, n)
	for i := 0; i < n; i++ {
		name, err := asString(args[2*i])
		if err != nil {
			return nil, err
		}
		field, err := asNode(args[2*i+1])
		if err != nil {
			return nil, err
		}
		names[i] = name
		fields[i] = field
	}
	return colarray.NewTable(names, fields)
}

// ctorBoolmasked is "colarray.boolmasked": args = [mask []bool, content, maskedWhen bool].
func ctorBoolmasked(args []interface{}) (interface{}, error) {
	mask, err := asBoolSlice(args[0])
	if err != nil {
		return nil, err
	}
	content, err := asNode(args[1])
	if err != nil {
		return nil, err
	}
	maskedWhen, err := asBool(args[2])
	if err != nil {
		return nil, err
	}
	return colarray.NewBoolmasked(mask, content, maskedWhen)
}

// ctorBitmasked is "colarray.bitmasked": args = [packedBytes, length, content, maskedWhen, lsbOrder].
func ctorBitmasked(args []interface{}) (interface{}, error) {
	raw, err := asBytes(args[0])
	if err != nil {
		return nil, err
	}
	length, err := asInt(args[1])
	if err != nil {
		return nil, err
	}
	content, err := asNode(args[2])
	if err != nil {
		return nil, err
	}
	maskedWhen, err := asBool(args[3])
	if err != nil {
		return nil, err
	}
	lsbOrder, err := asBool(args[4])
	if err != nil {
		return nil, err
	}
	return colarray.NewBitmasked(raw, length, content, maskedWhen, lsbOrder)
}

// ctorIndexedMask is "colarray.indexedmask": args = [mask []int, content].
func ctorIndexedMask(args []interface{}) (interface{}, error) {
	mask, err := asIntSlice(args[0])
	if err != nil {
		return nil, err
	}
	content, err := asNode(args[1])
	if err != nil {
		return nil, err
	}
	return colarray.NewIndexedMask(mask, content)
}

// ctorIndexed is "colarray.indexed": args = [index []int, content].
func ctorIndexed(args []interface{}) (interface{}, error) {
	index, err := asIntSlice(args[0])
	if err != nil {
		return nil, err
	}
	content, err := asNode(args[1])
	if err != nil {
		return nil, err
	}
	return colarray.NewIndexed(index, content)
}

// ctorSparse is "colarray.sparse": args = [index []int, content, length, defaultLit].
func ctorSparse(args []interface{}) (interface{}, error) {
	index, err := asIntSlice(args[0])
	if err != nil {
		return nil, err
	}
	content, err := asNode(args[1])
	if err != nil {
		return nil, err
	}
	length, err := asInt(args[2])
	if err != nil {
		return nil, err
	}
	return colarray.NewSparse(index, content, length, args[3])
}

// ctorUnion is "colarray.union": args = [tags []int, index []int, content0, content1, ...].
func ctorUnion(args []interface{}) (interface{}, error) {
	if len(args) < 2 {
		return nil, colerr.New(colerr.InvalidShape, "serialize: colarray.union wants at least tags and index")
	}
	tags, err := asIntSlice(args[0])
	if err != nil {
		return nil, err
	}
	index, err := asIntSlice(args[1])
	if err != nil {
		return nil, err
	}
	contents := make([]colarray.Node, len(args)-2)
	for i, a := range args[2:] {
		n, err := asNode(a)
		if err != nil {
			return nil, err
		}
		contents[i] = n
	}
	return colarray.NewUnion(tags, index, contents)
}

// ctorStringNode is "colarray.stringnode": args = [offsets []int, chars []byte].
// Decoding is always plain UTF-8 on reload (spec §9's utf-8-tag
// resolution for the bridge applies the same rule here).
func ctorStringNode(args []interface{}) (interface{}, error) {
	offsets, err := asIntSlice(args[0])
	if err != nil {
		return nil, err
	}
	chars, err := asBytes(args[1])
	if err != nil {
		return nil, err
	}
	return colarray.NewStringNode(offsets, chars, nil)
}

// ctorByteJagged is "colarray.bytejagged": args = [starts []int, stops []int, rawBytes, dtypeName, writeable bool].
func ctorByteJagged(args []interface{}) (interface{}, error) {
	starts, err := asIntSlice(args[0])
	if err != nil {
		return nil, err
	}
	stops, err := asIntSlice(args[1])
	if err != nil {
		return nil, err
	}
	content, err := asBytes(args[2])
	if err != nil {
		return nil, err
	}
	dtypeStr, err := asString(args[3])
	if err != nil {
		return nil, err
	}
	d, err := dtypeFromName(dtypeStr)
	if err != nil {
		return nil, err
	}
	writeable, err := asBool(args[4])
	if err != nil {
		return nil, err
	}
	return colarray.NewByteJagged(starts, stops, content, d, writeable)
}

// ctorChunked is "colarray.chunked": args = [counts []int, chunk0, chunk1, ...].
func ctorChunked(args []interface{}) (interface{}, error) {
	if len(args) < 1 {
		return nil, colerr.New(colerr.InvalidShape, "serialize: colarray.chunked wants at least counts")
	}
	counts, err := asIntSlice(args[0])
	if err != nil {
		return nil, err
	}
	chunks := make([]colarray.Node, len(args)-1)
	for i, a := range args[1:] {
		n, err := asNode(a)
		if err != nil {
			return nil, err
		}
		chunks[i] = n
	}
	return colarray.NewChunked(chunks, counts)
}
