// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package colarray

import (
	"iter"

	"github.com/awkgo/colarray/buffer"
	"github.com/awkgo/colarray/colerr"
	"github.com/awkgo/colarray/coltype"
)

// Masked is implemented by all three masked representations so the
// broadcasting and persistence layers can treat them uniformly (spec
// §4.1 "Masked nodes ... All produce a logical option-type wrapper").
type Masked interface {
	Node
	Ranger
	IsNull(i int) bool
	Unwrap() Node // the content node, for kernels that rewrap after recursing
}

// Boolmasked carries nullability as one bool per element.
type Boolmasked struct {
	Mask       []bool
	Content    Node
	MaskedWhen bool
}

// NewBoolmasked validates len(mask) == content.Len().
func NewBoolmasked(mask []bool, content Node, maskedWhen bool) (*Boolmasked, error) {
	if len(mask) != content.Len() {
		return nil, colerr.New(colerr.LengthMismatch, "boolmasked: len(mask)=%d != len(content)=%d", len(mask), content.Len())
	}
	return &Boolmasked{Mask: mask, Content: content, MaskedWhen: maskedWhen}, nil
}

func (b *Boolmasked) Len() int                { return len(b.Mask) }
func (b *Boolmasked) Type() *coltype.Type     { return coltype.Option(b.Content.Type()) }
func (b *Boolmasked) IsNull(i int) bool       { return b.Mask[i] == b.MaskedWhen }
func (b *Boolmasked) Unwrap() Node            { return b.Content }
func (b *Boolmasked) ValueAt(i int) interface{} {
	if b.IsNull(i) {
		return Null{}
	}
	return valueAt(b.Content, i)
}
func (b *Boolmasked) ToList() []interface{} {
	out := make([]interface{}, b.Len())
	for i := range out {
		out[i] = b.ValueAt(i)
	}
	return out
}
func (b *Boolmasked) Iter() iter.Seq[interface{}] { return defaultIter(b, b.ValueAt) }
func (b *Boolmasked) RangeSlice(i, j int) Node {
	return &Boolmasked{
		Mask:       append([]bool(nil), b.Mask[i:j]...),
		Content:    rangeOf(b.Content, i, j),
		MaskedWhen: b.MaskedWhen,
	}
}

// ToBitmasked converts to the bit-packed representation, preserving
// null positions (spec §8 "Bitmasked<->boolmasked conversion
// preserves null positions under both lsb_order settings").
func (b *Boolmasked) ToBitmasked(lsbOrder bool) *Bitmasked {
	return &Bitmasked{
		Mask:       buffer.PackBits(b.Mask, lsbOrder),
		Len_:       len(b.Mask),
		Content:    b.Content,
		MaskedWhen: b.MaskedWhen,
		LSBOrder:   lsbOrder,
	}
}

// ToIndexedMask converts to the indexed-mask representation, which
// compacts the content down to present values only.
func (b *Boolmasked) ToIndexedMask() *IndexedMask {
	mask := make([]int, b.Len())
	var present []int
	for i, m := range b.Mask {
		if m == b.MaskedWhen {
			mask[i] = -1
		} else {
			mask[i] = len(present)
			present = append(present, i)
		}
	}
	return &IndexedMask{Mask: mask, Content: gatherNode(b.Content, present)}
}

// Bitmasked carries nullability as a bit-packed mask of ceil(L/8)
// bytes.
type Bitmasked struct {
	Mask       []byte
	Len_       int
	Content    Node
	MaskedWhen bool
	LSBOrder   bool
}

// NewBitmasked validates the packed mask is large enough for length.
func NewBitmasked(mask []byte, length int, content Node, maskedWhen, lsbOrder bool) (*Bitmasked, error) {
	if len(mask) < (length+7)/8 {
		return nil, colerr.New(colerr.InvalidShape, "bitmasked: mask has %d bytes, need %d for length %d", len(mask), (length+7)/8, length)
	}
	return &Bitmasked{Mask: mask, Len_: length, Content: content, MaskedWhen: maskedWhen, LSBOrder: lsbOrder}, nil
}

func (b *Bitmasked) Len() int            { return b.Len_ }
func (b *Bitmasked) Type() *coltype.Type { return coltype.Option(b.Content.Type()) }
func (b *Bitmasked) bit(i int) bool {
	byteIdx, bitIdx := i/8, i%8
	if !b.LSBOrder {
		bitIdx = 7 - bitIdx
	}
	return b.Mask[byteIdx]&(1<<uint(bitIdx)) != 0
}
func (b *Bitmasked) IsNull(i int) bool { return b.bit(i) == b.MaskedWhen }
func (b *Bitmasked) Unwrap() Node      { return b.Content }
func (b *Bitmasked) ValueAt(i int) interface{} {
	if b.IsNull(i) {
		return Null{}
	}
	return valueAt(b.Content, i)
}
func (b *Bitmasked) ToList() []interface{} {
	out := make([]interface{}, b.Len())
	for i := range out {
		out[i] = b.ValueAt(i)
	}
	return out
}
func (b *Bitmasked) Iter() iter.Seq[interface{}] { return defaultIter(b, b.ValueAt) }
func (b *Bitmasked) RangeSlice(i, j int) Node {
	return b.ToBoolmasked().RangeSlice(i, j)
}

// ToBoolmasked expands the packed mask to one bool per element,
// preserving null positions.
func (b *Bitmasked) ToBoolmasked() *Boolmasked {
	return &Boolmasked{
		Mask:       buffer.UnpackBits(b.Mask, b.Len_, b.LSBOrder),
		Content:    b.Content,
		MaskedWhen: b.MaskedWhen,
	}
}

// IndexedMask uses a negative sentinel to denote null and otherwise
// compresses by storing only present values: content[mask[i]] for
// mask[i] >= 0 (spec §3, §4.1).
type IndexedMask struct {
	Mask    []int // signed index or negative sentinel
	Content Node
}

// NewIndexedMask validates every non-negative entry indexes into content.
func NewIndexedMask(mask []int, content Node) (*IndexedMask, error) {
	n := content.Len()
	for _, m := range mask {
		if m >= 0 && m >= n {
			return nil, colerr.New(colerr.OutOfBounds, "indexed-mask: index %d out of range [0:%d)", m, n)
		}
	}
	return &IndexedMask{Mask: mask, Content: content}, nil
}

func (m *IndexedMask) Len() int            { return len(m.Mask) }
func (m *IndexedMask) Type() *coltype.Type { return coltype.Option(m.Content.Type()) }
func (m *IndexedMask) IsNull(i int) bool   { return m.Mask[i] < 0 }
func (m *IndexedMask) Unwrap() Node        { return m.Content }
func (m *IndexedMask) ValueAt(i int) interface{} {
	if m.IsNull(i) {
		return Null{}
	}
	return valueAt(m.Content, m.Mask[i])
}
func (m *IndexedMask) ToList() []interface{} {
	out := make([]interface{}, m.Len())
	for i := range out {
		out[i] = m.ValueAt(i)
	}
	return out
}
func (m *IndexedMask) Iter() iter.Seq[interface{}] { return defaultIter(m, m.ValueAt) }
func (m *IndexedMask) RangeSlice(i, j int) Node {
	return &IndexedMask{Mask: append([]int(nil), m.Mask[i:j]...), Content: m.Content}
}
