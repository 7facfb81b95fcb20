// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package serialize

import "github.com/awkgo/colarray/buffer"

// CompressionRule matches an array buffer about to be written as a
// blob against its size, dtype and the fixed-vocabulary context
// string naming its role in the parent node (spec §4.5: e.g.
// `"JaggedArray.offsets"`, `"UnionArray.tags"`). The first matching
// rule in a Ruleset wins.
type CompressionRule struct {
	MinSize         int
	AllowedDTypes   []buffer.DType // nil means "any dtype"
	AllowedContexts []string       // nil means "any context"
	Compress        func([]byte) []byte
	DecompressGen   []string // dotted path, nested as gen inside the frombuffer call
}

func (r CompressionRule) matches(size int, dtype buffer.DType, context string) bool {
	if size < r.MinSize {
		return false
	}
	if r.AllowedDTypes != nil && !containsDType(r.AllowedDTypes, dtype) {
		return false
	}
	if r.AllowedContexts != nil && !containsString(r.AllowedContexts, context) {
		return false
	}
	return true
}

func containsDType(xs []buffer.DType, x buffer.DType) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func containsString(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

// Ruleset is an ordered list of CompressionRule; Select returns the
// first rule that matches, or ok=false if none do (spec §4.5:
// "Compression is applied when any of a user-supplied set of rules
// matches").
type Ruleset []CompressionRule

func (rs Ruleset) Select(size int, dtype buffer.DType, context string) (CompressionRule, bool) {
	for _, r := range rs {
		if r.matches(size, dtype, context) {
			return r, true
		}
	}
	return CompressionRule{}, false
}

// Context name constants for the array-role vocabulary (spec §4.5).
const (
	ContextLeafData      = "Leaf.data"
	ContextJaggedStarts  = "JaggedArray.starts"
	ContextJaggedStops   = "JaggedArray.stops"
	ContextJaggedOffsets = "JaggedArray.offsets"
	ContextIndexedIndex  = "IndexedArray.index"
	ContextUnionTags     = "UnionArray.tags"
	ContextUnionIndex    = "UnionArray.index"
	ContextMaskBits      = "MaskedArray.mask"
)
