// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package colarray implements the node-variant family of spec §2-§3:
// a closed algebraic family of array nodes — jagged, masked, indexed,
// sparse, table, union, object, string, chunked and appendable —
// built on package buffer's rectangular leaf buffers, sharing the
// small common Node protocol below.
//
// The source this core is grounded on uses class inheritance for the
// variant family (_examples/original_source/awkward); here the family
// is closed and expressed as a Go interface implemented by one
// concrete type per variant, in the spirit of the teacher's closed
// Value interface (robpike.io/ivy/value.Value) implemented by Int,
// BigInt, Vector, Matrix, and so on.
package colarray

import (
	"iter"

	"github.com/awkgo/colarray/coltype"
)

// Node is the protocol every array-node variant implements (spec §3).
type Node interface {
	// Len returns the logical length of the node.
	Len() int

	// Type returns the node's logical type.
	Type() *coltype.Type

	// ToList materializes the node as nested ordinary Go values, for
	// test/debug use only (spec §3).
	ToList() []interface{}

	// Iter lazily traverses the node's logical elements in order.
	Iter() iter.Seq[interface{}]
}

// Null is the value produced at a masked-out position when a node is
// materialized with ToList/Iter.
type Null struct{}

func (Null) String() string { return "null" }

// defaultIter builds an iter.Seq from a Node's own Len/At-by-index
// access pattern, shared by every variant whose random access is
// already cheap (everything except Virtual before materialization,
// which forwards instead).
func defaultIter(n Node, at func(int) interface{}) iter.Seq[interface{}] {
	return func(yield func(interface{}) bool) {
		for i := 0; i < n.Len(); i++ {
			if !yield(at(i)) {
				return
			}
		}
	}
}
