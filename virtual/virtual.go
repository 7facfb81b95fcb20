// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package virtual

import (
	"iter"
	"sync"

	"github.com/awkgo/colarray"
	"github.com/awkgo/colarray/coltype"
)

// Producer computes a Virtual node's content on demand. Identity
// should be a stable string naming the producer (e.g. a file path or
// a registered function name), since it is half of the cache key
// (spec §4.1: "a pair of a target function identity and an
// argument").
type Producer func(arg interface{}) (colarray.Node, error)

// Virtual defers materialization until first access, per spec §4.1:
// the type/length hint lets callers slice and query the type of a
// virtual node before it is ever materialized, and once materialized
// every operation forwards to the concrete result (spec: "structurally
// equivalent to its materialized value").
type Virtual struct {
	identity string
	arg      interface{}
	produce  Producer
	typeHint *coltype.Type
	lenHint  int
	cache    *Cache

	mu   sync.Mutex
	node colarray.Node
}

// New builds a Virtual node backed by cache, identified by identity
// and arg. typeHint/lenHint answer Type()/Len() before materialization.
func New(cache *Cache, identity string, arg interface{}, produce Producer, typeHint *coltype.Type, lenHint int) *Virtual {
	return &Virtual{identity: identity, arg: arg, produce: produce, typeHint: typeHint, lenHint: lenHint, cache: cache}
}

// Materialized forces materialization and returns the concrete node,
// or the producer's error. A successful result is latched locally;
// a failed attempt is never latched (spec §7), so the next call goes
// back to v.cache, whose own failure-not-cached behavior is the sole
// retry mechanism.
func (v *Virtual) Materialized() (colarray.Node, error) {
	v.mu.Lock()
	if v.node != nil {
		n := v.node
		v.mu.Unlock()
		return n, nil
	}
	v.mu.Unlock()

	n, err := v.cache.Materialize(v.identity, v.arg, func() (colarray.Node, error) {
		return v.produce(v.arg)
	})
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	v.node = n
	v.mu.Unlock()
	return n, nil
}

func (v *Virtual) Len() int {
	v.mu.Lock()
	n := v.node
	v.mu.Unlock()
	if n != nil {
		return n.Len()
	}
	return v.lenHint
}

func (v *Virtual) Type() *coltype.Type {
	v.mu.Lock()
	n := v.node
	v.mu.Unlock()
	if n != nil {
		return n.Type()
	}
	return v.typeHint
}

func (v *Virtual) ToList() []interface{} {
	n, err := v.Materialized()
	if err != nil {
		return nil
	}
	return n.ToList()
}

func (v *Virtual) Iter() iter.Seq[interface{}] {
	n, err := v.Materialized()
	if err != nil {
		return func(yield func(interface{}) bool) {}
	}
	return n.Iter()
}

func (v *Virtual) ValueAt(i int) interface{} {
	n, err := v.Materialized()
	if err != nil {
		return colarray.Null{}
	}
	return colarray.ValueAt(n, i)
}

// RangeSlice materializes then delegates to the concrete node's own
// Ranger implementation, falling back to a generic gather.
func (v *Virtual) RangeSlice(i, j int) colarray.Node {
	n, err := v.Materialized()
	if err != nil {
		return v
	}
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
