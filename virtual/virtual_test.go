// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package virtual

import (
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/awkgo/colarray"
	"github.com/awkgo/colarray/buffer"
	"github.com/awkgo/colarray/coltype"
)

func leafInts(xs ...int64) *colarray.Leaf { return colarray.NewLeaf(buffer.NewInt64(xs)) }

func TestMaterializeRunsProducerOnce(t *testing.T) {
	cache := NewCache()
	var calls int32
	produce := func(arg interface{}) (colarray.Node, error) {
		atomic.AddInt32(&calls, 1)
		return leafInts(1, 2, 3), nil
	}
	v := New(cache, "producer-a", "arg", produce, coltype.Primitive(coltype.Int64), 3)

	n1, err := v.Materialized()
	if err != nil {
		t.Fatal(err)
	}
	n2, err := v.Materialized()
	if err != nil {
		t.Fatal(err)
	}
	if n1 != n2 {
		t.Error("Materialized() should return the same node on repeated calls")
	}
	if calls != 1 {
		t.Errorf("producer called %d times, want 1", calls)
	}
}

func TestMaterializeSharesAcrossVirtualsWithSameKey(t *testing.T) {
	cache := NewCache()
	var calls int32
	produce := func(arg interface{}) (colarray.Node, error) {
		atomic.AddInt32(&calls, 1)
		return leafInts(42), nil
	}
	v1 := New(cache, "shared", "x", produce, nil, 1)
	v2 := New(cache, "shared", "x", produce, nil, 1)

	if _, err := v1.Materialized(); err != nil {
		t.Fatal(err)
	}
	if _, err := v2.Materialized(); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("producer called %d times across two Virtuals with the same key, want 1", calls)
	}
}

func TestMaterializeCoalescesConcurrentCallers(t *testing.T) {
	cache := NewCache()
	var calls int32
	release := make(chan struct{})
	produce := func(arg interface{}) (colarray.Node, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return leafInts(7), nil
	}
	v := New(cache, "concurrent", "x", produce, nil, 1)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v.Materialized()
		}()
	}
	close(release)
	wg.Wait()

	if calls != 1 {
		t.Errorf("producer invoked %d times under concurrent access, want 1", calls)
	}
}

func TestFailedMaterializationIsNotCached(t *testing.T) {
	cache := NewCache()
	var calls int32
	produce := func(arg interface{}) (colarray.Node, error) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			return nil, errors.New("transient failure")
		}
		return leafInts(9), nil
	}
	v := New(cache, "retry", "x", produce, nil, 1)

	if _, err := v.Materialized(); err == nil {
		t.Fatal("expected first materialization to fail")
	}
	n, err := v.Materialized()
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if !reflect.DeepEqual(n.ToList(), []interface{}{int64(9)}) {
		t.Errorf("retried result = %v", n.ToList())
	}
	if calls != 2 {
		t.Errorf("producer called %d times (fail then retry), want 2", calls)
	}
}

func TestConcurrentFailedMaterializationDoesNotRace(t *testing.T) {
	cache := NewCache()
	var calls int32
	release := make(chan struct{})
	produce := func(arg interface{}) (colarray.Node, error) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			<-release
			return nil, errors.New("boom")
		}
		return leafInts(1), nil
	}
	v := New(cache, "concurrent-fail", "x", produce, nil, 1)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := v.Materialized(); err == nil {
				t.Error("expected every coalesced caller to see the producer's error")
			}
		}()
	}
	close(release)
	wg.Wait()

	// a subsequent call must still be able to retry successfully.
	n, err := v.Materialized()
	if err != nil {
		t.Fatalf("retry after coalesced failure should succeed, got %v", err)
	}
	if n == nil {
		t.Fatal("expected a materialized node on retry")
	}
}

func TestLenTypeHintsBeforeMaterialization(t *testing.T) {
	cache := NewCache()
	produce := func(arg interface{}) (colarray.Node, error) { return leafInts(1, 2, 3, 4), nil }
	v := New(cache, "hinted", "x", produce, coltype.Primitive(coltype.Int64), 4)

	if v.Len() != 4 {
		t.Errorf("pre-materialization Len() = %d, want hint 4", v.Len())
	}
	if _, err := v.Materialized(); err != nil {
		t.Fatal(err)
	}
	if v.Len() != 4 {
		t.Errorf("post-materialization Len() = %d, want 4", v.Len())
	}
}
