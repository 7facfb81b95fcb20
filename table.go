// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package colarray

import (
	"iter"
	"strings"
	"sync"

	"github.com/dolthub/maphash"

	"github.com/awkgo/colarray/colerr"
	"github.com/awkgo/colarray/coltype"
)

var projectionHasher = maphash.NewHasher[string]()

// Table is an ordered named mapping of co-indexed columns sharing a
// common row count (spec §3, §4.1).
type Table struct {
	names   []string
	byName  map[string]Node
	numRows int

	projMu    sync.Mutex
	projCache map[uint64]*Table // keyed by hash of the requested field-name tuple
}

// NewTable builds a Table from fields in the given order. All fields
// must share the same length.
func NewTable(names []string, fields []Node) (*Table, error) {
	if len(names) != len(fields) {
		return nil, colerr.New(colerr.LengthMismatch, "table: %d names != %d fields", len(names), len(fields))
	}
	t := &Table{names: append([]string(nil), names...), byName: make(map[string]Node, len(names))}
	if len(fields) > 0 {
		t.numRows = fields[0].Len()
	}
	for i, name := range names {
		if fields[i].Len() != t.numRows {
			return nil, colerr.New(colerr.LengthMismatch, "table: column %q has length %d, want %d", name, fields[i].Len(), t.numRows)
		}
		t.byName[name] = fields[i]
	}
	return t, nil
}

func (t *Table) Len() int { return t.numRows }

func (t *Table) Names() []string { return append([]string(nil), t.names...) }

func (t *Table) Type() *coltype.Type {
	fields := make([]coltype.Field, len(t.names))
	for i, name := range t.names {
		fields[i] = coltype.Field{Name: name, Type: t.byName[name].Type()}
	}
	return coltype.Product(fields...)
}

// Field returns the named column (spec §4.1 "Field access yields a
// child node").
func (t *Table) Field(name string) (Node, error) {
	f, ok := t.byName[name]
	if !ok {
		return nil, colerr.New(colerr.OutOfBounds, "table: no such field %q", name)
	}
	return f, nil
}

// Project returns a new Table containing exactly the named fields, in
// the order requested (spec §4.1 "multi-field projection yields a new
// table whose column order matches the requested order"). Repeated
// projections of the same field-name tuple (common when the same
// record shape is re-derived on every row of a loop) are served from a
// small hash-keyed cache instead of rebuilding the Table each time.
func (t *Table) Project(names ...string) (*Table, error) {
	key := projectionHasher.Hash(strings.Join(names, "\x00"))
	t.projMu.Lock()
	if cached, ok := t.projCache[key]; ok {
		t.projMu.Unlock()
		return cached, nil
	}
	t.projMu.Unlock()

	fields := make([]Node, len(names))
	for i, name := range names {
		f, err := t.Field(name)
		if err != nil {
			return nil, err
		}
		fields[i] = f
	}
	out, err := NewTable(names, fields)
	if err != nil {
		return nil, err
	}

	t.projMu.Lock()
	if t.projCache == nil {
		t.projCache = make(map[uint64]*Table)
	}
	t.projCache[key] = out
	t.projMu.Unlock()
	return out, nil
}

// RangeSlice slices the row axis: every column is sliced with the
// same selector (spec §4.1).
func (t *Table) RangeSlice(i, j int) Node {
	fields := make([]Node, len(t.names))
	for k, name := range t.names {
		fields[k] = rangeOf(t.byName[name], i, j)
	}
	out, _ := NewTable(t.names, fields)
	return out
}

// Row returns a lazily-indexing record for row i (spec §4.1 "a row
// index yields a record value that lazily indexes each column").
func (t *Table) Row(i int) *Record {
	return &Record{table: t, row: i}
}

// Record is a single table row; each field is only materialized on
// Get, not eagerly.
type Record struct {
	table *Table
	row   int
}

// Names returns the record's field names in table-declaration order.
func (r *Record) Names() []string { return r.table.names }

// Get lazily materializes the named field's value at this row.
func (r *Record) Get(name string) interface{} {
	return valueAt(r.table.byName[name], r.row)
}

// ToMap eagerly materializes every field, for comparison/debug use.
func (r *Record) ToMap() map[string]interface{} {
	out := make(map[string]interface{}, len(r.Names()))
	for _, name := range r.Names() {
		out[name] = r.Get(name)
	}
	return out
}

func (t *Table) ValueAt(i int) interface{} { return t.Row(i) }

func (t *Table) ToList() []interface{} {
	out := make([]interface{}, t.Len())
	for i := range out {
		out[i] = t.Row(i).ToMap()
	}
	return out
}

func (t *Table) Iter() iter.Seq[interface{}] { return defaultIter(t, t.ValueAt) }
