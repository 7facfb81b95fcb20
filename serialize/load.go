// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package serialize

import (
	"encoding/json"

	"github.com/awkgo/colarray"
	"github.com/awkgo/colarray/colerr"
)

// Load decodes the schema document stored at schemaKey and then walks
// its fill tree (spec §9's ordering fix: "the deserializer reads
// schema before it is decoded; a correct implementation decodes the
// blob at prefix first, then walks" — Load's two statements are that
// fix made structural: there is no path to Walk without decoding
// first).
func Load(source Source, schemaKey string, whitelist Whitelist) (colarray.Node, error) {
	raw, err := source.Get(schemaKey)
	if err != nil {
		return nil, err
	}
	var schema Schema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, colerr.Wrap(colerr.InvalidShape, err, "serialize: malformed schema at %q", schemaKey)
	}
	v, err := Walk(schema, source, whitelist)
	if err != nil {
		return nil, err
	}
	n, ok := v.(colarray.Node)
	if !ok {
		return nil, colerr.New(colerr.InvalidShape, "serialize: root fill-tree value is %T, not a node", v)
	}
	return n, nil
}

// Walk resolves an already-decoded Schema's fill tree against source,
// for callers that obtained the Schema by some channel other than
// Load (e.g. it was embedded in a larger document).
func Walk(schema Schema, source Source, whitelist Whitelist) (interface{}, error) {
	if schema.Version != SchemaVersion {
		return nil, colerr.New(colerr.InvalidShape, "serialize: schema version %q != %q", schema.Version, SchemaVersion)
	}
	w := &walker{schema: schema, source: source, whitelist: whitelist, byID: make(map[int]interface{})}
	return w.resolve(schema.Tree)
}

type walker struct {
	schema    Schema
	source    Source
	whitelist Whitelist
	byID      map[int]interface{}
}

func (w *walker) resolve(n FillNode) (interface{}, error) {
	switch {
	case n.Gen != nil:
		return w.resolveGen(n)
	case n.Read != "":
		return w.resolveRead(n)
	case n.Ref != nil:
		v, ok := w.byID[*n.Ref]
		if !ok {
			return nil, colerr.New(colerr.InvalidShape, "serialize: ref to unknown id %d", *n.Ref)
		}
		return v, nil
	case n.Lit != nil:
		var v interface{}
		if err := json.Unmarshal(n.Lit, &v); err != nil {
			return nil, colerr.Wrap(colerr.InvalidShape, err, "serialize: malformed literal")
		}
		return v, nil
	}
	return nil, colerr.New(colerr.InvalidShape, "serialize: empty fill-tree node")
}

func (w *walker) resolveRead(n FillNode) (interface{}, error) {
	key := n.Read
	if !n.Absolute {
		key = w.schema.Prefix + key
	}
	return w.source.Get(key)
}

func (w *walker) resolveGen(n FillNode) (interface{}, error) {
	path := dotted(n.Gen...)
	ctor, ok := w.whitelist[path]
	if !ok {
		return nil, colerr.New(colerr.ForbiddenConstructor, "serialize: %q is not in the whitelist", path)
	}
	args := make([]interface{}, len(n.Args))
	for i, a := range n.Args {
		v, err := w.resolve(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	v, err := ctor(args)
	if err != nil {
		return nil, err
	}
	if n.ID != nil {
		w.byID[*n.ID] = v
	}
	return v, nil
}
