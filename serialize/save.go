// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package serialize

import (
	"fmt"
	"reflect"

	"github.com/awkgo/colarray"
	"github.com/awkgo/colarray/buffer"
	"github.com/awkgo/colarray/colerr"
)

// saver carries the state threaded through one Save call: a blob key
// counter, the compression ruleset, and an identity map so a node
// reachable twice (shared subgraph or recursion, spec §4.5) emits a
// `ref` the second time instead of duplicating work.
type saver struct {
	sink    Sink
	prefix  string
	rules   Ruleset
	nextID  int
	nextKey int
	seen    map[uintptr]int // node identity -> emitted id, for pointer-identical nodes
}

// Save writes n's blobs to sink under prefix and returns the schema
// document describing how to reconstruct it (spec §4.5).
func Save(n colarray.Node, sink Sink, prefix string, rules Ruleset) (Schema, error) {
	s := &saver{sink: sink, prefix: prefix, rules: rules, seen: make(map[uintptr]int)}
	tree, err := s.node(n, ContextLeafData)
	if err != nil {
		return Schema{}, err
	}
	return Schema{Version: SchemaVersion, Prefix: prefix, Tree: tree}, nil
}

func (s *saver) allocID() int {
	id := s.nextID
	s.nextID++
	return id
}

func (s *saver) putBlob(data []byte, dtype buffer.DType, context string) (FillNode, error) {
	key := fmt.Sprintf("blob%d", s.nextKey)
	s.nextKey++
	if rule, ok := s.rules.Select(len(data), dtype, context); ok {
		compressed := rule.Compress(data)
		if err := s.sink.Put(s.prefix+key, compressed); err != nil {
			return FillNode{}, err
		}
		id := s.allocID()
		return genNode(id, rule.DecompressGen, readNode(key, false)), nil
	}
	if err := s.sink.Put(s.prefix+key, data); err != nil {
		return FillNode{}, err
	}
	return readNode(key, false), nil
}

func identity(n colarray.Node) uintptr {
	v := reflect.ValueOf(n)
	if v.Kind() != reflect.Ptr {
		return 0
	}
	return v.Pointer()
}

func (s *saver) node(n colarray.Node, context string) (FillNode, error) {
	if id := identity(n); id != 0 {
		if prior, ok := s.seen[id]; ok {
			return refNode(prior), nil
		}
	}
	switch node := n.(type) {
	case *colarray.Leaf:
		return s.saveLeaf(node, context)
	case *colarray.Jagged:
		return s.saveJagged(node)
	case *colarray.Table:
		return s.saveTable(node)
	case *colarray.Boolmasked:
		return s.saveBoolmasked(node)
	case *colarray.Bitmasked:
		return s.saveBitmasked(node)
	case *colarray.IndexedMask:
		return s.saveIndexedMask(node)
	case *colarray.Indexed:
		return s.saveIndexed(node)
	case *colarray.Sparse:
		return s.saveSparse(node)
	case *colarray.Union:
		return s.saveUnion(node)
	case *colarray.StringNode:
		return s.saveStringNode(node)
	case *colarray.Chunked:
		return s.saveChunked(node)
	case *colarray.ByteJagged:
		return s.saveByteJagged(node)
	}
	return FillNode{}, colerr.New(colerr.UnsupportedConversion, "serialize: no persistence mapping for %T", n)
}

func (s *saver) remember(n colarray.Node, fn FillNode) FillNode {
	if id := identity(n); id != 0 && fn.ID != nil {
		s.seen[id] = *fn.ID
	}
	return fn
}

func (s *saver) saveLeaf(l *colarray.Leaf, context string) (FillNode, error) {
	buf := l.Buffer()
	blob, err := s.putBlob(encodeBuffer(buf), buf.DType, context)
	if err != nil {
		return FillNode{}, err
	}
	id := s.allocID()
	out := genNode(id, []string{"colarray", "leaf"},
		genNode(s.allocID(), []string{"buffer", "frombuffer"}, blob, litNode(dtypeName(buf.DType)), litNode(buf.Len())))
	return s.remember(l, out), nil
}

func (s *saver) saveJagged(j *colarray.Jagged) (FillNode, error) {
	jc := j.Compact()
	content, err := s.node(jc.Content, ContextLeafData)
	if err != nil {
		return FillNode{}, err
	}
	id := s.allocID()
	out := genNode(id, []string{"colarray", "jagged"}, litNode(jc.Offsets()), content)
	return s.remember(j, out), nil
}

func (s *saver) saveTable(t *colarray.Table) (FillNode, error) {
	names := t.Names()
	args := make([]FillNode, 0, 2*len(names))
	for _, name := range names {
		col, _ := t.Field(name)
		fn, err := s.node(col, ContextLeafData)
		if err != nil {
			return FillNode{}, err
		}
		args = append(args, litNode(name), fn)
	}
	id := s.allocID()
	out := genNode(id, []string{"colarray", "table"}, args...)
	return s.remember(t, out), nil
}

func (s *saver) saveBoolmasked(b *colarray.Boolmasked) (FillNode, error) {
	content, err := s.node(b.Content, ContextLeafData)
	if err != nil {
		return FillNode{}, err
	}
	id := s.allocID()
	maskBytes := make([]interface{}, len(b.Mask))
	for i, m := range b.Mask {
		maskBytes[i] = m
	}
	out := genNode(id, []string{"colarray", "boolmasked"}, litNode(maskBytes), content, litNode(b.MaskedWhen))
	return s.remember(b, out), nil
}

func (s *saver) saveBitmasked(b *colarray.Bitmasked) (FillNode, error) {
	content, err := s.node(b.Content, ContextLeafData)
	if err != nil {
		return FillNode{}, err
	}
	blob, err := s.putBlob(b.Mask, buffer.Bool, ContextMaskBits)
	if err != nil {
		return FillNode{}, err
	}
	id := s.allocID()
	out := genNode(id, []string{"colarray", "bitmasked"}, blob, litNode(b.Len_), content, litNode(b.MaskedWhen), litNode(b.LSBOrder))
	return s.remember(b, out), nil
}

func (s *saver) saveIndexedMask(m *colarray.IndexedMask) (FillNode, error) {
	content, err := s.node(m.Content, ContextLeafData)
	if err != nil {
		return FillNode{}, err
	}
	id := s.allocID()
	out := genNode(id, []string{"colarray", "indexedmask"}, litNode(m.Mask), content)
	return s.remember(m, out), nil
}

func (s *saver) saveIndexed(x *colarray.Indexed) (FillNode, error) {
	content, err := s.node(x.Content, ContextLeafData)
	if err != nil {
		return FillNode{}, err
	}
	id := s.allocID()
	out := genNode(id, []string{"colarray", "indexed"}, litNode(x.Index), content)
	return s.remember(x, out), nil
}

func (s *saver) saveSparse(sp *colarray.Sparse) (FillNode, error) {
	content, err := s.node(sp.Content, ContextLeafData)
	if err != nil {
		return FillNode{}, err
	}
	id := s.allocID()
	out := genNode(id, []string{"colarray", "sparse"}, litNode(sp.Index), content, litNode(sp.Length), litNode(sp.Default))
	return s.remember(sp, out), nil
}

func (s *saver) saveUnion(u *colarray.Union) (FillNode, error) {
	args := make([]FillNode, 0, 2+len(u.Contents))
	args = append(args, litNode(u.Tags), litNode(u.Index))
	for tag, c := range u.Contents {
		fn, err := s.node(c, ContextLeafData)
		if err != nil {
			return FillNode{}, err
		}
		args = append(args, fn)
	}
	id := s.allocID()
	out := genNode(id, []string{"colarray", "union"}, args...)
	return s.remember(u, out), nil
}

func (s *saver) saveStringNode(sn *colarray.StringNode) (FillNode, error) {
	offsets, chars := sn.RawBytesPerRow()
	blob, err := s.putBlob(chars, buffer.Bool, ContextLeafData)
	if err != nil {
		return FillNode{}, err
	}
	id := s.allocID()
	out := genNode(id, []string{"colarray", "stringnode"}, litNode(offsets), blob)
	return s.remember(sn, out), nil
}

func (s *saver) saveByteJagged(bj *colarray.ByteJagged) (FillNode, error) {
	blob, err := s.putBlob(bj.Content, bj.DType, ContextLeafData)
	if err != nil {
		return FillNode{}, err
	}
	id := s.allocID()
	out := genNode(id, []string{"colarray", "bytejagged"},
		litNode(bj.Starts), litNode(bj.Stops), blob, litNode(dtypeName(bj.DType)), litNode(bj.Writeable))
	return s.remember(bj, out), nil
}

func (s *saver) saveChunked(c *colarray.Chunked) (FillNode, error) {
	args := make([]FillNode, 0, 1+len(c.Chunks))
	args = append(args, litNode(c.Counts))
	for _, chunk := range c.Chunks {
		fn, err := s.node(chunk, ContextLeafData)
		if err != nil {
			return FillNode{}, err
		}
		args = append(args, fn)
	}
	id := s.allocID()
	out := genNode(id, []string{"colarray", "chunked"}, args...)
	return s.remember(c, out), nil
}
