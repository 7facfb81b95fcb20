// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coltype

import "github.com/awkgo/colarray/buffer"

// SchemaType is the type side of an external-schema discriminant
// (spec §6, "External-schema input"). Each concrete implementation
// below corresponds to one discriminant named in the spec.
type SchemaType interface {
	isSchemaType()
}

// BoolType, StringType and BinaryType are the non-numeric primitive
// singletons.
type (
	BoolType   struct{}
	StringType struct{}
	BinaryType struct{}
)

func (BoolType) isSchemaType()   {}
func (StringType) isSchemaType() {}
func (BinaryType) isSchemaType() {}

// NumericType is the generic-numeric discriminant; the external
// schema escapes to a concrete dtype via ToNativeDType rather than
// spec.md enumerating every numeric width itself.
type NumericType struct {
	ToNativeDType func() buffer.DType
}

func (NumericType) isSchemaType() {}

// DictionaryType is a dictionary-encoded column: values are drawn
// from Dictionary, addressed through Index.
type DictionaryType struct {
	Index      SchemaType
	Dictionary SchemaType
}

func (DictionaryType) isSchemaType() {}

// SchemaField is one named, possibly-nullable member of a StructType.
type SchemaField struct {
	Name     string
	Type     SchemaType
	Nullable bool
}

// StructType is a record column; NumChildren is redundant with
// len(Children) but kept to mirror the spec's discriminant signature
// verbatim ("struct(num_children, children[name,type,nullable])").
type StructType struct {
	Children []SchemaField
}

func (s StructType) NumChildren() int { return len(s.Children) }
func (StructType) isSchemaType()      {}

// ListType is a variable-length-list column.
type ListType struct {
	Value SchemaType
}

func (ListType) isSchemaType() {}

// UnionMode discriminates the two physical union layouts.
type UnionMode int

const (
	UnionSparse UnionMode = iota
	UnionDense
)

// UnionType is a tagged-union column over heterogeneous Children.
type UnionType struct {
	Mode     UnionMode
	Children []SchemaType
}

func (UnionType) isSchemaType() {}

// Schema is an opaque external schema exposing, per name, a field
// with a type and a nullability flag (spec §6).
type Schema interface {
	Names() []string
	Field(name string) SchemaField
}

// FromSchemaType performs the case analysis of spec §4.4's closing
// sentence: "Inference from an external schema is performed by a case
// analysis on its type constructors ... with nullability lifted into
// option(T)."
func FromSchemaType(t SchemaType, nullable bool) *Type {
	var base *Type
	switch t := t.(type) {
	case BoolType:
		base = Primitive(Bool)
	case StringType:
		base = Primitive(String)
	case BinaryType:
		base = Primitive(Bytes)
	case NumericType:
		base = Primitive(nativeToPrim(t.ToNativeDType()))
	case DictionaryType:
		// A dictionary column carries the dictionary's logical type;
		// the index array is an implementation detail of the
		// encoding, not part of the logical type (mirrors how the
		// Indexed node's type is its content's type, spec §4.1).
		base = FromSchemaType(t.Dictionary, false)
	case StructType:
		fields := make([]Field, len(t.Children))
		for i, c := range t.Children {
			fields[i] = Field{Name: c.Name, Type: FromSchemaType(c.Type, c.Nullable)}
		}
		base = Product(fields...)
	case ListType:
		base = Array(Unbounded, FromSchemaType(t.Value, false))
	case UnionType:
		alts := make([]*Type, len(t.Children))
		for i, c := range t.Children {
			alts[i] = FromSchemaType(c, false)
		}
		base = Sum(alts...)
	default:
		base = Primitive(Bytes) // unknown-variant fallback; callers should not hit this on a well-formed schema.
	}
	if nullable {
		return Option(base)
	}
	return base
}

func nativeToPrim(d buffer.DType) Prim {
	switch d {
	case buffer.Int64:
		return Int64
	case buffer.Float64:
		return Float64
	case buffer.Complex128:
		return Complex128
	case buffer.Bool:
		return Bool
	}
	return Int64
}

// FromSchema derives the product type of an entire external schema.
func FromSchema(s Schema) *Type {
	names := s.Names()
	fields := make([]Field, len(names))
	for i, name := range names {
		f := s.Field(name)
		fields[i] = Field{Name: name, Type: FromSchemaType(f.Type, f.Nullable)}
	}
	return Product(fields...)
}
