// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package arrowbridge

import (
	"github.com/awkgo/colarray"
	"github.com/awkgo/colarray/buffer"
	"github.com/awkgo/colarray/colerr"
)

// primitiveLeaf builds a Leaf from an external primitive array's raw
// values, accepting the handful of concrete slice shapes a binding is
// expected to hand back (spec §4.6's leaf mapping is symmetric: the
// values a Primitive() call was given on export are exactly what
// PrimitiveValues() must hand back on import).
func primitiveLeaf(values interface{}) (*colarray.Leaf, error) {
	switch v := values.(type) {
	case []int64:
		return colarray.NewLeaf(buffer.NewInt64(v)), nil
	case []float64:
		return colarray.NewLeaf(buffer.NewFloat64(v)), nil
	case []complex128:
		return colarray.NewLeaf(buffer.NewComplex128(v)), nil
	case []bool:
		return colarray.NewLeaf(buffer.NewBool(v)), nil
	case []interface{}:
		return primitiveLeafFromAny(v)
	}
	return nil, colerr.New(colerr.UnsupportedConversion, "arrowbridge: unrecognized primitive value slice %T", values)
}

func primitiveLeafFromAny(values []interface{}) (*colarray.Leaf, error) {
	if len(values) == 0 {
		return colarray.NewLeaf(buffer.NewInt64(nil)), nil
	}
	switch values[0].(type) {
	case bool:
		out := make([]bool, len(values))
		for i, v := range values {
			out[i] = v.(bool)
		}
		return colarray.NewLeaf(buffer.NewBool(out)), nil
	case int64:
		out := make([]int64, len(values))
		for i, v := range values {
			out[i] = v.(int64)
		}
		return colarray.NewLeaf(buffer.NewInt64(out)), nil
	case float64:
		out := make([]float64, len(values))
		for i, v := range values {
			out[i] = v.(float64)
		}
		return colarray.NewLeaf(buffer.NewFloat64(out)), nil
	case complex128:
		out := make([]complex128, len(values))
		for i, v := range values {
			out[i] = v.(complex128)
		}
		return colarray.NewLeaf(buffer.NewComplex128(out)), nil
	}
	return nil, colerr.New(colerr.UnsupportedConversion, "arrowbridge: unrecognized primitive element %T", values[0])
}
