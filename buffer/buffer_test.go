// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package buffer

import "testing"

func TestPromote(t *testing.T) {
	tests := []struct {
		a, b, want DType
	}{
		{Int64, Int64, Int64},
		{Int64, Float64, Float64},
		{Float64, Int64, Float64},
		{Bool, Int64, Int64},
		{Float64, Complex128, Complex128},
	}
	for _, tc := range tests {
		if got := Promote(tc.a, tc.b); got != tc.want {
			t.Errorf("Promote(%s, %s) = %s, want %s", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestBinaryAdd(t *testing.T) {
	a := NewInt64([]int64{1, 2, 3})
	b := NewInt64([]int64{10, 20, 30})
	out, err := Add.Binary(a, b)
	if err != nil {
		t.Fatal(err)
	}
	want := []int64{11, 22, 33}
	for i, v := range want {
		if out.I64[i] != v {
			t.Errorf("out[%d] = %d, want %d", i, out.I64[i], v)
		}
	}
}

func TestBinaryPromotesToWiderType(t *testing.T) {
	a := NewInt64([]int64{1, 2})
	b := NewFloat64([]float64{0.5, 0.5})
	out, err := Add.Binary(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if out.DType != Float64 {
		t.Fatalf("result dtype = %s, want float64", out.DType)
	}
	if out.F64[0] != 1.5 || out.F64[1] != 2.5 {
		t.Errorf("out = %v, want [1.5 2.5]", out.F64)
	}
}

func TestDivAlwaysPromotesToFloat(t *testing.T) {
	a := NewInt64([]int64{7})
	b := NewInt64([]int64{2})
	out, err := Div.Binary(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if out.DType != Float64 {
		t.Fatalf("div dtype = %s, want float64", out.DType)
	}
	if out.F64[0] != 3.5 {
		t.Errorf("7/2 = %v, want 3.5", out.F64[0])
	}
}

func TestBinaryLengthMismatch(t *testing.T) {
	a := NewInt64([]int64{1, 2})
	b := NewInt64([]int64{1, 2, 3})
	if _, err := Add.Binary(a, b); err == nil {
		t.Fatal("expected length mismatch error, got nil")
	}
}

func TestUnaryNeg(t *testing.T) {
	a := NewFloat64([]float64{1, -2, 3})
	out, err := Neg.Unary(a)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{-1, 2, -3}
	for i, v := range want {
		if out.F64[i] != v {
			t.Errorf("out[%d] = %v, want %v", i, out.F64[i], v)
		}
	}
}

func TestNeutral(t *testing.T) {
	if Add.Neutral(Int64).I64[0] != 0 {
		t.Error("Add neutral should be 0")
	}
	if Mul.Neutral(Int64).I64[0] != 1 {
		t.Error("Mul neutral should be 1")
	}
}
