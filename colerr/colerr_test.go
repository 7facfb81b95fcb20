// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package colerr

import (
	"errors"
	"testing"
)

func TestNewKind(t *testing.T) {
	err := New(OutOfBounds, "index %d out of range", 5)
	if !Is(err, OutOfBounds) {
		t.Errorf("Is(err, OutOfBounds) = false, want true")
	}
	if Is(err, InvalidShape) {
		t.Errorf("Is(err, InvalidShape) = true, want false")
	}
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(ProducerFailure, cause, "materialize failed")
	var e *Error
	if !errors.As(err, &e) {
		t.Fatal("errors.As failed to find *Error")
	}
	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(err, cause) = false, want true")
	}
}

func TestKindString(t *testing.T) {
	if OutOfBounds.String() != "out-of-bounds" {
		t.Errorf("OutOfBounds.String() = %q", OutOfBounds.String())
	}
}
