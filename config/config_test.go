// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import "testing"

func TestZeroValueIsDefault(t *testing.T) {
	var c Config
	if c.FloatPrec() != 53 {
		t.Errorf("zero Config.FloatPrec() = %d, want 53", c.FloatPrec())
	}
	if c.KeyPrefix() != "col/" {
		t.Errorf("zero Config.KeyPrefix() = %q, want %q", c.KeyPrefix(), "col/")
	}
	if c.AppendChunkSize() != 65536 {
		t.Errorf("zero Config.AppendChunkSize() = %d, want 65536", c.AppendChunkSize())
	}
	if !c.BitsLSBOrder() {
		t.Errorf("zero Config.BitsLSBOrder() = false, want true")
	}
}

func TestNilConfigBehavesAsDefault(t *testing.T) {
	var c *Config
	if c.FloatPrec() != 53 {
		t.Errorf("nil Config.FloatPrec() = %d, want 53", c.FloatPrec())
	}
}

func TestOverrides(t *testing.T) {
	c := Default()
	c.SetFloatPrec(24)
	c.SetKeyPrefix("arr/")
	c.SetAppendChunkSize(1024)
	c.SetBitsLSBOrder(false)

	if c.FloatPrec() != 24 {
		t.Errorf("FloatPrec() = %d, want 24", c.FloatPrec())
	}
	if c.KeyPrefix() != "arr/" {
		t.Errorf("KeyPrefix() = %q, want %q", c.KeyPrefix(), "arr/")
	}
	if c.AppendChunkSize() != 1024 {
		t.Errorf("AppendChunkSize() = %d, want 1024", c.AppendChunkSize())
	}
	if c.BitsLSBOrder() {
		t.Errorf("BitsLSBOrder() = true, want false")
	}
}
