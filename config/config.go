// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config holds the cross-cutting settings threaded through the
// columnar array core: default float precision for leaf-buffer
// promotion, the default persistence key prefix, the appendable-node
// seal threshold, and the default bit order for bitmasked nodes.
package config

// A Config holds settings shared by the array, type, indexing and
// persistence packages. The zero value holds the defaults for all
// settings, so a nil *Config (or an unconfigured one) behaves exactly
// like Default().
type Config struct {
	floatPrec    int
	keyPrefix    string
	appendChunk  int
	bitsMSBOrder bool
}

// Default returns the package default configuration.
func Default() *Config {
	return &Config{}
}

// FloatPrec returns the precision, in bits, used when leaf buffers
// promote integer content to floating point for division-like kernels.
func (c *Config) FloatPrec() int {
	if c == nil || c.floatPrec == 0 {
		return 53
	}
	return c.floatPrec
}

// SetFloatPrec overrides the default float precision.
func (c *Config) SetFloatPrec(bits int) {
	c.floatPrec = bits
}

// KeyPrefix returns the default blob-store key prefix for persistence.
func (c *Config) KeyPrefix() string {
	if c == nil || c.keyPrefix == "" {
		return "col/"
	}
	return c.keyPrefix
}

// SetKeyPrefix overrides the default persistence key prefix.
func (c *Config) SetKeyPrefix(prefix string) {
	c.keyPrefix = prefix
}

// AppendChunkSize returns the growable-tail chunk size an appendable
// node seals at, before starting a new tail chunk.
func (c *Config) AppendChunkSize() int {
	if c == nil || c.appendChunk <= 0 {
		return 65536
	}
	return c.appendChunk
}

// SetAppendChunkSize overrides the appendable-node seal threshold.
func (c *Config) SetAppendChunkSize(n int) {
	c.appendChunk = n
}

// BitsLSBOrder reports the default lsb_order used when constructing a
// bitmasked node without an explicit order.
func (c *Config) BitsLSBOrder() bool {
	return c == nil || !c.bitsMSBOrder
}

// SetBitsLSBOrder overrides the default bit order.
func (c *Config) SetBitsLSBOrder(lsb bool) {
	c.bitsMSBOrder = !lsb
}
