// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package serialize

import (
	"bytes"
	"compress/zlib"
	"io"

	"github.com/awkgo/colarray/colerr"
)

// compressZlib is the Compress half of DefaultRuleset's rule; pairs
// with the whitelisted "compress.decompress" constructor on reload
// (spec §4.5: "the decompress reference becomes a gen nested inside
// the frombuffer call").
func compressZlib(data []byte) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	w.Write(data)
	w.Close()
	return buf.Bytes()
}

// ctorDecompress is "compress.decompress": args = [compressedBytes].
func ctorDecompress(args []interface{}) (interface{}, error) {
	raw, err := asBytes(args[0])
	if err != nil {
		return nil, err
	}
	r, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, colerr.Wrap(colerr.InvalidShape, err, "serialize: zlib decompress")
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, colerr.Wrap(colerr.InvalidShape, err, "serialize: zlib decompress")
	}
	return out, nil
}

// DefaultRuleset compresses any blob of at least 256 bytes with zlib,
// regardless of dtype or context — a conservative default a caller is
// expected to narrow with AllowedDTypes/AllowedContexts for
// production use (spec §4.5's rule tuple).
func DefaultRuleset() Ruleset {
	return Ruleset{
		{
			MinSize:       256,
			Compress:      compressZlib,
			DecompressGen: []string{"compress", "decompress"},
		},
	}
}
