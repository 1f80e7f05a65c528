// Copyright 2025, The fwkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// +build !no_fvz_lib

package bench

import (
	"io"

	"github.com/fwkit/compress/fvz"
)

func init() {
	// FVZ is a decode-only format, so only a decoder is registered.
	// Pre-compressed frames must be supplied as the input files.
	RegisterDecoder(FormatFVZ, "fvz",
		func(r io.Reader) io.ReadCloser {
			return fvz.NewReader(r)
		})
}
