// Copyright 2025, The fwkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// +build !no_xz_lib

package bench

import (
	"io"

	"github.com/ulikunitz/xz"
)

type xzWriter struct{ *xz.Writer }

type xzReader struct{ *xz.Reader }

func (xr xzReader) Close() error { return nil }

func init() {
	// The xz package has no notion of compression levels.
	RegisterEncoder(FormatLZMA2, "uk",
		func(w io.Writer, lvl int) io.WriteCloser {
			zw, err := xz.NewWriter(w)
			if err != nil {
				panic(err)
			}
			return xzWriter{zw}
		})
	RegisterDecoder(FormatLZMA2, "uk",
		func(r io.Reader) io.ReadCloser {
			zr, err := xz.NewReader(r)
			if err != nil {
				panic(err)
			}
			return xzReader{zr}
		})
}
