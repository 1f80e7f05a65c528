// Copyright 2025, The fwkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// +build gofuzz

package fvz

import "github.com/fwkit/compress/fvz"

// Fuzz checks that the decoder never panics or over-allocates on arbitrary
// input; every failure mode must surface as an error.
func Fuzz(data []byte) int {
	output, err := fvz.Decompress(data)
	if err != nil {
		return 0
	}
	hdr, _ := fvz.ParseHeader(data)
	if uint32(len(output)) != hdr.OriginalSize {
		panic("mismatching output size")
	}
	return 1 // Favor valid inputs
}
