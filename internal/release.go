// Copyright 2025, The fwkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

//go:build !debug && !gofuzz
// +build !debug,!gofuzz

package internal

// Debug indicates whether to run extra sanity checks at runtime, and also
// print diagnostic information about the state of the codecs.
const (
	Debug  = false
	GoFuzz = false
)
