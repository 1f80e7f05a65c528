// Copyright 2025, The fwkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package fvz implements the FVZ compressed firmware volume format.
//
// An FVZ frame is an 8-byte header carrying the compressed and original
// sizes, followed by an MSB-first bit stream of LZ77 tokens entropy-coded
// with canonical prefix codes. The prefix codes adapt to the stream: both
// symbol alphabets start with flat frequencies and their code tables are
// rebuilt at a fixed symbol cadence, so no table description is stored in
// the frame itself.
package fvz

import (
	"io"
	"runtime"

	"github.com/fwkit/compress/internal"
)

const (
	// The frame header is two uint32 fields in little-endian order:
	// the payload size in bytes and the decompressed size in bytes.
	hdrSize = 8

	numLitSyms  = 256 // Literal symbols
	numLenSyms  = 24  // Match length symbols
	numDistSyms = 50  // Match distance symbols

	// Literals and match lengths share one alphabet, so a single symbol
	// decides between the two token kinds.
	numLLSyms = numLitSyms + numLenSyms

	minMatchLen   = 4
	maxPrefixBits = 15

	// Both prefix trees are rebuilt after this many symbols decoded from
	// the literal/length alphabet.
	rebuildInterval = 4096
)

// Error is the wrapper type for errors specific to this library.
type Error string

func (e Error) Error() string { return "fvz: " + string(e) }

var (
	ErrTruncatedHeader error = Error("truncated frame header")
	ErrTruncatedInput  error = Error("truncated input stream")
	ErrCorruptTree     error = Error("corrupt prefix code tree")
	ErrInvalidBackRef  error = Error("invalid back reference")
	ErrLengthMismatch  error = Error("output length mismatch")
)

func errRecover(err *error) {
	switch ex := recover().(type) {
	case nil:
		// Do nothing.
	case runtime.Error:
		panic(ex)
	case internal.Error:
		*err = ErrCorruptTree
	case error:
		switch ex {
		case io.EOF, io.ErrUnexpectedEOF:
			*err = ErrTruncatedInput
		default:
			*err = ex
		}
	default:
		panic(ex)
	}
}
