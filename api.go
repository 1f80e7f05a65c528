// Copyright 2025, The fwkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package compress is a collection of decompression codecs for the section
// formats found inside firmware volume images.
package compress

import (
	"bufio"
	"io"
)

// The ByteReader and BufferedReader interfaces are implemented by the types
// that the codecs in this repository accept as input. If the input does not
// satisfy either interface, it is internally wrapped with a bufio.Reader.

// ByteReader is an interface accepted by all decompression Readers.
// It guarantees that the decompressor never reads more bytes than necessary
// from the underlying io.Reader.
type ByteReader interface {
	io.Reader
	io.ByteReader
}

var _ ByteReader = (*bufio.Reader)(nil)

// BufferedReader is an interface accepted by all decompression Readers.
// It guarantees that the decompressor never reads more bytes than necessary
// from the underlying io.Reader, and is faster to decode from than a plain
// ByteReader.
type BufferedReader interface {
	io.Reader
	io.ByteReader

	// Buffered returns the number of bytes currently buffered.
	Buffered() int

	// Peek returns the next n bytes without advancing the reader.
	Peek(n int) ([]byte, error)

	// Discard skips the next n bytes and returns the number skipped.
	Discard(n int) (int, error)
}

var _ BufferedReader = (*bufio.Reader)(nil)
