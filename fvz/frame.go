// Copyright 2025, The fwkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package fvz

import "encoding/binary"

// Header describes a single compressed frame.
type Header struct {
	CompressedSize uint32 // Size of the bit-stream payload in bytes
	OriginalSize   uint32 // Size of the decompressed output in bytes
}

// ParseHeader parses the frame header at the start of b. It performs no
// sanity checks beyond the header length; in particular, the sizes reported
// are attacker controlled and must not be trusted for allocation without an
// external bound.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < hdrSize {
		return Header{}, ErrTruncatedHeader
	}
	h := Header{
		CompressedSize: binary.LittleEndian.Uint32(b[0:4]),
		OriginalSize:   binary.LittleEndian.Uint32(b[4:8]),
	}
	return h, nil
}

// FrameSize reports the total byte size of the frame, header included.
func (h Header) FrameSize() int64 {
	return hdrSize + int64(h.CompressedSize)
}
