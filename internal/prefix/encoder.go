// Copyright 2025, The fwkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package prefix

import (
	"github.com/fwkit/compress/internal"
)

type Encoder struct {
	chunks    []uint32 // First-level lookup map
	chunkMask uint32   // Mask the length of the chunks table

	NumSyms uint32 // Number of symbols
}

// Init initializes Encoder according to the codes provided.
func (pe *Encoder) Init(codes PrefixCodes) {
	// Handle special case trees.
	if len(codes) <= 1 {
		switch {
		case len(codes) == 0: // Empty tree (should error if used later)
			*pe = Encoder{chunks: pe.chunks[:0], NumSyms: 0}
		case len(codes) == 1: // Single code tree (bit-width of zero)
			pe.chunks = append(pe.chunks[:0], codes[0].Val<<countBits|0)
			pe.chunkMask = 0
			pe.NumSyms = 1
		}
		return
	}

	// Allocate chunks table of the smallest size where no two symbols have
	// colliding entries. The symbol alphabet may be sparse, so the table size
	// is searched for rather than computed.
	numChunks := 1
	for n := len(codes); n > numChunks; numChunks <<= 1 {
	}
	pe.NumSyms = uint32(len(codes))

retry:
	pe.chunkMask = uint32(numChunks - 1)
	pe.chunks = allocUint32s(pe.chunks, numChunks)
	for i := range pe.chunks {
		pe.chunks[i] = invalidChunk
	}
	for _, c := range codes {
		ci := c.Sym & pe.chunkMask
		if pe.chunks[ci] != invalidChunk {
			numChunks <<= 1
			goto retry
		}
		pe.chunks[ci] = c.Val<<countBits | c.Len
	}

	if internal.Debug && !checkChunks(pe.chunks, pe.chunkMask, codes) {
		panic(internal.Error("corrupted prefix encoding table"))
	}
}

const invalidChunk = ^uint32(0)

// checkChunks reports whether every code is recoverable from the chunks table.
func checkChunks(chunks []uint32, mask uint32, codes PrefixCodes) bool {
	for _, c := range codes {
		if chunks[c.Sym&mask] != c.Val<<countBits|c.Len {
			return false
		}
	}
	return true
}
