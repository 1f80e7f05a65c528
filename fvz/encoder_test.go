// Copyright 2025, The fwkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package fvz

import (
	"bytes"
	"encoding/binary"

	"github.com/fwkit/compress/internal/prefix"
)

// tokenWriter emits an FVZ bit stream one token at a time. It mirrors the
// adaptive model of the decoder, so the prefix codes on both sides agree as
// long as the rebuild cadence is honored.
type tokenWriter struct {
	bb bytes.Buffer
	bw prefix.Writer

	lits    codeState
	dists   codeState
	litEnc  prefix.Encoder
	distEnc prefix.Encoder
	lenRE   prefix.RangeEncoder
	distRE  prefix.RangeEncoder

	numSyms  int
	numBytes int
}

func newTokenWriter() *tokenWriter {
	tw := new(tokenWriter)
	tw.bw.Init(&tw.bb, true)
	tw.lits.Init(numLLSyms)
	tw.dists.Init(numDistSyms)
	tw.litEnc.Init(tw.lits.codes)
	tw.distEnc.Init(tw.dists.codes)
	tw.lenRE.Init(lenRanges)
	tw.distRE.Init(distRanges)
	return tw
}

func (tw *tokenWriter) writeSymbol(sym uint, pe *prefix.Encoder) {
	ok := tw.bw.TryWriteSymbol(sym, pe)
	if !ok {
		tw.bw.WriteSymbol(sym, pe)
	}
}

func (tw *tokenWriter) writeBits(val, nb uint) {
	ok := tw.bw.TryWriteBits(val, nb)
	if !ok {
		tw.bw.WriteBits(val, nb)
	}
}

func (tw *tokenWriter) step() {
	if tw.numSyms++; tw.numSyms%rebuildInterval == 0 {
		tw.lits.Rebuild()
		tw.dists.Rebuild()
		tw.litEnc.Init(tw.lits.codes)
		tw.distEnc.Init(tw.dists.codes)
	}
}

func (tw *tokenWriter) Literal(c byte) {
	tw.writeSymbol(uint(c), &tw.litEnc)
	tw.lits.Increment(uint(c))
	tw.numBytes++
	tw.step()
}

func (tw *tokenWriter) Match(dist, cnt int) {
	lsym := tw.lenRE.Encode(uint(cnt))
	rec := lenRanges[lsym]
	tw.writeSymbol(lsym+numLitSyms, &tw.litEnc)
	if rec.Len > 0 {
		tw.writeBits(uint(cnt)-uint(rec.Base), uint(rec.Len))
	}

	dsym := tw.distRE.Encode(uint(dist))
	drec := distRanges[dsym]
	tw.writeSymbol(dsym, &tw.distEnc)
	if drec.Len > 0 {
		tw.writeBits(uint(dist)-uint(drec.Base), uint(drec.Len))
	}

	tw.lits.Increment(lsym + numLitSyms)
	tw.dists.Increment(dsym)
	tw.numBytes += cnt
	tw.step()
}

// Frame terminates the bit stream and returns the whole frame with the
// header sized from the tokens written. A negative rawSize uses the true
// output size; any other value overrides it to build malformed frames.
func (tw *tokenWriter) Frame(rawSize int) []byte {
	tw.bw.WritePads(0)
	if _, err := tw.bw.Flush(); err != nil {
		panic(err)
	}
	if rawSize < 0 {
		rawSize = tw.numBytes
	}

	frame := make([]byte, hdrSize+tw.bb.Len())
	binary.LittleEndian.PutUint32(frame[0:4], uint32(tw.bb.Len()))
	binary.LittleEndian.PutUint32(frame[4:8], uint32(rawSize))
	copy(frame[hdrSize:], tw.bb.Bytes())
	return frame
}

// fvzCompress produces a valid frame for input using a greedy hash-chained
// LZ77 matcher. Compression quality is irrelevant here; the point is to
// exercise literals, matches, overlapping copies, and the adaptive rebuild
// cadence on both sides.
func fvzCompress(input []byte) []byte {
	tw := newTokenWriter()
	htab := make(map[uint32]int)

	var pos int
	for pos < len(input) {
		var dist, cnt int
		if pos+minMatchLen <= len(input) {
			h := binary.LittleEndian.Uint32(input[pos:])
			if prev, ok := htab[h]; ok && pos-prev <= maxMatchDist {
				var n int
				for pos+n < len(input) && n < maxMatchLen && input[prev+n] == input[pos+n] {
					n++
				}
				if n >= minMatchLen {
					dist, cnt = pos-prev, n
				}
			}
			htab[h] = pos
		}

		if cnt == 0 {
			tw.Literal(input[pos])
			pos++
		} else {
			tw.Match(dist, cnt)
			pos += cnt
		}
	}
	return tw.Frame(-1)
}
