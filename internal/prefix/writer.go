// Copyright 2025, The fwkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package prefix

import (
	"io"

	"github.com/fwkit/compress/internal"
)

// Writer implements a prefix code encoder over a bit stream.
type Writer struct {
	wr     io.Writer
	offset int64 // Number of bytes written to underlying io.Writer
	wrErr  error // First error encountered writing to wr

	bufBits uint64 // Buffer to hold some bits
	numBits uint   // Number of valid bits in bufBits

	bigEndian bool       // Do we treat output bytes as big endian?
	transform *[256]byte // LUT to transform bit-ordering of bytes as they are written

	buf    [512]byte // Buffer of the last few bytes written
	cntBuf int       // Number of valid bytes in buf
}

// Init initializes the bit Writer to write to w.
//
// If bigEndian is true, then the bits will be written starting from the
// most-significant bits of a byte (as done in bzip2), otherwise the bits will
// be written starting from the least-significant bits of a byte (as done in
// DEFLATE and Brotli).
func (pw *Writer) Init(w io.Writer, bigEndian bool) {
	*pw = Writer{wr: w, bigEndian: bigEndian}
	pw.transform = &internal.IdentityLUT
	if bigEndian {
		pw.transform = &internal.ReverseLUT
	}
}

// BitsWritten reports the total number of bits issued to any Write method.
func (pw *Writer) BitsWritten() int64 {
	return 8*pw.offset + 8*int64(pw.cntBuf) + int64(pw.numBits)
}

// WritePads writes 0-7 bits to the bit buffer to achieve byte-alignment.
func (pw *Writer) WritePads(v uint) {
	nb := -pw.numBits & 7
	pw.bufBits |= uint64(v) << pw.numBits
	pw.numBits += nb
}

// Write writes bytes from buf.
// The bit buffer must be byte-aligned for this method to succeed.
func (pw *Writer) Write(buf []byte) (cnt int, err error) {
	if pw.numBits%8 != 0 {
		return 0, internal.Error("non-aligned bit buffer")
	}
	pw.PushBits()
	if pw.cntBuf > 0 {
		pw.pushBytes()
	}
	if pw.wrErr == nil {
		cnt, err = pw.wr.Write(buf)
		pw.offset += int64(cnt)
	} else {
		err = pw.wrErr
	}
	return cnt, err
}

// WriteOffset writes ofs in a (sym, extra) fashion using the provided prefix
// Encoder and RangeEncoder.
func (pw *Writer) WriteOffset(ofs uint, pe *Encoder, re *RangeEncoder) {
	sym := re.Encode(ofs)
	pw.WriteSymbol(sym, pe)
	rc := re.rcs[sym]
	pw.WriteBits(ofs-uint(rc.Base), uint(rc.Len))
}

// TryWriteBits attempts to write nb bits using the contents of the bit buffer
// alone. It reports whether it succeeded.
//
// This method is designed to be inlined for performance reasons.
func (pw *Writer) TryWriteBits(val, nb uint) bool {
	if 64-pw.numBits < nb {
		return false
	}
	pw.bufBits |= uint64(val) << pw.numBits
	pw.numBits += nb
	return true
}

// WriteBits writes nb bits of val to the underlying writer.
func (pw *Writer) WriteBits(val, nb uint) {
	if 64-pw.numBits < nb {
		pw.PushBits()
	}
	pw.bufBits |= uint64(val) << pw.numBits
	pw.numBits += nb
}

// TryWriteSymbol attempts to encode the next symbol using the contents of the
// bit buffer alone. It reports whether it succeeded.
//
// This method is designed to be inlined for performance reasons.
func (pw *Writer) TryWriteSymbol(sym uint, pe *Encoder) bool {
	chunk := pe.chunks[uint32(sym)&pe.chunkMask]
	nb := uint(chunk & countMask)
	if 64-pw.numBits < nb {
		return false
	}
	pw.bufBits |= uint64(chunk>>countBits) << pw.numBits
	pw.numBits += nb
	return true
}

// WriteSymbol writes the symbol using the provided prefix Encoder.
func (pw *Writer) WriteSymbol(sym uint, pe *Encoder) {
	chunk := pe.chunks[uint32(sym)&pe.chunkMask]
	nb := uint(chunk & countMask)
	if 64-pw.numBits < nb {
		pw.PushBits()
	}
	pw.bufBits |= uint64(chunk>>countBits) << pw.numBits
	pw.numBits += nb
}

// Flush flushes all complete bytes from the bit buffer to the byte buffer, and
// then flushes all bytes in the byte buffer to the underlying writer.
// The bit buffer must be byte-aligned for this method to succeed.
func (pw *Writer) Flush() (int64, error) {
	if pw.numBits%8 != 0 {
		return pw.offset, internal.Error("non-aligned bit buffer")
	}
	if pw.wrErr != nil {
		return pw.offset, pw.wrErr
	}
	pw.PushBits()
	pw.pushBytes()
	return pw.offset, pw.wrErr
}

// PushBits pushes as many bytes as possible from the bit buffer to the byte
// buffer, reporting the number of bits pushed.
func (pw *Writer) PushBits() uint {
	if pw.cntBuf >= len(pw.buf)-8 {
		pw.pushBytes()
	}
	nb := pw.numBits
	for pw.numBits >= 8 {
		pw.buf[pw.cntBuf] = pw.transform[byte(pw.bufBits)]
		pw.bufBits >>= 8
		pw.numBits -= 8
		pw.cntBuf++
	}
	return nb - pw.numBits
}

// pushBytes pushes the byte buffer to the underlying writer.
func (pw *Writer) pushBytes() {
	cnt, err := pw.wr.Write(pw.buf[:pw.cntBuf])
	pw.offset += int64(cnt)
	pw.cntBuf = 0
	if err != nil && pw.wrErr == nil {
		pw.wrErr = err
	}
}
