// Copyright 2025, The fwkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package fvz

import (
	"bytes"
	"io"

	"github.com/fwkit/compress/internal/prefix"
)

// Decompress decodes a single FVZ frame and returns the original data.
func Decompress(input []byte) ([]byte, error) {
	hdr, err := ParseHeader(input)
	if err != nil {
		return nil, err
	}
	if int64(len(input)-hdrSize) < int64(hdr.CompressedSize) {
		return nil, ErrTruncatedInput
	}
	payload := input[hdrSize : hdrSize+int(hdr.CompressedSize)]

	var fd decoder
	return fd.decompress(payload, hdr)
}

type decoder struct {
	rd    prefix.Reader
	lits  codeState // Model for the literal/length alphabet
	dists codeState // Model for the distance alphabet
	dict  dictDecoder
}

func (fd *decoder) decompress(payload []byte, hdr Header) (output []byte, err error) {
	defer errRecover(&err)

	fd.rd.Init(bytes.NewReader(payload), true)
	fd.lits.Init(numLLSyms)
	fd.dists.Init(numDistSyms)
	fd.dict.Init(int(hdr.OriginalSize))

	var numSyms int
	for fd.dict.AvailSize() > 0 {
		sym, ok := fd.rd.TryReadSymbol(&fd.lits.dec)
		if !ok {
			sym = fd.rd.ReadSymbol(&fd.lits.dec)
		}

		if sym < numLitSyms {
			fd.dict.WriteByte(byte(sym))
			fd.lits.Increment(sym)
		} else {
			rec := lenRanges[sym-numLitSyms]
			cnt := int(rec.Base)
			if rec.Len > 0 {
				bits, ok := fd.rd.TryReadBits(uint(rec.Len))
				if !ok {
					bits = fd.rd.ReadBits(uint(rec.Len))
				}
				cnt += int(bits)
			}

			dsym, ok := fd.rd.TryReadSymbol(&fd.dists.dec)
			if !ok {
				dsym = fd.rd.ReadSymbol(&fd.dists.dec)
			}
			drec := distRanges[dsym]
			dist := int(drec.Base)
			if drec.Len > 0 {
				bits, ok := fd.rd.TryReadBits(uint(drec.Len))
				if !ok {
					bits = fd.rd.ReadBits(uint(drec.Len))
				}
				dist += int(bits)
			}

			if dist > fd.dict.HistSize() || cnt > fd.dict.AvailSize() {
				panic(ErrInvalidBackRef)
			}
			fd.dict.WriteCopy(dist, cnt)
			fd.lits.Increment(sym)
			fd.dists.Increment(dsym)
		}

		if numSyms++; numSyms%rebuildInterval == 0 {
			fd.lits.Rebuild()
			fd.dists.Rebuild()
		}
	}

	// The stream must end at a byte boundary with zero padding and no
	// residual payload.
	if pads := fd.rd.ReadPads(); pads > 0 {
		panic(ErrLengthMismatch)
	}
	if fd.rd.BitsRead() != 8*int64(len(payload)) {
		panic(ErrLengthMismatch)
	}
	return fd.dict.Bytes(), nil
}

// Reader decompresses a single FVZ frame from an underlying stream. It reads
// exactly Header.FrameSize bytes and never consumes past the frame end.
type Reader struct {
	InputOffset  int64 // Total number of bytes read from underlying io.Reader
	OutputOffset int64 // Total number of bytes emitted from Read

	rd      io.Reader
	buf     []byte // Decoded frame contents not yet returned
	decoded bool
	err     error
}

func NewReader(r io.Reader) *Reader {
	fr := new(Reader)
	fr.Reset(r)
	return fr
}

func (fr *Reader) Reset(r io.Reader) {
	*fr = Reader{rd: r}
}

func (fr *Reader) Read(buf []byte) (int, error) {
	if fr.err != nil {
		return 0, fr.err
	}
	if !fr.decoded {
		if fr.err = fr.decodeFrame(); fr.err != nil {
			return 0, fr.err
		}
	}
	if len(fr.buf) == 0 {
		return 0, io.EOF
	}
	cnt := copy(buf, fr.buf)
	fr.buf = fr.buf[cnt:]
	fr.OutputOffset += int64(cnt)
	return cnt, nil
}

func (fr *Reader) decodeFrame() error {
	var hdrBuf [hdrSize]byte
	cnt, err := io.ReadFull(fr.rd, hdrBuf[:])
	fr.InputOffset += int64(cnt)
	if err != nil {
		if err == io.EOF && cnt == 0 {
			return io.EOF
		}
		return ErrTruncatedHeader
	}
	hdr, err := ParseHeader(hdrBuf[:])
	if err != nil {
		return err
	}

	payload := make([]byte, hdr.CompressedSize)
	cnt, err = io.ReadFull(fr.rd, payload)
	fr.InputOffset += int64(cnt)
	if err != nil {
		return ErrTruncatedInput
	}

	var fd decoder
	output, err := fd.decompress(payload, hdr)
	if err != nil {
		return err
	}
	fr.buf = output
	fr.decoded = true
	return nil
}

func (fr *Reader) Close() error {
	fr.rd = nil
	fr.buf = nil
	if fr.err == io.EOF {
		return nil
	}
	return fr.err
}
