// Copyright 2025, The fwkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package fvz

// dictDecoder implements the LZ77 sliding dictionary that back references
// copy from. Since a frame declares its decompressed size up front, the
// dictionary is simply the output buffer itself.
type dictDecoder struct {
	hist []byte // Emitted output, cap is the total expected size
}

func (dd *dictDecoder) Init(size int) {
	dd.hist = make([]byte, 0, size)
}

// HistSize reports the number of bytes emitted so far.
func (dd *dictDecoder) HistSize() int {
	return len(dd.hist)
}

// AvailSize reports the number of bytes still to be emitted.
func (dd *dictDecoder) AvailSize() int {
	return cap(dd.hist) - len(dd.hist)
}

func (dd *dictDecoder) WriteByte(c byte) {
	dd.hist = append(dd.hist, c)
}

// WriteCopy copies cnt bytes from dist bytes back in the history. The copy
// advances a byte at a time so that a copy overlapping its own output
// observes the bytes it just produced.
func (dd *dictDecoder) WriteCopy(dist, cnt int) {
	pos := len(dd.hist) - dist
	for i := 0; i < cnt; i++ {
		dd.hist = append(dd.hist, dd.hist[pos+i])
	}
}

func (dd *dictDecoder) Bytes() []byte {
	return dd.hist
}
