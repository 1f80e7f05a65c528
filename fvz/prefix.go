// Copyright 2025, The fwkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package fvz

import "github.com/fwkit/compress/internal/prefix"

var (
	// LUT to convert a length symbol to a match length range.
	lenRanges prefix.RangeCodes

	// LUT to convert a distance symbol to a match distance range.
	distRanges prefix.RangeCodes

	maxMatchLen  int
	maxMatchDist int
)

func init() {
	initPrefixLUTs()
}

func initPrefixLUTs() {
	lenRanges = prefix.MakeRangeCodes(minMatchLen, []uint{
		0, 0, 0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6, 7, 7, 8, 8, 9, 9, 10, 11,
	})
	distBits := make([]uint, numDistSyms)
	for i := range distBits {
		if nb := i/2 - 1; nb > 0 {
			distBits[i] = uint(nb)
		}
	}
	distRanges = prefix.MakeRangeCodes(1, distBits)

	if len(lenRanges) != numLenSyms {
		panic("mismatching length ranges")
	}
	maxMatchLen = int(lenRanges.End()) - 1
	maxMatchDist = int(distRanges.End()) - 1
}

// codeState is the adaptive model for one symbol alphabet. It tracks symbol
// frequencies and owns the decoder table built from them.
type codeState struct {
	codes prefix.PrefixCodes
	dec   prefix.Decoder
}

func (cs *codeState) Init(numSyms uint) {
	cs.codes = make(prefix.PrefixCodes, numSyms)
	for i := range cs.codes {
		cs.codes[i] = prefix.PrefixCode{Sym: uint32(i), Cnt: 1}
	}
	cs.Rebuild()
}

// Rebuild regenerates the code table from the current frequencies, then ages
// every frequency so that recent symbols weigh more than old ones. Both the
// decoder and any mirroring encoder must rebuild at the same cadence for the
// code tables to agree.
func (cs *codeState) Rebuild() {
	cs.codes.SortByCount()
	if err := prefix.GenerateLengths(cs.codes, maxPrefixBits); err != nil {
		panic(err)
	}
	cs.codes.SortBySymbol()
	if err := prefix.GeneratePrefixes(cs.codes); err != nil {
		panic(err)
	}
	cs.dec.Init(cs.codes)
	for i := range cs.codes {
		cs.codes[i].Cnt = cs.codes[i].Cnt/2 + 1
	}
}

func (cs *codeState) Increment(sym uint) {
	cs.codes[sym].Cnt++
}
