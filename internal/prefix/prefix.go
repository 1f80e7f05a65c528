// Copyright 2025, The fwkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package prefix implements bit readers and writers that use prefix codes.
package prefix

import (
	"sort"

	"github.com/fwkit/compress/internal"
)

const (
	countBits = 5  // Number of bits to store the bit-length of the code
	valueBits = 27 // Number of bits to store the code value

	countMask = (1 << countBits) - 1
)

// PrefixCode is a representation of a prefix code, which is conceptually a
// mapping from some arbitrary symbol to some bit-string.
//
// The Sym and Cnt fields are typically provided by the user,
// while the Len and Val fields are generated by this package.
type PrefixCode struct {
	Sym uint32 // The symbol being mapped
	Cnt uint32 // The number times this symbol is used
	Len uint32 // Bit-length of the prefix code
	Val uint32 // Value of the prefix code (must be in 0..(1<<Len)-1)
}
type PrefixCodes []PrefixCode

type prefixCodesBySymbol []PrefixCode

func (c prefixCodesBySymbol) Len() int           { return len(c) }
func (c prefixCodesBySymbol) Less(i, j int) bool { return c[i].Sym < c[j].Sym }
func (c prefixCodesBySymbol) Swap(i, j int)      { c[i], c[j] = c[j], c[i] }

type prefixCodesByCount []PrefixCode

func (c prefixCodesByCount) Len() int { return len(c) }
func (c prefixCodesByCount) Less(i, j int) bool {
	return c[i].Cnt < c[j].Cnt || (c[i].Cnt == c[j].Cnt && c[i].Sym < c[j].Sym)
}
func (c prefixCodesByCount) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

func (pc PrefixCodes) SortBySymbol() { sort.Sort(prefixCodesBySymbol(pc)) }
func (pc PrefixCodes) SortByCount()  { sort.Sort(prefixCodesByCount(pc)) }

// Length computes the total bit-length using the Len and Cnt fields.
func (pc PrefixCodes) Length() (nb uint) {
	for _, c := range pc {
		nb += uint(c.Len * c.Cnt)
	}
	return nb
}

// checkLengths reports whether the codes form a complete prefix tree.
func (pc PrefixCodes) checkLengths() bool {
	sum := 1 << valueBits
	for _, c := range pc {
		sum -= (1 << valueBits) >> uint(c.Len)
	}
	return sum == 0 || len(pc) == 0
}

// checkPrefixes reports whether all codes have non-overlapping prefixes.
func (pc PrefixCodes) checkPrefixes() bool {
	for i, c1 := range pc {
		for j, c2 := range pc {
			mask := uint32(1)<<c1.Len - 1
			if i != j && c1.Len <= c2.Len && c1.Val&mask == c2.Val&mask {
				return false
			}
		}
	}
	return true
}

// checkCanonical reports whether all codes are canonical.
// That is, they have the following properties:
//
//   - All codes of a given bit-length are consecutive values.
//   - Shorter codes lexicographically precede longer codes.
//
// The codes must have unique symbols and be sorted by the symbol
// The Len and Val fields in each code must be populated.
func (pc PrefixCodes) checkCanonical() bool {
	// Rule 1: all codes of a given bit-length are consecutive values.
	var vals [valueBits + 1]PrefixCode
	for _, c := range pc {
		if c.Len > 0 {
			c.Val = internal.ReverseUint32N(c.Val, uint(c.Len))
			if vals[c.Len].Cnt > 0 && vals[c.Len].Val+1 != c.Val {
				return false
			}
			vals[c.Len].Val = c.Val
			vals[c.Len].Cnt++
		}
	}

	// Rule 2: shorter codes lexicographically precede longer codes.
	var last PrefixCode
	for _, v := range vals {
		if v.Cnt > 0 {
			curVal := v.Val - v.Cnt + 1
			if last.Cnt != 0 && last.Val >= curVal {
				return false
			}
			last = v
		}
	}
	return true
}

// GenerateLengths assigns non-zero bit-lengths to all codes. Codes with high
// frequency counts will be assigned shorter codes to reduce bit entropy.
// This function is used primarily by compressors.
//
// The input codes must have the Cnt field populated, be sorted by count.
// Even if a code has a count of 0, a non-zero bit-length will be assigned.
//
// The result will have the Len field populated. The algorithm used guarantees
// that Len <= maxBits and that it is a complete prefix tree. The resulting
// codes will remain sorted by count.
func GenerateLengths(codes PrefixCodes, maxBits uint) error {
	if len(codes) <= 1 {
		if len(codes) == 1 {
			codes[0].Len = 0
		}
		return nil
	}

	// Verify that the Cnt field is properly set.
	cntLast := codes[0].Cnt
	for _, c := range codes[1:] {
		if c.Cnt < cntLast {
			return internal.Error("non-monotonically increasing symbol counts")
		}
		cntLast = c.Cnt
	}
	if uint(len(codes)) > 1<<maxBits {
		return internal.Error("too many symbols for prefix bit-length")
	}

	// Construct a Huffman tree using the two-queue method. Since the input
	// codes are sorted by count, the leaf queue is simply the codes slice
	// itself, while internal nodes are appended in non-decreasing order.
	// Ties prefer the leaf queue so that the result is deterministic.
	type node struct {
		cnt    uint32
		parent int
	}
	nodes := make([]node, len(codes), 2*len(codes)-1)
	for i, c := range codes {
		nodes[i] = node{cnt: c.Cnt, parent: -1}
	}
	numLeafs, li, ii := len(nodes), 0, len(nodes)
	pick := func() (k int) {
		switch {
		case li >= numLeafs:
			k, ii = ii, ii+1
		case ii >= len(nodes) || nodes[li].cnt <= nodes[ii].cnt:
			k, li = li, li+1
		default:
			k, ii = ii, ii+1
		}
		return k
	}
	for len(nodes) < cap(nodes) {
		i, j := pick(), pick()
		nodes = append(nodes, node{cnt: nodes[i].cnt + nodes[j].cnt, parent: -1})
		nodes[i].parent = len(nodes) - 1
		nodes[j].parent = len(nodes) - 1
	}

	// Compute the depth of every leaf node and histogram the bit-lengths.
	// Leafs deeper than maxBits are clamped, leaving the tree over-subscribed.
	depths := make([]uint, len(nodes))
	for i := len(nodes) - 2; i >= 0; i-- {
		depths[i] = depths[nodes[i].parent] + 1
	}
	bitCnts := make([]uint, maxBits+1)
	for _, d := range depths[:numLeafs] {
		if d > maxBits {
			d = maxBits
		}
		bitCnts[d]++
	}

	// Restore the Kraft equality by moving codes from shorter bit-lengths
	// down. Measured in units of 1<<(maxBits-bits), each move turns one
	// leaf at depth bits into a sibling pair at bits+1 and pulls one leaf
	// up from maxBits, shrinking the excess by exactly one unit.
	var kraft uint
	for bits := uint(1); bits <= maxBits; bits++ {
		kraft += bitCnts[bits] << (maxBits - bits)
	}
	for kraft > 1<<maxBits {
		bits := maxBits - 1
		for bitCnts[bits] == 0 {
			bits--
		}
		bitCnts[bits]--
		bitCnts[bits+1] += 2
		bitCnts[maxBits]--
		kraft--
	}

	// Assign bit-lengths to the codes, handing the longest codes to the
	// symbols with the lowest counts.
	var i int
	for bits := maxBits; bits > 0; bits-- {
		for cnt := bitCnts[bits]; cnt > 0; cnt-- {
			codes[i].Len = uint32(bits)
			i++
		}
	}

	if internal.Debug && !codes.checkLengths() {
		panic(internal.Error("incomplete prefix tree generated"))
	}
	return nil
}

// GeneratePrefixes assigns a prefix value to all codes according to the
// bit-lengths. This function is used by both compressors and decompressors.
//
// The input codes must have the Sym and Len fields populated and be
// sorted by symbol. The bit-lengths of each code must be properly allocated,
// such that it forms a complete tree.
//
// The result will have the Val field populated and will produce a canonical
// prefix tree. The resulting codes are stored with the bit-order reversed so
// that readers and writers can process them starting from the least
// significant bit.
func GeneratePrefixes(codes PrefixCodes) error {
	if len(codes) <= 1 {
		if len(codes) == 1 {
			if codes[0].Len > 1 {
				return internal.Error("degenerate prefix tree")
			}
			codes[0].Val = 0
		}
		return nil
	}

	// Compute basic statistics on the symbols.
	var bitCnts [valueBits + 1]uint
	c0 := codes[0]
	bitCnts[c0.Len]++
	minBits, maxBits, symLast := c0.Len, c0.Len, c0.Sym
	for _, c := range codes[1:] {
		if c.Sym <= symLast {
			return internal.Error("non-unique or non-monotonically increasing symbols")
		}
		if minBits > c.Len {
			minBits = c.Len
		}
		if maxBits < c.Len {
			maxBits = c.Len
		}
		bitCnts[c.Len]++
		symLast = c.Sym
	}
	if minBits == 0 || maxBits > valueBits {
		return internal.Error("invalid prefix bit-length")
	}

	// Compute the next code for a symbol of a given bit-length.
	var nextCodes [valueBits + 1]uint
	var code uint
	for i := minBits; i <= maxBits; i++ {
		code <<= 1
		nextCodes[i] = code
		code += bitCnts[i]
	}
	if code != 1<<maxBits {
		return internal.Error("under or over subscribed prefix tree")
	}

	// Assign the code values, storing them in bit-reversed order.
	for i := range codes {
		c := &codes[i]
		c.Val = internal.ReverseUint32N(uint32(nextCodes[c.Len]), uint(c.Len))
		nextCodes[c.Len]++
	}
	return nil
}

// RangeCode represents a range of values to be encoded as a single symbol
// followed by Len raw bits to select a value within Base..End()-1.
type RangeCode struct {
	Base uint32 // Starting base offset of the range
	Len  uint32 // Bit-length of a subsequent integer to add to base offset
}
type RangeCodes []RangeCode

func (rc RangeCode) End() uint32 { return rc.Base + (1 << rc.Len) }

func (rcs RangeCodes) End() uint32 { return rcs[len(rcs)-1].End() }

func (rcs RangeCodes) Base() uint32 { return rcs[0].Base }

// checkValid reports whether the RangeCodes is valid. In order to be valid,
// the ranges must be sorted by the base offset, may only overlap in the
// forward direction, and must not leave gaps in the covered interval.
func (rcs RangeCodes) checkValid() bool {
	if len(rcs) == 0 {
		return false
	}
	pre := rcs[0]
	for _, cur := range rcs[1:] {
		preBase, preEnd := pre.Base, pre.End()
		curBase, curEnd := cur.Base, cur.End()
		if preBase > curBase || preEnd > curEnd || preEnd < curBase {
			return false
		}
		pre = cur
	}
	return true
}

// MakeRangeCodes creates a RangeCodes, where each region is assigned a
// bit-length according to the bits slice, and each base offset directly
// follows the end of the previous region.
func MakeRangeCodes(minBase uint, bits []uint) (rc RangeCodes) {
	for _, nb := range bits {
		rc = append(rc, RangeCode{Base: uint32(minBase), Len: uint32(nb)})
		minBase += 1 << nb
	}
	return rc
}
