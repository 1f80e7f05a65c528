// Copyright 2025, The fwkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package prefix

import (
	"sort"

	"github.com/fwkit/compress/internal"
)

type RangeEncoder struct {
	rcs RangeCodes
}

// Init initializes RangeEncoder according to the RangeCodes provided.
func (re *RangeEncoder) Init(rcs RangeCodes) {
	if !rcs.checkValid() {
		panic(internal.Error("invalid range codes"))
	}
	re.rcs = rcs
}

// Encode encodes the offset value into its range code. When ranges overlap in
// the forward direction, the code with the largest base is chosen.
func (re *RangeEncoder) Encode(offset uint) uint {
	sym := sort.Search(len(re.rcs), func(i int) bool {
		return uint(re.rcs[i].Base) > offset
	}) - 1
	if sym < 0 {
		return 0
	}
	return uint(sym)
}
