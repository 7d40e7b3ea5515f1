// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package state

import "math"

// SimpleRng is a deliberately small multiply-with-carry generator (after
// Marsaglia's MWC). Puzzle inputs must replay identically across builds
// and platforms, so the stream for a given seed is frozen; a stronger
// library generator would not give that guarantee.
//
type SimpleRng struct {
	z, w uint32
}

// NewSimpleRng returns a generator for the given 64-bit seed.
func NewSimpleRng(seed uint64) *SimpleRng {
	return &SimpleRng{
		z: 0x159a55e5 ^ uint32(seed&0xffffffff),
		w: 0x1f123bb5 ^ uint32(seed>>32),
	}
}

// RandU32 returns the next value of the stream.
func (r *SimpleRng) RandU32() uint32 {
	r.z = 36969*(r.z&0xffff) + (r.z >> 16)
	r.w = 18000*(r.w&0xffff) + (r.w >> 16)
	return (r.z << 16) | (r.w & 0xffff)
}

// RandU4 returns the next value truncated to four bits.
func (r *SimpleRng) RandU4() uint32 {
	return r.RandU32() & 0xf
}

// RandInt returns an unbiased value in [lower, upper], inclusive, using
// rejection sampling for non-power-of-two ranges.
func (r *SimpleRng) RandInt(lower, upper uint32) uint32 {
	if lower > upper {
		panic("state: RandInt with lower > upper")
	}
	if lower == 0 && upper == math.MaxUint32 {
		return r.RandU32()
	}
	rangeSize := upper - lower + 1
	if rangeSize&(rangeSize-1) == 0 {
		return lower + (r.RandU32() & (rangeSize - 1))
	}
	limit := math.MaxUint32 - (math.MaxUint32 % rangeSize)
	value := limit
	for value >= limit {
		value = r.RandU32()
	}
	return lower + (value % rangeSize)
}
