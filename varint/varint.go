// Package varint provides the zigzag and LEB128 varint primitives shared by
// every inner codec, plus the bitpacking helpers used by BITPACK_DELTA.
//
// The zigzag mapping follows the standard signed-to-unsigned scheme used
// throughout the columnar codecs this package is modeled on:
//
//	z = (v << 1) ^ (v >> 63)
//
// which maps 0, -1, 1, -2, 2, ... to 0, 1, 2, 3, 4, ... so small magnitude
// values of either sign cost few varint bytes.
package varint

import (
	"encoding/binary"
	"math/bits"

	"github.com/shiloren/gics/errs"
)

// MaxLen64 is the maximum number of bytes a 64-bit varint can occupy.
const MaxLen64 = binary.MaxVarintLen64

// ZigzagEncode maps a signed int64 to an unsigned uint64 so small-magnitude
// negative values stay cheap to varint-encode.
func ZigzagEncode(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63))
}

// ZigzagDecode reverses ZigzagEncode.
func ZigzagDecode(z uint64) int64 {
	return int64(z>>1) ^ -int64(z&1)
}

// PutUvarint appends the LEB128 encoding of v to dst and returns the
// extended slice.
func PutUvarint(dst []byte, v uint64) []byte {
	var tmp [MaxLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	return append(dst, tmp[:n]...)
}

// PutVarintZigzag appends the zigzag+varint encoding of a signed value.
func PutVarintZigzag(dst []byte, v int64) []byte {
	return PutUvarint(dst, ZigzagEncode(v))
}

// Uvarint reads a LEB128-encoded uint64 from the front of src, returning the
// value and the number of bytes consumed. It never reads past len(src); a
// short or unterminated varint returns errs.ErrTruncatedVarint.
func Uvarint(src []byte) (uint64, int, error) {
	v, n := binary.Uvarint(src)
	if n == 0 {
		return 0, 0, errs.ErrTruncatedVarint
	}
	if n < 0 {
		// binary.Uvarint returns n<0 to report overflow past 64 bits.
		return 0, 0, errs.Wrap(errs.KindIncompleteData, "varint overflows 64 bits", errs.ErrTruncatedVarint)
	}

	return v, n, nil
}

// VarintZigzag reads a zigzag+varint-encoded signed value from the front of
// src.
func VarintZigzag(src []byte) (int64, int, error) {
	z, n, err := Uvarint(src)
	if err != nil {
		return 0, 0, err
	}

	return ZigzagDecode(z), n, nil
}

// MinBitsForZigzag returns the minimum number of bits needed to represent
// the zigzag-encoded form of v, at least 1. Used by BITPACK_DELTA to choose
// a per-block width.
func MinBitsForZigzag(v int64) int {
	z := ZigzagEncode(v)
	if z == 0 {
		return 1
	}

	return bits.Len64(z)
}

// MinBitsForWidth returns the minimum bit width able to hold every zigzag
// value in deltas, at least 1 and at most 64.
func MinBitsForWidth(deltas []int64) int {
	maxBits := 1
	for _, d := range deltas {
		if b := MinBitsForZigzag(d); b > maxBits {
			maxBits = b
		}
	}

	return maxBits
}
