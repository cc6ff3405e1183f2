package codec

import (
	"github.com/shiloren/gics/format"
	"github.com/shiloren/gics/varint"
)

// dodVarintCodec implements delta-of-delta + zigzag + varint encoding:
// v_0 stored verbatim, v_1 as a delta from v_0, and every subsequent value
// as dod_i = (v_i - v_{i-1}) - (v_{i-1} - v_{i-2}). This is the primary
// TIME-stream codec for ORDERED regimes, where regular intervals collapse
// every dod to zero.
type dodVarintCodec struct{}

func (dodVarintCodec) ID() format.CodecID { return format.CodecDoDVarint }

func (dodVarintCodec) CanEncode(values []int64) bool { return true }

func (dodVarintCodec) Encode(dst []byte, values []int64) []byte {
	n := len(values)
	if n == 0 {
		return dst
	}

	dst = varint.PutVarintZigzag(dst, values[0])
	if n == 1 {
		return dst
	}

	prevDelta := values[1] - values[0]
	dst = varint.PutVarintZigzag(dst, prevDelta)

	prev := values[1]
	for i := 2; i < n; i++ {
		delta := values[i] - prev
		dod := delta - prevDelta
		dst = varint.PutVarintZigzag(dst, dod)
		prevDelta = delta
		prev = values[i]
	}

	return dst
}

func (dodVarintCodec) Decode(src []byte, count int) ([]int64, int, error) {
	if count == 0 {
		return nil, 0, nil
	}

	out := make([]int64, count)
	pos := 0

	v0, n, err := varint.VarintZigzag(src[pos:])
	if err != nil {
		return nil, 0, err
	}
	pos += n
	out[0] = v0
	if count == 1 {
		return out, pos, nil
	}

	delta, n, err := varint.VarintZigzag(src[pos:])
	if err != nil {
		return nil, 0, err
	}
	pos += n
	out[1] = out[0] + delta
	prevDelta := delta

	prev := out[1]
	for i := 2; i < count; i++ {
		dod, n, err := varint.VarintZigzag(src[pos:])
		if err != nil {
			return nil, 0, err
		}
		pos += n
		delta := prevDelta + dod
		prev += delta
		out[i] = prev
		prevDelta = delta
	}

	return out, pos, nil
}
