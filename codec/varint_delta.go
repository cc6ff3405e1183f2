package codec

import (
	"github.com/shiloren/gics/format"
	"github.com/shiloren/gics/varint"
)

// varintDeltaCodec encodes d_i = v_i - v_{i-1}, with v_0 stored verbatim,
// each term zigzag+varint encoded. Grounded on the same delta-then-zigzag
// shape as the TIME codecs below, minus the delta-of-delta step.
type varintDeltaCodec struct{}

func (varintDeltaCodec) ID() format.CodecID { return format.CodecVarintDelta }

func (varintDeltaCodec) CanEncode(values []int64) bool { return true }

func (varintDeltaCodec) Encode(dst []byte, values []int64) []byte {
	if len(values) == 0 {
		return dst
	}

	dst = varint.PutVarintZigzag(dst, values[0])
	for i := 1; i < len(values); i++ {
		dst = varint.PutVarintZigzag(dst, values[i]-values[i-1])
	}

	return dst
}

func (varintDeltaCodec) Decode(src []byte, count int) ([]int64, int, error) {
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

	prev := v0
	for i := 1; i < count; i++ {
		d, n, err := varint.VarintZigzag(src[pos:])
		if err != nil {
			return nil, 0, err
		}
		pos += n
		prev += d
		out[i] = prev
	}

	return out, pos, nil
}
