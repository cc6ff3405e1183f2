package codec

import (
	"github.com/shiloren/gics/format"
	"github.com/shiloren/gics/varint"
)

// rleDoDCodec is RLE over the delta-of-delta series of TIME: v_0 and the
// first delta are stored verbatim (zigzag+varint), and every dod_i for
// i>=2 is then run-length encoded the same way RLE_ZIGZAG encodes a plain
// value series. Regular intervals collapse every dod to zero, so the
// whole tail becomes a single run.
type rleDoDCodec struct{}

func (rleDoDCodec) ID() format.CodecID { return format.CodecRLEDoD }

func (rleDoDCodec) CanEncode(values []int64) bool { return true }

func (rleDoDCodec) Encode(dst []byte, values []int64) []byte {
	n := len(values)
	if n == 0 {
		return dst
	}

	dst = varint.PutVarintZigzag(dst, values[0])
	if n == 1 {
		return dst
	}

	delta1 := values[1] - values[0]
	dst = varint.PutVarintZigzag(dst, delta1)
	if n == 2 {
		return dst
	}

	dods := make([]int64, n-2)
	prevDelta := delta1
	prev := values[1]
	for i := 2; i < n; i++ {
		delta := values[i] - prev
		dods[i-2] = delta - prevDelta
		prevDelta = delta
		prev = values[i]
	}

	return encodeRuns(dst, dods, format.MaxRLERun)
}

func (rleDoDCodec) Decode(src []byte, count int) ([]int64, int, error) {
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

	delta1, n, err := varint.VarintZigzag(src[pos:])
	if err != nil {
		return nil, 0, err
	}
	pos += n
	out[1] = out[0] + delta1
	if count == 2 {
		return out, pos, nil
	}

	dods, n, err := decodeRuns(src[pos:], count-2)
	if err != nil {
		return nil, 0, err
	}
	pos += n

	prevDelta := delta1
	prev := out[1]
	for i := 2; i < count; i++ {
		delta := prevDelta + dods[i-2]
		prev += delta
		out[i] = prev
		prevDelta = delta
	}

	return out, pos, nil
}
