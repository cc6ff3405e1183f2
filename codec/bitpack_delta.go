package codec

import (
	"github.com/shiloren/gics/errs"
	"github.com/shiloren/gics/format"
	"github.com/shiloren/gics/varint"
)

// bitpackDeltaCodec stores v_0 verbatim (zigzag+varint) and every
// subsequent delta bitpacked at a single width wide enough for the block's
// largest zigzag-encoded delta. A one-byte width header precedes the
// packed bits. This is the VALUE-stream workhorse for the ORDERED
// (context off) and MIXED regimes, where deltas cluster in a bounded
// range but aren't uniform enough for RLE.
type bitpackDeltaCodec struct{}

func (bitpackDeltaCodec) ID() format.CodecID { return format.CodecBitpackDelta }

func (bitpackDeltaCodec) CanEncode(values []int64) bool { return true }

func (bitpackDeltaCodec) Encode(dst []byte, values []int64) []byte {
	n := len(values)
	if n == 0 {
		return dst
	}

	dst = varint.PutVarintZigzag(dst, values[0])
	if n == 1 {
		dst = append(dst, 0)
		return dst
	}

	deltas := make([]int64, n-1)
	for i := 1; i < n; i++ {
		deltas[i-1] = values[i] - values[i-1]
	}

	width := varint.MinBitsForWidth(deltas)
	dst = append(dst, byte(width))

	bw := varint.NewBitWriter(dst)
	for _, d := range deltas {
		bw.Write(varint.ZigzagEncode(d), width)
	}

	return bw.Flush()
}

func (bitpackDeltaCodec) Decode(src []byte, count int) ([]int64, int, error) {
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

	if pos >= len(src) {
		return nil, 0, errs.ErrTruncatedBlockHeader
	}
	width := int(src[pos])
	pos++

	if count == 1 {
		return out, pos, nil
	}

	br := varint.NewBitReader(src[pos:])
	prev := v0
	for i := 1; i < count; i++ {
		zu, ok := br.Read(width)
		if !ok {
			return nil, 0, errs.ErrTruncatedBlockHeader
		}
		prev += varint.ZigzagDecode(zu)
		out[i] = prev
	}
	pos += br.Pos()

	return out, pos, nil
}
