package codec

import (
	"encoding/binary"

	"github.com/shiloren/gics/errs"
	"github.com/shiloren/gics/format"
)

// noneCodec stores each value as a zigzag+varint scalar with no delta
// transform. It's the classifier's default when a stream shows no
// exploitable structure (CHAOTIC VALUE/QUANTITY/ITEM_ID regimes).
type noneCodec struct{}

func (noneCodec) ID() format.CodecID { return format.CodecNone }

func (noneCodec) CanEncode(values []int64) bool { return true }

func (noneCodec) Encode(dst []byte, values []int64) []byte {
	for _, v := range values {
		z := uint64((v << 1) ^ (v >> 63))
		var tmp [binary.MaxVarintLen64]byte
		n := binary.PutUvarint(tmp[:], z)
		dst = append(dst, tmp[:n]...)
	}

	return dst
}

func (noneCodec) Decode(src []byte, count int) ([]int64, int, error) {
	out := make([]int64, 0, count)
	pos := 0
	for i := 0; i < count; i++ {
		z, n := binary.Uvarint(src[pos:])
		if n <= 0 {
			return nil, 0, errs.ErrTruncatedVarint
		}
		pos += n
		out = append(out, int64(z>>1)^-int64(z&1))
	}

	return out, pos, nil
}
