package codec

import (
	"encoding/binary"

	"github.com/shiloren/gics/errs"
	"github.com/shiloren/gics/format"
)

// fixed64Codec is the safe fallback: 8 bytes little-endian per value, no
// transform. It is what the selector always emits for lossy-risk streams
// (VALUE, QUANTITY) while in QUARANTINE, and it never fails CanEncode
// regardless of input shape — that's what makes it safe.
type fixed64Codec struct{}

func (fixed64Codec) ID() format.CodecID { return format.CodecFixed64LE }

func (fixed64Codec) CanEncode(values []int64) bool { return true }

func (fixed64Codec) Encode(dst []byte, values []int64) []byte {
	var tmp [8]byte
	for _, v := range values {
		binary.LittleEndian.PutUint64(tmp[:], uint64(v))
		dst = append(dst, tmp[:]...)
	}

	return dst
}

func (fixed64Codec) Decode(src []byte, count int) ([]int64, int, error) {
	need := count * 8
	if len(src) < need {
		return nil, 0, errs.ErrTruncatedBlockHeader
	}

	out := make([]int64, count)
	for i := 0; i < count; i++ {
		out[i] = int64(binary.LittleEndian.Uint64(src[i*8 : i*8+8]))
	}

	return out, need, nil
}
