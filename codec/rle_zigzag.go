package codec

import "github.com/shiloren/gics/format"

// rleZigzagCodec stores runs of equal values as (count, value) pairs, both
// varint encoded (value zigzag first). Runs longer than MaxRLERun are
// split into multiple pairs so no single run-length varint can grow
// unbounded; this is what the selector relies on to keep RLE_ZIGZAG always
// representable regardless of input.
type rleZigzagCodec struct{}

func (rleZigzagCodec) ID() format.CodecID { return format.CodecRLEZigzag }

func (rleZigzagCodec) CanEncode(values []int64) bool { return true }

func (rleZigzagCodec) Encode(dst []byte, values []int64) []byte {
	return encodeRuns(dst, values, format.MaxRLERun)
}

func (rleZigzagCodec) Decode(src []byte, count int) ([]int64, int, error) {
	return decodeRuns(src, count)
}
