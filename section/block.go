package section

import (
	"encoding/binary"

	"github.com/shiloren/gics/errs"
	"github.com/shiloren/gics/format"
)

// BlockHeader is the 11-byte header prepended to every block's payload
// inside a decompressed segment: stream_id(1) codec_id(1) n_items(4 LE)
// payload_len(4 LE) flags(1).
type BlockHeader struct {
	StreamID   format.StreamID
	CodecID    format.CodecID
	NItems     uint32
	PayloadLen uint32
	Flags      format.BlockFlag
}

// Bytes serializes h into format.BlockHeaderSize bytes.
func (h BlockHeader) Bytes() []byte {
	b := make([]byte, format.BlockHeaderSize)
	b[0] = byte(h.StreamID)
	b[1] = byte(h.CodecID)
	binary.LittleEndian.PutUint32(b[2:6], h.NItems)
	binary.LittleEndian.PutUint32(b[6:10], h.PayloadLen)
	b[10] = byte(h.Flags)

	return b
}

// ParseBlockHeader reads a BlockHeader from the front of data.
func ParseBlockHeader(data []byte) (BlockHeader, error) {
	if len(data) < format.BlockHeaderSize {
		return BlockHeader{}, errs.ErrTruncatedBlockHeader
	}

	return BlockHeader{
		StreamID:   format.StreamID(data[0]),
		CodecID:    format.CodecID(data[1]),
		NItems:     binary.LittleEndian.Uint32(data[2:6]),
		PayloadLen: binary.LittleEndian.Uint32(data[6:10]),
		Flags:      format.BlockFlag(data[10]),
	}, nil
}
