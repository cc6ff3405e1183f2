package stream

import (
	"github.com/shiloren/gics/codec"
	"github.com/shiloren/gics/dictctx"
	"github.com/shiloren/gics/errs"
	"github.com/shiloren/gics/format"
	"github.com/shiloren/gics/section"
)

// DecodeSegment reverses DrainAll: it walks a decompressed segment's blocks
// in order and appends each one's decoded values to the matching Buffers
// field. dict must be the same (or an identically-seeded) DictContext the
// encoder used, fed blocks in the same order, since DICT_VARINT symbols are
// only meaningful relative to insertion order.
func DecodeSegment(data []byte, dict *dictctx.DictContext) (*Buffers, error) {
	buf := &Buffers{}

	off := 0
	for off < len(data) {
		header, err := section.ParseBlockHeader(data[off:])
		if err != nil {
			return nil, err
		}
		off += format.BlockHeaderSize
		if header.NItems > format.MaxBlockItems {
			return nil, errs.ErrBlockTooLarge
		}

		if off+int(header.PayloadLen) > len(data) {
			return nil, errs.ErrSegmentTruncated
		}
		payload := data[off : off+int(header.PayloadLen)]
		off += int(header.PayloadLen)

		if header.StreamID == format.StreamMeta {
			buf.Meta = append(buf.Meta, append([]byte(nil), payload...))
			continue
		}

		values, _, err := decodeBlockPayload(header, payload, dict)
		if err != nil {
			return nil, err
		}

		switch header.StreamID {
		case format.StreamTime:
			buf.Time = append(buf.Time, values...)
		case format.StreamSnapshotLen:
			buf.SnapshotLen = append(buf.SnapshotLen, values...)
		case format.StreamItemID:
			buf.ItemID = append(buf.ItemID, values...)
		case format.StreamValue:
			buf.Value = append(buf.Value, values...)
		case format.StreamQuantity:
			buf.Quantity = append(buf.Quantity, values...)
		default:
			return nil, errs.Wrap(errs.KindGics, "unknown stream id in block header", nil)
		}
	}

	return buf, nil
}

func decodeBlockPayload(header section.BlockHeader, payload []byte, dict *dictctx.DictContext) ([]int64, int, error) {
	if header.CodecID == format.CodecDictVarint {
		return codec.DecodeDictVarint(payload, int(header.NItems), dict)
	}

	c := codec.Get(header.CodecID)
	if c == nil {
		return nil, 0, errs.Wrap(errs.KindGics, "unknown codec id in block header", nil)
	}

	return c.Decode(payload, int(header.NItems))
}
