// Package codec implements the inner (per-block) codecs GICS chooses
// between for each stream-block: NONE, VARINT_DELTA, BITPACK_DELTA,
// RLE_ZIGZAG, RLE_DoD, DOD_VARINT, DICT_VARINT and the FIXED64_LE safe
// fallback.
//
// Every stream is represented uniformly as a []int64 slice at this layer:
// TIME and SNAPSHOT_LEN are already integers, ITEM_ID and QUANTITY are
// widened from their native widths, and VALUE is its fixed-point integer
// representation. Keeping one representation lets every codec below share
// one interface instead of needing a type parameter per stream.
package codec

import "github.com/shiloren/gics/format"

// Codec encodes and decodes one block's worth of a stream's values. An
// implementation must be a pure function of its input: the same values
// slice always produces the same bytes, and decoding those bytes always
// reproduces the same values.
type Codec interface {
	ID() format.CodecID

	// Encode appends the encoded form of values to dst and returns the
	// extended slice. It never returns an error: a codec that cannot
	// represent its input (e.g. RLE run overflow) must be avoided by the
	// caller via CanEncode, not fail at Encode time.
	Encode(dst []byte, values []int64) []byte

	// CanEncode reports whether this codec can represent values without
	// exceeding any of its structural limits. The selector only emits
	// a codec id the corresponding Codec.CanEncode approves of.
	CanEncode(values []int64) bool

	// Decode reads exactly count values from src, returning them along
	// with the number of bytes consumed. src may have trailing bytes
	// belonging to the next block; Decode must not read past its own
	// payload.
	Decode(src []byte, count int) ([]int64, int, error)
}

// registry maps a codec id to its implementation. DictVarint is excluded:
// it needs a shared dictionary and is driven directly by stream/block.go.
var registry = map[format.CodecID]Codec{
	format.CodecNone:         noneCodec{},
	format.CodecVarintDelta:  varintDeltaCodec{},
	format.CodecBitpackDelta: bitpackDeltaCodec{},
	format.CodecRLEZigzag:    rleZigzagCodec{},
	format.CodecRLEDoD:       rleDoDCodec{},
	format.CodecDoDVarint:    dodVarintCodec{},
	format.CodecFixed64LE:    fixed64Codec{},
}

// Get returns the Codec implementation for id, or nil if id is unknown or
// is CodecDictVarint (handled separately).
func Get(id format.CodecID) Codec {
	return registry[id]
}
