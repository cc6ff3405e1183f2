// Package format defines the wire-level vocabulary shared by every layer of
// the codec: stream identifiers, inner codec ids, block health/regime tags
// and the outer (segment-level) compression types.
package format

// StreamID identifies one of the six columnar streams a snapshot sequence is
// projected into. Values match the file format constants so they can be
// written directly into block headers.
type StreamID uint8

const (
	StreamTime         StreamID = 10
	StreamValue        StreamID = 20
	StreamMeta         StreamID = 30
	StreamItemID       StreamID = 40
	StreamQuantity     StreamID = 50
	StreamSnapshotLen  StreamID = 60
)

func (s StreamID) String() string {
	switch s {
	case StreamTime:
		return "TIME"
	case StreamValue:
		return "VALUE"
	case StreamMeta:
		return "META"
	case StreamItemID:
		return "ITEM_ID"
	case StreamQuantity:
		return "QUANTITY"
	case StreamSnapshotLen:
		return "SNAPSHOT_LEN"
	default:
		return "UNKNOWN"
	}
}

// CodecID identifies the inner (per-block) codec used to encode one stream's
// payload for one block.
type CodecID uint8

const (
	CodecNone CodecID = iota + 1
	CodecVarintDelta
	CodecBitpackDelta
	CodecRLEZigzag
	CodecRLEDoD
	CodecDoDVarint
	CodecDictVarint
	CodecFixed64LE
)

func (c CodecID) String() string {
	switch c {
	case CodecNone:
		return "NONE"
	case CodecVarintDelta:
		return "VARINT_DELTA"
	case CodecBitpackDelta:
		return "BITPACK_DELTA"
	case CodecRLEZigzag:
		return "RLE_ZIGZAG"
	case CodecRLEDoD:
		return "RLE_DoD"
	case CodecDoDVarint:
		return "DOD_VARINT"
	case CodecDictVarint:
		return "DICT_VARINT"
	case CodecFixed64LE:
		return "FIXED64_LE"
	default:
		return "UNKNOWN"
	}
}

// Regime classifies the statistical behavior of a single stream-block.
type Regime uint8

const (
	RegimeOrdered Regime = iota
	RegimeMixed
	RegimeChaotic
)

func (r Regime) String() string {
	switch r {
	case RegimeOrdered:
		return "ORDERED"
	case RegimeMixed:
		return "MIXED"
	case RegimeChaotic:
		return "CHAOTIC"
	default:
		return "UNKNOWN"
	}
}

// Health is the current state of the routing state machine that gates
// quarantine behavior for lossy-risk streams.
type Health uint8

const (
	HealthOK Health = iota
	HealthWarn
	HealthQuarantine
)

func (h Health) String() string {
	switch h {
	case HealthOK:
		return "OK"
	case HealthWarn:
		return "WARN"
	case HealthQuarantine:
		return "QUARANTINE"
	default:
		return "UNKNOWN"
	}
}

// BlockFlag is a bitmask carried in the 11-byte block header.
type BlockFlag uint8

const (
	FlagAnomalyStart BlockFlag = 1 << iota
	FlagAnomalyMid
	FlagAnomalyEnd
	FlagHealthWarn
	FlagHealthQuarantine
)

func (f BlockFlag) Has(flag BlockFlag) bool {
	return f&flag != 0
}

// OuterCodec identifies the per-segment outer compression algorithm.
type OuterCodec uint8

const (
	OuterNone OuterCodec = iota + 1
	OuterZstd
)

func (o OuterCodec) String() string {
	switch o {
	case OuterNone:
		return "None"
	case OuterZstd:
		return "Zstd"
	default:
		return "Unknown"
	}
}

// ContextMode controls whether the shared DICT_VARINT dictionary is active.
type ContextMode uint8

const (
	ContextOff ContextMode = iota
	ContextOn
)

// IntegrityMode controls how the decoder reacts to verification failures.
type IntegrityMode uint8

const (
	IntegrityStrict IntegrityMode = iota
	IntegrityWarn
)

// Resource caps shared by the encoder and decoder. Exceeding MaxBlockItems,
// MaxRLERun or MaxSegmentUncompressed is reported as a LimitExceededError.
const (
	// MaxBlockItems bounds how many items a single block may carry.
	MaxBlockItems = 10000
	// MaxRLERun bounds the run length a single RLE_ZIGZAG/RLE_DoD pair may
	// encode; longer runs are split into multiple pairs.
	MaxRLERun = 2000
	// MaxSegmentUncompressed bounds the uncompressed size of one segment's
	// payload before outer compression.
	MaxSegmentUncompressed = 16 * 1024 * 1024
	// MaxFileDecode is the 2 GiB soft cap on total decoded file size. No
	// option changes it, and the decoder does not check it.
	MaxFileDecode = 2 * 1024 * 1024 * 1024
	// BlockHeaderSize is the fixed size of the 11-byte block header:
	// stream_id(1) + codec_id(1) + n_items(4) + payload_len(4) + flags(1).
	BlockHeaderSize = 11
)
