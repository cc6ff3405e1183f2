package stream

import (
	"github.com/shiloren/gics/chm"
	"github.com/shiloren/gics/codec"
	"github.com/shiloren/gics/dictctx"
	"github.com/shiloren/gics/format"
	"github.com/shiloren/gics/internal/pool"
	"github.com/shiloren/gics/metrics"
	"github.com/shiloren/gics/routing"
	"github.com/shiloren/gics/section"
)

// streamOrder is the fixed per-segment flush order: TIME, SNAPSHOT_LEN,
// ITEM_ID, VALUE, QUANTITY. META is drained separately since it isn't
// classified or codec-selected.
var streamOrder = []format.StreamID{
	format.StreamTime,
	format.StreamSnapshotLen,
	format.StreamItemID,
	format.StreamValue,
	format.StreamQuantity,
}

var lossyRiskStream = map[format.StreamID]bool{
	format.StreamValue:    true,
	format.StreamQuantity: true,
}

// Builder drains Buffers into encoded, header-framed blocks appended to a
// segment buffer. It owns the shared routing state machine and dictionary
// context for the lifetime of one Encoder.
type Builder struct {
	Router        *routing.Router
	Dict          *dictctx.DictContext
	ContextOn     bool
	ProbeInterval int
	BlockSize     int

	quarantineBlockCount int
}

// NewBuilder creates a Builder with its own Router, ready to drain blocks.
// Callers that want a process-wide shared dictionary pass the same *
// dictctx.DictContext to every Builder they construct; Dict defaults to a
// fresh, unshared context otherwise. blockSize caps how many items go into
// one block; values outside (0, MaxBlockItems] are clamped to
// format.MaxBlockItems.
func NewBuilder(dict *dictctx.DictContext, contextOn bool, probeInterval, blockSize int) *Builder {
	if dict == nil {
		dict = dictctx.New()
	}
	if probeInterval < 1 {
		probeInterval = 4
	}
	if blockSize <= 0 || blockSize > format.MaxBlockItems {
		blockSize = format.MaxBlockItems
	}

	return &Builder{
		Router:        routing.New(),
		Dict:          dict,
		ContextOn:     contextOn,
		ProbeInterval: probeInterval,
		BlockSize:     blockSize,
	}
}

// DrainAll drains every stream buffer in fixed order, writing one block
// per min(buffered, BlockSize)-sized slice into seg (BlockSize is at most
// MAX_BLOCK_ITEMS), then drains any
// pending META entries. It returns the number of blocks written.
func (b *Builder) DrainAll(buf *Buffers, seg *pool.ByteBuffer) int {
	blocks := 0

	for _, sid := range streamOrder {
		values := b.bufferFor(buf, sid)
		for len(*values) > 0 {
			n := len(*values)
			if n > b.BlockSize {
				n = b.BlockSize
			}

			slice := (*values)[:n]
			b.writeBlock(seg, sid, slice)
			*values = (*values)[n:]
			blocks++
		}
	}

	blocks += b.drainMeta(buf, seg)

	return blocks
}

func (b *Builder) bufferFor(buf *Buffers, sid format.StreamID) *[]int64 {
	switch sid {
	case format.StreamTime:
		return &buf.Time
	case format.StreamSnapshotLen:
		return &buf.SnapshotLen
	case format.StreamItemID:
		return &buf.ItemID
	case format.StreamValue:
		return &buf.Value
	case format.StreamQuantity:
		return &buf.Quantity
	default:
		panic("stream: unknown stream id in bufferFor")
	}
}

func (b *Builder) writeBlock(seg *pool.ByteBuffer, sid format.StreamID, slice []int64) {
	m := metrics.Compute(slice)
	regime := metrics.Classify(m)
	anomaly := metrics.AnomalyScore(m)

	flags := b.Router.Observe(anomaly)
	health := b.Router.Health()
	codecID := chm.Select(sid, regime, health, b.ContextOn)

	payload := b.encode(codecID, slice)

	if lossyRiskStream[sid] {
		if health == format.HealthQuarantine {
			b.quarantineBlockCount++
			if b.quarantineBlockCount%b.ProbeInterval == 0 {
				result := chm.Probe(sid, regime, slice)
				flags |= b.Router.Probe(result.Improved)
			}
		} else {
			b.quarantineBlockCount = 0
		}
	}

	header := section.BlockHeader{
		StreamID:   sid,
		CodecID:    codecID,
		NItems:     uint32(len(slice)),
		PayloadLen: uint32(len(payload)),
		Flags:      flags,
	}

	seg.MustWrite(header.Bytes())
	seg.MustWrite(payload)
}

func (b *Builder) encode(codecID format.CodecID, slice []int64) []byte {
	if codecID == format.CodecDictVarint {
		return codec.EncodeDictVarint(nil, slice, b.Dict)
	}

	return codec.Get(codecID).Encode(nil, slice)
}

// drainMeta emits one CodecNone block per pending, non-empty META entry.
// META bypasses regime classification entirely: it's an opaque
// length-prefixed blob, so there's no statistical structure to exploit.
func (b *Builder) drainMeta(buf *Buffers, seg *pool.ByteBuffer) int {
	written := 0
	for _, blob := range buf.Meta {
		if len(blob) == 0 {
			continue
		}

		header := section.BlockHeader{
			StreamID:   format.StreamMeta,
			CodecID:    format.CodecNone,
			NItems:     1,
			PayloadLen: uint32(len(blob)),
		}
		seg.MustWrite(header.Bytes())
		seg.MustWrite(blob)
		written++
	}
	buf.Meta = buf.Meta[:0]

	return written
}
