package stream

import (
	"math"
	"testing"

	"github.com/shiloren/gics/dictctx"
	"github.com/shiloren/gics/format"
	"github.com/shiloren/gics/internal/pool"
	"github.com/shiloren/gics/section"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sectionFirstBlockHeaderForStream scans a segment's block headers and
// returns the first one matching sid, skipping over its payload bytes.
func sectionFirstBlockHeaderForStream(data []byte, sid format.StreamID) (section.BlockHeader, error) {
	off := 0
	for off < len(data) {
		header, err := section.ParseBlockHeader(data[off:])
		if err != nil {
			return section.BlockHeader{}, err
		}
		off += format.BlockHeaderSize + int(header.PayloadLen)
		if header.StreamID == sid {
			return header, nil
		}
	}
	return section.BlockHeader{}, assertNotFoundErr
}

var assertNotFoundErr = errNotFound("no block found for stream")

type errNotFound string

func (e errNotFound) Error() string { return string(e) }

func buildAndDecode(t *testing.T, buf *Buffers, contextOn bool) *Buffers {
	t.Helper()

	dict := dictctx.New()
	b := NewBuilder(dict, contextOn, 4, 0)
	seg := pool.NewByteBuffer(1024)

	b.DrainAll(buf, seg)

	decodeDict := dict
	if !contextOn {
		decodeDict = dictctx.New()
	}
	got, err := DecodeSegment(seg.Bytes(), decodeDict)
	require.NoError(t, err)

	return got
}

func TestDrainAllRoundTripsRegularSeries(t *testing.T) {
	var buf Buffers
	for i := 0; i < 50; i++ {
		ts := int64(1_700_000_000 + i*60)
		buf.AddSnapshot(ts, []uint32{1, 2}, []int64{10_000 + int64(i), 20_000 - int64(i)}, []int64{1, 2}, nil)
	}

	got := buildAndDecode(t, &buf, false)

	assert.Equal(t, buf.Time, got.Time)
	assert.Equal(t, buf.SnapshotLen, got.SnapshotLen)
	assert.Equal(t, buf.ItemID, got.ItemID)
	assert.Equal(t, buf.Value, got.Value)
	assert.Equal(t, buf.Quantity, got.Quantity)
}

func TestDrainAllRoundTripsChaoticSeries(t *testing.T) {
	var buf Buffers
	seed := int64(1)
	for i := 0; i < 80; i++ {
		seed = seed*6364136223846793005 + 1442695040888963407
		val := seed % 1_000_000_000
		buf.AddSnapshot(int64(i), []uint32{uint32(i)}, []int64{val}, []int64{val % 17}, nil)
	}

	got := buildAndDecode(t, &buf, false)

	assert.Equal(t, buf.Value, got.Value)
	assert.Equal(t, buf.Quantity, got.Quantity)
	assert.Equal(t, buf.ItemID, got.ItemID)
}

func TestDrainAllRoundTripsAcrossMultipleBlocks(t *testing.T) {
	var buf Buffers
	n := format.MaxBlockItems*2 + 37
	for i := 0; i < n; i++ {
		buf.AddSnapshot(int64(i), []uint32{uint32(i % 5)}, []int64{int64(i)}, []int64{1}, nil)
	}

	got := buildAndDecode(t, &buf, false)

	assert.Equal(t, buf.Time, got.Time)
	assert.Equal(t, buf.ItemID, got.ItemID)
}

func TestDrainAllRoundTripsMetaBlobs(t *testing.T) {
	var buf Buffers
	buf.AddSnapshot(1, []uint32{1}, []int64{1}, []int64{1}, []byte("hello"))
	buf.AddSnapshot(2, []uint32{2}, []int64{2}, []int64{2}, nil)
	buf.AddSnapshot(3, []uint32{3}, []int64{3}, []int64{3}, []byte("world"))

	dict := dictctx.New()
	b := NewBuilder(dict, false, 4, 0)
	seg := pool.NewByteBuffer(1024)
	b.DrainAll(&buf, seg)

	got, err := DecodeSegment(seg.Bytes(), dict)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("hello"), []byte("world")}, got.Meta)
}

func TestDrainAllWithContextOnSharesDictAcrossStreams(t *testing.T) {
	var buf Buffers
	for i := 0; i < 30; i++ {
		buf.AddSnapshot(int64(i), []uint32{1, 2, 3}, []int64{111, 222, 333}, []int64{1, 1, 1}, nil)
	}

	got := buildAndDecode(t, &buf, true)

	assert.Equal(t, buf.ItemID, got.ItemID)
	assert.Equal(t, buf.Value, got.Value)
}

func TestQuarantineForcesFixed64AndFlagsHealth(t *testing.T) {
	dict := dictctx.New()
	b := NewBuilder(dict, false, 4, 0)
	seg := pool.NewByteBuffer(4096)

	chaoticValue := func(i int) int64 {
		if i%2 == 0 {
			return math.MaxInt64 - int64(i)
		}
		return math.MinInt64 + int64(i)
	}

	var buf Buffers
	sawQuarantineFlag := false
	for block := 0; block < 6; block++ {
		buf = Buffers{}
		for i := 0; i < 20; i++ {
			buf.AddSnapshot(int64(i), []uint32{1}, []int64{chaoticValue(i)}, []int64{chaoticValue(i)}, nil)
		}
		seg.Reset()
		b.DrainAll(&buf, seg)

		header, err := sectionFirstBlockHeaderForStream(seg.Bytes(), format.StreamValue)
		require.NoError(t, err)
		if header.Flags.Has(format.FlagHealthQuarantine) {
			sawQuarantineFlag = true
			assert.Equal(t, format.CodecFixed64LE, header.CodecID)
		}
	}

	assert.True(t, sawQuarantineFlag, "expected VALUE stream to reach quarantine under sustained chaotic anomaly")
}

func TestEmptyBuffersProduceEmptySegment(t *testing.T) {
	var buf Buffers
	dict := dictctx.New()
	b := NewBuilder(dict, false, 4, 0)
	seg := pool.NewByteBuffer(16)

	blocks := b.DrainAll(&buf, seg)
	assert.Equal(t, 0, blocks)
	assert.Equal(t, 0, seg.Len())
}
