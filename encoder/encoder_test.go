package encoder

import (
	"math/rand"
	"testing"

	"github.com/shiloren/gics/decoder"
	"github.com/shiloren/gics/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeSnapshot(ts int64, itemIDs []uint32, price, qty int64) snapshot.Snapshot {
	items := make(map[uint32]snapshot.Item, len(itemIDs))
	for i, id := range itemIDs {
		items[id] = snapshot.Item{Price: price + int64(i), Quantity: qty + int64(i)}
	}
	return snapshot.Snapshot{Timestamp: ts, Items: items}
}

func TestEncodeDecodeRoundTripSmall(t *testing.T) {
	enc, err := New()
	require.NoError(t, err)

	snapshots := []snapshot.Snapshot{
		makeSnapshot(1000, []uint32{1, 2, 3}, 100, 10),
		makeSnapshot(1001, []uint32{2, 3, 4}, 200, 20),
		makeSnapshot(1002, []uint32{1}, 300, 30),
	}
	for _, s := range snapshots {
		require.NoError(t, enc.AddSnapshot(s))
	}

	data, err := enc.Finish()
	require.NoError(t, err)

	dec, err := decoder.New(data)
	require.NoError(t, err)
	assert.True(t, dec.Verify())

	got, err := dec.UnpackAll()
	require.NoError(t, err)
	require.Len(t, got, len(snapshots))
	for i, s := range snapshots {
		assert.Equal(t, s.Timestamp, got[i].Timestamp)
		assert.Equal(t, s.Items, got[i].Items)
	}
}

func TestEncodeIsDeterministicAcrossMapIterationOrder(t *testing.T) {
	build := func() []byte {
		enc, err := New()
		require.NoError(t, err)

		rng := rand.New(rand.NewSource(42))
		for i := 0; i < 50; i++ {
			ids := make([]uint32, 0, 20)
			for id := uint32(0); id < 20; id++ {
				ids = append(ids, id)
			}
			rng.Shuffle(len(ids), func(a, b int) { ids[a], ids[b] = ids[b], ids[a] })
			require.NoError(t, enc.AddSnapshot(makeSnapshot(int64(i), ids, int64(i)*7, int64(i)*3)))
		}

		out, err := enc.Finish()
		require.NoError(t, err)
		return out
	}

	first := build()
	second := build()
	assert.Equal(t, first, second)
}

func TestEncodeDecodeRoundTripAcrossMultipleSegments(t *testing.T) {
	enc, err := New(WithSegmentSizeLimit(512))
	require.NoError(t, err)

	var snapshots []snapshot.Snapshot
	for i := 0; i < 200; i++ {
		s := makeSnapshot(int64(i), []uint32{uint32(i % 5), uint32(i%5 + 1)}, int64(i), int64(i*2))
		snapshots = append(snapshots, s)
		require.NoError(t, enc.AddSnapshot(s))
	}

	data, err := enc.Finish()
	require.NoError(t, err)

	dec, err := decoder.New(data)
	require.NoError(t, err)
	got, err := dec.UnpackAll()
	require.NoError(t, err)
	require.Len(t, got, len(snapshots))
	for i, s := range snapshots {
		assert.Equal(t, s.Items, got[i].Items)
	}
}

func TestEncodeDecodeRoundTripWithPassword(t *testing.T) {
	enc, err := New(WithPassword("correct horse battery staple"))
	require.NoError(t, err)

	s := makeSnapshot(1, []uint32{1, 2}, 10, 1)
	require.NoError(t, enc.AddSnapshot(s))
	data, err := enc.Finish()
	require.NoError(t, err)

	dec, err := decoder.New(data, decoder.WithPassword("correct horse battery staple"))
	require.NoError(t, err)
	assert.True(t, dec.Verify())

	got, err := dec.UnpackAll()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, s.Items, got[0].Items)
}

func TestDecodeWithWrongPasswordFailsBeforeProducingPlaintext(t *testing.T) {
	enc, err := New(WithPassword("the-real-password"))
	require.NoError(t, err)
	require.NoError(t, enc.AddSnapshot(makeSnapshot(1, []uint32{1}, 1, 1)))
	data, err := enc.Finish()
	require.NoError(t, err)

	dec, err := decoder.New(data, decoder.WithPassword("not-the-password"))
	require.NoError(t, err)
	assert.False(t, dec.Verify())

	got, err := dec.UnpackAll()
	require.Error(t, err)
	assert.Nil(t, got)
}

func TestDecodeDetectsTamperedByte(t *testing.T) {
	enc, err := New()
	require.NoError(t, err)
	require.NoError(t, enc.AddSnapshot(makeSnapshot(1, []uint32{1, 2, 3}, 10, 1)))
	data, err := enc.Finish()
	require.NoError(t, err)

	tampered := make([]byte, len(data))
	copy(tampered, data)
	tampered[len(tampered)/2] ^= 0xFF

	dec, err := decoder.New(tampered)
	require.NoError(t, err)
	assert.False(t, dec.Verify())

	_, err = dec.UnpackAll()
	assert.Error(t, err)
}

func TestDecodeDetectsTruncatedStream(t *testing.T) {
	enc, err := New()
	require.NoError(t, err)
	require.NoError(t, enc.AddSnapshot(makeSnapshot(1, []uint32{1, 2, 3}, 10, 1)))
	data, err := enc.Finish()
	require.NoError(t, err)

	truncated := data[:len(data)-10]

	dec, err := decoder.New(truncated)
	require.NoError(t, err)
	assert.False(t, dec.Verify())

	_, err = dec.UnpackAll()
	assert.Error(t, err)
}

func TestQueryRangeFiltersByTimestamp(t *testing.T) {
	enc, err := New()
	require.NoError(t, err)
	for i := int64(0); i < 10; i++ {
		require.NoError(t, enc.AddSnapshot(makeSnapshot(i, []uint32{1}, i, i)))
	}
	data, err := enc.Finish()
	require.NoError(t, err)

	dec, err := decoder.New(data)
	require.NoError(t, err)

	got, err := dec.QueryRange(3, 6)
	require.NoError(t, err)
	require.Len(t, got, 4)
	for _, s := range got {
		assert.GreaterOrEqual(t, s.Timestamp, int64(3))
		assert.LessOrEqual(t, s.Timestamp, int64(6))
	}
}

func TestPresetsConfigureCompressionLevelAndBlockSize(t *testing.T) {
	enc, err := New(Balanced()...)
	require.NoError(t, err)
	assert.Equal(t, 3, enc.opts.CompressionLevel)
	assert.Equal(t, 1000, enc.opts.BlockSize)

	enc, err = New(MaxRatio()...)
	require.NoError(t, err)
	assert.Equal(t, 9, enc.opts.CompressionLevel)
	assert.Equal(t, 4000, enc.opts.BlockSize)

	enc, err = New(LowLatency()...)
	require.NoError(t, err)
	assert.Equal(t, 1, enc.opts.CompressionLevel)
	assert.Equal(t, 512, enc.opts.BlockSize)
}

func TestFinishTwiceFails(t *testing.T) {
	enc, err := New()
	require.NoError(t, err)
	require.NoError(t, enc.AddSnapshot(makeSnapshot(1, []uint32{1}, 1, 1)))

	_, err = enc.Finish()
	require.NoError(t, err)

	_, err = enc.Finish()
	assert.Error(t, err)
}

func TestAddSnapshotAfterFinishFails(t *testing.T) {
	enc, err := New()
	require.NoError(t, err)
	_, err = enc.Finish()
	require.NoError(t, err)

	err = enc.AddSnapshot(makeSnapshot(1, []uint32{1}, 1, 1))
	assert.Error(t, err)
}

func TestEncoderPoisonsAfterAddSnapshotError(t *testing.T) {
	enc, err := New()
	require.NoError(t, err)
	require.NoError(t, enc.AddSnapshot(makeSnapshot(1, []uint32{1}, 1, 1)))

	_, err = enc.Finish()
	require.NoError(t, err)

	firstErr := enc.AddSnapshot(makeSnapshot(2, []uint32{1}, 1, 1))
	require.Error(t, firstErr)

	secondErr := enc.Flush()
	assert.Error(t, secondErr)

	_, thirdErr := enc.Finish()
	assert.Error(t, thirdErr)
}

func TestRoundTripSurvivesNoisyBlocksAfterStableRun(t *testing.T) {
	enc, err := New(WithBlockSize(64))
	require.NoError(t, err)

	for i := 0; i < 64; i++ {
		require.NoError(t, enc.AddSnapshot(makeSnapshot(int64(i), []uint32{1}, int64(i), 1)))
	}
	require.NoError(t, enc.Flush())

	rng := rand.New(rand.NewSource(7))
	for block := 0; block < 6; block++ {
		for i := 0; i < 64; i++ {
			v := rng.Int63()
			if rng.Intn(2) == 0 {
				v = -v
			}
			require.NoError(t, enc.AddSnapshot(makeSnapshot(int64(1000+block*64+i), []uint32{1}, v, 1)))
		}
		require.NoError(t, enc.Flush())
	}

	data, err := enc.Finish()
	require.NoError(t, err)

	dec, err := decoder.New(data)
	require.NoError(t, err)
	assert.True(t, dec.Verify())

	got, err := dec.UnpackAll()
	require.NoError(t, err)
	assert.NotEmpty(t, got)
}
