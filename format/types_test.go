package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStreamIDString(t *testing.T) {
	cases := map[StreamID]string{
		StreamTime:        "TIME",
		StreamValue:       "VALUE",
		StreamMeta:        "META",
		StreamItemID:      "ITEM_ID",
		StreamQuantity:    "QUANTITY",
		StreamSnapshotLen: "SNAPSHOT_LEN",
		StreamID(99):      "UNKNOWN",
	}
	for id, want := range cases {
		assert.Equal(t, want, id.String())
	}
}

func TestCodecIDString(t *testing.T) {
	assert.Equal(t, "NONE", CodecNone.String())
	assert.Equal(t, "FIXED64_LE", CodecFixed64LE.String())
	assert.Equal(t, "UNKNOWN", CodecID(0).String())
}

func TestRegimeString(t *testing.T) {
	assert.Equal(t, "ORDERED", RegimeOrdered.String())
	assert.Equal(t, "CHAOTIC", RegimeChaotic.String())
}

func TestBlockFlagHas(t *testing.T) {
	f := FlagAnomalyStart | FlagHealthWarn
	assert.True(t, f.Has(FlagAnomalyStart))
	assert.True(t, f.Has(FlagHealthWarn))
	assert.False(t, f.Has(FlagAnomalyEnd))
	assert.False(t, f.Has(FlagHealthQuarantine))
}

func TestOuterCodecString(t *testing.T) {
	assert.Equal(t, "None", OuterNone.String())
	assert.Equal(t, "Zstd", OuterZstd.String())
}

func TestResourceCaps(t *testing.T) {
	assert.Equal(t, 10000, MaxBlockItems)
	assert.Equal(t, 2000, MaxRLERun)
	assert.Equal(t, 16*1024*1024, MaxSegmentUncompressed)
	assert.Equal(t, 11, BlockHeaderSize)
}
