package chm

import (
	"math"
	"testing"

	"github.com/shiloren/gics/format"
	"github.com/stretchr/testify/assert"
)

func TestSelectMatchesTable(t *testing.T) {
	cases := []struct {
		stream format.StreamID
		regime format.Regime
		want   format.CodecID
	}{
		{format.StreamTime, format.RegimeOrdered, format.CodecDoDVarint},
		{format.StreamTime, format.RegimeMixed, format.CodecRLEDoD},
		{format.StreamTime, format.RegimeChaotic, format.CodecVarintDelta},
		{format.StreamSnapshotLen, format.RegimeOrdered, format.CodecRLEZigzag},
		{format.StreamSnapshotLen, format.RegimeChaotic, format.CodecVarintDelta},
		{format.StreamItemID, format.RegimeOrdered, format.CodecVarintDelta},
		{format.StreamItemID, format.RegimeChaotic, format.CodecNone},
		{format.StreamValue, format.RegimeMixed, format.CodecBitpackDelta},
		{format.StreamValue, format.RegimeChaotic, format.CodecNone},
		{format.StreamQuantity, format.RegimeOrdered, format.CodecRLEZigzag},
		{format.StreamQuantity, format.RegimeMixed, format.CodecVarintDelta},
		{format.StreamQuantity, format.RegimeChaotic, format.CodecNone},
	}

	for _, c := range cases {
		got := Select(c.stream, c.regime, format.HealthOK, false)
		assert.Equal(t, c.want, got, "%v/%v", c.stream, c.regime)
	}
}

func TestSelectContextOnSubstitutesDictVarint(t *testing.T) {
	assert.Equal(t, format.CodecDictVarint, Select(format.StreamValue, format.RegimeOrdered, format.HealthOK, true))
	assert.Equal(t, format.CodecDictVarint, Select(format.StreamItemID, format.RegimeChaotic, format.HealthOK, true))
	// VALUE/MIXED and ITEM_ID/ORDERED are unaffected by contextOn.
	assert.Equal(t, format.CodecBitpackDelta, Select(format.StreamValue, format.RegimeMixed, format.HealthOK, true))
	assert.Equal(t, format.CodecVarintDelta, Select(format.StreamItemID, format.RegimeOrdered, format.HealthOK, true))
}

func TestQuarantineForcesFixed64OnLossyRiskStreams(t *testing.T) {
	assert.Equal(t, format.CodecFixed64LE, Select(format.StreamValue, format.RegimeOrdered, format.HealthQuarantine, false))
	assert.Equal(t, format.CodecFixed64LE, Select(format.StreamQuantity, format.RegimeMixed, format.HealthQuarantine, true))
}

func TestQuarantineDoesNotAffectNonLossyStreams(t *testing.T) {
	got := Select(format.StreamTime, format.RegimeOrdered, format.HealthQuarantine, false)
	assert.Equal(t, format.CodecDoDVarint, got)
}

func TestProbeImprovedOnCompressibleData(t *testing.T) {
	values := make([]int64, 50)
	for i := range values {
		values[i] = 10000
	}

	r := Probe(format.StreamValue, format.RegimeOrdered, values)
	assert.True(t, r.Improved)
	assert.Less(t, r.NormalSize, r.FallbackSize)
}

func TestProbeNotImprovedOnNoisyData(t *testing.T) {
	// Every value needs the full 10-byte zigzag varint, so NONE can never
	// beat FIXED64_LE's flat 8 bytes/value by the required 25% margin.
	values := []int64{
		math.MaxInt64, math.MinInt64, math.MaxInt64 - 1, math.MinInt64 + 1,
		math.MaxInt64 - 7, math.MinInt64 + 9, math.MaxInt64 - 123,
	}

	r := Probe(format.StreamValue, format.RegimeChaotic, values)
	assert.False(t, r.Improved)
}
