// Package chm implements the Compression Heuristic Module: a pure
// (stream_id, regime) -> codec_id table lookup, overridden during
// QUARANTINE for lossy-risk streams, plus the probe comparison used to
// decide whether a quarantined stream is ready to return to OK.
package chm

import (
	"github.com/shiloren/gics/codec"
	"github.com/shiloren/gics/format"
)

// table is the per-stream, per-regime codec selection: stream x regime -> codec.
var table = map[format.StreamID][3]format.CodecID{
	format.StreamTime: {
		format.RegimeOrdered: format.CodecDoDVarint,
		format.RegimeMixed:   format.CodecRLEDoD,
		format.RegimeChaotic: format.CodecVarintDelta,
	},
	format.StreamSnapshotLen: {
		format.RegimeOrdered: format.CodecRLEZigzag,
		format.RegimeMixed:   format.CodecRLEZigzag,
		format.RegimeChaotic: format.CodecVarintDelta,
	},
	format.StreamItemID: {
		format.RegimeOrdered: format.CodecVarintDelta,
		format.RegimeMixed:   format.CodecVarintDelta,
		format.RegimeChaotic: format.CodecNone, // DictVarint substituted by Select when ctx is on
	},
	format.StreamValue: {
		format.RegimeOrdered: format.CodecBitpackDelta, // DictVarint substituted by Select when ctx is on
		format.RegimeMixed:   format.CodecBitpackDelta,
		format.RegimeChaotic: format.CodecNone,
	},
	format.StreamQuantity: {
		format.RegimeOrdered: format.CodecRLEZigzag,
		format.RegimeMixed:   format.CodecVarintDelta,
		format.RegimeChaotic: format.CodecNone,
	},
}

// lossyRisk is the set of streams QUARANTINE forces onto FIXED64_LE:
// VALUE and QUANTITY carry the fields a misbehaving codec could corrupt
// silently, so quarantine drops them straight to the safe fixed-width
// fallback rather than trusting an adaptive codec.
var lossyRisk = map[format.StreamID]bool{
	format.StreamValue:    true,
	format.StreamQuantity: true,
}

// Select returns the codec id the table prescribes for (streamID, regime),
// with two overrides: QUARANTINE forces FIXED64_LE on lossy-risk streams,
// and DICT_VARINT is substituted for VALUE's ORDERED row and ITEM_ID's
// CHAOTIC row when contextOn is true, matching the "(if ctx on)" table
// annotations.
func Select(streamID format.StreamID, regime format.Regime, health format.Health, contextOn bool) format.CodecID {
	if health == format.HealthQuarantine && lossyRisk[streamID] {
		return format.CodecFixed64LE
	}

	row, ok := table[streamID]
	if !ok {
		return format.CodecNone
	}
	id := row[regime]

	if contextOn {
		switch {
		case streamID == format.StreamValue && regime == format.RegimeOrdered:
			return format.CodecDictVarint
		case streamID == format.StreamItemID && regime == format.RegimeChaotic:
			return format.CodecDictVarint
		}
	}

	return id
}

// ProbeResult is the outcome of running the table's normal codec on a
// quarantined block as a side channel, compared against FIXED64_LE.
type ProbeResult struct {
	NormalSize   int
	FallbackSize int
	Improved     bool // normal codec succeeded and beat fallback by >=25%
}

// Probe runs the regime-indicated codec for streamID (ignoring the
// quarantine override) against values, and compares its encoded size to
// FIXED64_LE's. Improved is true when the normal codec is both available
// and at least 25% smaller, which is what the routing state machine needs
// to count consecutive successful probes.
func Probe(streamID format.StreamID, regime format.Regime, values []int64) ProbeResult {
	fallback := codec.Get(format.CodecFixed64LE)
	fallbackBytes := fallback.Encode(nil, values)

	row, ok := table[streamID]
	if !ok {
		return ProbeResult{FallbackSize: len(fallbackBytes)}
	}

	normalID := row[regime]
	normal := codec.Get(normalID)
	if normal == nil || !normal.CanEncode(values) {
		return ProbeResult{FallbackSize: len(fallbackBytes)}
	}

	normalBytes := normal.Encode(nil, values)
	improved := float64(len(normalBytes)) <= float64(len(fallbackBytes))*0.75

	return ProbeResult{
		NormalSize:   len(normalBytes),
		FallbackSize: len(fallbackBytes),
		Improved:     improved,
	}
}
