// Package metrics computes the per-block statistics the codec selector and
// routing state machine key off of, and classifies a block into one of
// three regimes from those statistics in a single deterministic pass.
package metrics

import (
	"sort"

	"github.com/shiloren/gics/format"
)

// Block holds the statistics computed over one stream-block's values.
type Block struct {
	UniqueRatio       float64
	ZeroRatio         float64
	MeanAbsDelta      float64
	P90AbsDelta       float64
	SignFlipRate      float64
	MonotonicityScore float64
	OutlierScore      float64
	UniqueDeltaRatio  float64
	UniqueDoDRatio    float64
	DoDZeroRatio      float64
	MeanAbsDoD        float64
	P90AbsDoD         float64
}

// Compute derives Block statistics from values in a single pass (plus one
// sort each for the p90 delta and dod percentiles).
func Compute(values []int64) Block {
	n := len(values)
	if n == 0 {
		return Block{}
	}

	var m Block

	uniq := make(map[int64]struct{}, n)
	zeroCount := 0
	for _, v := range values {
		uniq[v] = struct{}{}
		if v == 0 {
			zeroCount++
		}
	}
	m.UniqueRatio = float64(len(uniq)) / float64(n)
	m.ZeroRatio = float64(zeroCount) / float64(n)

	if n < 2 {
		return m
	}

	deltas := make([]int64, n-1)
	for i := 1; i < n; i++ {
		deltas[i-1] = values[i] - values[i-1]
	}
	m.MeanAbsDelta, m.P90AbsDelta = absStats(deltas)
	m.SignFlipRate = signFlipRate(deltas)
	m.MonotonicityScore = monotonicityScore(deltas)
	m.UniqueDeltaRatio = uniqueRatio(deltas)
	m.OutlierScore = outlierScore(deltas, m.MeanAbsDelta)

	if n < 3 {
		return m
	}

	dods := make([]int64, n-2)
	for i := 2; i < n; i++ {
		dods[i-2] = deltas[i-1] - deltas[i-2]
	}
	m.MeanAbsDoD, m.P90AbsDoD = absStats(dods)
	m.UniqueDoDRatio = uniqueRatio(dods)

	dodZero := 0
	for _, d := range dods {
		if d == 0 {
			dodZero++
		}
	}
	m.DoDZeroRatio = float64(dodZero) / float64(len(dods))

	return m
}

func absStats(vs []int64) (mean, p90 float64) {
	if len(vs) == 0 {
		return 0, 0
	}

	abs := make([]float64, len(vs))
	var sum float64
	for i, v := range vs {
		a := float64(v)
		if a < 0 {
			a = -a
		}
		abs[i] = a
		sum += a
	}
	mean = sum / float64(len(abs))

	sorted := append([]float64(nil), abs...)
	sort.Float64s(sorted)
	idx := int(float64(len(sorted)-1) * 0.9)
	p90 = sorted[idx]

	return mean, p90
}

func signFlipRate(deltas []int64) float64 {
	if len(deltas) < 2 {
		return 0
	}

	flips := 0
	for i := 1; i < len(deltas); i++ {
		if (deltas[i] > 0 && deltas[i-1] < 0) || (deltas[i] < 0 && deltas[i-1] > 0) {
			flips++
		}
	}

	return float64(flips) / float64(len(deltas)-1)
}

// monotonicityScore is the fraction of deltas whose sign matches the
// majority sign direction (non-negative vs negative), 1.0 for a strictly
// monotonic series.
func monotonicityScore(deltas []int64) float64 {
	if len(deltas) == 0 {
		return 0
	}

	nonNeg := 0
	for _, d := range deltas {
		if d >= 0 {
			nonNeg++
		}
	}

	agree := nonNeg
	if len(deltas)-nonNeg > agree {
		agree = len(deltas) - nonNeg
	}

	return float64(agree) / float64(len(deltas))
}

func uniqueRatio(vs []int64) float64 {
	if len(vs) == 0 {
		return 0
	}

	uniq := make(map[int64]struct{}, len(vs))
	for _, v := range vs {
		uniq[v] = struct{}{}
	}

	return float64(len(uniq)) / float64(len(vs))
}

// outlierScore is the fraction of deltas whose absolute value exceeds 3x
// the mean absolute delta, a simple, deterministic tail-weight measure.
func outlierScore(deltas []int64, meanAbs float64) float64 {
	if len(deltas) == 0 || meanAbs == 0 {
		return 0
	}

	threshold := meanAbs * 3
	count := 0
	for _, d := range deltas {
		a := float64(d)
		if a < 0 {
			a = -a
		}
		if a > threshold {
			count++
		}
	}

	return float64(count) / float64(len(deltas))
}

// Classify maps a Block's statistics to a regime. Tie-breaks resolve in
// the order the conditions are listed in: ORDERED is checked before
// CHAOTIC, which is checked before the MIXED default.
func Classify(m Block) format.Regime {
	const twoPow32 = 1 << 32

	if m.MonotonicityScore > 0.9 || m.UniqueDeltaRatio < 0.05 {
		return format.RegimeOrdered
	}
	if m.SignFlipRate > 0.45 || m.P90AbsDelta > twoPow32 {
		return format.RegimeChaotic
	}

	return format.RegimeMixed
}

// AnomalyScore is the routing state machine's per-block scalar input:
// max(sign_flip_rate, outlier_score, clamp(p90_abs_delta/2^24, 0, 1)).
func AnomalyScore(m Block) float64 {
	const twoPow24 = 1 << 24

	clamped := m.P90AbsDelta / twoPow24
	if clamped > 1 {
		clamped = 1
	}
	if clamped < 0 {
		clamped = 0
	}

	score := m.SignFlipRate
	if m.OutlierScore > score {
		score = m.OutlierScore
	}
	if clamped > score {
		score = clamped
	}

	return score
}
