// Package routing implements the anomaly routing state machine: OK, WARN,
// and QUARANTINE transitions driven by each block's anomaly score, plus
// the block health flags that mirror the current state in the wire
// format.
//
// A single Router instance is shared across every block the encoder
// drains, regardless of which stream produced it — there is exactly one
// state machine per encoder, not one per stream; the quarantine override
// in chm.Select is what narrows QUARANTINE's effect to the lossy-risk
// streams.
package routing

import "github.com/shiloren/gics/format"

// Router tracks OK -> WARN -> QUARANTINE -> OK transitions across a
// sequence of blocks. It is not safe for concurrent use; the encoder
// drives it single-threaded.
type Router struct {
	health           format.Health
	consecutiveWarn  int
	consecutiveProbe int
}

// New creates a Router starting in the OK state.
func New() *Router {
	return &Router{health: format.HealthOK}
}

// Health returns the router's current state.
func (r *Router) Health() format.Health {
	return r.health
}

// Observe feeds one block's anomaly score into the state machine and
// returns the flags to stamp on that block's header. It must be called
// exactly once per classified stream block, in stream-drain order —
// including blocks on streams chm.Select doesn't force FIXED64_LE for,
// since the anomaly signal is shared. META blocks are not observed.
func (r *Router) Observe(anomalyScore float64) format.BlockFlag {
	prev := r.health
	var flags format.BlockFlag

	switch prev {
	case format.HealthOK:
		if anomalyScore > 0.5 {
			r.consecutiveWarn = 1
			r.health = format.HealthWarn
		}
	case format.HealthWarn:
		if anomalyScore > 0.5 {
			r.consecutiveWarn++
			if r.consecutiveWarn >= 2 || anomalyScore > 0.85 {
				r.health = format.HealthQuarantine
			}
		} else {
			r.consecutiveWarn = 0
			r.health = format.HealthOK
		}
	case format.HealthQuarantine:
		// Health stays QUARANTINE until two consecutive successful
		// probes; Probe below drives that transition explicitly since
		// probes only run every probeInterval blocks, not every block.
	}

	if prev == format.HealthOK && r.health != format.HealthOK {
		flags |= format.FlagAnomalyStart
	}
	if r.health == format.HealthQuarantine {
		flags |= format.FlagAnomalyMid
	}

	switch r.health {
	case format.HealthWarn:
		flags |= format.FlagHealthWarn
	case format.HealthQuarantine:
		flags |= format.FlagHealthQuarantine
	}

	return flags
}

// Probe reports the outcome of one quarantine-recovery probe. After two
// consecutive improved probes it transitions QUARANTINE -> OK and returns
// the ANOMALY_END flag for the block the probe ran against; otherwise it
// returns 0 (the block keeps its ANOMALY_MID/HEALTH_QUAR flags from
// Observe).
func (r *Router) Probe(improved bool) format.BlockFlag {
	if r.health != format.HealthQuarantine {
		r.consecutiveProbe = 0
		return 0
	}

	if !improved {
		r.consecutiveProbe = 0
		return 0
	}

	r.consecutiveProbe++
	if r.consecutiveProbe < 2 {
		return 0
	}

	r.consecutiveProbe = 0
	r.consecutiveWarn = 0
	r.health = format.HealthOK

	return format.FlagAnomalyEnd
}
