// Package score implements the weighted ranking function of §4.4: lower
// score is better. Normalization ceilings, weights, and penalties are the
// §6 tunable constants.
package score

import (
	"sort"

	"github.com/veilrelay/autoselect"
)

// Weights bundles the §4.4/§6 scoring constants so callers can vary them
// without touching the scorer's arithmetic.
type Weights struct {
	RTT        float64
	Jitter     float64
	Throughput float64
	// Reserved is carried for documentation only: the original "loss"
	// weight has no measured signal behind it (§9 Open Question), so it
	// never contributes to Score. Kept as a field so a future loss probe
	// has somewhere to plug in without renaming this struct.
	Reserved float64

	FailurePenalty   float64
	StalenessDivisor float64 // milliseconds
	StalenessCap     float64
}

// DefaultWeights returns the exact §6 constants.
func DefaultWeights() Weights {
	return Weights{
		RTT:        0.35,
		Jitter:     0.15,
		Throughput: 0.25,
		Reserved:   0.25,

		FailurePenalty:   10000,
		StalenessDivisor: 120000,
		StalenessCap:     10000,
	}
}

// Candidate is one endpoint's input to the ranking function: either live
// probe values (from a just-completed probe) or, on the cached path,
// values sourced entirely from history.
type Candidate struct {
	Identifier string

	// LiveRTTMs, LiveJitterMs, LiveThroughputKbps use
	// autoselect.UninitializedAverage (-1) to mean "no live sample;
	// fall back to history" per §4.4 step 1.
	LiveRTTMs          float64
	LiveJitterMs       float64
	LiveThroughputKbps float64

	ProbeSucceeded bool

	History autoselect.HistoricalMetrics
	NowMs   int64
}

// Score computes the §4.4 weighted score for c; lower is better.
func Score(c Candidate, w Weights) float64 {
	rtt := source(c.LiveRTTMs, c.History.AverageRTTMs)
	jitter := source(c.LiveJitterMs, c.History.AverageJitterMs)
	throughput := source(c.LiveThroughputKbps, c.History.AverageThroughputKb)

	nRTT := clamp(rtt/3000, 0, 1)
	nJitter := clamp(jitter/500, 0, 1)
	nThroughput := 1 - clamp(throughput/10000, 0, 1)

	total := nRTT*w.RTT + nJitter*w.Jitter + nThroughput*w.Throughput

	if !c.ProbeSucceeded || rtt == autoselect.UninitializedAverage {
		total += w.FailurePenalty
	}

	total += c.History.FailureRate() * w.FailurePenalty

	ageWindows := float64(c.NowMs-c.History.LastUpdateTimeMs) / w.StalenessDivisor
	total += min(ageWindows, w.StalenessCap)

	return total
}

func source(live, historical float64) float64 {
	if live != autoselect.UninitializedAverage {
		return live
	}
	return historical
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// Ranked returns a copy of candidates sorted by ascending score, breaking
// ties by lower RTT source value then by identifier lexicographic order
// (§4.4). The scores themselves are not returned.
func Ranked(candidates []Candidate, w Weights) []Candidate {
	scored := make([]Candidate, len(candidates))
	copy(scored, candidates)

	scores := make(map[string]float64, len(candidates))
	rtts := make(map[string]float64, len(candidates))
	for _, c := range scored {
		scores[c.Identifier] = Score(c, w)
		rtts[c.Identifier] = source(c.LiveRTTMs, c.History.AverageRTTMs)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		sa, sb := scores[a.Identifier], scores[b.Identifier]
		if sa != sb {
			return sa < sb
		}
		ra, rb := rtts[a.Identifier], rtts[b.Identifier]
		if ra != rb {
			return ra < rb
		}
		return a.Identifier < b.Identifier
	})
	return scored
}

// Best returns the winning identifier among candidates, or ("", false) if
// candidates is empty (§4.5 step 5 / cached-path equivalent).
func Best(candidates []Candidate, w Weights) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	ranked := Ranked(candidates, w)
	return ranked[0].Identifier, true
}
