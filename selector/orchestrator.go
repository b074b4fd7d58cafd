// Package selector implements the two selection pipelines of §4.5: the
// full-probe autoSelectBestProxy and the cached getBestAvailableProxy.
// It owns the process-wide breaker map for the lifetime of the
// Orchestrator and never parallelizes probing within one run (§5).
package selector

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/veilrelay/autoselect"
	"github.com/veilrelay/autoselect/breaker"
	"github.com/veilrelay/autoselect/internal/check"
	"github.com/veilrelay/autoselect/internal/telemetry"
	"github.com/veilrelay/autoselect/metrics"
	"github.com/veilrelay/autoselect/score"
	"go.opentelemetry.io/otel/trace"
)

// Clock abstracts time.Now for deterministic testing, the same
// indirection the rest of the pack uses for its timers and breakers.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// Tunables is the subset of §6 constants the orchestrator needs; the
// rest live in score.Weights.
type Tunables struct {
	TCPPingRepetitions int
	ThroughputProbeKB  int
	FailureThreshold   int
	OpenWindow         time.Duration
	HalfOpenGap        time.Duration
	Weights            score.Weights
}

// DefaultTunables returns the exact §6 constants.
func DefaultTunables() Tunables {
	return Tunables{
		TCPPingRepetitions: 3,
		ThroughputProbeKB:  256,
		FailureThreshold:   3,
		OpenWindow:         60 * time.Second,
		HalfOpenGap:        10 * time.Second,
		Weights:            score.DefaultWeights(),
	}
}

// Orchestrator is the selector described in §4.5. One Orchestrator owns
// one breaker.Map for its process lifetime (§3, §9); construct it once
// and reuse it across calls rather than creating one per selection.
type Orchestrator struct {
	Profiles autoselect.ProfileStore
	Metrics  autoselect.MetricsStore
	Sink     autoselect.SelectionSink
	Tunnel   autoselect.TunnelEvaluator

	Clock   Clock
	Rand    *rand.Rand
	Tracer  trace.Tracer
	Tunable Tunables

	breakers breaker.Map
}

// New constructs an Orchestrator with its own breaker map and a
// time-seeded shuffle source, per §4.5 step 2 and §9.
func New(profiles autoselect.ProfileStore, metricsStore autoselect.MetricsStore, sink autoselect.SelectionSink, tunnel autoselect.TunnelEvaluator) *Orchestrator {
	check.Assert(profiles != nil, "selector.New: Profiles must not be nil")
	check.Assert(metricsStore != nil, "selector.New: Metrics must not be nil")
	check.Assert(sink != nil, "selector.New: Sink must not be nil")
	check.Assert(tunnel != nil, "selector.New: Tunnel must not be nil")

	return &Orchestrator{
		Profiles: profiles,
		Metrics:  metricsStore,
		Sink:     sink,
		Tunnel:   tunnel,
		Clock:    RealClock{},
		Tunable:  DefaultTunables(),
		breakers: breaker.NewMap(),
	}
}

func (o *Orchestrator) clock() Clock {
	if o.Clock != nil {
		return o.Clock
	}
	return RealClock{}
}

func (o *Orchestrator) rng(now time.Time) *rand.Rand {
	if o.Rand != nil {
		return o.Rand
	}
	return rand.New(rand.NewSource(now.UnixNano()))
}

// shuffled returns a copy of ids shuffled with a clock-seeded source, for
// fairness across repeated calls with overlapping populations (§4.5 step 2).
func (o *Orchestrator) shuffled(ids []string, now time.Time) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	o.rng(now).Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// AutoSelectBestProxy runs the full-probe pipeline of §4.5 over
// candidates: sequential per-candidate probing, breaker gating, an
// estimator update and metrics persist for every probed candidate,
// scoring of the survivors, and promotion of the winner through Sink.
// Returns ("", false) on an empty list, all-skipped, all-failed, or a
// store write failure (§7) — every such outcome is ordinary, not an
// escaped error.
func (o *Orchestrator) AutoSelectBestProxy(ctx context.Context, candidates []string) (string, bool) {
	op := telemetry.Start(ctx, o.Tracer, "autoselect.full_probe")
	defer op.End(nil)

	if len(candidates) == 0 {
		return "", false
	}

	now := o.clock().Now()
	order := o.shuffled(candidates, now)

	type survivor struct {
		result autoselect.ProbeResult
	}
	survivors := make([]survivor, 0, len(order))

	for _, id := range order {
		result, probed, err := o.probeOne(op.Context(), id, now)
		if err != nil {
			return "", false
		}
		if !probed {
			continue
		}
		if o.breakers.IsOpen(id) {
			continue
		}
		if result.ConnectionSuccessful && result.RTTMs != autoselect.UninitializedAverage {
			survivors = append(survivors, survivor{result: result})
		}
	}

	if len(survivors) == 0 {
		return "", false
	}

	candidatesForScoring := make([]score.Candidate, 0, len(survivors))
	nowMs := autoselect.EpochMillis(now)
	for _, s := range survivors {
		candidatesForScoring = append(candidatesForScoring, score.Candidate{
			Identifier:         s.result.Identifier,
			LiveRTTMs:          s.result.RTTMs,
			LiveJitterMs:       s.result.JitterMs,
			LiveThroughputKbps: s.result.ThroughputKbps,
			ProbeSucceeded:     s.result.ConnectionSuccessful,
			History:            s.result.Metrics,
			NowMs:              nowMs,
		})
	}

	winnerID, ok := score.Best(candidatesForScoring, o.Tunable.Weights)
	if !ok {
		return "", false
	}

	var winner autoselect.ProbeResult
	for _, s := range survivors {
		if s.result.Identifier == winnerID {
			winner = s.result
			break
		}
	}

	promoted := winner.Profile
	promoted.Label = autoselect.ReservedAutoSelectorLabel

	newID, err := o.Profiles.Write(op.Context(), winnerID, promoted)
	if err != nil {
		slog.Warn("promote winner: write profile failed", "identifier", winnerID, "err", err)
		return "", false
	}

	if err := o.Sink.SetActive(op.Context(), newID); err != nil {
		slog.Warn("promote winner: selection sink failed", "identifier", newID, "err", err)
		return "", false
	}

	return newID, true
}

// probeOne runs the §4.5 steps 3a-3g for one identifier: profile lookup,
// breaker admission, TCP/tunnel/throughput probing, estimator update, and
// metrics persist. probed is false when the candidate was skipped before
// any probe ran (missing profile or breaker gating) — in that case no
// metrics write occurs and the returned ProbeResult carries nothing useful.
// A non-nil error means the metrics write failed; the breaker has still
// been updated for the result.
func (o *Orchestrator) probeOne(ctx context.Context, id string, now time.Time) (autoselect.ProbeResult, bool, error) {
	var result autoselect.ProbeResult
	probed := false

	profile, found, err := o.Profiles.Lookup(ctx, id)
	if err != nil || !found {
		return result, false, nil
	}

	if !o.breakers.Admit(id, now, o.Tunable.OpenWindow, o.Tunable.HalfOpenGap) {
		return result, false, nil
	}

	prevMetrics, found, err := o.Metrics.Load(ctx, id)
	if err != nil || !found {
		prevMetrics = autoselect.HistoricalMetrics{
			AverageRTTMs:        autoselect.UninitializedAverage,
			AverageJitterMs:     autoselect.UninitializedAverage,
			AverageThroughputKb: autoselect.UninitializedAverage,
		}
	}

	result = runProbe(ctx, o.Tunnel, id, profile, prevMetrics, now, o.Tunable)
	probed = true

	updated := metrics.ApplyResult(prevMetrics, result, now)
	result.Metrics = updated

	saveErr := o.Metrics.Save(ctx, id, updated)
	if saveErr != nil {
		slog.Warn("persist metrics failed", "identifier", id, "err", saveErr)
	}

	o.breakers.OnResult(id, result.ConnectionSuccessful, now, o.Tunable.FailureThreshold)

	return result, probed, saveErr
}
