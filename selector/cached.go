package selector

import (
	"context"

	"github.com/veilrelay/autoselect"
	"github.com/veilrelay/autoselect/internal/telemetry"
	"github.com/veilrelay/autoselect/score"
)

// GetBestAvailableProxy ranks candidates purely from history and current
// breaker state, performing no I/O beyond the store reads and never
// mutating profile, metrics, breaker, or sink state (§4.5 cached path,
// §5). It is pure on its inputs: identical historical state and breaker
// snapshot yield an identical result (§8 property 5).
func (o *Orchestrator) GetBestAvailableProxy(ctx context.Context, candidates []string) (string, bool) {
	op := telemetry.Start(ctx, o.Tracer, "autoselect.cached")
	defer op.End(nil)

	now := o.clock().Now()
	nowMs := autoselect.EpochMillis(now)

	scored := make([]score.Candidate, 0, len(candidates))
	for _, id := range candidates {
		if o.breakers.IsOpen(id) {
			continue
		}

		if _, found, err := o.Profiles.Lookup(op.Context(), id); err != nil || !found {
			continue
		}

		hist, found, err := o.Metrics.Load(op.Context(), id)
		if err != nil || !found || !hist.Initialized() {
			continue
		}

		scored = append(scored, score.Candidate{
			Identifier:         id,
			LiveRTTMs:          hist.AverageRTTMs,
			LiveJitterMs:       hist.AverageJitterMs,
			LiveThroughputKbps: hist.AverageThroughputKb,
			ProbeSucceeded:     true,
			History:            hist,
			NowMs:              nowMs,
		})
	}

	return score.Best(scored, o.Tunable.Weights)
}
