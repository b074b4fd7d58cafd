package probe

import (
	"context"
	"time"

	"github.com/veilrelay/autoselect"
)

// ThroughputProbeKB is the §4.5/§6 transfer size used by the full-probe
// pipeline after a successful tunneled ping.
const ThroughputProbeKB = 256

// ThroughputKbps obtains a transient config for id, exercises a real data
// transfer of sizeKb kilobytes through the tunnel (§9 Open Question:
// this is the "real transfer" resolution, not the synthetic
// sleep-proportional placeholder), measures elapsed wall-clock, and
// returns sizeKb*8*1000/elapsedMs kbps. Any failure to obtain a config or
// complete the transfer returns UninitializedAverage.
func ThroughputKbps(ctx context.Context, eval autoselect.TunnelEvaluator, id string, sizeKb int) float64 {
	cfg, err := eval.BuildTransientConfig(ctx, id)
	if err != nil {
		return autoselect.UninitializedAverage
	}

	start := time.Now()
	_, ok, err := eval.FetchThroughTunnel(ctx, cfg, sizeKb)
	elapsed := time.Since(start)
	if err != nil || !ok {
		return autoselect.UninitializedAverage
	}

	elapsedMs := float64(elapsed) / float64(time.Millisecond)
	if elapsedMs <= 0 {
		return autoselect.UninitializedAverage
	}

	return float64(sizeKb) * 8 * 1000 / elapsedMs
}
