package selector

import (
	"context"
	"time"

	"github.com/veilrelay/autoselect"
	"github.com/veilrelay/autoselect/metrics"
	"github.com/veilrelay/autoselect/probe"
)

// runProbe executes §4.5 steps 3c-3e for one candidate: three TCP-connect
// samples, a tunneled ping, and (only on a successful tunneled ping) a
// throughput probe. The orchestrator, not any probe primitive, decides
// ConnectionSuccessful (§4.2 "the orchestrator is the authority").
func runProbe(ctx context.Context, eval autoselect.TunnelEvaluator, id string, profile autoselect.Profile, prevMetrics autoselect.HistoricalMetrics, now time.Time, tunable Tunables) autoselect.ProbeResult {
	result := autoselect.ProbeResult{
		Identifier:     id,
		Profile:        profile,
		TestedAt:       now,
		RTTMs:          autoselect.UninitializedAverage,
		JitterMs:       0,
		ThroughputKbps: autoselect.UninitializedAverage,
	}

	if profile.Host == "" || profile.Port == "" {
		// Malformed endpoint (§3, §7): treated as a plain probe failure.
		return result
	}

	// §4.5 step c: RTT is the arithmetic mean of three TCP-connect
	// samples; jitter is the §4.2 sample statistic over the same samples.
	samples := probe.TCPConnectSamples(ctx, profile.Host, profile.Port, tunable.TCPPingRepetitions)
	result.RTTMs = probe.Mean(samples)
	result.JitterMs = metrics.SampleJitterMs(samples)

	// §4.5 step d: the tunneled-ping test alone decides ConnectionSuccessful
	// (§4.2 "the orchestrator is the authority") — a TCP-only failure does
	// not by itself flip it.
	_, tunnelOK := probe.TunneledRTT(ctx, eval, id)
	result.ConnectionSuccessful = tunnelOK

	if result.ConnectionSuccessful {
		// §4.5 step e: only on a successful connection does a throughput
		// probe run.
		result.ThroughputKbps = probe.ThroughputKbps(ctx, eval, id, tunable.ThroughputProbeKB)
	}

	return result
}
