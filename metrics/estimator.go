// Package metrics implements the EWMA historical-metrics estimator of
// §4.2: rolling a ProbeResult forward into a HistoricalMetrics record.
package metrics

import (
	"math"
	"time"

	"github.com/veilrelay/autoselect"
)

// Alpha is the EWMA weight of the new sample (§4.2, §6).
const Alpha = 0.3

// ApplyResult rolls result forward into a copy of prev per §4.2 and
// returns it. The caller (the selector orchestrator) is the sole judge
// of result.ConnectionSuccessful — this function never inspects RTT or
// other fields to second-guess it.
//
// On success: each average is set to the sample value if it was
// UninitializedAverage, otherwise EWMA-blended with Alpha; SuccessCount
// increments.
// On failure: only FailureCount increments; averages are untouched.
// In both cases LastUpdateTimeMs is stamped to now, never decreasing.
func ApplyResult(prev autoselect.HistoricalMetrics, result autoselect.ProbeResult, now time.Time) autoselect.HistoricalMetrics {
	next := prev
	nowMs := autoselect.EpochMillis(now)
	if nowMs < next.LastUpdateTimeMs {
		nowMs = next.LastUpdateTimeMs
	}
	next.LastUpdateTimeMs = nowMs

	if !result.ConnectionSuccessful {
		next.FailureCount++
		return next
	}

	next.AverageRTTMs = blend(next.AverageRTTMs, result.RTTMs)
	next.AverageJitterMs = blend(next.AverageJitterMs, result.JitterMs)
	next.AverageThroughputKb = blend(next.AverageThroughputKb, result.ThroughputKbps)
	next.SuccessCount++
	return next
}

func blend(average, sample float64) float64 {
	if average == autoselect.UninitializedAverage {
		return sample
	}
	return Alpha*sample + (1-Alpha)*average
}

// SampleJitterMs computes the sample-standard-deviation-like jitter
// statistic over a set of TCP-ping samples (§4.2): with fewer than two
// samples jitter is 0.
func SampleJitterMs(samplesMs []float64) float64 {
	n := len(samplesMs)
	if n < 2 {
		return 0
	}

	var mean float64
	for _, s := range samplesMs {
		mean += s
	}
	mean /= float64(n)

	var variance float64
	for _, s := range samplesMs {
		d := s - mean
		variance += d * d
	}
	variance /= float64(n - 1)

	return math.Sqrt(variance)
}
