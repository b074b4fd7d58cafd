package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/veilrelay/autoselect"
)

func TestApplyResultFirstSuccessSeedsAverages(t *testing.T) {
	prev := autoselect.HistoricalMetrics{
		AverageRTTMs:        autoselect.UninitializedAverage,
		AverageJitterMs:     autoselect.UninitializedAverage,
		AverageThroughputKb: autoselect.UninitializedAverage,
	}
	result := autoselect.ProbeResult{ConnectionSuccessful: true, RTTMs: 100, JitterMs: 5, ThroughputKbps: 2000}

	next := ApplyResult(prev, result, time.Now())

	if next.AverageRTTMs != 100 || next.AverageJitterMs != 5 || next.AverageThroughputKb != 2000 {
		t.Fatalf("expected averages seeded directly from the first sample, got %+v", next)
	}
	if next.SuccessCount != 1 || next.FailureCount != 0 {
		t.Fatalf("expected SuccessCount=1, FailureCount=0, got %+v", next)
	}
}

func TestApplyResultBlendsSubsequentSuccess(t *testing.T) {
	prev := autoselect.HistoricalMetrics{AverageRTTMs: 100, AverageJitterMs: 5, AverageThroughputKb: 2000, SuccessCount: 1}
	result := autoselect.ProbeResult{ConnectionSuccessful: true, RTTMs: 200, JitterMs: 5, ThroughputKbps: 2000}

	next := ApplyResult(prev, result, time.Now())

	want := Alpha*200 + (1-Alpha)*100
	if math.Abs(next.AverageRTTMs-want) > 1e-9 {
		t.Fatalf("expected EWMA blend %v, got %v", want, next.AverageRTTMs)
	}
}

func TestApplyResultFailureOnlyIncrementsFailureCount(t *testing.T) {
	prev := autoselect.HistoricalMetrics{AverageRTTMs: 100, AverageJitterMs: 5, AverageThroughputKb: 2000, SuccessCount: 3}
	result := autoselect.ProbeResult{ConnectionSuccessful: false}

	next := ApplyResult(prev, result, time.Now())

	if next.AverageRTTMs != 100 || next.AverageJitterMs != 5 || next.AverageThroughputKb != 2000 {
		t.Fatalf("a failed probe must not move the averages, got %+v", next)
	}
	if next.FailureCount != 1 || next.SuccessCount != 3 {
		t.Fatalf("expected FailureCount=1, SuccessCount unchanged, got %+v", next)
	}
}

func TestApplyResultTimestampNeverGoesBackwards(t *testing.T) {
	future := time.Now().Add(time.Hour)
	prev := autoselect.HistoricalMetrics{LastUpdateTimeMs: autoselect.EpochMillis(future)}
	result := autoselect.ProbeResult{ConnectionSuccessful: false}

	next := ApplyResult(prev, result, time.Now())

	if next.LastUpdateTimeMs != prev.LastUpdateTimeMs {
		t.Fatalf("expected LastUpdateTimeMs to stay at %d, got %d", prev.LastUpdateTimeMs, next.LastUpdateTimeMs)
	}
}

func TestApplyResultConvergesTowardStableInput(t *testing.T) {
	metrics := autoselect.HistoricalMetrics{
		AverageRTTMs:        autoselect.UninitializedAverage,
		AverageJitterMs:     autoselect.UninitializedAverage,
		AverageThroughputKb: autoselect.UninitializedAverage,
	}
	now := time.Now()
	for i := 0; i < 50; i++ {
		metrics = ApplyResult(metrics, autoselect.ProbeResult{ConnectionSuccessful: true, RTTMs: 150, JitterMs: 3, ThroughputKbps: 5000}, now)
	}

	if math.Abs(metrics.AverageRTTMs-150) > 0.01 {
		t.Fatalf("expected convergence to 150ms after 50 stable samples, got %v", metrics.AverageRTTMs)
	}
}

func TestSampleJitterMsRequiresAtLeastTwoSamples(t *testing.T) {
	if j := SampleJitterMs(nil); j != 0 {
		t.Fatalf("expected 0 jitter for no samples, got %v", j)
	}
	if j := SampleJitterMs([]float64{42}); j != 0 {
		t.Fatalf("expected 0 jitter for one sample, got %v", j)
	}
}

func TestSampleJitterMsZeroForIdenticalSamples(t *testing.T) {
	j := SampleJitterMs([]float64{100, 100, 100})
	if j != 0 {
		t.Fatalf("expected 0 jitter for identical samples, got %v", j)
	}
}

func TestSampleJitterMsPositiveForVariedSamples(t *testing.T) {
	j := SampleJitterMs([]float64{90, 100, 110})
	if j <= 0 {
		t.Fatalf("expected positive jitter for varied samples, got %v", j)
	}
}
