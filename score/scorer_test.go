package score

import (
	"testing"

	"github.com/veilrelay/autoselect"
)

func freshCandidate(id string, rtt, jitter, throughput float64) Candidate {
	return Candidate{
		Identifier:         id,
		LiveRTTMs:          rtt,
		LiveJitterMs:       jitter,
		LiveThroughputKbps: throughput,
		ProbeSucceeded:     true,
		History: autoselect.HistoricalMetrics{
			AverageRTTMs:        autoselect.UninitializedAverage,
			AverageJitterMs:     autoselect.UninitializedAverage,
			AverageThroughputKb: autoselect.UninitializedAverage,
		},
	}
}

func TestLowerRTTWinsAllElseEqual(t *testing.T) {
	w := DefaultWeights()
	fast := freshCandidate("fast", 50, 5, 5000)
	slow := freshCandidate("slow", 500, 5, 5000)

	id, ok := Best([]Candidate{fast, slow}, w)
	if !ok || id != "fast" {
		t.Fatalf("expected fast to win, got %q ok=%v", id, ok)
	}
}

func TestFailedProbeIncursFailurePenalty(t *testing.T) {
	w := DefaultWeights()
	good := freshCandidate("good", 100, 5, 5000)
	bad := freshCandidate("bad", 10, 1, 9000)
	bad.ProbeSucceeded = false

	id, ok := Best([]Candidate{good, bad}, w)
	if !ok || id != "good" {
		t.Fatalf("expected the succeeded probe to win despite worse raw numbers, got %q", id)
	}
}

func TestHistoryFailureRateAddsPenalty(t *testing.T) {
	w := DefaultWeights()
	clean := freshCandidate("clean", 100, 5, 5000)
	flaky := freshCandidate("flaky", 100, 5, 5000)
	flaky.History.FailureCount = 9
	flaky.History.SuccessCount = 1

	id, ok := Best([]Candidate{clean, flaky}, w)
	if !ok || id != "clean" {
		t.Fatalf("expected the candidate with no failure history to win, got %q", id)
	}
}

func TestTieBreaksByLowerRTTThenIdentifier(t *testing.T) {
	w := DefaultWeights()
	// Both RTTs exceed the 3000ms normalization ceiling, so the scores tie
	// exactly; the lower RTT must win even though its identifier sorts later.
	a := freshCandidate("a-endpoint", 4000, 5, 5000)
	b := freshCandidate("b-endpoint", 3500, 5, 5000)

	ranked := Ranked([]Candidate{a, b}, w)
	if ranked[0].Identifier != "b-endpoint" {
		t.Fatalf("expected lower-RTT candidate first on a tie, got %q", ranked[0].Identifier)
	}
}

func TestTieBreaksByIdentifierWhenRTTEqual(t *testing.T) {
	w := DefaultWeights()
	a := freshCandidate("zebra", 100, 5, 5000)
	b := freshCandidate("alpha", 100, 5, 5000)

	ranked := Ranked([]Candidate{a, b}, w)
	if ranked[0].Identifier != "alpha" {
		t.Fatalf("expected lexicographically-first identifier to win an exact tie, got %q", ranked[0].Identifier)
	}
}

func TestLiveValuesOverrideHistory(t *testing.T) {
	w := DefaultWeights()
	c := Candidate{
		Identifier:     "x",
		LiveRTTMs:      10,
		ProbeSucceeded: true,
		History: autoselect.HistoricalMetrics{
			AverageRTTMs:        900,
			AverageJitterMs:     autoselect.UninitializedAverage,
			AverageThroughputKb: autoselect.UninitializedAverage,
		},
	}
	got := Score(c, w)

	c.LiveRTTMs = autoselect.UninitializedAverage
	fallback := Score(c, w)

	if got >= fallback {
		t.Fatalf("expected the live RTT (10ms) to score better than the historical fallback (900ms): live=%v fallback=%v", got, fallback)
	}
}

func TestStalenessAddsAgeWindowsCappedAtStalenessCap(t *testing.T) {
	w := DefaultWeights()
	c := freshCandidate("stale", 100, 5, 5000)
	c.NowMs = int64(w.StalenessDivisor * w.StalenessCap * 2) // far more windows old than the cap
	c.History.LastUpdateTimeMs = 0

	got := Score(c, w)
	withoutStaleness := c
	withoutStaleness.NowMs = 0
	base := Score(withoutStaleness, w)

	if got-base < w.StalenessCap-0.01 || got-base > w.StalenessCap+0.01 {
		t.Fatalf("expected staleness contribution to saturate at %v, got delta %v", w.StalenessCap, got-base)
	}
}

func TestBestOnEmptyCandidates(t *testing.T) {
	_, ok := Best(nil, DefaultWeights())
	if ok {
		t.Fatal("expected ok=false for an empty candidate list")
	}
}
