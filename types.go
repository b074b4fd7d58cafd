package autoselect

import "time"

// UninitializedAverage is the sentinel stored in HistoricalMetrics for an
// average that has never been computed from a successful probe. Load-bearing
// across the estimator and scorer: preserve it rather than migrating to a
// pointer or optional type at any call site.
const UninitializedAverage = -1

// ReservedAutoSelectorLabel is the exact, case-sensitive label the core
// writes back to a profile on promotion (§6).
const ReservedAutoSelectorLabel = "Auto Selector"

// ConnectionKind enumerates the transport/protocol families a profile can
// describe. The core never interprets the value beyond passing it through
// on write-back; it exists so TunnelEvaluator adapters can branch on it.
type ConnectionKind string

// Profile is the endpoint profile supplied by the profile store. Host and
// Port must both parse for probing to occur (§3); a profile with either
// side unparseable is "probe-failed" for the run, not an error.
type Profile struct {
	ID    string
	Label string
	Kind  ConnectionKind
	Host  string
	Port  string
}

// HistoricalMetrics is the persisted per-identifier record of §3. Averages
// use UninitializedAverage as a sentinel until the first successful probe.
// Invariant: SuccessCount > 0 implies all three averages are >= 0;
// SuccessCount == 0 keeps them uninitialized regardless of FailureCount.
type HistoricalMetrics struct {
	AverageRTTMs        float64
	AverageJitterMs     float64
	AverageThroughputKb float64
	SuccessCount        int64
	FailureCount        int64
	LastUpdateTimeMs    int64
}

// Initialized reports whether at least one successful probe has rolled
// this record forward.
func (m HistoricalMetrics) Initialized() bool {
	return m.SuccessCount > 0
}

// FailureRate is FailureCount / (SuccessCount + FailureCount), or 0 when
// no probes have ever been recorded (§4.4 step 5).
func (m HistoricalMetrics) FailureRate() float64 {
	total := m.SuccessCount + m.FailureCount
	if total == 0 {
		return 0
	}
	return float64(m.FailureCount) / float64(total)
}

// ProbeResult is the in-memory, per-invocation record produced by one full
// probe of a candidate (§3). It is discarded after ranking except for the
// metrics write it has already triggered.
type ProbeResult struct {
	Identifier           string
	Profile              Profile
	RTTMs                float64
	JitterMs             float64
	ThroughputKbps       float64
	ConnectionSuccessful bool
	TestedAt             time.Time
	Metrics              HistoricalMetrics
}

// EpochMillis converts t to the milliseconds-since-epoch convention used by
// HistoricalMetrics.LastUpdateTimeMs.
func EpochMillis(t time.Time) int64 {
	return t.UnixMilli()
}
