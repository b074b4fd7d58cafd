package autoselect

import "context"

// ProfileStore is the consumed profile-lookup port of §6. Production:
// store/sqlite.ProfileStore. Testing: store/memory.ProfileStore.
type ProfileStore interface {
	// Lookup returns the profile for id, or (Profile{}, false) if none
	// exists — a missing profile is not an error (§7).
	Lookup(ctx context.Context, id string) (Profile, bool, error)
	// Write persists profile, possibly under a new identifier, which the
	// caller must use thereafter (§3, §6).
	Write(ctx context.Context, id string, profile Profile) (newID string, err error)
}

// MetricsStore is the consumed historical-metrics port of §6. Production:
// store/sqlite.MetricsStore. Testing: store/memory.MetricsStore.
type MetricsStore interface {
	Load(ctx context.Context, id string) (HistoricalMetrics, bool, error)
	// Save persists metrics for id as a single atomic operation — no
	// partial write is permitted (§5, §7).
	Save(ctx context.Context, id string, metrics HistoricalMetrics) error
}

// AffiliationStore is the optional auxiliary-quality-flag port of §6. It
// is never consulted by breaker.Map, metrics.ApplyResult, or score.Score
// — it exists purely for external UIs.
type AffiliationStore interface {
	Get(ctx context.Context, id string) (quality string, note string, ok bool, err error)
	Set(ctx context.Context, id string, quality string, note string) error
}

// SelectionSink is the consumed promotion port of §6: receives the
// identifier the orchestrator just selected as "currently active".
type SelectionSink interface {
	SetActive(ctx context.Context, id string) error
}

// TransientConfig is the opaque per-endpoint tunnel configuration handle
// returned by TunnelEvaluator.BuildTransientConfig. The core never
// inspects its fields beyond passing the handle back into PingThroughTunnel
// / FetchThroughTunnel.
type TransientConfig struct {
	Content   []byte
	LocalPort int
}

// TunnelEvaluator is the consumed tunneled-ping/throughput port of §6.
// Building, rotating, or tearing down the underlying tunnel is explicitly
// out of scope for this core (§1 Non-goals); the evaluator is the only
// thing that ever touches the proxy core.
type TunnelEvaluator interface {
	// BuildTransientConfig acquires a transient per-endpoint config for
	// id. A non-nil error means "could not obtain a config" (§4.1) — the
	// caller must treat it as a probe failure, not escalate it.
	BuildTransientConfig(ctx context.Context, id string) (TransientConfig, error)
	// PingThroughTunnel returns the measured RTT in milliseconds for a
	// request routed through cfg, or a value <= 0 on failure (§6).
	PingThroughTunnel(ctx context.Context, cfg TransientConfig) (rttMs float64, err error)
	// FetchThroughTunnel exercises a transfer of approximately sizeKb
	// kilobytes through cfg and returns the bytes actually transferred,
	// or (0, false) on failure.
	FetchThroughTunnel(ctx context.Context, cfg TransientConfig, sizeKb int) (bytesTransferred int, ok bool, err error)
}
