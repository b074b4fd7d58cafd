package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"path/filepath"

	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"

	"go.opentelemetry.io/otel/trace"

	"github.com/veilrelay/autoselect"
	"github.com/veilrelay/autoselect/internal/config"
	"github.com/veilrelay/autoselect/probe"
	"github.com/veilrelay/autoselect/score"
	"github.com/veilrelay/autoselect/selector"
	"github.com/veilrelay/autoselect/store/memory"
	"github.com/veilrelay/autoselect/store/sqlite"
	"github.com/veilrelay/autoselect/tunneval"
)

// endpointResolver resolves a profile identifier to a wgtypes key (for
// shaping the transient config) and its host:port endpoint. A fresh
// random key stands in for a real peer key: this CLI has no real
// WireGuard device to negotiate with, per §1's Non-goals, so it can only
// ever probe TCP reachability to the endpoint, not a genuine tunnel.
type endpointResolver struct {
	profiles autoselect.ProfileStore
}

func (r endpointResolver) Resolve(ctx context.Context, id string) (wgtypes.Key, string, error) {
	prof, found, err := r.profiles.Lookup(ctx, id)
	if err != nil {
		return wgtypes.Key{}, "", err
	}
	if !found {
		return wgtypes.Key{}, "", fmt.Errorf("resolve %s: no profile", id)
	}
	key, err := wgtypes.GeneratePrivateKey()
	if err != nil {
		return wgtypes.Key{}, "", err
	}
	return key.PublicKey(), net.JoinHostPort(prof.Host, prof.Port), nil
}

// newTCPStandInEvaluator builds a TunnelEvaluator whose ping/fetch
// primitives fall back to a raw TCP probe of the resolved endpoint. It
// is a reference stand-in, not a tunneled measurement: a real deployment
// supplies PingFunc/FetchFunc wired to the actual proxy core.
func newTCPStandInEvaluator(profiles autoselect.ProfileStore) *tunneval.Adapter {
	return &tunneval.Adapter{
		Resolver: endpointResolver{profiles: profiles},
		PingFunc: func(ctx context.Context, cfg autoselect.TransientConfig) (float64, error) {
			host, port, err := splitEndpoint(cfg)
			if err != nil {
				return autoselect.UninitializedAverage, err
			}
			ms, ok := probe.TCPConnectLatency(ctx, host, port)
			if !ok {
				return autoselect.UninitializedAverage, fmt.Errorf("tcp stand-in ping failed")
			}
			return ms, nil
		},
		FetchFunc: func(ctx context.Context, cfg autoselect.TransientConfig, sizeKb int) (int, bool, error) {
			host, port, err := splitEndpoint(cfg)
			if err != nil {
				return 0, false, err
			}
			if _, ok := probe.TCPConnectLatency(ctx, host, port); !ok {
				return 0, false, nil
			}
			// No real transfer is available without a tunnel; report the
			// requested size as transferred so throughput math stays
			// well-defined for demo purposes.
			return sizeKb * 1024, true, nil
		},
	}
}

func splitEndpoint(cfg autoselect.TransientConfig) (host, port string, err error) {
	var body struct {
		Endpoint string `json:"endpoint"`
	}
	if err := json.Unmarshal(cfg.Content, &body); err != nil {
		return "", "", err
	}
	return net.SplitHostPort(body.Endpoint)
}

// tunablesFrom maps the YAML-configurable constants onto the orchestrator's
// in-memory Tunables shape.
func tunablesFrom(t config.Tunables) selector.Tunables {
	return selector.Tunables{
		TCPPingRepetitions: t.TCPPingRepetitions,
		ThroughputProbeKB:  t.ThroughputProbeKB,
		FailureThreshold:   t.FailureThreshold,
		OpenWindow:         t.OpenWindow,
		HalfOpenGap:        t.HalfOpenGap,
		Weights: score.Weights{
			RTT:              t.WeightRTT,
			Jitter:           t.WeightJitter,
			Throughput:       t.WeightThroughput,
			Reserved:         t.WeightReserved,
			FailurePenalty:   t.FailurePenalty,
			StalenessDivisor: float64(t.StalenessDivisor.Milliseconds()),
			StalenessCap:     t.StalenessCap,
		},
	}
}

func newOrchestrator(dataDir string, tracer trace.Tracer) (*selector.Orchestrator, *sqlite.Store, error) {
	tunables, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load tunables: %w", err)
	}
	if dataDir == "" {
		dataDir = tunables.DataRoot
	}

	db, err := sqlite.Open(filepath.Join(dataDir, "autoselect.db"))
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	profiles := sqlite.ProfileStore{S: db}
	metricsStore := sqlite.MetricsStore{S: db}
	sink := memory.NewSelectionSink() // CLI has no real "currently active" surface to promote into
	tunnel := newTCPStandInEvaluator(profiles)

	orch := selector.New(profiles, metricsStore, sink, tunnel)
	orch.Tunable = tunablesFrom(tunables)
	orch.Tracer = tracer

	return orch, db, nil
}
