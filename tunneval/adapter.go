// Package tunneval is the reference adapter for autoselect.TunnelEvaluator.
// Building or tearing down the tunnel itself is out of scope for this
// core (§1 Non-goals); this adapter only shapes the "transient
// per-endpoint config" handle the port hands back and forth, using the
// same wgtypes config fragment the teacher's platform layer feeds to its
// WireGuard device. PingFunc/FetchFunc are injectable, the same
// override-for-testing shape the teacher's ntp.Checker.CheckFunc uses.
package tunneval

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"

	"github.com/veilrelay/autoselect"
)

// EndpointResolver resolves an identifier to the WireGuard peer
// parameters needed to shape a transient config: this is exactly the
// kind of external collaborator §1 calls out (the real VPN/tunnel
// plumbing), supplied by the host application.
type EndpointResolver interface {
	Resolve(ctx context.Context, id string) (wgtypes.Key, string, error)
}

// transientConfigBody is the JSON-encoded payload carried inside
// autoselect.TransientConfig.Content: a minimal WireGuard peer fragment
// (peer public key and endpoint). The local bind port travels separately
// in TransientConfig.LocalPort.
type transientConfigBody struct {
	PeerPublicKey string `json:"peer_public_key"`
	Endpoint      string `json:"endpoint"`
}

// Adapter implements autoselect.TunnelEvaluator. PingFunc and FetchFunc
// default to failing closed (no tunnel available) so an Adapter with only
// a Resolver set is safe to use in tests that only care about the
// config-building path. BuildTransientConfig fails when Resolver is nil.
type Adapter struct {
	Resolver EndpointResolver

	// NextLocalPort assigns a local bind port per transient config; it
	// defaults to a fixed ephemeral-range port when nil.
	NextLocalPort func() int

	// PingFunc measures RTT through the tunnel for cfg; a non-nil error
	// or non-positive result is a probe failure (§4.1). Defaults to
	// "always fails" when nil.
	PingFunc func(ctx context.Context, cfg autoselect.TransientConfig) (float64, error)

	// FetchFunc exercises a transfer of approximately sizeKb kilobytes
	// through cfg. Defaults to "always fails" when nil.
	FetchFunc func(ctx context.Context, cfg autoselect.TransientConfig, sizeKb int) (int, bool, error)
}

var _ autoselect.TunnelEvaluator = (*Adapter)(nil)

func (a *Adapter) BuildTransientConfig(ctx context.Context, id string) (autoselect.TransientConfig, error) {
	if a.Resolver == nil {
		return autoselect.TransientConfig{}, fmt.Errorf("build transient config %s: no resolver configured", id)
	}

	peerKey, endpoint, err := a.Resolver.Resolve(ctx, id)
	if err != nil {
		return autoselect.TransientConfig{}, fmt.Errorf("resolve endpoint %s: %w", id, err)
	}

	body := transientConfigBody{
		PeerPublicKey: peerKey.String(),
		Endpoint:      endpoint,
	}
	content, err := json.Marshal(body)
	if err != nil {
		return autoselect.TransientConfig{}, fmt.Errorf("marshal transient config %s: %w", id, err)
	}

	port := defaultLocalPort
	if a.NextLocalPort != nil {
		port = a.NextLocalPort()
	}

	return autoselect.TransientConfig{Content: content, LocalPort: port}, nil
}

const defaultLocalPort = 51820

func (a *Adapter) PingThroughTunnel(ctx context.Context, cfg autoselect.TransientConfig) (float64, error) {
	if a.PingFunc == nil {
		return autoselect.UninitializedAverage, fmt.Errorf("ping through tunnel: no ping function configured")
	}
	return a.PingFunc(ctx, cfg)
}

func (a *Adapter) FetchThroughTunnel(ctx context.Context, cfg autoselect.TransientConfig, sizeKb int) (int, bool, error) {
	if a.FetchFunc == nil {
		return 0, false, fmt.Errorf("fetch through tunnel: no fetch function configured")
	}
	return a.FetchFunc(ctx, cfg, sizeKb)
}
