package probe

import (
	"context"
	"testing"

	"github.com/veilrelay/autoselect"
)

// fakeEvaluator is a minimal autoselect.TunnelEvaluator for exercising the
// tunneled-RTT and throughput primitives without any real tunnel.
type fakeEvaluator struct {
	buildErr  error
	pingMs    float64
	pingErr   error
	fetchOK   bool
	fetchErr  error
	fetchSize int
}

func (f *fakeEvaluator) BuildTransientConfig(ctx context.Context, id string) (autoselect.TransientConfig, error) {
	if f.buildErr != nil {
		return autoselect.TransientConfig{}, f.buildErr
	}
	return autoselect.TransientConfig{Content: []byte(id)}, nil
}

func (f *fakeEvaluator) PingThroughTunnel(ctx context.Context, cfg autoselect.TransientConfig) (float64, error) {
	return f.pingMs, f.pingErr
}

func (f *fakeEvaluator) FetchThroughTunnel(ctx context.Context, cfg autoselect.TransientConfig, sizeKb int) (int, bool, error) {
	return f.fetchSize, f.fetchOK, f.fetchErr
}

func TestTunneledRTTWithinCeilingSucceeds(t *testing.T) {
	eval := &fakeEvaluator{pingMs: 1200}
	ms, ok := TunneledRTT(context.Background(), eval, "a")
	if !ok || ms != 1200 {
		t.Fatalf("expected success with ms=1200, got ms=%v ok=%v", ms, ok)
	}
}

func TestTunneledRTTAtOrAboveCeilingFails(t *testing.T) {
	eval := &fakeEvaluator{pingMs: 5000}
	_, ok := TunneledRTT(context.Background(), eval, "a")
	if ok {
		t.Fatal("expected failure at the ceiling boundary")
	}
}

func TestTunneledRTTNonPositiveFails(t *testing.T) {
	eval := &fakeEvaluator{pingMs: 0}
	_, ok := TunneledRTT(context.Background(), eval, "a")
	if ok {
		t.Fatal("expected failure for a non-positive ping result")
	}
}

func TestTunneledRTTBuildFailurePropagates(t *testing.T) {
	eval := &fakeEvaluator{buildErr: context.DeadlineExceeded}
	_, ok := TunneledRTT(context.Background(), eval, "a")
	if ok {
		t.Fatal("expected failure when BuildTransientConfig errors")
	}
}

func TestThroughputKbpsOnFailedFetch(t *testing.T) {
	eval := &fakeEvaluator{fetchOK: false}
	got := ThroughputKbps(context.Background(), eval, "a", 256)
	if got != autoselect.UninitializedAverage {
		t.Fatalf("expected UninitializedAverage on failed fetch, got %v", got)
	}
}

func TestThroughputKbpsOnSuccessfulFetch(t *testing.T) {
	eval := &fakeEvaluator{fetchOK: true, fetchSize: 256 * 1024}
	got := ThroughputKbps(context.Background(), eval, "a", 256)
	if got <= 0 {
		t.Fatalf("expected a positive throughput measurement, got %v", got)
	}
}
