package probe

import (
	"context"
	"net"
	"testing"

	"github.com/veilrelay/autoselect"
)

func TestTCPConnectLatencyAgainstLocalListener(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer lis.Close()
	go func() {
		for {
			conn, err := lis.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	host, port, err := net.SplitHostPort(lis.Addr().String())
	if err != nil {
		t.Fatalf("split addr: %v", err)
	}

	ms, ok := TCPConnectLatency(context.Background(), host, port)
	if !ok {
		t.Fatal("expected a successful connect against a live listener")
	}
	if ms < 0 {
		t.Fatalf("expected a non-negative latency, got %v", ms)
	}
}

func TestTCPConnectLatencyFailsClosedOnUnreachablePort(t *testing.T) {
	_, ok := TCPConnectLatency(context.Background(), "127.0.0.1", "1")
	if ok {
		t.Fatal("expected failure connecting to a closed port")
	}
}

func TestTCPConnectSamplesOmitsFailedAttempts(t *testing.T) {
	samples := TCPConnectSamples(context.Background(), "127.0.0.1", "1", 3)
	if len(samples) != 0 {
		t.Fatalf("expected zero samples against a closed port, got %v", samples)
	}
}

func TestMeanOfEmptySamplesIsUninitialized(t *testing.T) {
	if got := Mean(nil); got != autoselect.UninitializedAverage {
		t.Fatalf("expected UninitializedAverage for empty samples, got %v", got)
	}
}

func TestMeanAveragesSamples(t *testing.T) {
	got := Mean([]float64{10, 20, 30})
	if got != 20 {
		t.Fatalf("expected mean of 20, got %v", got)
	}
}
