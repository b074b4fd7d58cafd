// Package probe implements the three pure probing primitives of §4.1:
// raw TCP connect timing, in-tunnel RTT, and throughput. Each returns
// either a positive measurement or the sentinel "failed" (autoselect.
// UninitializedAverage for numeric results, false for the TCP primitive),
// and each releases any resource it acquires on every exit path.
package probe

import (
	"context"
	"net"
	"time"

	"github.com/veilrelay/autoselect"
)

// TCPConnectTimeout is the §4.1/§6 connect deadline.
const TCPConnectTimeout = 3 * time.Second

// TCPConnectLatency opens a raw TCP connection to host:port with a 3s
// timeout, measures wall-clock elapsed from just before connect to just
// after it completes, and closes the connection. Any resolution or
// socket error returns (UninitializedAverage, false). It never retries.
func TCPConnectLatency(ctx context.Context, host, port string) (ms float64, ok bool) {
	dialer := net.Dialer{Timeout: TCPConnectTimeout}

	start := time.Now()
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, port))
	elapsed := time.Since(start)
	if err != nil {
		return autoselect.UninitializedAverage, false
	}
	defer conn.Close()

	return float64(elapsed) / float64(time.Millisecond), true
}

// TCPConnectSamples runs TCPConnectLatency n times sequentially and
// returns the successful samples in milliseconds. A failed sample is
// simply omitted — the caller (the orchestrator) decides how a partial
// or empty sample set affects RTT/jitter and the overall probe outcome.
func TCPConnectSamples(ctx context.Context, host, port string, n int) []float64 {
	samples := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if ms, ok := TCPConnectLatency(ctx, host, port); ok {
			samples = append(samples, ms)
		}
	}
	return samples
}

// Mean returns the arithmetic mean of samples, or UninitializedAverage if
// samples is empty.
func Mean(samples []float64) float64 {
	if len(samples) == 0 {
		return autoselect.UninitializedAverage
	}
	var sum float64
	for _, s := range samples {
		sum += s
	}
	return sum / float64(len(samples))
}
