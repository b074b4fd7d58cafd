package probe

import (
	"context"
	"time"

	"github.com/veilrelay/autoselect"
)

// TunneledPingCeiling is the §4.1/§6 ceiling: a ping result must land in
// the open interval (0, ceiling) to count as success.
const TunneledPingCeiling = 5000 * time.Millisecond

// TunneledRTT acquires a transient per-endpoint config from eval for id;
// if that fails, returns (UninitializedAverage, false). Otherwise it
// invokes eval's ping: a return strictly within (0, ceiling) ms is
// success with that value, anything else (negative, zero, or timed out)
// is failure (§4.1).
func TunneledRTT(ctx context.Context, eval autoselect.TunnelEvaluator, id string) (ms float64, ok bool) {
	cfg, err := eval.BuildTransientConfig(ctx, id)
	if err != nil {
		return autoselect.UninitializedAverage, false
	}

	rtt, err := eval.PingThroughTunnel(ctx, cfg)
	if err != nil {
		return autoselect.UninitializedAverage, false
	}

	ceilingMs := float64(TunneledPingCeiling.Milliseconds())
	if rtt > 0 && rtt < ceilingMs {
		return rtt, true
	}
	return autoselect.UninitializedAverage, false
}
