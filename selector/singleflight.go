package selector

import (
	"context"
	"sync"
)

// SingleFlight collapses overlapping AutoSelectBestProxy calls against the
// same Orchestrator into one in-flight run, sharing its result with every
// caller that arrived while it was running (§5, §9). The in-repo usage
// assumes a single outstanding run; this wrapper is what makes that
// assumption safe to drop.
type SingleFlight struct {
	orchestrator *Orchestrator

	mu      sync.Mutex
	running bool
	done    chan struct{}
	result  string
	ok      bool
}

// NewSingleFlight wraps o.
func NewSingleFlight(o *Orchestrator) *SingleFlight {
	return &SingleFlight{orchestrator: o}
}

// AutoSelectBestProxy runs o.AutoSelectBestProxy if no run is currently
// in flight, otherwise waits for the in-flight run and returns its result.
func (sf *SingleFlight) AutoSelectBestProxy(ctx context.Context, candidates []string) (string, bool) {
	sf.mu.Lock()
	if sf.running {
		done := sf.done
		sf.mu.Unlock()
		<-done
		sf.mu.Lock()
		result, ok := sf.result, sf.ok
		sf.mu.Unlock()
		return result, ok
	}

	sf.running = true
	sf.done = make(chan struct{})
	sf.mu.Unlock()

	result, ok := sf.orchestrator.AutoSelectBestProxy(ctx, candidates)

	sf.mu.Lock()
	sf.result, sf.ok = result, ok
	sf.running = false
	close(sf.done)
	sf.mu.Unlock()

	return result, ok
}
