package embedding

import (
	"sync"
	"time"
)

// RateGate serializes outbound calls to respect a requests-per-second
// ceiling. All callers share one gate, so the ceiling holds process-wide.
// The timestamp comparison relies on time.Now's monotonic clock reading.
type RateGate struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

// NewRateGate builds a gate enforcing a minimum interval of 1/rps between
// calls. A non-positive rps disables the gate.
func NewRateGate(rps float64) *RateGate {
	g := &RateGate{}
	if rps > 0 {
		g.interval = time.Duration(float64(time.Second) / rps)
	}
	return g
}

// Wait blocks until the minimum inter-call interval has elapsed since the
// previous call, then claims the current slot.
func (g *RateGate) Wait() {
	if g.interval <= 0 {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	now := time.Now()
	if !g.last.IsZero() {
		if wait := g.interval - now.Sub(g.last); wait > 0 {
			time.Sleep(wait)
			now = time.Now()
		}
	}
	g.last = now
}
