// Package perfcount tracks cumulative bytes and block count transferred by
// one worker side, so the stats line can report throughput and average
// block size alongside the ring's fill level.
package perfcount

import (
	"sync"
	"time"
)

// Counter accumulates bytes and commit counts from the moment it is
// created. It is safe for concurrent Update/Snapshot calls, though in
// practice only the owning worker ever calls Update.
type Counter struct {
	mu     sync.Mutex
	bytes  uint64
	blocks uint64
	start  time.Time
}

// New starts a Counter ticking from now.
func New() *Counter {
	return &Counter{start: time.Now()}
}

// Update records one successfully transferred block of n bytes. A nil
// Counter accepts Update silently, so callers can pass nil to mean
// "statistics disabled" without branching at every call site.
func (c *Counter) Update(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.mu.Lock()
	c.bytes += uint64(n)
	c.blocks++
	c.mu.Unlock()
}

// Snapshot is a point-in-time read of a Counter's accumulated totals.
type Snapshot struct {
	Bytes   uint64
	Blocks  uint64
	Seconds float64
}

// Snapshot returns the counter's current totals and elapsed wall time. A
// nil Counter reports a zero-valued Snapshot.
func (c *Counter) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	bytes, blocks := c.bytes, c.blocks
	c.mu.Unlock()
	return Snapshot{Bytes: bytes, Blocks: blocks, Seconds: time.Since(c.start).Seconds()}
}

// RateKiBPerSec is the average transfer rate in kiB/s over the counter's
// lifetime, 0 before any time has elapsed.
func (s Snapshot) RateKiBPerSec() float64 {
	if s.Seconds <= 0 {
		return 0
	}
	return float64(s.Bytes) / 1024 / s.Seconds
}

// AvgBlockKiB is the average size in kiB of each committed block, 0 if
// nothing has been committed yet.
func (s Snapshot) AvgBlockKiB() float64 {
	if s.Blocks == 0 {
		return 0
	}
	return float64(s.Bytes) / float64(s.Blocks) / 1024
}
