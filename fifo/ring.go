package fifo

import (
	"sync"
	"sync/atomic"
)

// noCopy embeds into Drain and Source so `go vet` flags accidental copies of
// a view that must stay owned by exactly one goroutine.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Ring holds the aligned contiguous byte buffer, cursors, fill level,
// reservation sizes, watermarks, eos flag, and statistics. Its state is
// changed only by Drain and Source while holding the state lock; Ring's own
// methods hand out those two views and report capacity and statistics.
type Ring struct {
	buf      []byte // aligned window into the backing allocation
	capacity uint64

	mu       sync.Mutex
	cvDrain  sync.Cond // signaled when the producer may proceed
	cvSource sync.Cond // signaled when the consumer may proceed

	writeCursor   uint64
	readCursor    uint64
	level         uint64
	writeReserved uint64
	readReserved  uint64

	high uint64
	low  uint64

	eos bool

	fullCount  uint64
	emptyCount uint64

	// Unsynchronized snapshots for diagnostics only: the single exception to
	// "fields read/written only under the state lock", so Stats never has to
	// contend with the producer or consumer for the lock.
	levelSnapshot atomic.Uint64
	eosSnapshot   atomic.Bool

	drain  Drain
	source Source
}

// Option configures a Ring at construction time.
type Option func(*ringConfig)

type ringConfig struct {
	highFraction float64
	lowFraction  float64
	alignment    uint64
}

// WithWatermarks sets the high and low watermark fractions of capacity.
// Both must be within [0,1]; New returns an error otherwise. The default
// (if this option is not supplied) is high=0, low=1: wake the consumer as
// soon as anything is committed, and wake the producer as soon as any space
// has been freed.
func WithWatermarks(highFraction, lowFraction float64) Option {
	return func(c *ringConfig) {
		c.highFraction = highFraction
		c.lowFraction = lowFraction
	}
}

// WithAlignment requests that the ring's backing buffer start on a
// power-of-two aligned address, to permit direct DMA or page-cache-friendly
// I/O. The default alignment is 1 (no special alignment).
func WithAlignment(alignment uint64) Option {
	return func(c *ringConfig) {
		c.alignment = alignment
	}
}

// New constructs a Ring of exactly capacity usable bytes. capacity must be
// at least 1. See WithWatermarks and WithAlignment for the optional
// watermark-fraction and alignment parameters.
func New(capacity uint64, opts ...Option) (*Ring, error) {
	if capacity == 0 {
		return nil, logicErrorf("New", "capacity must be > 0")
	}

	cfg := ringConfig{highFraction: 0, lowFraction: 1, alignment: 1}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.highFraction < 0 || cfg.highFraction > 1 {
		return nil, logicErrorf("New", "high watermark fraction %v out of [0,1]", cfg.highFraction)
	}
	if cfg.lowFraction < 0 || cfg.lowFraction > 1 {
		return nil, logicErrorf("New", "low watermark fraction %v out of [0,1]", cfg.lowFraction)
	}
	if cfg.alignment == 0 || cfg.alignment&(cfg.alignment-1) != 0 {
		return nil, logicErrorf("New", "alignment %d is not a power of two", cfg.alignment)
	}

	raw := make([]byte, capacity+cfg.alignment)
	start := alignOffset(raw, cfg.alignment)

	r := &Ring{
		buf:      raw[start : start+capacity],
		capacity: capacity,
		high:     fractionToBytes(cfg.highFraction, capacity),
		low:      fractionToBytes(cfg.lowFraction, capacity),
	}
	r.cvDrain.L = &r.mu
	r.cvSource.L = &r.mu
	r.drain.ring = r
	r.source.ring = r
	return r, nil
}

// Drain returns the producer-side view of the ring. It must be used by
// exactly one goroutine for the lifetime of the ring.
func (r *Ring) Drain() *Drain { return &r.drain }

// Source returns the consumer-side view of the ring. It must be used by
// exactly one goroutine for the lifetime of the ring.
func (r *Ring) Source() *Source { return &r.source }

// Capacity returns the usable byte capacity of the ring.
func (r *Ring) Capacity() uint64 { return r.capacity }

// Stats is a read-only snapshot of the ring's counters.
type Stats struct {
	FullCount  uint64
	EmptyCount uint64
	Level      uint64
	EOS        bool
}

// Stats returns a diagnostic snapshot. Level and EOS are read without the
// state lock; FullCount/EmptyCount are read under the lock since they are
// cheap and not on any hot path.
func (r *Ring) Stats() Stats {
	r.mu.Lock()
	full, empty := r.fullCount, r.emptyCount
	r.mu.Unlock()
	return Stats{
		FullCount:  full,
		EmptyCount: empty,
		Level:      r.levelSnapshot.Load(),
		EOS:        r.eosSnapshot.Load(),
	}
}

func fractionToBytes(fraction float64, capacity uint64) uint64 {
	bytes := fraction*float64(capacity) + 0.5 // round to nearest byte
	if bytes < 0 {
		return 0
	}
	if bytes > float64(capacity) {
		return capacity
	}
	return uint64(bytes)
}

func alignOffset(buf []byte, alignment uint64) uint64 {
	if alignment <= 1 || len(buf) == 0 {
		return 0
	}
	addr := sliceAddr(buf)
	misalign := addr % alignment
	if misalign == 0 {
		return 0
	}
	return alignment - misalign
}
