// Package metrics exposes the fifo package's statistics (full count, empty
// count, and current fill level) as Prometheus gauges, served behind the
// -metrics=<addr> flag.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/drgolem/fifobuffer/fifo"
)

// Registry wraps the Prometheus collectors backing a single ring's
// statistics.
type Registry struct {
	reg        *prometheus.Registry
	fullCount  prometheus.Gauge
	emptyCount prometheus.Gauge
	level      prometheus.Gauge
}

// NewRegistry builds a Registry with its own prometheus.Registry (not the
// global default one, so repeated runs in the same test binary do not
// collide on collector registration).
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{
		reg: reg,
		fullCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fifobuffer_full_count",
			Help: "Number of times the producer observed the ring full and waited.",
		}),
		emptyCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fifobuffer_empty_count",
			Help: "Number of times the consumer observed the ring empty and waited.",
		}),
		level: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fifobuffer_level_bytes",
			Help: "Current committed byte count in the ring.",
		}),
	}
	reg.MustRegister(r.fullCount, r.emptyCount, r.level)
	return r
}

// Sample copies a Stats snapshot into the gauges. Call this periodically,
// e.g. alongside the statistics line; the underlying gauges are safe for
// concurrent Set calls.
func (r *Registry) Sample(s fifo.Stats) {
	r.fullCount.Set(float64(s.FullCount))
	r.emptyCount.Set(float64(s.EmptyCount))
	r.level.Set(float64(s.Level))
}

// Serve starts an HTTP server exposing /metrics on addr until ctx is
// canceled. It runs in the caller's goroutine; callers that want this to be
// non-blocking should invoke it via `go`.
func (r *Registry) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		return srv.Close()
	case err := <-errCh:
		return err
	}
}
