// Package logsink implements a diagnostic writer serialized by an external
// mutex (never the fifo state lock), plus an in-place-rewritten statistics
// line.
package logsink

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/agilira/go-timecache"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Sink serializes diagnostic and statistics output to a single stream.
// Every method is safe for concurrent use by both workers; its mutex is
// strictly separate from the ring's state lock and never held while
// touching the ring.
type Sink struct {
	mu         sync.Mutex
	w          io.Writer
	logger     zerolog.Logger
	clock      *timecache.TimeCache
	colored    bool
	statsShown bool
}

// New builds a Sink writing to w. verbose raises the level to debug; w is
// probed with golang.org/x/term to decide whether error output should be
// colorized, which only ever happens on a real TTY.
func New(w io.Writer, verbose bool) *Sink {
	clock := timecache.NewWithResolution(10 * time.Millisecond)

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	zerolog.TimestampFunc = clock.CachedTime
	logger := zerolog.New(w).With().Timestamp().Logger().Level(level)

	s := &Sink{
		w:       w,
		logger:  logger,
		clock:   clock,
		colored: isTerminal(w),
	}
	return s
}

func isTerminal(w io.Writer) bool {
	type fdable interface{ Fd() uintptr }
	f, ok := w.(fdable)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Info logs a self-contained informational line.
func (s *Sink) Info(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Info().Msg(msg)
}

// Debug logs a self-contained debug line (only emitted with -v).
func (s *Sink) Debug(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Debug().Msg(msg)
}

// Error logs a self-contained error line.
func (s *Sink) Error(msg string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := s.logger.Error()
	if err != nil {
		line = line.Err(err)
	}
	if s.colored {
		msg = color.RedString(msg)
	}
	line.Msg(msg)
}

// Stats rewrites the statistics line in place using a carriage return.
// Call Close when the transfer ends to emit a trailing newline, if any
// statistics line was ever shown.
func (s *Sink) Stats(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statsShown = true
	fmt.Fprintf(s.w, "\r%s", line)
}

// Close emits a final newline if any statistics line was ever written, and
// stops the cached clock.
func (s *Sink) Close() {
	s.mu.Lock()
	if s.statsShown {
		fmt.Fprintln(s.w)
	}
	s.mu.Unlock()
	s.clock.Stop()
}
