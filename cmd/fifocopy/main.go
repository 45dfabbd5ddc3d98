// Command fifocopy streams bytes from one endpoint to another through a
// bounded, watermarked ring buffer, using one goroutine for the producer
// and the calling goroutine for the consumer.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/drgolem/fifobuffer/endpoint"
	"github.com/drgolem/fifobuffer/fifo"
	"github.com/drgolem/fifobuffer/internal/cliopt"
	"github.com/drgolem/fifobuffer/internal/exitcode"
	"github.com/drgolem/fifobuffer/internal/logsink"
	"github.com/drgolem/fifobuffer/internal/metrics"
	"github.com/drgolem/fifobuffer/internal/perfcount"
	"github.com/drgolem/fifobuffer/internal/worker"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, diag *os.File) int {
	opts, err := cliopt.Parse(args)
	if err != nil {
		if err == cliopt.ErrUsage {
			fmt.Fprintln(diag, err)
			return exitcode.Usage
		}
		fmt.Fprintln(diag, err)
		return exitcode.SyntaxError
	}

	log := logsink.New(diag, opts.Verbose)
	defer log.Close()

	ring, err := fifo.New(opts.Capacity,
		fifo.WithWatermarks(opts.HighFraction(), opts.LowFraction()),
		fifo.WithAlignment(1),
	)
	if err != nil {
		log.Error("could not build ring buffer", err)
		return exitcode.LogicError
	}

	in, err := endpoint.NewInput(opts.Input, endpoint.Options{EnableCache: opts.EnableCache, PipeSize: int(opts.PipeSize)})
	if err != nil {
		log.Error("could not set up input endpoint", err)
		return exitcode.SetupFailed
	}
	out, err := endpoint.NewOutput(opts.Output, endpoint.Options{EnableCache: opts.EnableCache, PipeSize: int(opts.PipeSize)})
	if err != nil {
		log.Error("could not set up output endpoint", err)
		return exitcode.SetupFailed
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		if _, ok := <-sigCh; ok {
			log.Info("received shutdown signal, cancelling setup")
			cancel()
		}
	}()

	if opts.MetricsAddr != "" {
		reg := metrics.NewRegistry()
		go func() {
			if err := reg.Serve(ctx, opts.MetricsAddr); err != nil {
				log.Debug("metrics server stopped: " + err.Error())
			}
		}()
		stop := sampleLoop(ctx, ring, reg)
		defer stop()
	}

	var inputCounter, outputCounter *perfcount.Counter
	if opts.StatsInput {
		inputCounter = perfcount.New()
	}
	if opts.StatsOutput {
		outputCounter = perfcount.New()
	}
	if opts.StatsInput || opts.StatsOutput {
		stop := statsLoop(ctx, ring, log, inputCounter, outputCounter)
		defer stop()
	}

	var launcher worker.Launcher
	inputResult, outputResult := launcher.Run(ctx, in, out, ring, int(opts.RequestSize), log, inputCounter, outputCounter)

	log.Debug(fmt.Sprintf("producer exited with %d, consumer exited with %d", inputResult, outputResult))
	return exitcode.Combine(inputResult, outputResult)
}

// sampleLoop periodically copies the ring's counters into the metrics
// registry until ctx is canceled or the returned stop function is called.
func sampleLoop(ctx context.Context, ring *fifo.Ring, reg *metrics.Registry) func() {
	stop := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case <-ticker.C:
				reg.Sample(ring.Stats())
			}
		}
	}()
	return func() {
		close(stop)
		<-finished
	}
}

// statsLoop rewrites a one-line transfer summary in place until stopped,
// reporting each enabled side's throughput and average block size alongside
// the ring's fill level and full/empty counts. inputCounter/outputCounter
// are nil when their side's reporting (-si/-so) is disabled.
func statsLoop(ctx context.Context, ring *fifo.Ring, log *logsink.Sink, inputCounter, outputCounter *perfcount.Counter) func() {
	stop := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case <-ticker.C:
				s := ring.Stats()
				line := fmt.Sprintf("level=%d/%d full=%d empty=%d", s.Level, ring.Capacity(), s.FullCount, s.EmptyCount)
				if inputCounter != nil {
					is := inputCounter.Snapshot()
					line += fmt.Sprintf(" input=%.1fkiB@%.1fkiB/s,%.1fkiB/blk", float64(is.Bytes)/1024, is.RateKiBPerSec(), is.AvgBlockKiB())
				}
				if outputCounter != nil {
					outs := outputCounter.Snapshot()
					line += fmt.Sprintf(" output=%.1fkiB@%.1fkiB/s,%.1fkiB/blk", float64(outs.Bytes)/1024, outs.RateKiBPerSec(), outs.AvgBlockKiB())
				}
				log.Stats(line)
			}
		}
	}()
	return func() {
		close(stop)
		<-finished
	}
}
