// Package worker implements the producer/consumer loops and thread
// launcher: the fifo package's only caller, and the place its concurrency
// contract (exactly one caller per Drain/Source) gets fixed by
// construction.
package worker

import (
	"context"
	"sync"

	"github.com/drgolem/fifobuffer/endpoint"
	"github.com/drgolem/fifobuffer/fifo"
	"github.com/drgolem/fifobuffer/internal/exitcode"
	"github.com/drgolem/fifobuffer/internal/perfcount"
)

// Logger is the subset of internal/logsink.Sink the workers need.
type Logger interface {
	Info(msg string)
	Debug(msg string)
	Error(msg string, err error)
}

// RunProducer drives the input endpoint into d until the input ends, the
// consumer quits, or the endpoint fails. It always calls d.EndWrite before
// returning, and maps a core *fifo.LogicError panic to
// exitcode.LogicError. counter may be nil, meaning statistics are disabled
// for this side.
func RunProducer(ctx context.Context, in endpoint.Input, d *fifo.Drain, requestSize int, log Logger, counter *perfcount.Counter) (result int) {
	defer d.EndWrite()
	defer recoverLogicError(log, "producer", &result)

	if err := in.Initialize(ctx); err != nil {
		log.Error("producer: endpoint setup failed", err)
		return exitcode.SetupFailed
	}
	defer in.Close()

	for {
		buf, n := d.RequestWrite(requestSize)
		if n == 0 {
			log.Debug("producer: consumer ended the stream")
			return exitcode.OK
		}
		m, err := in.ReadData(buf[:n])
		if err != nil {
			log.Error("producer: input read failed", err)
			return exitcode.InputFailed
		}
		if m == 0 {
			log.Debug("producer: end of input reached")
			return exitcode.OK
		}
		d.CommitWrite(buf, m)
		counter.Update(m)
	}
}

// RunConsumer drives s into the output endpoint until end of stream, the
// destination fails, or the destination refuses data (WriteData returning
// 0, a fatal condition). It always calls s.EndRead before returning.
// counter may be nil, meaning statistics are disabled for this side.
func RunConsumer(ctx context.Context, out endpoint.Output, s *fifo.Source, requestSize int, log Logger, counter *perfcount.Counter) (result int) {
	defer s.EndRead()
	defer recoverLogicError(log, "consumer", &result)

	if err := out.Initialize(ctx); err != nil {
		log.Error("consumer: endpoint setup failed", err)
		return exitcode.SetupFailed
	}
	defer out.Close()

	for {
		buf, n := s.RequestRead(requestSize)
		if n == 0 {
			log.Debug("consumer: end of stream reached")
			return exitcode.OK
		}
		m, err := out.WriteData(buf[:n])
		if err != nil {
			log.Error("consumer: output write failed", err)
			return exitcode.OutputFailed
		}
		if m == 0 {
			log.Error("consumer: destination refused to accept data", nil)
			return exitcode.OutputFailed
		}
		s.CommitRead(buf, m)
		counter.Update(m)
	}
}

func recoverLogicError(log Logger, who string, result *int) {
	r := recover()
	if r == nil {
		return
	}
	if le, ok := r.(*fifo.LogicError); ok {
		log.Error(who+": internal logic error", le)
		*result = exitcode.LogicError
		return
	}
	panic(r)
}

// Launcher runs the producer on a new goroutine and the consumer on the
// calling goroutine, then joins the producer.
type Launcher struct{}

// Run starts both workers and returns their result codes once both have
// finished. requestSize is the preferred per-call request size (-r).
// inputCounter/outputCounter may each be nil to disable that side's
// statistics.
func (Launcher) Run(ctx context.Context, in endpoint.Input, out endpoint.Output, ring *fifo.Ring, requestSize int, log Logger, inputCounter, outputCounter *perfcount.Counter) (inputResult, outputResult int) {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		inputResult = RunProducer(ctx, in, ring.Drain(), requestSize, log, inputCounter)
	}()

	outputResult = RunConsumer(ctx, out, ring.Source(), requestSize, log, outputCounter)
	wg.Wait()
	return inputResult, outputResult
}
