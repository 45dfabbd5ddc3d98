// Package fifo implements a zero-copy, two-goroutine ring FIFO with
// watermark-driven flow control and cooperative cancellation.
//
// # Thread Safety
//
// A Ring is shared by exactly two goroutines: one calls only Drain methods
// (the producer) and one calls only Source methods (the consumer). Both
// views are obtained from the Ring returned by New (Ring.Drain and
// Ring.Source) and must not be used concurrently from
// more than their one owning goroutine — this is a single-producer,
// single-consumer design, not a general-purpose concurrent queue.
//
// # Zero-Copy Usage
//
//	r, _ := fifo.New(1 << 16)
//	d, s := r.Drain(), r.Source()
//
//	go func() {
//	    defer d.EndWrite()
//	    for {
//	        buf, n := d.RequestWrite(4096)
//	        if n == 0 {
//	            return // consumer quit
//	        }
//	        m, err := in.ReadData(buf[:n])
//	        d.CommitWrite(buf, m)
//	        if m == 0 || err != nil {
//	            return
//	        }
//	    }
//	}()
//
//	defer s.EndRead()
//	for {
//	    buf, n := s.RequestRead(4096)
//	    if n == 0 {
//	        break // end of stream
//	    }
//	    out.WriteData(buf[:n])
//	    s.CommitRead(buf, n)
//	}
//
// # Watermarks
//
// High and low watermarks implement hysteresis so a single-byte transition
// does not wake the peer on every commit: the consumer, once it slept on an
// empty ring, stays asleep until at least the high watermark is available
// (or end of stream); the producer, once it slept on a full ring, stays
// asleep until at most the low watermark remains (or end of stream).
package fifo
