package fifo

// CopyDrain wraps a Drain for callers that cannot supply their own
// buffer-pointer and must have the ring copy data in for them. It is outside
// the hot path; prefer Drain directly when possible.
type CopyDrain struct {
	d *Drain
}

// NewCopyDrain wraps d.
func NewCopyDrain(d *Drain) *CopyDrain { return &CopyDrain{d: d} }

// Write repeatedly reserves, copies from src, and commits until all of src
// has been written. It returns 0 on success, or the count of unwritten
// trailing bytes if the consumer has quit (RequestWrite returned 0).
func (c *CopyDrain) Write(src []byte) (residual int) {
	for len(src) > 0 {
		buf, n := c.d.RequestWrite(len(src))
		if n == 0 {
			return len(src)
		}
		copy(buf[:n], src[:n])
		c.d.CommitWrite(buf, n)
		src = src[n:]
	}
	return 0
}

// EndWrite forwards to the wrapped Drain.
func (c *CopyDrain) EndWrite() { c.d.EndWrite() }

// CopySource wraps a Source for callers that cannot accept a caller-supplied
// buffer pointer and must have the ring copy data out for them. It is
// outside the hot path; prefer Source directly when possible.
type CopySource struct {
	s *Source
}

// NewCopySource wraps s.
func NewCopySource(s *Source) *CopySource { return &CopySource{s: s} }

// Read repeatedly reserves, copies into dst, and commits until len(dst)
// bytes have been transferred or a zero-length reservation signals end of
// stream. It returns the number of bytes actually delivered, which is
// len(dst) except at end of stream.
func (c *CopySource) Read(dst []byte) (transferred int) {
	for len(dst) > 0 {
		buf, n := c.s.RequestRead(len(dst))
		if n == 0 {
			break
		}
		copy(dst[:n], buf[:n])
		c.s.CommitRead(buf, n)
		dst = dst[n:]
		transferred += n
	}
	return transferred
}

// EndRead forwards to the wrapped Source.
func (c *CopySource) EndRead() { c.s.EndRead() }
