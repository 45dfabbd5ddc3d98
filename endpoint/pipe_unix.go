//go:build !windows

package endpoint

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"syscall"
)

// pipePrefix marks a path as denoting a named pipe to be created if it does
// not already exist. POSIX FIFOs live in the regular filesystem namespace,
// so a path prefix (rather than a special URL scheme) is enough to
// recognize one.
const pipePrefix = "/tmp/.fifo-"

func looksLikePipe(path string) bool {
	if strings.HasPrefix(path, pipePrefix) {
		return true
	}
	if fi, err := os.Stat(path); err == nil {
		return fi.Mode()&os.ModeNamedPipe != 0
	}
	return false
}

// pipeInput is the named-pipe Input collaborator. It creates the FIFO if it
// does not exist. Options.PipeSize (-p) is not applied: the FIFO's buffer
// size is whatever the kernel chooses.
type pipeInput struct {
	path string
	opts Options
	f    *os.File
}

func newPipeInput(path string, opts Options) *pipeInput {
	return &pipeInput{path: path, opts: opts}
}

func (in *pipeInput) Initialize(ctx context.Context) error {
	if _, err := os.Stat(in.path); os.IsNotExist(err) {
		if err := syscall.Mkfifo(in.path, 0o644); err != nil {
			return setupErr(in.path, err)
		}
	}
	f, err := os.OpenFile(in.path, os.O_RDONLY, 0)
	if err != nil {
		return setupErr(in.path, err)
	}
	in.f = f
	return nil
}

func (in *pipeInput) ReadData(buf []byte) (int, error) {
	n, err := in.f.Read(buf)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		return n, err
	}
	return n, nil
}

func (in *pipeInput) Close() error {
	if in.f == nil {
		return nil
	}
	return in.f.Close()
}

// pipeOutput is the named-pipe Output collaborator.
type pipeOutput struct {
	path string
	opts Options
	f    *os.File
}

func newPipeOutput(path string, opts Options) *pipeOutput {
	return &pipeOutput{path: path, opts: opts}
}

func (out *pipeOutput) Initialize(ctx context.Context) error {
	if _, err := os.Stat(out.path); os.IsNotExist(err) {
		if err := syscall.Mkfifo(out.path, 0o644); err != nil {
			return setupErr(out.path, err)
		}
	}
	f, err := os.OpenFile(out.path, os.O_WRONLY, 0)
	if err != nil {
		return setupErr(out.path, err)
	}
	out.f = f
	return nil
}

func (out *pipeOutput) WriteData(buf []byte) (int, error) {
	return out.f.Write(buf)
}

func (out *pipeOutput) Close() error {
	if out.f == nil {
		return nil
	}
	return out.f.Close()
}
