//go:build windows

package endpoint

import (
	"context"

	stderrors "errors"
)

// Named-pipe support (syscall.Mkfifo) is POSIX-only; on Windows a named-pipe
// specification degrades to a clear setup error rather than silently
// treating the path as a regular file. Win32 named pipes use a different,
// unrelated API (CreateNamedPipe) and are out of scope here.
var errNamedPipeUnsupported = stderrors.New("named pipes are not supported on this platform")

func looksLikePipe(path string) bool { return false }

type pipeInput struct{ path string }

func newPipeInput(path string, opts Options) *pipeInput { return &pipeInput{path: path} }

func (in *pipeInput) Initialize(ctx context.Context) error {
	return setupErr(in.path, errNamedPipeUnsupported)
}
func (in *pipeInput) ReadData(buf []byte) (int, error) { return 0, errNamedPipeUnsupported }
func (in *pipeInput) Close() error                     { return nil }

type pipeOutput struct{ path string }

func newPipeOutput(path string, opts Options) *pipeOutput { return &pipeOutput{path: path} }

func (out *pipeOutput) Initialize(ctx context.Context) error {
	return setupErr(out.path, errNamedPipeUnsupported)
}
func (out *pipeOutput) WriteData(buf []byte) (int, error) { return 0, errNamedPipeUnsupported }
func (out *pipeOutput) Close() error                      { return nil }
