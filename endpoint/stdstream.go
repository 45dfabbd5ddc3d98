package endpoint

import (
	"context"
	"errors"
	"io"
	"os"
)

// stdInput wraps os.Stdin as the "-" Input collaborator.
type stdInput struct{}

func newStdInput() *stdInput { return &stdInput{} }

func (*stdInput) Initialize(ctx context.Context) error { return nil }

func (*stdInput) ReadData(buf []byte) (int, error) {
	n, err := os.Stdin.Read(buf)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		return n, err
	}
	return n, nil
}

// Close is a no-op: standard input is not ours to close.
func (*stdInput) Close() error { return nil }

// stdOutput wraps os.Stdout as the "-" Output collaborator.
type stdOutput struct{}

func newStdOutput() *stdOutput { return &stdOutput{} }

func (*stdOutput) Initialize(ctx context.Context) error { return nil }

func (*stdOutput) WriteData(buf []byte) (int, error) {
	return os.Stdout.Write(buf)
}

// Close is a no-op: standard output is not ours to close.
func (*stdOutput) Close() error { return nil }
