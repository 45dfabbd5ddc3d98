package endpoint

import (
	"context"
	"errors"
	"io"
	"os"
)

// fileInput is the regular-file Input collaborator. EnableCache toggles the
// OS page cache; when disabled the file is opened with O_SYNC.
type fileInput struct {
	path string
	opts Options
	f    *os.File
}

func newFileInput(path string, opts Options) *fileInput {
	return &fileInput{path: path, opts: opts}
}

func (in *fileInput) Initialize(ctx context.Context) error {
	flags := os.O_RDONLY
	if !in.opts.EnableCache {
		flags |= os.O_SYNC
	}
	f, err := os.OpenFile(in.path, flags, 0)
	if err != nil {
		return setupErr(in.path, err)
	}
	in.f = f
	return nil
}

func (in *fileInput) ReadData(buf []byte) (int, error) {
	n, err := in.f.Read(buf)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		return n, err
	}
	return n, nil
}

func (in *fileInput) Close() error {
	if in.f == nil {
		return nil
	}
	return in.f.Close()
}

// fileOutput is the regular-file Output collaborator.
type fileOutput struct {
	path string
	opts Options
	f    *os.File
}

func newFileOutput(path string, opts Options) *fileOutput {
	return &fileOutput{path: path, opts: opts}
}

func (out *fileOutput) Initialize(ctx context.Context) error {
	flags := os.O_CREATE | os.O_TRUNC | os.O_WRONLY
	if !out.opts.EnableCache {
		flags |= os.O_SYNC
	}
	f, err := os.OpenFile(out.path, flags, 0o644)
	if err != nil {
		return setupErr(out.path, err)
	}
	out.f = f
	return nil
}

func (out *fileOutput) WriteData(buf []byte) (int, error) {
	return out.f.Write(buf)
}

func (out *fileOutput) Close() error {
	if out.f == nil {
		return nil
	}
	return out.f.Close()
}
