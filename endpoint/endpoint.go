// Package endpoint implements the external collaborators at their interface
// only: a blocking-Initialize, blocking-ReadData input endpoint and a
// blocking-Initialize, blocking-WriteData output endpoint, selected from a
// specification string by a small tagged-choice factory in place of a
// class hierarchy.
package endpoint

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// Kind tags which concrete endpoint a specification selects.
type Kind int

const (
	KindFile Kind = iota
	KindStdStream
	KindNamedPipe
	KindTCPDial
	KindTCPListen
)

// tcpPrefix is the URL prefix selecting a TCP endpoint. The
// backslash-prefixed DOS variant is normalized away before parsing ever
// sees it (see internal/cliopt's slash normalization).
const tcpPrefix = "tcpip://"

// Input is the blocking-Initialize, blocking-ReadData producer-side
// collaborator.
type Input interface {
	// Initialize may block, e.g. accepting a TCP connection. A failure
	// here is a setup failure.
	Initialize(ctx context.Context) error
	// ReadData blocks until data is available. n == 0 means end of input.
	ReadData(buf []byte) (n int, err error)
	// Close releases underlying handles.
	Close() error
}

// Output is the blocking-Initialize, blocking-WriteData consumer-side
// collaborator.
type Output interface {
	Initialize(ctx context.Context) error
	// WriteData blocks until data is accepted. n == 0 is an error: the
	// destination refuses more data.
	WriteData(buf []byte) (n int, err error)
	Close() error
}

// SetupError wraps the failure of Initialize (open/bind/connect) with the
// endpoint specification that caused it. The driver maps this to a
// dedicated setup-failure exit code.
type SetupError struct {
	Spec string
	Err  error
}

func (e *SetupError) Error() string {
	return errors.Wrapf(e.Err, "failed to initialize endpoint %q", e.Spec).Error()
}

func (e *SetupError) Unwrap() error { return e.Err }

func setupErr(spec string, err error) error {
	if err == nil {
		return nil
	}
	return &SetupError{Spec: spec, Err: err}
}

// Options carries the CLI-derived settings that affect how an endpoint is
// opened: file-cache enable, and the buffer size for a created named pipe.
type Options struct {
	EnableCache bool
	PipeSize    int
}

// classify parses an endpoint specification into a Kind and the remainder
// string the concrete constructor needs (host:port for TCP, a path
// otherwise). "-" is the standalone standard-stream marker.
func classify(spec string) (Kind, string) {
	if spec == "-" {
		return KindStdStream, ""
	}
	if strings.HasPrefix(spec, tcpPrefix) {
		rest := spec[len(tcpPrefix):]
		if host, _, ok := strings.Cut(rest, ":"); ok && host == "" {
			return KindTCPListen, rest
		}
		return KindTCPDial, rest
	}
	if looksLikePipe(spec) {
		return KindNamedPipe, spec
	}
	return KindFile, spec
}

// NewInput builds the Input collaborator selected by spec.
func NewInput(spec string, opts Options) (Input, error) {
	kind, rest := classify(spec)
	switch kind {
	case KindStdStream:
		return newStdInput(), nil
	case KindTCPDial:
		return newTCPDialInput(rest), nil
	case KindTCPListen:
		return newTCPListenInput(rest), nil
	case KindNamedPipe:
		return newPipeInput(rest, opts), nil
	default:
		return newFileInput(rest, opts), nil
	}
}

// NewOutput builds the Output collaborator selected by spec.
func NewOutput(spec string, opts Options) (Output, error) {
	kind, rest := classify(spec)
	switch kind {
	case KindStdStream:
		return newStdOutput(), nil
	case KindTCPDial:
		return newTCPDialOutput(rest), nil
	case KindTCPListen:
		return newTCPListenOutput(rest), nil
	case KindNamedPipe:
		return newPipeOutput(rest, opts), nil
	default:
		return newFileOutput(rest, opts), nil
	}
}
