// Package cliopt parses the command-line surface: a bespoke grammar of
// interleaved positional endpoint specifications and single-dash
// `-flag=value` options, unlike anything a standard flag library
// (cobra/pflag/stdlib flag) assumes — see DESIGN.md for why this one
// concern is hand-written.
package cliopt

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/drgolem/fifobuffer/internal/exitcode"
)

// defaultCapacity is the -b default.
const defaultCapacity = 65536

// defaultPipeSize is the -p default.
const defaultPipeSize = 8192

// SyntaxError is a command-line syntax error; the driver maps it to
// exitcode.SyntaxError (49) and prints it alongside usage.
type SyntaxError struct {
	Msg string
}

func (e *SyntaxError) Error() string { return e.Msg }

func syntaxErrorf(format string, args ...any) *SyntaxError {
	return &SyntaxError{Msg: fmt.Sprintf(format, args...)}
}

// ErrUsage is returned when no endpoints were supplied at all
// (exitcode.Usage / 48): the driver should print usage and exit, not an
// error message.
var ErrUsage = &SyntaxError{Msg: "usage: fifocopy <input> <output> [options]"}

// Watermark is a watermark level expressed either as an absolute byte count
// or as a fraction of capacity (a trailing '%' in the CLI token).
type Watermark struct {
	Bytes    uint64
	Fraction float64
	IsPct    bool
}

// Options is the fully parsed and resolved command line.
type Options struct {
	Input  string
	Output string

	Capacity    uint64
	RequestSize uint64
	PipeSize    uint64
	High        Watermark
	Low         Watermark
	EnableCache bool
	StatsInput  bool
	StatsOutput bool

	MetricsAddr string
	Verbose     bool
}

// HighFraction resolves the high watermark to a [0,1] fraction of Capacity.
func (o Options) HighFraction() float64 { return o.High.resolve(o.Capacity) }

// LowFraction resolves the low watermark to a [0,1] fraction of Capacity.
func (o Options) LowFraction() float64 { return o.Low.resolve(o.Capacity) }

func (w Watermark) resolve(capacity uint64) float64 {
	if w.IsPct {
		return w.Fraction
	}
	if capacity == 0 {
		return 0
	}
	f := float64(w.Bytes) / float64(capacity)
	if f > 1 {
		f = 1
	}
	return f
}

// rawOptions accumulates CLI tokens before defaults and cross-references
// (request size depends on capacity; watermark-byte depends on capacity)
// are resolved.
type rawOptions struct {
	positional []string

	capacity    *string
	requestSize *string
	pipeSize    *string
	high        *string
	low         *string
	enableCache bool
	statsInput  bool
	statsOutput bool
	metrics     *string
	verbose     bool
}

// Parse parses args (as in os.Args[1:]).
func Parse(args []string) (Options, error) {
	raw, err := scan(args)
	if err != nil {
		return Options{}, err
	}
	if len(raw.positional) == 0 {
		return Options{}, ErrUsage
	}
	if len(raw.positional) < 2 {
		return Options{}, syntaxErrorf("both an input and an output specification are required")
	}
	if len(raw.positional) > 2 {
		return Options{}, syntaxErrorf("unexpected extra argument %q", raw.positional[2])
	}

	opts := Options{
		Input:       raw.positional[0],
		Output:      raw.positional[1],
		EnableCache: raw.enableCache,
		StatsInput:  raw.statsInput,
		StatsOutput: raw.statsOutput,
		Verbose:     raw.verbose,
	}

	capacity := uint64(defaultCapacity)
	if raw.capacity != nil {
		v, err := parseSize(*raw.capacity)
		if err != nil {
			return Options{}, syntaxErrorf("-b: %v", err)
		}
		if v == 0 {
			return Options{}, syntaxErrorf("-b: capacity must be > 0")
		}
		capacity = v
	}
	opts.Capacity = capacity

	requestSize := capacity / 4
	if capacity >= 256*1024 {
		requestSize = capacity / 8
	}
	if requestSize == 0 {
		requestSize = capacity
	}
	if raw.requestSize != nil {
		v, err := parseSize(*raw.requestSize)
		if err != nil {
			return Options{}, syntaxErrorf("-r: %v", err)
		}
		if v == 0 {
			return Options{}, syntaxErrorf("-r: request size must be > 0")
		}
		requestSize = v
	}
	opts.RequestSize = requestSize

	pipeSize := uint64(defaultPipeSize)
	if raw.pipeSize != nil {
		v, err := parseSize(*raw.pipeSize)
		if err != nil {
			return Options{}, syntaxErrorf("-p: %v", err)
		}
		if v == 0 {
			return Options{}, syntaxErrorf("-p: pipe size must be > 0")
		}
		pipeSize = v
	}
	opts.PipeSize = pipeSize

	high, err := parseWatermark(stringOr(raw.high, "0"))
	if err != nil {
		return Options{}, syntaxErrorf("-h: %v", err)
	}
	opts.High = high

	low, err := parseWatermark(stringOr(raw.low, "100%"))
	if err != nil {
		return Options{}, syntaxErrorf("-l: %v", err)
	}
	opts.Low = low

	if raw.metrics != nil {
		opts.MetricsAddr = *raw.metrics
	}

	return opts, nil
}

func stringOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

// scan tokenizes args into positionals and recognized options, normalizing
// forward slashes to backslashes in positional tokens on non-Unix hosts.
func scan(args []string) (rawOptions, error) {
	var raw rawOptions
	for _, arg := range args {
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			raw.positional = append(raw.positional, normalizePath(arg))
			continue
		}

		body := arg[1:]
		name, value, hasValue := strings.Cut(body, "=")

		switch name {
		case "b":
			if !hasValue {
				return raw, syntaxErrorf("-b requires a value")
			}
			raw.capacity = &value
		case "r":
			if !hasValue {
				return raw, syntaxErrorf("-r requires a value")
			}
			raw.requestSize = &value
		case "p":
			if !hasValue {
				return raw, syntaxErrorf("-p requires a value")
			}
			raw.pipeSize = &value
		case "h":
			if !hasValue {
				return raw, syntaxErrorf("-h requires a value")
			}
			raw.high = &value
		case "l":
			if !hasValue {
				return raw, syntaxErrorf("-l requires a value")
			}
			raw.low = &value
		case "c":
			raw.enableCache = true
		case "si":
			raw.statsInput = true
		case "so":
			raw.statsOutput = true
		case "s":
			raw.statsInput = true
			raw.statsOutput = true
		case "metrics":
			if !hasValue {
				return raw, syntaxErrorf("-metrics requires a value")
			}
			raw.metrics = &value
		case "v":
			raw.verbose = true
		default:
			return raw, syntaxErrorf("unknown option %q", arg)
		}
	}
	return raw, nil
}

// normalizePath normalizes forward slashes to backslashes on non-Unix
// hosts.
func normalizePath(spec string) string {
	if runtime.GOOS != "windows" {
		return spec
	}
	if strings.HasPrefix(spec, "tcpip://") {
		return spec
	}
	if rest, ok := strings.CutPrefix(spec, `tcpip:\\`); ok {
		return "tcpip://" + rest
	}
	return strings.ReplaceAll(spec, "/", `\`)
}

// parseSize converts plain byte counts and `k|m|g` (×1024^{1,2,3})
// suffixed sizes.
func parseSize(s string) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}
	if v, err := strconv.ParseUint(s, 10, 64); err == nil {
		return v, nil
	}

	lower := strings.ToLower(s)
	var multiplier uint64
	var numPart string
	switch {
	case strings.HasSuffix(lower, "k"):
		multiplier, numPart = 1024, lower[:len(lower)-1]
	case strings.HasSuffix(lower, "m"):
		multiplier, numPart = 1024*1024, lower[:len(lower)-1]
	case strings.HasSuffix(lower, "g"):
		multiplier, numPart = 1024*1024*1024, lower[:len(lower)-1]
	default:
		return 0, fmt.Errorf("invalid size %q (want a plain byte count or a k|m|g suffixed value)", s)
	}

	v, err := strconv.ParseUint(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %v", s, err)
	}
	return v * multiplier, nil
}

// parseWatermark parses a `-h=<level>`/`-l=<level>` value: a trailing '%'
// makes it a fraction of capacity, otherwise it is an absolute byte count
// (itself accepting the same k|m|g suffixes as -b/-r).
func parseWatermark(s string) (Watermark, error) {
	if strings.HasSuffix(s, "%") {
		numPart := strings.TrimSuffix(s, "%")
		v, err := strconv.ParseFloat(numPart, 64)
		if err != nil {
			return Watermark{}, fmt.Errorf("invalid percentage %q: %v", s, err)
		}
		if v < 0 || v > 100 {
			return Watermark{}, fmt.Errorf("percentage %q out of [0,100]", s)
		}
		return Watermark{Fraction: v / 100, IsPct: true}, nil
	}
	v, err := parseSize(s)
	if err != nil {
		return Watermark{}, err
	}
	return Watermark{Bytes: v}, nil
}

// ExitCodeForSyntax returns the exit code for a syntax error.
func ExitCodeForSyntax(err error) int {
	if err == ErrUsage {
		return exitcode.Usage
	}
	return exitcode.SyntaxError
}
