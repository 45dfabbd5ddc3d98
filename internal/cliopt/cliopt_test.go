package cliopt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	opts, err := Parse([]string{"in.bin", "out.bin"})
	require.NoError(t, err)
	assert.Equal(t, "in.bin", opts.Input)
	assert.Equal(t, "out.bin", opts.Output)
	assert.Equal(t, uint64(65536), opts.Capacity)
	assert.Equal(t, uint64(65536/4), opts.RequestSize)
	assert.Equal(t, uint64(8192), opts.PipeSize)
	assert.Equal(t, 0.0, opts.HighFraction())
	assert.Equal(t, 1.0, opts.LowFraction())
	assert.False(t, opts.EnableCache)
	assert.False(t, opts.StatsInput)
	assert.False(t, opts.StatsOutput)
}

func TestParseRequestSizeDefaultLargeCapacity(t *testing.T) {
	opts, err := Parse([]string{"in.bin", "out.bin", "-b=1m"})
	require.NoError(t, err)
	assert.Equal(t, uint64(1024*1024), opts.Capacity)
	assert.Equal(t, uint64(1024*1024/8), opts.RequestSize)
}

func TestParseSuffixedSizes(t *testing.T) {
	opts, err := Parse([]string{"in.bin", "out.bin", "-b=64k", "-p=1m", "-r=2k"})
	require.NoError(t, err)
	assert.Equal(t, uint64(64*1024), opts.Capacity)
	assert.Equal(t, uint64(1024*1024), opts.PipeSize)
	assert.Equal(t, uint64(2*1024), opts.RequestSize)
}

func TestParseWatermarks(t *testing.T) {
	opts, err := Parse([]string{"in.bin", "out.bin", "-b=1024", "-h=512", "-l=256"})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, opts.HighFraction(), 1e-9)
	assert.InDelta(t, 0.25, opts.LowFraction(), 1e-9)

	opts, err = Parse([]string{"in.bin", "out.bin", "-h=25%", "-l=75%"})
	require.NoError(t, err)
	assert.InDelta(t, 0.25, opts.HighFraction(), 1e-9)
	assert.InDelta(t, 0.75, opts.LowFraction(), 1e-9)
}

func TestParseStatsShorthand(t *testing.T) {
	opts, err := Parse([]string{"in.bin", "out.bin", "-s"})
	require.NoError(t, err)
	assert.True(t, opts.StatsInput)
	assert.True(t, opts.StatsOutput)
}

func TestParseNoEndpointsIsUsage(t *testing.T) {
	_, err := Parse(nil)
	assert.Equal(t, ErrUsage, err)
	assert.Equal(t, 48, ExitCodeForSyntax(err))
}

func TestParseOneEndpointIsSyntaxError(t *testing.T) {
	_, err := Parse([]string{"in.bin"})
	require.Error(t, err)
	assert.Equal(t, 49, ExitCodeForSyntax(err))
}

// TestBadOptionIsSyntaxError checks that `-b=-1` is rejected with a syntax
// error (exit 49), never attempting a transfer.
func TestBadOptionIsSyntaxError(t *testing.T) {
	_, err := Parse([]string{"in.bin", "out.bin", "-b=-1"})
	require.Error(t, err)
	assert.Equal(t, 49, ExitCodeForSyntax(err))
}

// TestZeroRequestSizeIsSyntaxError checks that `-r=0` is rejected with a
// syntax error (exit 49) rather than reaching the workers, where a zero
// request size would panic inside the ring buffer's reservation calls.
func TestZeroRequestSizeIsSyntaxError(t *testing.T) {
	_, err := Parse([]string{"in.bin", "out.bin", "-r=0"})
	require.Error(t, err)
	assert.Equal(t, 49, ExitCodeForSyntax(err))
}

// TestZeroPipeSizeIsSyntaxError mirrors TestZeroRequestSizeIsSyntaxError for
// `-p=0`.
func TestZeroPipeSizeIsSyntaxError(t *testing.T) {
	_, err := Parse([]string{"in.bin", "out.bin", "-p=0"})
	require.Error(t, err)
	assert.Equal(t, 49, ExitCodeForSyntax(err))
}

func TestUnknownOptionIsSyntaxError(t *testing.T) {
	_, err := Parse([]string{"in.bin", "out.bin", "-zz"})
	require.Error(t, err)
}

func TestExtraPositionalIsSyntaxError(t *testing.T) {
	_, err := Parse([]string{"in.bin", "out.bin", "extra.bin"})
	require.Error(t, err)
}
