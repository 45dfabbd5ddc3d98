package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drgolem/fifobuffer/internal/exitcode"
)

func TestRunCopiesFileToFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.bin")
	dst := filepath.Join(dir, "out.bin")

	payload := bytes.Repeat([]byte("fifobuffer integration test\n"), 500)
	require.NoError(t, os.WriteFile(src, payload, 0o644))

	code := run([]string{src, dst, "-b=4k", "-r=512"}, diagFile(t))
	assert.Equal(t, exitcode.OK, code)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestRunMissingInputIsSetupFailure(t *testing.T) {
	dir := t.TempDir()
	code := run([]string{filepath.Join(dir, "missing.bin"), filepath.Join(dir, "out.bin")}, diagFile(t))
	assert.Equal(t, exitcode.SetupFailed, code)
}

func TestRunNoEndpointsIsUsage(t *testing.T) {
	code := run(nil, diagFile(t))
	assert.Equal(t, exitcode.Usage, code)
}

func TestRunBadOptionIsSyntaxError(t *testing.T) {
	code := run([]string{"in.bin", "out.bin", "-b=-1"}, diagFile(t))
	assert.Equal(t, exitcode.SyntaxError, code)
}

// diagFile gives run() a real *os.File (logsink probes Fd() to decide
// whether to colorize), backed by a throwaway file whose contents we don't
// assert on in these tests.
func diagFile(t *testing.T) *os.File {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "diag")
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}
