package endpoint

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		spec string
		kind Kind
	}{
		{"-", KindStdStream},
		{"tcpip://:9000", KindTCPListen},
		{"tcpip://example.com:9000", KindTCPDial},
		{"/var/tmp/out.bin", KindFile},
	}
	for _, c := range cases {
		kind, _ := classify(c.spec)
		assert.Equal(t, c.kind, kind, c.spec)
	}
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")

	out, err := NewOutput(path, Options{EnableCache: true})
	require.NoError(t, err)
	require.NoError(t, out.Initialize(context.Background()))
	n, err := out.WriteData([]byte("hello endpoint"))
	require.NoError(t, err)
	assert.Equal(t, 14, n)
	require.NoError(t, out.Close())

	in, err := NewInput(path, Options{EnableCache: true})
	require.NoError(t, err)
	require.NoError(t, in.Initialize(context.Background()))
	buf := make([]byte, 64)
	n, err = in.ReadData(buf)
	require.NoError(t, err)
	assert.Equal(t, "hello endpoint", string(buf[:n]))
	require.NoError(t, in.Close())
}

func TestFileInputSetupError(t *testing.T) {
	in, err := NewInput(filepath.Join(t.TempDir(), "missing.bin"), Options{})
	require.NoError(t, err)
	err = in.Initialize(context.Background())
	require.Error(t, err)
	var setupErr *SetupError
	assert.ErrorAs(t, err, &setupErr)
}

func TestTCPListenAndDial(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	addr := "tcpip://:" + strconv.Itoa(port)
	listenOut, err := NewOutput(addr, Options{})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- listenOut.Initialize(context.Background()) }()

	dialIn, err := NewInput("tcpip://127.0.0.1:"+strconv.Itoa(port), Options{})
	require.NoError(t, err)
	require.NoError(t, dialIn.Initialize(context.Background()))

	require.NoError(t, <-done)

	n, err := listenOut.WriteData([]byte("ping"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	buf := make([]byte, 16)
	n, err = dialIn.ReadData(buf)
	require.NoError(t, err)
	assert.Equal(t, "ping", string(buf[:n]))

	require.NoError(t, dialIn.Close())
	require.NoError(t, listenOut.Close())
}

func TestPipeRoundTrip(t *testing.T) {
	if os.Getenv("CI_NO_FIFO") != "" {
		t.Skip("named pipes unavailable")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "mypipe")

	out, err := NewOutput(path, Options{})
	require.NoError(t, err)
	in, err := NewInput(path, Options{})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- out.Initialize(context.Background()) }()

	require.NoError(t, in.Initialize(context.Background()))
	require.NoError(t, <-done)

	go func() {
		out.WriteData([]byte("fifo"))
		out.Close()
	}()

	buf := make([]byte, 16)
	n, err := in.ReadData(buf)
	require.NoError(t, err)
	assert.Equal(t, "fifo", string(buf[:n]))
	require.NoError(t, in.Close())
}

