package metrics

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drgolem/fifobuffer/fifo"
)

func TestSampleUpdatesGauges(t *testing.T) {
	reg := NewRegistry()
	reg.Sample(fifo.Stats{FullCount: 3, EmptyCount: 5, Level: 42})

	mfs, err := reg.reg.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range mfs {
		values[mf.GetName()] = mf.Metric[0].GetGauge().GetValue()
	}
	assert.Equal(t, 3.0, values["fifobuffer_full_count"])
	assert.Equal(t, 5.0, values["fifobuffer_empty_count"])
	assert.Equal(t, 42.0, values["fifobuffer_level_bytes"])
}

func TestServeExposesMetricsEndpoint(t *testing.T) {
	reg := NewRegistry()
	reg.Sample(fifo.Stats{Level: 7})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := "127.0.0.1:19191"
	errCh := make(chan error, 1)
	go func() { errCh <- reg.Serve(ctx, addr) }()

	var resp *http.Response
	var err error
	for i := 0; i < 50; i++ {
		resp, err = http.Get(fmt.Sprintf("http://%s/metrics", addr))
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "fifobuffer_level_bytes 7")

	cancel()
	<-errCh
}
