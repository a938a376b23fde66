package bench

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/syncx-go/internal/bench/config"
	"github.com/yndnr/syncx-go/internal/infra/shutdown"
	"github.com/yndnr/syncx-go/internal/telemetry/logger"
	"github.com/yndnr/syncx-go/internal/telemetry/metric"
)

func soakConfig() config.SoakSection {
	cfg := config.Default().Soak
	cfg.Duration = 300 * time.Millisecond
	cfg.Listen = "127.0.0.1:0"
	cfg.Workers = 3
	cfg.KeySpace = 32
	cfg.Report = 50 * time.Millisecond
	return cfg
}

func TestSoak_RunsForDuration(t *testing.T) {
	reg := metric.NewRegistry()
	var scraped string

	summary, err := Soak(context.Background(), SoakOptions{
		Config:  soakConfig(),
		Metrics: reg,
		OnReady: func(addr string) {
			time.Sleep(50 * time.Millisecond)
			resp, err := http.Get("http://" + addr + "/metrics")
			require.NoError(t, err)
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			scraped = string(body)
		},
	})
	require.NoError(t, err)

	assert.Len(t, summary.RunID, 26)
	assert.Equal(t, 3, summary.Workers)
	assert.GreaterOrEqual(t, summary.ElapsedS, 0.25)
	assert.Positive(t, summary.LockRounds)
	assert.Positive(t, summary.MapOps)
	assert.Positive(t, summary.SetOps)
	assert.Positive(t, summary.QueueOps)

	assert.Contains(t, scraped, `syncx_container_size{kind="map",name="soak"}`)
	assert.Contains(t, scraped, `syncx_container_size{kind="set",name="soak"}`)
	assert.Contains(t, scraped, `syncx_container_size{kind="queue",name="soak"}`)
	assert.Contains(t, scraped, "syncx_lock_acquisitions_total")
	assert.Contains(t, scraped, "syncx_queue_transfers_total")

	// The metrics server is gone once Soak returns.
	_, err = http.Get("http://" + summary.MetricsAddr + "/metrics")
	assert.Error(t, err)
}

func TestSoak_Paced(t *testing.T) {
	cfg := soakConfig()
	cfg.Listen = ""
	cfg.Workers = 1
	cfg.Rate = 100
	cfg.Duration = 200 * time.Millisecond

	summary, err := Soak(context.Background(), SoakOptions{Config: cfg})
	require.NoError(t, err)

	total := summary.LockRounds + summary.MapOps + summary.SetOps + summary.QueueOps
	// Burst of 10 plus 100/s for 0.2s, with slack for scheduling.
	assert.LessOrEqual(t, total, int64(60))
	assert.Empty(t, summary.MetricsAddr)
}

func TestSoak_UntracksSizesWhenDone(t *testing.T) {
	cfg := soakConfig()
	cfg.Listen = ""
	cfg.Duration = 50 * time.Millisecond
	reg := metric.NewRegistry()

	var during int
	_, err := Soak(context.Background(), SoakOptions{
		Config:  cfg,
		Metrics: reg,
		OnReady: func(string) { during = testutil.CollectAndCount(reg.Sizes) },
	})
	require.NoError(t, err)

	assert.Equal(t, 3, during)
	assert.Zero(t, testutil.CollectAndCount(reg.Sizes))
}

func TestSoak_ShutdownHandler(t *testing.T) {
	cfg := soakConfig()
	cfg.Duration = 0
	cfg.Listen = ""
	h := shutdown.NewHandler(time.Second)

	done := make(chan error, 1)
	go func() {
		_, err := Soak(context.Background(), SoakOptions{
			Config:   cfg,
			Shutdown: h,
			OnReady: func(string) {
				go func() {
					time.Sleep(50 * time.Millisecond)
					h.Shutdown()
				}()
			},
		})
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("soak did not stop after Shutdown")
	}
}

func TestSoak_ReloadsLogLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: info\n"), 0o644))

	prev := logger.GetLevel()
	t.Cleanup(func() { logger.SetLevel(prev) })

	cfg := soakConfig()
	cfg.Duration = 2 * time.Second
	cfg.Listen = ""
	cfg.Watch = true

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var summary *SoakSummary
	done := make(chan error, 1)
	go func() {
		var err error
		summary, err = Soak(ctx, SoakOptions{
			Config:     cfg,
			ConfigPath: path,
			Reload:     func() (*config.BenchConfig, error) { return config.Load(path, nil) },
			OnReady: func(string) {
				assert.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644))
			},
		})
		done <- err
	}()

	require.Eventually(t, func() bool { return logger.GetLevel() == "debug" }, 2*time.Second, 10*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
	assert.Positive(t, summary.Reloads)
}
