package bench

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yndnr/syncx-go/internal/telemetry/metric"
	"github.com/yndnr/syncx-go/pkg/cmap"
	"github.com/yndnr/syncx-go/pkg/locks"
	"github.com/yndnr/syncx-go/pkg/queue"
)

// Env carries what every workload shares.
type Env struct {
	// Metrics, when set, is attached as the observer of every syncx
	// primitive a workload creates. It adds per-operation overhead.
	Metrics *metric.Registry
	// OnResult is called after each measurement completes.
	OnResult func(section string, r Result)
}

func (e Env) lockOptions() []locks.Option {
	if e.Metrics == nil {
		return nil
	}
	return []locks.Option{locks.WithObserver(e.Metrics)}
}

func (e Env) mapOptions(shards int) []cmap.Option {
	var opts []cmap.Option
	if shards > 0 {
		opts = append(opts, cmap.WithShardCount(shards))
	}
	if e.Metrics != nil {
		opts = append(opts, cmap.WithObserver(e.Metrics))
	}
	return opts
}

func (e Env) queueOptions() []queue.Option {
	if e.Metrics == nil {
		return nil
	}
	return []queue.Option{queue.WithObserver(e.Metrics)}
}

func (e Env) report(section string, r Result) {
	if e.OnResult != nil {
		e.OnResult(section, r)
	}
}

var errNoWorkers = errors.New("bench: at least one worker is required")

// measurement is the raw timing of one gated run.
type measurement struct {
	elapsed    time.Duration
	avgLatency time.Duration
}

// measure starts workers goroutines, releases them together and waits for
// all of them. Each goroutine runs work once with its slot number and is
// expected to perform ops operations; the per-goroutine duration divided
// by ops gives its latency. The first error cancels ctx for the others.
func measure(ctx context.Context, workers, ops int, work func(ctx context.Context, slot int) error) (measurement, error) {
	if workers < 1 {
		return measurement{}, errNoWorkers
	}
	g, gctx := errgroup.WithContext(ctx)
	gate := make(chan struct{})
	durations := make([]time.Duration, workers)

	var ready sync.WaitGroup
	ready.Add(workers)
	for slot := range workers {
		g.Go(func() error {
			ready.Done()
			<-gate
			start := time.Now()
			err := work(gctx, slot)
			durations[slot] = time.Since(start)
			return err
		})
	}

	ready.Wait()
	wallStart := time.Now()
	close(gate)
	err := g.Wait()
	elapsed := max(time.Since(wallStart), time.Nanosecond)
	if err != nil {
		return measurement{}, err
	}

	var total time.Duration
	for _, d := range durations {
		total += d / time.Duration(max(ops, 1))
	}
	return measurement{
		elapsed:    elapsed,
		avgLatency: total / time.Duration(workers),
	}, nil
}

// newResult converts a measurement covering totalOps operations.
func newResult(impl string, threads, totalOps int, m measurement) Result {
	return Result{
		Implementation: impl,
		Threads:        threads,
		Operations:     totalOps,
		ThroughputOps:  float64(totalOps) / m.elapsed.Seconds(),
		AvgLatencyS:    m.avgLatency.Seconds(),
		ElapsedS:       m.elapsed.Seconds(),
	}
}
