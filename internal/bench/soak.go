package bench

import (
	"context"
	"errors"
	"math/rand/v2"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/yndnr/syncx-go/internal/bench/config"
	"github.com/yndnr/syncx-go/internal/infra/confloader"
	"github.com/yndnr/syncx-go/internal/infra/shutdown"
	"github.com/yndnr/syncx-go/internal/telemetry/logger"
	"github.com/yndnr/syncx-go/internal/telemetry/metric"
	"github.com/yndnr/syncx-go/pkg/cmap"
	"github.com/yndnr/syncx-go/pkg/host"
	"github.com/yndnr/syncx-go/pkg/locks"
	"github.com/yndnr/syncx-go/pkg/queue"
	"github.com/yndnr/syncx-go/pkg/timeout"
)

// soakQueueSize bounds the soak queue so Full outcomes show up in metrics.
const soakQueueSize = 1024

// SoakOptions configures Soak.
type SoakOptions struct {
	Config config.SoakSection
	// Metrics receives every observation; NewRegistry is used when nil.
	Metrics *metric.Registry
	// ConfigPath is watched when Config.Watch is set. Reload is called on
	// every change and the log level of the result is applied.
	ConfigPath string
	Reload     func() (*config.BenchConfig, error)
	// Shutdown runs the stop hooks; a handler with a 10s timeout listening
	// for SIGINT and SIGTERM is used when nil.
	Shutdown *shutdown.Handler
	// OnReady is called once the workers run, with the metrics address
	// (empty when Config.Listen is empty).
	OnReady func(metricsAddr string)
}

// SoakSummary counts what a soak run did.
type SoakSummary struct {
	RunID       string  `json:"run_id" yaml:"run_id"`
	ElapsedS    float64 `json:"elapsed_s" yaml:"elapsed_s"`
	Workers     int     `json:"workers" yaml:"workers"`
	MetricsAddr string  `json:"metrics_addr,omitempty" yaml:"metrics_addr,omitempty"`
	Reloads     int64   `json:"reloads" yaml:"reloads"`

	LockRounds   int64 `json:"lock_rounds" yaml:"lock_rounds"`
	MapOps       int64 `json:"map_ops" yaml:"map_ops"`
	SetOps       int64 `json:"set_ops" yaml:"set_ops"`
	QueueOps     int64 `json:"queue_ops" yaml:"queue_ops"`
	QueueRefused int64 `json:"queue_refused" yaml:"queue_refused"`
}

// soakState is shared by every soak worker.
type soakState struct {
	mu  *locks.Mutex
	rm  *locks.RMutex
	rw  *locks.RWMutex
	m   *cmap.Map[int64]
	set *cmap.Set
	q   *queue.Queue[int64]

	lockRounds, mapOps, setOps, queueOps, queueRefused, reloads atomic.Int64
}

// Soak drives every primitive from Config.Workers goroutines until
// Config.Duration passes (zero means forever), ctx ends or a termination
// signal arrives. Metrics are served on Config.Listen while it runs.
func Soak(ctx context.Context, opts SoakOptions) (*SoakSummary, error) {
	cfg := opts.Config
	runID := ulid.Make().String()
	ctx = logger.WithWorkload(logger.WithRunID(ctx, runID), "soak")
	log := logger.L(ctx)

	reg := opts.Metrics
	if reg == nil {
		reg = metric.NewRegistry()
	}
	handler := opts.Shutdown
	if handler == nil {
		handler = shutdown.NewHandler(10 * time.Second)
	}

	st := &soakState{
		mu:  locks.NewMutex(locks.WithObserver(reg)),
		rm:  locks.NewRMutex(locks.WithObserver(reg)),
		rw:  locks.NewRWMutex(locks.WithObserver(reg)),
		m:   cmap.New[int64](cmap.WithObserver(reg)),
		set: cmap.NewSet(cmap.WithObserver(reg)),
		q:   queue.New[int64](soakQueueSize, queue.WithObserver(reg)),
	}
	reg.Sizes.Track("map", "soak", st.m)
	reg.Sizes.Track("set", "soak", st.set)
	reg.Sizes.Track("queue", "soak", st.q)

	summary := &SoakSummary{RunID: runID, Workers: cfg.Workers}

	if cfg.Listen != "" {
		ln, err := net.Listen("tcp", cfg.Listen)
		if err != nil {
			return nil, err
		}
		summary.MetricsAddr = ln.Addr().String()
		mux := http.NewServeMux()
		mux.Handle("/metrics", reg.Handler())
		srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server failed", "error", err)
			}
		}()
		handler.OnShutdown(func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		})
		log.Info("serving metrics", "addr", summary.MetricsAddr)
	}

	if cfg.Watch && opts.ConfigPath != "" && opts.Reload != nil {
		w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
		if err != nil {
			return nil, errors.Join(err, handler.Shutdown())
		}
		if err := w.Watch(opts.ConfigPath); err != nil {
			return nil, errors.Join(err, w.Stop(), handler.Shutdown())
		}
		w.OnChange(func(path string) {
			next, err := opts.Reload()
			if err != nil {
				log.Warn("configuration reload rejected", "path", path, "error", err)
				return
			}
			logger.SetLevel(next.Log.Level)
			st.reloads.Add(1)
			log.Info("configuration reloaded", "path", path, "log_level", next.Log.Level)
		})
		w.StartAsync()
		handler.OnShutdown(func(context.Context) error { return w.Stop() })
	}

	workCtx, stopWork := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(workCtx)
	for slot := range cfg.Workers {
		g.Go(func() error { return st.work(gctx, slot, cfg) })
	}
	g.Go(func() error {
		st.reportEvery(gctx, cfg.Report, log)
		return nil
	})

	started := time.Now()
	// Registered last so it runs first: workers stop before the metrics
	// server and the watcher go away.
	handler.OnShutdown(func(context.Context) error {
		stopWork()
		return g.Wait()
	})

	log.Info("soak started",
		"workers", cfg.Workers,
		"duration", cfg.Duration,
		"rate", cfg.Rate,
	)
	if opts.OnReady != nil {
		opts.OnReady(summary.MetricsAddr)
	}

	runCtx := ctx
	if cfg.Duration > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, cfg.Duration)
		defer cancel()
	}
	// A worker failure ends the run as well.
	runCtx, cancelRun := context.WithCancel(runCtx)
	defer cancelRun()
	go func() {
		select {
		case <-gctx.Done():
			cancelRun()
		case <-runCtx.Done():
		}
	}()

	err := handler.Wait(runCtx)

	summary.ElapsedS = time.Since(started).Seconds()
	summary.Reloads = st.reloads.Load()
	summary.LockRounds = st.lockRounds.Load()
	summary.MapOps = st.mapOps.Load()
	summary.SetOps = st.setOps.Load()
	summary.QueueOps = st.queueOps.Load()
	summary.QueueRefused = st.queueRefused.Load()
	reg.Sizes.Untrack("map", "soak")
	reg.Sizes.Untrack("set", "soak")
	reg.Sizes.Untrack("queue", "soak")

	log.Info("soak finished",
		"elapsed", time.Since(started).Round(time.Millisecond),
		"lock_rounds", summary.LockRounds,
		"map_ops", summary.MapOps,
		"queue_ops", summary.QueueOps,
	)
	return summary, err
}

// work runs one soak goroutine until ctx ends.
func (st *soakState) work(ctx context.Context, slot int, cfg config.SoakSection) error {
	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(slot)))
	var limiter *rate.Limiter
	if cfg.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Rate), max(1, int(cfg.Rate/10)))
	}

	for ctx.Err() == nil {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return nil
			}
		}
		if err := st.step(rng, cfg.KeySpace); err != nil {
			return err
		}
	}
	return nil
}

// step performs one randomly chosen operation.
func (st *soakState) step(rng *rand.Rand, keySpace int) error {
	key := host.NativeOf(rng.Int64N(int64(keySpace)))

	switch rng.IntN(8) {
	case 0:
		st.mu.Do(func() {})
		st.lockRounds.Add(1)
	case 1:
		outer := st.rm.Acquire()
		st.rm.Acquire().Release()
		outer.Release()
		st.lockRounds.Add(1)
	case 2:
		if g := st.rw.ReadGuard(true, timeout.After(10*time.Millisecond)); g != nil {
			g.Release()
		}
		st.lockRounds.Add(1)
	case 3:
		if g := st.rw.WriteGuard(true, timeout.After(10*time.Millisecond)); g != nil {
			g.Downgrade().Release()
		}
		st.lockRounds.Add(1)
	case 4:
		if _, err := st.m.Update(key, func(v int64, _ bool) int64 { return v + 1 }); err != nil {
			return err
		}
		st.mapOps.Add(1)
	case 5:
		if _, err := st.m.PopDefault(key, 0); err != nil {
			return err
		}
		st.mapOps.Add(1)
	case 6:
		var err error
		if rng.IntN(2) == 0 {
			err = st.set.Add(key)
		} else {
			err = st.set.Discard(key)
		}
		if err != nil {
			return err
		}
		st.setOps.Add(1)
	default:
		var err error
		if rng.IntN(2) == 0 {
			err = st.q.PutNowait(key.V)
		} else {
			_, err = st.q.GetNowait()
		}
		switch {
		case errors.Is(err, queue.ErrFull), errors.Is(err, queue.ErrEmpty):
			st.queueRefused.Add(1)
		case err != nil:
			return err
		}
		st.queueOps.Add(1)
	}
	return nil
}

func (st *soakState) reportEvery(ctx context.Context, every time.Duration, log logger.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			log.Info("soak progress",
				"lock_rounds", st.lockRounds.Load(),
				"map_ops", st.mapOps.Load(),
				"set_ops", st.setOps.Load(),
				"queue_ops", st.queueOps.Load(),
				"map_len", st.m.Len(),
				"queue_len", st.q.Len(),
			)
		}
	}
}
