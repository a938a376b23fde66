package bench

import (
	"context"
	"sync"

	"github.com/yndnr/syncx-go/internal/bench/config"
	"github.com/yndnr/syncx-go/internal/telemetry/logger"
	"github.com/yndnr/syncx-go/pkg/locks"
	"github.com/yndnr/syncx-go/pkg/timeout"
)

// Section names of the locks report.
const (
	SectionMutex     = "mutex"
	SectionReentrant = "reentrant"
	SectionRW        = "rw"
)

// lockTarget builds a fresh lock and returns one acquire/release round on
// it. Reentrant targets nest depth acquisitions per round.
type lockTarget struct {
	name  string
	build func(env Env, depth int) func()
}

var mutexTargets = []lockTarget{
	{"syncx.Mutex", func(env Env, _ int) func() {
		m := locks.NewMutex(env.lockOptions()...)
		return func() {
			m.Lock()
			m.Unlock()
		}
	}},
	{"sync.Mutex", func(Env, int) func() {
		var m sync.Mutex
		return func() {
			m.Lock()
			m.Unlock()
		}
	}},
}

var reentrantTargets = []lockTarget{
	{"syncx.RMutex", func(env Env, depth int) func() {
		m := locks.NewRMutex(env.lockOptions()...)
		return func() {
			guards := make([]*locks.RGuard, depth)
			for i := range guards {
				guards[i] = m.Acquire()
			}
			for i := len(guards) - 1; i >= 0; i-- {
				guards[i].Release()
			}
		}
	}},
	// sync.Mutex cannot nest, so the baseline takes it depth times in a row.
	{"sync.Mutex (flat)", func(_ Env, depth int) func() {
		var m sync.Mutex
		return func() {
			for range depth {
				m.Lock()
				m.Unlock()
			}
		}
	}},
}

// rwTarget builds a fresh lock and returns a read round and a write round.
type rwTarget struct {
	name  string
	build func(env Env) (read, write func())
}

var rwTargets = []rwTarget{
	{"syncx.RWMutex", func(env Env) (func(), func()) {
		rw := locks.NewRWMutex(env.lockOptions()...)
		read := func() { rw.ReadGuard(true, timeout.None).Release() }
		write := func() { rw.WriteGuard(true, timeout.None).Release() }
		return read, write
	}},
	{"sync.RWMutex", func(Env) (func(), func()) {
		var rw sync.RWMutex
		read := func() {
			rw.RLock()
			rw.RUnlock()
		}
		write := func() {
			rw.Lock()
			rw.Unlock()
		}
		return read, write
	}},
	{"sync.Mutex", func(Env) (func(), func()) {
		var m sync.Mutex
		round := func() {
			m.Lock()
			m.Unlock()
		}
		return round, round
	}},
}

// RunLocks runs the mutex, reentrant and read-write workloads.
func RunLocks(ctx context.Context, cfg config.LocksSection, env Env) (*Report, error) {
	report := newReport("locks", cfg)
	ctx = logger.WithWorkload(logger.WithRunID(ctx, report.RunID), report.Benchmark)
	log := logger.L(ctx)
	log.Info("locks benchmark started",
		"threads", cfg.Threads,
		"iterations", cfg.Iterations,
	)

	mutex := report.section(SectionMutex, "threads")
	reentrant := report.section(SectionReentrant, "threads")
	for _, pass := range []struct {
		sec     *Section
		targets []lockTarget
		depth   int
	}{
		{mutex, mutexTargets, 1},
		{reentrant, reentrantTargets, cfg.Depth},
	} {
		for _, threads := range cfg.Threads {
			for _, target := range pass.targets {
				round := target.build(env, pass.depth)
				m, err := measure(ctx, threads, cfg.Iterations, func(_ context.Context, _ int) error {
					for range cfg.Iterations {
						round()
					}
					return nil
				})
				if err != nil {
					return nil, err
				}
				res := newResult(target.name, threads, threads*cfg.Iterations, m)
				pass.sec.Results = append(pass.sec.Results, res)
				env.report(pass.sec.Name, res)
			}
		}
	}

	rw := report.section(SectionRW, "readers")
	for _, readers := range cfg.Readers {
		for _, target := range rwTargets {
			read, write := target.build(env)
			total := readers + cfg.Writers
			m, err := measure(ctx, total, cfg.RWOps, func(_ context.Context, slot int) error {
				round := read
				if slot >= readers {
					round = write
				}
				for range cfg.RWOps {
					round()
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
			res := newResult(target.name, readers, total*cfg.RWOps, m)
			res.Writers = cfg.Writers
			rw.Results = append(rw.Results, res)
			env.report(rw.Name, res)
		}
	}

	log.Info("locks benchmark finished")
	return report, nil
}
