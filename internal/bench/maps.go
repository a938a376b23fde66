package bench

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/yndnr/syncx-go/internal/bench/config"
	"github.com/yndnr/syncx-go/internal/telemetry/logger"
	"github.com/yndnr/syncx-go/pkg/cmap"
	"github.com/yndnr/syncx-go/pkg/host"
)

// Section names of the maps report.
const (
	SectionReadHeavy  = "read-heavy"
	SectionWriteHeavy = "write-heavy"
)

// mapTarget is a key/value store under test.
type mapTarget interface {
	read(key int) error
	write(key, value int) error
}

type mapFactory struct {
	name  string
	build func(env Env, shards int) mapTarget
}

var mapTargets = []mapFactory{
	{"cmap.Map", func(env Env, shards int) mapTarget {
		return &cmapTarget{m: cmap.New[int](env.mapOptions(shards)...)}
	}},
	{"sync.Map", func(Env, int) mapTarget { return &syncMapTarget{} }},
	{"map+RWMutex", func(Env, int) mapTarget {
		return &lockedMapTarget{m: make(map[int]int)}
	}},
}

type cmapTarget struct {
	m *cmap.Map[int]
}

func (t *cmapTarget) read(key int) error {
	_, err := t.m.Get(host.NativeOf(key), 0)
	return err
}

func (t *cmapTarget) write(key, value int) error {
	return t.m.Set(host.NativeOf(key), value)
}

type syncMapTarget struct {
	m sync.Map
}

func (t *syncMapTarget) read(key int) error {
	t.m.Load(key)
	return nil
}

func (t *syncMapTarget) write(key, value int) error {
	t.m.Store(key, value)
	return nil
}

type lockedMapTarget struct {
	mu sync.RWMutex
	m  map[int]int
}

func (t *lockedMapTarget) read(key int) error {
	t.mu.RLock()
	_ = t.m[key]
	t.mu.RUnlock()
	return nil
}

func (t *lockedMapTarget) write(key, value int) error {
	t.mu.Lock()
	t.m[key] = value
	t.mu.Unlock()
	return nil
}

// RunMaps runs the read-heavy and write-heavy mixes. Each goroutine draws
// keys and the read/write choice from its own generator seeded with
// cfg.Seed and its slot, so runs are repeatable.
func RunMaps(ctx context.Context, cfg config.MapsSection, env Env) (*Report, error) {
	report := newReport("maps", cfg)
	ctx = logger.WithWorkload(logger.WithRunID(ctx, report.RunID), report.Benchmark)
	log := logger.L(ctx)
	log.Info("maps benchmark started",
		"threads", cfg.Threads,
		"operations", cfg.Operations,
		"keyspace", cfg.KeySpace,
	)

	for _, scenario := range []struct {
		name      string
		readRatio float64
	}{
		{SectionReadHeavy, cfg.ReadHeavy},
		{SectionWriteHeavy, cfg.WriteHeavy},
	} {
		sec := report.section(scenario.name, "threads")
		log.Debug("scenario",
			"name", scenario.name,
			"reads", fmt.Sprintf("%.0f%%", scenario.readRatio*100),
		)
		for _, threads := range cfg.Threads {
			for _, factory := range mapTargets {
				target := factory.build(env, cfg.Shards)
				for key := range cfg.KeySpace {
					if err := target.write(key, key); err != nil {
						return nil, fmt.Errorf("populate %s: %w", factory.name, err)
					}
				}

				m, err := measure(ctx, threads, cfg.Operations, func(_ context.Context, slot int) error {
					rng := rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(slot)))
					for range cfg.Operations {
						key := rng.IntN(cfg.KeySpace)
						var err error
						if rng.Float64() < scenario.readRatio {
							err = target.read(key)
						} else {
							err = target.write(key, rng.IntN(cfg.KeySpace))
						}
						if err != nil {
							return err
						}
					}
					return nil
				})
				if err != nil {
					return nil, fmt.Errorf("%s %s: %w", scenario.name, factory.name, err)
				}
				res := newResult(factory.name, threads, threads*cfg.Operations, m)
				sec.Results = append(sec.Results, res)
				env.report(sec.Name, res)
			}
		}
	}

	log.Info("maps benchmark finished")
	return report, nil
}
