package bench

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/yndnr/syncx-go/internal/bench/config"
	"github.com/yndnr/syncx-go/internal/telemetry/logger"
)

// Result file names written by RunCI.
const (
	LocksFile  = "locks.json"
	MapsFile   = "maps.json"
	QueuesFile = "queues.json"
)

// SuiteOptions configures RunCI.
type SuiteOptions struct {
	// ResultsDir receives one JSON file per workload family.
	ResultsDir string
	// Output is the aggregated JSON file; empty skips writing it.
	Output string
}

// Steps is the number of measurements RunCI performs for cfg, for
// progress display.
func Steps(cfg *config.BenchConfig) int {
	return LockSteps(cfg.Locks) + MapSteps(cfg.Maps) + QueueSteps(cfg.Queues)
}

// LockSteps is the number of results RunLocks reports for cfg.
func LockSteps(cfg config.LocksSection) int {
	return len(cfg.Threads)*(len(mutexTargets)+len(reentrantTargets)) + len(cfg.Readers)*len(rwTargets)
}

// MapSteps is the number of results RunMaps reports for cfg.
func MapSteps(cfg config.MapsSection) int {
	return 2 * len(cfg.Threads) * len(mapTargets)
}

// QueueSteps is the number of results RunQueues reports for cfg.
func QueueSteps(cfg config.QueuesSection) int {
	return len(cfg.Pairs) * len(queueTargets)
}

// RunCI runs every workload family with cfg as given (callers normally
// pass config.CI(base)), writes the per-family files and the aggregate.
func RunCI(ctx context.Context, cfg *config.BenchConfig, env Env, opts SuiteOptions) (*Aggregate, error) {
	log := logger.L(ctx)

	type family struct {
		file string
		run  func() (*Report, error)
	}
	families := []family{
		{LocksFile, func() (*Report, error) { return RunLocks(ctx, cfg.Locks, env) }},
		{MapsFile, func() (*Report, error) { return RunMaps(ctx, cfg.Maps, env) }},
		{QueuesFile, func() (*Report, error) { return RunQueues(ctx, cfg.Queues, env) }},
	}

	paths := make([]string, 0, len(families))
	for _, f := range families {
		report, err := f.run()
		if err != nil {
			return nil, err
		}
		path := filepath.Join(opts.ResultsDir, f.file)
		if err := WriteJSON(path, report); err != nil {
			return nil, err
		}
		log.Debug("wrote benchmark results", "path", path)
		paths = append(paths, path)
	}

	agg, err := AggregateFiles(paths)
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}
	if opts.Output != "" {
		if err := WriteJSON(opts.Output, agg); err != nil {
			return nil, err
		}
		log.Info("wrote aggregated results", "path", opts.Output)
	}
	return agg, nil
}
