package config

import (
	"errors"
	"fmt"

	"github.com/yndnr/syncx-go/internal/cli/output"
	"github.com/yndnr/syncx-go/internal/telemetry/logger"
)

// Verify validates the configuration.
func Verify(cfg *BenchConfig) error {
	var errs []error
	if err := verifyLog(&cfg.Log); err != nil {
		errs = append(errs, err)
	}
	if _, err := output.ParseFormat(cfg.Output); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs, verifyLocks(&cfg.Locks)...)
	errs = append(errs, verifyMaps(&cfg.Maps)...)
	errs = append(errs, verifyQueues(&cfg.Queues)...)
	errs = append(errs, verifySoak(&cfg.Soak)...)
	return errors.Join(errs...)
}

func verifyLog(cfg *LogSection) error {
	if !logger.ValidLevel(cfg.Level) {
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Level)
	}
	if !logger.ValidFormat(cfg.Format) {
		return fmt.Errorf("log.format %q is not one of json, text", cfg.Format)
	}
	return nil
}

func verifyLocks(cfg *LocksSection) []error {
	var errs []error
	errs = appendCounts(errs, "locks.threads", cfg.Threads)
	errs = appendCounts(errs, "locks.readers", cfg.Readers)
	errs = appendPositive(errs, "locks.iterations", cfg.Iterations)
	errs = appendPositive(errs, "locks.depth", cfg.Depth)
	errs = appendPositive(errs, "locks.rwops", cfg.RWOps)
	if cfg.Writers < 0 {
		errs = append(errs, errors.New("locks.writers must not be negative"))
	}
	return errs
}

func verifyMaps(cfg *MapsSection) []error {
	var errs []error
	errs = appendCounts(errs, "maps.threads", cfg.Threads)
	errs = appendPositive(errs, "maps.operations", cfg.Operations)
	errs = appendPositive(errs, "maps.keyspace", cfg.KeySpace)
	errs = appendRatio(errs, "maps.readheavy", cfg.ReadHeavy)
	errs = appendRatio(errs, "maps.writeheavy", cfg.WriteHeavy)
	if cfg.Shards < 0 {
		errs = append(errs, errors.New("maps.shards must not be negative"))
	}
	return errs
}

func verifyQueues(cfg *QueuesSection) []error {
	var errs []error
	errs = appendCounts(errs, "queues.pairs", cfg.Pairs)
	errs = appendPositive(errs, "queues.messages", cfg.Messages)
	if cfg.MaxSize < 0 {
		errs = append(errs, errors.New("queues.maxsize must not be negative"))
	}
	if cfg.Rate < 0 {
		errs = append(errs, errors.New("queues.rate must not be negative"))
	}
	return errs
}

func verifySoak(cfg *SoakSection) []error {
	var errs []error
	errs = appendPositive(errs, "soak.workers", cfg.Workers)
	errs = appendPositive(errs, "soak.keyspace", cfg.KeySpace)
	if cfg.Duration < 0 {
		errs = append(errs, errors.New("soak.duration must not be negative"))
	}
	if cfg.Rate < 0 {
		errs = append(errs, errors.New("soak.rate must not be negative"))
	}
	if cfg.Report <= 0 {
		errs = append(errs, errors.New("soak.report must be positive"))
	}
	return errs
}

func appendPositive(errs []error, name string, v int) []error {
	if v < 1 {
		return append(errs, fmt.Errorf("%s must be at least 1, got %d", name, v))
	}
	return errs
}

func appendRatio(errs []error, name string, r float64) []error {
	if r < 0 || r > 1 {
		return append(errs, fmt.Errorf("%s must be within [0, 1], got %g", name, r))
	}
	return errs
}

func appendCounts(errs []error, name string, counts []int) []error {
	if len(counts) == 0 {
		return append(errs, fmt.Errorf("%s must list at least one count", name))
	}
	for _, n := range counts {
		if n < 1 {
			return append(errs, fmt.Errorf("%s entries must be at least 1, got %d", name, n))
		}
	}
	return errs
}
