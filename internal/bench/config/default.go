package config

import "time"

// Default configuration values.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultOutput    = "table"

	DefaultLockIterations = 200_000
	DefaultReentrantDepth = 2
	DefaultRWWriters      = 1
	DefaultRWOps          = 75_000

	DefaultMapOperations = 50_000
	DefaultMapKeySpace   = 100_000
	DefaultReadHeavy     = 0.9
	DefaultWriteHeavy    = 0.1
	DefaultMapSeed       = 1812

	DefaultQueueMessages = 50_000

	DefaultSoakListen   = "127.0.0.1:9464"
	DefaultSoakWorkers  = 4
	DefaultSoakKeySpace = 10_000
	DefaultSoakReport   = 10 * time.Second
)

// Default returns the default benchmark configuration.
func Default() *BenchConfig {
	return &BenchConfig{
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Output: DefaultOutput,
		Locks: LocksSection{
			Threads:    []int{1, 2, 4},
			Iterations: DefaultLockIterations,
			Depth:      DefaultReentrantDepth,
			Readers:    []int{2, 4},
			Writers:    DefaultRWWriters,
			RWOps:      DefaultRWOps,
		},
		Maps: MapsSection{
			Threads:    []int{1, 2, 4, 8, 16},
			Operations: DefaultMapOperations,
			KeySpace:   DefaultMapKeySpace,
			ReadHeavy:  DefaultReadHeavy,
			WriteHeavy: DefaultWriteHeavy,
			Seed:       DefaultMapSeed,
		},
		Queues: QueuesSection{
			Pairs:    []int{1, 2, 4, 8},
			Messages: DefaultQueueMessages,
		},
		Soak: SoakSection{
			Listen:   DefaultSoakListen,
			Workers:  DefaultSoakWorkers,
			KeySpace: DefaultSoakKeySpace,
			Report:   DefaultSoakReport,
		},
	}
}

// CI returns cfg with the workload sections replaced by the small presets
// used on every CI build. Log and output settings are kept.
func CI(cfg *BenchConfig) *BenchConfig {
	out := *cfg
	out.Locks = LocksSection{
		Threads:    []int{1, 2, 4},
		Iterations: 1000,
		Depth:      2,
		Readers:    []int{4},
		Writers:    2,
		RWOps:      10,
	}
	out.Maps = MapsSection{
		Threads:    []int{1, 2, 4, 8},
		Operations: 5000,
		KeySpace:   1000,
		ReadHeavy:  DefaultReadHeavy,
		WriteHeavy: DefaultWriteHeavy,
		Seed:       42,
		Shards:     cfg.Maps.Shards,
	}
	out.Queues = QueuesSection{
		Pairs:    []int{1, 2, 4, 8},
		Messages: 5000,
		MaxSize:  0,
	}
	return &out
}

// flatten lists cfg as dotted keys, the shape confloader takes for its
// defaults layer.
func flatten(cfg *BenchConfig) map[string]any {
	return map[string]any{
		"log.level":  cfg.Log.Level,
		"log.format": cfg.Log.Format,
		"output":     cfg.Output,

		"locks.threads":    cfg.Locks.Threads,
		"locks.iterations": cfg.Locks.Iterations,
		"locks.depth":      cfg.Locks.Depth,
		"locks.readers":    cfg.Locks.Readers,
		"locks.writers":    cfg.Locks.Writers,
		"locks.rwops":      cfg.Locks.RWOps,

		"maps.threads":    cfg.Maps.Threads,
		"maps.operations": cfg.Maps.Operations,
		"maps.keyspace":   cfg.Maps.KeySpace,
		"maps.readheavy":  cfg.Maps.ReadHeavy,
		"maps.writeheavy": cfg.Maps.WriteHeavy,
		"maps.seed":       cfg.Maps.Seed,
		"maps.shards":     cfg.Maps.Shards,

		"queues.pairs":    cfg.Queues.Pairs,
		"queues.messages": cfg.Queues.Messages,
		"queues.maxsize":  cfg.Queues.MaxSize,
		"queues.rate":     cfg.Queues.Rate,

		"soak.duration": cfg.Soak.Duration,
		"soak.listen":   cfg.Soak.Listen,
		"soak.workers":  cfg.Soak.Workers,
		"soak.keyspace": cfg.Soak.KeySpace,
		"soak.rate":     cfg.Soak.Rate,
		"soak.report":   cfg.Soak.Report,
		"soak.watch":    cfg.Soak.Watch,
	}
}
