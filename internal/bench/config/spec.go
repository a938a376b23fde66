package config

import "time"

// BenchConfig is the configuration for syncx-bench.
type BenchConfig struct {
	Log    LogSection    `koanf:"log" json:"log" yaml:"log"`
	Output string        `koanf:"output" json:"output" yaml:"output"` // table, json, yaml
	Locks  LocksSection  `koanf:"locks" json:"locks" yaml:"locks"`
	Maps   MapsSection   `koanf:"maps" json:"maps" yaml:"maps"`
	Queues QueuesSection `koanf:"queues" json:"queues" yaml:"queues"`
	Soak   SoakSection   `koanf:"soak" json:"soak" yaml:"soak"`
}

// LogSection configures the logger.
type LogSection struct {
	Level  string `koanf:"level" json:"level" yaml:"level"`
	Format string `koanf:"format" json:"format" yaml:"format"` // json, text
}

// LocksSection configures the mutex, reentrant and read-write workloads.
type LocksSection struct {
	// Threads lists the goroutine counts for the mutex and reentrant runs.
	Threads []int `koanf:"threads" json:"threads" yaml:"threads"`
	// Iterations is the acquire/release count per goroutine.
	Iterations int `koanf:"iterations" json:"iterations" yaml:"iterations"`
	// Depth is the nesting depth of each reentrant acquisition.
	Depth int `koanf:"depth" json:"reentrant_depth" yaml:"reentrant_depth"`
	// Readers lists the reader counts for the read-write runs.
	Readers []int `koanf:"readers" json:"rw_readers" yaml:"rw_readers"`
	// Writers is paired with every reader count.
	Writers int `koanf:"writers" json:"rw_writers" yaml:"rw_writers"`
	// RWOps is the acquire/release count per reader and writer.
	RWOps int `koanf:"rwops" json:"rw_operations" yaml:"rw_operations"`
}

// MapsSection configures the concurrent map workloads.
type MapsSection struct {
	Threads    []int   `koanf:"threads" json:"threads" yaml:"threads"`
	Operations int     `koanf:"operations" json:"operations" yaml:"operations"`
	KeySpace   int     `koanf:"keyspace" json:"key_space" yaml:"key_space"`
	ReadHeavy  float64 `koanf:"readheavy" json:"read_heavy_ratio" yaml:"read_heavy_ratio"`
	WriteHeavy float64 `koanf:"writeheavy" json:"write_heavy_ratio" yaml:"write_heavy_ratio"`
	Seed       int64   `koanf:"seed" json:"seed" yaml:"seed"`
	// Shards overrides the cmap shard count; zero keeps the default.
	Shards int `koanf:"shards" json:"shards" yaml:"shards"`
}

// QueuesSection configures the producer/consumer workloads.
type QueuesSection struct {
	Pairs    []int `koanf:"pairs" json:"pairs" yaml:"pairs"`
	Messages int   `koanf:"messages" json:"messages" yaml:"messages"`
	// MaxSize bounds the queue; zero means unbounded.
	MaxSize int `koanf:"maxsize" json:"maxsize" yaml:"maxsize"`
	// Rate paces every producer to this many messages per second; zero
	// disables pacing.
	Rate float64 `koanf:"rate" json:"rate" yaml:"rate"`
}

// SoakSection configures the long-running soak mode.
type SoakSection struct {
	// Duration bounds the run; zero runs until a signal arrives.
	Duration time.Duration `koanf:"duration" json:"duration" yaml:"duration"`
	// Listen is the address serving /metrics; empty disables it.
	Listen   string `koanf:"listen" json:"listen" yaml:"listen"`
	Workers  int    `koanf:"workers" json:"workers" yaml:"workers"`
	KeySpace int    `koanf:"keyspace" json:"key_space" yaml:"key_space"`
	// Rate paces every worker to this many operations per second; zero
	// disables pacing.
	Rate float64 `koanf:"rate" json:"rate" yaml:"rate"`
	// Report is the interval between progress log lines.
	Report time.Duration `koanf:"report" json:"report" yaml:"report"`
	// Watch reloads the log level when the config file changes.
	Watch bool `koanf:"watch" json:"watch" yaml:"watch"`
}
