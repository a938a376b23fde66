package config

import (
	"fmt"

	"github.com/yndnr/syncx-go/internal/infra/confloader"
)

// Load builds the configuration from defaults, the YAML file at path (may
// be empty), SYNCX_BENCH_* environment variables and flags, in increasing
// priority, then validates it. Flag keys are dotted paths such as
// "maps.keyspace".
func Load(path string, flags map[string]any, opts ...confloader.Option) (*BenchConfig, error) {
	base := []confloader.Option{
		confloader.WithDefaults(flatten(Default())),
		confloader.WithConfigFile(path),
		confloader.WithFlags(flags),
	}
	loader := confloader.NewLoader(append(base, opts...)...)

	cfg := &BenchConfig{}
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}
	if err := Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
