package confloader

import (
	"os"
	"path/filepath"
	"testing"
)

type testConfig struct {
	Output string `koanf:"output"`
	Locks  struct {
		Threads    []int `koanf:"threads"`
		Iterations int   `koanf:"iterations"`
	} `koanf:"locks"`
	Queues struct {
		Maxsize int `koanf:"maxsize"`
	} `koanf:"queues"`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bench.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestNewLoader(t *testing.T) {
	l := NewLoader()
	if l.envPrefix != DefaultEnvPrefix {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, DefaultEnvPrefix)
	}
	if l.IsLoaded() {
		t.Error("new loader should not be loaded")
	}
}

func TestLoader_Layering(t *testing.T) {
	path := writeConfig(t, `
output: json
locks:
  threads: [1, 2]
  iterations: 500
queues:
  maxsize: 16
`)
	t.Setenv("SYNCX_BENCH_LOCKS_ITERATIONS", "750")

	l := NewLoader(
		WithConfigFile(path),
		WithDefaults(map[string]any{
			"output":           "table",
			"locks.iterations": 1000,
			"queues.maxsize":   0,
		}),
		WithFlags(map[string]any{"queues.maxsize": 32}),
	)

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Output != "json" {
		t.Errorf("output = %q, want json (file beats default)", cfg.Output)
	}
	if cfg.Locks.Iterations != 750 {
		t.Errorf("locks.iterations = %d, want 750 (env beats file)", cfg.Locks.Iterations)
	}
	if cfg.Queues.Maxsize != 32 {
		t.Errorf("queues.maxsize = %d, want 32 (flag beats file)", cfg.Queues.Maxsize)
	}
	if len(cfg.Locks.Threads) != 2 {
		t.Errorf("locks.threads = %v, want [1 2]", cfg.Locks.Threads)
	}
	if !l.IsLoaded() {
		t.Error("IsLoaded() = false after Load()")
	}
}

func TestLoader_LoadFile_NotFound(t *testing.T) {
	l := NewLoader(WithConfigFile("/nonexistent/bench.yaml"))
	var cfg testConfig
	if err := l.Load(&cfg); err == nil {
		t.Error("Load() should fail for a missing file")
	}
}

func TestLoader_LoadFile_Invalid(t *testing.T) {
	path := writeConfig(t, "locks: [unterminated")
	if err := NewLoader().LoadFile(path); err == nil {
		t.Error("LoadFile() should fail for invalid YAML")
	}
}

func TestLoader_Reload(t *testing.T) {
	path := writeConfig(t, "output: json\n")
	l := NewLoader(WithConfigFile(path))

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if err := os.WriteFile(path, []byte("output: yaml\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var next testConfig
	if err := l.Reload(&next); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if next.Output != "yaml" {
		t.Errorf("output after reload = %q, want yaml", next.Output)
	}
	if l.GetString("output") != "yaml" {
		t.Errorf("GetString(output) = %q", l.GetString("output"))
	}
}

func TestUnflatten(t *testing.T) {
	got := unflatten(map[string]any{
		"a.b.c": 1,
		"a.d":   2,
		"e":     3,
	})

	a, ok := got["a"].(map[string]any)
	if !ok {
		t.Fatalf("a = %#v", got["a"])
	}
	if b := a["b"].(map[string]any); b["c"] != 1 {
		t.Errorf("a.b.c = %v", b["c"])
	}
	if a["d"] != 2 || got["e"] != 3 {
		t.Errorf("unflatten = %#v", got)
	}
}

func TestMapProvider(t *testing.T) {
	p := newMapProvider(map[string]any{"soak.watch": true})
	if _, err := p.ReadBytes(); err != errNoBytes {
		t.Errorf("ReadBytes() error = %v", err)
	}
	m, err := p.Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if soak, ok := m["soak"].(map[string]any); !ok || soak["watch"] != true {
		t.Errorf("Read() = %#v", m)
	}
}
