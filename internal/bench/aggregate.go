package bench

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/yndnr/syncx-go/internal/cli/output"
	"github.com/yndnr/syncx-go/internal/infra/buildinfo"
	"github.com/yndnr/syncx-go/internal/telemetry/logger"
)

// Aggregate merges several reports with the environment they ran in.
type Aggregate struct {
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	// CI metadata, read from the GitHub Actions environment when present.
	Commit   string `json:"commit,omitempty" yaml:"commit,omitempty"`
	Ref      string `json:"ref,omitempty" yaml:"ref,omitempty"`
	Job      string `json:"job,omitempty" yaml:"job,omitempty"`
	RunnerOS string `json:"runner_os,omitempty" yaml:"runner_os,omitempty"`

	Platform   string    `json:"platform" yaml:"platform"`
	GoVersion  string    `json:"go_version" yaml:"go_version"`
	Version    string    `json:"version" yaml:"version"`
	Benchmarks []*Report `json:"benchmarks" yaml:"benchmarks"`
}

// NewAggregate wraps reports with the current environment.
func NewAggregate(reports ...*Report) *Aggregate {
	info := buildinfo.Get()
	return &Aggregate{
		GeneratedAt: time.Now().UTC(),
		Commit:      os.Getenv("GITHUB_SHA"),
		Ref:         os.Getenv("GITHUB_REF"),
		Job:         os.Getenv("GITHUB_JOB"),
		RunnerOS:    os.Getenv("RUNNER_OS"),
		Platform:    info.Platform,
		GoVersion:   info.GoVersion,
		Version:     info.Version,
		Benchmarks:  reports,
	}
}

// AggregateFiles reads report files written by WriteJSON. Paths that do
// not exist are skipped so a partially failed suite still aggregates.
func AggregateFiles(paths []string) (*Aggregate, error) {
	var reports []*Report
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("skipping missing result file", "path", path)
			continue
		}
		if err != nil {
			return nil, err
		}
		var r Report
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		reports = append(reports, &r)
	}
	return NewAggregate(reports...), nil
}

// Tables implements output.Tabler: an environment summary followed by
// every report's sections.
func (a *Aggregate) Tables(wide bool) []*output.Table {
	env := &output.Table{Title: "environment"}
	env.SetHeaders("FIELD", "VALUE")
	env.AddRow("generated_at", a.GeneratedAt.Format(time.RFC3339))
	env.AddRow("version", a.Version)
	env.AddRow("go", a.GoVersion)
	env.AddRow("platform", a.Platform)
	if a.Commit != "" {
		env.AddRow("commit", a.Commit)
	}

	tables := []*output.Table{env}
	for _, r := range a.Benchmarks {
		tables = append(tables, r.Tables(wide)...)
	}
	return tables
}

// WriteJSON writes v as indented JSON to path, creating parent
// directories.
func WriteJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := (&output.JSONFormatter{}).Format(f, v); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
