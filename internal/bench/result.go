package bench

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/syncx-go/internal/cli/output"
)

// Result is one measured configuration of one implementation.
type Result struct {
	Implementation string `json:"implementation" yaml:"implementation"`
	// Threads is the goroutine count; for queues the pair count and for
	// read-write runs the reader count.
	Threads int `json:"threads" yaml:"threads"`
	// Writers is set for read-write runs only.
	Writers       int     `json:"writers,omitempty" yaml:"writers,omitempty"`
	Operations    int     `json:"operations" yaml:"operations"`
	ThroughputOps float64 `json:"throughput_ops" yaml:"throughput_ops"`
	AvgLatencyS   float64 `json:"avg_latency_s" yaml:"avg_latency_s"`
	ElapsedS      float64 `json:"elapsed_s" yaml:"elapsed_s"`
}

// Section groups the results of one scenario.
type Section struct {
	Name string `json:"name" yaml:"name"`
	// Unit names what Result.Threads counts: threads, pairs or readers.
	Unit    string   `json:"unit" yaml:"unit"`
	Results []Result `json:"results" yaml:"results"`
}

// Report is the output of one workload family.
type Report struct {
	Benchmark  string     `json:"benchmark" yaml:"benchmark"`
	RunID      string     `json:"run_id" yaml:"run_id"`
	StartedAt  time.Time  `json:"started_at" yaml:"started_at"`
	Parameters any        `json:"parameters" yaml:"parameters"`
	Sections   []*Section `json:"sections" yaml:"sections"`
}

func newReport(benchmark string, params any) *Report {
	return &Report{
		Benchmark:  benchmark,
		RunID:      ulid.Make().String(),
		StartedAt:  time.Now().UTC(),
		Parameters: params,
	}
}

func (r *Report) section(name, unit string) *Section {
	s := &Section{Name: name, Unit: unit}
	r.Sections = append(r.Sections, s)
	return s
}

// Section returns the named section, or nil.
func (r *Report) Section(name string) *Section {
	for _, s := range r.Sections {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Tables implements output.Tabler with one table per section. Throughput
// is shown in millions of operations per second and latency in
// microseconds.
func (r *Report) Tables(wide bool) []*output.Table {
	tables := make([]*output.Table, 0, len(r.Sections))
	for _, s := range r.Sections {
		t := &output.Table{Title: fmt.Sprintf("%s / %s", r.Benchmark, s.Name)}
		t.SetHeaders(strings.ToUpper(s.Unit), "IMPLEMENTATION", "MOPS/S", "AVG LATENCY(US)")
		if wide {
			t.Headers = append(t.Headers, "OPERATIONS", "ELAPSED")
		}
		for _, res := range s.Results {
			row := []string{
				res.label(),
				res.Implementation,
				strconv.FormatFloat(res.ThroughputOps/1e6, 'f', 3, 64),
				strconv.FormatFloat(res.AvgLatencyS*1e6, 'f', 2, 64),
			}
			if wide {
				elapsed := time.Duration(res.ElapsedS * float64(time.Second))
				row = append(row, strconv.Itoa(res.Operations), elapsed.Round(time.Microsecond).String())
			}
			t.AddRow(row...)
		}
		tables = append(tables, t)
	}
	return tables
}

func (r Result) label() string {
	if r.Writers > 0 {
		return fmt.Sprintf("%dR/%dW", r.Threads, r.Writers)
	}
	return strconv.Itoa(r.Threads)
}
