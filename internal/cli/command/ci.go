package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/syncx-go/internal/bench"
	"github.com/yndnr/syncx-go/internal/bench/config"
)

// Default CI output locations.
const (
	DefaultResultsDir    = "benchmark-results"
	DefaultAggregateFile = "benchmark-results.json"
)

// CICommand returns the ci command.
func CICommand() *cli.Command {
	return &cli.Command{
		Name:  "ci",
		Usage: "Run every workload with CI presets and aggregate the results",
		Description: `Runs locks, maps and queues with small fixed parameters, writes
one JSON file per family into --results-dir and the aggregate, with the
CI environment (GITHUB_SHA, GITHUB_REF, GITHUB_JOB, RUNNER_OS), to
--aggregate.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "results-dir",
				Usage: "Directory for per-family result files",
				Value: DefaultResultsDir,
			},
			&cli.StringFlag{
				Name:  "aggregate",
				Usage: "Aggregated result file (empty to skip)",
				Value: DefaultAggregateFile,
			},
			&cli.BoolFlag{
				Name:  "full",
				Usage: "Use the configured parameters instead of the CI presets",
			},
		},
		Action: runCI,
	}
}

func runCI(c *cli.Context) error {
	s, err := setup(c)
	if err != nil {
		return err
	}

	cfg := s.cfg
	if !c.Bool("full") {
		cfg = config.CI(cfg)
	}

	onResult, finish := progress(c, "ci", bench.Steps(cfg))
	agg, err := bench.RunCI(s.ctx, cfg, bench.Env{OnResult: onResult}, bench.SuiteOptions{
		ResultsDir: c.String("results-dir"),
		Output:     c.String("aggregate"),
	})
	finish()
	if err != nil {
		return err
	}
	return s.emit(c, agg)
}
