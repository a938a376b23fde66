package command

import (
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/syncx-go/internal/bench"
)

// AggregateCommand returns the aggregate command.
func AggregateCommand() *cli.Command {
	return &cli.Command{
		Name:      "aggregate",
		Usage:     "Merge result files into one report",
		ArgsUsage: "[FILE...]",
		Description: `Merges locks, maps and queues result files. Without arguments the
three files of --results-dir are used; missing files are skipped.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "results-dir",
				Usage: "Directory searched when no files are given",
				Value: DefaultResultsDir,
			},
		},
		Action: runAggregate,
	}
}

func runAggregate(c *cli.Context) error {
	s, err := setup(c)
	if err != nil {
		return err
	}

	paths := c.Args().Slice()
	if len(paths) == 0 {
		dir := c.String("results-dir")
		for _, name := range []string{bench.LocksFile, bench.MapsFile, bench.QueuesFile} {
			paths = append(paths, filepath.Join(dir, name))
		}
	}

	agg, err := bench.AggregateFiles(paths)
	if err != nil {
		return err
	}
	return s.emit(c, agg)
}
