package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/syncx-go/internal/bench"
	"github.com/yndnr/syncx-go/internal/cli/output"
)

// SoakCommand returns the soak command.
func SoakCommand() *cli.Command {
	bindings := []binding{
		{"duration", "soak.duration", durationValue},
		{"listen", "soak.listen", stringValue},
		{"workers", "soak.workers", intValue},
		{"keyspace", "soak.keyspace", intValue},
		{"rate", "soak.rate", floatValue},
		{"report", "soak.report", durationValue},
		{"watch", "soak.watch", boolValue},
	}
	return &cli.Command{
		Name:  "soak",
		Usage: "Drive every primitive concurrently and serve Prometheus metrics",
		Description: `Runs until --duration passes (0 runs until interrupted) and prints
a summary. Metrics are served on http://<listen>/metrics. With --watch the
--config file is watched and its log level applied on change.`,
		Flags: []cli.Flag{
			&cli.DurationFlag{Name: "duration", Aliases: []string{"d"}, Usage: "How long to run (0 for until interrupted)"},
			&cli.StringFlag{Name: "listen", Aliases: []string{"l"}, Usage: "Metrics listen address (empty to disable)"},
			&cli.IntFlag{Name: "workers", Usage: "Worker goroutines"},
			&cli.IntFlag{Name: "keyspace", Usage: "Distinct map and set keys"},
			&cli.Float64Flag{Name: "rate", Usage: "Operations per second across workers (0 for unpaced)"},
			&cli.DurationFlag{Name: "report", Usage: "Progress log interval"},
			&cli.BoolFlag{Name: "watch", Usage: "Reload the log level when the config file changes"},
		},
		Action: func(c *cli.Context) error {
			s, err := setup(c, bindings...)
			if err != nil {
				return err
			}

			var spinner *output.Spinner
			if !c.Bool("quiet") {
				spinner = output.NewSpinner(c.App.ErrWriter, "soaking")
			}

			summary, err := bench.Soak(s.ctx, bench.SoakOptions{
				Config:     s.cfg.Soak,
				ConfigPath: c.String("config"),
				Reload:     s.reload,
				OnReady: func(string) {
					if spinner != nil {
						spinner.Start()
					}
				},
			})
			if spinner != nil {
				if err != nil {
					spinner.Fail("soak")
				} else {
					spinner.Success("soak")
				}
			}
			if err != nil {
				return err
			}
			return s.emit(c, summary)
		},
	}
}
