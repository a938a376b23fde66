package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/syncx-go/internal/bench"
	"github.com/yndnr/syncx-go/internal/bench/config"
	"github.com/yndnr/syncx-go/internal/cli/output"
	"github.com/yndnr/syncx-go/internal/infra/buildinfo"
	"github.com/yndnr/syncx-go/internal/telemetry/logger"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "syncx-bench",
		Usage:   "Benchmark syncx primitives against the standard library",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			LocksCommand(),
			MapsCommand(),
			QueuesCommand(),
			CICommand(),
			AggregateCommand(),
			SoakCommand(),
			VersionCommand(),
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML configuration file",
			EnvVars: []string{"SYNCX_BENCH_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   config.DefaultOutput,
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
			Value: config.DefaultLogLevel,
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Log format: text, json",
			Value: config.DefaultLogFormat,
		},
		&cli.StringFlag{
			Name:  "out",
			Usage: "Also write the result as JSON to this file",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "Hide progress display",
		},
	}
}

// binding maps a command line flag to a configuration key.
type binding struct {
	flag  string
	key   string
	value func(c *cli.Context, name string) any
}

func stringValue(c *cli.Context, name string) any   { return c.String(name) }
func intValue(c *cli.Context, name string) any      { return c.Int(name) }
func int64Value(c *cli.Context, name string) any    { return c.Int64(name) }
func intsValue(c *cli.Context, name string) any     { return c.IntSlice(name) }
func floatValue(c *cli.Context, name string) any    { return c.Float64(name) }
func boolValue(c *cli.Context, name string) any     { return c.Bool(name) }
func durationValue(c *cli.Context, name string) any { return c.Duration(name) }

var globalBindings = []binding{
	{"output", "output", stringValue},
	{"log-level", "log.level", stringValue},
	{"log-format", "log.format", stringValue},
}

// session is what every command action starts from.
type session struct {
	ctx    context.Context
	cfg    *config.BenchConfig
	log    logger.Logger
	format output.Format
	reload func() (*config.BenchConfig, error)
}

// setup loads the configuration, applying only the flags the user set so
// file and environment values are not masked by flag defaults, and
// installs the logger.
func setup(c *cli.Context, bindings ...binding) (*session, error) {
	all := append(append([]binding{}, globalBindings...), bindings...)
	flags := make(map[string]any)
	for _, b := range all {
		if c.IsSet(b.flag) {
			flags[b.key] = b.value(c, b.flag)
		}
	}

	path := c.String("config")
	cfg, err := config.Load(path, flags)
	if err != nil {
		return nil, err
	}
	format, err := output.ParseFormat(cfg.Output)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: c.App.ErrWriter,
	})
	if err != nil {
		return nil, err
	}
	logger.SetDefault(log)

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	return &session{
		ctx:    logger.WithLogger(ctx, log),
		cfg:    cfg,
		log:    log,
		format: format,
		reload: func() (*config.BenchConfig, error) { return config.Load(path, flags) },
	}, nil
}

// emit prints data in the selected format and writes it to --out.
func (s *session) emit(c *cli.Context, data any) error {
	if out := c.String("out"); out != "" {
		if err := bench.WriteJSON(out, data); err != nil {
			return err
		}
		s.log.Info("wrote results", "path", out)
	}
	return output.NewFormatter(s.format, c.Bool("wide")).Format(c.App.Writer, data)
}

// progress returns an OnResult hook drawing a progress line on stderr, or
// nil when the user asked for quiet output. Call the returned finish once
// the run ends.
func progress(c *cli.Context, title string, total int) (func(string, bench.Result), func()) {
	if c.Bool("quiet") {
		return nil, func() {}
	}
	p := output.NewProgress(c.App.ErrWriter, title, total)
	return func(section string, r bench.Result) {
		p.Step(fmt.Sprintf("%s %s x%d", section, r.Implementation, r.Threads))
	}, p.Finish
}
