package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/syncx-go/internal/bench"
)

// LocksCommand returns the locks command.
func LocksCommand() *cli.Command {
	bindings := []binding{
		{"threads", "locks.threads", intsValue},
		{"iterations", "locks.iterations", intValue},
		{"depth", "locks.depth", intValue},
		{"readers", "locks.readers", intsValue},
		{"writers", "locks.writers", intValue},
		{"rw-ops", "locks.rwops", intValue},
	}
	return &cli.Command{
		Name:  "locks",
		Usage: "Benchmark Mutex, RMutex and RWMutex against sync",
		Flags: []cli.Flag{
			&cli.IntSliceFlag{Name: "threads", Aliases: []string{"t"}, Usage: "Worker counts for mutex and reentrant runs"},
			&cli.IntFlag{Name: "iterations", Aliases: []string{"n"}, Usage: "Acquisitions per worker"},
			&cli.IntFlag{Name: "depth", Usage: "Reentrant nesting depth"},
			&cli.IntSliceFlag{Name: "readers", Usage: "Reader counts for reader/writer runs"},
			&cli.IntFlag{Name: "writers", Usage: "Writers per reader/writer run"},
			&cli.IntFlag{Name: "rw-ops", Usage: "Operations per reader/writer worker"},
		},
		Action: func(c *cli.Context) error {
			s, err := setup(c, bindings...)
			if err != nil {
				return err
			}
			onResult, finish := progress(c, "locks", bench.LockSteps(s.cfg.Locks))
			report, err := bench.RunLocks(s.ctx, s.cfg.Locks, bench.Env{OnResult: onResult})
			finish()
			if err != nil {
				return err
			}
			return s.emit(c, report)
		},
	}
}

// MapsCommand returns the maps command.
func MapsCommand() *cli.Command {
	bindings := []binding{
		{"threads", "maps.threads", intsValue},
		{"operations", "maps.operations", intValue},
		{"keyspace", "maps.keyspace", intValue},
		{"read-heavy", "maps.readheavy", floatValue},
		{"write-heavy", "maps.writeheavy", floatValue},
		{"seed", "maps.seed", int64Value},
		{"shards", "maps.shards", intValue},
	}
	return &cli.Command{
		Name:  "maps",
		Usage: "Benchmark the sharded map against sync.Map and a locked map",
		Flags: []cli.Flag{
			&cli.IntSliceFlag{Name: "threads", Aliases: []string{"t"}, Usage: "Worker counts"},
			&cli.IntFlag{Name: "operations", Aliases: []string{"n"}, Usage: "Operations per worker"},
			&cli.IntFlag{Name: "keyspace", Usage: "Distinct keys"},
			&cli.Float64Flag{Name: "read-heavy", Usage: "Read ratio of the read-heavy mix"},
			&cli.Float64Flag{Name: "write-heavy", Usage: "Read ratio of the write-heavy mix"},
			&cli.Int64Flag{Name: "seed", Usage: "Random seed"},
			&cli.IntFlag{Name: "shards", Usage: "Shard count of the sharded map (0 for the default)"},
		},
		Action: func(c *cli.Context) error {
			s, err := setup(c, bindings...)
			if err != nil {
				return err
			}
			onResult, finish := progress(c, "maps", bench.MapSteps(s.cfg.Maps))
			report, err := bench.RunMaps(s.ctx, s.cfg.Maps, bench.Env{OnResult: onResult})
			finish()
			if err != nil {
				return err
			}
			return s.emit(c, report)
		},
	}
}

// QueuesCommand returns the queues command.
func QueuesCommand() *cli.Command {
	bindings := []binding{
		{"pairs", "queues.pairs", intsValue},
		{"messages", "queues.messages", intValue},
		{"maxsize", "queues.maxsize", intValue},
		{"rate", "queues.rate", floatValue},
	}
	return &cli.Command{
		Name:  "queues",
		Usage: "Benchmark queue hand-off against a buffered channel",
		Flags: []cli.Flag{
			&cli.IntSliceFlag{Name: "pairs", Aliases: []string{"p"}, Usage: "Producer/consumer pair counts"},
			&cli.IntFlag{Name: "messages", Aliases: []string{"n"}, Usage: "Messages per producer"},
			&cli.IntFlag{Name: "maxsize", Usage: "Queue capacity (0 for unbounded)"},
			&cli.Float64Flag{Name: "rate", Usage: "Producer messages per second (0 for unpaced)"},
		},
		Action: func(c *cli.Context) error {
			s, err := setup(c, bindings...)
			if err != nil {
				return err
			}
			onResult, finish := progress(c, "queues", bench.QueueSteps(s.cfg.Queues))
			report, err := bench.RunQueues(s.ctx, s.cfg.Queues, bench.Env{OnResult: onResult})
			finish()
			if err != nil {
				return err
			}
			return s.emit(c, report)
		},
	}
}
