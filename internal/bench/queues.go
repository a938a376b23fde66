package bench

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"github.com/yndnr/syncx-go/internal/bench/config"
	"github.com/yndnr/syncx-go/internal/telemetry/logger"
	"github.com/yndnr/syncx-go/pkg/queue"
	"github.com/yndnr/syncx-go/pkg/timeout"
)

// SectionQueues is the only section of the queues report.
const SectionQueues = "transfer"

// errChannelClosed mirrors queue.ErrDisconnected for the channel baseline.
var errChannelClosed = errors.New("channel closed before all messages arrived")

// queueTarget hands out one producer side and one consumer side per pair.
// A producer's done is called once it has sent everything; when every
// producer is done, blocked consumers fail instead of waiting forever.
type queueTarget interface {
	producer() (put func(int) error, done func())
	consumer() (get func() (int, error), done func())
	// seal is called after all handles exist and before the run starts.
	seal()
}

type queueFactory struct {
	name  string
	build func(env Env, maxsize, producers, capacity int) queueTarget
}

var queueTargets = []queueFactory{
	{"queue.Queue", func(env Env, maxsize, _, _ int) queueTarget {
		return &syncxQueueTarget{q: queue.New[int](maxsize, env.queueOptions()...)}
	}},
	{"chan", func(_ Env, maxsize, producers, capacity int) queueTarget {
		if maxsize > 0 {
			capacity = maxsize
		}
		t := &chanTarget{ch: make(chan int, capacity)}
		t.live.Add(producers)
		return t
	}},
}

// syncxQueueTarget gives every producer its own Sender and every consumer
// its own Receiver, then drops the queue's own endpoints so disconnect
// follows the handles.
type syncxQueueTarget struct {
	q *queue.Queue[int]
}

func (t *syncxQueueTarget) producer() (func(int) error, func()) {
	s := t.q.Sender()
	return func(v int) error { return s.Put(v, true, timeout.None) }, s.Close
}

func (t *syncxQueueTarget) consumer() (func() (int, error), func()) {
	r := t.q.Receiver()
	return func() (int, error) { return r.Get(true, timeout.None) }, r.Close
}

func (t *syncxQueueTarget) seal() { t.q.Close() }

// chanTarget is a buffered channel closed by the last producer. An
// unbounded queue is approximated by a buffer large enough for every
// message of the run.
type chanTarget struct {
	ch   chan int
	live sync.WaitGroup
	once sync.Once
}

func (t *chanTarget) producer() (func(int) error, func()) {
	put := func(v int) error {
		t.ch <- v
		return nil
	}
	done := func() {
		t.live.Done()
	}
	return put, done
}

func (t *chanTarget) consumer() (func() (int, error), func()) {
	get := func() (int, error) {
		v, ok := <-t.ch
		if !ok {
			return 0, errChannelClosed
		}
		return v, nil
	}
	return get, func() {}
}

func (t *chanTarget) seal() {
	t.once.Do(func() {
		go func() {
			t.live.Wait()
			close(t.ch)
		}()
	})
}

// RunQueues moves cfg.Messages messages through every producer/consumer
// pair. Throughput counts one put and one get per message. A positive
// cfg.Rate paces every producer with a token bucket.
func RunQueues(ctx context.Context, cfg config.QueuesSection, env Env) (*Report, error) {
	report := newReport("queues", cfg)
	ctx = logger.WithWorkload(logger.WithRunID(ctx, report.RunID), report.Benchmark)
	log := logger.L(ctx)
	log.Info("queues benchmark started",
		"pairs", cfg.Pairs,
		"messages", cfg.Messages,
		"maxsize", cfg.MaxSize,
		"rate", cfg.Rate,
	)

	sec := report.section(SectionQueues, "pairs")
	for _, pairs := range cfg.Pairs {
		for _, factory := range queueTargets {
			res, err := runQueuePairs(ctx, factory, cfg, pairs, env)
			if err != nil {
				return nil, fmt.Errorf("%s with %d pairs: %w", factory.name, pairs, err)
			}
			sec.Results = append(sec.Results, res)
			env.report(sec.Name, res)
		}
	}

	log.Info("queues benchmark finished")
	return report, nil
}

func runQueuePairs(ctx context.Context, factory queueFactory, cfg config.QueuesSection, pairs int, env Env) (Result, error) {
	target := factory.build(env, cfg.MaxSize, pairs, pairs*cfg.Messages)

	type side struct {
		put      func(int) error
		get      func() (int, error)
		done     func()
		producer bool
	}
	sides := make([]side, 0, 2*pairs)
	for range pairs {
		put, done := target.producer()
		sides = append(sides, side{put: put, done: done, producer: true})
	}
	for range pairs {
		get, done := target.consumer()
		sides = append(sides, side{get: get, done: done})
	}
	target.seal()

	m, err := measure(ctx, len(sides), cfg.Messages, func(ctx context.Context, slot int) error {
		s := sides[slot]
		defer s.done()

		if !s.producer {
			for range cfg.Messages {
				if _, err := s.get(); err != nil {
					return err
				}
			}
			return nil
		}

		var limiter *rate.Limiter
		if cfg.Rate > 0 {
			limiter = rate.NewLimiter(rate.Limit(cfg.Rate), 1)
		}
		for i := range cfg.Messages {
			if limiter != nil {
				if err := limiter.Wait(ctx); err != nil {
					return err
				}
			}
			if err := s.put(slot*cfg.Messages + i); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return newResult(factory.name, pairs, 2*pairs*cfg.Messages, m), nil
}
