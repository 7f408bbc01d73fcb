// Package sched provides the worker scheduler that drives pipeline
// invocations. It replaces the hidden process-global runner pattern with an
// explicit object whose lifecycle belongs to whoever created it, which also
// makes it trivial to inject a small deterministic instance in tests.
package sched

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

var (
	// ErrStopped is returned by Submit after Stop has been called.
	ErrStopped = errors.New("scheduler is stopped")
	// ErrQueueFull is returned when the submission queue is at capacity.
	ErrQueueFull = errors.New("scheduler queue is full")
)

// Task is one unit of scheduled work.
type Task func(ctx context.Context)

// Config configures the scheduler.
type Config struct {
	Workers      int       `json:"workers" yaml:"workers" env:"WORKERS"`
	QueueSize    int       `json:"queue_size" yaml:"queue_size" env:"QUEUE_SIZE"`
	PanicHandler func(any) `json:"-" yaml:"-" env:"-"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:   4,
		QueueSize: 64,
	}
}

type job struct {
	ctx  context.Context
	task Task
}

// Scheduler runs submitted tasks on a fixed set of worker goroutines.
type Scheduler struct {
	queue        chan job
	panicHandler func(any)

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup

	submitted atomic.Int64
	completed atomic.Int64
}

// New creates a started scheduler.
func New(cfg Config) *Scheduler {
	def := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}

	s := &Scheduler{
		queue:        make(chan job, cfg.QueueSize),
		panicHandler: cfg.PanicHandler,
	}
	s.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go s.worker()
	}
	return s
}

func (s *Scheduler) worker() {
	defer s.wg.Done()
	for j := range s.queue {
		s.runTask(j)
		s.completed.Add(1)
	}
}

func (s *Scheduler) runTask(j job) {
	defer func() {
		if r := recover(); r != nil && s.panicHandler != nil {
			s.panicHandler(r)
		}
	}()
	if j.ctx.Err() != nil {
		return
	}
	j.task(j.ctx)
}

// Submit enqueues a task. Tasks whose context is already cancelled when a
// worker picks them up are skipped without running.
func (s *Scheduler) Submit(ctx context.Context, task Task) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.stopped {
		return ErrStopped
	}
	select {
	case s.queue <- job{ctx: ctx, task: task}:
		s.submitted.Add(1)
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop drains the queue and waits for running tasks to finish. Subsequent
// Submit calls fail with ErrStopped. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	close(s.queue)
	s.mu.Unlock()
	s.wg.Wait()
}

// Stats reports lifetime submission and completion counts.
func (s *Scheduler) Stats() (submitted, completed int64) {
	return s.submitted.Load(), s.completed.Load()
}
