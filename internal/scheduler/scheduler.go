// Package scheduler runs recurring engine tasks on independent timers.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/rakeshbhol1995-dotcom/dex-free/internal/observability"
)

// Task is one recurring unit of work. Run is never invoked concurrently with
// itself: a tick that fires while the previous run is still in flight is
// skipped, not queued.
type Task struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler drives a set of tasks, each on its own timer.
type Scheduler struct {
	tasks   []Task
	logger  *log.Logger
	metrics *observability.Metrics

	mu      sync.Mutex
	started bool
	baseCtx context.Context
	done    chan struct{}
	wg      sync.WaitGroup
}

// New creates a scheduler for the given tasks.
func New(tasks []Task, logger *log.Logger, metrics *observability.Metrics) *Scheduler {
	return &Scheduler{
		tasks:   tasks,
		logger:  logger,
		metrics: metrics,
		done:    make(chan struct{}),
	}
}

// Start launches every task loop. Each task runs once immediately, then on
// its interval. The context is passed through to task runs; cancelling it
// aborts in-flight work, while Stop lets it drain.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("scheduler already started")
	}
	for _, task := range s.tasks {
		if task.Interval <= 0 {
			return fmt.Errorf("task %s has non-positive interval", task.Name)
		}
	}

	s.started = true
	s.baseCtx = ctx

	for _, task := range s.tasks {
		s.wg.Add(1)
		go s.loop(task)
	}

	return nil
}

// loop drives one task until Stop.
func (s *Scheduler) loop(task Task) {
	defer s.wg.Done()

	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	s.runOnce(task)

	for {
		select {
		case <-s.done:
			return
		case <-s.baseCtx.Done():
			return
		case <-ticker.C:
		}

		s.runOnce(task)

		// A tick that accrued while the run was in flight is dropped. The
		// ticker channel holds at most one pending tick, so draining it here
		// skips the backlog instead of replaying it.
		select {
		case <-ticker.C:
			if s.metrics != nil {
				s.metrics.TicksCoalesced.WithLabelValues(task.Name).Inc()
			}
			s.logger.Printf("scheduler: task %s skipped a tick (previous run still in flight)", task.Name)
		default:
		}
	}
}

func (s *Scheduler) runOnce(task Task) {
	start := time.Now()
	if err := task.Run(s.baseCtx); err != nil {
		s.logger.Printf("scheduler: task %s failed after %s: %v", task.Name, time.Since(start), err)
	}
}

// Stop halts the timers and waits for in-flight runs to finish. The wait is
// bounded by ctx; a run that outlives it is abandoned and an error returned.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	select {
	case <-s.done:
		s.mu.Unlock()
		return nil
	default:
	}
	close(s.done)
	s.mu.Unlock()

	finished := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler drain: %w", ctx.Err())
	}
}
