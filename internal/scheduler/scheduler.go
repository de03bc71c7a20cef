package scheduler

import (
	"context"
	"sync"
	"time"

	"kidsweek-go/pkg/logger"
)

type task struct {
	name  string
	every time.Duration
	run   func(ctx context.Context) error
}

// Scheduler owns the process's recurring background sweeps. Each task ticks on
// its own interval; a failing cycle is logged and followed by a normal next
// cycle. Stop cancels all tasks and waits for in-flight runs to drain.
type Scheduler struct {
	log    logger.Logger
	tasks  []task
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(log logger.Logger) *Scheduler {
	return &Scheduler{log: log}
}

// Add registers a task. Must be called before Start.
func (s *Scheduler) Add(name string, every time.Duration, run func(ctx context.Context) error) {
	s.tasks = append(s.tasks, task{name: name, every: every, run: run})
}

func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	for _, t := range s.tasks {
		s.wg.Add(1)
		go func(t task) {
			defer s.wg.Done()
			s.log.Info("scheduler: task started", "task", t.name, "every", t.every)

			ticker := time.NewTicker(t.every)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					s.log.Info("scheduler: task stopped", "task", t.name)
					return
				case <-ticker.C:
					if err := t.run(ctx); err != nil {
						s.log.InternalError("scheduler: task cycle failed", err, "task", t.name)
					}
				}
			}
		}(t)
	}
}

func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}
