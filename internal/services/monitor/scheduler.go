package monitor

import (
	"context"
	"log"
	"sync"
	"time"
)

// Scheduler drives a periodic task with an explicit cancel handle,
// instead of ambient interval timers scattered through the codebase.
type Scheduler struct {
	interval time.Duration
	task     func(context.Context) error

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// NewScheduler wraps a task to run every interval.
func NewScheduler(interval time.Duration, task func(context.Context) error) *Scheduler {
	return &Scheduler{interval: interval, task: task}
}

// Start begins the periodic loop. It is a no-op if already running.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.task(ctx); err != nil {
					log.Printf("scheduled task failed: %v", err)
				}
			}
		}
	}()
}

// Stop cancels the loop and waits for the current run to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.cancel()
	done := s.done
	s.running = false
	s.mu.Unlock()

	<-done
}
