// Package hearts runs the periodic heart regeneration for a logged-in
// learner.
package hearts

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
)

// DefaultInterval is the time between two regenerated hearts.
const DefaultInterval = 5 * time.Minute

// Regenerator calls tick once per interval while started. The first tick
// comes one full interval after Start.
type Regenerator struct {
	interval time.Duration
	tick     func()
	logger   *slog.Logger

	mu    sync.Mutex
	sched *gocron.Scheduler
}

// NewRegenerator creates a stopped Regenerator. A non-positive interval
// means DefaultInterval.
func NewRegenerator(interval time.Duration, tick func(), logger *slog.Logger) *Regenerator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Regenerator{interval: interval, tick: tick, logger: logger}
}

// Start schedules the recurring tick. Starting a running Regenerator does
// nothing, so there is never more than one job.
func (r *Regenerator) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sched != nil {
		return nil
	}

	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	if _, err := s.Every(r.interval).WaitForSchedule().Do(r.tick); err != nil {
		return fmt.Errorf("schedule heart regeneration: %w", err)
	}
	s.StartAsync()

	r.sched = s
	r.logger.Debug("heart regeneration started", "interval", r.interval)
	return nil
}

// Stop cancels the job. A later Start schedules a fresh one.
func (r *Regenerator) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sched == nil {
		return
	}
	r.sched.Stop()
	r.sched.Clear()
	r.sched = nil
	r.logger.Debug("heart regeneration stopped")
}

// Running reports whether a job is scheduled.
func (r *Regenerator) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sched != nil
}

// Jobs returns the number of scheduled jobs.
func (r *Regenerator) Jobs() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sched == nil {
		return 0
	}
	return r.sched.Len()
}
