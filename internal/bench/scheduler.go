// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bench

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/carmarket/seobench/pkg/types"
)

// DefaultSchedule runs the benchmark nightly at 02:00.
const DefaultSchedule = "0 2 * * *"

// Scheduler owns the cron entry and guards against overlapping runs. A
// trigger arriving while a run is in flight is skipped, never queued.
type Scheduler struct {
	runner *Runner
	store  Store
	logw   io.Writer

	mu      sync.Mutex
	cron    *cron.Cron
	entry   cron.EntryID
	started bool

	running atomic.Bool
}

// SchedulerStatus is the queryable scheduler state.
type SchedulerStatus struct {
	Started bool             `json:"started"`
	Running bool             `json:"running"`
	NextRun *time.Time       `json:"next_run,omitempty"`
	LastRun *types.RunStatus `json:"last_run,omitempty"`
}

// NewScheduler builds a scheduler around runner. Start must be called to
// arm the cron entry; manual triggers via RunNow work regardless.
func NewScheduler(runner *Runner, st Store, logw io.Writer) *Scheduler {
	return &Scheduler{runner: runner, store: st, logw: logw}
}

// Start registers the cron entry and begins scheduling. Calling Start on
// an already-started scheduler is a programming error and is rejected.
func (s *Scheduler) Start(schedule string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return fmt.Errorf("scheduler already started")
	}
	if schedule == "" {
		schedule = DefaultSchedule
	}

	c := cron.New()
	id, err := c.AddFunc(schedule, func() {
		status, err := s.RunNow(context.Background(), nil)
		if err != nil {
			fmt.Fprintf(s.logw, "scheduled run failed to record: %v\n", err)
			return
		}
		if status.Skipped {
			fmt.Fprintf(s.logw, "scheduled run skipped: previous run still in flight\n")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	c.Start()
	s.cron = c
	s.entry = id
	s.started = true
	fmt.Fprintf(s.logw, "scheduler armed (%s)\n", schedule)
	return nil
}

// Stop halts scheduling. In-flight runs finish; nothing new fires.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		s.cron.Stop()
	}
	s.started = false
	s.cron = nil
}

// RunNow executes one run unless another is already in flight, in which
// case it returns a skipped status immediately. Used by both the cron
// entry and the manual admin endpoint.
func (s *Scheduler) RunNow(ctx context.Context, domains []string) (types.RunStatus, error) {
	if !s.running.CompareAndSwap(false, true) {
		return types.RunStatus{Skipped: true}, nil
	}
	defer s.running.Store(false)
	return s.runner.Run(ctx, domains)
}

// Status reports scheduler state plus the most recent recorded run.
func (s *Scheduler) Status(ctx context.Context) (SchedulerStatus, error) {
	s.mu.Lock()
	status := SchedulerStatus{Started: s.started}
	if s.started && s.cron != nil {
		next := s.cron.Entry(s.entry).Next
		if !next.IsZero() {
			status.NextRun = &next
		}
	}
	s.mu.Unlock()

	status.Running = s.running.Load()
	last, err := s.store.LastRun(ctx)
	if err != nil {
		return status, fmt.Errorf("reading last run: %w", err)
	}
	status.LastRun = last
	return status, nil
}
