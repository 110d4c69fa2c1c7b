// Package poller runs the refresh jobs on their own fixed cadences.
package poller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is one periodic refresh unit. Refresh performs a single fetch and, on
// success, one atomic write of its owned store fields. It must return an
// error rather than panic or write partial results; the scheduler logs the
// error and retries at the next tick, leaving previously stored values
// untouched.
type Job interface {
	Name() string
	Interval() time.Duration
	Refresh(ctx context.Context) error
}

// Scheduler triggers each registered job once at start and then on its own
// interval. Jobs run in independent goroutines with no ordering between
// them; a slow run may overlap its own next tick. Every run is bounded by a
// timeout so a hung fetch becomes a timed failure instead of a stuck job.
//
// Thread safety: Start/Stop are safe for concurrent use; the running state
// is mutex-protected.
type Scheduler struct {
	jobs    []Job
	timeout time.Duration
	logger  *zap.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithJobTimeout sets the per-run timeout. Defaults to 30 seconds.
func WithJobTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		s.timeout = d
	}
}

// NewScheduler creates a scheduler for the given jobs.
func NewScheduler(logger *zap.Logger, jobs []Job, opts ...Option) (*Scheduler, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	s := &Scheduler{
		jobs:    jobs,
		timeout: 30 * time.Second,
		logger:  logger,
		stopCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start launches one goroutine per job. Each job runs immediately, then on
// its interval until Stop is called. Returns an error if already running.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}

	s.stopCh = make(chan struct{})
	s.running = true

	s.logger.Info("poller started", zap.Int("jobs", len(s.jobs)), zap.Duration("job_timeout", s.timeout))

	for _, j := range s.jobs {
		s.wg.Add(1)
		go s.runJob(j)
	}
	return nil
}

// Stop signals all job goroutines to stop and waits for them to finish.
// In-flight runs complete (their contexts are not cancelled); only the tick
// loops end. Idempotent.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("poller stopped")
}

// runJob is one job's loop: immediate run, then ticker.
func (s *Scheduler) runJob(j Job) {
	defer s.wg.Done()

	s.safeRun(j)

	ticker := time.NewTicker(j.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.safeRun(j)
		case <-s.stopCh:
			return
		}
	}
}

// safeRun executes one refresh with timeout, panic recovery, and metrics.
// A failure never crosses the job boundary: it is logged, counted, and the
// job waits for its next tick.
func (s *Scheduler) safeRun(j Job) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("refresh panicked",
				zap.String("job", j.Name()),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
			recordRefresh(j.Name(), 0, fmt.Errorf("panic: %v", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	err := j.Refresh(ctx)
	elapsed := time.Since(start)

	recordRefresh(j.Name(), elapsed, err)

	if err != nil {
		s.logger.Warn("refresh failed",
			zap.String("job", j.Name()),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return
	}

	s.logger.Debug("refresh succeeded",
		zap.String("job", j.Name()),
		zap.Duration("elapsed", elapsed),
	)
}
