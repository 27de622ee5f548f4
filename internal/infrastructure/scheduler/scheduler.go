// Package scheduler runs background tasks on a fixed interval.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is one unit of scheduled work
type Task func(ctx context.Context) error

// RunStatus represents the outcome of the last run
type RunStatus string

const (
	RunStatusNever   RunStatus = "never"
	RunStatusRunning RunStatus = "running"
	RunStatusSuccess RunStatus = "success"
	RunStatusFailed  RunStatus = "failed"
)

// Config holds configuration for a periodic scheduler
type Config struct {
	// Name identifies the task in logs
	Name string
	// Interval between runs
	Interval time.Duration
	// Timeout bounds a single run
	Timeout time.Duration
	// RunOnStart runs the task once immediately after Start
	RunOnStart bool
}

// Validate checks the configuration
func (c Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidConfig)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive", ErrInvalidConfig)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Status is a snapshot of the scheduler state
type Status struct {
	Name       string     `json:"name"`
	IsRunning  bool       `json:"is_running"`
	Interval   string     `json:"interval"`
	LastStatus RunStatus  `json:"last_status"`
	LastError  string     `json:"last_error,omitempty"`
	LastRunAt  *time.Time `json:"last_run_at,omitempty"`
	NextRunAt  *time.Time `json:"next_run_at,omitempty"`
	Runs       int64      `json:"runs"`
	Failures   int64      `json:"failures"`
}

// PeriodicScheduler runs a task every interval. Runs never overlap.
type PeriodicScheduler struct {
	config Config
	task   Task
	logger *zap.Logger

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running sync.Mutex // held for the duration of one run

	mu         sync.Mutex
	isRunning  bool
	lastStatus RunStatus
	lastError  string
	lastRunAt  *time.Time
	nextRunAt  *time.Time
	runs       int64
	failures   int64
}

// New creates a periodic scheduler
func New(config Config, task Task, logger *zap.Logger) (*PeriodicScheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("%w: task is required", ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PeriodicScheduler{
		config:     config,
		task:       task,
		logger:     logger.With(zap.String("task", config.Name)),
		lastStatus: RunStatusNever,
	}, nil
}

// Start starts the scheduler loop
func (s *PeriodicScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.setNextRun(time.Now().Add(s.config.Interval))

	s.wg.Add(1)
	go s.loop(ctx)

	s.logger.Info("Scheduler started",
		zap.Duration("interval", s.config.Interval),
		zap.Duration("timeout", s.config.Timeout),
		zap.Bool("run_on_start", s.config.RunOnStart),
	)
	return nil
}

// Stop stops the loop and waits for an in-flight run until ctx expires
func (s *PeriodicScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out")
		return ctx.Err()
	}
}

func (s *PeriodicScheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	if s.config.RunOnStart {
		s.runOnce(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.setNextRun(now.Add(s.config.Interval))
			s.runOnce(ctx)
		}
	}
}

// TriggerNow runs the task synchronously outside the regular schedule
func (s *PeriodicScheduler) TriggerNow(ctx context.Context) error {
	s.mu.Lock()
	running := s.isRunning
	s.mu.Unlock()
	if !running {
		return ErrSchedulerNotRunning
	}
	if !s.running.TryLock() {
		return ErrRunInProgress
	}
	defer s.running.Unlock()
	return s.execute(ctx)
}

// runOnce skips the tick when a manual run is still in flight
func (s *PeriodicScheduler) runOnce(ctx context.Context) {
	if !s.running.TryLock() {
		s.logger.Warn("Skipping tick, previous run still in progress")
		return
	}
	defer s.running.Unlock()
	_ = s.execute(ctx)
}

func (s *PeriodicScheduler) execute(ctx context.Context) (err error) {
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	s.mu.Lock()
	s.lastRunAt = &start
	s.lastStatus = RunStatusRunning
	s.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
		s.finish(err, time.Since(start))
	}()

	return s.task(ctx)
}

func (s *PeriodicScheduler) finish(err error, elapsed time.Duration) {
	s.mu.Lock()
	s.runs++
	if err != nil {
		s.failures++
		s.lastStatus = RunStatusFailed
		s.lastError = err.Error()
	} else {
		s.lastStatus = RunStatusSuccess
		s.lastError = ""
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("Scheduled run failed", zap.Duration("elapsed", elapsed), zap.Error(err))
		return
	}
	s.logger.Debug("Scheduled run completed", zap.Duration("elapsed", elapsed))
}

func (s *PeriodicScheduler) setNextRun(t time.Time) {
	s.mu.Lock()
	s.nextRunAt = &t
	s.mu.Unlock()
}

// Status returns the current scheduler state
func (s *PeriodicScheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Name:       s.config.Name,
		IsRunning:  s.isRunning,
		Interval:   s.config.Interval.String(),
		LastStatus: s.lastStatus,
		LastError:  s.lastError,
		LastRunAt:  s.lastRunAt,
		NextRunAt:  s.nextRunAt,
		Runs:       s.runs,
		Failures:   s.failures,
	}
}
