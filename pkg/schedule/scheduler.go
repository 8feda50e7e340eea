package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"perimeleon/pmexport/pkg/telemetry/health"
)

// RunFunc performs one export.
type RunFunc func(ctx context.Context) error

// ErrAlreadyRunning is returned by RunNow while another export is in progress.
var ErrAlreadyRunning = errors.New("export already running")

// Scheduler runs exports on a cron schedule. At most one export runs at a
// time; a tick that fires while the previous export is still running is
// skipped.
type Scheduler struct {
	run     RunFunc
	spec    string
	cron    *cron.Cron
	entry   cron.EntryID
	lastRun *health.LastRun
	logger  *slog.Logger

	mu      sync.Mutex
	running bool
	ctx     context.Context

	busy chan struct{}
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the scheduler logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// WithLastRun records every export result in l, for the readiness probe.
func WithLastRun(l *health.LastRun) Option {
	return func(s *Scheduler) { s.lastRun = l }
}

// New creates a scheduler for the standard five-field cron expression spec.
func New(spec string, run RunFunc, opts ...Option) (*Scheduler, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid cron schedule %q: %w", spec, err)
	}
	s := &Scheduler{
		run:    run,
		spec:   spec,
		logger: slog.Default(),
		busy:   make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(s)
	}
	s.logger = s.logger.With("component", "schedule")
	s.cron = cron.New(cron.WithLogger(cronLogger{s.logger}))
	return s, nil
}

// Start schedules exports until ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("scheduler already running")
	}
	id, err := s.cron.AddFunc(s.spec, func() { s.tick(ctx) })
	if err != nil {
		return fmt.Errorf("failed to schedule export: %w", err)
	}
	s.entry = id
	s.ctx = ctx
	s.cron.Start()
	s.running = true

	s.logger.Info("scheduler started", "schedule", s.spec, "next_run", s.nextRunLocked())

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Reschedule replaces the cron expression. The running export, if any, is
// not interrupted.
func (s *Scheduler) Reschedule(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", spec, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if spec == s.spec {
		return nil
	}
	s.spec = spec
	if !s.running {
		return nil
	}

	ctx := s.ctx
	id, err := s.cron.AddFunc(spec, func() { s.tick(ctx) })
	if err != nil {
		return fmt.Errorf("failed to schedule export: %w", err)
	}
	s.cron.Remove(s.entry)
	s.entry = id

	s.logger.Info("schedule changed", "schedule", spec, "next_run", s.nextRunLocked())
	return nil
}

// RunNow runs one export synchronously, unless one is already running.
func (s *Scheduler) RunNow(ctx context.Context) error {
	select {
	case s.busy <- struct{}{}:
	default:
		return ErrAlreadyRunning
	}
	defer func() { <-s.busy }()

	start := time.Now()
	err := s.run(ctx)
	s.lastRun.Record(err)

	if err != nil {
		s.logger.Error("scheduled export failed", "error", err, "duration", time.Since(start))
	} else {
		s.logger.Info("scheduled export completed", "duration", time.Since(start))
	}
	return err
}

func (s *Scheduler) tick(ctx context.Context) {
	if err := s.RunNow(ctx); errors.Is(err, ErrAlreadyRunning) {
		s.logger.Warn("previous export still running, skipping tick")
	}
}

// Stop stops the scheduler and waits for a running export to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.running = false
		s.logger.Info("scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled export time, or nil when not running.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextRunLocked()
}

func (s *Scheduler) nextRunLocked() *time.Time {
	if !s.running {
		return nil
	}
	next := s.cron.Entry(s.entry).Next
	if next.IsZero() {
		sched, err := cron.ParseStandard(s.spec)
		if err != nil {
			return nil
		}
		next = sched.Next(time.Now())
	}
	return &next
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
