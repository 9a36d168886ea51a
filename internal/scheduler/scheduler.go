// Package scheduler implements the deadline reminder scheduler: a periodic
// tick that scans assigned, non-archived tasks for every opted-in user,
// decides which reminders are due, and dispatches them with ledger-backed
// dedup.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/fernwork/taskboard-api/internal/domain"
	"github.com/fernwork/taskboard-api/internal/notify"
	"github.com/fernwork/taskboard-api/internal/store"
)

// Config holds the scheduler settings.
type Config struct {
	// TickInterval is the period between scans.
	TickInterval time.Duration

	// Workers bounds the per-tick fan-out across users.
	Workers int
}

// DefaultConfig returns a Config with reasonable defaults: a one-minute tick
// and four workers.
func DefaultConfig() Config {
	return Config{
		TickInterval: time.Minute,
		Workers:      4,
	}
}

// Dispatcher is the slice of the notification dispatcher the scheduler needs.
type Dispatcher interface {
	Dispatch(
		ctx context.Context,
		userID uuid.UUID,
		payload notify.Payload,
		opts notify.Options,
	) (uuid.UUID, error)
}

// Scheduler drives the periodic deadline-reminder scan. It is constructed
// once by the process entry point and owns its own running state; Start and
// Stop bracket its lifecycle.
type Scheduler struct {
	users      store.UserStore
	tasks      store.TaskStore
	reminders  store.ReminderStore
	dispatcher Dispatcher
	cfg        Config
	logger     *slog.Logger
	now        func() time.Time

	// tickMu is the re-entrancy guard: a tick that outlives the tick period
	// must not run concurrently with the next scheduled one.
	tickMu sync.Mutex

	mu   sync.Mutex
	cron *cron.Cron
}

// New creates a Scheduler.
func New(
	users store.UserStore,
	tasks store.TaskStore,
	reminders store.ReminderStore,
	dispatcher Dispatcher,
	cfg Config,
	log *slog.Logger,
) *Scheduler {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Minute
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if log == nil {
		log = slog.Default()
	}

	return &Scheduler{
		users:      users,
		tasks:      tasks,
		reminders:  reminders,
		dispatcher: dispatcher,
		cfg:        cfg,
		logger:     log.With("component", "reminder_scheduler"),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Start begins the periodic tick. Calling Start on a running scheduler is a
// no-op.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return nil
	}

	c := cron.New()
	spec := fmt.Sprintf("@every %s", s.cfg.TickInterval)
	if _, err := c.AddFunc(spec, func() { s.RunTick(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule reminder tick: %w", err)
	}

	c.Start()
	s.cron = c
	s.logger.Info("reminder scheduler started",
		"tick_interval", s.cfg.TickInterval.String(),
		"workers", s.cfg.Workers)
	return nil
}

// Stop halts the periodic tick and blocks until an in-flight tick has
// finished, so graceful shutdown never abandons a half-processed scan.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c == nil {
		return
	}

	<-c.Stop().Done()
	s.logger.Info("reminder scheduler stopped")
}

// RunTick executes one scan-and-send cycle. If the previous tick is still
// running the call is skipped; the ledger makes the following tick pick up
// whatever this one would have sent. Cancellation of ctx does not abort a
// cycle in progress; values on ctx (the request logger) still flow through.
func (s *Scheduler) RunTick(ctx context.Context) {
	if !s.tickMu.TryLock() {
		s.logger.Warn("previous tick still running, skipping")
		return
	}
	defer s.tickMu.Unlock()

	// A tick runs to completion once started. Shutdown blocks in Stop until
	// the tick returns; canceling the caller's context (the process signal
	// context) must not abort the scan's store reads and dispatches midway.
	ctx = context.WithoutCancel(ctx)

	now := s.now()
	started := time.Now()

	users, err := s.users.ListEmailEnabled(ctx)
	if err != nil {
		// Store unavailability ends the tick early; the next tick retries.
		s.logger.Error("failed to load opted-in users, ending tick", "error", err)
		return
	}

	// Fan out across users with a bounded worker pool. Per-key dedup safety
	// does not depend on this ordering: the ledger's unique constraint
	// serializes concurrent check-then-write attempts at the store.
	sem := make(chan struct{}, s.cfg.Workers)
	var wg sync.WaitGroup
	for _, user := range users {
		wg.Add(1)
		sem <- struct{}{}
		go func(u *domain.User) {
			defer wg.Done()
			defer func() { <-sem }()
			s.scanUser(ctx, u, now)
		}(user)
	}
	wg.Wait()

	s.logger.Debug("tick completed",
		"users", len(users),
		"duration", time.Since(started).String())
}
