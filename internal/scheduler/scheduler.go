// Package scheduler keeps stored strategies fresh. A weekly cron job
// regenerates every business whose latest strategy is older than the
// staleness threshold; a manual trigger runs the same refresh over a small
// bounded batch.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/growthplot/strategy-agent/internal/models"
	"github.com/growthplot/strategy-agent/internal/store"
)

// Run every Monday at 9:00 AM.
const cronSchedule = "0 9 * * 1"

// Sentinel identities for non-interactive refreshes.
const (
	cronEmail   = "cron-update@system.local"
	manualEmail = "manual-update@system.local"
)

// Generator produces a strategy for a business profile.
type Generator interface {
	Generate(ctx context.Context, profile models.BusinessProfile) (*models.Strategy, error)
}

// Store is the persistence surface the scheduler needs.
type Store interface {
	ListStale(ctx context.Context, olderThan time.Duration, limit int) ([]store.StaleBusiness, error)
	SaveGeneration(ctx context.Context, strategy *models.Strategy, profile models.BusinessProfile, ownerID, email string) error
}

// Scheduler owns the process-wide refresh timer.
type Scheduler struct {
	generator  Generator
	store      Store
	log        *zap.Logger
	staleAfter time.Duration
	manualMax  int

	cron    *cron.Cron
	mu      sync.Mutex
	started bool
}

// New creates a scheduler. staleAfter is the age past which a strategy is
// refreshed; manualMax bounds the batch of a manual trigger.
func New(generator Generator, st Store, staleAfter time.Duration, manualMax int, log *zap.Logger) *Scheduler {
	return &Scheduler{
		generator:  generator,
		store:      st,
		log:        log,
		staleAfter: staleAfter,
		manualMax:  manualMax,
		cron:       cron.New(),
	}
}

// Start registers the weekly job. Calling Start more than once is a no-op,
// so process restarts and re-entrant boot code cannot register duplicate
// timers.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		s.log.Warn("scheduler already started, ignoring duplicate Start")
		return
	}

	_, err := s.cron.AddFunc(cronSchedule, func() {
		s.RunScheduled(context.Background())
	})
	if err != nil {
		s.log.Error("failed to register weekly update job", zap.Error(err))
		return
	}

	s.cron.Start()
	s.started = true
	s.log.Info("weekly strategy update job initialized", zap.String("schedule", cronSchedule))
}

// Stop halts the cron runner. In-flight runs complete on their own.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.cron.Stop()
	s.started = false
}

// RunScheduled refreshes every stale business. Items are processed strictly
// sequentially, oldest strategy first, and one item's failure never aborts
// the batch: a failed business stays stale and is retried on the next run.
func (s *Scheduler) RunScheduled(ctx context.Context) {
	s.log.Info("running weekly strategy updates")

	stale, err := s.store.ListStale(ctx, s.staleAfter, 0)
	if err != nil {
		s.log.Error("failed to list stale businesses", zap.Error(err))
		return
	}
	s.log.Info("found businesses to update", zap.Int("count", len(stale)))

	for _, item := range stale {
		s.refreshOne(ctx, item, cronEmail)
	}

	s.log.Info("weekly update completed")
}

// RunManual refreshes a bounded batch of the most-stale businesses and
// returns the number attempted. Intended for operational testing.
func (s *Scheduler) RunManual(ctx context.Context) (int, error) {
	s.log.Info("manually triggering strategy update")

	stale, err := s.store.ListStale(ctx, s.staleAfter, s.manualMax)
	if err != nil {
		return 0, err
	}

	for _, item := range stale {
		s.refreshOne(ctx, item, manualEmail)
	}
	return len(stale), nil
}

// refreshOne regenerates and saves a single business. pending -> generating
// -> saved|failed; failures are logged and swallowed.
func (s *Scheduler) refreshOne(ctx context.Context, item store.StaleBusiness, email string) {
	log := s.log.With(
		zap.Int64("business_id", item.BusinessID),
		zap.String("business", item.Profile.Name))
	log.Info("updating strategy")

	strategy, err := s.generator.Generate(ctx, item.Profile)
	if err != nil {
		log.Error("failed to regenerate strategy", zap.Error(err))
		return
	}

	if err := s.store.SaveGeneration(ctx, strategy, item.Profile, item.OwnerID, email); err != nil {
		log.Error("failed to save refreshed strategy", zap.Error(err))
		return
	}

	log.Info("strategy updated", zap.String("strategy_id", strategy.ID))
}
