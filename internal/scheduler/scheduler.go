// Package scheduler drives the periodic billing jobs: invoice catch-up for
// active leases and status refresh for everything already issued.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nyumba/nyumba/internal/clock"
	invoicedomain "github.com/nyumba/nyumba/internal/invoice/domain"
	obsmetrics "github.com/nyumba/nyumba/internal/observability/metrics"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	InvoiceSvc invoicedomain.Service
	Clock      clock.Clock

	Redis  *redis.Client `optional:"true"`
	Config Config        `optional:"true"`
}

type Scheduler struct {
	db         *gorm.DB
	log        *zap.Logger
	cfg        Config
	clock      clock.Clock
	invoiceSvc invoicedomain.Service
	locker     *Locker
}

func New(p Params) (*Scheduler, error) {
	if p.DB == nil || p.Log == nil || p.InvoiceSvc == nil || p.Clock == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		db:         p.DB,
		log:        p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:        p.Config.withDefaults(),
		clock:      p.Clock,
		invoiceSvc: p.InvoiceSvc,
		locker:     NewLocker(p.Redis),
	}, nil
}

func (s *Scheduler) runJob(parent context.Context, name string, fn func(ctx context.Context) error) error {
	start := s.clock.Now()
	ctx, cancel := context.WithTimeout(parent, s.cfg.JobTimeout)
	defer cancel()

	schedMetrics := obsmetrics.Scheduler()
	schedMetrics.IncJobRun(name)

	err := fn(ctx)
	schedMetrics.ObserveJobDuration(name, s.clock.Now().Sub(start))
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		schedMetrics.IncJobTimeout(name)
		schedMetrics.IncJobError(name, err)
		s.log.Warn("job timed out",
			zap.String("job", name),
			zap.Duration("timeout", s.cfg.JobTimeout),
			zap.Error(err),
		)
		return nil
	}

	schedMetrics.IncJobError(name, err)
	return fmt.Errorf("%s: %w", name, err)
}

// RunOnce runs one full pass of all jobs. When a Locker is configured and
// another instance holds the lock, the pass is skipped rather than queued.
func (s *Scheduler) RunOnce(parent context.Context) error {
	if s.locker != nil {
		token, ok, err := s.locker.TryLock(parent, s.cfg.LockKey, s.cfg.LockTTL)
		if err != nil {
			s.log.Warn("scheduler lock unavailable, running unlocked", zap.Error(err))
		} else if !ok {
			obsmetrics.Scheduler().IncLockSkipped()
			s.log.Debug("scheduler run skipped, lock held elsewhere")
			return nil
		} else {
			defer func() {
				if err := s.locker.Release(parent, s.cfg.LockKey, token); err != nil {
					s.log.Warn("failed to release scheduler lock", zap.Error(err))
				}
			}()
		}
	}

	var err error
	err = errors.Join(err, s.runJob(parent, "generate", s.GenerateJob))
	err = errors.Join(err, s.runJob(parent, "refresh_statuses", s.RefreshStatusesJob))
	return err
}

// runLag measures how far past its scheduled instant a pass starts, on the
// same clock that scheduled it.
func (s *Scheduler) runLag(nextRun time.Time) time.Duration {
	return s.clock.Now().Sub(nextRun)
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()
	nextRun := s.clock.Now().Add(s.cfg.RunInterval)
	schedMetrics := obsmetrics.Scheduler()

	for {
		if runLag := s.runLag(nextRun); runLag > 0 {
			schedMetrics.ObserveRunLoopLag(runLag)
		}
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}
		nextRun = nextRun.Add(s.cfg.RunInterval)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// GenerateJob tops up every active lease's invoice window. It is safe to run
// at any frequency: generation skips months that already have an invoice.
func (s *Scheduler) GenerateJob(ctx context.Context) error {
	result, err := s.invoiceSvc.GenerateForAllActiveLeases(ctx, s.cfg.MonthsAhead)
	if err != nil {
		return err
	}
	obsmetrics.Scheduler().AddInvoicesGenerated(result.Created)
	if result.Created > 0 {
		s.log.Info("invoice catch-up complete",
			zap.Int("leases", result.Leases),
			zap.Int("created", result.Created),
		)
	}
	return nil
}

// RefreshStatusesJob re-derives cached invoice statuses so due invoices flip
// to overdue as their due dates pass.
func (s *Scheduler) RefreshStatusesJob(ctx context.Context) error {
	result, err := s.invoiceSvc.RefreshStatuses(ctx)
	if err != nil {
		return err
	}
	obsmetrics.Scheduler().AddStatusesRefreshed(result.Updated)
	if result.Updated > 0 {
		s.log.Info("status refresh complete", zap.Int("updated", result.Updated))
	}
	return nil
}
