package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/vinstock/internal/domain/models"
	"github.com/mamadbah2/vinstock/internal/service/alerts"
)

// DigestGenerator builds the end-of-day digest.
type DigestGenerator interface {
	GenerateDailyDigest(ctx context.Context) (models.DailyDigest, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	digests  DigestGenerator
	format   func(models.DailyDigest) string
	notifier alerts.Notifier
	logger   *zap.Logger
}

// NewScheduler creates a scheduler firing in loc. notifier may be nil, in
// which case digests are only generated and archived.
func NewScheduler(schedule string, loc *time.Location, digests DigestGenerator, format func(models.DailyDigest) string, notifier alerts.Notifier, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		schedule: schedule,
		digests:  digests,
		format:   format,
		notifier: notifier,
		logger:   logger,
	}
}

// Start registers the daily digest and starts the cron loop.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))

	if _, err := s.cron.AddFunc(s.schedule, s.sendDailyDigest); err != nil {
		return fmt.Errorf("schedule daily digest: %w", err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) sendDailyDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.RunDigest(ctx); err != nil {
		s.logger.Error("daily digest failed", zap.Error(err))
	}
}

// RunDigest generates the digest and sends it to the manager.
func (s *Scheduler) RunDigest(ctx context.Context) error {
	s.logger.Info("generating daily digest")

	digest, err := s.digests.GenerateDailyDigest(ctx)
	if err != nil {
		return fmt.Errorf("generate daily digest: %w", err)
	}

	if s.notifier == nil || s.format == nil {
		return nil
	}

	if err := s.notifier.Notify(ctx, s.format(digest)); err != nil {
		return fmt.Errorf("send daily digest: %w", err)
	}
	s.logger.Info("daily digest sent successfully")
	return nil
}
