// File: internal/jobs/scheduler.go
package jobs

import (
	"context"
	"fmt"
	"time"

	"parking_share_backend/internal/config"
	"parking_share_backend/internal/review"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler owns the background cron jobs.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// cronLogger adapts zap to the cron.Logger interface.
type cronLogger struct {
	logger *zap.Logger
}

func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Infow(msg, keysAndValues...)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}

// NewScheduler registers the background jobs against their configured
// schedules.
func NewScheduler(cfg *config.Config, reviews review.Service, reviewRepo review.Repository, logger *zap.Logger) (*Scheduler, error) {
	jobLogger := logger.Named("Jobs")
	c := cron.New(cron.WithLogger(&cronLogger{logger: jobLogger}))

	refresh := &ratingRefreshJob{
		reviews:    reviews,
		reviewRepo: reviewRepo,
		logger:     jobLogger.Named("RatingRefresh"),
	}
	if _, err := c.AddJob(cfg.RatingRefreshJobSchedule, refresh); err != nil {
		return nil, fmt.Errorf("failed to schedule rating refresh job: %w", err)
	}

	return &Scheduler{cron: c, logger: jobLogger}, nil
}

// Start launches the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.logger.Info("Starting background job scheduler")
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("Stopping background job scheduler")
	return s.cron.Stop()
}

// ratingRefreshJob recomputes every reviewed listing's rating aggregates.
// Write-time refreshes keep aggregates fresh in the common case; this job
// repairs any drift.
type ratingRefreshJob struct {
	reviews    review.Service
	reviewRepo review.Repository
	logger     *zap.Logger
}

func (j *ratingRefreshJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	start := time.Now()
	ids, err := j.reviewRepo.ParkingIDsWithReviews(ctx)
	if err != nil {
		j.logger.Error("Failed to list reviewed parkings", zap.Error(err))
		return
	}

	var failed int
	for _, id := range ids {
		if err := j.reviews.RefreshAggregates(ctx, id); err != nil {
			failed++
			j.logger.Warn("Failed to refresh aggregates",
				zap.String("parkingID", id.String()), zap.Error(err))
		}
	}

	j.logger.Info("Rating aggregate refresh finished",
		zap.Int("total", len(ids)),
		zap.Int("failed", failed),
		zap.Duration("took", time.Since(start)))
}
