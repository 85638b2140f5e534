package jobs

import (
	"context"
	"time"

	"tenantauth/internal/services"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// TokenCleanup periodically purges expired refresh-token rows. Expired
// tokens are already rejected on lookup; this just keeps the table from
// growing without bound.
type TokenCleanup struct {
	scheduler gocron.Scheduler
	authSvc   services.AuthService
	logger    *zap.Logger
}

func NewTokenCleanup(authSvc services.AuthService, logger *zap.Logger) (*TokenCleanup, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	tc := &TokenCleanup{
		scheduler: scheduler,
		authSvc:   authSvc,
		logger:    logger,
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(time.Hour),
		gocron.NewTask(tc.run, context.Background()),
		gocron.WithName("refresh-token-cleanup"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}

	return tc, nil
}

func (tc *TokenCleanup) run(ctx context.Context) {
	deleted, err := tc.authSvc.CleanupExpiredTokens(ctx)
	if err != nil {
		tc.logger.Error("refresh token cleanup failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		tc.logger.Info("purged expired refresh tokens", zap.Int64("count", deleted))
	}
}

func (tc *TokenCleanup) Start() {
	tc.scheduler.Start()
}

func (tc *TokenCleanup) Stop() error {
	return tc.scheduler.Shutdown()
}
