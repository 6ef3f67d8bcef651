package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/auth/domain"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// TokenSweeper periodically deletes persisted refresh tokens past their expiry.
type TokenSweeper struct {
	tokens domain.RefreshTokenRepository
	cron   *cron.Cron
	log    *zap.Logger
	now    func() time.Time
	ctx    context.Context
}

func NewTokenSweeper(tokens domain.RefreshTokenRepository, schedule string, log *zap.Logger) (*TokenSweeper, error) {
	cl := cronLogger{log: log.Sugar()}
	s := &TokenSweeper{
		tokens: tokens,
		log:    log,
		now:    time.Now,
		ctx:    context.Background(),
		cron:   cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
	}

	if _, err := s.cron.AddFunc(schedule, func() { _, _ = s.Sweep(s.ctx) }); err != nil {
		return nil, fmt.Errorf("invalid token cleanup schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Sweep runs one cleanup pass. Failures are logged and returned.
func (s *TokenSweeper) Sweep(ctx context.Context) (int64, error) {
	n, err := s.tokens.DeleteExpired(ctx, s.now())
	if err != nil {
		s.log.Error("refresh token cleanup failed", zap.Error(err))
		return 0, err
	}
	if n > 0 {
		s.log.Info("expired refresh tokens removed", zap.Int64("count", n))
	}
	return n, nil
}

// Start sweeps once and then on every tick of the schedule.
func (s *TokenSweeper) Start(ctx context.Context) {
	s.ctx = ctx
	_, _ = s.Sweep(ctx)
	s.cron.Start()
}

// Stop halts the schedule. The returned context is done once a running sweep finished.
func (s *TokenSweeper) Stop() context.Context {
	return s.cron.Stop()
}

type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
