package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/librisys/librisys/internal/fines"
)

// RunFineWorker reprices open loans on a fixed interval until the context
// is cancelled. Each pass is a single conditional update and is idempotent,
// so overlapping with a concurrent return or payment is harmless.
func (s *Service) RunFineWorker(ctx context.Context, interval time.Duration) {
	log := s.log.Named("fine-worker")
	log.Info("started", zap.Duration("interval", interval))

	s.recalcFines(ctx, log)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.recalcFines(ctx, log)
		case <-ctx.Done():
			log.Info("stopped")
			return
		}
	}
}

func (s *Service) recalcFines(ctx context.Context, log *zap.Logger) {
	affected, err := s.repo.RecalcFines(ctx, fines.GraceDays, fines.DailyRate)
	if err != nil {
		log.Error("recalc fines", zap.Error(err))
		return
	}
	log.Debug("fines recalculated", zap.Int64("records", affected))
}
