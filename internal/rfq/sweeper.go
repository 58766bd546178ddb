package rfq

import (
	"context"
	"time"

	"tradehub-be/internal/logger"
	"tradehub-be/internal/metrics"

	"go.uber.org/zap"
)

type Expirer interface {
	ExpireStale(ctx context.Context) (int, error)
}

// Sweeper periodically expires stale RFQs. Reads expire RFQs on their own,
// so a late or missing sweep only delays the stored status.
type Sweeper struct {
	expirer  Expirer
	interval time.Duration
}

func NewSweeper(expirer Expirer, interval time.Duration) *Sweeper {
	return &Sweeper{expirer: expirer, interval: interval}
}

// Run sweeps once immediately and then every interval until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	log := logger.FromCtx(ctx).With(zap.String("component", "rfq_sweeper"))
	if s.interval <= 0 {
		log.Info("rfq sweeper disabled")
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.sweep(ctx, log)
		select {
		case <-ctx.Done():
			log.Info("rfq sweeper stopped")
			return
		case <-ticker.C:
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context, log *zap.Logger) {
	timer := metrics.StartTimer()
	n, err := s.expirer.ExpireStale(ctx)
	if err != nil {
		log.Error("rfq sweep failed", zap.Error(err), zap.Duration("duration", timer.Duration()))
		return
	}
	if n > 0 {
		log.Info("rfq sweep expired rfqs", zap.Int("expired", n), zap.Duration("duration", timer.Duration()))
	}
}
