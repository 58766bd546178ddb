package retry

import (
	"context"
	"time"

	"tradehub-be/internal/apperr"
	"tradehub-be/internal/logger"

	"go.uber.org/zap"
)

type Policy struct {
	Attempts    int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

var Default = Policy{Attempts: 3, BaseBackoff: 100 * time.Millisecond, MaxBackoff: 2 * time.Second}

// Do runs fn until it succeeds, returns a domain error, or attempts run out.
// Backoff doubles per attempt: base, 2*base, 4*base, ... capped at MaxBackoff.
func Do(ctx context.Context, p Policy, op string, fn func() error) error {
	if p.Attempts < 1 {
		p.Attempts = 1
	}

	var err error
	for attempt := 1; attempt <= p.Attempts; attempt++ {
		err = fn()
		if err == nil || apperr.IsDomain(err) {
			return err
		}
		if attempt == p.Attempts {
			break
		}

		wait := p.BaseBackoff * time.Duration(1<<uint(attempt-1))
		if p.MaxBackoff > 0 && wait > p.MaxBackoff {
			wait = p.MaxBackoff
		}

		logger.FromCtx(ctx).Warn("retrying after infrastructure failure",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", wait),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return apperr.Infrastructure(op, ctx.Err())
		case <-time.After(wait):
		}
	}
	return apperr.Infrastructure(op, err)
}
