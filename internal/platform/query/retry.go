package query

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/vasil9050/stockapp/internal/feature/quotes/domain"
	"github.com/vasil9050/stockapp/internal/feature/quotes/domain/entity"
	"github.com/vasil9050/stockapp/internal/feature/quotes/usecase"
)

// RetryConfig bounds the retry loop.
type RetryConfig struct {
	Retries   int           // retries after the first attempt
	BaseDelay time.Duration // delay before the first retry, doubled each time
	MaxDelay  time.Duration
}

// DefaultRetry makes three attempts in total.
var DefaultRetry = RetryConfig{
	Retries:   2,
	BaseDelay: 1 * time.Second,
	MaxDelay:  10 * time.Second,
}

// Retrier retries failed Find calls with exponential backoff.
type Retrier struct {
	inner usecase.SeriesRepository
	cfg   RetryConfig
	sleep func(ctx context.Context, d time.Duration) error
}

var _ usecase.SeriesRepository = (*Retrier)(nil)

// NewRetrier wraps inner with bounded retry. A negative Retries disables retrying.
func NewRetrier(inner usecase.SeriesRepository, cfg RetryConfig) *Retrier {
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = DefaultRetry.MaxDelay
	}
	return &Retrier{inner: inner, cfg: cfg, sleep: sleepCtx}
}

// Find calls the wrapped repository up to Retries+1 times and surfaces the last error once attempts run out.
// Context errors, invalid symbols and rate limiting are returned immediately.
func (r *Retrier) Find(ctx context.Context, symbol string, d entity.Descriptor) ([]entity.Bar, error) {
	attempts := r.cfg.Retries + 1
	delay := r.cfg.BaseDelay

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		bars, err := r.inner.Find(ctx, symbol, d)
		if err == nil {
			return bars, nil
		}
		if !retryable(err) {
			return nil, err
		}
		lastErr = err

		if attempt == attempts {
			break
		}

		slog.Warn("series fetch failed, retrying",
			"symbol", symbol, "function", d.Function, "attempt", attempt, "of", attempts, "delay", delay, "error", err)

		if err := r.sleep(ctx, delay); err != nil {
			return nil, err
		}

		delay *= 2
		if delay > r.cfg.MaxDelay {
			delay = r.cfg.MaxDelay
		}
	}

	if attempts > 1 {
		slog.Error("series fetch failed after retries", "symbol", symbol, "function", d.Function, "attempts", attempts, "error", lastErr)
	}
	return nil, lastErr
}

// retryable reports whether err is worth another attempt.
// Context errors, rejected symbols and throttling notices are final.
func retryable(err error) bool {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, domain.ErrInvalidSymbol), errors.Is(err, domain.ErrRateLimited):
		return false
	default:
		return true
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
