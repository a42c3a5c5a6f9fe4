package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"spa-loyalty/internal/pkg/clock"
	"spa-loyalty/internal/usecase/shared"
)

const (
	OpConsume = "consume"
	OpClaim   = "claim"
)

// RateLimitedError reports a fixed-window quota breach. RetryAfter is the
// time until the window resets.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %s", e.RetryAfter)
}

// RateLimiter enforces per-identity fixed-window quotas. The counter upsert
// is a single statement outside any business transaction, so a rejected or
// rolled-back command still consumes quota.
type RateLimiter struct {
	repo shared.RateLimitRepository
	clk  clock.Clock
}

func NewRateLimiter(repo shared.RateLimitRepository, clk clock.Clock) *RateLimiter {
	return &RateLimiter{repo: repo, clk: clk}
}

// CheckAndIncrement counts the request against the window and fails once
// the count exceeds limit. The request that trips the limit is itself
// counted; the window does not extend on rejected requests.
func (l *RateLimiter) CheckAndIncrement(ctx context.Context, identity, operation string, limit int, window time.Duration) error {
	now := l.clk.Now()
	count, resetAt, err := l.repo.Increment(ctx, identity, operation, window, now)
	if err != nil {
		return err
	}
	if count > limit {
		return &RateLimitedError{RetryAfter: resetAt.Sub(now)}
	}
	return nil
}

// Sweep removes counters whose window has passed. Expired rows are
// harmless (Increment resets them in place) but accumulate.
func (l *RateLimiter) Sweep(ctx context.Context) {
	deleted, err := l.repo.DeleteExpired(ctx, l.clk.Now())
	if err != nil {
		slog.WarnContext(ctx, "rate limit sweep failed", "error", err)
		return
	}
	if deleted > 0 {
		slog.DebugContext(ctx, "rate limit sweep", "deleted", deleted)
	}
}
