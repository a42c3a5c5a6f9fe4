//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spa-loyalty/internal/pkg/clock"
	"spa-loyalty/internal/usecase/commands"
)

func TestRateLimiter(t *testing.T) {
	const (
		identity = "+905551112233"
		limit    = 3
		window   = time.Hour
	)

	newLimiter := func() (*commands.RateLimiter, *clock.MockClock, *fakeRateLimitRepo) {
		repo := newFakeRateLimitRepo()
		clk := clock.NewMockClock(testStart)
		return commands.NewRateLimiter(repo, clk), clk, repo
	}

	t.Run("allows up to the limit", func(t *testing.T) {
		limiter, _, _ := newLimiter()
		for i := 0; i < limit; i++ {
			assert.NoError(t, limiter.CheckAndIncrement(context.Background(), identity, commands.OpConsume, limit, window))
		}
	})

	t.Run("request over the limit is rejected with retry hint", func(t *testing.T) {
		limiter, clk, _ := newLimiter()
		for i := 0; i < limit; i++ {
			require.NoError(t, limiter.CheckAndIncrement(context.Background(), identity, commands.OpConsume, limit, window))
		}

		clk.Add(10 * time.Minute)
		err := limiter.CheckAndIncrement(context.Background(), identity, commands.OpConsume, limit, window)

		var limited *commands.RateLimitedError
		require.ErrorAs(t, err, &limited)
		assert.Equal(t, 50*time.Minute, limited.RetryAfter)
	})

	t.Run("rejected requests do not extend the window", func(t *testing.T) {
		limiter, clk, _ := newLimiter()
		for i := 0; i <= limit; i++ {
			_ = limiter.CheckAndIncrement(context.Background(), identity, commands.OpConsume, limit, window)
		}

		clk.Add(window)
		assert.NoError(t, limiter.CheckAndIncrement(context.Background(), identity, commands.OpConsume, limit, window))
	})

	t.Run("operations have independent counters", func(t *testing.T) {
		limiter, _, _ := newLimiter()
		for i := 0; i < limit; i++ {
			require.NoError(t, limiter.CheckAndIncrement(context.Background(), identity, commands.OpConsume, limit, window))
		}
		assert.NoError(t, limiter.CheckAndIncrement(context.Background(), identity, commands.OpClaim, limit, window))
	})

	t.Run("identities have independent counters", func(t *testing.T) {
		limiter, _, _ := newLimiter()
		for i := 0; i < limit; i++ {
			require.NoError(t, limiter.CheckAndIncrement(context.Background(), identity, commands.OpConsume, limit, window))
		}
		assert.NoError(t, limiter.CheckAndIncrement(context.Background(), "+905559998877", commands.OpConsume, limit, window))
	})

	t.Run("sweep removes only expired counters", func(t *testing.T) {
		limiter, clk, repo := newLimiter()
		require.NoError(t, limiter.CheckAndIncrement(context.Background(), identity, commands.OpConsume, limit, window))

		clk.Add(30 * time.Minute)
		require.NoError(t, limiter.CheckAndIncrement(context.Background(), "+905559998877", commands.OpConsume, limit, 2*window))

		clk.Add(45 * time.Minute) // first window passed, second still open
		limiter.Sweep(context.Background())

		assert.Len(t, repo.rows, 1)
	})
}
