package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"go.uber.org/fx"

	"spa-loyalty/internal/pkg/config"
	"spa-loyalty/internal/usecase/commands"
)

// SweeperModule runs the rate-limit counter cleanup on a timer. It is
// storage hygiene only; the limiter stays correct without it.
var SweeperModule = fx.Module("sweeper",
	fx.Invoke(StartSweeper),
)

func StartSweeper(lc fx.Lifecycle, cfg config.Config, limiter *commands.RateLimiter) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				ticker := time.NewTicker(cfg.RateLimit.SweepInterval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						limiter.Sweep(ctx)
					}
				}
			}()
			slog.Info("rate limit sweeper started", "interval", cfg.RateLimit.SweepInterval)
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			<-done
			return nil
		},
	})
}
