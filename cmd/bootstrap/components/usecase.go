package components

import (
	"go.uber.org/fx"

	"spa-loyalty/internal/pkg/clock"
	"spa-loyalty/internal/pkg/config"
	"spa-loyalty/internal/usecase/commands"
	"spa-loyalty/internal/usecase/queries"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	func(cfg config.Config) config.CouponConfig { return cfg.Coupon },
	func(cfg config.Config) config.RateLimitConfig { return cfg.RateLimit },
	func(cfg config.Config) config.AuthConfig { return cfg.Auth },
	commands.NewRateLimiter,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewCouponCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewCouponQueries,
	),
)
