package bootstrap

import (
	"go.uber.org/fx"

	"spa-loyalty/internal/pkg/config"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
	),
)
