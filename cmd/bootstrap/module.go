package bootstrap

import (
	"go.uber.org/fx"

	"spa-loyalty/cmd/bootstrap/components"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	JWTModule,
	SweeperModule,
	components.RepositoryModule,
	components.UseCaseModule,
	components.HandlerModule,
)
