package bootstrap

import (
	"time"

	"go.uber.org/fx"

	"spa-loyalty/internal/pkg/config"
	"spa-loyalty/internal/pkg/jwt"
)

var JWTModule = fx.Module("jwt",
	fx.Provide(
		NewJWTService,
	),
)

func NewJWTService(cfg config.Config) *jwt.Service {
	duration, err := time.ParseDuration(cfg.Auth.JWTDuration)
	if err != nil {
		panic("invalid JWT_DURATION: " + err.Error())
	}

	return jwt.NewService(cfg.Auth.JWTSecret, duration)
}
