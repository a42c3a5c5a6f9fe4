package components

import (
	"go.uber.org/fx"

	"spa-loyalty/internal/handler"
	"spa-loyalty/internal/handler/api"
	"spa-loyalty/internal/handler/middleware"
	"spa-loyalty/internal/pkg/config"
	"spa-loyalty/internal/pkg/jwt"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewCouponHandler,
		NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)

func NewAuthMiddleware(jwtService *jwt.Service, cfg config.Config) *middleware.AuthMiddleware {
	return middleware.NewAuthMiddleware(jwtService, cfg.Auth.APIKey)
}
