package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"spa-loyalty/internal/handler/api"
	"spa-loyalty/internal/handler/middleware"
	"spa-loyalty/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, cfg config.Config, authHandler *api.AuthHandler, couponHandler *api.CouponHandler, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, authHandler, couponHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, authHandler *api.AuthHandler, couponHandler *api.CouponHandler, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: authHandler.Login},
			})
		}

		coupons := apiGroup.Group("/coupons")
		{
			adminCoupons := coupons.Group("")
			adminCoupons.Use(authMiddleware.RequireAdmin())
			addRoutes(adminCoupons, []route{
				{Method: http.MethodPost, Path: "", Handler: couponHandler.Issue},
			})

			machineCoupons := coupons.Group("")
			machineCoupons.Use(authMiddleware.RequireAPIKey())
			addRoutes(machineCoupons, []route{
				{Method: http.MethodPost, Path: "/consume", Handler: couponHandler.Consume},
			})
		}

		redemptions := apiGroup.Group("/redemptions")
		{
			machineRedemptions := redemptions.Group("")
			machineRedemptions.Use(authMiddleware.RequireAPIKey())
			addRoutes(machineRedemptions, []route{
				{Method: http.MethodPost, Path: "/claim", Handler: couponHandler.Claim},
			})

			adminRedemptions := redemptions.Group("")
			adminRedemptions.Use(authMiddleware.RequireAdmin())
			addRoutes(adminRedemptions, []route{
				{Method: http.MethodPost, Path: "/:id/complete", Handler: couponHandler.Complete},
				{Method: http.MethodPost, Path: "/:id/reject", Handler: couponHandler.Reject},
			})
		}

		wallets := apiGroup.Group("/wallets")
		wallets.Use(authMiddleware.RequireAdmin())
		{
			addRoutes(wallets, []route{
				{Method: http.MethodGet, Path: "/:phone", Handler: couponHandler.GetWallet},
				{Method: http.MethodGet, Path: "/:phone/events", Handler: couponHandler.GetEvents},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
