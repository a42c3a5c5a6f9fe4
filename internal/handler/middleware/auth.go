package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"spa-loyalty/internal/handler/httperr"
	"spa-loyalty/internal/pkg/jwt"
)

// AuthMiddleware guards the two caller classes: staff with a JWT from
// the login endpoint, and machine callers (kiosk, webhook bridge) with
// a shared API key.
type AuthMiddleware struct {
	jwtService *jwt.Service
	apiKey     string
}

const ctxRoleKey = "role"

func NewAuthMiddleware(jwtService *jwt.Service, apiKey string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		apiKey:     apiKey,
	}
}

func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimSpace(authHeader[len("Bearer "):])
		}

		if token == "" {
			httperr.AbortWithError(c, http.StatusUnauthorized, nil, "UNAUTHORIZED", "Access token required", nil)
			return
		}

		claims, err := m.jwtService.ValidateToken(token)
		if err != nil {
			slog.Warn("token validation failed in auth middleware", "error", err.Error())
			httperr.AbortWithError(c, http.StatusUnauthorized, nil, "UNAUTHORIZED", "Invalid or expired token", nil)
			return
		}

		if claims.Role != jwt.RoleAdmin {
			httperr.AbortWithError(c, http.StatusForbidden, nil, "FORBIDDEN", "Insufficient permissions", nil)
			return
		}

		c.Set(ctxRoleKey, claims.Role)
		c.Next()
	}
}

func (m *AuthMiddleware) RequireAPIKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-API-Key")
		if key == "" {
			httperr.AbortWithError(c, http.StatusUnauthorized, nil, "UNAUTHORIZED", "API key required", nil)
			return
		}

		if subtle.ConstantTimeCompare([]byte(key), []byte(m.apiKey)) != 1 {
			httperr.AbortWithError(c, http.StatusUnauthorized, nil, "UNAUTHORIZED", "Invalid API key", nil)
			return
		}

		c.Next()
	}
}

func GetRole(c *gin.Context) (string, bool) {
	role, exists := c.Get(ctxRoleKey)
	if !exists {
		return "", false
	}

	r, ok := role.(string)
	return r, ok
}
