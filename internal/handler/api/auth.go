package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	reqdto "spa-loyalty/internal/handler/dto/request"
	resdto "spa-loyalty/internal/handler/dto/response"
	"spa-loyalty/internal/handler/httperr"
	"spa-loyalty/internal/usecase/commands"
)

type AuthHandler struct {
	cmds commands.AuthCommands
}

func NewAuthHandler(cmds commands.AuthCommands) *AuthHandler {
	return &AuthHandler{cmds: cmds}
}

// @Summary Admin login
// @Description Exchange the operator password for an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.LoginRequest true "Login request"
// @Success 200 {object} resdto.LoginResponse
// @Failure 401 {object} httperr.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "INVALID_REQUEST", "Invalid request", nil)
		return
	}

	result, err := h.cmds.Login(c.Request.Context(), req.Password)
	if err != nil {
		if errors.Is(err, commands.ErrInvalidCredentials) {
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "UNAUTHORIZED", "Invalid credentials", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "INTERNAL", "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.LoginResponse{AccessToken: result.AccessToken})
}
