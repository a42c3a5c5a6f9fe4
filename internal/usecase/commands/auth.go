package commands

import (
	"context"

	"spa-loyalty/internal/pkg/config"
	"spa-loyalty/internal/pkg/errs"
	"spa-loyalty/internal/pkg/jwt"
	"spa-loyalty/internal/pkg/password"
)

var ErrInvalidCredentials = errs.New("invalid credentials")

type LoginResult struct {
	AccessToken string
}

// AuthCommands issues admin session tokens. There is a single operator
// credential; staff identity beyond the admin role is out of scope.
type AuthCommands interface {
	Login(ctx context.Context, pass string) (*LoginResult, error)
}

type authCommands struct {
	jwtService *jwt.Service
	auth       config.AuthConfig
}

func NewAuthCommands(jwtService *jwt.Service, auth config.AuthConfig) AuthCommands {
	return &authCommands{jwtService: jwtService, auth: auth}
}

func (a *authCommands) Login(_ context.Context, pass string) (*LoginResult, error) {
	if err := password.ComparePassword(a.auth.AdminPasswordHash, pass); err != nil {
		return nil, errs.Mark(err, ErrInvalidCredentials)
	}

	token, err := a.jwtService.GenerateToken(jwt.RoleAdmin)
	if err != nil {
		return nil, errs.Wrap(err, "failed to generate access token")
	}

	return &LoginResult{AccessToken: token}, nil
}
