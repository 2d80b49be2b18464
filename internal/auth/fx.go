package auth

import (
	authdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/auth/domain"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/auth/jwt"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("auth",
	fx.Provide(func(cfg config.Config) *jwt.Authenticator {
		return jwt.New(jwt.Config{Secret: cfg.Auth.JWTSecret, Issuer: cfg.Auth.Issuer})
	}),
	fx.Provide(func(a *jwt.Authenticator) authdomain.Authenticator { return a }),
	fx.Provide(func(a *jwt.Authenticator) authdomain.Issuer { return a }),
)
