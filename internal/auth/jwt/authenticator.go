package jwt

import (
	"context"
	"errors"
	"strings"
	"time"

	authdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/auth/domain"
	"github.com/bwmarrin/snowflake"
	gojwt "github.com/golang-jwt/jwt/v5"
)

type Config struct {
	Secret string
	Issuer string
}

type claims struct {
	Role string `json:"role"`
	gojwt.RegisteredClaims
}

// Authenticator validates HS256 bearer tokens.
type Authenticator struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func New(cfg Config) *Authenticator {
	return &Authenticator{
		secret: []byte(cfg.Secret),
		issuer: strings.TrimSpace(cfg.Issuer),
		now:    time.Now,
	}
}

func (a *Authenticator) Authenticate(ctx context.Context, bearer string) (authdomain.Actor, error) {
	raw := strings.TrimSpace(bearer)
	if raw == "" {
		return authdomain.Actor{}, authdomain.ErrMissingCredential
	}

	parsed := &claims{}
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithTimeFunc(a.now),
		gojwt.WithExpirationRequired(),
	}
	if a.issuer != "" {
		opts = append(opts, gojwt.WithIssuer(a.issuer))
	}
	_, err := gojwt.ParseWithClaims(raw, parsed, func(token *gojwt.Token) (interface{}, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, gojwt.ErrTokenExpired) {
			return authdomain.Actor{}, authdomain.ErrExpiredCredential
		}
		return authdomain.Actor{}, authdomain.ErrInvalidCredential
	}

	id, err := snowflake.ParseString(strings.TrimSpace(parsed.Subject))
	if err != nil || id == 0 {
		return authdomain.Actor{}, authdomain.ErrInvalidCredential
	}
	role, ok := authdomain.ParseRole(parsed.Role)
	if !ok {
		return authdomain.Actor{}, authdomain.ErrInvalidRole
	}
	return authdomain.Actor{ID: id, Role: role}, nil
}

func (a *Authenticator) Issue(actor authdomain.Actor, ttl time.Duration) (string, error) {
	if actor.ID == 0 {
		return "", authdomain.ErrInvalidCredential
	}
	if _, ok := authdomain.ParseRole(string(actor.Role)); !ok {
		return "", authdomain.ErrInvalidRole
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	now := a.now().UTC()
	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims{
		Role: string(actor.Role),
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   actor.ID.String(),
			Issuer:    a.issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString(a.secret)
}
