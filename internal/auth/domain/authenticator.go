package domain

import (
	"context"
	"errors"
	"time"
)

// Authenticator verifies a bearer credential and resolves the actor behind it.
type Authenticator interface {
	Authenticate(ctx context.Context, bearer string) (Actor, error)
}

// Issuer mints bearer credentials for an actor.
type Issuer interface {
	Issue(actor Actor, ttl time.Duration) (string, error)
}

var (
	ErrMissingCredential = errors.New("missing_credential")
	ErrInvalidCredential = errors.New("invalid_credential")
	ErrExpiredCredential = errors.New("expired_credential")
	ErrInvalidRole       = errors.New("invalid_role")
)
