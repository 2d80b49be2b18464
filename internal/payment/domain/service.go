package domain

import (
	"context"
	"errors"

	authdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/auth/domain"
)

type Service interface {
	Initiate(ctx context.Context, actor authdomain.Actor, billID string, provider string) (InitiateResult, error)
	// Verify asks the gateway for the outcome and settles the bill once. Repeated calls are no-ops.
	Verify(ctx context.Context, actor authdomain.Actor, reference string) (*Attempt, error)
}

type InitiateResult struct {
	Attempt  *Attempt `json:"attempt"`
	Checkout Checkout `json:"checkout"`
}

var (
	ErrInvalidProvider  = errors.New("invalid_provider")
	ErrProviderNotFound = errors.New("provider_not_found")
	ErrInvalidReference = errors.New("invalid_payment_reference")
	ErrInvalidAmount    = errors.New("invalid_amount")
	ErrInvalidConfig    = errors.New("invalid_config")
	ErrGatewayFailure   = errors.New("payment_gateway_unavailable")
	ErrAttemptNotFound  = errors.New("payment_attempt_not_found")
)
