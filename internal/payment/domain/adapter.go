package domain

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"
)

// Gateway is the payment provider collaborator.
type Gateway interface {
	Initiate(ctx context.Context, req InitiateRequest) (Checkout, error)
	Verify(ctx context.Context, req VerifyRequest) (VerificationStatus, error)
}

type GatewayConfig struct {
	Provider     string
	ReturnURL    string
	MerchantCode string
	BaseURL      string
	HTTPClient   *http.Client
}

type GatewayFactory interface {
	Provider() string
	NewGateway(config GatewayConfig) (Gateway, error)
}

type InitiateRequest struct {
	Reference     string
	Amount        decimal.Decimal
	ApplicationID string
	BillID        string
	ReturnURL     string
}

type VerifyRequest struct {
	Reference string
	Amount    decimal.Decimal
}

// Checkout tells the client how to continue payment with the provider.
type Checkout struct {
	Provider    string            `json:"provider"`
	Reference   string            `json:"reference"`
	RedirectURL string            `json:"redirect_url,omitempty"`
	Token       string            `json:"token,omitempty"`
	Form        map[string]string `json:"form,omitempty"`
}

type VerificationStatus string

const (
	VerificationPending   VerificationStatus = "pending"
	VerificationCompleted VerificationStatus = "completed"
	VerificationFailed    VerificationStatus = "failed"
)
