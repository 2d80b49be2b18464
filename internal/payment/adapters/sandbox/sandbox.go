// Package sandbox is an offline gateway that settles every positive payment.
package sandbox

import (
	"context"
	"net/url"
	"strings"

	paymentdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/payment/domain"
)

const Provider = "sandbox"

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Provider() string { return Provider }

func (f *Factory) NewGateway(config paymentdomain.GatewayConfig) (paymentdomain.Gateway, error) {
	return &Gateway{returnURL: strings.TrimSpace(config.ReturnURL)}, nil
}

type Gateway struct {
	returnURL string
}

func (g *Gateway) Initiate(ctx context.Context, req paymentdomain.InitiateRequest) (paymentdomain.Checkout, error) {
	if !req.Amount.IsPositive() {
		return paymentdomain.Checkout{}, paymentdomain.ErrInvalidAmount
	}
	checkout := paymentdomain.Checkout{
		Provider:  Provider,
		Reference: req.Reference,
		Token:     "sandbox_" + req.Reference,
	}
	returnURL := req.ReturnURL
	if returnURL == "" {
		returnURL = g.returnURL
	}
	if returnURL != "" {
		values := url.Values{}
		values.Set("reference", req.Reference)
		checkout.RedirectURL = returnURL + "?" + values.Encode()
	}
	return checkout, nil
}

func (g *Gateway) Verify(ctx context.Context, req paymentdomain.VerifyRequest) (paymentdomain.VerificationStatus, error) {
	if strings.TrimSpace(req.Reference) == "" {
		return "", paymentdomain.ErrInvalidReference
	}
	if !req.Amount.IsPositive() {
		return paymentdomain.VerificationFailed, nil
	}
	return paymentdomain.VerificationCompleted, nil
}
