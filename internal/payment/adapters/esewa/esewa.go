// Package esewa implements the eSewa ePay form redirect and status lookup.
package esewa

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/observability/tracing"
	paymentdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/payment/domain"
)

const (
	Provider       = "esewa"
	defaultBaseURL = "https://rc-epay.esewa.com.np"
	formPath       = "/api/epay/main/v2/form"
	statusPath     = "/api/epay/transaction/status/"
)

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Provider() string { return Provider }

func (f *Factory) NewGateway(config paymentdomain.GatewayConfig) (paymentdomain.Gateway, error) {
	merchant := strings.TrimSpace(config.MerchantCode)
	if merchant == "" {
		return nil, paymentdomain.ErrInvalidConfig
	}
	baseURL := strings.TrimRight(strings.TrimSpace(config.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Gateway{
		merchantCode: merchant,
		baseURL:      baseURL,
		returnURL:    strings.TrimSpace(config.ReturnURL),
		client:       tracing.WrapHTTPClient(config.HTTPClient),
	}, nil
}

type Gateway struct {
	merchantCode string
	baseURL      string
	returnURL    string
	client       *http.Client
}

func (g *Gateway) Initiate(ctx context.Context, req paymentdomain.InitiateRequest) (paymentdomain.Checkout, error) {
	if !req.Amount.IsPositive() {
		return paymentdomain.Checkout{}, paymentdomain.ErrInvalidAmount
	}
	returnURL := req.ReturnURL
	if returnURL == "" {
		returnURL = g.returnURL
	}
	amount := req.Amount.StringFixed(2)
	return paymentdomain.Checkout{
		Provider:    Provider,
		Reference:   req.Reference,
		RedirectURL: g.baseURL + formPath,
		Form: map[string]string{
			"amt":   amount,
			"pdc":   "0",
			"psc":   "0",
			"txAmt": "0",
			"tAmt":  amount,
			"pid":   req.Reference,
			"scd":   g.merchantCode,
			"su":    returnURL + "/payment-success",
			"fu":    returnURL + "/payment-failed",
		},
	}, nil
}

type statusResponse struct {
	Status string `json:"status"`
}

func (g *Gateway) Verify(ctx context.Context, req paymentdomain.VerifyRequest) (paymentdomain.VerificationStatus, error) {
	if strings.TrimSpace(req.Reference) == "" {
		return "", paymentdomain.ErrInvalidReference
	}

	values := url.Values{}
	values.Set("product_code", g.merchantCode)
	values.Set("total_amount", req.Amount.StringFixed(2))
	values.Set("transaction_uuid", req.Reference)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+statusPath+"?"+values.Encode(), nil)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", paymentdomain.ErrGatewayFailure, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return "", fmt.Errorf("%w: status %d", paymentdomain.ErrGatewayFailure, resp.StatusCode)
	}
	if resp.StatusCode == http.StatusNotFound {
		return paymentdomain.VerificationFailed, nil
	}

	var body statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: %v", paymentdomain.ErrGatewayFailure, err)
	}
	switch strings.ToUpper(strings.TrimSpace(body.Status)) {
	case "COMPLETE":
		return paymentdomain.VerificationCompleted, nil
	case "PENDING", "AMBIGUOUS":
		return paymentdomain.VerificationPending, nil
	default:
		return paymentdomain.VerificationFailed, nil
	}
}
