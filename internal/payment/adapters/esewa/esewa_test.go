package esewa

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	paymentdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/payment/domain"
	"github.com/shopspring/decimal"
)

func newGateway(t *testing.T, baseURL string) paymentdomain.Gateway {
	t.Helper()
	gateway, err := NewFactory().NewGateway(paymentdomain.GatewayConfig{
		MerchantCode: "EPAYTEST",
		BaseURL:      baseURL,
		ReturnURL:    "https://nea.example/pay",
	})
	if err != nil {
		t.Fatalf("new gateway: %v", err)
	}
	return gateway
}

func TestNewGatewayRequiresMerchant(t *testing.T) {
	_, err := NewFactory().NewGateway(paymentdomain.GatewayConfig{})
	if !errors.Is(err, paymentdomain.ErrInvalidConfig) {
		t.Fatalf("expected invalid config, got %v", err)
	}
}

func TestInitiateBuildsForm(t *testing.T) {
	gateway := newGateway(t, "https://rc-epay.esewa.com.np/")

	checkout, err := gateway.Initiate(context.Background(), paymentdomain.InitiateRequest{
		Reference: "ref-1",
		Amount:    decimal.RequireFromString("3150.5"),
	})
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
	if checkout.RedirectURL != "https://rc-epay.esewa.com.np/api/epay/main/v2/form" {
		t.Fatalf("unexpected redirect %q", checkout.RedirectURL)
	}
	if checkout.Form["tAmt"] != "3150.50" || checkout.Form["pid"] != "ref-1" || checkout.Form["scd"] != "EPAYTEST" {
		t.Fatalf("unexpected form %+v", checkout.Form)
	}
	if checkout.Form["su"] != "https://nea.example/pay/payment-success" {
		t.Fatalf("unexpected success url %q", checkout.Form["su"])
	}

	if _, err := gateway.Initiate(context.Background(), paymentdomain.InitiateRequest{Reference: "ref-2"}); !errors.Is(err, paymentdomain.ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
}

func TestVerifyMapsStatus(t *testing.T) {
	cases := []struct {
		name   string
		code   int
		body   string
		want   paymentdomain.VerificationStatus
		gwFail bool
	}{
		{name: "complete", code: http.StatusOK, body: `{"status":"COMPLETE"}`, want: paymentdomain.VerificationCompleted},
		{name: "pending", code: http.StatusOK, body: `{"status":"PENDING"}`, want: paymentdomain.VerificationPending},
		{name: "canceled", code: http.StatusOK, body: `{"status":"CANCELED"}`, want: paymentdomain.VerificationFailed},
		{name: "unknown reference", code: http.StatusNotFound, body: `{}`, want: paymentdomain.VerificationFailed},
		{name: "gateway down", code: http.StatusBadGateway, body: ``, gwFail: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != statusPath {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if r.URL.Query().Get("transaction_uuid") != "ref-1" || r.URL.Query().Get("total_amount") != "100.00" {
					t.Errorf("unexpected query %s", r.URL.RawQuery)
				}
				w.WriteHeader(tc.code)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			status, err := newGateway(t, server.URL).Verify(context.Background(), paymentdomain.VerifyRequest{
				Reference: "ref-1",
				Amount:    decimal.NewFromInt(100),
			})
			if tc.gwFail {
				if !errors.Is(err, paymentdomain.ErrGatewayFailure) {
					t.Fatalf("expected gateway failure, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("verify: %v", err)
			}
			if status != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, status)
			}
		})
	}
}
