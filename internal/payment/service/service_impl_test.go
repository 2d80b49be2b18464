package service

import (
	"context"
	"errors"
	"testing"

	appdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/application/domain"
	apprepository "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/application/repository"
	appservice "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/application/service"
	authdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/auth/domain"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/authorization"
	billingdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/billing/domain"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/billing/render"
	billingrepository "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/billing/repository"
	billingservice "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/billing/service"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/config"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/payment/adapters"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/payment/adapters/sandbox"
	paymentdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/payment/domain"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/payment/repository"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/testutil"
	"github.com/shopspring/decimal"
)

var (
	customer = authdomain.Actor{ID: 100, Role: authdomain.RoleCustomer}
	cashier  = authdomain.Actor{ID: 3, Role: authdomain.RoleBilling}
)

type fixture struct {
	svc     *Service
	billing billingdomain.Service
	bill    *billingdomain.Bill
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	env := testutil.NewEnv(t)
	apps := appservice.NewService(appservice.Params{
		DB:       env.DB,
		Log:      env.Log,
		GenID:    env.GenID,
		Repo:     apprepository.Provide(),
		Authz:    env.Authz,
		AuditSvc: env.Audit,
		Outbox:   env.Outbox,
		Clock:    env.Clock,
	})
	billing := billingservice.NewService(billingservice.Params{
		DB:       env.DB,
		Log:      env.Log,
		GenID:    env.GenID,
		Repo:     billingrepository.Provide(),
		AppSvc:   apps,
		Authz:    env.Authz,
		AuditSvc: env.Audit,
		Outbox:   env.Outbox,
		Clock:    env.Clock,
		Renderer: render.NewRenderer(),
	})
	svc := NewService(Params{
		DB:         env.DB,
		Log:        env.Log,
		GenID:      env.GenID,
		Repo:       repository.Provide(),
		BillingSvc: billing,
		AppSvc:     apps,
		Authz:      env.Authz,
		AuditSvc:   env.Audit,
		Adapters:   adapters.NewRegistry(sandbox.NewFactory()),
		Cfg:        config.Config{Payment: config.PaymentConfig{ReturnURL: "https://nea.example/pay"}},
		Clock:      env.Clock,
	}).(*Service)

	ctx := context.Background()
	app, err := apps.Submit(ctx, customer, appdomain.SubmitRequest{
		ConnectionType: "residential",
		ConnectionLoad: "5kW",
		ServiceAddress: "Baneshwor-10",
		City:           "Kathmandu",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	bill, err := billing.Create(ctx, cashier, billingdomain.CreateRequest{
		ApplicationID: app.ID.String(),
		BillingPeriod: "2026-02",
		UsageUnits:    decimal.NewFromInt(200),
		RatePerUnit:   decimal.NewFromInt(15),
	})
	if err != nil {
		t.Fatalf("create bill: %v", err)
	}
	return &fixture{svc: svc, billing: billing, bill: bill}
}

func TestInitiateCreatesAttempt(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.Initiate(context.Background(), customer, f.bill.ID.String(), "Sandbox")
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
	if result.Attempt.Status != paymentdomain.AttemptStatusPending || !result.Attempt.Amount.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("unexpected attempt %+v", result.Attempt)
	}
	if result.Checkout.Reference != result.Attempt.Reference || result.Checkout.RedirectURL == "" {
		t.Fatalf("unexpected checkout %+v", result.Checkout)
	}
}

func TestInitiateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Initiate(ctx, customer, f.bill.ID.String(), ""); !errors.Is(err, paymentdomain.ErrInvalidProvider) {
		t.Fatalf("expected invalid provider, got %v", err)
	}
	if _, err := f.svc.Initiate(ctx, customer, f.bill.ID.String(), "khalti"); !errors.Is(err, paymentdomain.ErrProviderNotFound) {
		t.Fatalf("expected provider not found, got %v", err)
	}
	stranger := authdomain.Actor{ID: 200, Role: authdomain.RoleCustomer}
	if _, err := f.svc.Initiate(ctx, stranger, f.bill.ID.String(), "sandbox"); !errors.Is(err, authorization.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := f.svc.Initiate(ctx, customer, "404", "sandbox"); !errors.Is(err, billingdomain.ErrNotFound) {
		t.Fatalf("expected bill not found, got %v", err)
	}
}

func TestVerifySettlesBillOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.svc.Initiate(ctx, customer, f.bill.ID.String(), "sandbox")
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
	reference := result.Attempt.Reference

	attempt, err := f.svc.Verify(ctx, customer, reference)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if attempt.Status != paymentdomain.AttemptStatusCompleted {
		t.Fatalf("expected completed attempt, got %s", attempt.Status)
	}

	again, err := f.svc.Verify(ctx, cashier, reference)
	if err != nil {
		t.Fatalf("expected repeated verify to succeed, got %v", err)
	}
	if again.Status != paymentdomain.AttemptStatusCompleted {
		t.Fatalf("expected completed attempt, got %s", again.Status)
	}

	bill, err := f.billing.Get(ctx, customer, f.bill.ID.String())
	if err != nil {
		t.Fatalf("get bill: %v", err)
	}
	if bill.Status != billingdomain.BillStatusPaid || bill.PaymentReference == nil || *bill.PaymentReference != reference {
		t.Fatalf("expected bill paid with reference, got %+v", bill)
	}

	if _, err := f.svc.Initiate(ctx, customer, f.bill.ID.String(), "sandbox"); !errors.Is(err, billingdomain.ErrBillAlreadyPaid) {
		t.Fatalf("expected already paid, got %v", err)
	}
}

func TestVerifyUnknownReference(t *testing.T) {
	f := newFixture(t)

	if _, err := f.svc.Verify(context.Background(), customer, " "); !errors.Is(err, paymentdomain.ErrInvalidReference) {
		t.Fatalf("expected invalid reference, got %v", err)
	}
	if _, err := f.svc.Verify(context.Background(), customer, "missing"); !errors.Is(err, paymentdomain.ErrAttemptNotFound) {
		t.Fatalf("expected attempt not found, got %v", err)
	}
}
