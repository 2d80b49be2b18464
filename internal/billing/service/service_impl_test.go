package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	appdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/application/domain"
	apprepository "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/application/repository"
	appservice "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/application/service"
	authdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/auth/domain"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/authorization"
	billingdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/billing/domain"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/billing/render"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/billing/repository"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/events"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/testutil"
	"github.com/shopspring/decimal"
)

var (
	admin    = authdomain.Actor{ID: 1, Role: authdomain.RoleAdmin}
	cashier  = authdomain.Actor{ID: 3, Role: authdomain.RoleBilling}
	customer = authdomain.Actor{ID: 100, Role: authdomain.RoleCustomer}
)

func newTestService(t *testing.T) (*Service, appdomain.Service, *testutil.Env) {
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
	svc := NewService(Params{
		DB:       env.DB,
		Log:      env.Log,
		GenID:    env.GenID,
		Repo:     repository.Provide(),
		AppSvc:   apps,
		Authz:    env.Authz,
		AuditSvc: env.Audit,
		Outbox:   env.Outbox,
		Clock:    env.Clock,
		Renderer: render.NewRenderer(),
	}).(*Service)
	return svc, apps, env
}

func newApplication(t *testing.T, apps appdomain.Service) *appdomain.Application {
	t.Helper()
	app, err := apps.Submit(context.Background(), customer, appdomain.SubmitRequest{
		ConnectionType: "residential",
		ConnectionLoad: "5kW",
		ServiceAddress: "Baneshwor-10",
		City:           "Kathmandu",
		ContactNumber:  "9800000001",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return app
}

func createBill(t *testing.T, svc *Service, app *appdomain.Application, usage int64, rate int64) *billingdomain.Bill {
	t.Helper()
	bill, err := svc.Create(context.Background(), cashier, billingdomain.CreateRequest{
		ApplicationID: app.ID.String(),
		BillingPeriod: "2026-02",
		UsageUnits:    decimal.NewFromInt(usage),
		RatePerUnit:   decimal.NewFromInt(rate),
	})
	if err != nil {
		t.Fatalf("create bill: %v", err)
	}
	return bill
}

func TestEstimate(t *testing.T) {
	svc, _, _ := newTestService(t)

	pct := decimal.NewFromInt(13)
	estimate, err := svc.Estimate(context.Background(), billingdomain.EstimateRequest{
		UsageUnits:    decimal.NewFromInt(100),
		RatePerUnit:   decimal.NewFromInt(10),
		TaxPercentage: &pct,
	})
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if !estimate.Subtotal.Equal(decimal.NewFromInt(1000)) || !estimate.Tax.Equal(decimal.NewFromInt(130)) || !estimate.Total.Equal(decimal.NewFromInt(1130)) {
		t.Fatalf("unexpected estimate %+v", estimate)
	}
	if estimate.Breakdown.TotalPayable != "NPR 1130.00" {
		t.Fatalf("unexpected breakdown %q", estimate.Breakdown.TotalPayable)
	}

	defaulted, err := svc.Estimate(context.Background(), billingdomain.EstimateRequest{
		UsageUnits:  decimal.NewFromInt(100),
		RatePerUnit: decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if !defaulted.Total.Equal(decimal.NewFromInt(1130)) {
		t.Fatalf("expected default 13%% tax, got %s", defaulted.Total)
	}

	negative := decimal.NewFromInt(-1)
	_, err = svc.Estimate(context.Background(), billingdomain.EstimateRequest{
		UsageUnits:    decimal.NewFromInt(100),
		RatePerUnit:   decimal.NewFromInt(10),
		TaxPercentage: &negative,
	})
	if !errors.Is(err, billingdomain.ErrInvalidTaxPercentage) {
		t.Fatalf("expected invalid tax percentage, got %v", err)
	}
	_, err = svc.Estimate(context.Background(), billingdomain.EstimateRequest{RatePerUnit: decimal.NewFromInt(10)})
	if !errors.Is(err, billingdomain.ErrInvalidUsageUnits) {
		t.Fatalf("expected invalid usage, got %v", err)
	}
}

func TestCreateBill(t *testing.T) {
	svc, apps, env := newTestService(t)
	app := newApplication(t, apps)

	bill := createBill(t, svc, app, 200, 15)
	if !bill.TotalAmount.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("expected total 3000, got %s", bill.TotalAmount)
	}
	wantIssued := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !bill.IssuedDate.Equal(wantIssued) {
		t.Fatalf("expected issued %v, got %v", wantIssued, bill.IssuedDate)
	}
	if !bill.DueDate.Equal(wantIssued.AddDate(0, 0, 15)) {
		t.Fatalf("expected due date 15 days after issue, got %v", bill.DueDate)
	}
	if bill.Status != billingdomain.BillStatusGenerated || bill.PaidDate != nil {
		t.Fatalf("expected unpaid generated bill, got %+v", bill)
	}

	rows := env.Events(t, "bill", bill.ID)
	if len(rows) != 1 || rows[0].EventType != events.EventBillGenerated || rows[0].StringValue("recipient") != "9800000001" {
		t.Fatalf("expected bill.generated event, got %+v", rows)
	}
}

func TestCreateBillValidation(t *testing.T) {
	svc, apps, _ := newTestService(t)
	app := newApplication(t, apps)
	ctx := context.Background()

	_, err := svc.Create(ctx, cashier, billingdomain.CreateRequest{
		ApplicationID: "12345",
		BillingPeriod: "2026-02",
		UsageUnits:    decimal.Zero,
		RatePerUnit:   decimal.NewFromInt(15),
	})
	if !errors.Is(err, billingdomain.ErrInvalidUsageUnits) {
		t.Fatalf("expected usage validation before lookup, got %v", err)
	}
	_, err = svc.Create(ctx, cashier, billingdomain.CreateRequest{
		ApplicationID: "12345",
		BillingPeriod: "2026-02",
		UsageUnits:    decimal.NewFromInt(10),
		RatePerUnit:   decimal.NewFromInt(15),
	})
	if !errors.Is(err, appdomain.ErrNotFound) {
		t.Fatalf("expected application not found, got %v", err)
	}
	negative := decimal.NewFromInt(-5)
	_, err = svc.Create(ctx, cashier, billingdomain.CreateRequest{
		ApplicationID: app.ID.String(),
		BillingPeriod: "2026-02",
		UsageUnits:    decimal.NewFromInt(10),
		RatePerUnit:   decimal.NewFromInt(15),
		Tax:           &negative,
	})
	if !errors.Is(err, billingdomain.ErrInvalidTax) {
		t.Fatalf("expected invalid tax, got %v", err)
	}
	_, err = svc.Create(ctx, customer, billingdomain.CreateRequest{ApplicationID: app.ID.String()})
	if !errors.Is(err, authorization.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestApplyLateFeeAccumulates(t *testing.T) {
	svc, apps, _ := newTestService(t)
	bill := createBill(t, svc, newApplication(t, apps), 200, 15)
	ctx := context.Background()

	first, err := svc.ApplyLateFee(ctx, cashier, billingdomain.LateFeeRequest{BillID: bill.ID.String()})
	if err != nil {
		t.Fatalf("late fee: %v", err)
	}
	if !first.FeeApplied.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected fee 150, got %s", first.FeeApplied)
	}
	second, err := svc.ApplyLateFee(ctx, cashier, billingdomain.LateFeeRequest{BillID: bill.ID.String()})
	if err != nil {
		t.Fatalf("late fee: %v", err)
	}
	if !second.LateFee.Equal(decimal.NewFromInt(300)) || !second.EffectiveTotal.Equal(decimal.NewFromInt(3300)) {
		t.Fatalf("expected cumulative 300 and total 3300, got %s/%s", second.LateFee, second.EffectiveTotal)
	}

	pct, maxFee := decimal.NewFromInt(50), decimal.NewFromInt(1000)
	capped, err := svc.ApplyLateFee(ctx, cashier, billingdomain.LateFeeRequest{BillID: bill.ID.String(), Percentage: &pct, MaxFee: &maxFee})
	if err != nil {
		t.Fatalf("late fee: %v", err)
	}
	if !capped.FeeApplied.Equal(maxFee) || !capped.LateFee.Equal(decimal.NewFromInt(1300)) {
		t.Fatalf("expected capped fee, got %s/%s", capped.FeeApplied, capped.LateFee)
	}

	zero := decimal.Zero
	if _, err := svc.ApplyLateFee(ctx, cashier, billingdomain.LateFeeRequest{BillID: bill.ID.String(), Percentage: &zero}); !errors.Is(err, billingdomain.ErrInvalidPercentage) {
		t.Fatalf("expected invalid percentage, got %v", err)
	}
	if _, err := svc.ApplyLateFee(ctx, cashier, billingdomain.LateFeeRequest{BillID: "777"}); !errors.Is(err, billingdomain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMarkPaid(t *testing.T) {
	svc, apps, env := newTestService(t)
	bill := createBill(t, svc, newApplication(t, apps), 200, 15)
	ctx := context.Background()

	env.Advance(36 * time.Hour)
	paid, err := svc.MarkPaid(ctx, cashier, bill.ID.String(), "REF-1")
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	wantPaid := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	if paid.Status != billingdomain.BillStatusPaid || paid.PaidDate == nil || !paid.PaidDate.Equal(wantPaid) {
		t.Fatalf("expected paid on %v, got %+v", wantPaid, paid)
	}

	again, err := svc.MarkPaid(ctx, cashier, bill.ID.String(), "REF-1")
	if err != nil {
		t.Fatalf("expected same reference to be idempotent, got %v", err)
	}
	if again.PaymentReference == nil || *again.PaymentReference != "REF-1" {
		t.Fatalf("expected reference kept, got %v", again.PaymentReference)
	}
	if _, err := svc.MarkPaid(ctx, cashier, bill.ID.String(), "REF-2"); !errors.Is(err, billingdomain.ErrBillAlreadyPaid) {
		t.Fatalf("expected already paid, got %v", err)
	}

	if _, err := svc.ApplyLateFee(ctx, cashier, billingdomain.LateFeeRequest{BillID: bill.ID.String()}); !errors.Is(err, billingdomain.ErrBillAlreadyPaid) {
		t.Fatalf("expected late fee on paid bill to fail, got %v", err)
	}
	stored, err := svc.Get(ctx, admin, bill.ID.String())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !stored.LateFee.IsZero() {
		t.Fatalf("expected late fee unchanged, got %s", stored.LateFee)
	}

	rows := env.Events(t, "bill", bill.ID)
	if len(rows) != 2 || rows[1].EventType != events.EventBillPaid {
		t.Fatalf("expected one bill.paid event, got %+v", rows)
	}
}

func TestBillReadOwnership(t *testing.T) {
	svc, apps, _ := newTestService(t)
	app := newApplication(t, apps)
	bill := createBill(t, svc, app, 50, 12)
	ctx := context.Background()

	if _, err := svc.Get(ctx, customer, bill.ID.String()); err != nil {
		t.Fatalf("owner get: %v", err)
	}
	stranger := authdomain.Actor{ID: 200, Role: authdomain.RoleCustomer}
	if _, err := svc.Get(ctx, stranger, bill.ID.String()); !errors.Is(err, authorization.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := svc.ListByApplication(ctx, stranger, app.ID.String()); !errors.Is(err, authorization.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	bills, err := svc.ListByApplication(ctx, customer, app.ID.String())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(bills) != 1 || !bills[0].AmountDue.Equal(decimal.NewFromInt(600)) {
		t.Fatalf("unexpected bills %+v", bills)
	}

	html, err := svc.Statement(ctx, customer, bill.ID.String())
	if err != nil {
		t.Fatalf("statement: %v", err)
	}
	if !strings.Contains(html, "NPR 600.00") || !strings.Contains(html, "2026-02") {
		t.Fatalf("unexpected statement output")
	}
}

func TestSummary(t *testing.T) {
	svc, apps, env := newTestService(t)
	app := newApplication(t, apps)
	ctx := context.Background()

	first := createBill(t, svc, app, 200, 15)
	env.Advance(40 * 24 * time.Hour)
	createBill(t, svc, app, 100, 10)
	if _, err := svc.MarkPaid(ctx, cashier, first.ID.String(), "REF-1"); err != nil {
		t.Fatalf("mark paid: %v", err)
	}

	summary, err := svc.Summary(ctx, cashier, nil, nil)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TotalBills != 2 || summary.ByStatus[billingdomain.BillStatusPaid] != 1 || summary.ByStatus[billingdomain.BillStatusGenerated] != 1 {
		t.Fatalf("unexpected counts %+v", summary)
	}
	if summary.ByStatus[billingdomain.BillStatusOverdue] != 0 {
		t.Fatalf("expected zero-filled overdue count")
	}
	if !summary.GrossRevenue.Equal(decimal.NewFromInt(4000)) || !summary.CollectedAmount.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("unexpected amounts gross=%s collected=%s", summary.GrossRevenue, summary.CollectedAmount)
	}

	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	ranged, err := svc.Summary(ctx, cashier, &start, nil)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if ranged.TotalBills != 1 || !ranged.GrossRevenue.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("unexpected ranged summary %+v", ranged)
	}

	end := start.AddDate(0, 0, -1)
	if _, err := svc.Summary(ctx, cashier, &start, &end); !errors.Is(err, billingdomain.ErrInvalidDateRange) {
		t.Fatalf("expected invalid range, got %v", err)
	}
	if _, err := svc.Summary(ctx, customer, nil, nil); !errors.Is(err, authorization.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}
