package service

import (
	"context"
	"strings"
	"time"

	appdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/application/domain"
	auditdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/audit/domain"
	authdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/auth/domain"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/authorization"
	billingdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/billing/domain"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/billing/render"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/clock"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/events"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/observability/metrics"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const aggregateBill = "bill"

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     billingdomain.Repository
	AppSvc   appdomain.Service
	Authz    authorization.Service
	AuditSvc auditdomain.Service
	Outbox   *events.Outbox
	Clock    clock.Clock
	Renderer render.Renderer
	Metrics  *metrics.WorkflowMetrics `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     billingdomain.Repository
	appSvc   appdomain.Service
	authz    authorization.Service
	auditSvc auditdomain.Service
	outbox   *events.Outbox
	clock    clock.Clock
	renderer render.Renderer
	metrics  *metrics.WorkflowMetrics
}

func NewService(p Params) billingdomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("billing.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		appSvc:   p.AppSvc,
		authz:    p.Authz,
		auditSvc: p.AuditSvc,
		outbox:   p.Outbox,
		clock:    p.Clock,
		renderer: p.Renderer,
		metrics:  p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, actor authdomain.Actor, req billingdomain.CreateRequest) (*billingdomain.Bill, error) {
	if err := s.authz.Authorize(ctx, actor, authorization.ObjectBill, authorization.ActionBillCreate); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.ApplicationID) == "" {
		return nil, billingdomain.ErrInvalidApplication
	}
	period := strings.TrimSpace(req.BillingPeriod)
	if period == "" {
		return nil, billingdomain.ErrInvalidBillingPeriod
	}
	if !req.UsageUnits.IsPositive() {
		return nil, billingdomain.ErrInvalidUsageUnits
	}
	if !req.RatePerUnit.IsPositive() {
		return nil, billingdomain.ErrInvalidRate
	}
	tax := decimal.Zero
	if req.Tax != nil {
		tax = *req.Tax
	}
	if tax.IsNegative() {
		return nil, billingdomain.ErrInvalidTax
	}

	appID, err := snowflake.ParseString(strings.TrimSpace(req.ApplicationID))
	if err != nil {
		return nil, appdomain.ErrNotFound
	}
	app, err := s.appSvc.GetByID(ctx, appID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	issued := clock.StartOfDay(now)
	bill := &billingdomain.Bill{
		ID:            s.genID.Generate(),
		ApplicationID: app.ID,
		BillingPeriod: period,
		UsageUnits:    req.UsageUnits,
		RatePerUnit:   req.RatePerUnit,
		Tax:           tax.Round(2),
		LateFee:       decimal.Zero,
		TotalAmount:   req.UsageUnits.Mul(req.RatePerUnit).Add(tax).Round(2),
		Status:        billingdomain.BillStatusGenerated,
		IssuedDate:    issued,
		DueDate:       issued.AddDate(0, 0, billingdomain.DueDays),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, bill); err != nil {
			return err
		}
		payload := map[string]any{
			"bill_id":        bill.ID.String(),
			"application_id": app.ID.String(),
			"billing_period": bill.BillingPeriod,
			"total_amount":   bill.TotalAmount.StringFixed(2),
			"due_date":       bill.DueDate.Format("2006-01-02"),
			"template":       "bill_generated",
		}
		if app.ContactNumber != nil {
			payload["recipient"] = *app.ContactNumber
		}
		if err := s.outbox.PublishTx(ctx, tx, events.Event{
			Type:          events.EventBillGenerated,
			AggregateType: aggregateBill,
			AggregateID:   bill.ID,
			Payload:       payload,
			DedupeKey:     events.DedupeKey(aggregateBill, bill.ID, "status", string(bill.Status)),
		}); err != nil {
			return err
		}
		return s.auditSvc.AuditLogTx(ctx, tx, actor, "bill.created", aggregateBill, bill.ID.String(), map[string]any{
			"application_id": app.ID.String(),
			"total_amount":   bill.TotalAmount.StringFixed(2),
		})
	})
	if err != nil {
		return nil, err
	}

	bill.FillDerived()
	s.metrics.IncBillingOperation("create")
	s.log.Info("bill created", zap.String("bill_id", bill.ID.String()), zap.String("application_id", app.ID.String()))
	return bill, nil
}

func (s *Service) Estimate(ctx context.Context, req billingdomain.EstimateRequest) (billingdomain.Estimate, error) {
	estimate, err := billingdomain.ComputeEstimate(req.UsageUnits, req.RatePerUnit, req.TaxPercentage)
	if err != nil {
		return billingdomain.Estimate{}, err
	}
	s.metrics.IncBillingOperation("estimate")
	return estimate, nil
}

func (s *Service) Get(ctx context.Context, actor authdomain.Actor, id string) (*billingdomain.Bill, error) {
	bill, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRead(ctx, actor, bill.ApplicationID); err != nil {
		return nil, err
	}
	return bill, nil
}

func (s *Service) Statement(ctx context.Context, actor authdomain.Actor, id string) (string, error) {
	bill, err := s.Get(ctx, actor, id)
	if err != nil {
		return "", err
	}
	app, err := s.appSvc.GetByID(ctx, bill.ApplicationID)
	if err != nil {
		return "", err
	}
	return s.renderer.RenderHTML(render.NewStatementInput(bill, app))
}

func (s *Service) ListByApplication(ctx context.Context, actor authdomain.Actor, applicationID string) ([]billingdomain.Bill, error) {
	appID, err := snowflake.ParseString(strings.TrimSpace(applicationID))
	if err != nil {
		return nil, appdomain.ErrNotFound
	}
	if err := s.authorizeRead(ctx, actor, appID); err != nil {
		return nil, err
	}
	items, err := s.repo.ListByApplication(ctx, s.db, appID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []billingdomain.Bill{}
	}
	return items, nil
}

func (s *Service) MarkPaid(ctx context.Context, actor authdomain.Actor, id string, paymentReference string) (*billingdomain.Bill, error) {
	bill, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ObjectBill, authorization.ActionBillPay); err != nil {
		return nil, err
	}

	var paid *billingdomain.Bill
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updated, err := s.MarkPaidTx(ctx, tx, bill.ID, paymentReference)
		if err != nil {
			return err
		}
		paid = updated
		return s.auditSvc.AuditLogTx(ctx, tx, actor, "bill.paid", aggregateBill, bill.ID.String(), map[string]any{
			"payment_reference": strings.TrimSpace(paymentReference),
		})
	})
	if err != nil {
		return nil, err
	}
	return paid, nil
}

func (s *Service) MarkPaidTx(ctx context.Context, tx *gorm.DB, id snowflake.ID, paymentReference string) (*billingdomain.Bill, error) {
	bill, err := s.repo.LockByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, billingdomain.ErrNotFound
	}

	reference := strings.TrimSpace(paymentReference)
	if bill.Status == billingdomain.BillStatusPaid {
		if reference != "" && bill.PaymentReference != nil && *bill.PaymentReference == reference {
			return bill, nil
		}
		return nil, billingdomain.ErrBillAlreadyPaid
	}

	now := s.clock.Now()
	paidDate := clock.StartOfDay(now)
	var refValue *string
	if reference != "" {
		refValue = &reference
	}
	updated, err := s.repo.MarkPaid(ctx, tx, bill.ID, paidDate, refValue, now)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, billingdomain.ErrBillAlreadyPaid
	}
	bill.Status = billingdomain.BillStatusPaid
	bill.PaidDate = &paidDate
	bill.PaymentReference = refValue
	bill.UpdatedAt = now
	bill.FillDerived()

	payload := map[string]any{
		"bill_id":        bill.ID.String(),
		"application_id": bill.ApplicationID.String(),
		"amount_paid":    bill.AmountDue.StringFixed(2),
		"paid_date":      paidDate.Format("2006-01-02"),
		"template":       "bill_paid",
	}
	if app, err := s.appSvc.GetByIDTx(ctx, tx, bill.ApplicationID); err == nil && app.ContactNumber != nil {
		payload["recipient"] = *app.ContactNumber
	}
	if err := s.outbox.PublishTx(ctx, tx, events.Event{
		Type:          events.EventBillPaid,
		AggregateType: aggregateBill,
		AggregateID:   bill.ID,
		Payload:       payload,
		DedupeKey:     events.DedupeKey(aggregateBill, bill.ID, "status", string(billingdomain.BillStatusPaid)),
	}); err != nil {
		return nil, err
	}

	s.metrics.IncBillingOperation("mark_paid")
	s.log.Info("bill marked paid", zap.String("bill_id", bill.ID.String()))
	return bill, nil
}

func (s *Service) ApplyLateFee(ctx context.Context, actor authdomain.Actor, req billingdomain.LateFeeRequest) (billingdomain.LateFeeResult, error) {
	bill, err := s.load(ctx, req.BillID)
	if err != nil {
		return billingdomain.LateFeeResult{}, err
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ObjectBill, authorization.ActionBillLateFee); err != nil {
		return billingdomain.LateFeeResult{}, err
	}

	percentage := decimal.NewFromInt(billingdomain.DefaultLateFeePercentage)
	if req.Percentage != nil {
		percentage = *req.Percentage
	}
	if !percentage.IsPositive() {
		return billingdomain.LateFeeResult{}, billingdomain.ErrInvalidPercentage
	}
	maxFee := decimal.NewFromInt(billingdomain.DefaultMaxLateFee)
	if req.MaxFee != nil {
		maxFee = *req.MaxFee
	}
	if !maxFee.IsPositive() {
		return billingdomain.LateFeeResult{}, billingdomain.ErrInvalidMaxFee
	}

	var result billingdomain.LateFeeResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.repo.LockByID(ctx, tx, bill.ID)
		if err != nil {
			return err
		}
		if current == nil {
			return billingdomain.ErrNotFound
		}
		if current.Status == billingdomain.BillStatusPaid {
			return billingdomain.ErrBillAlreadyPaid
		}

		fee := billingdomain.LateFee(current.TotalAmount, percentage, maxFee)
		now := s.clock.Now()
		updated, err := s.repo.AddLateFee(ctx, tx, current.ID, fee, now)
		if err != nil {
			return err
		}
		if !updated {
			return billingdomain.ErrBillAlreadyPaid
		}
		current.LateFee = current.LateFee.Add(fee)
		current.UpdatedAt = now
		current.FillDerived()

		result = billingdomain.LateFeeResult{
			Bill:           current,
			FeeApplied:     fee,
			LateFee:        current.LateFee,
			EffectiveTotal: current.EffectiveTotal(),
		}
		return s.auditSvc.AuditLogTx(ctx, tx, actor, "bill.late_fee_applied", aggregateBill, current.ID.String(), map[string]any{
			"fee":        fee.StringFixed(2),
			"percentage": percentage.String(),
			"late_fee":   current.LateFee.StringFixed(2),
		})
	})
	if err != nil {
		return billingdomain.LateFeeResult{}, err
	}

	s.metrics.IncBillingOperation("late_fee")
	return result, nil
}

func (s *Service) Summary(ctx context.Context, actor authdomain.Actor, start *time.Time, end *time.Time) (billingdomain.Summary, error) {
	if err := s.authz.Authorize(ctx, actor, authorization.ObjectBill, authorization.ActionBillSummary); err != nil {
		return billingdomain.Summary{}, err
	}
	return s.Totals(ctx, start, end)
}

func (s *Service) Totals(ctx context.Context, start *time.Time, end *time.Time) (billingdomain.Summary, error) {
	if start != nil && end != nil && end.Before(*start) {
		return billingdomain.Summary{}, billingdomain.ErrInvalidDateRange
	}
	rows, err := s.repo.SummaryByStatus(ctx, s.db, start, end)
	if err != nil {
		return billingdomain.Summary{}, err
	}

	summary := billingdomain.Summary{
		StartDate:       start,
		EndDate:         end,
		ByStatus:        make(map[billingdomain.BillStatus]int64, len(billingdomain.AllBillStatuses)),
		GrossRevenue:    decimal.Zero,
		CollectedAmount: decimal.Zero,
	}
	for _, status := range billingdomain.AllBillStatuses {
		summary.ByStatus[status] = 0
	}
	for _, row := range rows {
		summary.ByStatus[row.Status] += row.Count
		summary.TotalBills += row.Count
		summary.GrossRevenue = summary.GrossRevenue.Add(row.Amount)
		if row.Status == billingdomain.BillStatusPaid {
			summary.CollectedAmount = summary.CollectedAmount.Add(row.Amount)
		}
	}
	return summary, nil
}

func (s *Service) load(ctx context.Context, id string) (*billingdomain.Bill, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, billingdomain.ErrNotFound
	}
	bill, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, billingdomain.ErrNotFound
	}
	return bill, nil
}

// authorizeRead lets customers read only bills of their own applications.
func (s *Service) authorizeRead(ctx context.Context, actor authdomain.Actor, applicationID snowflake.ID) error {
	if err := s.authz.Authorize(ctx, actor, authorization.ObjectBill, authorization.ActionBillRead); err != nil {
		return err
	}
	app, err := s.appSvc.GetByID(ctx, applicationID)
	if err != nil {
		return err
	}
	if actor.Role == authdomain.RoleCustomer && app.CustomerID != actor.ID {
		return authorization.ErrForbidden
	}
	return nil
}
