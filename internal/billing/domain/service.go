package domain

import (
	"context"
	"errors"
	"time"

	authdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/auth/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, actor authdomain.Actor, req CreateRequest) (*Bill, error)
	Estimate(ctx context.Context, req EstimateRequest) (Estimate, error)
	Get(ctx context.Context, actor authdomain.Actor, id string) (*Bill, error)
	// Statement renders the bill as an HTML document.
	Statement(ctx context.Context, actor authdomain.Actor, id string) (string, error)
	ListByApplication(ctx context.Context, actor authdomain.Actor, applicationID string) ([]Bill, error)
	MarkPaid(ctx context.Context, actor authdomain.Actor, id string, paymentReference string) (*Bill, error)
	// MarkPaidTx settles a bill inside tx without an authorization check.
	MarkPaidTx(ctx context.Context, tx *gorm.DB, id snowflake.ID, paymentReference string) (*Bill, error)
	ApplyLateFee(ctx context.Context, actor authdomain.Actor, req LateFeeRequest) (LateFeeResult, error)
	Summary(ctx context.Context, actor authdomain.Actor, start *time.Time, end *time.Time) (Summary, error)
	// Totals is the unauthenticated read used by the operations aggregator.
	Totals(ctx context.Context, start *time.Time, end *time.Time) (Summary, error)
}

type CreateRequest struct {
	ApplicationID string           `json:"application_id"`
	BillingPeriod string           `json:"billing_period"`
	UsageUnits    decimal.Decimal  `json:"usage_units"`
	RatePerUnit   decimal.Decimal  `json:"rate_per_unit"`
	Tax           *decimal.Decimal `json:"tax"`
}

type EstimateRequest struct {
	UsageUnits    decimal.Decimal  `json:"usage_units"`
	RatePerUnit   decimal.Decimal  `json:"rate_per_unit"`
	TaxPercentage *decimal.Decimal `json:"tax_percentage"`
}

type LateFeeRequest struct {
	BillID     string           `json:"-"`
	Percentage *decimal.Decimal `json:"percentage"`
	MaxFee     *decimal.Decimal `json:"max_fee"`
}

var (
	ErrInvalidApplication   = errors.New("application_id_required")
	ErrInvalidBillingPeriod = errors.New("billing_period_required")
	ErrInvalidUsageUnits    = errors.New("usage_units_must_be_positive")
	ErrInvalidRate          = errors.New("rate_per_unit_must_be_positive")
	ErrInvalidTax           = errors.New("tax_must_not_be_negative")
	ErrInvalidTaxPercentage = errors.New("tax_percentage_must_not_be_negative")
	ErrInvalidPercentage    = errors.New("late_fee_percentage_must_be_positive")
	ErrInvalidMaxFee        = errors.New("max_fee_must_be_positive")
	ErrInvalidDateRange     = errors.New("invalid_date_range")
	ErrBillAlreadyPaid      = errors.New("bill_already_paid")
	ErrNotFound             = errors.New("bill_not_found")
)
