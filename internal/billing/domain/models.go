package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

const (
	DueDays = 15
	// DefaultTaxPercentage is applied by Estimate when no rate is supplied.
	DefaultTaxPercentage     = 13
	DefaultLateFeePercentage = 5
	DefaultMaxLateFee        = 5000
)

type BillStatus string

const (
	BillStatusGenerated BillStatus = "generated"
	BillStatusPending   BillStatus = "pending"
	BillStatusPaid      BillStatus = "paid"
	// BillStatusOverdue is set by an external time-based sweep.
	BillStatusOverdue BillStatus = "overdue"
)

var AllBillStatuses = []BillStatus{
	BillStatusGenerated,
	BillStatusPending,
	BillStatusPaid,
	BillStatusOverdue,
}

// Bill is a charge issued against one application.
type Bill struct {
	ID               snowflake.ID    `json:"id" gorm:"primaryKey"`
	ApplicationID    snowflake.ID    `json:"application_id" gorm:"not null;index"`
	BillingPeriod    string          `json:"billing_period" gorm:"type:text;not null"`
	UsageUnits       decimal.Decimal `json:"usage_units" gorm:"type:numeric(14,3);not null"`
	RatePerUnit      decimal.Decimal `json:"rate_per_unit" gorm:"type:numeric(14,4);not null"`
	Tax              decimal.Decimal `json:"tax" gorm:"type:numeric(14,2);not null;default:0"`
	LateFee          decimal.Decimal `json:"late_fee" gorm:"type:numeric(14,2);not null;default:0"`
	TotalAmount      decimal.Decimal `json:"total_amount" gorm:"type:numeric(14,2);not null"`
	Status           BillStatus      `json:"status" gorm:"type:text;not null;index"`
	IssuedDate       time.Time       `json:"issued_date" gorm:"not null;index"`
	DueDate          time.Time       `json:"due_date" gorm:"not null"`
	PaidDate         *time.Time      `json:"paid_date"`
	PaymentReference *string         `json:"payment_reference,omitempty" gorm:"type:text"`
	CreatedAt        time.Time       `json:"created_at" gorm:"not null"`
	UpdatedAt        time.Time       `json:"updated_at" gorm:"not null"`

	AmountDue decimal.Decimal `json:"amount_due" gorm:"-"`
}

// TableName sets the database table name.
func (Bill) TableName() string { return "bills" }

// EffectiveTotal is the total amount plus every late fee applied so far.
func (b Bill) EffectiveTotal() decimal.Decimal {
	return b.TotalAmount.Add(b.LateFee)
}

// FillDerived populates fields that are not stored.
func (b *Bill) FillDerived() {
	b.AmountDue = b.EffectiveTotal()
}

// Estimate is the breakdown returned by the public bill estimator.
type Estimate struct {
	UsageUnits    decimal.Decimal   `json:"usage_units"`
	RatePerUnit   decimal.Decimal   `json:"rate_per_unit"`
	TaxPercentage decimal.Decimal   `json:"tax_percentage"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	Tax           decimal.Decimal   `json:"tax"`
	Total         decimal.Decimal   `json:"total"`
	Breakdown     EstimateBreakdown `json:"breakdown"`
}

type EstimateBreakdown struct {
	UsageCharge  string `json:"usage_charge"`
	TaxAmount    string `json:"tax_amount"`
	TotalPayable string `json:"total_payable"`
}

type LateFeeResult struct {
	Bill           *Bill           `json:"bill"`
	FeeApplied     decimal.Decimal `json:"fee_applied"`
	LateFee        decimal.Decimal `json:"late_fee"`
	EffectiveTotal decimal.Decimal `json:"effective_total"`
}

// Summary aggregates bills issued in an optional date range.
type Summary struct {
	StartDate       *time.Time           `json:"start_date,omitempty"`
	EndDate         *time.Time           `json:"end_date,omitempty"`
	TotalBills      int64                `json:"total_bills"`
	ByStatus        map[BillStatus]int64 `json:"by_status"`
	GrossRevenue    decimal.Decimal      `json:"gross_revenue"`
	CollectedAmount decimal.Decimal      `json:"collected_amount"`
}

// StatusTotal is one row of the summary aggregation.
type StatusTotal struct {
	Status BillStatus
	Count  int64
	Amount decimal.Decimal
}
