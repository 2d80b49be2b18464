package render

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementInput is the deterministic input used for bill statement rendering.
type StatementInput struct {
	Utility     UtilityView
	Bill        BillView
	Application ApplicationView
	Lines       []LineView
}

type UtilityView struct {
	Name         string
	Office       string
	FooterNotes  string
	PrimaryColor string
}

type BillView struct {
	ID            string
	BillingPeriod string
	Status        string
	IssuedDate    *time.Time
	DueDate       *time.Time
	PaidDate      *time.Time
	Reference     string
	TotalAmount   decimal.Decimal
	LateFee       decimal.Decimal
	AmountDue     decimal.Decimal
}

type ApplicationView struct {
	ID             string
	ConnectionType string
	ServiceAddress string
	City           string
	MeterNumber    string
}

type LineView struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal
}

type Renderer interface {
	RenderHTML(input StatementInput) (string, error)
}
