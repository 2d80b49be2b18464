package render

import (
	appdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/application/domain"
	billingdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/billing/domain"
	"github.com/shopspring/decimal"
)

// NewStatementInput maps a bill and its application into renderer input.
func NewStatementInput(bill *billingdomain.Bill, app *appdomain.Application) StatementInput {
	issued := bill.IssuedDate
	due := bill.DueDate
	input := StatementInput{
		Utility: UtilityView{
			Office:      app.City,
			FooterNotes: "Pay before the due date to avoid a late payment fee.",
		},
		Bill: BillView{
			ID:            bill.ID.String(),
			BillingPeriod: bill.BillingPeriod,
			Status:        string(bill.Status),
			IssuedDate:    &issued,
			DueDate:       &due,
			PaidDate:      bill.PaidDate,
			TotalAmount:   bill.TotalAmount,
			LateFee:       bill.LateFee,
			AmountDue:     bill.EffectiveTotal(),
		},
		Application: ApplicationView{
			ID:             app.ID.String(),
			ConnectionType: app.ConnectionType,
			ServiceAddress: app.ServiceAddress,
			City:           app.City,
		},
		Lines: []LineView{
			{
				Description: "Energy charge",
				Quantity:    bill.UsageUnits,
				UnitPrice:   bill.RatePerUnit,
				Amount:      bill.UsageUnits.Mul(bill.RatePerUnit).Round(2),
			},
		},
	}
	if bill.PaymentReference != nil {
		input.Bill.Reference = *bill.PaymentReference
	}
	if app.MeterNumber != nil {
		input.Application.MeterNumber = *app.MeterNumber
	}
	if bill.Tax.IsPositive() {
		input.Lines = append(input.Lines, LineView{
			Description: "Tax",
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   bill.Tax,
			Amount:      bill.Tax,
		})
	}
	return input
}
