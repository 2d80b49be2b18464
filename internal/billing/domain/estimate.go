package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ComputeEstimate prices usage without touching storage.
// A nil taxPercentage uses DefaultTaxPercentage.
func ComputeEstimate(usageUnits decimal.Decimal, ratePerUnit decimal.Decimal, taxPercentage *decimal.Decimal) (Estimate, error) {
	if !usageUnits.IsPositive() {
		return Estimate{}, ErrInvalidUsageUnits
	}
	if !ratePerUnit.IsPositive() {
		return Estimate{}, ErrInvalidRate
	}
	pct := decimal.NewFromInt(DefaultTaxPercentage)
	if taxPercentage != nil {
		pct = *taxPercentage
	}
	if pct.IsNegative() {
		return Estimate{}, ErrInvalidTaxPercentage
	}

	subtotal := usageUnits.Mul(ratePerUnit).Round(2)
	tax := subtotal.Mul(pct).Div(hundred).Round(2)
	total := subtotal.Add(tax)

	return Estimate{
		UsageUnits:    usageUnits,
		RatePerUnit:   ratePerUnit,
		TaxPercentage: pct,
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         total,
		Breakdown: EstimateBreakdown{
			UsageCharge:  fmt.Sprintf("%s units x NPR %s = NPR %s", usageUnits.String(), ratePerUnit.StringFixed(2), subtotal.StringFixed(2)),
			TaxAmount:    fmt.Sprintf("%s%% of NPR %s = NPR %s", pct.String(), subtotal.StringFixed(2), tax.StringFixed(2)),
			TotalPayable: fmt.Sprintf("NPR %s", total.StringFixed(2)),
		},
	}, nil
}

// LateFee returns min(total*percentage/100, maxFee).
func LateFee(total decimal.Decimal, percentage decimal.Decimal, maxFee decimal.Decimal) decimal.Decimal {
	fee := total.Mul(percentage).Div(hundred).Round(2)
	if fee.GreaterThan(maxFee) {
		return maxFee
	}
	return fee
}
