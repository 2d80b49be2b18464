package render

import (
	"strings"
	"testing"
	"time"

	appdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/application/domain"
	billingdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/billing/domain"
	"github.com/shopspring/decimal"
)

func TestRenderStatement(t *testing.T) {
	issued := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	meter := "MTR-001"
	bill := &billingdomain.Bill{
		ID:            42,
		BillingPeriod: "2026-02",
		UsageUnits:    decimal.NewFromInt(200),
		RatePerUnit:   decimal.NewFromInt(15),
		Tax:           decimal.Zero,
		LateFee:       decimal.NewFromInt(150),
		TotalAmount:   decimal.NewFromInt(3000),
		Status:        billingdomain.BillStatusGenerated,
		IssuedDate:    issued,
		DueDate:       issued.AddDate(0, 0, billingdomain.DueDays),
	}
	app := &appdomain.Application{
		ID:             7,
		ConnectionType: "residential",
		ServiceAddress: "Baneshwor-10",
		City:           "Kathmandu",
		MeterNumber:    &meter,
	}

	html, err := NewRenderer().RenderHTML(NewStatementInput(bill, app))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"NPR 3000.00", "NPR 150.00", "NPR 3150.00", "2026-03-16", "MTR-001", "Nepal Electricity Authority"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected statement to contain %q", want)
		}
	}
	if strings.Contains(html, "Paid on") {
		t.Fatalf("unpaid bill must not render a paid marker")
	}
}

func TestSanitizeColor(t *testing.T) {
	if got := sanitizeColor("red;}</style>"); got != "#b91c1c" {
		t.Fatalf("expected fallback color, got %q", got)
	}
	if got := sanitizeColor("#123abc"); got != "#123abc" {
		t.Fatalf("expected color to pass through, got %q", got)
	}
}
