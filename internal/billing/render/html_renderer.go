package render

import (
	"bytes"
	"html/template"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const statementHTMLTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Electricity bill {{.Bill.BillingPeriod}}</title>
  <style>
    :root { --primary: {{.Utility.PrimaryColor}}; }
    * { box-sizing: border-box; }
    body {
      margin: 0;
      padding: 32px;
      font-family: "Helvetica Neue", Arial, sans-serif;
      color: #111827;
    }
    .statement { max-width: 760px; margin: 0 auto; }
    .header {
      display: flex;
      justify-content: space-between;
      border-bottom: 2px solid var(--primary);
      padding-bottom: 16px;
      margin-bottom: 24px;
    }
    .meta { text-align: right; font-size: 14px; }
    .label {
      color: #6b7280;
      text-transform: uppercase;
      letter-spacing: 0.04em;
      font-size: 11px;
    }
    .section { margin-bottom: 24px; }
    table { width: 100%; border-collapse: collapse; font-size: 14px; }
    th, td { padding: 10px; border-bottom: 1px solid #e5e7eb; text-align: left; }
    th { text-transform: uppercase; font-size: 11px; color: #6b7280; }
    .totals { margin-top: 12px; text-align: right; font-size: 15px; }
    .totals div { margin-top: 4px; }
    .paid { color: #047857; font-weight: bold; }
    .footer { border-top: 1px solid #e5e7eb; padding-top: 16px; font-size: 12px; color: #6b7280; }
  </style>
</head>
<body>
  <div class="statement">
    <div class="header">
      <div>
        <div><strong>{{.Utility.Name}}</strong></div>
        {{if .Utility.Office}}<div>{{.Utility.Office}}</div>{{end}}
        <div>{{.Application.ServiceAddress}}, {{.Application.City}}</div>
        <div>Connection: {{.Application.ConnectionType}}</div>
        {{if .Application.MeterNumber}}<div>Meter: {{.Application.MeterNumber}}</div>{{end}}
      </div>
      <div class="meta">
        <div class="label">Bill</div>
        <div><strong>{{.Bill.ID}}</strong></div>
        <div>Period: {{.Bill.BillingPeriod}}</div>
        <div>Status: {{.Bill.Status}}</div>
        <div>Issued: {{formatDate .Bill.IssuedDate}}</div>
        <div>Due: {{formatDate .Bill.DueDate}}</div>
      </div>
    </div>

    <div class="section">
      <table>
        <thead>
          <tr>
            <th>Description</th>
            <th>Quantity</th>
            <th>Rate</th>
            <th>Amount</th>
          </tr>
        </thead>
        <tbody>
          {{range .Lines}}
          <tr>
            <td>{{.Description}}</td>
            <td>{{formatQuantity .Quantity}}</td>
            <td>{{formatMoney .UnitPrice}}</td>
            <td>{{formatMoney .Amount}}</td>
          </tr>
          {{end}}
        </tbody>
      </table>
      <div class="totals">
        <div>Total <strong>{{formatMoney .Bill.TotalAmount}}</strong></div>
        {{if .Bill.LateFee.IsPositive}}<div>Late fee <strong>{{formatMoney .Bill.LateFee}}</strong></div>{{end}}
        <div>Amount due <strong>{{formatMoney .Bill.AmountDue}}</strong></div>
        {{if .Bill.PaidDate}}<div class="paid">Paid on {{formatDate .Bill.PaidDate}}{{if .Bill.Reference}} ({{.Bill.Reference}}){{end}}</div>{{end}}
      </div>
    </div>

    <div class="footer">
      {{if .Utility.FooterNotes}}<div>{{.Utility.FooterNotes}}</div>{{end}}
    </div>
  </div>
</body>
</html>
`

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type HTMLRenderer struct {
	tpl *template.Template
}

func NewRenderer() Renderer {
	funcs := template.FuncMap{
		"formatMoney":    formatMoney,
		"formatDate":     formatDate,
		"formatQuantity": formatQuantity,
	}
	return &HTMLRenderer{
		tpl: template.Must(template.New("statement").Funcs(funcs).Parse(statementHTMLTemplate)),
	}
}

func (r *HTMLRenderer) RenderHTML(input StatementInput) (string, error) {
	input.Utility.PrimaryColor = sanitizeColor(input.Utility.PrimaryColor)
	if strings.TrimSpace(input.Utility.Name) == "" {
		input.Utility.Name = "Nepal Electricity Authority"
	}

	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, input); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func formatMoney(amount decimal.Decimal) string {
	return "NPR " + amount.StringFixed(2)
}

func formatDate(value *time.Time) string {
	if value == nil || value.IsZero() {
		return "-"
	}
	return value.UTC().Format("2006-01-02")
}

func formatQuantity(value decimal.Decimal) string {
	return value.String()
}

func sanitizeColor(value string) string {
	trimmed := strings.TrimSpace(value)
	if hexColorPattern.MatchString(trimmed) {
		return trimmed
	}
	return "#b91c1c"
}
