package domain

import (
	"bytes"
	"strings"
	"text/template"
)

type messageTemplate struct {
	subject string
	body    *template.Template
}

var templates = map[string]messageTemplate{
	"submitted": newTemplate("Application received",
		"Your connection application {{.application_id}} has been received. We will contact you within 10 days."),
	"verified": newTemplate("Documents verified",
		"Documents for application {{.application_id}} are verified and awaiting approval."),
	"approved": newTemplate("Application approved",
		"Application {{.application_id}} is approved. A technician will be scheduled shortly."),
	"rejected": newTemplate("Application rejected",
		"Application {{.application_id}} was rejected.{{if .reason}} Reason: {{.reason}}.{{end}}"),
	"meter_scheduled": newTemplate("Meter installation scheduled",
		"Meter installation for application {{.application_id}} has been scheduled."),
	"installed": newTemplate("Meter installed",
		"The meter for application {{.application_id}} is installed. Connection activation is pending."),
	"connected": newTemplate("Connection active",
		"Your electricity connection is active.{{if .meter_number}} Meter number: {{.meter_number}}.{{end}}"),
	"task_assigned": newTemplate("New field task",
		"Task {{.task_id}} ({{.task_type}}) assigned at {{.address}}."),
	"bill_generated": newTemplate("New electricity bill",
		"Bill for {{.billing_period}}: NPR {{.total_amount}} due on {{.due_date}}."),
	"bill_paid": newTemplate("Payment received",
		"Payment of NPR {{.amount_paid}} received on {{.paid_date}}. Thank you."),
}

func newTemplate(subject string, body string) messageTemplate {
	return messageTemplate{
		subject: subject,
		body:    template.Must(template.New(subject).Option("missingkey=zero").Parse(body)),
	}
}

// HasTemplate reports whether name is a known message template.
func HasTemplate(name string) bool {
	_, ok := templates[strings.TrimSpace(name)]
	return ok
}

// Render builds a message for recipient from a named template and event payload.
func Render(name string, recipient string, vars map[string]any) (Message, error) {
	name = strings.TrimSpace(name)
	tpl, ok := templates[name]
	if !ok {
		return Message{}, ErrUnknownTemplate
	}
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return Message{}, ErrInvalidRecipient
	}

	var buf bytes.Buffer
	if err := tpl.body.Execute(&buf, vars); err != nil {
		return Message{}, err
	}
	return Message{
		Recipient: recipient,
		Channel:   ChannelSMS,
		Subject:   tpl.subject,
		Body:      strings.TrimSpace(buf.String()),
		Template:  name,
	}, nil
}
