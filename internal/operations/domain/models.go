package domain

import (
	"time"

	appdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/application/domain"
	billingdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/billing/domain"
	taskdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/fieldtask/domain"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/pkg/db/pagination"
)

// DashboardSummary composes the headline numbers of every component.
type DashboardSummary struct {
	Applications appdomain.StatusCounts `json:"applications"`
	Billing      billingdomain.Summary  `json:"billing"`
	Tasks        taskdomain.Stats       `json:"tasks"`
	GeneratedAt  time.Time              `json:"generated_at"`
}

type AlertLevel string

const (
	AlertWarning AlertLevel = "warning"
	AlertInfo    AlertLevel = "info"
)

const (
	AlertCodeDelayedApplications = "delayed_applications"
	AlertCodeAwaitingApproval    = "awaiting_approval"
)

// Alert is derived on demand and never stored.
type Alert struct {
	Level   AlertLevel `json:"type"`
	Code    string     `json:"code"`
	Message string     `json:"message"`
	Count   int64      `json:"count"`
}

type ReportKind string

const (
	ReportApplications ReportKind = "applications"
	ReportRevenue      ReportKind = "revenue"
	ReportTasks        ReportKind = "tasks"
)

func ParseReportKind(value string) (ReportKind, bool) {
	switch kind := ReportKind(value); kind {
	case ReportApplications, ReportRevenue, ReportTasks:
		return kind, true
	default:
		return "", false
	}
}

type ReportRequest struct {
	Kind      string
	StartDate *time.Time
	EndDate   *time.Time
	pagination.Pagination
}

// Report holds exactly one of Applications, Revenue or Tasks depending on Kind.
type Report struct {
	Kind         ReportKind              `json:"kind"`
	StartDate    *time.Time              `json:"start_date,omitempty"`
	EndDate      *time.Time              `json:"end_date,omitempty"`
	GeneratedAt  time.Time               `json:"generated_at"`
	Applications *appdomain.ListResponse `json:"applications,omitempty"`
	Revenue      *billingdomain.Summary  `json:"revenue,omitempty"`
	Tasks        *taskdomain.Stats       `json:"tasks,omitempty"`
}
