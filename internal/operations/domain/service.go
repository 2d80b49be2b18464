package domain

import (
	"context"
	"errors"

	authdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/auth/domain"
)

// Service is a read-only view over applications, bills and field tasks.
type Service interface {
	DashboardSummary(ctx context.Context, actor authdomain.Actor) (DashboardSummary, error)
	SystemAlerts(ctx context.Context, actor authdomain.Actor) ([]Alert, error)
	Report(ctx context.Context, actor authdomain.Actor, req ReportRequest) (Report, error)
}

var (
	ErrUnknownReportKind = errors.New("unknown_report_kind")
	ErrInvalidDateRange  = errors.New("invalid_date_range")
)
