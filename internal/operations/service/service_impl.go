package service

import (
	"context"
	"fmt"
	"time"

	appdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/application/domain"
	authdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/auth/domain"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/authorization"
	billingdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/billing/domain"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/cache"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/clock"
	taskdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/fieldtask/domain"
	operationsdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/operations/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// summaryTTL bounds how stale the dashboard counters may be.
const summaryTTL = 30 * time.Second

const summaryKey = "summary"

type Params struct {
	fx.In

	Log        *zap.Logger
	AppSvc     appdomain.Service
	BillingSvc billingdomain.Service
	TaskSvc    taskdomain.Service
	Authz      authorization.Service
	Clock      clock.Clock
}

type Service struct {
	log        *zap.Logger
	appSvc     appdomain.Service
	billingSvc billingdomain.Service
	taskSvc    taskdomain.Service
	authz      authorization.Service
	clock      clock.Clock
	summaries  cache.Cache[string, operationsdomain.DashboardSummary]
}

func NewService(p Params) operationsdomain.Service {
	return &Service{
		log:        p.Log.Named("operations.service"),
		appSvc:     p.AppSvc,
		billingSvc: p.BillingSvc,
		taskSvc:    p.TaskSvc,
		authz:      p.Authz,
		clock:      p.Clock,
		summaries:  cache.NewTTLCache[string, operationsdomain.DashboardSummary](p.Clock),
	}
}

func (s *Service) DashboardSummary(ctx context.Context, actor authdomain.Actor) (operationsdomain.DashboardSummary, error) {
	if err := s.authorize(ctx, actor); err != nil {
		return operationsdomain.DashboardSummary{}, err
	}
	if cached, ok := s.summaries.Get(summaryKey); ok {
		return cached, nil
	}

	applications, err := s.appSvc.CountByStatus(ctx)
	if err != nil {
		return operationsdomain.DashboardSummary{}, err
	}
	billing, err := s.billingSvc.Totals(ctx, nil, nil)
	if err != nil {
		return operationsdomain.DashboardSummary{}, err
	}
	tasks, err := s.taskSvc.Stats(ctx)
	if err != nil {
		return operationsdomain.DashboardSummary{}, err
	}

	summary := operationsdomain.DashboardSummary{
		Applications: applications,
		Billing:      billing,
		Tasks:        tasks,
		GeneratedAt:  s.clock.Now(),
	}
	s.summaries.Set(summaryKey, summary, summaryTTL)
	return summary, nil
}

func (s *Service) SystemAlerts(ctx context.Context, actor authdomain.Actor) ([]operationsdomain.Alert, error) {
	if err := s.authorize(ctx, actor); err != nil {
		return nil, err
	}

	alerts := []operationsdomain.Alert{}

	delayed, err := s.appSvc.CountDelayed(ctx)
	if err != nil {
		return nil, err
	}
	if delayed > 0 {
		alerts = append(alerts, operationsdomain.Alert{
			Level:   operationsdomain.AlertWarning,
			Code:    operationsdomain.AlertCodeDelayedApplications,
			Message: fmt.Sprintf("%d applications are delayed", delayed),
			Count:   delayed,
		})
	}

	counts, err := s.appSvc.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	if awaiting := counts.ByStatus[appdomain.StatusVerified]; awaiting > 0 {
		alerts = append(alerts, operationsdomain.Alert{
			Level:   operationsdomain.AlertInfo,
			Code:    operationsdomain.AlertCodeAwaitingApproval,
			Message: fmt.Sprintf("%d applications awaiting approval", awaiting),
			Count:   awaiting,
		})
	}
	return alerts, nil
}

func (s *Service) Report(ctx context.Context, actor authdomain.Actor, req operationsdomain.ReportRequest) (operationsdomain.Report, error) {
	if err := s.authorize(ctx, actor); err != nil {
		return operationsdomain.Report{}, err
	}
	kind, ok := operationsdomain.ParseReportKind(req.Kind)
	if !ok {
		return operationsdomain.Report{}, operationsdomain.ErrUnknownReportKind
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return operationsdomain.Report{}, operationsdomain.ErrInvalidDateRange
	}

	report := operationsdomain.Report{
		Kind:        kind,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		GeneratedAt: s.clock.Now(),
	}
	switch kind {
	case operationsdomain.ReportApplications:
		list, err := s.appSvc.List(ctx, authdomain.SystemActor, appdomain.ListRequest{
			CreatedFrom: req.StartDate,
			CreatedTo:   req.EndDate,
			Pagination:  req.Pagination,
		})
		if err != nil {
			return operationsdomain.Report{}, err
		}
		report.Applications = &list
	case operationsdomain.ReportRevenue:
		summary, err := s.billingSvc.Totals(ctx, req.StartDate, req.EndDate)
		if err != nil {
			return operationsdomain.Report{}, err
		}
		report.Revenue = &summary
	case operationsdomain.ReportTasks:
		stats, err := s.taskSvc.Stats(ctx)
		if err != nil {
			return operationsdomain.Report{}, err
		}
		report.Tasks = &stats
	}
	return report, nil
}

func (s *Service) authorize(ctx context.Context, actor authdomain.Actor) error {
	return s.authz.Authorize(ctx, actor, authorization.ObjectDashboard, authorization.ActionDashboardRead)
}
