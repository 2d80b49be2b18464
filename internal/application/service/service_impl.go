package service

import (
	"context"
	"strings"

	appdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/application/domain"
	auditdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/audit/domain"
	authdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/auth/domain"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/authorization"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/clock"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/events"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/observability/metrics"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const aggregateApplication = "application"

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     appdomain.Repository
	Authz    authorization.Service
	AuditSvc auditdomain.Service
	Outbox   *events.Outbox
	Clock    clock.Clock
	Metrics  *metrics.WorkflowMetrics `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     appdomain.Repository
	authz    authorization.Service
	auditSvc auditdomain.Service
	outbox   *events.Outbox
	clock    clock.Clock
	metrics  *metrics.WorkflowMetrics
}

func NewService(p Params) appdomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("application.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		authz:    p.Authz,
		auditSvc: p.AuditSvc,
		outbox:   p.Outbox,
		clock:    p.Clock,
		metrics:  p.Metrics,
	}
}

func (s *Service) Submit(ctx context.Context, actor authdomain.Actor, req appdomain.SubmitRequest) (*appdomain.Application, error) {
	if err := s.authz.Authorize(ctx, actor, authorization.ObjectApplication, authorization.ActionApplicationSubmit); err != nil {
		return nil, err
	}

	connectionType := strings.TrimSpace(req.ConnectionType)
	if connectionType == "" {
		return nil, appdomain.ErrInvalidConnectionType
	}
	connectionLoad := strings.TrimSpace(req.ConnectionLoad)
	if connectionLoad == "" {
		return nil, appdomain.ErrInvalidConnectionLoad
	}
	address := strings.TrimSpace(req.ServiceAddress)
	if address == "" {
		return nil, appdomain.ErrInvalidServiceAddress
	}
	city := strings.TrimSpace(req.City)
	if city == "" {
		return nil, appdomain.ErrInvalidCity
	}
	priority := appdomain.PriorityNormal
	if strings.TrimSpace(req.Priority) != "" {
		parsed, ok := appdomain.ParsePriority(req.Priority)
		if !ok {
			return nil, appdomain.ErrInvalidPriority
		}
		priority = parsed
	}

	now := s.clock.Now()
	app := &appdomain.Application{
		ID:                     s.genID.Generate(),
		CustomerID:             actor.ID,
		ConnectionType:         connectionType,
		ConnectionLoad:         connectionLoad,
		ServiceAddress:         address,
		City:                   city,
		PostalCode:             optionalString(req.PostalCode),
		ContactNumber:          optionalString(req.ContactNumber),
		Status:                 appdomain.StatusSubmitted,
		Priority:               priority,
		ExpectedCompletionDate: now.AddDate(0, 0, appdomain.ExpectedCompletionLeadDays),
		Metadata:               datatypes.JSONMap{},
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	for key, value := range req.Metadata {
		if strings.TrimSpace(key) == "" {
			continue
		}
		app.Metadata[key] = value
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, app); err != nil {
			return err
		}
		if err := s.publishStatus(ctx, tx, app, events.EventApplicationSubmitted, ""); err != nil {
			return err
		}
		return s.auditSvc.AuditLogTx(ctx, tx, actor, "application.submitted", aggregateApplication, app.ID.String(), map[string]any{
			"connection_type": app.ConnectionType,
			"city":            app.City,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("application submitted", zap.String("application_id", app.ID.String()), zap.String("customer_id", actor.IDString()))
	return app, nil
}

func (s *Service) Get(ctx context.Context, actor authdomain.Actor, id string) (*appdomain.Application, error) {
	app, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRead(ctx, actor, app); err != nil {
		return nil, err
	}
	return app, nil
}

func (s *Service) ListMine(ctx context.Context, actor authdomain.Actor) ([]appdomain.Application, error) {
	if err := s.authz.Authorize(ctx, actor, authorization.ObjectApplication, authorization.ActionApplicationRead); err != nil {
		return nil, err
	}
	if actor.ID == 0 {
		return nil, authorization.ErrInvalidActor
	}
	items, err := s.repo.ListByCustomer(ctx, s.db, actor.ID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []appdomain.Application{}
	}
	return items, nil
}

func (s *Service) List(ctx context.Context, actor authdomain.Actor, req appdomain.ListRequest) (appdomain.ListResponse, error) {
	if err := s.authz.Authorize(ctx, actor, authorization.ObjectApplication, authorization.ActionApplicationList); err != nil {
		return appdomain.ListResponse{}, err
	}

	filter := appdomain.ListFilter{
		CreatedFrom: req.CreatedFrom,
		CreatedTo:   req.CreatedTo,
	}
	if strings.TrimSpace(req.Status) != "" {
		status, ok := appdomain.ParseStatus(req.Status)
		if !ok {
			return appdomain.ListResponse{}, appdomain.ErrInvalidStatus
		}
		filter.Status = status
	}
	if strings.TrimSpace(req.Priority) != "" {
		priority, ok := appdomain.ParsePriority(req.Priority)
		if !ok {
			return appdomain.ListResponse{}, appdomain.ErrInvalidPriority
		}
		filter.Priority = priority
	}
	if filter.CreatedFrom != nil && filter.CreatedTo != nil && filter.CreatedTo.Before(*filter.CreatedFrom) {
		return appdomain.ListResponse{}, appdomain.ErrInvalidDateRange
	}

	page := req.Pagination.Normalize()
	filter.Offset = page.Offset()
	filter.Limit = page.Limit

	items, total, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return appdomain.ListResponse{}, err
	}
	if items == nil {
		items = []appdomain.Application{}
	}
	return appdomain.ListResponse{
		Items: items,
		Page:  page.Page,
		Limit: page.Limit,
		Total: total,
	}, nil
}

func (s *Service) History(ctx context.Context, actor authdomain.Actor, id string) ([]appdomain.StatusHistory, error) {
	app, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRead(ctx, actor, app); err != nil {
		return nil, err
	}
	items, err := s.repo.ListHistory(ctx, s.db, app.ID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []appdomain.StatusHistory{}
	}
	return items, nil
}

func (s *Service) TransitionStatus(ctx context.Context, actor authdomain.Actor, req appdomain.TransitionRequest) (*appdomain.Application, error) {
	app, err := s.load(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	target, ok := appdomain.ParseStatus(req.Status)
	if !ok {
		return nil, appdomain.ErrInvalidStatus
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ObjectApplication, authorization.TransitionAction(string(target))); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	switch target {
	case appdomain.StatusConnected:
		meter := strings.TrimSpace(req.MeterNumber)
		if meter == "" {
			return nil, appdomain.ErrInvalidMeterNumber
		}
		fields["meter_number"] = meter
	case appdomain.StatusRejected:
		if reason := strings.TrimSpace(req.Reason); reason != "" {
			fields["rejection_reason"] = reason
		}
	}

	return s.transition(ctx, actor, app.ID, target, strings.TrimSpace(req.Reason), fields, nil)
}

func (s *Service) Approve(ctx context.Context, actor authdomain.Actor, id string, priority string) (*appdomain.Application, error) {
	app, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ObjectApplication, authorization.ActionApplicationApprove); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if strings.TrimSpace(priority) != "" {
		parsed, ok := appdomain.ParsePriority(priority)
		if !ok {
			return nil, appdomain.ErrInvalidPriority
		}
		if parsed != appdomain.PriorityNormal {
			fields["priority"] = parsed
		}
	}

	return s.transition(ctx, actor, app.ID, appdomain.StatusApproved, "", fields, func(current *appdomain.Application) error {
		if current.Status != appdomain.StatusVerified {
			return appdomain.ErrInvalidTransition
		}
		return nil
	})
}

func (s *Service) Reject(ctx context.Context, actor authdomain.Actor, id string, reason string) (*appdomain.Application, error) {
	app, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ObjectApplication, authorization.ActionApplicationReject); err != nil {
		return nil, err
	}

	reason = strings.TrimSpace(reason)
	fields := map[string]any{}
	if reason != "" {
		fields["rejection_reason"] = reason
	}
	return s.transition(ctx, actor, app.ID, appdomain.StatusRejected, reason, fields, nil)
}

func (s *Service) Activate(ctx context.Context, actor authdomain.Actor, id string, meterNumber string) (*appdomain.Application, error) {
	app, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ObjectApplication, authorization.ActionApplicationActivate); err != nil {
		return nil, err
	}
	meterNumber = strings.TrimSpace(meterNumber)
	if meterNumber == "" {
		return nil, appdomain.ErrInvalidMeterNumber
	}
	return s.transition(ctx, actor, app.ID, appdomain.StatusConnected, "", map[string]any{"meter_number": meterNumber}, nil)
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (*appdomain.Application, error) {
	return s.GetByIDTx(ctx, s.db, id)
}

func (s *Service) GetByIDTx(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*appdomain.Application, error) {
	app, err := s.repo.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, appdomain.ErrNotFound
	}
	return app, nil
}

func (s *Service) AdvanceTx(ctx context.Context, tx *gorm.DB, actor authdomain.Actor, id snowflake.ID, target appdomain.Status, reason string) (*appdomain.Application, error) {
	app, err := s.repo.LockByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, appdomain.ErrNotFound
	}
	if appdomain.Reached(app.Status, target) {
		return app, nil
	}

	path, err := appdomain.FieldPath(app.Status, target)
	if err != nil {
		return nil, err
	}
	for _, step := range path {
		if err := s.applyTx(ctx, tx, actor, app, step, reason, nil); err != nil {
			return nil, err
		}
	}
	return app, nil
}

func (s *Service) OnTaskStatusChanged(ctx context.Context, tx *gorm.DB, id snowflake.ID, taskID snowflake.ID, taskStatus string) error {
	var target appdomain.Status
	switch strings.TrimSpace(taskStatus) {
	case "in_progress":
		target = appdomain.StatusMeterScheduled
	case "completed":
		target = appdomain.StatusInstalled
	default:
		return nil
	}

	reason := "field task " + taskID.String() + " " + taskStatus
	if tx == nil {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			_, err := s.AdvanceTx(ctx, tx, authdomain.SystemActor, id, target, reason)
			return err
		})
	}
	_, err := s.AdvanceTx(ctx, tx, authdomain.SystemActor, id, target, reason)
	return err
}

func (s *Service) CountByStatus(ctx context.Context) (appdomain.StatusCounts, error) {
	rows, err := s.repo.CountByStatus(ctx, s.db)
	if err != nil {
		return appdomain.StatusCounts{}, err
	}
	counts := appdomain.StatusCounts{ByStatus: make(map[appdomain.Status]int64, len(appdomain.AllStatuses))}
	for _, status := range appdomain.AllStatuses {
		counts.ByStatus[status] = 0
	}
	for _, row := range rows {
		counts.ByStatus[row.Status] += row.Count
		counts.Total += row.Count
	}
	return counts, nil
}

func (s *Service) CountDelayed(ctx context.Context) (int64, error) {
	return s.repo.CountDelayed(ctx, s.db, s.clock.Now())
}

// transition runs one status change in its own transaction.
func (s *Service) transition(
	ctx context.Context,
	actor authdomain.Actor,
	id snowflake.ID,
	target appdomain.Status,
	reason string,
	fields map[string]any,
	guard func(*appdomain.Application) error,
) (*appdomain.Application, error) {
	var app *appdomain.Application
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.repo.LockByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return appdomain.ErrNotFound
		}
		if guard != nil {
			if err := guard(current); err != nil {
				return err
			}
		}
		if err := s.applyTx(ctx, tx, actor, current, target, reason, fields); err != nil {
			return err
		}
		app = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

// applyTx validates one edge and writes status, history, outbox event and audit entry.
func (s *Service) applyTx(
	ctx context.Context,
	tx *gorm.DB,
	actor authdomain.Actor,
	app *appdomain.Application,
	target appdomain.Status,
	reason string,
	fields map[string]any,
) error {
	from := app.Status
	if err := appdomain.ValidateTransition(from, target); err != nil {
		return err
	}

	now := s.clock.Now()
	updated, err := s.repo.UpdateStatus(ctx, tx, app.ID, from, target, fields, now)
	if err != nil {
		return err
	}
	if !updated {
		return appdomain.ErrConcurrentUpdate
	}

	actorType := string(actor.Role)
	if actorType == "" {
		actorType = string(authdomain.RoleSystem)
	}
	if err := s.repo.InsertHistory(ctx, tx, &appdomain.StatusHistory{
		ID:            s.genID.Generate(),
		ApplicationID: app.ID,
		FromStatus:    from,
		ToStatus:      target,
		ActorType:     actorType,
		ActorID:       optionalString(actor.IDString()),
		Reason:        optionalString(reason),
		CreatedAt:     now,
	}); err != nil {
		return err
	}

	app.Status = target
	app.UpdatedAt = now
	applyFields(app, fields)

	if err := s.publishStatus(ctx, tx, app, events.EventApplicationStatusChanged, reason); err != nil {
		return err
	}
	if err := s.auditSvc.AuditLogTx(ctx, tx, actor, "application.status_changed", aggregateApplication, app.ID.String(), map[string]any{
		"from_status": string(from),
		"to_status":   string(target),
		"reason":      reason,
	}); err != nil {
		return err
	}

	s.metrics.IncApplicationTransition(string(from), string(target))
	s.log.Info("application status changed",
		zap.String("application_id", app.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(target)),
		zap.String("actor_role", actorType),
	)
	return nil
}

func (s *Service) publishStatus(ctx context.Context, tx *gorm.DB, app *appdomain.Application, eventType string, reason string) error {
	payload := map[string]any{
		"application_id": app.ID.String(),
		"customer_id":    app.CustomerID.String(),
		"status":         string(app.Status),
		"template":       string(app.Status),
		"connection":     app.ConnectionType,
	}
	if app.ContactNumber != nil {
		payload["recipient"] = *app.ContactNumber
	}
	if reason != "" {
		payload["reason"] = reason
	}
	if app.MeterNumber != nil {
		payload["meter_number"] = *app.MeterNumber
	}
	return s.outbox.PublishTx(ctx, tx, events.Event{
		Type:          eventType,
		AggregateType: aggregateApplication,
		AggregateID:   app.ID,
		Payload:       payload,
		DedupeKey:     events.DedupeKey(aggregateApplication, app.ID, "status", string(app.Status)),
	})
}

func (s *Service) load(ctx context.Context, id string) (*appdomain.Application, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, appdomain.ErrNotFound
	}
	return s.GetByID(ctx, parsed)
}

// authorizeRead lets customers see only their own applications.
func (s *Service) authorizeRead(ctx context.Context, actor authdomain.Actor, app *appdomain.Application) error {
	if err := s.authz.Authorize(ctx, actor, authorization.ObjectApplication, authorization.ActionApplicationRead); err != nil {
		return err
	}
	if actor.Role == authdomain.RoleCustomer && actor.ID != app.CustomerID {
		return authorization.ErrForbidden
	}
	return nil
}

func applyFields(app *appdomain.Application, fields map[string]any) {
	for key, value := range fields {
		switch key {
		case "priority":
			if priority, ok := value.(appdomain.Priority); ok {
				app.Priority = priority
			}
		case "meter_number":
			if meter, ok := value.(string); ok {
				app.MeterNumber = &meter
			}
		case "rejection_reason":
			if reason, ok := value.(string); ok {
				app.RejectionReason = &reason
			}
		}
	}
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
