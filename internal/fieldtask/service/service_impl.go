package service

import (
	"context"
	"math"
	"strings"

	appdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/application/domain"
	auditdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/audit/domain"
	authdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/auth/domain"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/authorization"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/clock"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/events"
	taskdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/fieldtask/domain"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/observability/metrics"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/pkg/db/option"
	pkgrepository "github.com/Mr-strangerX11/Nepal-Electricity-Authority/pkg/repository"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	aggregateTask    = "field_task"
	maxClaimAttempts = 3
	maxMetricsDays   = 365
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       taskdomain.Repository
	StaffStore pkgrepository.Repository[taskdomain.StaffMember]
	AppSvc     appdomain.Service
	Authz      authorization.Service
	AuditSvc   auditdomain.Service
	Outbox     *events.Outbox
	Clock      clock.Clock
	Metrics    *metrics.WorkflowMetrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       taskdomain.Repository
	staffStore pkgrepository.Repository[taskdomain.StaffMember]
	appSvc     appdomain.Service
	authz      authorization.Service
	auditSvc   auditdomain.Service
	outbox     *events.Outbox
	clock      clock.Clock
	metrics    *metrics.WorkflowMetrics
}

func NewService(p Params) taskdomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("fieldtask.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		staffStore: p.StaffStore,
		appSvc:     p.AppSvc,
		authz:      p.Authz,
		auditSvc:   p.AuditSvc,
		outbox:     p.Outbox,
		clock:      p.Clock,
		metrics:    p.Metrics,
	}
}

func (s *Service) Assign(ctx context.Context, actor authdomain.Actor, req taskdomain.AssignRequest) (*taskdomain.Task, error) {
	if err := s.authz.Authorize(ctx, actor, authorization.ObjectTask, authorization.ActionTaskAssign); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.StaffID) == "" {
		return nil, taskdomain.ErrInvalidStaff
	}
	staffID, err := snowflake.ParseString(strings.TrimSpace(req.StaffID))
	if err != nil || staffID == 0 {
		return nil, taskdomain.ErrInvalidStaff
	}
	appID, err := parseApplicationID(req.ApplicationID)
	if err != nil {
		return nil, err
	}
	taskType, duration, err := normalizeWork(req)
	if err != nil {
		return nil, err
	}

	var task *taskdomain.Task
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		staff, err := s.staffStore.WithTx(tx).FindByID(ctx, staffID)
		if err != nil {
			return err
		}
		if staff == nil || !staff.Active {
			return taskdomain.ErrStaffNotFound
		}
		created, err := s.createTx(ctx, tx, actor, appID, staff, taskType, duration)
		if err != nil {
			return err
		}
		if err := s.repo.AdjustActiveTasks(ctx, tx, staffID, 1, s.clock.Now()); err != nil {
			return err
		}
		task = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *Service) AutoAssign(ctx context.Context, actor authdomain.Actor, req taskdomain.AssignRequest) (*taskdomain.Task, error) {
	if err := s.authz.Authorize(ctx, actor, authorization.ObjectTask, authorization.ActionTaskAssign); err != nil {
		return nil, err
	}
	appID, err := parseApplicationID(req.ApplicationID)
	if err != nil {
		return nil, err
	}
	taskType, duration, err := normalizeWork(req)
	if err != nil {
		return nil, err
	}

	var task *taskdomain.Task
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		staffID, err := s.claimStaff(ctx, tx)
		if err != nil {
			return err
		}
		staff, err := s.staffStore.WithTx(tx).FindByID(ctx, staffID)
		if err != nil {
			return err
		}
		if staff == nil {
			return taskdomain.ErrStaffNotFound
		}
		created, err := s.createTx(ctx, tx, actor, appID, staff, taskType, duration)
		if err != nil {
			return err
		}
		task = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// claimStaff picks the least-loaded staff member and bumps its counter with a
// conditional update, retrying when another request claimed the same row first.
func (s *Service) claimStaff(ctx context.Context, tx *gorm.DB) (snowflake.ID, error) {
	for attempt := 0; attempt < maxClaimAttempts; attempt++ {
		candidate, err := s.repo.LeastLoadedStaff(ctx, tx)
		if err != nil {
			return 0, err
		}
		if candidate == nil {
			return 0, taskdomain.ErrNoStaffAvailable
		}
		claimed, err := s.repo.ClaimStaff(ctx, tx, candidate.ID, candidate.ActiveTasks, s.clock.Now())
		if err != nil {
			return 0, err
		}
		if claimed {
			return candidate.ID, nil
		}
		s.log.Debug("staff claim lost, retrying", zap.String("staff_id", candidate.ID.String()), zap.Int("attempt", attempt+1))
	}
	return 0, taskdomain.ErrStaffClaimConflict
}

// createTx inserts the task after the application row is locked. An application
// holds at most one task that is not completed or verified.
func (s *Service) createTx(ctx context.Context, tx *gorm.DB, actor authdomain.Actor, appID snowflake.ID, staff *taskdomain.StaffMember, taskType string, duration int) (*taskdomain.Task, error) {
	app, err := s.appSvc.AdvanceTx(ctx, tx, actor, appID, appdomain.StatusMeterScheduled, "field task assigned")
	if err != nil {
		return nil, err
	}
	if appdomain.Reached(app.Status, appdomain.StatusInstalled) {
		return nil, taskdomain.ErrNotAssignable
	}
	active, err := s.repo.HasActiveTask(ctx, tx, app.ID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, taskdomain.ErrActiveTaskExists
	}
	staffID := staff.ID

	now := s.clock.Now()
	task := &taskdomain.Task{
		ID:                s.genID.Generate(),
		ApplicationID:     app.ID,
		StaffID:           staffID,
		TaskType:          taskType,
		Status:            taskdomain.TaskStatusAssigned,
		StatusRank:        taskdomain.TaskStatusAssigned.Rank(),
		LocationAddress:   app.ServiceAddress,
		EstimatedDuration: duration,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.repo.Insert(ctx, tx, task); err != nil {
		return nil, err
	}

	payload := map[string]any{
		"task_id":        task.ID.String(),
		"application_id": app.ID.String(),
		"staff_id":       staffID.String(),
		"task_type":      taskType,
		"address":        task.LocationAddress,
		"template":       "task_assigned",
	}
	if staff.Phone != nil {
		payload["recipient"] = *staff.Phone
	}
	if err := s.outbox.PublishTx(ctx, tx, events.Event{
		Type:          events.EventTaskAssigned,
		AggregateType: aggregateTask,
		AggregateID:   task.ID,
		Payload:       payload,
		DedupeKey:     events.DedupeKey(aggregateTask, task.ID, "status", string(task.Status)),
	}); err != nil {
		return nil, err
	}
	if err := s.auditSvc.AuditLogTx(ctx, tx, actor, "field_task.assigned", aggregateTask, task.ID.String(), map[string]any{
		"application_id": app.ID.String(),
		"staff_id":       staffID.String(),
	}); err != nil {
		return nil, err
	}

	s.metrics.IncTaskTransition(string(task.Status))
	s.log.Info("field task assigned",
		zap.String("task_id", task.ID.String()),
		zap.String("application_id", app.ID.String()),
		zap.String("staff_id", staffID.String()),
	)
	return task, nil
}

func (s *Service) Get(ctx context.Context, actor authdomain.Actor, id string) (*taskdomain.Task, error) {
	if err := s.authz.Authorize(ctx, actor, authorization.ObjectTask, authorization.ActionTaskRead); err != nil {
		return nil, err
	}
	task, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkAssignee(actor, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *Service) UpdateStatus(ctx context.Context, actor authdomain.Actor, req taskdomain.UpdateStatusRequest) (*taskdomain.Task, error) {
	target, ok := taskdomain.ParseTaskStatus(req.Status)
	if !ok {
		return nil, taskdomain.ErrInvalidStatus
	}
	return s.changeStatus(ctx, actor, req.TaskID, target, strings.TrimSpace(req.ProofPhotoURL), strings.TrimSpace(req.Notes))
}

func (s *Service) Complete(ctx context.Context, actor authdomain.Actor, req taskdomain.CompleteRequest) (*taskdomain.Task, error) {
	return s.changeStatus(ctx, actor, req.TaskID, taskdomain.TaskStatusCompleted, strings.TrimSpace(req.ProofPhotoURL), strings.TrimSpace(req.Notes))
}

func (s *Service) changeStatus(ctx context.Context, actor authdomain.Actor, id string, target taskdomain.TaskStatus, proof string, notes string) (*taskdomain.Task, error) {
	task, err := s.loadForUpdate(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if target == taskdomain.TaskStatusVerified && !actor.HasRole(authdomain.RoleAdmin, authdomain.RoleSystem) {
		return nil, authorization.ErrForbidden
	}
	if target == taskdomain.TaskStatusCompleted && proof == "" && (task.ProofPhotoURL == nil || *task.ProofPhotoURL == "") {
		return nil, taskdomain.ErrProofRequired
	}

	var updated *taskdomain.Task
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.repo.LockByID(ctx, tx, task.ID)
		if err != nil {
			return err
		}
		if current == nil {
			return taskdomain.ErrNotFound
		}
		if err := taskdomain.ValidateTransition(current.Status, target); err != nil {
			return err
		}

		if current.Status != target {
			if err := s.writeStatusTx(ctx, tx, actor, current, target, proof, notes); err != nil {
				return err
			}
		}

		if err := s.appSvc.OnTaskStatusChanged(ctx, tx, current.ApplicationID, current.ID, string(target)); err != nil {
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) writeStatusTx(ctx context.Context, tx *gorm.DB, actor authdomain.Actor, task *taskdomain.Task, target taskdomain.TaskStatus, proof string, notes string) error {
	from := task.Status
	now := s.clock.Now()
	fields := map[string]any{
		"status":      target,
		"status_rank": target.Rank(),
		"updated_at":  now,
	}
	if proof != "" {
		fields["proof_photo_url"] = proof
		task.ProofPhotoURL = &proof
	}
	if notes != "" {
		fields["notes"] = notes
		task.Notes = &notes
	}
	if target == taskdomain.TaskStatusCompleted {
		fields["completed_at"] = now
		task.CompletedAt = &now
	}
	if err := s.repo.Update(ctx, tx, task.ID, fields); err != nil {
		return err
	}
	if from.IsOpen() && !target.IsOpen() {
		if err := s.repo.AdjustActiveTasks(ctx, tx, task.StaffID, -1, now); err != nil {
			return err
		}
	}

	task.Status = target
	task.StatusRank = target.Rank()
	task.UpdatedAt = now

	if err := s.outbox.PublishTx(ctx, tx, events.Event{
		Type:          events.EventTaskStatusChanged,
		AggregateType: aggregateTask,
		AggregateID:   task.ID,
		Payload: map[string]any{
			"task_id":        task.ID.String(),
			"application_id": task.ApplicationID.String(),
			"staff_id":       task.StaffID.String(),
			"from_status":    string(from),
			"status":         string(target),
		},
		DedupeKey: events.DedupeKey(aggregateTask, task.ID, "status", string(target)),
	}); err != nil {
		return err
	}
	if err := s.auditSvc.AuditLogTx(ctx, tx, actor, "field_task.status_changed", aggregateTask, task.ID.String(), map[string]any{
		"from_status": string(from),
		"to_status":   string(target),
	}); err != nil {
		return err
	}

	s.metrics.IncTaskTransition(string(target))
	s.log.Info("field task status changed",
		zap.String("task_id", task.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(target)),
	)
	return nil
}

func (s *Service) UpdateLocation(ctx context.Context, actor authdomain.Actor, req taskdomain.UpdateLocationRequest) (*taskdomain.Task, error) {
	if req.Latitude == nil || req.Longitude == nil {
		return nil, taskdomain.ErrInvalidCoordinates
	}
	lat, lon := *req.Latitude, *req.Longitude
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, taskdomain.ErrInvalidCoordinates
	}

	task, err := s.loadForUpdate(ctx, actor, req.TaskID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	if err := s.repo.Update(ctx, s.db, task.ID, map[string]any{
		"latitude":   lat,
		"longitude":  lon,
		"updated_at": now,
	}); err != nil {
		return nil, err
	}
	task.Latitude = &lat
	task.Longitude = &lon
	task.UpdatedAt = now
	return task, nil
}

func (s *Service) AttachProof(ctx context.Context, actor authdomain.Actor, id string, proofPhotoURL string) (*taskdomain.Task, error) {
	proofPhotoURL = strings.TrimSpace(proofPhotoURL)
	if proofPhotoURL == "" {
		return nil, taskdomain.ErrProofRequired
	}
	task, err := s.loadForUpdate(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if task.Status == taskdomain.TaskStatusVerified {
		return nil, taskdomain.ErrInvalidTransition
	}

	now := s.clock.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Update(ctx, tx, task.ID, map[string]any{
			"proof_photo_url": proofPhotoURL,
			"updated_at":      now,
		}); err != nil {
			return err
		}
		return s.auditSvc.AuditLogTx(ctx, tx, actor, "field_task.proof_attached", aggregateTask, task.ID.String(), map[string]any{
			"proof_photo_url": proofPhotoURL,
		})
	})
	if err != nil {
		return nil, err
	}
	task.ProofPhotoURL = &proofPhotoURL
	task.UpdatedAt = now
	return task, nil
}

func (s *Service) ListForStaff(ctx context.Context, actor authdomain.Actor, staffID string) ([]taskdomain.Task, error) {
	if err := s.authz.Authorize(ctx, actor, authorization.ObjectTask, authorization.ActionTaskRead); err != nil {
		return nil, err
	}
	id := actor.ID
	if strings.TrimSpace(staffID) != "" {
		parsed, err := snowflake.ParseString(strings.TrimSpace(staffID))
		if err != nil {
			return nil, taskdomain.ErrInvalidStaff
		}
		id = parsed
	}
	if id == 0 {
		return nil, taskdomain.ErrInvalidStaff
	}
	if actor.Role == authdomain.RoleFieldStaff && id != actor.ID {
		return nil, authorization.ErrForbidden
	}

	items, err := s.repo.ListForStaff(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []taskdomain.Task{}
	}
	return items, nil
}

func (s *Service) ListPending(ctx context.Context, actor authdomain.Actor) ([]taskdomain.Task, error) {
	if err := s.authz.Authorize(ctx, actor, authorization.ObjectTask, authorization.ActionTaskMonitor); err != nil {
		return nil, err
	}
	items, err := s.repo.ListPending(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []taskdomain.Task{}
	}
	return items, nil
}

func (s *Service) Stats(ctx context.Context) (taskdomain.Stats, error) {
	return s.repo.Stats(ctx, s.db)
}

func (s *Service) StaffMetrics(ctx context.Context, actor authdomain.Actor, staffID string, days int) (taskdomain.StaffMetrics, error) {
	if err := s.authz.Authorize(ctx, actor, authorization.ObjectTask, authorization.ActionTaskMonitor); err != nil {
		return taskdomain.StaffMetrics{}, err
	}
	id, err := snowflake.ParseString(strings.TrimSpace(staffID))
	if err != nil || id == 0 {
		return taskdomain.StaffMetrics{}, taskdomain.ErrInvalidStaff
	}
	if days == 0 {
		days = taskdomain.DefaultMetricsWindowDays
	}
	if days < 0 || days > maxMetricsDays {
		return taskdomain.StaffMetrics{}, taskdomain.ErrInvalidDays
	}

	since := s.clock.Now().AddDate(0, 0, -days)
	tasks, err := s.repo.ListStaffSince(ctx, s.db, id, since)
	if err != nil {
		return taskdomain.StaffMetrics{}, err
	}

	result := taskdomain.StaffMetrics{StaffID: id, Days: days, Total: int64(len(tasks))}
	var hours float64
	var timed int
	for _, task := range tasks {
		switch task.Status {
		case taskdomain.TaskStatusCompleted, taskdomain.TaskStatusVerified:
			result.Completed++
			if task.CompletedAt != nil {
				hours += task.CompletedAt.Sub(task.CreatedAt).Hours()
				timed++
			}
		case taskdomain.TaskStatusOnTheWay, taskdomain.TaskStatusInProgress:
			result.InProgress++
		default:
			result.Pending++
		}
	}
	if timed > 0 {
		result.AverageCompletionHours = math.Round(hours/float64(timed)*100) / 100
	}
	return result, nil
}

func (s *Service) RegisterStaff(ctx context.Context, actor authdomain.Actor, req taskdomain.RegisterStaffRequest) (*taskdomain.StaffMember, error) {
	if err := s.authz.Authorize(ctx, actor, authorization.ObjectTask, authorization.ActionTaskAssign); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, taskdomain.ErrInvalidStaffName
	}
	id := s.genID.Generate()
	if strings.TrimSpace(req.ID) != "" {
		parsed, err := snowflake.ParseString(strings.TrimSpace(req.ID))
		if err != nil || parsed == 0 {
			return nil, taskdomain.ErrInvalidStaff
		}
		id = parsed
	}

	now := s.clock.Now()
	staff := &taskdomain.StaffMember{
		ID:        id,
		Name:      name,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		staff.Phone = &phone
	}
	if err := s.repo.InsertStaff(ctx, s.db, staff); err != nil {
		return nil, err
	}
	stored, err := s.staffStore.FindByID(ctx, staff.ID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, taskdomain.ErrStaffNotFound
	}
	return stored, nil
}

func (s *Service) ListStaff(ctx context.Context, actor authdomain.Actor) ([]taskdomain.StaffMember, error) {
	if err := s.authz.Authorize(ctx, actor, authorization.ObjectTask, authorization.ActionTaskMonitor); err != nil {
		return nil, err
	}
	items, err := s.staffStore.Find(ctx, nil, option.WithSortBy(option.QuerySortBy{
		Default: "active_tasks",
	}))
	if err != nil {
		return nil, err
	}
	out := make([]taskdomain.StaffMember, 0, len(items))
	for _, item := range items {
		out = append(out, *item)
	}
	return out, nil
}

func (s *Service) load(ctx context.Context, id string) (*taskdomain.Task, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, taskdomain.ErrNotFound
	}
	task, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, taskdomain.ErrNotFound
	}
	return task, nil
}

func (s *Service) loadForUpdate(ctx context.Context, actor authdomain.Actor, id string) (*taskdomain.Task, error) {
	task, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ObjectTask, authorization.ActionTaskUpdate); err != nil {
		return nil, err
	}
	if err := checkAssignee(actor, task); err != nil {
		return nil, err
	}
	return task, nil
}

// checkAssignee restricts field staff to their own tasks.
func checkAssignee(actor authdomain.Actor, task *taskdomain.Task) error {
	if actor.Role == authdomain.RoleFieldStaff && actor.ID != task.StaffID {
		return taskdomain.ErrNotAssignee
	}
	return nil
}

func parseApplicationID(value string) (snowflake.ID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, taskdomain.ErrInvalidApplication
	}
	id, err := snowflake.ParseString(value)
	if err != nil {
		return 0, appdomain.ErrNotFound
	}
	return id, nil
}

func normalizeWork(req taskdomain.AssignRequest) (string, int, error) {
	taskType := strings.TrimSpace(req.TaskType)
	if taskType == "" {
		taskType = taskdomain.DefaultTaskType
	}
	duration := req.EstimatedDuration
	if duration < 0 {
		return "", 0, taskdomain.ErrInvalidDuration
	}
	if duration == 0 {
		duration = taskdomain.DefaultEstimatedDuration
	}
	return taskType, duration, nil
}
