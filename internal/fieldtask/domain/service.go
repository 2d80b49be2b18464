package domain

import (
	"context"
	"errors"

	authdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/auth/domain"
)

type Service interface {
	Assign(ctx context.Context, actor authdomain.Actor, req AssignRequest) (*Task, error)
	// AutoAssign claims the least-loaded active staff member atomically.
	AutoAssign(ctx context.Context, actor authdomain.Actor, req AssignRequest) (*Task, error)
	Get(ctx context.Context, actor authdomain.Actor, id string) (*Task, error)
	UpdateStatus(ctx context.Context, actor authdomain.Actor, req UpdateStatusRequest) (*Task, error)
	UpdateLocation(ctx context.Context, actor authdomain.Actor, req UpdateLocationRequest) (*Task, error)
	AttachProof(ctx context.Context, actor authdomain.Actor, id string, proofPhotoURL string) (*Task, error)
	Complete(ctx context.Context, actor authdomain.Actor, req CompleteRequest) (*Task, error)
	ListForStaff(ctx context.Context, actor authdomain.Actor, staffID string) ([]Task, error)
	ListPending(ctx context.Context, actor authdomain.Actor) ([]Task, error)
	Stats(ctx context.Context) (Stats, error)
	StaffMetrics(ctx context.Context, actor authdomain.Actor, staffID string, days int) (StaffMetrics, error)

	RegisterStaff(ctx context.Context, actor authdomain.Actor, req RegisterStaffRequest) (*StaffMember, error)
	ListStaff(ctx context.Context, actor authdomain.Actor) ([]StaffMember, error)
}

type AssignRequest struct {
	ApplicationID     string `json:"-"`
	StaffID           string `json:"staff_id"`
	TaskType          string `json:"task_type"`
	EstimatedDuration int    `json:"estimated_duration"`
}

type UpdateStatusRequest struct {
	TaskID        string `json:"-"`
	Status        string `json:"status"`
	ProofPhotoURL string `json:"proof_photo_url"`
	Notes         string `json:"notes"`
}

type UpdateLocationRequest struct {
	TaskID    string   `json:"-"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type CompleteRequest struct {
	TaskID        string `json:"-"`
	Notes         string `json:"notes"`
	ProofPhotoURL string `json:"proof_photo_url"`
}

type RegisterStaffRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

var (
	ErrInvalidStaff       = errors.New("staff_id_required")
	ErrInvalidStaffName   = errors.New("staff_name_required")
	ErrInvalidApplication = errors.New("application_id_required")
	ErrInvalidStatus      = errors.New("invalid_task_status")
	ErrInvalidTransition  = errors.New("invalid_task_transition")
	ErrInvalidDuration    = errors.New("invalid_estimated_duration")
	ErrInvalidCoordinates = errors.New("coordinates_required")
	ErrInvalidDays        = errors.New("invalid_days")
	ErrProofRequired      = errors.New("proof_required")
	ErrNotAssignee        = errors.New("task_not_assigned_to_actor")
	ErrNoStaffAvailable   = errors.New("no_staff_available")
	ErrStaffClaimConflict = errors.New("staff_claim_conflict")
	ErrNotFound           = errors.New("task_not_found")
	ErrStaffNotFound      = errors.New("staff_not_found")
	ErrActiveTaskExists   = errors.New("active_task_exists")
	ErrNotAssignable      = errors.New("application_not_assignable")
)
