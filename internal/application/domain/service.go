package domain

import (
	"context"
	"errors"
	"time"

	authdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/auth/domain"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Service interface {
	Submit(ctx context.Context, actor authdomain.Actor, req SubmitRequest) (*Application, error)
	Get(ctx context.Context, actor authdomain.Actor, id string) (*Application, error)
	ListMine(ctx context.Context, actor authdomain.Actor) ([]Application, error)
	List(ctx context.Context, actor authdomain.Actor, req ListRequest) (ListResponse, error)
	History(ctx context.Context, actor authdomain.Actor, id string) ([]StatusHistory, error)

	TransitionStatus(ctx context.Context, actor authdomain.Actor, req TransitionRequest) (*Application, error)
	Approve(ctx context.Context, actor authdomain.Actor, id string, priority string) (*Application, error)
	Reject(ctx context.Context, actor authdomain.Actor, id string, reason string) (*Application, error)
	Activate(ctx context.Context, actor authdomain.Actor, id string, meterNumber string) (*Application, error)

	// GetByID loads an application without an authorization check.
	GetByID(ctx context.Context, id snowflake.ID) (*Application, error)
	GetByIDTx(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*Application, error)
	// AdvanceTx moves the application along field-work statuses inside tx.
	// Reaching a status the application already holds or has passed is a no-op.
	AdvanceTx(ctx context.Context, tx *gorm.DB, actor authdomain.Actor, id snowflake.ID, target Status, reason string) (*Application, error)
	// OnTaskStatusChanged maps a field task status onto the application lifecycle.
	OnTaskStatusChanged(ctx context.Context, tx *gorm.DB, id snowflake.ID, taskID snowflake.ID, taskStatus string) error

	CountByStatus(ctx context.Context) (StatusCounts, error)
	CountDelayed(ctx context.Context) (int64, error)
}

type SubmitRequest struct {
	ConnectionType string         `json:"connection_type"`
	ConnectionLoad string         `json:"connection_load"`
	ServiceAddress string         `json:"service_address"`
	City           string         `json:"city"`
	PostalCode     string         `json:"postal_code"`
	ContactNumber  string         `json:"contact_number"`
	Priority       string         `json:"priority"`
	Metadata       map[string]any `json:"metadata"`
}

type ListRequest struct {
	Status      string
	Priority    string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	pagination.Pagination
}

type ListResponse struct {
	Items []Application `json:"items"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
	Total int64         `json:"total"`
}

type TransitionRequest struct {
	ID          string `json:"-"`
	Status      string `json:"status"`
	Reason      string `json:"reason"`
	MeterNumber string `json:"meter_number"`
}

// StatusCounts holds per-status counts whose sum equals Total.
type StatusCounts struct {
	Total    int64            `json:"total"`
	ByStatus map[Status]int64 `json:"by_status"`
}

var (
	ErrInvalidConnectionType = errors.New("connection_type_required")
	ErrInvalidConnectionLoad = errors.New("connection_load_required")
	ErrInvalidServiceAddress = errors.New("service_address_required")
	ErrInvalidCity           = errors.New("city_required")
	ErrInvalidStatus         = errors.New("invalid_status")
	ErrInvalidPriority       = errors.New("invalid_priority")
	ErrInvalidMeterNumber    = errors.New("meter_number_required")
	ErrInvalidDateRange      = errors.New("invalid_date_range")
	ErrInvalidTransition     = errors.New("invalid_status_transition")
	ErrConcurrentUpdate      = errors.New("application_concurrent_update")
	ErrNotFound              = errors.New("application_not_found")
)
