package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// ExpectedCompletionLeadDays is added to the submission date to derive the expected completion date.
const ExpectedCompletionLeadDays = 10

type Status string

const (
	StatusSubmitted      Status = "submitted"
	StatusVerified       Status = "verified"
	StatusApproved       Status = "approved"
	StatusMeterScheduled Status = "meter_scheduled"
	StatusInstalled      Status = "installed"
	StatusConnected      Status = "connected"
	StatusRejected       Status = "rejected"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []Status{
	StatusSubmitted,
	StatusVerified,
	StatusApproved,
	StatusMeterScheduled,
	StatusInstalled,
	StatusConnected,
	StatusRejected,
}

type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Application is a customer's request for a new electricity connection.
type Application struct {
	ID                     snowflake.ID      `json:"id" gorm:"primaryKey"`
	CustomerID             snowflake.ID      `json:"customer_id" gorm:"not null;index"`
	ConnectionType         string            `json:"connection_type" gorm:"type:text;not null"`
	ConnectionLoad         string            `json:"connection_load" gorm:"type:text;not null"`
	ServiceAddress         string            `json:"service_address" gorm:"type:text;not null"`
	City                   string            `json:"city" gorm:"type:text;not null"`
	PostalCode             *string           `json:"postal_code,omitempty" gorm:"type:text"`
	ContactNumber          *string           `json:"contact_number,omitempty" gorm:"type:text"`
	Status                 Status            `json:"status" gorm:"type:text;not null;index"`
	Priority               Priority          `json:"priority" gorm:"type:text;not null;default:'normal'"`
	ExpectedCompletionDate time.Time         `json:"expected_completion_date" gorm:"not null;index"`
	MeterNumber            *string           `json:"meter_number,omitempty" gorm:"type:text"`
	RejectionReason        *string           `json:"rejection_reason,omitempty" gorm:"type:text"`
	Metadata               datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb;not null;default:'{}'"`
	CreatedAt              time.Time         `json:"created_at" gorm:"not null;index"`
	UpdatedAt              time.Time         `json:"updated_at" gorm:"not null"`
}

// TableName sets the database table name.
func (Application) TableName() string { return "applications" }

// StatusHistory records one status change of an application.
type StatusHistory struct {
	ID            snowflake.ID `json:"id" gorm:"primaryKey"`
	ApplicationID snowflake.ID `json:"application_id" gorm:"not null;index"`
	FromStatus    Status       `json:"from_status" gorm:"type:text;not null"`
	ToStatus      Status       `json:"to_status" gorm:"type:text;not null"`
	ActorType     string       `json:"actor_type" gorm:"type:text;not null"`
	ActorID       *string      `json:"actor_id,omitempty" gorm:"type:text"`
	Reason        *string      `json:"reason,omitempty" gorm:"type:text"`
	CreatedAt     time.Time    `json:"created_at" gorm:"not null"`
}

// TableName sets the database table name.
func (StatusHistory) TableName() string { return "application_status_history" }

// StatusCount is one row of a status aggregation.
type StatusCount struct {
	Status Status `json:"status"`
	Count  int64  `json:"count"`
}
