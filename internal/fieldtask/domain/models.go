package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	DefaultTaskType          = "meter_installation"
	DefaultEstimatedDuration = 120
	DefaultMetricsWindowDays = 30
)

// Task is a unit of field work tied to one application.
type Task struct {
	ID                snowflake.ID `json:"id" gorm:"primaryKey"`
	ApplicationID     snowflake.ID `json:"application_id" gorm:"not null;index"`
	StaffID           snowflake.ID `json:"staff_id" gorm:"not null;index"`
	TaskType          string       `json:"task_type" gorm:"type:text;not null"`
	Status            TaskStatus   `json:"status" gorm:"type:text;not null;index"`
	StatusRank        int          `json:"status_rank" gorm:"not null"`
	LocationAddress   string       `json:"location_address" gorm:"type:text;not null"`
	Latitude          *float64     `json:"latitude,omitempty"`
	Longitude         *float64     `json:"longitude,omitempty"`
	EstimatedDuration int          `json:"estimated_duration" gorm:"not null"`
	ProofPhotoURL     *string      `json:"proof_photo_url,omitempty" gorm:"type:text"`
	Notes             *string      `json:"notes,omitempty" gorm:"type:text"`
	CompletedAt       *time.Time   `json:"completed_at,omitempty"`
	CreatedAt         time.Time    `json:"created_at" gorm:"not null;index"`
	UpdatedAt         time.Time    `json:"updated_at" gorm:"not null"`
}

// TableName sets the database table name.
func (Task) TableName() string { return "field_tasks" }

// StaffMember is a field technician eligible for assignment.
type StaffMember struct {
	ID          snowflake.ID `json:"id" gorm:"primaryKey"`
	Name        string       `json:"name" gorm:"type:text;not null"`
	Phone       *string      `json:"phone,omitempty" gorm:"type:text"`
	Active      bool         `json:"active" gorm:"not null;default:true;index"`
	ActiveTasks int          `json:"active_tasks" gorm:"not null;default:0"`
	CreatedAt   time.Time    `json:"created_at" gorm:"not null"`
	UpdatedAt   time.Time    `json:"updated_at" gorm:"not null"`
}

// TableName sets the database table name.
func (StaffMember) TableName() string { return "staff_members" }

type Stats struct {
	Total                    int64   `json:"total"`
	Completed                int64   `json:"completed"`
	Pending                  int64   `json:"pending"`
	InProgress               int64   `json:"in_progress"`
	AverageEstimatedDuration float64 `json:"average_estimated_duration"`
}

type StaffMetrics struct {
	StaffID                snowflake.ID `json:"staff_id"`
	Days                   int          `json:"days"`
	Total                  int64        `json:"total"`
	Completed              int64        `json:"completed"`
	InProgress             int64        `json:"in_progress"`
	Pending                int64        `json:"pending"`
	AverageCompletionHours float64      `json:"average_completion_hours"`
}
