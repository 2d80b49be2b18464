package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type AttemptStatus string

const (
	AttemptStatusPending   AttemptStatus = "pending"
	AttemptStatusCompleted AttemptStatus = "completed"
	AttemptStatusFailed    AttemptStatus = "failed"
)

// Attempt is one checkout started against a bill.
type Attempt struct {
	ID            snowflake.ID    `json:"id" gorm:"primaryKey"`
	BillID        snowflake.ID    `json:"bill_id" gorm:"not null;index"`
	ApplicationID snowflake.ID    `json:"application_id" gorm:"not null"`
	Provider      string          `json:"provider" gorm:"type:text;not null"`
	Reference     string          `json:"reference" gorm:"type:text;not null;uniqueIndex:ux_payment_attempts_reference"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:numeric(14,2);not null"`
	Status        AttemptStatus   `json:"status" gorm:"type:text;not null"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at" gorm:"not null"`
	UpdatedAt     time.Time       `json:"updated_at" gorm:"not null"`
}

// TableName sets the database table name.
func (Attempt) TableName() string { return "payment_attempts" }
