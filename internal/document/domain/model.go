package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
	StatusFlagged  Status = "flagged"
)

// Document is a supporting file uploaded for an application.
type Document struct {
	ID            snowflake.ID      `json:"id" gorm:"primaryKey"`
	ApplicationID snowflake.ID      `json:"application_id" gorm:"not null;index"`
	DocumentType  string            `json:"document_type" gorm:"type:text;not null"`
	FileURL       string            `json:"file_url" gorm:"type:text;not null"`
	Status        Status            `json:"status" gorm:"type:text;not null"`
	Confidence    *float64          `json:"confidence,omitempty"`
	Result        datatypes.JSONMap `json:"result,omitempty" gorm:"type:jsonb;not null;default:'{}'"`
	VerifiedAt    *time.Time        `json:"verified_at,omitempty"`
	CreatedAt     time.Time         `json:"created_at" gorm:"not null"`
	UpdatedAt     time.Time         `json:"updated_at" gorm:"not null"`
}

// TableName sets the database table name.
func (Document) TableName() string { return "documents" }
