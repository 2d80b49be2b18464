package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, attempt *Attempt) error
	FindByReference(ctx context.Context, db *gorm.DB, reference string) (*Attempt, error)
	// UpdateStatus only moves attempts that are still pending.
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status AttemptStatus, now time.Time) (bool, error)
}
