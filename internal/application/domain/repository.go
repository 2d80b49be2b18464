package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListFilter struct {
	Status      Status
	Priority    Priority
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Offset      int
	Limit       int
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, app *Application) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Application, error)
	// LockByID reads the row with a row lock where the dialect supports it.
	LockByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Application, error)
	// UpdateStatus applies the change only when the row is still in the from status.
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, from Status, to Status, fields map[string]any, now time.Time) (bool, error)
	InsertHistory(ctx context.Context, db *gorm.DB, entry *StatusHistory) error
	ListHistory(ctx context.Context, db *gorm.DB, id snowflake.ID) ([]StatusHistory, error)
	ListByCustomer(ctx context.Context, db *gorm.DB, customerID snowflake.ID) ([]Application, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Application, int64, error)
	CountByStatus(ctx context.Context, db *gorm.DB) ([]StatusCount, error)
	CountDelayed(ctx context.Context, db *gorm.DB, asOf time.Time) (int64, error)
}
