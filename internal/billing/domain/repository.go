package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, bill *Bill) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Bill, error)
	LockByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Bill, error)
	ListByApplication(ctx context.Context, db *gorm.DB, applicationID snowflake.ID) ([]Bill, error)
	// MarkPaid only updates bills that are not yet paid.
	MarkPaid(ctx context.Context, db *gorm.DB, id snowflake.ID, paidDate time.Time, reference *string, now time.Time) (bool, error)
	// AddLateFee only updates bills that are not yet paid.
	AddLateFee(ctx context.Context, db *gorm.DB, id snowflake.ID, fee decimal.Decimal, now time.Time) (bool, error)
	SummaryByStatus(ctx context.Context, db *gorm.DB, start *time.Time, end *time.Time) ([]StatusTotal, error)
}
