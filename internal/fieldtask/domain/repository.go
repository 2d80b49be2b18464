package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, task *Task) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Task, error)
	LockByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Task, error)
	Update(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) error
	ListForStaff(ctx context.Context, db *gorm.DB, staffID snowflake.ID) ([]Task, error)
	ListPending(ctx context.Context, db *gorm.DB) ([]Task, error)
	ListStaffSince(ctx context.Context, db *gorm.DB, staffID snowflake.ID, since time.Time) ([]Task, error)
	Stats(ctx context.Context, db *gorm.DB) (Stats, error)
	// HasActiveTask reports whether the application has a task not yet completed or verified.
	HasActiveTask(ctx context.Context, db *gorm.DB, applicationID snowflake.ID) (bool, error)

	InsertStaff(ctx context.Context, db *gorm.DB, staff *StaffMember) error
	// LeastLoadedStaff returns the active staff member with the fewest open tasks.
	LeastLoadedStaff(ctx context.Context, db *gorm.DB) (*StaffMember, error)
	// ClaimStaff increments active_tasks only if it still equals expected.
	ClaimStaff(ctx context.Context, db *gorm.DB, id snowflake.ID, expected int, now time.Time) (bool, error)
	AdjustActiveTasks(ctx context.Context, db *gorm.DB, id snowflake.ID, delta int, now time.Time) error
}
