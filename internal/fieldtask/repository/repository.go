package repository

import (
	"context"
	"errors"
	"time"

	taskdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/fieldtask/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() taskdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, task *taskdomain.Task) error {
	return db.WithContext(ctx).Create(task).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*taskdomain.Task, error) {
	var task taskdomain.Task
	err := db.WithContext(ctx).Where("id = ?", id).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

func (r *repo) LockByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*taskdomain.Task, error) {
	var task taskdomain.Task
	err := db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

func (r *repo) HasActiveTask(ctx context.Context, db *gorm.DB, applicationID snowflake.ID) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&taskdomain.Task{}).
		Where("application_id = ? AND status NOT IN ?", applicationID, []taskdomain.TaskStatus{
			taskdomain.TaskStatusCompleted,
			taskdomain.TaskStatusVerified,
		}).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return db.WithContext(ctx).
		Model(&taskdomain.Task{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *repo) ListForStaff(ctx context.Context, db *gorm.DB, staffID snowflake.ID) ([]taskdomain.Task, error) {
	var items []taskdomain.Task
	err := db.WithContext(ctx).
		Where("staff_id = ?", staffID).
		Order("status_rank ASC").
		Order("created_at ASC").
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListPending(ctx context.Context, db *gorm.DB) ([]taskdomain.Task, error) {
	var items []taskdomain.Task
	err := db.WithContext(ctx).
		Where("status IN ?", []taskdomain.TaskStatus{taskdomain.TaskStatusAssigned, taskdomain.TaskStatusAccepted}).
		Order("created_at ASC").
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListStaffSince(ctx context.Context, db *gorm.DB, staffID snowflake.ID, since time.Time) ([]taskdomain.Task, error) {
	var items []taskdomain.Task
	err := db.WithContext(ctx).
		Where("staff_id = ? AND created_at >= ?", staffID, since).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Stats(ctx context.Context, db *gorm.DB) (taskdomain.Stats, error) {
	var row struct {
		Total       int64
		Completed   int64
		Pending     int64
		InProgress  int64
		AvgDuration float64
	}
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) AS total,
		        COALESCE(SUM(CASE WHEN status IN (?, ?) THEN 1 ELSE 0 END), 0) AS completed,
		        COALESCE(SUM(CASE WHEN status IN (?, ?) THEN 1 ELSE 0 END), 0) AS pending,
		        COALESCE(SUM(CASE WHEN status IN (?, ?) THEN 1 ELSE 0 END), 0) AS in_progress,
		        COALESCE(AVG(estimated_duration), 0) AS avg_duration
		 FROM field_tasks`,
		taskdomain.TaskStatusCompleted, taskdomain.TaskStatusVerified,
		taskdomain.TaskStatusAssigned, taskdomain.TaskStatusAccepted,
		taskdomain.TaskStatusOnTheWay, taskdomain.TaskStatusInProgress,
	).Scan(&row).Error
	if err != nil {
		return taskdomain.Stats{}, err
	}
	return taskdomain.Stats{
		Total:                    row.Total,
		Completed:                row.Completed,
		Pending:                  row.Pending,
		InProgress:               row.InProgress,
		AverageEstimatedDuration: row.AvgDuration,
	}, nil
}

func (r *repo) InsertStaff(ctx context.Context, db *gorm.DB, staff *taskdomain.StaffMember) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(staff).Error
}

func (r *repo) LeastLoadedStaff(ctx context.Context, db *gorm.DB) (*taskdomain.StaffMember, error) {
	var staff taskdomain.StaffMember
	err := db.WithContext(ctx).
		Where("active = ?", true).
		Order("active_tasks ASC").
		Order("id ASC").
		First(&staff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &staff, nil
}

func (r *repo) ClaimStaff(ctx context.Context, db *gorm.DB, id snowflake.ID, expected int, now time.Time) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE staff_members
		 SET active_tasks = active_tasks + 1, updated_at = ?
		 WHERE id = ? AND active = ? AND active_tasks = ?`,
		now,
		id,
		true,
		expected,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *repo) AdjustActiveTasks(ctx context.Context, db *gorm.DB, id snowflake.ID, delta int, now time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE staff_members
		 SET active_tasks = CASE WHEN active_tasks + ? < 0 THEN 0 ELSE active_tasks + ? END,
		     updated_at = ?
		 WHERE id = ?`,
		delta,
		delta,
		now,
		id,
	).Error
}
