package repository

import (
	"context"
	"errors"
	"time"

	paymentdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/payment/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() paymentdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, attempt *paymentdomain.Attempt) error {
	return db.WithContext(ctx).Create(attempt).Error
}

func (r *repo) FindByReference(ctx context.Context, db *gorm.DB, reference string) (*paymentdomain.Attempt, error) {
	var attempt paymentdomain.Attempt
	err := db.WithContext(ctx).Where("reference = ?", reference).First(&attempt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &attempt, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status paymentdomain.AttemptStatus, now time.Time) (bool, error) {
	updates := map[string]any{
		"status":     status,
		"updated_at": now,
	}
	if status == paymentdomain.AttemptStatusCompleted {
		updates["completed_at"] = now
	}
	result := db.WithContext(ctx).
		Model(&paymentdomain.Attempt{}).
		Where("id = ? AND status = ?", id, paymentdomain.AttemptStatusPending).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
