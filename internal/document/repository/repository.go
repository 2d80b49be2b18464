package repository

import (
	"context"
	"errors"

	documentdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/document/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() documentdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, doc *documentdomain.Document) error {
	return db.WithContext(ctx).Create(doc).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*documentdomain.Document, error) {
	var doc documentdomain.Document
	err := db.WithContext(ctx).Where("id = ?", id).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, doc *documentdomain.Document) error {
	return db.WithContext(ctx).
		Model(&documentdomain.Document{}).
		Where("id = ?", doc.ID).
		Updates(map[string]any{
			"status":      doc.Status,
			"confidence":  doc.Confidence,
			"result":      doc.Result,
			"verified_at": doc.VerifiedAt,
			"updated_at":  doc.UpdatedAt,
		}).Error
}

func (r *repo) ListByApplication(ctx context.Context, db *gorm.DB, applicationID snowflake.ID) ([]documentdomain.Document, error) {
	var items []documentdomain.Document
	err := db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
