package repository

import (
	"context"
	"errors"

	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/pkg/db/option"
	"gorm.io/gorm"
)

// Repository is a thin generic store over a single gorm model.
type Repository[T any] interface {
	Create(ctx context.Context, record *T) error
	FindByID(ctx context.Context, id any) (*T, error)
	Find(ctx context.Context, filter *T, opts ...option.QueryOption) ([]*T, error)
	Count(ctx context.Context, filter *T, opts ...option.QueryOption) (int64, error)
	WithTx(tx *gorm.DB) Repository[T]
}

type store[T any] struct {
	db *gorm.DB
}

func ProvideStore[T any](db *gorm.DB) Repository[T] {
	return &store[T]{db: db}
}

func (s *store[T]) WithTx(tx *gorm.DB) Repository[T] {
	if tx == nil {
		return s
	}
	return &store[T]{db: tx}
}

func (s *store[T]) Create(ctx context.Context, record *T) error {
	return s.db.WithContext(ctx).Create(record).Error
}

// FindByID returns nil without error when no row matches.
func (s *store[T]) FindByID(ctx context.Context, id any) (*T, error) {
	var record T
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (s *store[T]) Find(ctx context.Context, filter *T, opts ...option.QueryOption) ([]*T, error) {
	query := s.scoped(ctx, filter, opts...)
	var records []*T
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (s *store[T]) Count(ctx context.Context, filter *T, opts ...option.QueryOption) (int64, error) {
	var model T
	query := s.scoped(ctx, filter, opts...).Model(&model)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (s *store[T]) scoped(ctx context.Context, filter *T, opts ...option.QueryOption) *gorm.DB {
	query := s.db.WithContext(ctx)
	if filter != nil {
		query = query.Where(filter)
	}
	for _, opt := range opts {
		if opt != nil {
			query = opt(query)
		}
	}
	return query
}
