package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, doc *Document) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Document, error)
	Update(ctx context.Context, db *gorm.DB, doc *Document) error
	ListByApplication(ctx context.Context, db *gorm.DB, applicationID snowflake.ID) ([]Document, error)
}
