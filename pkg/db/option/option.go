package option

import (
	"strings"

	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/pkg/db/pagination"
	"gorm.io/gorm"
)

// QueryOption mutates a query before it is executed.
type QueryOption func(*gorm.DB) *gorm.DB

func ApplyPagination(p pagination.Pagination) QueryOption {
	p = p.Normalize()
	return func(db *gorm.DB) *gorm.DB {
		return db.Limit(p.Limit).Offset(p.Offset())
	}
}

// QuerySortBy orders by Field when it is allowed, falling back to Default.
type QuerySortBy struct {
	Field   string
	Desc    bool
	Default string
	Allow   map[string]bool
}

func WithSortBy(sort QuerySortBy) QueryOption {
	return func(db *gorm.DB) *gorm.DB {
		field := strings.TrimSpace(sort.Field)
		if field == "" || !sort.Allow[field] {
			field = sort.Default
		}
		if field == "" {
			return db
		}
		if sort.Desc {
			return db.Order(field + " DESC").Order("id DESC")
		}
		return db.Order(field + " ASC").Order("id ASC")
	}
}

func WithWhere(query string, args ...any) QueryOption {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(query, args...)
	}
}
