package domain

import (
	"context"
	"errors"

	authdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/auth/domain"
	"gorm.io/gorm"
)

type Service interface {
	AuditLog(ctx context.Context, actor authdomain.Actor, action string, targetType string, targetID string, metadata map[string]any) error
	// AuditLogTx writes the entry inside an existing transaction.
	AuditLogTx(ctx context.Context, tx *gorm.DB, actor authdomain.Actor, action string, targetType string, targetID string, metadata map[string]any) error
	List(ctx context.Context, filter ListFilter) ([]*AuditLog, error)
}

var (
	ErrInvalidAction     = errors.New("invalid_audit_action")
	ErrInvalidTargetType = errors.New("invalid_audit_target_type")
)
