package service

import (
	"context"
	"strings"

	auditdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/audit/domain"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/auditcontext"
	authdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/auth/domain"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/clock"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/observability/logger"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  auditdomain.Repository
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  auditdomain.Repository
	clock clock.Clock
}

func NewService(p Params) auditdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,
		repo:  p.Repo,
		clock: p.Clock,
	}
}

func (s *Service) AuditLog(ctx context.Context, actor authdomain.Actor, action string, targetType string, targetID string, metadata map[string]any) error {
	return s.AuditLogTx(ctx, s.db, actor, action, targetType, targetID, metadata)
}

func (s *Service) AuditLogTx(ctx context.Context, tx *gorm.DB, actor authdomain.Actor, action string, targetType string, targetID string, metadata map[string]any) error {
	action = strings.TrimSpace(action)
	if action == "" {
		return auditdomain.ErrInvalidAction
	}
	targetType = strings.TrimSpace(targetType)
	if targetType == "" {
		return auditdomain.ErrInvalidTargetType
	}

	entry := &auditdomain.AuditLog{
		ID:         s.genID.Generate(),
		ActorType:  string(actor.Role),
		ActorID:    optionalString(actor.IDString()),
		Action:     action,
		TargetType: targetType,
		TargetID:   optionalString(targetID),
		Metadata:   datatypes.JSONMap{},
		RequestID:  optionalString(auditcontext.RequestIDFromContext(ctx)),
		IPAddress:  optionalString(auditcontext.IPAddressFromContext(ctx)),
		UserAgent:  optionalString(auditcontext.UserAgentFromContext(ctx)),
		CreatedAt:  s.clock.Now(),
	}
	if entry.ActorType == "" {
		if actorType, _ := auditcontext.ActorFromContext(ctx); actorType != "" {
			entry.ActorType = actorType
		} else {
			entry.ActorType = string(authdomain.RoleSystem)
		}
	}
	for key, value := range metadata {
		if strings.TrimSpace(key) == "" {
			continue
		}
		entry.Metadata[key] = value
	}

	if err := s.repo.Insert(ctx, tx, entry); err != nil {
		logger.FromContext(ctx).Error("audit insert failed", zap.String("action", action), zap.Error(err))
		return err
	}
	return nil
}

func (s *Service) List(ctx context.Context, filter auditdomain.ListFilter) ([]*auditdomain.AuditLog, error) {
	return s.repo.List(ctx, s.db, filter)
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
