package authorization

import (
	"context"
	"strings"

	authdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/auth/domain"
	"github.com/casbin/casbin/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service interface {
	Authorize(ctx context.Context, actor authdomain.Actor, object string, action string) error
}

type Params struct {
	fx.In

	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
}

type ServiceImpl struct {
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
}

func NewService(p Params) Service {
	return &ServiceImpl{
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, actor authdomain.Actor, object string, action string) error {
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}
	if actor.Role == authdomain.RoleSystem {
		return nil
	}
	if actor.Role == "" {
		return ErrInvalidActor
	}
	if s.enforcer == nil {
		return ErrForbidden
	}

	allowed, err := s.enforcer.Enforce(string(actor.Role), object, action)
	if err != nil {
		s.log.Warn("policy evaluation failed", zap.String("role", string(actor.Role)), zap.String("object", object), zap.String("action", action), zap.Error(err))
		return ErrForbidden
	}
	if !allowed {
		return ErrForbidden
	}
	return nil
}
