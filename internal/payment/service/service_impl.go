package service

import (
	"context"
	"strings"

	appdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/application/domain"
	auditdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/audit/domain"
	authdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/auth/domain"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/authorization"
	billingdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/billing/domain"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/clock"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/config"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/payment/adapters"
	paymentdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/payment/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const aggregatePayment = "payment_attempt"

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       paymentdomain.Repository
	BillingSvc billingdomain.Service
	AppSvc     appdomain.Service
	Authz      authorization.Service
	AuditSvc   auditdomain.Service
	Adapters   *adapters.Registry
	Cfg        config.Config
	Clock      clock.Clock
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       paymentdomain.Repository
	billingSvc billingdomain.Service
	appSvc     appdomain.Service
	authz      authorization.Service
	auditSvc   auditdomain.Service
	adapters   *adapters.Registry
	gatewayCfg paymentdomain.GatewayConfig
	clock      clock.Clock
}

func NewService(p Params) paymentdomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("payment.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		billingSvc: p.BillingSvc,
		appSvc:     p.AppSvc,
		authz:      p.Authz,
		auditSvc:   p.AuditSvc,
		adapters:   p.Adapters,
		gatewayCfg: paymentdomain.GatewayConfig{
			ReturnURL:    p.Cfg.Payment.ReturnURL,
			MerchantCode: p.Cfg.Payment.EsewaMerchantCode,
			BaseURL:      p.Cfg.Payment.EsewaBaseURL,
		},
		clock: p.Clock,
	}
}

func (s *Service) Initiate(ctx context.Context, actor authdomain.Actor, billID string, provider string) (paymentdomain.InitiateResult, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		return paymentdomain.InitiateResult{}, paymentdomain.ErrInvalidProvider
	}
	if !s.adapters.ProviderExists(provider) {
		return paymentdomain.InitiateResult{}, paymentdomain.ErrProviderNotFound
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ObjectPayment, authorization.ActionPaymentInitiate); err != nil {
		return paymentdomain.InitiateResult{}, err
	}

	bill, err := s.billingSvc.Get(ctx, actor, billID)
	if err != nil {
		return paymentdomain.InitiateResult{}, err
	}
	if bill.Status == billingdomain.BillStatusPaid {
		return paymentdomain.InitiateResult{}, billingdomain.ErrBillAlreadyPaid
	}

	gateway, err := s.adapters.NewGateway(provider, s.gatewayCfg)
	if err != nil {
		return paymentdomain.InitiateResult{}, err
	}

	now := s.clock.Now()
	attempt := &paymentdomain.Attempt{
		ID:            s.genID.Generate(),
		BillID:        bill.ID,
		ApplicationID: bill.ApplicationID,
		Provider:      provider,
		Reference:     uuid.NewString(),
		Amount:        bill.EffectiveTotal(),
		Status:        paymentdomain.AttemptStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	checkout, err := gateway.Initiate(ctx, paymentdomain.InitiateRequest{
		Reference:     attempt.Reference,
		Amount:        attempt.Amount,
		ApplicationID: bill.ApplicationID.String(),
		BillID:        bill.ID.String(),
	})
	if err != nil {
		return paymentdomain.InitiateResult{}, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, attempt); err != nil {
			return err
		}
		return s.auditSvc.AuditLogTx(ctx, tx, actor, "payment.initiated", aggregatePayment, attempt.ID.String(), map[string]any{
			"bill_id":   bill.ID.String(),
			"provider":  provider,
			"reference": attempt.Reference,
			"amount":    attempt.Amount.StringFixed(2),
		})
	})
	if err != nil {
		return paymentdomain.InitiateResult{}, err
	}

	s.log.Info("payment initiated",
		zap.String("bill_id", bill.ID.String()),
		zap.String("provider", provider),
		zap.String("reference", attempt.Reference),
	)
	return paymentdomain.InitiateResult{Attempt: attempt, Checkout: checkout}, nil
}

func (s *Service) Verify(ctx context.Context, actor authdomain.Actor, reference string) (*paymentdomain.Attempt, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, paymentdomain.ErrInvalidReference
	}
	attempt, err := s.repo.FindByReference(ctx, s.db, reference)
	if err != nil {
		return nil, err
	}
	if attempt == nil {
		return nil, paymentdomain.ErrAttemptNotFound
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ObjectPayment, authorization.ActionPaymentVerify); err != nil {
		return nil, err
	}
	if actor.Role == authdomain.RoleCustomer {
		app, err := s.appSvc.GetByID(ctx, attempt.ApplicationID)
		if err != nil {
			return nil, err
		}
		if app.CustomerID != actor.ID {
			return nil, authorization.ErrForbidden
		}
	}
	if attempt.Status != paymentdomain.AttemptStatusPending {
		return attempt, nil
	}

	gateway, err := s.adapters.NewGateway(attempt.Provider, s.gatewayCfg)
	if err != nil {
		return nil, err
	}
	status, err := gateway.Verify(ctx, paymentdomain.VerifyRequest{Reference: attempt.Reference, Amount: attempt.Amount})
	if err != nil {
		s.log.Warn("payment verification failed", zap.String("reference", reference), zap.Error(err))
		return nil, err
	}

	switch status {
	case paymentdomain.VerificationPending:
		return attempt, nil
	case paymentdomain.VerificationFailed:
		now := s.clock.Now()
		if _, err := s.repo.UpdateStatus(ctx, s.db, attempt.ID, paymentdomain.AttemptStatusFailed, now); err != nil {
			return nil, err
		}
		attempt.Status = paymentdomain.AttemptStatusFailed
		attempt.UpdatedAt = now
		return attempt, nil
	}

	now := s.clock.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updated, err := s.repo.UpdateStatus(ctx, tx, attempt.ID, paymentdomain.AttemptStatusCompleted, now)
		if err != nil {
			return err
		}
		if !updated {
			return nil
		}
		if _, err := s.billingSvc.MarkPaidTx(ctx, tx, attempt.BillID, attempt.Reference); err != nil {
			return err
		}
		return s.auditSvc.AuditLogTx(ctx, tx, actor, "payment.completed", aggregatePayment, attempt.ID.String(), map[string]any{
			"bill_id":   attempt.BillID.String(),
			"reference": attempt.Reference,
			"amount":    attempt.Amount.StringFixed(2),
		})
	})
	if err != nil {
		return nil, err
	}

	attempt.Status = paymentdomain.AttemptStatusCompleted
	attempt.CompletedAt = &now
	attempt.UpdatedAt = now
	s.log.Info("payment completed", zap.String("reference", reference), zap.String("bill_id", attempt.BillID.String()))
	return attempt, nil
}
