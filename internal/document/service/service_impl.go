package service

import (
	"context"
	"strings"

	appdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/application/domain"
	auditdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/audit/domain"
	authdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/auth/domain"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/authorization"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/clock"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/config"
	documentdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/document/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	aggregateDocument    = "document"
	defaultMinConfidence = 0.8
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     documentdomain.Repository
	Verifier documentdomain.Verifier
	AppSvc   appdomain.Service
	Authz    authorization.Service
	AuditSvc auditdomain.Service
	Cfg      config.Config
	Clock    clock.Clock
}

type Service struct {
	db            *gorm.DB
	log           *zap.Logger
	genID         *snowflake.Node
	repo          documentdomain.Repository
	verifier      documentdomain.Verifier
	appSvc        appdomain.Service
	authz         authorization.Service
	auditSvc      auditdomain.Service
	minConfidence float64
	clock         clock.Clock
}

func NewService(p Params) documentdomain.Service {
	minConfidence := p.Cfg.Document.MinConfidence
	if minConfidence <= 0 || minConfidence > 1 {
		minConfidence = defaultMinConfidence
	}
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("document.service"),
		genID:         p.GenID,
		repo:          p.Repo,
		verifier:      p.Verifier,
		appSvc:        p.AppSvc,
		authz:         p.Authz,
		auditSvc:      p.AuditSvc,
		minConfidence: minConfidence,
		clock:         p.Clock,
	}
}

func (s *Service) Record(ctx context.Context, actor authdomain.Actor, req documentdomain.RecordRequest) (*documentdomain.Document, error) {
	if err := s.authz.Authorize(ctx, actor, authorization.ObjectDocument, authorization.ActionDocumentRecord); err != nil {
		return nil, err
	}
	docType := strings.TrimSpace(req.DocumentType)
	if docType == "" {
		return nil, documentdomain.ErrInvalidDocumentType
	}
	fileURL := strings.TrimSpace(req.FileURL)
	if fileURL == "" {
		return nil, documentdomain.ErrInvalidFileURL
	}
	app, err := s.ownedApplication(ctx, actor, req.ApplicationID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	doc := &documentdomain.Document{
		ID:            s.genID.Generate(),
		ApplicationID: app.ID,
		DocumentType:  docType,
		FileURL:       fileURL,
		Status:        documentdomain.StatusPending,
		Result:        datatypes.JSONMap{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, doc); err != nil {
			return err
		}
		return s.auditSvc.AuditLogTx(ctx, tx, actor, "document.recorded", aggregateDocument, doc.ID.String(), map[string]any{
			"application_id": app.ID.String(),
			"document_type":  docType,
		})
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Service) Verify(ctx context.Context, actor authdomain.Actor, id string) (*documentdomain.Document, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, documentdomain.ErrNotFound
	}
	doc, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, documentdomain.ErrNotFound
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ObjectDocument, authorization.ActionDocumentVerify); err != nil {
		return nil, err
	}

	result, err := s.verifier.Verify(ctx, documentdomain.VerifyRequest{
		DocumentType: doc.DocumentType,
		FileURL:      doc.FileURL,
	})
	if err != nil {
		s.log.Warn("document verification failed", zap.String("document_id", doc.ID.String()), zap.Error(err))
		return nil, err
	}

	now := s.clock.Now()
	confidence := result.Confidence
	doc.Confidence = &confidence
	doc.Status = documentdomain.StatusFlagged
	if result.Verified && confidence >= s.minConfidence {
		doc.Status = documentdomain.StatusVerified
	}
	issues := make([]any, 0, len(result.Issues))
	for _, issue := range result.Issues {
		issues = append(issues, issue)
	}
	doc.Result = datatypes.JSONMap{
		"verified":   result.Verified,
		"confidence": confidence,
		"issues":     issues,
	}
	doc.VerifiedAt = &now
	doc.UpdatedAt = now

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Update(ctx, tx, doc); err != nil {
			return err
		}
		return s.auditSvc.AuditLogTx(ctx, tx, actor, "document.verified", aggregateDocument, doc.ID.String(), map[string]any{
			"status":     string(doc.Status),
			"confidence": confidence,
		})
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Service) ListByApplication(ctx context.Context, actor authdomain.Actor, applicationID string) ([]documentdomain.Document, error) {
	app, err := s.ownedApplication(ctx, actor, applicationID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListByApplication(ctx, s.db, app.ID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []documentdomain.Document{}
	}
	return items, nil
}

// ownedApplication loads the application and enforces customer ownership.
func (s *Service) ownedApplication(ctx context.Context, actor authdomain.Actor, applicationID string) (*appdomain.Application, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(applicationID))
	if err != nil {
		return nil, appdomain.ErrNotFound
	}
	app, err := s.appSvc.GetByID(ctx, parsed)
	if err != nil {
		return nil, err
	}
	if actor.Role == authdomain.RoleCustomer && app.CustomerID != actor.ID {
		return nil, authorization.ErrForbidden
	}
	return app, nil
}
