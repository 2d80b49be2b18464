package domain

import (
	"context"
	"errors"

	authdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/auth/domain"
)

type Service interface {
	Record(ctx context.Context, actor authdomain.Actor, req RecordRequest) (*Document, error)
	Verify(ctx context.Context, actor authdomain.Actor, id string) (*Document, error)
	ListByApplication(ctx context.Context, actor authdomain.Actor, applicationID string) ([]Document, error)
}

type RecordRequest struct {
	ApplicationID string `json:"-"`
	DocumentType  string `json:"document_type"`
	FileURL       string `json:"file_url"`
}

var (
	ErrInvalidDocumentType = errors.New("document_type_required")
	ErrInvalidFileURL      = errors.New("file_url_required")
	ErrVerifierUnavailable = errors.New("document_verifier_unavailable")
	ErrNotFound            = errors.New("document_not_found")
)
