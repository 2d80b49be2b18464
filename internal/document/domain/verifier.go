package domain

import "context"

// Verifier scores an uploaded document.
type Verifier interface {
	Verify(ctx context.Context, req VerifyRequest) (VerificationResult, error)
}

type VerifyRequest struct {
	DocumentType string `json:"document_type"`
	FileURL      string `json:"file_url"`
}

type VerificationResult struct {
	Verified   bool     `json:"verified"`
	Confidence float64  `json:"confidence"`
	Issues     []string `json:"issues"`
}
