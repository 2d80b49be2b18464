package verifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	documentdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/document/domain"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/observability/tracing"
)

// HTTPVerifier posts documents to a remote verification service.
type HTTPVerifier struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPVerifier(baseURL string, apiKey string, client *http.Client) *HTTPVerifier {
	return &HTTPVerifier{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
		client:  tracing.WrapHTTPClient(client),
	}
}

func (v *HTTPVerifier) Verify(ctx context.Context, req documentdomain.VerifyRequest) (documentdomain.VerificationResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return documentdomain.VerificationResult{}, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+"/verify", bytes.NewReader(body))
	if err != nil {
		return documentdomain.VerificationResult{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if v.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+v.apiKey)
	}

	resp, err := v.client.Do(httpReq)
	if err != nil {
		return documentdomain.VerificationResult{}, fmt.Errorf("%w: %v", documentdomain.ErrVerifierUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return documentdomain.VerificationResult{}, fmt.Errorf("%w: status %d", documentdomain.ErrVerifierUnavailable, resp.StatusCode)
	}

	var result documentdomain.VerificationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return documentdomain.VerificationResult{}, fmt.Errorf("%w: %v", documentdomain.ErrVerifierUnavailable, err)
	}
	return result, nil
}

// Unavailable is used when no verification service is configured.
type Unavailable struct{}

func (Unavailable) Verify(context.Context, documentdomain.VerifyRequest) (documentdomain.VerificationResult, error) {
	return documentdomain.VerificationResult{}, documentdomain.ErrVerifierUnavailable
}
