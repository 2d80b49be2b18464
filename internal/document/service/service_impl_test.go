package service

import (
	"context"
	"errors"
	"testing"

	appdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/application/domain"
	apprepository "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/application/repository"
	appservice "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/application/service"
	authdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/auth/domain"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/authorization"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/config"
	documentdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/document/domain"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/document/repository"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/document/verifier"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/testutil"
)

var (
	admin    = authdomain.Actor{ID: 1, Role: authdomain.RoleAdmin}
	customer = authdomain.Actor{ID: 100, Role: authdomain.RoleCustomer}
)

type stubVerifier struct {
	result documentdomain.VerificationResult
	calls  int
}

func (s *stubVerifier) Verify(ctx context.Context, req documentdomain.VerifyRequest) (documentdomain.VerificationResult, error) {
	s.calls++
	return s.result, nil
}

func newTestService(t *testing.T, v documentdomain.Verifier) (*Service, *appdomain.Application) {
	t.Helper()
	env := testutil.NewEnv(t)
	apps := appservice.NewService(appservice.Params{
		DB:       env.DB,
		Log:      env.Log,
		GenID:    env.GenID,
		Repo:     apprepository.Provide(),
		Authz:    env.Authz,
		AuditSvc: env.Audit,
		Outbox:   env.Outbox,
		Clock:    env.Clock,
	})
	svc := NewService(Params{
		DB:       env.DB,
		Log:      env.Log,
		GenID:    env.GenID,
		Repo:     repository.Provide(),
		Verifier: v,
		AppSvc:   apps,
		Authz:    env.Authz,
		AuditSvc: env.Audit,
		Cfg:      config.Config{Document: config.DocumentConfig{MinConfidence: 0.7}},
		Clock:    env.Clock,
	}).(*Service)

	app, err := apps.Submit(context.Background(), customer, appdomain.SubmitRequest{
		ConnectionType: "residential",
		ConnectionLoad: "5kW",
		ServiceAddress: "Lakeside-6",
		City:           "Pokhara",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return svc, app
}

func record(t *testing.T, svc *Service, app *appdomain.Application) *documentdomain.Document {
	t.Helper()
	doc, err := svc.Record(context.Background(), customer, documentdomain.RecordRequest{
		ApplicationID: app.ID.String(),
		DocumentType:  "citizenship",
		FileURL:       "https://files.example/citizenship.jpg",
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	return doc
}

func TestRecordValidation(t *testing.T) {
	svc, app := newTestService(t, &stubVerifier{})
	ctx := context.Background()

	doc := record(t, svc, app)
	if doc.Status != documentdomain.StatusPending {
		t.Fatalf("expected pending document, got %s", doc.Status)
	}

	if _, err := svc.Record(ctx, customer, documentdomain.RecordRequest{ApplicationID: app.ID.String(), FileURL: "x"}); !errors.Is(err, documentdomain.ErrInvalidDocumentType) {
		t.Fatalf("expected document type error, got %v", err)
	}
	if _, err := svc.Record(ctx, customer, documentdomain.RecordRequest{ApplicationID: app.ID.String(), DocumentType: "deed"}); !errors.Is(err, documentdomain.ErrInvalidFileURL) {
		t.Fatalf("expected file url error, got %v", err)
	}
	stranger := authdomain.Actor{ID: 200, Role: authdomain.RoleCustomer}
	if _, err := svc.Record(ctx, stranger, documentdomain.RecordRequest{ApplicationID: app.ID.String(), DocumentType: "deed", FileURL: "x"}); !errors.Is(err, authorization.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := svc.Record(ctx, customer, documentdomain.RecordRequest{ApplicationID: "999", DocumentType: "deed", FileURL: "x"}); !errors.Is(err, appdomain.ErrNotFound) {
		t.Fatalf("expected application not found, got %v", err)
	}
}

func TestVerifyAppliesConfidenceThreshold(t *testing.T) {
	cases := []struct {
		name   string
		result documentdomain.VerificationResult
		want   documentdomain.Status
	}{
		{name: "confident", result: documentdomain.VerificationResult{Verified: true, Confidence: 0.92}, want: documentdomain.StatusVerified},
		{name: "low confidence", result: documentdomain.VerificationResult{Verified: true, Confidence: 0.55}, want: documentdomain.StatusFlagged},
		{name: "rejected", result: documentdomain.VerificationResult{Verified: false, Confidence: 0.95, Issues: []string{"blurred"}}, want: documentdomain.StatusFlagged},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubVerifier{result: tc.result}
			svc, app := newTestService(t, stub)
			doc := record(t, svc, app)

			verified, err := svc.Verify(context.Background(), admin, doc.ID.String())
			if err != nil {
				t.Fatalf("verify: %v", err)
			}
			if verified.Status != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, verified.Status)
			}
			if verified.Confidence == nil || *verified.Confidence != tc.result.Confidence || verified.VerifiedAt == nil {
				t.Fatalf("expected confidence and timestamp recorded, got %+v", verified)
			}

			items, err := svc.ListByApplication(context.Background(), customer, app.ID.String())
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(items) != 1 || items[0].Status != tc.want {
				t.Fatalf("expected stored status %s, got %+v", tc.want, items)
			}
		})
	}
}

func TestVerifyRequiresStaffAndVerifier(t *testing.T) {
	stub := &stubVerifier{result: documentdomain.VerificationResult{Verified: true, Confidence: 1}}
	svc, app := newTestService(t, stub)
	doc := record(t, svc, app)

	if _, err := svc.Verify(context.Background(), customer, doc.ID.String()); !errors.Is(err, authorization.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if stub.calls != 0 {
		t.Fatalf("expected verifier untouched, got %d calls", stub.calls)
	}
	if _, err := svc.Verify(context.Background(), admin, "12345"); !errors.Is(err, documentdomain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	svc.verifier = verifier.Unavailable{}
	if _, err := svc.Verify(context.Background(), admin, doc.ID.String()); !errors.Is(err, documentdomain.ErrVerifierUnavailable) {
		t.Fatalf("expected verifier unavailable, got %v", err)
	}
}
