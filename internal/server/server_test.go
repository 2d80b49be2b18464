package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	appdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/application/domain"
	apprepository "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/application/repository"
	appservice "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/application/service"
	authdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/auth/domain"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/auth/jwt"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/billing/render"
	billingrepository "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/billing/repository"
	billingservice "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/billing/service"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/config"
	documentrepository "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/document/repository"
	documentservice "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/document/service"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/document/verifier"
	taskdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/fieldtask/domain"
	taskrepository "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/fieldtask/repository"
	taskservice "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/fieldtask/service"
	operationsservice "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/operations/service"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/payment/adapters"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/payment/adapters/sandbox"
	paymentrepository "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/payment/repository"
	paymentservice "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/payment/service"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/testutil"
	pkgrepository "github.com/Mr-strangerX11/Nepal-Electricity-Authority/pkg/repository"
	"github.com/gin-gonic/gin"
)

var (
	customerActor   = authdomain.Actor{ID: 100, Role: authdomain.RoleCustomer}
	adminActor      = authdomain.Actor{ID: 1, Role: authdomain.RoleAdmin}
	fieldStaffActor = authdomain.Actor{ID: 7, Role: authdomain.RoleFieldStaff}
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Field   string          `json:"field"`
	Data    json.RawMessage `json:"data"`
}

type harness struct {
	engine *gin.Engine
	tokens *jwt.Authenticator
}

func newHarness(t *testing.T, cfg config.Config) *harness {
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
	tasks := taskservice.NewService(taskservice.Params{
		DB:         env.DB,
		Log:        env.Log,
		GenID:      env.GenID,
		Repo:       taskrepository.Provide(),
		StaffStore: pkgrepository.ProvideStore[taskdomain.StaffMember](env.DB),
		AppSvc:     apps,
		Authz:      env.Authz,
		AuditSvc:   env.Audit,
		Outbox:     env.Outbox,
		Clock:      env.Clock,
	})
	billing := billingservice.NewService(billingservice.Params{
		DB:       env.DB,
		Log:      env.Log,
		GenID:    env.GenID,
		Repo:     billingrepository.Provide(),
		AppSvc:   apps,
		Authz:    env.Authz,
		AuditSvc: env.Audit,
		Outbox:   env.Outbox,
		Clock:    env.Clock,
		Renderer: render.NewRenderer(),
	})
	payments := paymentservice.NewService(paymentservice.Params{
		DB:         env.DB,
		Log:        env.Log,
		GenID:      env.GenID,
		Repo:       paymentrepository.Provide(),
		BillingSvc: billing,
		AppSvc:     apps,
		Authz:      env.Authz,
		AuditSvc:   env.Audit,
		Adapters:   adapters.NewRegistry(sandbox.NewFactory()),
		Cfg:        cfg,
		Clock:      env.Clock,
	})
	documents := documentservice.NewService(documentservice.Params{
		DB:       env.DB,
		Log:      env.Log,
		GenID:    env.GenID,
		Repo:     documentrepository.Provide(),
		Verifier: verifier.Unavailable{},
		AppSvc:   apps,
		Authz:    env.Authz,
		AuditSvc: env.Audit,
		Cfg:      cfg,
		Clock:    env.Clock,
	})
	ops := operationsservice.NewService(operationsservice.Params{
		Log:        env.Log,
		AppSvc:     apps,
		BillingSvc: billing,
		TaskSvc:    tasks,
		Authz:      env.Authz,
		Clock:      env.Clock,
	})

	tokens := jwt.New(jwt.Config{Secret: "test-secret", Issuer: "nea-connect"})
	srv := NewServer(Params{
		Cfg:         cfg,
		Log:         env.Log,
		Authn:       tokens,
		AppSvc:      apps,
		TaskSvc:     tasks,
		BillingSvc:  billing,
		PaymentSvc:  payments,
		DocumentSvc: documents,
		OpsSvc:      ops,
	})
	return &harness{engine: NewEngine(srv), tokens: tokens}
}

func (h *harness) token(t *testing.T, actor authdomain.Actor) string {
	t.Helper()
	raw, err := h.tokens.Issue(actor, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return raw
}

func (h *harness) do(t *testing.T, method string, path string, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		payload = encoded
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.engine.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return env
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, status int, message string) envelope {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if message != "" && env.Message != message {
		t.Fatalf("expected message %q, got %q", message, env.Message)
	}
	return env
}

func dataID(t *testing.T, env envelope) string {
	t.Helper()
	var payload struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("decode id from %s: %v", env.Data, err)
	}
	if payload.ID == "" {
		t.Fatalf("expected id in %s", env.Data)
	}
	return payload.ID
}

func testConfig() config.Config {
	return config.Config{
		AppName:           "nea-connect",
		AppVersion:        "test",
		EstimateRateLimit: 2,
		Payment:           config.PaymentConfig{ReturnURL: "https://nea.example/pay"},
	}
}

func TestHealth(t *testing.T) {
	h := newHarness(t, testConfig())

	env := expectStatus(t, h.do(t, http.MethodGet, "/api/health", "", nil), http.StatusOK, "")
	if !env.Success || !strings.Contains(string(env.Data), `"service":"nea-connect"`) {
		t.Fatalf("unexpected health body %+v", env)
	}
}

func TestEstimateIsPublicAndRateLimited(t *testing.T) {
	h := newHarness(t, testConfig())
	body := map[string]any{"usage_units": "100", "rate_per_unit": "10"}

	for i := 0; i < 2; i++ {
		env := expectStatus(t, h.do(t, http.MethodPost, "/api/bills/estimate", "", body), http.StatusOK, "")
		if !strings.Contains(string(env.Data), "NPR 1130.00") {
			t.Fatalf("expected formatted total in %s", env.Data)
		}
	}
	expectStatus(t, h.do(t, http.MethodPost, "/api/bills/estimate", "", body), http.StatusTooManyRequests, "rate_limited")
}

func TestAuthenticationRequired(t *testing.T) {
	h := newHarness(t, testConfig())

	expectStatus(t, h.do(t, http.MethodGet, "/api/applications/mine", "", nil), http.StatusUnauthorized, "missing_credential")
	expectStatus(t, h.do(t, http.MethodGet, "/api/applications/mine", "garbage", nil), http.StatusUnauthorized, "")
}

func TestUnknownRoute(t *testing.T) {
	h := newHarness(t, testConfig())

	expectStatus(t, h.do(t, http.MethodGet, "/api/nowhere", "", nil), http.StatusNotFound, "not_found")
}

func TestApplicationWorkflowOverHTTP(t *testing.T) {
	h := newHarness(t, testConfig())
	customerToken := h.token(t, customerActor)
	adminToken := h.token(t, adminActor)
	staffToken := h.token(t, fieldStaffActor)

	submitted := expectStatus(t, h.do(t, http.MethodPost, "/api/applications", customerToken, appdomain.SubmitRequest{
		ConnectionType: "residential",
		ConnectionLoad: "5kW",
		ServiceAddress: "Baneshwor-10",
		City:           "Kathmandu",
	}), http.StatusCreated, "")
	appID := dataID(t, submitted)

	expectStatus(t, h.do(t, http.MethodPost, "/api/applications/"+appID+"/approve", staffToken, nil), http.StatusForbidden, "forbidden")
	expectStatus(t, h.do(t, http.MethodPost, "/api/applications/"+appID+"/approve", adminToken, nil), http.StatusBadRequest, "invalid_status_transition")

	verified := expectStatus(t, h.do(t, http.MethodPut, "/api/applications/"+appID+"/status", adminToken, map[string]string{"status": "verified"}), http.StatusOK, "")
	if !strings.Contains(string(verified.Data), `"status":"verified"`) {
		t.Fatalf("expected verified application, got %s", verified.Data)
	}
	expectStatus(t, h.do(t, http.MethodPost, "/api/applications/"+appID+"/approve", adminToken, nil), http.StatusOK, "")

	expectStatus(t, h.do(t, http.MethodPost, "/api/staff", adminToken, taskdomain.RegisterStaffRequest{
		ID:   fieldStaffActor.ID.String(),
		Name: "Hari Thapa",
	}), http.StatusCreated, "")
	assigned := expectStatus(t, h.do(t, http.MethodPost, "/api/applications/"+appID+"/tasks", adminToken, map[string]string{
		"staff_id": fieldStaffActor.ID.String(),
	}), http.StatusCreated, "")
	taskID := dataID(t, assigned)
	expectStatus(t, h.do(t, http.MethodPost, "/api/applications/"+appID+"/tasks", adminToken, map[string]string{
		"staff_id": fieldStaffActor.ID.String(),
	}), http.StatusConflict, "active_task_exists")
	expectStatus(t, h.do(t, http.MethodPost, "/api/applications/"+appID+"/tasks", adminToken, map[string]string{
		"staff_id": "999999",
	}), http.StatusNotFound, "staff_not_found")

	expectStatus(t, h.do(t, http.MethodPost, "/api/tasks/"+taskID+"/complete", staffToken, nil), http.StatusBadRequest, "proof_required")
	expectStatus(t, h.do(t, http.MethodPost, "/api/tasks/"+taskID+"/proof", staffToken, map[string]string{
		"proof_photo_url": "https://files.example/meter.jpg",
	}), http.StatusOK, "")
	expectStatus(t, h.do(t, http.MethodPost, "/api/tasks/"+taskID+"/complete", staffToken, nil), http.StatusOK, "")

	current := expectStatus(t, h.do(t, http.MethodGet, "/api/applications/"+appID, customerToken, nil), http.StatusOK, "")
	if !strings.Contains(string(current.Data), `"status":"installed"`) {
		t.Fatalf("expected installed application, got %s", current.Data)
	}
}

func TestApplicationNotFound(t *testing.T) {
	h := newHarness(t, testConfig())

	expectStatus(t, h.do(t, http.MethodGet, "/api/applications/123456", h.token(t, adminActor), nil), http.StatusNotFound, "application_not_found")
}

func TestReports(t *testing.T) {
	h := newHarness(t, testConfig())
	adminToken := h.token(t, adminActor)

	expectStatus(t, h.do(t, http.MethodGet, "/api/dashboard/reports/weather", adminToken, nil), http.StatusBadRequest, "unknown_report_kind")
	expectStatus(t, h.do(t, http.MethodGet, "/api/dashboard/reports/applications?start_date=yesterday", adminToken, nil), http.StatusBadRequest, "")
	expectStatus(t, h.do(t, http.MethodGet, "/api/dashboard/summary", h.token(t, customerActor), nil), http.StatusForbidden, "forbidden")

	rec := h.do(t, http.MethodGet, "/api/dashboard/reports/revenue?format=csv", adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected csv report, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/csv") {
		t.Fatalf("expected text/csv, got %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "revenue_report.csv") {
		t.Fatalf("expected attachment name, got %q", got)
	}
}
