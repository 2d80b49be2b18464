package context

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestActorRoundTrip(t *testing.T) {
	ctx := WithActor(context.Background(), "admin", "42")
	role, id := ActorFromContext(ctx)
	if role != "admin" || id != "42" {
		t.Fatalf("expected admin/42, got %s/%s", role, id)
	}
}

func TestRequestIDFromGinFallsBackToKeys(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)
	c.Set("request_id", "abc")
	if got := RequestIDFromGin(c); got != "abc" {
		t.Fatalf("expected abc, got %q", got)
	}

	c.Request = c.Request.WithContext(WithRequestID(c.Request.Context(), "from-ctx"))
	if got := RequestIDFromGin(c); got != "from-ctx" {
		t.Fatalf("expected from-ctx, got %q", got)
	}
}
