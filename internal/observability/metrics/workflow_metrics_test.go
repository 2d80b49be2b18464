package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel/attribute"
)

func TestWorkflowMetricsCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWorkflowMetrics(reg, Config{ServiceName: "test", Environment: "test"})

	m.IncApplicationTransition("submitted", "verified")
	m.IncApplicationTransition("submitted", "verified")
	m.IncNotification("sent")
	m.SetOutboxBacklog(-3)

	if got := testutil.ToFloat64(m.applicationTransitions.WithLabelValues("submitted", "verified")); got != 2 {
		t.Fatalf("expected 2 transitions, got %v", got)
	}
	if got := testutil.ToFloat64(m.notificationsSent.WithLabelValues("sent")); got != 1 {
		t.Fatalf("expected 1 notification, got %v", got)
	}
	if got := testutil.ToFloat64(m.outboxBacklog); got != 0 {
		t.Fatalf("expected backlog clamped to 0, got %v", got)
	}
}

func TestNilWorkflowMetricsIsSafe(t *testing.T) {
	var m *WorkflowMetrics
	m.IncApplicationTransition("a", "b")
	m.IncTaskTransition("completed")
	m.IncBillingOperation("paid")
	m.SetOutboxBacklog(4)
}

func TestFilterAttributes(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("endpoint", "/api/bills"),
		attribute.String("user_id", "42"),
		attribute.String("status_code", ""),
	)
	if len(attrs) != 1 || attrs[0].Key != "endpoint" {
		t.Fatalf("expected only endpoint attribute, got %v", attrs)
	}
}
