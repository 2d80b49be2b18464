package metrics

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// WorkflowMetrics tracks lifecycle transitions and notification delivery.
type WorkflowMetrics struct {
	applicationTransitions *prometheus.CounterVec
	taskTransitions        *prometheus.CounterVec
	billingOperations      *prometheus.CounterVec
	notificationsSent      *prometheus.CounterVec
	outboxBacklog          prometheus.Gauge
}

var (
	workflowMetricsOnce sync.Once
	workflowMetrics     *WorkflowMetrics
)

func Workflow() *WorkflowMetrics {
	return WorkflowWithConfig(Config{})
}

func WorkflowWithConfig(cfg Config) *WorkflowMetrics {
	workflowMetricsOnce.Do(func() {
		workflowMetrics = NewWorkflowMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return workflowMetrics
}

// NewWorkflowMetrics registers a fresh set of collectors; tests pass their own registry.
func NewWorkflowMetrics(registerer prometheus.Registerer, cfg Config) *WorkflowMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "nea-connect"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	applicationTransitions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "nea_application_transitions_total",
			Help:        "Application status transitions by source and target status.",
			ConstLabels: constLabels,
		},
		[]string{"from", "to"},
	)
	taskTransitions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "nea_field_task_transitions_total",
			Help:        "Field task status changes by target status.",
			ConstLabels: constLabels,
		},
		[]string{"to"},
	)
	billingOperations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "nea_billing_operations_total",
			Help:        "Billing operations by kind.",
			ConstLabels: constLabels,
		},
		[]string{"operation"}, // created | paid | late_fee
	)
	notificationsSent := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "nea_notifications_total",
			Help:        "Outbox notifications processed by result.",
			ConstLabels: constLabels,
		},
		[]string{"result"}, // sent | skipped | failed
	)
	outboxBacklog := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name:        "nea_outbox_backlog_total",
			Help:        "Unpublished domain events waiting for dispatch.",
			ConstLabels: constLabels,
		},
	)

	registerer.MustRegister(
		applicationTransitions,
		taskTransitions,
		billingOperations,
		notificationsSent,
		outboxBacklog,
	)

	return &WorkflowMetrics{
		applicationTransitions: applicationTransitions,
		taskTransitions:        taskTransitions,
		billingOperations:      billingOperations,
		notificationsSent:      notificationsSent,
		outboxBacklog:          outboxBacklog,
	}
}

func (m *WorkflowMetrics) IncApplicationTransition(from, to string) {
	if m == nil {
		return
	}
	m.applicationTransitions.WithLabelValues(from, to).Inc()
}

func (m *WorkflowMetrics) IncTaskTransition(to string) {
	if m == nil {
		return
	}
	m.taskTransitions.WithLabelValues(to).Inc()
}

func (m *WorkflowMetrics) IncBillingOperation(operation string) {
	if m == nil {
		return
	}
	m.billingOperations.WithLabelValues(operation).Inc()
}

func (m *WorkflowMetrics) IncNotification(result string) {
	if m == nil {
		return
	}
	m.notificationsSent.WithLabelValues(result).Inc()
}

func (m *WorkflowMetrics) SetOutboxBacklog(value int64) {
	if m == nil {
		return
	}
	if value < 0 {
		value = 0
	}
	m.outboxBacklog.Set(float64(value))
}
