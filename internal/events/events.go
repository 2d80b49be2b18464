package events

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Domain event types written to the outbox.
const (
	EventApplicationSubmitted     = "application.submitted"
	EventApplicationStatusChanged = "application.status_changed"
	EventTaskAssigned             = "task.assigned"
	EventTaskStatusChanged        = "task.status_changed"
	EventBillGenerated            = "bill.generated"
	EventBillPaid                 = "bill.paid"
)

type EventStatus string

const (
	EventStatusPending   EventStatus = "pending"
	EventStatusPublished EventStatus = "published"
	EventStatusFailed    EventStatus = "failed"
)

// DomainEvent is a row of the transactional outbox.
type DomainEvent struct {
	ID            snowflake.ID      `json:"id" gorm:"primaryKey"`
	EventType     string            `json:"event_type" gorm:"type:text;not null;index"`
	AggregateType string            `json:"aggregate_type" gorm:"type:text;not null"`
	AggregateID   snowflake.ID      `json:"aggregate_id" gorm:"not null;index"`
	Payload       datatypes.JSONMap `json:"payload" gorm:"type:jsonb;not null;default:'{}'"`
	DedupeKey     *string           `json:"dedupe_key,omitempty" gorm:"type:text;uniqueIndex:ux_domain_events_dedupe"`
	Status        EventStatus       `json:"status" gorm:"type:text;not null;default:'pending';index"`
	Attempts      int               `json:"attempts" gorm:"not null;default:0"`
	LastError     *string           `json:"last_error,omitempty" gorm:"type:text"`
	CreatedAt     time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	PublishedAt   *time.Time        `json:"published_at,omitempty"`
}

// TableName sets the database table name.
func (DomainEvent) TableName() string { return "domain_events" }

// DedupeKey builds the idempotency key aggregate:id:event:status.
func DedupeKey(aggregateType string, aggregateID snowflake.ID, event string, status string) string {
	return aggregateType + ":" + aggregateID.String() + ":" + event + ":" + status
}

// StringValue reads a string field from an event payload.
func (e DomainEvent) StringValue(key string) string {
	if e.Payload == nil {
		return ""
	}
	value, ok := e.Payload[key]
	if !ok || value == nil {
		return ""
	}
	switch typed := value.(type) {
	case string:
		return typed
	default:
		return ""
	}
}
