package events

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Event describes a domain event to store in the outbox.
type Event struct {
	Type          string
	AggregateType string
	AggregateID   snowflake.ID
	Payload       map[string]any
	DedupeKey     string
}

// Outbox inserts domain events into the domain_events table.
type Outbox struct {
	db    *gorm.DB
	genID *snowflake.Node
}

func NewOutbox(db *gorm.DB, genID *snowflake.Node) *Outbox {
	return &Outbox{db: db, genID: genID}
}

// Publish stores an event using the default database connection.
func (o *Outbox) Publish(ctx context.Context, event Event) error {
	return o.publish(ctx, o.db, event)
}

// PublishTx stores an event using an existing transaction.
func (o *Outbox) PublishTx(ctx context.Context, tx *gorm.DB, event Event) error {
	if tx == nil {
		return errors.New("missing_transaction")
	}
	return o.publish(ctx, tx, event)
}

func (o *Outbox) publish(ctx context.Context, db *gorm.DB, event Event) error {
	if o == nil || db == nil || o.genID == nil {
		return errors.New("outbox_unavailable")
	}
	name := strings.TrimSpace(event.Type)
	if name == "" {
		return errors.New("missing_event_type")
	}
	if event.AggregateID == 0 {
		return errors.New("invalid_aggregate_id")
	}

	payload := datatypes.JSONMap{}
	for key, value := range event.Payload {
		if strings.TrimSpace(key) == "" {
			continue
		}
		payload[key] = value
	}

	dedupe := strings.TrimSpace(event.DedupeKey)
	var dedupeValue any
	if dedupe != "" {
		dedupeValue = dedupe
	}

	now := time.Now().UTC()
	return db.WithContext(ctx).Exec(
		`INSERT INTO domain_events (id, event_type, aggregate_type, aggregate_id, payload, dedupe_key, status, attempts, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?)
		 ON CONFLICT (dedupe_key) DO NOTHING`,
		o.genID.Generate(),
		name,
		strings.TrimSpace(event.AggregateType),
		event.AggregateID,
		payload,
		dedupeValue,
		EventStatusPending,
		now,
	).Error
}

// LockPending selects pending events for dispatch, skipping rows locked by other workers.
func (o *Outbox) LockPending(ctx context.Context, tx *gorm.DB, limit int, maxAttempts int) ([]DomainEvent, error) {
	var items []DomainEvent
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("status = ? AND attempts < ?", EventStatusPending, maxAttempts).
		Order("id ASC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (o *Outbox) MarkPublished(ctx context.Context, tx *gorm.DB, id snowflake.ID, now time.Time) error {
	return tx.WithContext(ctx).Exec(
		`UPDATE domain_events
		 SET status = ?, published_at = ?, attempts = attempts + 1, last_error = NULL
		 WHERE id = ? AND status = ?`,
		EventStatusPublished,
		now,
		id,
		EventStatusPending,
	).Error
}

// MarkFailed records a delivery error; the event is parked once maxAttempts is reached.
func (o *Outbox) MarkFailed(ctx context.Context, tx *gorm.DB, id snowflake.ID, cause error, maxAttempts int) error {
	message := "unknown"
	if cause != nil {
		message = cause.Error()
	}
	return tx.WithContext(ctx).Exec(
		`UPDATE domain_events
		 SET attempts = attempts + 1,
		     last_error = ?,
		     status = CASE WHEN attempts + 1 >= ? THEN ? ELSE status END
		 WHERE id = ? AND status = ?`,
		message,
		maxAttempts,
		EventStatusFailed,
		id,
		EventStatusPending,
	).Error
}

func (o *Outbox) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := o.db.WithContext(ctx).Model(&DomainEvent{}).Where("status = ?", EventStatusPending).Count(&count).Error
	return count, err
}

// ListByAggregate returns events for one aggregate in insertion order.
func (o *Outbox) ListByAggregate(ctx context.Context, aggregateType string, aggregateID snowflake.ID) ([]DomainEvent, error) {
	var items []DomainEvent
	err := o.db.WithContext(ctx).
		Where("aggregate_type = ? AND aggregate_id = ?", aggregateType, aggregateID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}
