package dispatcher

import (
	"context"
	"errors"
	"time"

	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/clock"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/events"
	notificationdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/notification/domain"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Outbox   *events.Outbox
	Notifier notificationdomain.Notifier
	Clock    clock.Clock              `optional:"true"`
	Metrics  *metrics.WorkflowMetrics `optional:"true"`
	Config   Config                   `optional:"true"`
}

// Worker delivers outbox events as notifications.
type Worker struct {
	db       *gorm.DB
	log      *zap.Logger
	outbox   *events.Outbox
	notifier notificationdomain.Notifier
	clock    clock.Clock
	metrics  *metrics.WorkflowMetrics
	cfg      Config
}

type Result struct {
	Sent    int
	Skipped int
	Failed  int
}

func NewWorker(p Params) *Worker {
	clk := p.Clock
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &Worker{
		db:       p.DB,
		log:      p.Log.Named("notification.dispatcher"),
		outbox:   p.Outbox,
		notifier: p.Notifier,
		clock:    clk,
		metrics:  p.Metrics,
		cfg:      p.Config.withDefaults(),
	}
}

func (w *Worker) RunForever(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if _, err := w.RunOnce(ctx); err != nil {
			w.log.Warn("notification dispatch failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (w *Worker) RunOnce(ctx context.Context) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, w.cfg.SendTimeout)
	defer cancel()

	result, err := w.processBatch(ctx, w.cfg.BatchSize)
	if err != nil {
		return result, err
	}
	if backlog, err := w.outbox.CountPending(ctx); err == nil {
		w.metrics.SetOutboxBacklog(backlog)
	}
	return result, nil
}

// processBatch sends while the batch rows are locked, so concurrent workers skip
// them. Delivery is at-least-once: a crash between Send and commit leaves the row
// pending and it is sent again on the next poll.
func (w *Worker) processBatch(ctx context.Context, limit int) (Result, error) {
	var result Result
	if w.db == nil || w.outbox == nil || w.notifier == nil {
		return result, errors.New("notification_dispatcher_unavailable")
	}

	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := w.outbox.LockPending(ctx, tx, limit, w.cfg.MaxAttempts)
		if err != nil {
			return err
		}
		now := w.clock.Now()
		for _, row := range rows {
			outcome, sendErr := w.deliver(ctx, row)
			switch outcome {
			case "failed":
				result.Failed++
				if err := w.outbox.MarkFailed(ctx, tx, row.ID, sendErr, w.cfg.MaxAttempts); err != nil {
					return err
				}
			default:
				if outcome == "sent" {
					result.Sent++
				} else {
					result.Skipped++
				}
				if err := w.outbox.MarkPublished(ctx, tx, row.ID, now); err != nil {
					return err
				}
			}
			w.metrics.IncNotification(outcome)
		}
		return nil
	})
	return result, err
}

// deliver returns sent, skipped or failed.
func (w *Worker) deliver(ctx context.Context, row events.DomainEvent) (string, error) {
	name := row.StringValue("template")
	recipient := row.StringValue("recipient")
	if name == "" || recipient == "" || !notificationdomain.HasTemplate(name) {
		return "skipped", nil
	}

	msg, err := notificationdomain.Render(name, recipient, row.Payload)
	if err != nil {
		w.log.Warn("notification render failed", zap.String("event_id", row.ID.String()), zap.Error(err))
		return "failed", err
	}
	if err := w.notifier.Send(ctx, msg); err != nil {
		w.log.Warn("notification send failed",
			zap.String("event_id", row.ID.String()),
			zap.String("template", name),
			zap.Int("attempts", row.Attempts+1),
			zap.Error(err),
		)
		return "failed", err
	}
	return "sent", nil
}
