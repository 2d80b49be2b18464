package notifier

import (
	"context"

	notificationdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/notification/domain"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/observability/logger"
	"go.uber.org/zap"
)

// LogNotifier writes messages to the log instead of delivering them.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log.Named("notification.log")}
}

func (n *LogNotifier) Send(ctx context.Context, msg notificationdomain.Message) error {
	if msg.Recipient == "" {
		return notificationdomain.ErrInvalidRecipient
	}
	n.log.Info("notification",
		zap.String("recipient", logger.MaskPhone(msg.Recipient)),
		zap.String("channel", msg.Channel),
		zap.String("template", msg.Template),
		zap.String("subject", msg.Subject),
	)
	return nil
}
