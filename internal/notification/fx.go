package notification

import (
	"strings"

	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/config"
	notificationdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/notification/domain"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/notification/notifier"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("notification",
	fx.Provide(func(cfg config.Config, log *zap.Logger) notificationdomain.Notifier {
		if url := strings.TrimSpace(cfg.Notify.WebhookURL); url != "" {
			return notifier.NewWebhookNotifier(url, nil)
		}
		return notifier.NewLogNotifier(log)
	}),
)
