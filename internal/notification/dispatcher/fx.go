package dispatcher

import (
	"context"

	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("notification.dispatcher",
	fx.Provide(func(cfg config.Config) Config {
		return Config{
			BatchSize:    cfg.Notify.BatchSize,
			PollInterval: cfg.Notify.PollInterval,
		}.withDefaults()
	}),
	fx.Provide(NewWorker),
	fx.Invoke(runWorker),
)

func runWorker(lc fx.Lifecycle, worker *Worker) {
	var cancel context.CancelFunc
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			var ctx context.Context
			ctx, cancel = context.WithCancel(context.Background())
			go worker.RunForever(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			if cancel != nil {
				cancel()
			}
			return nil
		},
	})
}
