package observability

import (
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/config"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/observability/logger"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/observability/metrics"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/observability/tracing"
	"go.opentelemetry.io/otel"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("observability",
	fx.Provide(func(cfg config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			ServiceName: cfg.AppName,
			Environment: cfg.Environment,
		})
	}),
	fx.Provide(func(cfg config.Config) tracing.Config {
		return tracing.Config{
			Enabled:          cfg.Tracing.Enabled,
			ServiceName:      cfg.AppName,
			ServiceVersion:   cfg.AppVersion,
			Environment:      cfg.Environment,
			ExporterEndpoint: cfg.Tracing.Endpoint,
			ExporterProtocol: cfg.Tracing.Protocol,
			SamplingRatio:    cfg.Tracing.SamplingRatio,
		}
	}),
	fx.Provide(func(cfg config.Config) metrics.Config {
		return metrics.Config{ServiceName: cfg.AppName, Environment: cfg.Environment}
	}),
	fx.Provide(metrics.WorkflowWithConfig),
	fx.Provide(func(cfg metrics.Config) (*metrics.HTTPMetrics, error) {
		return metrics.NewHTTPMetrics(cfg, otel.GetMeterProvider())
	}),
	fx.Invoke(tracing.NewProvider),
)
