package payment

import (
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/payment/adapters"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/payment/adapters/esewa"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/payment/adapters/sandbox"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/payment/repository"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.Provide),
	fx.Provide(func() *adapters.Registry {
		return adapters.NewRegistry(sandbox.NewFactory(), esewa.NewFactory())
	}),
	fx.Provide(service.NewService),
)
