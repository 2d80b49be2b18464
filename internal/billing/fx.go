package billing

import (
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/billing/render"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/billing/repository"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/billing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("billing.service",
	fx.Provide(repository.Provide),
	fx.Provide(render.NewRenderer),
	fx.Provide(service.NewService),
)
