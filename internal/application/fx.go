package application

import (
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/application/repository"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/application/service"
	"go.uber.org/fx"
)

var Module = fx.Module("application.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
