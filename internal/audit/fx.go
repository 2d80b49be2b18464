package audit

import (
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/audit/repository"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
