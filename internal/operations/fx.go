package operations

import (
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/operations/service"
	"go.uber.org/fx"
)

var Module = fx.Module("operations.service",
	fx.Provide(service.NewService),
)
