package fieldtask

import (
	taskdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/fieldtask/domain"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/fieldtask/repository"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/fieldtask/service"
	pkgrepository "github.com/Mr-strangerX11/Nepal-Electricity-Authority/pkg/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("fieldtask.service",
	fx.Provide(repository.Provide),
	fx.Provide(pkgrepository.ProvideStore[taskdomain.StaffMember]),
	fx.Provide(service.NewService),
)
