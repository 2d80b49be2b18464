package main

import (
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/application"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/audit"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/auth"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/authorization"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/billing"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/clock"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/config"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/document"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/events"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/fieldtask"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/migration"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/notification"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/notification/dispatcher"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/observability"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/operations"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/payment"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/seed"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/server"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(func() *snowflake.Node {
			node, err := snowflake.NewNode(1)
			if err != nil {
				panic(err)
			}
			return node
		}),
		db.Module,
		fx.Invoke(func(conn *gorm.DB, cfg config.Config, clk clock.Clock) error {
			if err := migration.Apply(conn); err != nil {
				return err
			}
			if cfg.Bootstrap.SeedDemoStaff {
				return seed.EnsureDemoStaff(conn, clk)
			}
			return nil
		}),
		clock.Module,

		auth.Module,
		authorization.Module,
		audit.Module,
		events.Module,

		application.Module,
		fieldtask.Module,
		billing.Module,
		payment.Module,
		document.Module,
		operations.Module,

		notification.Module,
		dispatcher.Module,

		server.Module,
	)
	app.Run()
}
