// Command api serves the HTTP API without the notification dispatcher.
// Run it next to cmd/nea when the dispatcher is scaled separately.
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
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/observability"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/operations"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/payment"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/server"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
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

		server.Module,
	)
	app.Run()
}

// RegisterSnowflake uses node 2 so identifiers never collide with cmd/nea.
func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(2)
	if err != nil {
		panic(err)
	}
	return node
}
