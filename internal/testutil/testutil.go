// Package testutil builds the shared collaborators used by service tests.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	auditdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/audit/domain"
	auditrepository "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/audit/repository"
	auditservice "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/audit/service"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/authorization"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/clock"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/events"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/migration"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Now is the instant every FixedClock in tests starts from.
var Now = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

type Env struct {
	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Clock  *clock.FixedClock
	Authz  authorization.Service
	Audit  auditdomain.Service
	Outbox *events.Outbox
}

// NewEnv opens a private in-memory database with the full schema.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	db := OpenDB(t)
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	enforcer, err := authorization.NewEnforcer()
	if err != nil {
		t.Fatalf("new enforcer: %v", err)
	}

	log := zap.NewNop()
	clk := &clock.FixedClock{At: Now}
	env := &Env{
		DB:     db,
		Log:    log,
		GenID:  node,
		Clock:  clk,
		Authz:  authorization.NewService(authorization.Params{Log: log, Enforcer: enforcer}),
		Outbox: events.NewOutbox(db, node),
	}
	env.Audit = auditservice.NewService(auditservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Repo:  auditrepository.Provide(),
		Clock: clk,
	})
	return env
}

// OpenDB returns a migrated sqlite database scoped to the test.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := migration.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Advance moves the fixed clock forward.
func (e *Env) Advance(d time.Duration) {
	e.Clock.At = e.Clock.At.Add(d)
}

// Events returns the outbox rows for an aggregate, oldest first.
func (e *Env) Events(t *testing.T, aggregateType string, id snowflake.ID) []events.DomainEvent {
	t.Helper()
	rows, err := e.Outbox.ListByAggregate(context.Background(), aggregateType, id)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	return rows
}
