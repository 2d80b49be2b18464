package migration

import (
	"database/sql"
	"errors"
	"fmt"

	auditdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/audit/domain"
	appdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/application/domain"
	billingdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/billing/domain"
	documentdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/document/domain"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/events"
	taskdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/fieldtask/domain"
	paymentdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/payment/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"
)

// Models lists every persisted type in dependency order.
func Models() []any {
	return []any{
		&auditdomain.AuditLog{},
		&events.DomainEvent{},
		&appdomain.Application{},
		&appdomain.StatusHistory{},
		&taskdomain.StaffMember{},
		&taskdomain.Task{},
		&billingdomain.Bill{},
		&paymentdomain.Attempt{},
		&documentdomain.Document{},
	}
}

// RunMigrations applies the embedded SQL migrations to a postgres database.
func RunMigrations(db *sql.DB) error {
	source, err := iofs.New(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migration source: %w", err)
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("open migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// AutoMigrate creates the schema from the models. Used for sqlite.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// Apply picks the strategy that matches the connected dialect.
func Apply(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return AutoMigrate(db)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return RunMigrations(sqlDB)
}
