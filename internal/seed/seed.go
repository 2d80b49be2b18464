package seed

import (
	"context"
	"errors"

	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/clock"
	taskdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/fieldtask/domain"
	pkgrepository "github.com/Mr-strangerX11/Nepal-Electricity-Authority/pkg/repository"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type demoStaff struct {
	id    snowflake.ID
	name  string
	phone string
}

// Demo field staff use low fixed identifiers so development tokens can target them.
var defaultStaff = []demoStaff{
	{id: 7, name: "Hari Thapa", phone: "9800000007"},
	{id: 8, name: "Sita Gurung", phone: "9800000008"},
	{id: 9, name: "Bikash Rai", phone: "9800000009"},
}

// EnsureDemoStaff registers the demo field staff roster when it is missing.
func EnsureDemoStaff(db *gorm.DB, clk clock.Clock) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if clk == nil {
		clk = clock.SystemClock{}
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		store := pkgrepository.ProvideStore[taskdomain.StaffMember](tx)
		for _, staff := range defaultStaff {
			existing, err := store.FindByID(ctx, staff.id)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}
			now := clk.Now()
			phone := staff.phone
			if err := store.Create(ctx, &taskdomain.StaffMember{
				ID:        staff.id,
				Name:      staff.name,
				Phone:     &phone,
				Active:    true,
				CreatedAt: now,
				UpdatedAt: now,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}
