package repository

import (
	"context"
	"errors"
	"time"

	billingdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/billing/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() billingdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, bill *billingdomain.Bill) error {
	return db.WithContext(ctx).Create(bill).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*billingdomain.Bill, error) {
	var bill billingdomain.Bill
	err := db.WithContext(ctx).Where("id = ?", id).First(&bill).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	bill.FillDerived()
	return &bill, nil
}

func (r *repo) LockByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*billingdomain.Bill, error) {
	var bill billingdomain.Bill
	err := db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&bill).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	bill.FillDerived()
	return &bill, nil
}

func (r *repo) ListByApplication(ctx context.Context, db *gorm.DB, applicationID snowflake.ID) ([]billingdomain.Bill, error) {
	var items []billingdomain.Bill
	err := db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("issued_date DESC").
		Order("id DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].FillDerived()
	}
	return items, nil
}

func (r *repo) MarkPaid(ctx context.Context, db *gorm.DB, id snowflake.ID, paidDate time.Time, reference *string, now time.Time) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE bills
		 SET status = ?, paid_date = ?, payment_reference = ?, updated_at = ?
		 WHERE id = ? AND status <> ?`,
		billingdomain.BillStatusPaid,
		paidDate,
		reference,
		now,
		id,
		billingdomain.BillStatusPaid,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *repo) AddLateFee(ctx context.Context, db *gorm.DB, id snowflake.ID, fee decimal.Decimal, now time.Time) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE bills
		 SET late_fee = late_fee + ?, updated_at = ?
		 WHERE id = ? AND status <> ?`,
		fee,
		now,
		id,
		billingdomain.BillStatusPaid,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *repo) SummaryByStatus(ctx context.Context, db *gorm.DB, start *time.Time, end *time.Time) ([]billingdomain.StatusTotal, error) {
	query := db.WithContext(ctx).
		Model(&billingdomain.Bill{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS amount").
		Group("status")
	if start != nil {
		query = query.Where("issued_date >= ?", *start)
	}
	if end != nil {
		query = query.Where("issued_date <= ?", *end)
	}

	var rows []billingdomain.StatusTotal
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
