package repository

import (
	"context"
	"errors"

	"github.com/bizbooks/salesledger/internal/sale/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, sale *domain.Sale) error {
	return db.WithContext(ctx).Create(sale).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Sale, error) {
	var sale domain.Sale
	err := db.WithContext(ctx).
		Preload("Items").
		First(&sale, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sale, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, sale *domain.Sale) error {
	return db.WithContext(ctx).Exec(
		`UPDATE sales
		 SET total_paid = ?, remaining_due = ?, payment_status = ?, updated_at = ?
		 WHERE id = ?`,
		sale.TotalPaid,
		sale.RemainingDue,
		sale.PaymentStatus,
		sale.UpdatedAt,
		sale.ID,
	).Error
}

func (r *repo) FindAllByCustomer(ctx context.Context, db *gorm.DB, customerID snowflake.ID) ([]domain.Sale, error) {
	var sales []domain.Sale
	err := db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("date asc, id asc").
		Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListSalesFilter) ([]domain.Sale, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	stmt := db.WithContext(ctx).
		Model(&domain.Sale{}).
		Preload("Items")
	if filter.CustomerID != 0 {
		stmt = stmt.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("payment_status = ?", filter.Status)
	}
	var sales []domain.Sale
	err := stmt.
		Order("date desc, id desc").
		Limit(limit).
		Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}
