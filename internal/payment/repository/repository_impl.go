package repository

import (
	"context"

	"github.com/bizbooks/salesledger/internal/payment/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, payment *domain.SalePayment) error {
	return db.WithContext(ctx).Create(payment).Error
}

func (r *repo) FindAllByCustomer(ctx context.Context, db *gorm.DB, customerID snowflake.ID) ([]domain.SalePayment, error) {
	var payments []domain.SalePayment
	err := db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("date asc, id asc").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListPaymentsFilter) ([]domain.SalePayment, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	stmt := db.WithContext(ctx).
		Model(&domain.SalePayment{}).
		Preload("Allocations")
	if filter.SaleID != 0 {
		stmt = stmt.Where("sale_id = ?", filter.SaleID)
	}
	if filter.CustomerID != 0 {
		stmt = stmt.Where("customer_id = ?", filter.CustomerID)
	}
	var payments []domain.SalePayment
	err := stmt.
		Order("date asc, id asc").
		Limit(limit).
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}
