package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListPaymentsFilter struct {
	SaleID     snowflake.ID
	CustomerID snowflake.ID
	Limit      int
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, payment *SalePayment) error
	List(ctx context.Context, db *gorm.DB, filter ListPaymentsFilter) ([]SalePayment, error)
	// FindAllByCustomer returns every receipt of the customer with no limit,
	// for balance aggregation.
	FindAllByCustomer(ctx context.Context, db *gorm.DB, customerID snowflake.ID) ([]SalePayment, error)
}
