package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListSalesFilter struct {
	CustomerID snowflake.ID
	Status     PaymentStatus
	Limit      int
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, sale *Sale) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Sale, error)
	// Update persists the payment-derived fields of an already created sale.
	// Items are immutable and never rewritten.
	Update(ctx context.Context, db *gorm.DB, sale *Sale) error
	List(ctx context.Context, db *gorm.DB, filter ListSalesFilter) ([]Sale, error)
	// FindAllByCustomer returns every sale of the customer with no limit.
	// Balance aggregation must see the full set; the capped List is for
	// paging endpoints only.
	FindAllByCustomer(ctx context.Context, db *gorm.DB, customerID snowflake.ID) ([]Sale, error)
}
