// Package domain contains the sale model and its pure payment-state
// derivations. Every mutation path derives TotalPaid/RemainingDue/
// PaymentStatus through the functions here so the stored fields can
// never drift from the underlying amounts.
package domain

import (
	"errors"
	"fmt"
	"time"

	ledgerdomain "github.com/bizbooks/salesledger/internal/ledger/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// PaymentStatus is the derived settlement state of a sale. Transitions are
// monotonic: pending -> partial -> paid, never backwards.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// SaleItem is an invoice line. Immutable once attached to a sale.
type SaleItem struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	SaleID      snowflake.ID `gorm:"not null;index" json:"sale_id"`
	ItemID      string       `gorm:"not null" json:"item_id"`
	ItemName    string       `gorm:"type:text;not null" json:"item_name"`
	Quantity    float64      `gorm:"not null" json:"quantity"`
	RatePerUnit float64      `gorm:"not null" json:"rate_per_unit"`
	Amount      float64      `gorm:"not null" json:"amount"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (SaleItem) TableName() string { return "sale_items" }

// Sale is an invoice with derived payment state. Items are immutable after
// creation; TotalPaid, RemainingDue, and PaymentStatus move only through
// ApplyPayment.
type Sale struct {
	ID            snowflake.ID      `gorm:"primaryKey" json:"id"`
	InvoiceNumber string            `gorm:"not null;uniqueIndex" json:"invoice_number"`
	CustomerID    snowflake.ID      `gorm:"not null;index" json:"customer_id"`
	CustomerName  string            `gorm:"type:text;not null" json:"customer_name"`
	Items         []SaleItem        `gorm:"foreignKey:SaleID" json:"items"`
	Subtotal      float64           `gorm:"not null" json:"subtotal"`
	VATAmount     float64           `gorm:"not null" json:"vat_amount"`
	Total         float64           `gorm:"not null" json:"total"`
	TotalPaid     float64           `gorm:"not null;default:0" json:"total_paid"`
	RemainingDue  float64           `gorm:"not null;default:0" json:"remaining_due"`
	PaymentStatus PaymentStatus     `gorm:"type:text;not null;default:'pending'" json:"payment_status"`
	Date          time.Time         `gorm:"not null;index" json:"date"`
	Metadata      datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Sale) TableName() string { return "sales" }

var (
	ErrInvalidCustomer   = errors.New("invalid_customer")
	ErrInvalidItems      = errors.New("invalid_items")
	ErrInvalidQuantity   = errors.New("invalid_quantity")
	ErrInvalidRate       = errors.New("invalid_rate")
	ErrInvalidAllocation = errors.New("invalid_allocation")
	ErrInvalidID         = errors.New("invalid_id")
	ErrDuplicateInvoice  = errors.New("duplicate_invoice_number")
	ErrNotFound          = errors.New("not_found")
)

// OverpaymentError rejects initial allocations that exceed the sale total.
// Excess carries the surplus for caller display.
type OverpaymentError struct {
	Excess float64
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("overpayment: allocations exceed sale total by %.2f", e.Excess)
}

// DerivePaymentStatus derives the three-state settlement status from amounts.
func DerivePaymentStatus(totalPaid, total float64) PaymentStatus {
	switch {
	case total-totalPaid < ledgerdomain.Epsilon:
		return PaymentStatusPaid
	case totalPaid < ledgerdomain.Epsilon:
		return PaymentStatusPending
	default:
		return PaymentStatusPartial
	}
}

// ApplyPayment returns a new Sale with the receipt amount applied and the
// derived fields recomputed. The input is never mutated; the caller replaces
// its stored copy, which keeps the transition auditable and testable.
func ApplyPayment(sale Sale, amount float64) Sale {
	next := sale
	next.TotalPaid = sale.TotalPaid + amount
	next.RemainingDue = sale.Total - next.TotalPaid
	next.PaymentStatus = DerivePaymentStatus(next.TotalPaid, next.Total)
	return next
}
