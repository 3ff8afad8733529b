// Package domain contains the payment receipt model. Receipts are
// append-only: a SalePayment is never edited or removed once recorded.
package domain

import (
	"errors"
	"fmt"
	"time"

	coadomain "github.com/bizbooks/salesledger/internal/coa/domain"
	"github.com/bwmarrin/snowflake"
)

// SalePaymentAllocation routes a portion of one receipt to a settlement
// account. The account is derived from the payment method, never
// caller-supplied.
type SalePaymentAllocation struct {
	ID            snowflake.ID            `gorm:"primaryKey" json:"id"`
	PaymentID     snowflake.ID            `gorm:"not null;index" json:"payment_id"`
	PaymentMethod coadomain.PaymentMethod `gorm:"type:text;not null" json:"payment_method"`
	Amount        float64                 `gorm:"not null" json:"amount"`
	AccountID     string                  `gorm:"not null;index" json:"account_id"`
	AccountName   string                  `gorm:"type:text;not null" json:"account_name"`
	Date          time.Time               `gorm:"not null" json:"date"`
	CreatedAt     time.Time               `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (SalePaymentAllocation) TableName() string { return "sale_payment_allocations" }

// SalePayment is one receipt event against a sale.
type SalePayment struct {
	ID             snowflake.ID            `gorm:"primaryKey" json:"id"`
	SaleID         snowflake.ID            `gorm:"not null;index" json:"sale_id"`
	CustomerID     snowflake.ID            `gorm:"not null;index" json:"customer_id"`
	Amount         float64                 `gorm:"not null" json:"amount"`
	Allocations    []SalePaymentAllocation `gorm:"foreignKey:PaymentID" json:"allocations"`
	Date           time.Time               `gorm:"not null;index" json:"date"`
	JournalEntryID snowflake.ID            `gorm:"not null;index" json:"journal_entry_id"`
	CreatedAt      time.Time               `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (SalePayment) TableName() string { return "sale_payments" }

var (
	ErrInvalidAmount = errors.New("invalid_amount")
	ErrInvalidSale   = errors.New("invalid_sale")
	ErrNotFound      = errors.New("not_found")
)

// ExceedsRemainingDueError rejects a receipt larger than the sale's remaining
// due. The core never auto-clamps; the caller may confirm and resubmit an
// adjusted amount.
type ExceedsRemainingDueError struct {
	Requested    float64
	RemainingDue float64
}

func (e *ExceedsRemainingDueError) Error() string {
	return fmt.Sprintf("exceeds_remaining_due: requested %.2f, remaining %.2f", e.Requested, e.RemainingDue)
}
