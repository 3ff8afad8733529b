// Package domain defines the chart of accounts model and the payment method
// vocabulary used to route money movements to settlement accounts.
package domain

import (
	"errors"
	"time"
)

// AccountType classifies an account for normal-balance arithmetic.
type AccountType string

const (
	Asset     AccountType = "asset"
	Liability AccountType = "liability"
	Equity    AccountType = "equity"
	Revenue   AccountType = "revenue"
	Expense   AccountType = "expense"
	COGS      AccountType = "cogs"
)

// DebitNormal reports whether debits increase the account's balance.
// Asset, expense, and cost-of-goods accounts grow on the debit side;
// liability, equity, and revenue accounts grow on the credit side.
func (t AccountType) DebitNormal() bool {
	switch t {
	case Asset, Expense, COGS:
		return true
	default:
		return false
	}
}

// PaymentMethod names how money arrived. Routing to a settlement account is
// keyed on this value and is never caller-supplied.
type PaymentMethod string

const (
	MethodCash   PaymentMethod = "cash"
	MethodBank   PaymentMethod = "bank"
	MethodPOS    PaymentMethod = "pos"
	MethodCheck  PaymentMethod = "check"
	MethodCredit PaymentMethod = "credit"
	MethodOther  PaymentMethod = "other"
)

// Account is one node of the chart of accounts. IDs are the stable account
// codes so references survive restarts and reseeds.
type Account struct {
	ID        string      `gorm:"primaryKey" json:"id"`
	Code      string      `gorm:"not null;uniqueIndex" json:"code"`
	Name      string      `gorm:"type:text;not null" json:"name"`
	Type      AccountType `gorm:"type:text;not null" json:"type"`
	ParentID  *string     `gorm:"index" json:"parent_id,omitempty"`
	Balance   float64     `gorm:"not null;default:0" json:"balance"`
	IsActive  bool        `gorm:"not null;default:true" json:"is_active"`
	Level     int         `gorm:"not null;default:0" json:"level"`
	CreatedAt time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Account) TableName() string { return "accounts" }

var (
	ErrUnknownAccount       = errors.New("unknown_account")
	ErrInvalidPaymentMethod = errors.New("invalid_payment_method")
)
