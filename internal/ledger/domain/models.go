// Package domain contains the journal entry model and the balance invariant.
package domain

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// EntryStatus represents journal entry lifecycle states.
type EntryStatus string

const (
	EntryStatusDraft  EntryStatus = "draft"
	EntryStatusPosted EntryStatus = "posted"
)

// Epsilon is the tolerance for debit/credit equality, half a cent to absorb
// floating-point drift.
const Epsilon = 0.005

// JournalEntryLine is a double-entry posting line. Exactly one of Debit and
// Credit is non-zero.
type JournalEntryLine struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	EntryID     snowflake.ID `gorm:"not null;index" json:"entry_id"`
	AccountID   string       `gorm:"not null;index" json:"account_id"`
	AccountName string       `gorm:"type:text;not null" json:"account_name"`
	Debit       float64      `gorm:"not null;default:0" json:"debit"`
	Credit      float64      `gorm:"not null;default:0" json:"credit"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (JournalEntryLine) TableName() string { return "journal_entry_lines" }

// JournalEntry captures one balanced financial event. Once posted it is
// immutable and append-only.
type JournalEntry struct {
	ID          snowflake.ID       `gorm:"primaryKey" json:"id"`
	Date        time.Time          `gorm:"not null;index" json:"date"`
	Description string             `gorm:"type:text" json:"description"`
	Reference   string             `gorm:"type:text;index" json:"reference"`
	Lines       []JournalEntryLine `gorm:"foreignKey:EntryID" json:"lines"`
	TotalDebit  float64            `gorm:"not null;default:0" json:"total_debit"`
	TotalCredit float64            `gorm:"not null;default:0" json:"total_credit"`
	Status      EntryStatus        `gorm:"type:text;not null;default:'draft'" json:"status"`
	Metadata    datatypes.JSONMap  `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt   time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (JournalEntry) TableName() string { return "journal_entries" }

var (
	ErrInvalidEntryLines  = errors.New("invalid_entry_lines")
	ErrInvalidLineAmount  = errors.New("invalid_line_amount")
	ErrInvalidLineAccount = errors.New("invalid_line_account")
	ErrCompoundLine       = errors.New("compound_line")
	ErrEntryAlreadyPosted = errors.New("entry_already_posted")
	ErrNotFound           = errors.New("not_found")
)

// UnbalancedEntryError signals an entry whose debit and credit totals differ
// beyond Epsilon. It is an internal-logic fault, never expected from valid
// input through the public operations.
type UnbalancedEntryError struct {
	TotalDebit  float64
	TotalCredit float64
}

func (e *UnbalancedEntryError) Error() string {
	return fmt.Sprintf("unbalanced_entry: debit %.2f != credit %.2f", e.TotalDebit, e.TotalCredit)
}

// Totals sums the debit and credit sides of a line set.
func Totals(lines []JournalEntryLine) (debit, credit float64) {
	for _, line := range lines {
		debit += line.Debit
		credit += line.Credit
	}
	return debit, credit
}

// IsBalanced reports whether the entry's debit and credit totals agree within
// Epsilon. This is the only gate allowed to promote an entry to posted.
func IsBalanced(entry JournalEntry) bool {
	return math.Abs(entry.TotalDebit-entry.TotalCredit) < Epsilon
}

// ValidateLines checks line shape: at least two lines, an account on every
// line, and exactly one of debit/credit non-zero per line.
func ValidateLines(lines []JournalEntryLine) error {
	if len(lines) < 2 {
		return ErrInvalidEntryLines
	}
	for _, line := range lines {
		if line.AccountID == "" {
			return ErrInvalidLineAccount
		}
		if line.Debit < 0 || line.Credit < 0 {
			return ErrInvalidLineAmount
		}
		if line.Debit > 0 && line.Credit > 0 {
			return ErrCompoundLine
		}
		if line.Debit == 0 && line.Credit == 0 {
			return ErrInvalidLineAmount
		}
	}
	return nil
}

// ValidateBalanced checks that a line set debits and credits the same total.
func ValidateBalanced(lines []JournalEntryLine) error {
	debit, credit := Totals(lines)
	if math.Abs(debit-credit) >= Epsilon {
		return &UnbalancedEntryError{TotalDebit: debit, TotalCredit: credit}
	}
	return nil
}
