package domain

import (
	"context"

	coadomain "github.com/bizbooks/salesledger/internal/coa/domain"
	"gorm.io/gorm"
)

// ListEntriesRequest filters the posted journal.
type ListEntriesRequest struct {
	Reference string
	Limit     int
}

// Service posts balanced journal entries and serves ledger reads.
type Service interface {
	// Post validates the entry, promotes it to posted, persists it together
	// with its lines inside the caller's transaction, and applies each line
	// to its account's running balance. The entry is rejected wholesale if
	// any check fails.
	Post(ctx context.Context, tx *gorm.DB, entry *JournalEntry) error
	ListEntries(ctx context.Context, req ListEntriesRequest) ([]JournalEntry, error)
	ListAccounts(ctx context.Context) ([]coadomain.Account, error)
}
