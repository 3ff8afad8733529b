// Package seed bootstraps required reference data at startup.
package seed

import (
	"context"
	"errors"
	"time"

	coadomain "github.com/bizbooks/salesledger/internal/coa/domain"
	"github.com/bizbooks/salesledger/internal/coa/registry"
	"gorm.io/gorm"
)

// EnsureChartOfAccounts inserts any registry account missing from the store.
// Existing rows keep their balances; the seed never resets a posted account.
func EnsureChartOfAccounts(db *gorm.DB, reg *registry.Registry) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if reg == nil {
		return errors.New("seed registry is required")
	}

	ctx := context.Background()
	now := time.Now().UTC()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, acc := range reg.Accounts() {
			var existing coadomain.Account
			err := tx.WithContext(ctx).First(&existing, "id = ?", acc.ID).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			acc.Balance = 0
			acc.CreatedAt = now
			acc.UpdatedAt = now
			if err := tx.WithContext(ctx).Create(&acc).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
