// Package migration applies the schema and seeds reference data on startup.
package migration

import (
	coadomain "github.com/bizbooks/salesledger/internal/coa/domain"
	"github.com/bizbooks/salesledger/internal/coa/registry"
	ledgerdomain "github.com/bizbooks/salesledger/internal/ledger/domain"
	paymentdomain "github.com/bizbooks/salesledger/internal/payment/domain"
	saledomain "github.com/bizbooks/salesledger/internal/sale/domain"
	"github.com/bizbooks/salesledger/internal/seed"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func Run(db *gorm.DB, reg *registry.Registry, log *zap.Logger) error {
	if err := db.AutoMigrate(
		&coadomain.Account{},
		&saledomain.Sale{},
		&saledomain.SaleItem{},
		&paymentdomain.SalePayment{},
		&paymentdomain.SalePaymentAllocation{},
		&ledgerdomain.JournalEntry{},
		&ledgerdomain.JournalEntryLine{},
	); err != nil {
		return err
	}
	if err := seed.EnsureChartOfAccounts(db, reg); err != nil {
		return err
	}
	log.Info("schema migrated and chart of accounts seeded")
	return nil
}

var Module = fx.Module("migration",
	fx.Invoke(Run),
)
