package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	coadomain "github.com/bizbooks/salesledger/internal/coa/domain"
	"github.com/bizbooks/salesledger/internal/coa/registry"
	ledgerdomain "github.com/bizbooks/salesledger/internal/ledger/domain"
	"github.com/bizbooks/salesledger/internal/seed"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestLedger(t *testing.T) (*gorm.DB, ledgerdomain.Service) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&coadomain.Account{},
		&ledgerdomain.JournalEntry{},
		&ledgerdomain.JournalEntryLine{},
	))

	reg := registry.New()
	require.NoError(t, seed.EnsureChartOfAccounts(db, reg))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return db, NewService(Params{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Registry: reg,
	})
}

func post(t *testing.T, db *gorm.DB, svc ledgerdomain.Service, entry *ledgerdomain.JournalEntry) error {
	t.Helper()
	return db.Transaction(func(tx *gorm.DB) error {
		return svc.Post(context.Background(), tx, entry)
	})
}

func TestPost_BalancedEntryUpdatesBalances(t *testing.T) {
	db, svc := newTestLedger(t)

	entry := &ledgerdomain.JournalEntry{
		Description: "Sale INV-3001",
		Reference:   "INV-3001",
		Lines: []ledgerdomain.JournalEntryLine{
			{AccountID: registry.AccountCash, Debit: 10500},
			{AccountID: registry.AccountSalesRevenue, Credit: 10000},
			{AccountID: registry.AccountVATPayable, Credit: 500},
		},
	}
	require.NoError(t, post(t, db, svc, entry))

	assert.Equal(t, ledgerdomain.EntryStatusPosted, entry.Status)
	assert.Equal(t, float64(10500), entry.TotalDebit)
	assert.Equal(t, float64(10500), entry.TotalCredit)
	assert.NotZero(t, entry.ID)
	for _, line := range entry.Lines {
		assert.Equal(t, entry.ID, line.EntryID)
		assert.NotEmpty(t, line.AccountName)
	}

	var cash, revenue, vat coadomain.Account
	require.NoError(t, db.First(&cash, "id = ?", registry.AccountCash).Error)
	require.NoError(t, db.First(&revenue, "id = ?", registry.AccountSalesRevenue).Error)
	require.NoError(t, db.First(&vat, "id = ?", registry.AccountVATPayable).Error)
	assert.Equal(t, float64(10500), cash.Balance)
	assert.Equal(t, float64(10000), revenue.Balance)
	assert.Equal(t, float64(500), vat.Balance)
}

func TestPost_DebitReducesCreditNormalAccount(t *testing.T) {
	db, svc := newTestLedger(t)

	entry := &ledgerdomain.JournalEntry{
		Reference: "ADJ-1",
		Lines: []ledgerdomain.JournalEntryLine{
			{AccountID: registry.AccountVATPayable, Debit: 100},
			{AccountID: registry.AccountCash, Credit: 100},
		},
	}
	require.NoError(t, post(t, db, svc, entry))

	var vat, cash coadomain.Account
	require.NoError(t, db.First(&vat, "id = ?", registry.AccountVATPayable).Error)
	require.NoError(t, db.First(&cash, "id = ?", registry.AccountCash).Error)
	assert.Equal(t, float64(-100), vat.Balance)
	assert.Equal(t, float64(-100), cash.Balance)
}

func TestPost_RejectsUnbalancedEntry(t *testing.T) {
	db, svc := newTestLedger(t)

	entry := &ledgerdomain.JournalEntry{
		Reference: "BAD-1",
		Lines: []ledgerdomain.JournalEntryLine{
			{AccountID: registry.AccountCash, Debit: 10500},
			{AccountID: registry.AccountSalesRevenue, Credit: 10000},
		},
	}
	err := post(t, db, svc, entry)
	var unbalanced *ledgerdomain.UnbalancedEntryError
	require.ErrorAs(t, err, &unbalanced)
	assert.Equal(t, float64(10500), unbalanced.TotalDebit)
	assert.Equal(t, float64(10000), unbalanced.TotalCredit)

	// Nothing persisted, no balance moved.
	var count int64
	db.Model(&ledgerdomain.JournalEntry{}).Count(&count)
	assert.Equal(t, int64(0), count)
	var cash coadomain.Account
	require.NoError(t, db.First(&cash, "id = ?", registry.AccountCash).Error)
	assert.Equal(t, float64(0), cash.Balance)
}

func TestPost_ToleratesRoundingDust(t *testing.T) {
	db, svc := newTestLedger(t)

	entry := &ledgerdomain.JournalEntry{
		Reference: "DUST-1",
		Lines: []ledgerdomain.JournalEntryLine{
			{AccountID: registry.AccountCash, Debit: 100.004},
			{AccountID: registry.AccountSalesRevenue, Credit: 100.00},
		},
	}
	assert.NoError(t, post(t, db, svc, entry))
}

func TestPost_RejectsMalformedLines(t *testing.T) {
	db, svc := newTestLedger(t)

	cases := []struct {
		name    string
		entry   *ledgerdomain.JournalEntry
		wantErr error
	}{
		{
			"single line",
			&ledgerdomain.JournalEntry{Lines: []ledgerdomain.JournalEntryLine{
				{AccountID: registry.AccountCash, Debit: 100},
			}},
			ledgerdomain.ErrInvalidEntryLines,
		},
		{
			"missing account",
			&ledgerdomain.JournalEntry{Lines: []ledgerdomain.JournalEntryLine{
				{Debit: 100},
				{AccountID: registry.AccountSalesRevenue, Credit: 100},
			}},
			ledgerdomain.ErrInvalidLineAccount,
		},
		{
			"line with both sides",
			&ledgerdomain.JournalEntry{Lines: []ledgerdomain.JournalEntryLine{
				{AccountID: registry.AccountCash, Debit: 100, Credit: 100},
				{AccountID: registry.AccountSalesRevenue, Credit: 100},
			}},
			ledgerdomain.ErrCompoundLine,
		},
		{
			"line with no amount",
			&ledgerdomain.JournalEntry{Lines: []ledgerdomain.JournalEntryLine{
				{AccountID: registry.AccountCash},
				{AccountID: registry.AccountSalesRevenue},
			}},
			ledgerdomain.ErrInvalidLineAmount,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, post(t, db, svc, tc.entry), tc.wantErr)
		})
	}
}

func TestPost_RejectsUnknownAccount(t *testing.T) {
	db, svc := newTestLedger(t)

	entry := &ledgerdomain.JournalEntry{
		Lines: []ledgerdomain.JournalEntryLine{
			{AccountID: "9999", Debit: 100},
			{AccountID: registry.AccountSalesRevenue, Credit: 100},
		},
	}
	assert.ErrorIs(t, post(t, db, svc, entry), coadomain.ErrUnknownAccount)
}

func TestPost_RejectsAlreadyPostedEntry(t *testing.T) {
	db, svc := newTestLedger(t)

	entry := &ledgerdomain.JournalEntry{
		Reference: "INV-3002",
		Lines: []ledgerdomain.JournalEntryLine{
			{AccountID: registry.AccountCash, Debit: 100},
			{AccountID: registry.AccountSalesRevenue, Credit: 100},
		},
	}
	require.NoError(t, post(t, db, svc, entry))
	assert.ErrorIs(t, post(t, db, svc, entry), ledgerdomain.ErrEntryAlreadyPosted)
}

func TestListEntries_FiltersByReference(t *testing.T) {
	db, svc := newTestLedger(t)

	for i, ref := range []string{"INV-A", "INV-B"} {
		entry := &ledgerdomain.JournalEntry{
			Reference: ref,
			Lines: []ledgerdomain.JournalEntryLine{
				{AccountID: registry.AccountCash, Debit: float64(100 * (i + 1))},
				{AccountID: registry.AccountSalesRevenue, Credit: float64(100 * (i + 1))},
			},
		}
		require.NoError(t, post(t, db, svc, entry))
	}

	entries, err := svc.ListEntries(context.Background(), ledgerdomain.ListEntriesRequest{Reference: "INV-A"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "INV-A", entries[0].Reference)
	assert.Len(t, entries[0].Lines, 2)
}
