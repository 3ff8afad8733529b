package service

import (
	"context"
	"time"

	coadomain "github.com/bizbooks/salesledger/internal/coa/domain"
	"github.com/bizbooks/salesledger/internal/coa/registry"
	ledgerdomain "github.com/bizbooks/salesledger/internal/ledger/domain"
	obsmetrics "github.com/bizbooks/salesledger/internal/observability/metrics"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Registry *registry.Registry
	Metrics  *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	registry *registry.Registry
	metrics  *obsmetrics.Metrics
}

func NewService(p Params) ledgerdomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("ledger.service"),
		genID:    p.GenID,
		registry: p.Registry,
		metrics:  p.Metrics,
	}
}

func (s *Service) Post(ctx context.Context, tx *gorm.DB, entry *ledgerdomain.JournalEntry) error {
	if entry == nil {
		return ledgerdomain.ErrInvalidEntryLines
	}
	if entry.Status == ledgerdomain.EntryStatusPosted {
		return ledgerdomain.ErrEntryAlreadyPosted
	}
	if err := ledgerdomain.ValidateLines(entry.Lines); err != nil {
		return err
	}

	for i := range entry.Lines {
		acc, err := s.registry.Lookup(entry.Lines[i].AccountID)
		if err != nil {
			s.log.Error("journal line targets unknown account",
				zap.String("account_id", entry.Lines[i].AccountID),
				zap.String("reference", entry.Reference),
			)
			return err
		}
		if entry.Lines[i].AccountName == "" {
			entry.Lines[i].AccountName = acc.Name
		}
	}

	entry.TotalDebit, entry.TotalCredit = ledgerdomain.Totals(entry.Lines)
	if err := ledgerdomain.ValidateBalanced(entry.Lines); err != nil {
		// Internal invariant violation: log as a defect, abort the operation.
		s.log.Error("refusing to post unbalanced journal entry",
			zap.Float64("total_debit", entry.TotalDebit),
			zap.Float64("total_credit", entry.TotalCredit),
			zap.String("reference", entry.Reference),
		)
		if s.metrics != nil {
			s.metrics.RecordUnbalancedEntry(ctx)
		}
		return err
	}

	now := time.Now().UTC()
	if entry.ID == 0 {
		entry.ID = s.genID.Generate()
	}
	if entry.Date.IsZero() {
		entry.Date = now
	}
	entry.Status = ledgerdomain.EntryStatusPosted
	entry.CreatedAt = now
	for i := range entry.Lines {
		entry.Lines[i].ID = s.genID.Generate()
		entry.Lines[i].EntryID = entry.ID
		entry.Lines[i].CreatedAt = now
	}

	if err := tx.WithContext(ctx).Create(entry).Error; err != nil {
		return err
	}

	for _, line := range entry.Lines {
		acc, err := s.registry.Lookup(line.AccountID)
		if err != nil {
			return err
		}
		delta := line.Debit - line.Credit
		if !acc.Type.DebitNormal() {
			delta = line.Credit - line.Debit
		}
		if err := tx.WithContext(ctx).Exec(
			`UPDATE accounts SET balance = balance + ?, updated_at = ? WHERE id = ?`,
			delta, now, line.AccountID,
		).Error; err != nil {
			return err
		}
	}

	if s.metrics != nil {
		s.metrics.RecordLedgerEntry(ctx)
	}
	s.log.Info("posted journal entry",
		zap.String("entry_id", entry.ID.String()),
		zap.String("reference", entry.Reference),
		zap.Float64("total_debit", entry.TotalDebit),
	)
	return nil
}

func (s *Service) ListEntries(ctx context.Context, req ledgerdomain.ListEntriesRequest) ([]ledgerdomain.JournalEntry, error) {
	limit := req.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	stmt := s.db.WithContext(ctx).
		Model(&ledgerdomain.JournalEntry{}).
		Preload("Lines")
	if req.Reference != "" {
		stmt = stmt.Where("reference = ?", req.Reference)
	}
	var entries []ledgerdomain.JournalEntry
	if err := stmt.
		Order("date desc, id desc").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Service) ListAccounts(ctx context.Context) ([]coadomain.Account, error) {
	var accounts []coadomain.Account
	if err := s.db.WithContext(ctx).
		Order("code asc").
		Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}
