package service

import (
	"context"
	"sync"
	"time"

	"github.com/bizbooks/salesledger/internal/coa/registry"
	ledgerdomain "github.com/bizbooks/salesledger/internal/ledger/domain"
	obsmetrics "github.com/bizbooks/salesledger/internal/observability/metrics"
	paymentdomain "github.com/bizbooks/salesledger/internal/payment/domain"
	saledomain "github.com/bizbooks/salesledger/internal/sale/domain"
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
	Repo     paymentdomain.Repository
	SaleRepo saledomain.Repository
	Ledger   ledgerdomain.Service
	Metrics  *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	registry *registry.Registry
	repo     paymentdomain.Repository
	saleRepo saledomain.Repository
	ledger   ledgerdomain.Service
	metrics  *obsmetrics.Metrics

	// saleLocks serializes receipts against the same sale: remaining due is
	// read then written, so two concurrent receipts could otherwise both pass
	// the exceeds-remaining check against a stale value. Entries are evicted
	// once the sale settles; any later receipt fails the remaining-due check
	// regardless of which mutex it grabbed.
	saleLocks sync.Map // snowflake.ID -> *sync.Mutex
}

func NewService(p Params) paymentdomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("payment.service"),
		genID:    p.GenID,
		registry: p.Registry,
		repo:     p.Repo,
		saleRepo: p.SaleRepo,
		ledger:   p.Ledger,
		metrics:  p.Metrics,
	}
}

func (s *Service) lockSale(id snowflake.ID) func() {
	value, _ := s.saleLocks.LoadOrStore(id, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *Service) RecordPaymentReceived(ctx context.Context, req paymentdomain.ReceiptRequest) (paymentdomain.ReceiptResult, error) {
	if req.SaleID == 0 {
		return paymentdomain.ReceiptResult{}, paymentdomain.ErrInvalidSale
	}
	if req.Amount <= 0 {
		return paymentdomain.ReceiptResult{}, paymentdomain.ErrInvalidAmount
	}
	accountID, err := s.registry.AccountFor(req.PaymentMethod)
	if err != nil {
		return paymentdomain.ReceiptResult{}, err
	}
	accountName, err := s.registry.AccountName(accountID)
	if err != nil {
		return paymentdomain.ReceiptResult{}, err
	}

	unlock := s.lockSale(req.SaleID)
	defer unlock()

	sale, err := s.saleRepo.FindByID(ctx, s.db, req.SaleID)
	if err != nil {
		return paymentdomain.ReceiptResult{}, err
	}
	if sale == nil {
		return paymentdomain.ReceiptResult{}, saledomain.ErrNotFound
	}
	if req.Amount > sale.RemainingDue+ledgerdomain.Epsilon {
		return paymentdomain.ReceiptResult{}, &paymentdomain.ExceedsRemainingDueError{
			Requested:    req.Amount,
			RemainingDue: sale.RemainingDue,
		}
	}

	now := time.Now().UTC()
	date := req.Date
	if date.IsZero() {
		date = now
	}

	payment := paymentdomain.SalePayment{
		ID:         s.genID.Generate(),
		SaleID:     sale.ID,
		CustomerID: sale.CustomerID,
		Amount:     req.Amount,
		Date:       date,
		CreatedAt:  now,
	}
	payment.Allocations = []paymentdomain.SalePaymentAllocation{
		{
			ID:            s.genID.Generate(),
			PaymentID:     payment.ID,
			PaymentMethod: req.PaymentMethod,
			Amount:        req.Amount,
			AccountID:     accountID,
			AccountName:   accountName,
			Date:          date,
			CreatedAt:     now,
		},
	}

	entry := ledgerdomain.JournalEntry{
		Date:        date,
		Description: "Payment received " + sale.InvoiceNumber,
		Reference:   sale.InvoiceNumber,
		Lines: []ledgerdomain.JournalEntryLine{
			{AccountID: accountID, Debit: req.Amount},
			{AccountID: registry.AccountAccountsReceivable, Credit: req.Amount},
		},
		Metadata: map[string]interface{}{
			"sale_id":    sale.ID.String(),
			"payment_id": payment.ID.String(),
		},
	}

	updated := saledomain.ApplyPayment(*sale, req.Amount)
	updated.UpdatedAt = now

	// The receipt, its journal entry, and the sale update land atomically:
	// all three or none.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ledger.Post(ctx, tx, &entry); err != nil {
			return err
		}
		payment.JournalEntryID = entry.ID
		if err := s.repo.Insert(ctx, tx, &payment); err != nil {
			return err
		}
		return s.saleRepo.Update(ctx, tx, &updated)
	})
	if err != nil {
		return paymentdomain.ReceiptResult{}, err
	}

	if updated.PaymentStatus == saledomain.PaymentStatusPaid {
		s.saleLocks.Delete(req.SaleID)
	}

	if s.metrics != nil {
		s.metrics.RecordPaymentReceived(ctx)
	}
	s.log.Info("recorded payment",
		zap.String("payment_id", payment.ID.String()),
		zap.String("sale_id", sale.ID.String()),
		zap.Float64("amount", payment.Amount),
		zap.String("payment_status", string(updated.PaymentStatus)),
	)
	return paymentdomain.ReceiptResult{
		Payment:      payment,
		JournalEntry: entry,
		Sale:         updated,
	}, nil
}

func (s *Service) List(ctx context.Context, req paymentdomain.ListPaymentsRequest) ([]paymentdomain.SalePayment, error) {
	return s.repo.List(ctx, s.db, paymentdomain.ListPaymentsFilter{
		SaleID:     req.SaleID,
		CustomerID: req.CustomerID,
		Limit:      req.Limit,
	})
}
