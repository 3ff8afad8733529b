package service

import (
	"context"
	"strings"
	"time"

	"github.com/bizbooks/salesledger/internal/coa/registry"
	"github.com/bizbooks/salesledger/internal/config"
	ledgerdomain "github.com/bizbooks/salesledger/internal/ledger/domain"
	obsmetrics "github.com/bizbooks/salesledger/internal/observability/metrics"
	saledomain "github.com/bizbooks/salesledger/internal/sale/domain"
	pkgdb "github.com/bizbooks/salesledger/pkg/db"
	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
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
	Repo     saledomain.Repository
	Ledger   ledgerdomain.Service
	Policy   *config.LedgerPolicyHolder
	Metrics  *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	registry *registry.Registry
	repo     saledomain.Repository
	ledger   ledgerdomain.Service
	policy   *config.LedgerPolicyHolder
	metrics  *obsmetrics.Metrics
}

func NewService(p Params) saledomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("sale.service"),
		genID:    p.GenID,
		registry: p.Registry,
		repo:     p.Repo,
		ledger:   p.Ledger,
		policy:   p.Policy,
		metrics:  p.Metrics,
	}
}

func (s *Service) CreateSaleWithPartialPayment(ctx context.Context, req saledomain.CreateSaleRequest) (saledomain.CreateSaleResult, error) {
	if req.CustomerID == 0 || strings.TrimSpace(req.CustomerName) == "" {
		return saledomain.CreateSaleResult{}, saledomain.ErrInvalidCustomer
	}
	if len(req.Items) == 0 {
		return saledomain.CreateSaleResult{}, saledomain.ErrInvalidItems
	}

	itemAmounts := make([]float64, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return saledomain.CreateSaleResult{}, saledomain.ErrInvalidQuantity
		}
		if item.RatePerUnit <= 0 {
			return saledomain.CreateSaleResult{}, saledomain.ErrInvalidRate
		}
		itemAmounts = append(itemAmounts, item.Quantity*item.RatePerUnit)
	}

	totals := ledgerdomain.ComputeSaleTotals(itemAmounts, s.policy.Current().VATRate)

	var totalPaid float64
	for _, alloc := range req.InitialAllocations {
		if alloc.Amount <= 0 {
			return saledomain.CreateSaleResult{}, saledomain.ErrInvalidAllocation
		}
		if _, err := s.registry.AccountFor(alloc.PaymentMethod); err != nil {
			return saledomain.CreateSaleResult{}, err
		}
		totalPaid += alloc.Amount
	}
	if totalPaid > totals.Total+ledgerdomain.Epsilon {
		return saledomain.CreateSaleResult{}, &saledomain.OverpaymentError{
			Excess: ledgerdomain.Round2(totalPaid - totals.Total),
		}
	}

	now := time.Now().UTC()
	date := req.Date
	if date.IsZero() {
		date = now
	}
	invoiceNumber := strings.TrimSpace(req.InvoiceNumber)
	if invoiceNumber == "" {
		invoiceNumber = "INV-" + ulid.Make().String()
	}

	sale := saledomain.Sale{
		ID:            s.genID.Generate(),
		InvoiceNumber: invoiceNumber,
		CustomerID:    req.CustomerID,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		Subtotal:      totals.Subtotal,
		VATAmount:     totals.VATAmount,
		Total:         totals.Total,
		TotalPaid:     totalPaid,
		RemainingDue:  totals.Total - totalPaid,
		PaymentStatus: saledomain.DerivePaymentStatus(totalPaid, totals.Total),
		Date:          date,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, item := range req.Items {
		sale.Items = append(sale.Items, saledomain.SaleItem{
			ID:          s.genID.Generate(),
			SaleID:      sale.ID,
			ItemID:      item.ItemID,
			ItemName:    item.ItemName,
			Quantity:    item.Quantity,
			RatePerUnit: item.RatePerUnit,
			Amount:      item.Quantity * item.RatePerUnit,
			CreatedAt:   now,
		})
	}

	entry, err := s.buildOriginatingEntry(sale, req.InitialAllocations, totals)
	if err != nil {
		return saledomain.CreateSaleResult{}, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, &sale); err != nil {
			if pkgdb.IsDuplicateKeyErr(err) {
				return saledomain.ErrDuplicateInvoice
			}
			return err
		}
		return s.ledger.Post(ctx, tx, &entry)
	})
	if err != nil {
		return saledomain.CreateSaleResult{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordSaleCreated(ctx)
	}
	s.log.Info("created sale",
		zap.String("sale_id", sale.ID.String()),
		zap.String("invoice_number", sale.InvoiceNumber),
		zap.Float64("total", sale.Total),
		zap.Float64("total_paid", sale.TotalPaid),
		zap.String("payment_status", string(sale.PaymentStatus)),
	)
	return saledomain.CreateSaleResult{Sale: sale, JournalEntry: entry}, nil
}

// buildOriginatingEntry assembles the sale's journal entry: one debit per
// allocation's settlement account, a debit to Accounts Receivable for any
// remaining due, and credits for revenue and VAT. The debit side is
// totalPaid + remainingDue, which equals subtotal + vatAmount exactly when
// the inputs are valid; the ledger service re-verifies before posting.
func (s *Service) buildOriginatingEntry(sale saledomain.Sale, allocations []saledomain.AllocationInput, totals ledgerdomain.SaleTotals) (ledgerdomain.JournalEntry, error) {
	var lines []ledgerdomain.JournalEntryLine
	for _, alloc := range allocations {
		accountID, err := s.registry.AccountFor(alloc.PaymentMethod)
		if err != nil {
			return ledgerdomain.JournalEntry{}, err
		}
		lines = append(lines, ledgerdomain.JournalEntryLine{
			AccountID: accountID,
			Debit:     alloc.Amount,
		})
	}
	if sale.RemainingDue > ledgerdomain.Epsilon {
		lines = append(lines, ledgerdomain.JournalEntryLine{
			AccountID: registry.AccountAccountsReceivable,
			Debit:     sale.RemainingDue,
		})
	}
	lines = append(lines, ledgerdomain.JournalEntryLine{
		AccountID: registry.AccountSalesRevenue,
		Credit:    totals.Subtotal,
	})
	if totals.VATAmount > 0 {
		lines = append(lines, ledgerdomain.JournalEntryLine{
			AccountID: registry.AccountVATPayable,
			Credit:    totals.VATAmount,
		})
	}

	return ledgerdomain.JournalEntry{
		Date:        sale.Date,
		Description: "Sale " + sale.InvoiceNumber,
		Reference:   sale.InvoiceNumber,
		Lines:       lines,
		Metadata: map[string]interface{}{
			"sale_id":     sale.ID.String(),
			"customer_id": sale.CustomerID.String(),
		},
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (saledomain.Sale, error) {
	if id == 0 {
		return saledomain.Sale{}, saledomain.ErrInvalidID
	}
	sale, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return saledomain.Sale{}, err
	}
	if sale == nil {
		return saledomain.Sale{}, saledomain.ErrNotFound
	}
	return *sale, nil
}

func (s *Service) List(ctx context.Context, req saledomain.ListSalesRequest) ([]saledomain.Sale, error) {
	return s.repo.List(ctx, s.db, saledomain.ListSalesFilter{
		CustomerID: req.CustomerID,
		Status:     req.Status,
		Limit:      req.Limit,
	})
}
