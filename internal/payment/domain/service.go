package domain

import (
	"context"
	"time"

	coadomain "github.com/bizbooks/salesledger/internal/coa/domain"
	ledgerdomain "github.com/bizbooks/salesledger/internal/ledger/domain"
	saledomain "github.com/bizbooks/salesledger/internal/sale/domain"
	"github.com/bwmarrin/snowflake"
)

// ReceiptRequest records one payment against an existing sale.
type ReceiptRequest struct {
	SaleID        snowflake.ID
	Amount        float64
	PaymentMethod coadomain.PaymentMethod
	Date          time.Time
}

// ReceiptResult pairs the recorded payment with its journal entry and the
// sale as updated by the receipt.
type ReceiptResult struct {
	Payment      SalePayment
	JournalEntry ledgerdomain.JournalEntry
	Sale         saledomain.Sale
}

type ListPaymentsRequest struct {
	SaleID     snowflake.ID
	CustomerID snowflake.ID
	Limit      int
}

type Service interface {
	RecordPaymentReceived(ctx context.Context, req ReceiptRequest) (ReceiptResult, error)
	List(ctx context.Context, req ListPaymentsRequest) ([]SalePayment, error)
}
