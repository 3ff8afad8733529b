package domain

import (
	"context"
	"time"

	coadomain "github.com/bizbooks/salesledger/internal/coa/domain"
	ledgerdomain "github.com/bizbooks/salesledger/internal/ledger/domain"
	"github.com/bwmarrin/snowflake"
)

// SaleItemInput is one invoice line in a create request.
type SaleItemInput struct {
	ItemID      string
	ItemName    string
	Quantity    float64
	RatePerUnit float64
}

// AllocationInput is one portion of the initial payment, routed to an account
// by payment method. The routing account is never caller-supplied.
type AllocationInput struct {
	PaymentMethod coadomain.PaymentMethod
	Amount        float64
}

// CreateSaleRequest creates a sale with zero or more initial allocations.
// InvoiceNumber is generated when empty.
type CreateSaleRequest struct {
	CustomerID         snowflake.ID
	CustomerName       string
	Items              []SaleItemInput
	InvoiceNumber      string
	Date               time.Time
	InitialAllocations []AllocationInput
}

// CreateSaleResult pairs the created sale with its originating journal entry.
type CreateSaleResult struct {
	Sale         Sale
	JournalEntry ledgerdomain.JournalEntry
}

type ListSalesRequest struct {
	CustomerID snowflake.ID
	Status     PaymentStatus
	Limit      int
}

type Service interface {
	CreateSaleWithPartialPayment(ctx context.Context, req CreateSaleRequest) (CreateSaleResult, error)
	GetByID(ctx context.Context, id snowflake.ID) (Sale, error)
	List(ctx context.Context, req ListSalesRequest) ([]Sale, error)
}
