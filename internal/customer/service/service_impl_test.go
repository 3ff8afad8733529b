package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	coadomain "github.com/bizbooks/salesledger/internal/coa/domain"
	"github.com/bizbooks/salesledger/internal/config"
	customerdomain "github.com/bizbooks/salesledger/internal/customer/domain"
	paymentdomain "github.com/bizbooks/salesledger/internal/payment/domain"
	paymentrepository "github.com/bizbooks/salesledger/internal/payment/repository"
	saledomain "github.com/bizbooks/salesledger/internal/sale/domain"
	salerepository "github.com/bizbooks/salesledger/internal/sale/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*gorm.DB, customerdomain.Service) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&coadomain.Account{},
		&saledomain.Sale{},
		&saledomain.SaleItem{},
		&paymentdomain.SalePayment{},
		&paymentdomain.SalePaymentAllocation{},
	))

	policy, err := config.NewStaticLedgerPolicyHolder(config.DefaultLedgerPolicy())
	require.NoError(t, err)

	svc := NewService(Params{
		DB:          db,
		Log:         zap.NewNop(),
		SaleRepo:    salerepository.Provide(),
		PaymentRepo: paymentrepository.Provide(),
		Policy:      policy,
	})
	return db, svc
}

func TestBalance_AggregatesBeyondListingCap(t *testing.T) {
	db, svc := newTestService(t)
	node, _ := snowflake.NewNode(1)
	customerID := node.Generate()
	now := time.Now().UTC()

	// More sales than any paging endpoint would ever return in one call.
	const saleCount = 600
	sales := make([]saledomain.Sale, 0, saleCount)
	for i := 0; i < saleCount; i++ {
		sales = append(sales, saledomain.Sale{
			ID:            node.Generate(),
			InvoiceNumber: fmt.Sprintf("INV-BULK-%04d", i),
			CustomerID:    customerID,
			CustomerName:  "Acme Trading",
			Subtotal:      100,
			Total:         100,
			RemainingDue:  100,
			PaymentStatus: saledomain.PaymentStatusPending,
			Date:          now,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}
	require.NoError(t, db.CreateInBatches(sales, 200).Error)

	resp, err := svc.Balance(context.Background(), customerdomain.BalanceRequest{CustomerID: customerID})
	require.NoError(t, err)

	assert.Equal(t, float64(60000), resp.TotalSales)
	assert.Equal(t, float64(0), resp.TotalPaid)
	assert.Equal(t, float64(60000), resp.OutstandingBalance)
	assert.Equal(t, saledomain.PaymentStatusPending, resp.PaymentStatus)
}

func TestBalance_CountsEveryReceipt(t *testing.T) {
	db, svc := newTestService(t)
	node, _ := snowflake.NewNode(1)
	customerID := node.Generate()
	now := time.Now().UTC()

	require.NoError(t, db.Create(&saledomain.Sale{
		ID:            node.Generate(),
		InvoiceNumber: "INV-SETTLED",
		CustomerID:    customerID,
		CustomerName:  "Acme Trading",
		Subtotal:      10000,
		VATAmount:     500,
		Total:         10500,
		TotalPaid:     10500,
		PaymentStatus: saledomain.PaymentStatusPaid,
		Date:          now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}).Error)

	// Receipts against sales outside the loaded set still count toward paid.
	const paymentCount = 600
	payments := make([]paymentdomain.SalePayment, 0, paymentCount)
	for i := 0; i < paymentCount; i++ {
		payments = append(payments, paymentdomain.SalePayment{
			ID:         node.Generate(),
			SaleID:     node.Generate(),
			CustomerID: customerID,
			Amount:     1,
			Date:       now,
			CreatedAt:  now,
		})
	}
	require.NoError(t, db.CreateInBatches(payments, 200).Error)

	resp, err := svc.Balance(context.Background(), customerdomain.BalanceRequest{CustomerID: customerID})
	require.NoError(t, err)

	assert.Equal(t, float64(10500), resp.TotalSales)
	assert.Equal(t, float64(11100), resp.TotalPaid)
	assert.Equal(t, float64(0), resp.OutstandingBalance)
}

func TestBalance_InvalidCustomer(t *testing.T) {
	_, svc := newTestService(t)

	_, err := svc.Balance(context.Background(), customerdomain.BalanceRequest{})
	assert.ErrorIs(t, err, customerdomain.ErrInvalidCustomer)
}

func TestBalance_IncludesAgingWhenRequested(t *testing.T) {
	db, svc := newTestService(t)
	node, _ := snowflake.NewNode(1)
	customerID := node.Generate()
	now := time.Now().UTC()

	require.NoError(t, db.Create(&saledomain.Sale{
		ID:            node.Generate(),
		InvoiceNumber: "INV-AGED",
		CustomerID:    customerID,
		CustomerName:  "Acme Trading",
		Subtotal:      1000,
		Total:         1000,
		RemainingDue:  1000,
		PaymentStatus: saledomain.PaymentStatusPending,
		Date:          now.AddDate(0, 0, -45),
		CreatedAt:     now,
		UpdatedAt:     now,
	}).Error)

	resp, err := svc.Balance(context.Background(), customerdomain.BalanceRequest{
		CustomerID:   customerID,
		IncludeAging: true,
	})
	require.NoError(t, err)
	require.Len(t, resp.Aging, 3)
	assert.Equal(t, float64(0), resp.Aging[0].Outstanding)
	assert.Equal(t, float64(1000), resp.Aging[1].Outstanding)
}
