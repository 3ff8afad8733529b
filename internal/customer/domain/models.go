// Package domain derives customer balances from the sale and payment sets.
// CustomerBalance is a pure projection recomputed on demand, never stored.
package domain

import (
	"time"

	paymentdomain "github.com/bizbooks/salesledger/internal/payment/domain"
	saledomain "github.com/bizbooks/salesledger/internal/sale/domain"
	"github.com/bwmarrin/snowflake"
)

// CustomerBalance summarizes a customer's position across all their sales.
type CustomerBalance struct {
	CustomerID         snowflake.ID             `json:"customer_id"`
	TotalSales         float64                  `json:"total_sales"`
	TotalPaid          float64                  `json:"total_paid"`
	OutstandingBalance float64                  `json:"outstanding_balance"`
	PaymentStatus      saledomain.PaymentStatus `json:"payment_status"`
}

// AgingBucketTotal is the outstanding amount falling inside one aging range.
type AgingBucketTotal struct {
	Label       string  `json:"label"`
	Outstanding float64 `json:"outstanding"`
}

// CalculateBalance derives the customer's balance from the full sale and
// payment sets. It filters by customer id, sums sale totals into TotalSales
// and paid amounts into TotalPaid, and clamps outstanding at zero.
// Side-effect free and idempotent: identical inputs always yield identical
// output.
//
// Each sale's TotalPaid already folds in its initial allocations and every
// recorded receipt (the receipt and the sale update land in one transaction),
// so sales are the authoritative paid source. Receipts only contribute when
// their sale is missing from the input set.
func CalculateBalance(customerID snowflake.ID, sales []saledomain.Sale, payments []paymentdomain.SalePayment) CustomerBalance {
	var totalSales, totalPaid float64

	saleIDs := make(map[snowflake.ID]bool)
	for _, sale := range sales {
		if sale.CustomerID != customerID {
			continue
		}
		saleIDs[sale.ID] = true
		totalSales += sale.Total
		totalPaid += sale.TotalPaid
	}
	for _, payment := range payments {
		if payment.CustomerID != customerID || saleIDs[payment.SaleID] {
			continue
		}
		totalPaid += payment.Amount
	}

	outstanding := totalSales - totalPaid
	if outstanding < 0 {
		outstanding = 0
	}
	return CustomerBalance{
		CustomerID:         customerID,
		TotalSales:         totalSales,
		TotalPaid:          totalPaid,
		OutstandingBalance: outstanding,
		PaymentStatus:      saledomain.DerivePaymentStatus(totalPaid, totalSales),
	}
}

// AgeOutstanding buckets each unpaid sale's remaining due by days outstanding
// at the given instant. Pure like CalculateBalance.
func AgeOutstanding(customerID snowflake.ID, sales []saledomain.Sale, buckets []AgingBucketDef, now time.Time) []AgingBucketTotal {
	totals := make([]AgingBucketTotal, len(buckets))
	for i, bucket := range buckets {
		totals[i].Label = bucket.Label
	}
	for _, sale := range sales {
		if sale.CustomerID != customerID || sale.RemainingDue <= 0 {
			continue
		}
		days := int(now.Sub(sale.Date).Hours() / 24)
		for i, bucket := range buckets {
			if days < bucket.MinDays {
				continue
			}
			if bucket.MaxDays != nil && days > *bucket.MaxDays {
				continue
			}
			totals[i].Outstanding += sale.RemainingDue
			break
		}
	}
	return totals
}

// AgingBucketDef is an aging range; MaxDays nil means open-ended.
type AgingBucketDef struct {
	Label   string
	MinDays int
	MaxDays *int
}
