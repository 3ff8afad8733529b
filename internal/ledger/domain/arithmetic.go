package domain

import "math"

// DefaultVATRate applies when no ledger policy overrides it.
const DefaultVATRate = 0.05

// SaleTotals carries the derived amounts for a sale.
type SaleTotals struct {
	Subtotal  float64 `json:"subtotal"`
	VATAmount float64 `json:"vat_amount"`
	Total     float64 `json:"total"`
}

// Round2 rounds to 2 decimal places, half up.
func Round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// ComputeSaleTotals derives subtotal, VAT, and total from item amounts.
// VAT is rounded once, at the point it is computed, so repeated summation
// matches manual invoice totals.
func ComputeSaleTotals(itemAmounts []float64, vatRate float64) SaleTotals {
	var subtotal float64
	for _, amount := range itemAmounts {
		subtotal += amount
	}
	vat := Round2(subtotal * vatRate)
	return SaleTotals{
		Subtotal:  subtotal,
		VATAmount: vat,
		Total:     subtotal + vat,
	}
}
