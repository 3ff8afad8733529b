package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeSaleTotals(t *testing.T) {
	cases := []struct {
		name     string
		amounts  []float64
		expected SaleTotals
	}{
		{
			name:     "two items",
			amounts:  []float64{6000, 4000},
			expected: SaleTotals{Subtotal: 10000, VATAmount: 500, Total: 10500},
		},
		{
			name:     "single item",
			amounts:  []float64{14000},
			expected: SaleTotals{Subtotal: 14000, VATAmount: 700, Total: 14700},
		},
		{
			name:     "empty",
			amounts:  nil,
			expected: SaleTotals{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeSaleTotals(tc.amounts, DefaultVATRate)
			assert.InDelta(t, tc.expected.Subtotal, got.Subtotal, Epsilon)
			assert.InDelta(t, tc.expected.VATAmount, got.VATAmount, Epsilon)
			assert.InDelta(t, tc.expected.Total, got.Total, Epsilon)
		})
	}
}

func TestVATRoundsHalfUpOnce(t *testing.T) {
	// 10.10 * 0.05 = 0.505 exactly; half-up gives 0.51.
	got := ComputeSaleTotals([]float64{10.10}, DefaultVATRate)
	assert.Equal(t, 0.51, got.VATAmount)
	assert.InDelta(t, 10.61, got.Total, Epsilon)

	// 0.504999... rounds down.
	got = ComputeSaleTotals([]float64{10.09}, DefaultVATRate)
	assert.Equal(t, 0.50, got.VATAmount)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, Round2(1.234))
	assert.Equal(t, 1.24, Round2(1.235))
	assert.Equal(t, 0.0, Round2(0))
	assert.Equal(t, 100.0, Round2(99.999))
}

func TestIsBalanced(t *testing.T) {
	entry := JournalEntry{TotalDebit: 10500, TotalCredit: 10500}
	assert.True(t, IsBalanced(entry))

	entry.TotalCredit = 10500.004
	assert.True(t, IsBalanced(entry), "drift below epsilon is tolerated")

	entry.TotalCredit = 10500.01
	assert.False(t, IsBalanced(entry))
}

func TestValidateBalanced(t *testing.T) {
	lines := []JournalEntryLine{
		{AccountID: "1100", Debit: 10500},
		{AccountID: "4100", Credit: 10000},
		{AccountID: "2100", Credit: 500},
	}
	assert.NoError(t, ValidateBalanced(lines))

	lines[2].Credit = 600
	err := ValidateBalanced(lines)
	var unbalanced *UnbalancedEntryError
	assert.ErrorAs(t, err, &unbalanced)
	assert.InDelta(t, 10500, unbalanced.TotalDebit, Epsilon)
	assert.InDelta(t, 10600, unbalanced.TotalCredit, Epsilon)
}

func TestValidateLines(t *testing.T) {
	valid := []JournalEntryLine{
		{AccountID: "1100", Debit: 100},
		{AccountID: "4100", Credit: 100},
	}
	assert.NoError(t, ValidateLines(valid))

	assert.ErrorIs(t, ValidateLines(valid[:1]), ErrInvalidEntryLines)

	compound := []JournalEntryLine{
		{AccountID: "1100", Debit: 100, Credit: 50},
		{AccountID: "4100", Credit: 50},
	}
	assert.ErrorIs(t, ValidateLines(compound), ErrCompoundLine)

	zero := []JournalEntryLine{
		{AccountID: "1100"},
		{AccountID: "4100", Credit: 0},
	}
	assert.ErrorIs(t, ValidateLines(zero), ErrInvalidLineAmount)

	missing := []JournalEntryLine{
		{Debit: 100},
		{AccountID: "4100", Credit: 100},
	}
	assert.ErrorIs(t, ValidateLines(missing), ErrInvalidLineAccount)
}
