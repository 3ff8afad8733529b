// Package registry holds the compiled-in chart of accounts and the payment
// method routing table. The chart is reference data: the set of accounts and
// the routing are fixed at build time, only balances live in the store.
package registry

import (
	"github.com/bizbooks/salesledger/internal/coa/domain"
)

// Account codes double as account IDs.
const (
	AccountAssets             = "1000"
	AccountCash               = "1100"
	AccountBank               = "1200"
	AccountPOSClearing        = "1210"
	AccountCheckClearing      = "1220"
	AccountAccountsReceivable = "1300"
	AccountPaymentClearing    = "1400"

	AccountLiabilities     = "2000"
	AccountVATPayable      = "2100"
	AccountCustomerCredits = "2200"

	AccountEquity = "3000"

	AccountRevenue      = "4000"
	AccountSalesRevenue = "4100"

	AccountExpenses = "5000"
	AccountCOGS     = "5100"
)

func strPtr(s string) *string { return &s }

// Level is tree depth, 1 at the roots.
var chart = []domain.Account{
	{ID: AccountAssets, Code: AccountAssets, Name: "Assets", Type: domain.Asset, Level: 1, IsActive: true},
	{ID: AccountCash, Code: AccountCash, Name: "Cash", Type: domain.Asset, ParentID: strPtr(AccountAssets), Level: 2, IsActive: true},
	{ID: AccountBank, Code: AccountBank, Name: "Bank", Type: domain.Asset, ParentID: strPtr(AccountAssets), Level: 2, IsActive: true},
	{ID: AccountPOSClearing, Code: AccountPOSClearing, Name: "POS Clearing", Type: domain.Asset, ParentID: strPtr(AccountBank), Level: 3, IsActive: true},
	{ID: AccountCheckClearing, Code: AccountCheckClearing, Name: "Check Clearing", Type: domain.Asset, ParentID: strPtr(AccountBank), Level: 3, IsActive: true},
	{ID: AccountAccountsReceivable, Code: AccountAccountsReceivable, Name: "Accounts Receivable", Type: domain.Asset, ParentID: strPtr(AccountAssets), Level: 2, IsActive: true},
	{ID: AccountPaymentClearing, Code: AccountPaymentClearing, Name: "Payment Clearing", Type: domain.Asset, ParentID: strPtr(AccountAssets), Level: 2, IsActive: true},

	{ID: AccountLiabilities, Code: AccountLiabilities, Name: "Liabilities", Type: domain.Liability, Level: 1, IsActive: true},
	{ID: AccountVATPayable, Code: AccountVATPayable, Name: "VAT Payable", Type: domain.Liability, ParentID: strPtr(AccountLiabilities), Level: 2, IsActive: true},
	{ID: AccountCustomerCredits, Code: AccountCustomerCredits, Name: "Customer Credits", Type: domain.Liability, ParentID: strPtr(AccountLiabilities), Level: 2, IsActive: true},

	{ID: AccountEquity, Code: AccountEquity, Name: "Equity", Type: domain.Equity, Level: 1, IsActive: true},

	{ID: AccountRevenue, Code: AccountRevenue, Name: "Revenue", Type: domain.Revenue, Level: 1, IsActive: true},
	{ID: AccountSalesRevenue, Code: AccountSalesRevenue, Name: "Sales Revenue", Type: domain.Revenue, ParentID: strPtr(AccountRevenue), Level: 2, IsActive: true},

	{ID: AccountExpenses, Code: AccountExpenses, Name: "Expenses", Type: domain.Expense, Level: 1, IsActive: true},
	{ID: AccountCOGS, Code: AccountCOGS, Name: "Cost of Goods Sold", Type: domain.COGS, ParentID: strPtr(AccountExpenses), Level: 2, IsActive: true},
}

// methodAccounts routes each payment method to its settlement account.
// Customer credit burns a liability; everything unrecognizable at the edge
// still lands somewhere auditable via the clearing account.
var methodAccounts = map[domain.PaymentMethod]string{
	domain.MethodCash:   AccountCash,
	domain.MethodBank:   AccountBank,
	domain.MethodPOS:    AccountPOSClearing,
	domain.MethodCheck:  AccountCheckClearing,
	domain.MethodCredit: AccountCustomerCredits,
	domain.MethodOther:  AccountPaymentClearing,
}

// Registry answers account lookups and payment method routing.
type Registry struct {
	byID map[string]domain.Account
}

func New() *Registry {
	byID := make(map[string]domain.Account, len(chart))
	for _, acc := range chart {
		byID[acc.ID] = acc
	}
	return &Registry{byID: byID}
}

// AccountFor resolves the settlement account for a payment method.
func (r *Registry) AccountFor(method domain.PaymentMethod) (string, error) {
	accountID, ok := methodAccounts[method]
	if !ok {
		return "", domain.ErrInvalidPaymentMethod
	}
	return accountID, nil
}

// Lookup returns the chart entry for an account id.
func (r *Registry) Lookup(id string) (domain.Account, error) {
	acc, ok := r.byID[id]
	if !ok {
		return domain.Account{}, domain.ErrUnknownAccount
	}
	return acc, nil
}

// AccountName returns the display name for an account id.
func (r *Registry) AccountName(id string) (string, error) {
	acc, err := r.Lookup(id)
	if err != nil {
		return "", err
	}
	return acc.Name, nil
}

// Accounts returns the full chart in definition order.
func (r *Registry) Accounts() []domain.Account {
	out := make([]domain.Account, len(chart))
	copy(out, chart)
	return out
}
