package accounting

import (
	"strings"

	"github.com/erp/ledger/internal/domain/shared"
)

// AccountType classifies a chart-of-accounts entry
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// BalanceSide indicates which side of the ledger an account normally
// carries its balance on.
type BalanceSide string

const (
	BalanceSideDebit  BalanceSide = "debit"
	BalanceSideCredit BalanceSide = "credit"
)

// ParseAccountType normalizes a raw type string to its canonical casing
func ParseAccountType(raw string) (AccountType, error) {
	t := AccountType(strings.ToLower(strings.TrimSpace(raw)))
	if !t.IsValid() {
		return "", shared.NewValidationError("Account type must be one of asset, liability, equity, revenue, expense")
	}
	return t, nil
}

// IsValid checks if the account type is one of the five canonical types
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// String returns the string representation
func (t AccountType) String() string {
	return string(t)
}

// NormalBalance returns the side an account of this type normally carries
// its balance on. Asset and expense accounts are debit-normal; liability,
// equity and revenue accounts are credit-normal.
func (t AccountType) NormalBalance() BalanceSide {
	switch t {
	case AccountTypeAsset, AccountTypeExpense:
		return BalanceSideDebit
	default:
		return BalanceSideCredit
	}
}
