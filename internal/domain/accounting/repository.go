package accounting

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ChartOfAccountRepository defines persistence for the chart of accounts
type ChartOfAccountRepository interface {
	// FindByID finds an account by ID
	FindByID(ctx context.Context, id uuid.UUID) (*ChartOfAccount, error)

	// FindByCode finds an account by its unique code
	FindByCode(ctx context.Context, code string) (*ChartOfAccount, error)

	// FindAll returns all accounts; the hierarchy service loads the whole
	// tree through this to run parent-chain validations in memory
	FindAll(ctx context.Context) ([]ChartOfAccount, error)

	// ExistsByCode checks code uniqueness, excluding the given account id
	// (uuid.Nil to exclude nothing)
	ExistsByCode(ctx context.Context, code string, excludeID uuid.UUID) (bool, error)

	// HasChildren checks whether any account references id as its parent
	HasChildren(ctx context.Context, id uuid.UUID) (bool, error)

	// HasTransactions checks whether any journal line references the
	// account. Existence query, not a full scan.
	HasTransactions(ctx context.Context, id uuid.UUID) (bool, error)

	// Save creates or updates an account
	Save(ctx context.Context, account *ChartOfAccount) error

	// Delete removes an account. Only valid for unused leaves; the service
	// checks HasChildren and HasTransactions first.
	Delete(ctx context.Context, id uuid.UUID) error
}

// JournalEntryFilter defines filtering options for entry list queries
type JournalEntryFilter struct {
	Status    *EntryStatus
	Reference *string
	FromDate  *time.Time
	ToDate    *time.Time
	AccountID *uuid.UUID
	Page      int
	PageSize  int
}

// JournalEntryRepository defines persistence for journal entries.
// Save persists the header and its lines as one unit; for draft entries a
// save after Update replaces the stored line set entirely.
type JournalEntryRepository interface {
	// FindByID finds an entry with its lines
	FindByID(ctx context.Context, id uuid.UUID) (*JournalEntry, error)

	// FindAll lists entries with their lines, filtered and paginated
	FindAll(ctx context.Context, filter JournalEntryFilter) ([]JournalEntry, error)

	// Count counts entries matching the filter
	Count(ctx context.Context, filter JournalEntryFilter) (int64, error)

	// CountByDateRange counts entries dated inside [start, end]; used to
	// refuse deleting a period that already contains entries
	CountByDateRange(ctx context.Context, start, end time.Time) (int64, error)

	// Save creates or updates an entry together with its lines
	Save(ctx context.Context, entry *JournalEntry) error

	// Delete removes a draft entry and its lines
	Delete(ctx context.Context, id uuid.UUID) error
}

// AccountingPeriodRepository defines persistence for accounting periods
type AccountingPeriodRepository interface {
	// FindByID finds a period by ID
	FindByID(ctx context.Context, id uuid.UUID) (*AccountingPeriod, error)

	// FindByDate resolves the period whose range contains the date, or nil
	FindByDate(ctx context.Context, date time.Time) (*AccountingPeriod, error)

	// FindOverlapping returns periods intersecting [start, end], excluding
	// the given id (uuid.Nil to exclude nothing)
	FindOverlapping(ctx context.Context, start, end time.Time, excludeID uuid.UUID) ([]AccountingPeriod, error)

	// FindAll returns all periods ordered by start date
	FindAll(ctx context.Context) ([]AccountingPeriod, error)

	// Save creates or updates a period
	Save(ctx context.Context, period *AccountingPeriod) error

	// Delete removes a period
	Delete(ctx context.Context, id uuid.UUID) error
}

// BudgetRepository defines persistence for budgets and their encumbrances
type BudgetRepository interface {
	// FindByID finds a budget by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Budget, error)

	// FindActive resolves the active budget for a department and fiscal
	// year, or nil when none exists (spending is then unrestricted)
	FindActive(ctx context.Context, departmentID uuid.UUID, fiscalYear int) (*Budget, error)

	// Save creates or updates a budget
	Save(ctx context.Context, budget *Budget) error

	// SaveEncumbrance creates or updates an encumbrance record
	SaveEncumbrance(ctx context.Context, enc *BudgetEncumbrance) error

	// FindEncumbranceByID finds an encumbrance by ID
	FindEncumbranceByID(ctx context.Context, id uuid.UUID) (*BudgetEncumbrance, error)

	// FindEncumbrancesBySource finds encumbrances created by a document
	FindEncumbrancesBySource(ctx context.Context, sourceType string, sourceID uuid.UUID) ([]BudgetEncumbrance, error)
}

// AccountBalanceRow is one account's debit/credit totals over posted lines
type AccountBalanceRow struct {
	AccountID   uuid.UUID       `json:"account_id"`
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	AccountType AccountType     `json:"account_type"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
}

// BalanceFilter restricts a balance aggregation by date range and account
// types. Nil bounds are open-ended.
type BalanceFilter struct {
	FromDate *time.Time
	ToDate   *time.Time
	Types    []AccountType
}

// LedgerReportRepository is the read side: per-account SUM(debit) and
// SUM(credit) over lines of posted entries only. Draft lines are never read.
type LedgerReportRepository interface {
	AccountBalances(ctx context.Context, filter BalanceFilter) ([]AccountBalanceRow, error)
}
