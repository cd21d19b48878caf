package accounting

import (
	"context"
	"sync"
	"time"

	"github.com/erp/ledger/internal/domain/accounting"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// ============================================================================
// Mocks
// ============================================================================

// MockChartOfAccountRepository is a mock implementation of ChartOfAccountRepository
type MockChartOfAccountRepository struct {
	mock.Mock
}

func (m *MockChartOfAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.ChartOfAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.ChartOfAccount), args.Error(1)
}

func (m *MockChartOfAccountRepository) FindByCode(ctx context.Context, code string) (*accounting.ChartOfAccount, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.ChartOfAccount), args.Error(1)
}

func (m *MockChartOfAccountRepository) FindAll(ctx context.Context) ([]accounting.ChartOfAccount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]accounting.ChartOfAccount), args.Error(1)
}

func (m *MockChartOfAccountRepository) ExistsByCode(ctx context.Context, code string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, code, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockChartOfAccountRepository) HasChildren(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockChartOfAccountRepository) HasTransactions(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockChartOfAccountRepository) Save(ctx context.Context, account *accounting.ChartOfAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockChartOfAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockJournalEntryRepository is a mock implementation of JournalEntryRepository
type MockJournalEntryRepository struct {
	mock.Mock
}

func (m *MockJournalEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.JournalEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.JournalEntry), args.Error(1)
}

func (m *MockJournalEntryRepository) FindAll(ctx context.Context, filter accounting.JournalEntryFilter) ([]accounting.JournalEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]accounting.JournalEntry), args.Error(1)
}

func (m *MockJournalEntryRepository) Count(ctx context.Context, filter accounting.JournalEntryFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJournalEntryRepository) CountByDateRange(ctx context.Context, start, end time.Time) (int64, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJournalEntryRepository) Save(ctx context.Context, entry *accounting.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAccountingPeriodRepository is a mock implementation of AccountingPeriodRepository
type MockAccountingPeriodRepository struct {
	mock.Mock
}

func (m *MockAccountingPeriodRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.AccountingPeriod, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.AccountingPeriod), args.Error(1)
}

func (m *MockAccountingPeriodRepository) FindByDate(ctx context.Context, date time.Time) (*accounting.AccountingPeriod, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.AccountingPeriod), args.Error(1)
}

func (m *MockAccountingPeriodRepository) FindOverlapping(ctx context.Context, start, end time.Time, excludeID uuid.UUID) ([]accounting.AccountingPeriod, error) {
	args := m.Called(ctx, start, end, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]accounting.AccountingPeriod), args.Error(1)
}

func (m *MockAccountingPeriodRepository) FindAll(ctx context.Context) ([]accounting.AccountingPeriod, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]accounting.AccountingPeriod), args.Error(1)
}

func (m *MockAccountingPeriodRepository) Save(ctx context.Context, period *accounting.AccountingPeriod) error {
	args := m.Called(ctx, period)
	return args.Error(0)
}

func (m *MockAccountingPeriodRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockBudgetRepository is a mock implementation of BudgetRepository
type MockBudgetRepository struct {
	mock.Mock
}

func (m *MockBudgetRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.Budget, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.Budget), args.Error(1)
}

func (m *MockBudgetRepository) FindActive(ctx context.Context, departmentID uuid.UUID, fiscalYear int) (*accounting.Budget, error) {
	args := m.Called(ctx, departmentID, fiscalYear)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.Budget), args.Error(1)
}

func (m *MockBudgetRepository) Save(ctx context.Context, budget *accounting.Budget) error {
	args := m.Called(ctx, budget)
	return args.Error(0)
}

func (m *MockBudgetRepository) SaveEncumbrance(ctx context.Context, enc *accounting.BudgetEncumbrance) error {
	args := m.Called(ctx, enc)
	return args.Error(0)
}

func (m *MockBudgetRepository) FindEncumbranceByID(ctx context.Context, id uuid.UUID) (*accounting.BudgetEncumbrance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.BudgetEncumbrance), args.Error(1)
}

func (m *MockBudgetRepository) FindEncumbrancesBySource(ctx context.Context, sourceType string, sourceID uuid.UUID) ([]accounting.BudgetEncumbrance, error) {
	args := m.Called(ctx, sourceType, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]accounting.BudgetEncumbrance), args.Error(1)
}

// MockLedgerReportRepository is a mock implementation of LedgerReportRepository
type MockLedgerReportRepository struct {
	mock.Mock
}

func (m *MockLedgerReportRepository) AccountBalances(ctx context.Context, filter accounting.BalanceFilter) ([]accounting.AccountBalanceRow, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]accounting.AccountBalanceRow), args.Error(1)
}

// ============================================================================
// Test doubles
// ============================================================================

// passthroughUOW runs the function directly, no transaction
type passthroughUOW struct{}

func (passthroughUOW) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// recordingPublisher collects every published event
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) EventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.EventType())
	}
	return types
}

var testClock = shared.FixedClock{T: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
