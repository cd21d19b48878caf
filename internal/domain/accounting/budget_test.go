package accounting

import (
	"testing"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBudget(t *testing.T, amount float64, strict bool, threshold float64) *Budget {
	t.Helper()
	budget, err := NewBudget(uuid.New(), 2024, decimal.NewFromFloat(amount), strict, decimal.NewFromFloat(threshold), testNow)
	require.NoError(t, err)
	return budget
}

func TestNewBudget(t *testing.T) {
	t.Run("creates active envelope with zero encumbered", func(t *testing.T) {
		budget := newTestBudget(t, 10000, false, 80)
		assert.True(t, budget.IsActive)
		assert.True(t, budget.EncumberedAmount.IsZero())
		assert.True(t, budget.AvailableAmount().Equal(decimal.NewFromInt(10000)))
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		_, err := NewBudget(uuid.New(), 2024, decimal.NewFromInt(-1), false, decimal.NewFromInt(80), testNow)
		require.Error(t, err)
		assert.True(t, shared.IsValidationError(err))
	})

	t.Run("rejects threshold above 100", func(t *testing.T) {
		_, err := NewBudget(uuid.New(), 2024, decimal.NewFromInt(100), false, decimal.NewFromInt(101), testNow)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "between 0 and 100")
	})

	t.Run("rejects implausible fiscal year", func(t *testing.T) {
		_, err := NewBudget(uuid.New(), 190, decimal.NewFromInt(100), false, decimal.NewFromInt(80), testNow)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Fiscal year")
	})
}

func TestBudgetCheck(t *testing.T) {
	t.Run("ok below threshold", func(t *testing.T) {
		budget := newTestBudget(t, 10000, true, 80)
		result := budget.Check(decimal.NewFromInt(1000))
		assert.Equal(t, BudgetCheckOK, result.Status)
		assert.Empty(t, result.Message)
	})

	t.Run("blocked when strict and over available", func(t *testing.T) {
		budget := newTestBudget(t, 1000, true, 80)
		result := budget.Check(decimal.NewFromInt(1500))
		assert.Equal(t, BudgetCheckBlocked, result.Status)
		assert.Contains(t, result.Message, "exceeds available budget")
	})

	t.Run("warning when soft and over available", func(t *testing.T) {
		budget := newTestBudget(t, 1000, false, 80)
		result := budget.Check(decimal.NewFromInt(1500))
		assert.Equal(t, BudgetCheckWarning, result.Status)
		assert.Contains(t, result.Message, "soft limit")
	})

	t.Run("warning at exact threshold utilization", func(t *testing.T) {
		budget := newTestBudget(t, 1000, true, 80)
		result := budget.Check(decimal.NewFromInt(800))
		assert.Equal(t, BudgetCheckWarning, result.Status)
		assert.Contains(t, result.Message, "utilization")
	})

	t.Run("ok just below threshold utilization", func(t *testing.T) {
		budget := newTestBudget(t, 1000, true, 80)
		result := budget.Check(decimal.NewFromFloat(799.99))
		assert.Equal(t, BudgetCheckOK, result.Status)
	})

	t.Run("accounts for existing encumbrances", func(t *testing.T) {
		budget := newTestBudget(t, 1000, true, 90)
		_, err := budget.Encumber("purchase_order", uuid.New(), decimal.NewFromInt(600), testNow)
		require.NoError(t, err)

		result := budget.Check(decimal.NewFromInt(500))
		assert.Equal(t, BudgetCheckBlocked, result.Status)
		assert.True(t, result.AvailableAmount.Equal(decimal.NewFromInt(400)))
	})
}

func TestBudgetEncumber(t *testing.T) {
	t.Run("reserves amount and emits event", func(t *testing.T) {
		budget := newTestBudget(t, 1000, true, 80)
		sourceID := uuid.New()

		enc, err := budget.Encumber("purchase_order", sourceID, decimal.NewFromInt(300), testNow)
		require.NoError(t, err)

		assert.Equal(t, budget.ID, enc.BudgetID)
		assert.Equal(t, "purchase_order", enc.SourceType)
		assert.Equal(t, sourceID, enc.SourceID)
		assert.Equal(t, EncumbranceStatusActive, enc.Status)
		assert.True(t, budget.EncumberedAmount.Equal(decimal.NewFromInt(300)))
		assert.True(t, budget.AvailableAmount().Equal(decimal.NewFromInt(700)))

		events := budget.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeBudgetEncumbranceCreated, events[0].EventType())
	})

	t.Run("strict budget rejects over-commitment", func(t *testing.T) {
		budget := newTestBudget(t, 1000, true, 80)
		_, err := budget.Encumber("purchase_order", uuid.New(), decimal.NewFromInt(1001), testNow)
		require.Error(t, err)
		assert.True(t, shared.IsStateError(err))
	})

	t.Run("soft budget allows over-commitment", func(t *testing.T) {
		budget := newTestBudget(t, 1000, false, 80)
		_, err := budget.Encumber("purchase_order", uuid.New(), decimal.NewFromInt(1500), testNow)
		require.NoError(t, err)
		assert.True(t, budget.AvailableAmount().Equal(decimal.NewFromInt(-500)))
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		budget := newTestBudget(t, 1000, false, 80)
		_, err := budget.Encumber("purchase_order", uuid.New(), decimal.Zero, testNow)
		require.Error(t, err)
		assert.True(t, shared.IsValidationError(err))
	})

	t.Run("inactive budget rejects encumbrances", func(t *testing.T) {
		budget := newTestBudget(t, 1000, false, 80)
		budget.Deactivate(testNow)
		_, err := budget.Encumber("purchase_order", uuid.New(), decimal.NewFromInt(10), testNow)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not active")
	})
}

func TestBudgetReleaseEncumbrance(t *testing.T) {
	t.Run("returns amount to the envelope", func(t *testing.T) {
		budget := newTestBudget(t, 1000, true, 80)
		enc, err := budget.Encumber("purchase_order", uuid.New(), decimal.NewFromInt(300), testNow)
		require.NoError(t, err)
		budget.ClearDomainEvents()

		require.NoError(t, budget.ReleaseEncumbrance(enc, testNow))

		assert.Equal(t, EncumbranceStatusReleased, enc.Status)
		require.NotNil(t, enc.ReleasedAt)
		assert.True(t, budget.EncumberedAmount.IsZero())

		events := budget.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeBudgetEncumbranceReleased, events[0].EventType())
	})

	t.Run("double release fails", func(t *testing.T) {
		budget := newTestBudget(t, 1000, true, 80)
		enc, err := budget.Encumber("purchase_order", uuid.New(), decimal.NewFromInt(300), testNow)
		require.NoError(t, err)
		require.NoError(t, budget.ReleaseEncumbrance(enc, testNow))

		err = budget.ReleaseEncumbrance(enc, testNow)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already been released")
	})

	t.Run("rejects encumbrance of another budget", func(t *testing.T) {
		budget := newTestBudget(t, 1000, true, 80)
		other := newTestBudget(t, 1000, true, 80)
		enc, err := other.Encumber("purchase_order", uuid.New(), decimal.NewFromInt(100), testNow)
		require.NoError(t, err)

		err = budget.ReleaseEncumbrance(enc, testNow)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not belong")
	})
}
