package accounting

import (
	"testing"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func balancedLines(amount float64) []LineInput {
	return []LineInput{
		{AccountID: uuid.New(), Debit: decimal.NewFromFloat(amount)},
		{AccountID: uuid.New(), Credit: decimal.NewFromFloat(amount)},
	}
}

func newDraftEntry(t *testing.T) *JournalEntry {
	t.Helper()
	entry, err := NewJournalEntry(NewJournalEntryParams{
		ReferenceNumber: "JE-2024-001",
		EntryDate:       testNow,
		Description:     "Office supplies",
		Lines:           balancedLines(150),
	}, testNow)
	require.NoError(t, err)
	return entry
}

func TestNewJournalEntry(t *testing.T) {
	t.Run("creates balanced draft entry", func(t *testing.T) {
		entry := newDraftEntry(t)

		assert.Equal(t, EntryStatusDraft, entry.Status)
		assert.True(t, entry.IsDraft())
		assert.False(t, entry.IsPosted())
		assert.True(t, entry.TotalDebit().Equal(decimal.NewFromInt(150)))
		assert.True(t, entry.TotalCredit().Equal(decimal.NewFromInt(150)))
		assert.True(t, entry.IsBalanced())
		assert.Equal(t, "USD", string(entry.CurrencyCode))
		assert.True(t, entry.ExchangeRate.Equal(decimal.NewFromInt(1)))
		assert.Len(t, entry.Lines, 2)
		assert.Equal(t, 0, entry.Lines[0].Position)
		assert.Equal(t, 1, entry.Lines[1].Position)
	})

	t.Run("publishes JournalEntryCreated event", func(t *testing.T) {
		entry := newDraftEntry(t)
		events := entry.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeJournalEntryCreated, events[0].EventType())
	})

	t.Run("rejects unbalanced entry", func(t *testing.T) {
		_, err := NewJournalEntry(NewJournalEntryParams{
			ReferenceNumber: "JE-2024-002",
			EntryDate:       testNow,
			Lines: []LineInput{
				{AccountID: uuid.New(), Debit: decimal.NewFromInt(100)},
				{AccountID: uuid.New(), Credit: decimal.NewFromInt(99)},
			},
		}, testNow)
		require.Error(t, err)
		assert.True(t, shared.IsValidationError(err))
		assert.Contains(t, err.Error(), "not balanced")
	})

	t.Run("tolerates rounding difference within one cent", func(t *testing.T) {
		entry, err := NewJournalEntry(NewJournalEntryParams{
			ReferenceNumber: "JE-2024-003",
			EntryDate:       testNow,
			Lines: []LineInput{
				{AccountID: uuid.New(), Debit: decimal.NewFromFloat(100.00)},
				{AccountID: uuid.New(), Credit: decimal.NewFromFloat(99.99)},
			},
		}, testNow)
		require.NoError(t, err)
		assert.True(t, entry.IsBalanced())
	})

	t.Run("requires at least two lines", func(t *testing.T) {
		_, err := NewJournalEntry(NewJournalEntryParams{
			ReferenceNumber: "JE-2024-004",
			EntryDate:       testNow,
			Lines: []LineInput{
				{AccountID: uuid.New(), Debit: decimal.NewFromInt(100)},
			},
		}, testNow)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least two lines")
	})

	t.Run("rejects line with both debit and credit zero", func(t *testing.T) {
		_, err := NewJournalEntry(NewJournalEntryParams{
			ReferenceNumber: "JE-2024-005",
			EntryDate:       testNow,
			Lines: []LineInput{
				{AccountID: uuid.New(), Debit: decimal.NewFromInt(100)},
				{AccountID: uuid.New()},
			},
		}, testNow)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "either debit or credit must be set")
	})

	t.Run("rejects negative amounts", func(t *testing.T) {
		_, err := NewJournalEntry(NewJournalEntryParams{
			ReferenceNumber: "JE-2024-006",
			EntryDate:       testNow,
			Lines: []LineInput{
				{AccountID: uuid.New(), Debit: decimal.NewFromInt(-100)},
				{AccountID: uuid.New(), Credit: decimal.NewFromInt(-100)},
			},
		}, testNow)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must not be negative")
	})

	t.Run("rejects empty reference number", func(t *testing.T) {
		_, err := NewJournalEntry(NewJournalEntryParams{
			EntryDate: testNow,
			Lines:     balancedLines(10),
		}, testNow)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Reference number")
	})

	t.Run("rejects invalid currency code", func(t *testing.T) {
		_, err := NewJournalEntry(NewJournalEntryParams{
			ReferenceNumber: "JE-2024-007",
			EntryDate:       testNow,
			Lines:           balancedLines(10),
			CurrencyCode:    "usd",
		}, testNow)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Currency code")
	})
}

func TestJournalEntryTotals(t *testing.T) {
	t.Run("total carries the entry currency", func(t *testing.T) {
		entry := newDraftEntry(t)

		total := entry.Total()
		assert.Equal(t, valueobject.USD, total.Currency())
		assert.True(t, total.Amount().Equal(decimal.NewFromInt(150)))
	})

	t.Run("functional total applies the exchange rate", func(t *testing.T) {
		entry, err := NewJournalEntry(NewJournalEntryParams{
			ReferenceNumber: "JE-2024-008",
			EntryDate:       testNow,
			Lines:           balancedLines(100),
			CurrencyCode:    valueobject.EUR,
			ExchangeRate:    decimal.NewFromFloat(1.1),
		}, testNow)
		require.NoError(t, err)

		assert.Equal(t, valueobject.EUR, entry.Total().Currency())
		functional := entry.FunctionalTotal()
		assert.Equal(t, valueobject.DefaultCurrency, functional.Currency())
		assert.True(t, functional.Amount().Equal(decimal.NewFromInt(110)))
	})

	t.Run("default exchange rate keeps both totals equal", func(t *testing.T) {
		entry := newDraftEntry(t)
		assert.True(t, entry.Total().Amount().Equal(entry.FunctionalTotal().Amount()))
	})
}

func TestJournalEntryUpdate(t *testing.T) {
	t.Run("replaces lines and header of a draft", func(t *testing.T) {
		entry := newDraftEntry(t)
		newDate := testNow.AddDate(0, 0, 5)

		err := entry.Update(UpdateJournalEntryParams{
			EntryDate:   newDate,
			Description: "Corrected posting",
			Lines: []LineInput{
				{AccountID: uuid.New(), Debit: decimal.NewFromInt(200)},
				{AccountID: uuid.New(), Credit: decimal.NewFromInt(120)},
				{AccountID: uuid.New(), Credit: decimal.NewFromInt(80)},
			},
		}, testNow)
		require.NoError(t, err)

		assert.Equal(t, newDate, entry.EntryDate)
		assert.Equal(t, "Corrected posting", entry.Description)
		assert.Len(t, entry.Lines, 3)
		assert.True(t, entry.TotalDebit().Equal(decimal.NewFromInt(200)))
		assert.Equal(t, 2, entry.GetVersion())
	})

	t.Run("keeps old lines when replacement is unbalanced", func(t *testing.T) {
		entry := newDraftEntry(t)

		err := entry.Update(UpdateJournalEntryParams{
			EntryDate: testNow,
			Lines: []LineInput{
				{AccountID: uuid.New(), Debit: decimal.NewFromInt(500)},
				{AccountID: uuid.New(), Credit: decimal.NewFromInt(1)},
			},
		}, testNow)
		require.Error(t, err)
		assert.Len(t, entry.Lines, 2)
		assert.True(t, entry.TotalDebit().Equal(decimal.NewFromInt(150)))
	})

	t.Run("rejects update of posted entry", func(t *testing.T) {
		entry := newDraftEntry(t)
		require.NoError(t, entry.Post(uuid.New(), testNow))

		err := entry.Update(UpdateJournalEntryParams{
			EntryDate: testNow,
			Lines:     balancedLines(10),
		}, testNow)
		require.Error(t, err)
		assert.True(t, shared.IsStateError(err))
	})
}

func TestJournalEntryPost(t *testing.T) {
	actor := uuid.New()

	t.Run("transitions draft to posted", func(t *testing.T) {
		entry := newDraftEntry(t)
		entry.ClearDomainEvents()

		err := entry.Post(actor, testNow)
		require.NoError(t, err)

		assert.True(t, entry.IsPosted())
		require.NotNil(t, entry.PostedAt)
		assert.Equal(t, testNow, *entry.PostedAt)
		require.NotNil(t, entry.PostedBy)
		assert.Equal(t, actor, *entry.PostedBy)

		events := entry.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeJournalEntryPosted, events[0].EventType())
	})

	t.Run("rejects double post", func(t *testing.T) {
		entry := newDraftEntry(t)
		require.NoError(t, entry.Post(actor, testNow))

		err := entry.Post(actor, testNow)
		require.Error(t, err)
		assert.True(t, shared.IsStateError(err))
	})

	t.Run("requires an actor", func(t *testing.T) {
		entry := newDraftEntry(t)
		err := entry.Post(uuid.Nil, testNow)
		require.Error(t, err)
		assert.True(t, shared.IsValidationError(err))
	})
}

func TestJournalEntryBuildReversal(t *testing.T) {
	actor := uuid.New()

	postedEntry := func(t *testing.T) *JournalEntry {
		t.Helper()
		entry := newDraftEntry(t)
		require.NoError(t, entry.Post(actor, testNow))
		entry.ClearDomainEvents()
		return entry
	}

	t.Run("swaps debit and credit on every line", func(t *testing.T) {
		entry := postedEntry(t)
		later := testNow.AddDate(0, 1, 0)

		reversal, err := entry.BuildReversal(actor, "duplicate entry", later)
		require.NoError(t, err)

		assert.True(t, reversal.IsPosted())
		assert.Equal(t, "JE-2024-001-REV", reversal.ReferenceNumber)
		assert.Equal(t, later, reversal.EntryDate)
		assert.Contains(t, reversal.Description, "duplicate entry")
		require.Len(t, reversal.Lines, 2)
		for i, line := range reversal.Lines {
			assert.True(t, line.Debit.Equal(entry.Lines[i].Credit), "line %d debit", i)
			assert.True(t, line.Credit.Equal(entry.Lines[i].Debit), "line %d credit", i)
			assert.Equal(t, entry.Lines[i].AccountID, line.AccountID)
		}
		assert.True(t, reversal.IsBalanced())

		require.NotNil(t, entry.ReversedEntryID)
		assert.Equal(t, reversal.ID, *entry.ReversedEntryID)

		events := entry.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeJournalEntryReversed, events[0].EventType())
	})

	t.Run("rejects reversal of a draft", func(t *testing.T) {
		entry := newDraftEntry(t)
		_, err := entry.BuildReversal(actor, "oops", testNow)
		require.Error(t, err)
		assert.True(t, shared.IsStateError(err))
	})

	t.Run("rejects second reversal", func(t *testing.T) {
		entry := postedEntry(t)
		_, err := entry.BuildReversal(actor, "first", testNow)
		require.NoError(t, err)

		_, err = entry.BuildReversal(actor, "second", testNow)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already been reversed")
	})
}
