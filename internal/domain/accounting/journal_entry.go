package accounting

import (
	"fmt"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryStatus represents the lifecycle state of a journal entry
type EntryStatus string

const (
	EntryStatusDraft  EntryStatus = "draft"
	EntryStatusPosted EntryStatus = "posted"
)

// IsValid checks if the status is a known entry status
func (s EntryStatus) IsValid() bool {
	return s == EntryStatusDraft || s == EntryStatusPosted
}

// String returns the string representation
func (s EntryStatus) String() string {
	return string(s)
}

// balanceTolerance is the absolute tolerance within which the debit and
// credit totals of an entry must agree.
var balanceTolerance = decimal.NewFromFloat(0.01)

// reversalReferenceSuffix is appended to the original reference number when
// building a reversal entry.
const reversalReferenceSuffix = "-REV"

// JournalEntryLine is a single debit or credit posting within an entry
type JournalEntryLine struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	JournalEntryID uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Debit          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Credit         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Description    string          `gorm:"type:varchar(500)"`
	Position       int             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (JournalEntryLine) TableName() string {
	return "journal_entry_lines"
}

// LineInput carries the caller-supplied values for one line
type LineInput struct {
	AccountID   uuid.UUID
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string
}

// JournalEntry is the journal entry aggregate root: a header plus a balanced
// set of lines. Draft entries may be freely edited via full line
// replacement; once posted the entry and its lines are immutable, and the
// only forward step is a reversal, which creates a new posted entry linked
// through ReversedEntryID.
type JournalEntry struct {
	shared.BaseAggregateRoot
	ReferenceNumber string                `gorm:"type:varchar(100);not null;index"`
	EntryDate       time.Time             `gorm:"not null;index"`
	Description     string                `gorm:"type:varchar(500)"`
	Status          EntryStatus           `gorm:"type:varchar(20);not null;default:'draft';index"`
	CurrencyCode    valueobject.Currency  `gorm:"type:varchar(3);not null"`
	ExchangeRate    decimal.Decimal       `gorm:"type:decimal(18,8);not null"`
	Lines           []JournalEntryLine    `gorm:"foreignKey:JournalEntryID;references:ID"`
	ReversedEntryID *uuid.UUID            `gorm:"type:uuid;index"` // id of the reversal entry, set on the original
	PostedAt        *time.Time
	PostedBy        *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (JournalEntry) TableName() string {
	return "journal_entries"
}

// NewJournalEntryParams carries the inputs for creating an entry
type NewJournalEntryParams struct {
	ReferenceNumber string
	EntryDate       time.Time
	Description     string
	Lines           []LineInput
	CurrencyCode    valueobject.Currency
	ExchangeRate    decimal.Decimal
}

// NewJournalEntry creates a draft journal entry. The balance invariant is
// checked here so an unbalanced entry never exists, even as a draft.
func NewJournalEntry(p NewJournalEntryParams, now time.Time) (*JournalEntry, error) {
	if p.ReferenceNumber == "" {
		return nil, shared.NewValidationError("Reference number cannot be empty")
	}
	if p.EntryDate.IsZero() {
		return nil, shared.NewValidationError("Entry date is required")
	}

	currency := p.CurrencyCode
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	if !currency.IsValid() {
		return nil, shared.NewValidationError("Currency code is not valid")
	}
	rate := p.ExchangeRate
	if rate.IsZero() {
		rate = decimal.NewFromInt(1)
	}
	if rate.IsNegative() {
		return nil, shared.NewValidationError("Exchange rate must be positive")
	}

	entry := &JournalEntry{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		ReferenceNumber:   p.ReferenceNumber,
		EntryDate:         p.EntryDate,
		Description:       p.Description,
		Status:            EntryStatusDraft,
		CurrencyCode:      currency,
		ExchangeRate:      rate,
	}

	lines, err := buildLines(entry.ID, p.Lines)
	if err != nil {
		return nil, err
	}
	entry.Lines = lines

	if err := entry.validateBalance(); err != nil {
		return nil, err
	}

	entry.AddDomainEvent(NewJournalEntryCreatedEvent(entry, now))

	return entry, nil
}

// buildLines validates line inputs and materializes owned lines
func buildLines(entryID uuid.UUID, inputs []LineInput) ([]JournalEntryLine, error) {
	if len(inputs) < 2 {
		return nil, shared.NewValidationError("A journal entry needs at least two lines")
	}
	lines := make([]JournalEntryLine, 0, len(inputs))
	for i, in := range inputs {
		if in.AccountID == uuid.Nil {
			return nil, shared.NewValidationError(fmt.Sprintf("Line %d: account is required", i+1))
		}
		if in.Debit.IsNegative() || in.Credit.IsNegative() {
			return nil, shared.NewValidationError(fmt.Sprintf("Line %d: debit and credit must not be negative", i+1))
		}
		if in.Debit.IsZero() && in.Credit.IsZero() {
			return nil, shared.NewValidationError(fmt.Sprintf("Line %d: either debit or credit must be set", i+1))
		}
		lines = append(lines, JournalEntryLine{
			ID:             uuid.New(),
			JournalEntryID: entryID,
			AccountID:      in.AccountID,
			Debit:          in.Debit,
			Credit:         in.Credit,
			Description:    in.Description,
			Position:       i,
		})
	}
	return lines, nil
}

// TotalDebit returns the sum of all line debits
func (e *JournalEntry) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, line := range e.Lines {
		total = total.Add(line.Debit)
	}
	return total
}

// TotalCredit returns the sum of all line credits
func (e *JournalEntry) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, line := range e.Lines {
		total = total.Add(line.Credit)
	}
	return total
}

// Total returns the entry amount as money in the entry currency. For a
// balanced entry the debit and credit sides agree, so the debit sum is
// the entry amount.
func (e *JournalEntry) Total() valueobject.Money {
	// CurrencyCode is never empty on a constructed entry.
	total, _ := valueobject.NewMoney(e.TotalDebit(), e.CurrencyCode)
	return total
}

// FunctionalTotal converts the entry amount into the ledger's functional
// currency using the entry's exchange rate.
func (e *JournalEntry) FunctionalTotal() valueobject.Money {
	return valueobject.NewMoneyUSD(e.TotalDebit().Mul(e.ExchangeRate))
}

// IsBalanced reports whether debits and credits agree within the tolerance
func (e *JournalEntry) IsBalanced() bool {
	diff := e.TotalDebit().Sub(e.TotalCredit()).Abs()
	return diff.LessThanOrEqual(balanceTolerance)
}

func (e *JournalEntry) validateBalance() error {
	if !e.IsBalanced() {
		return shared.NewValidationError(fmt.Sprintf(
			"Journal entry is not balanced: debits %s, credits %s",
			e.TotalDebit().StringFixed(2), e.TotalCredit().StringFixed(2)))
	}
	return nil
}

// IsDraft reports whether the entry is still editable
func (e *JournalEntry) IsDraft() bool {
	return e.Status == EntryStatusDraft
}

// IsPosted reports whether the entry has been committed to the ledger
func (e *JournalEntry) IsPosted() bool {
	return e.Status == EntryStatusPosted
}

// HasBeenReversed reports whether a reversal entry exists for this entry
func (e *JournalEntry) HasBeenReversed() bool {
	return e.ReversedEntryID != nil
}

// UpdateJournalEntryParams carries the inputs for updating a draft entry
type UpdateJournalEntryParams struct {
	EntryDate    time.Time
	Description  string
	Lines        []LineInput
	CurrencyCode valueobject.Currency
	ExchangeRate decimal.Decimal
}

// Update replaces the header fields and the full line set of a draft entry.
// Replacement rather than diffing: draft lines have no downstream
// references, so delete-and-recreate is equally correct and simpler.
// Posted entries are immutable.
func (e *JournalEntry) Update(p UpdateJournalEntryParams, now time.Time) error {
	if e.IsPosted() {
		return shared.NewStateError("Cannot update a posted journal entry")
	}
	if p.EntryDate.IsZero() {
		return shared.NewValidationError("Entry date is required")
	}
	currency := p.CurrencyCode
	if currency == "" {
		currency = e.CurrencyCode
	}
	if !currency.IsValid() {
		return shared.NewValidationError("Currency code is not valid")
	}
	rate := p.ExchangeRate
	if rate.IsZero() {
		rate = e.ExchangeRate
	}
	if rate.IsNegative() {
		return shared.NewValidationError("Exchange rate must be positive")
	}

	lines, err := buildLines(e.ID, p.Lines)
	if err != nil {
		return err
	}

	replaced := e.Lines
	e.Lines = lines
	if err := e.validateBalance(); err != nil {
		e.Lines = replaced
		return err
	}

	e.EntryDate = p.EntryDate
	e.Description = p.Description
	e.CurrencyCode = currency
	e.ExchangeRate = rate
	e.UpdatedAt = now
	e.IncrementVersion()

	return nil
}

// Post transitions a draft entry to posted. The period gate is applied by
// the posting service before calling this.
func (e *JournalEntry) Post(actor uuid.UUID, now time.Time) error {
	if e.IsPosted() {
		return shared.NewStateError("Journal entry is already posted")
	}
	if actor == uuid.Nil {
		return shared.NewValidationError("Posting actor is required")
	}
	if err := e.validateBalance(); err != nil {
		return err
	}

	e.Status = EntryStatusPosted
	e.PostedAt = &now
	e.PostedBy = &actor
	e.UpdatedAt = now
	e.IncrementVersion()

	e.AddDomainEvent(NewJournalEntryPostedEvent(e, actor, now))

	return nil
}

// BuildReversal creates the reversal of a posted entry: a new entry dated
// now with every line's debit and credit swapped, posted immediately.
// Swapping the sides of a balanced set yields another balanced set, so the
// reversal is self-balancing by construction. The original records the link
// and emits JournalEntryReversed.
func (e *JournalEntry) BuildReversal(actor uuid.UUID, reason string, now time.Time) (*JournalEntry, error) {
	if !e.IsPosted() {
		return nil, shared.NewStateError("Only posted journal entries can be reversed")
	}
	if e.HasBeenReversed() {
		return nil, shared.NewStateError("Journal entry has already been reversed")
	}
	if actor == uuid.Nil {
		return nil, shared.NewValidationError("Reversing actor is required")
	}

	reversal := &JournalEntry{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		ReferenceNumber:   e.ReferenceNumber + reversalReferenceSuffix,
		EntryDate:         now,
		Description:       fmt.Sprintf("Reversal of %s: %s", e.ReferenceNumber, reason),
		Status:            EntryStatusPosted,
		CurrencyCode:      e.CurrencyCode,
		ExchangeRate:      e.ExchangeRate,
		PostedAt:          &now,
		PostedBy:          &actor,
	}

	lines := make([]JournalEntryLine, 0, len(e.Lines))
	for i, line := range e.Lines {
		lines = append(lines, JournalEntryLine{
			ID:             uuid.New(),
			JournalEntryID: reversal.ID,
			AccountID:      line.AccountID,
			Debit:          line.Credit,
			Credit:         line.Debit,
			Description:    line.Description,
			Position:       i,
		})
	}
	reversal.Lines = lines

	e.ReversedEntryID = &reversal.ID
	e.UpdatedAt = now
	e.IncrementVersion()

	e.AddDomainEvent(NewJournalEntryReversedEvent(e, reversal, actor, reason, now))

	return reversal, nil
}
