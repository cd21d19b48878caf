package accounting

import (
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type names for journal entry events
const (
	EventTypeJournalEntryCreated  = "JournalEntryCreated"
	EventTypeJournalEntryPosted   = "JournalEntryPosted"
	EventTypeJournalEntryReversed = "JournalEntryReversed"
)

// JournalEntryCreatedEvent is raised when a draft entry is created
type JournalEntryCreatedEvent struct {
	shared.BaseDomainEvent
	EntryID         uuid.UUID       `json:"entry_id"`
	ReferenceNumber string          `json:"reference_number"`
	EntryDate       time.Time       `json:"entry_date"`
	TotalDebit      decimal.Decimal `json:"total_debit"`
	TotalCredit     decimal.Decimal `json:"total_credit"`
	LineCount       int             `json:"line_count"`
}

// EventType returns the event type name
func (e *JournalEntryCreatedEvent) EventType() string {
	return EventTypeJournalEntryCreated
}

// NewJournalEntryCreatedEvent creates a new JournalEntryCreatedEvent
func NewJournalEntryCreatedEvent(entry *JournalEntry, occurredAt time.Time) *JournalEntryCreatedEvent {
	return &JournalEntryCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeJournalEntryCreated, "JournalEntry", entry.ID, occurredAt),
		EntryID:         entry.ID,
		ReferenceNumber: entry.ReferenceNumber,
		EntryDate:       entry.EntryDate,
		TotalDebit:      entry.TotalDebit(),
		TotalCredit:     entry.TotalCredit(),
		LineCount:       len(entry.Lines),
	}
}

// JournalEntryPostedEvent is raised when an entry is committed to the ledger
type JournalEntryPostedEvent struct {
	shared.BaseDomainEvent
	EntryID         uuid.UUID       `json:"entry_id"`
	ReferenceNumber string          `json:"reference_number"`
	EntryDate       time.Time       `json:"entry_date"`
	TotalDebit      decimal.Decimal `json:"total_debit"`
	TotalCredit     decimal.Decimal `json:"total_credit"`
	PostedBy        uuid.UUID       `json:"posted_by"`
	PostedAt        time.Time       `json:"posted_at"`
}

// EventType returns the event type name
func (e *JournalEntryPostedEvent) EventType() string {
	return EventTypeJournalEntryPosted
}

// NewJournalEntryPostedEvent creates a new JournalEntryPostedEvent
func NewJournalEntryPostedEvent(entry *JournalEntry, actor uuid.UUID, occurredAt time.Time) *JournalEntryPostedEvent {
	return &JournalEntryPostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeJournalEntryPosted, "JournalEntry", entry.ID, occurredAt),
		EntryID:         entry.ID,
		ReferenceNumber: entry.ReferenceNumber,
		EntryDate:       entry.EntryDate,
		TotalDebit:      entry.TotalDebit(),
		TotalCredit:     entry.TotalCredit(),
		PostedBy:        actor,
		PostedAt:        occurredAt,
	}
}

// JournalEntryReversedEvent is raised on the original entry when a reversal
// is created for it
type JournalEntryReversedEvent struct {
	shared.BaseDomainEvent
	OriginalEntryID   uuid.UUID `json:"original_entry_id"`
	OriginalReference string    `json:"original_reference"`
	ReversalEntryID   uuid.UUID `json:"reversal_entry_id"`
	ReversalReference string    `json:"reversal_reference"`
	Reason            string    `json:"reason"`
	ReversedBy        uuid.UUID `json:"reversed_by"`
}

// EventType returns the event type name
func (e *JournalEntryReversedEvent) EventType() string {
	return EventTypeJournalEntryReversed
}

// NewJournalEntryReversedEvent creates a new JournalEntryReversedEvent
func NewJournalEntryReversedEvent(original, reversal *JournalEntry, actor uuid.UUID, reason string, occurredAt time.Time) *JournalEntryReversedEvent {
	return &JournalEntryReversedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeJournalEntryReversed, "JournalEntry", original.ID, occurredAt),
		OriginalEntryID:   original.ID,
		OriginalReference: original.ReferenceNumber,
		ReversalEntryID:   reversal.ID,
		ReversalReference: reversal.ReferenceNumber,
		Reason:            reason,
		ReversedBy:        actor,
	}
}
