package accounting

import (
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type names for budget events
const (
	EventTypeBudgetEncumbranceCreated  = "BudgetEncumbranceCreated"
	EventTypeBudgetEncumbranceReleased = "BudgetEncumbranceReleased"
)

// BudgetEncumbranceCreatedEvent is raised when spending is committed
// against a budget
type BudgetEncumbranceCreatedEvent struct {
	shared.BaseDomainEvent
	BudgetID      uuid.UUID       `json:"budget_id"`
	EncumbranceID uuid.UUID       `json:"encumbrance_id"`
	SourceType    string          `json:"source_type"`
	SourceID      uuid.UUID       `json:"source_id"`
	Amount        decimal.Decimal `json:"amount"`
	Encumbered    decimal.Decimal `json:"encumbered_amount"`
	Available     decimal.Decimal `json:"available_amount"`
}

// EventType returns the event type name
func (e *BudgetEncumbranceCreatedEvent) EventType() string {
	return EventTypeBudgetEncumbranceCreated
}

// NewBudgetEncumbranceCreatedEvent creates a new BudgetEncumbranceCreatedEvent
func NewBudgetEncumbranceCreatedEvent(budget *Budget, enc *BudgetEncumbrance, occurredAt time.Time) *BudgetEncumbranceCreatedEvent {
	return &BudgetEncumbranceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBudgetEncumbranceCreated, "Budget", budget.ID, occurredAt),
		BudgetID:        budget.ID,
		EncumbranceID:   enc.ID,
		SourceType:      enc.SourceType,
		SourceID:        enc.SourceID,
		Amount:          enc.Amount,
		Encumbered:      budget.EncumberedAmount,
		Available:       budget.AvailableAmount(),
	}
}

// BudgetEncumbranceReleasedEvent is raised when a commitment is released
type BudgetEncumbranceReleasedEvent struct {
	shared.BaseDomainEvent
	BudgetID      uuid.UUID       `json:"budget_id"`
	EncumbranceID uuid.UUID       `json:"encumbrance_id"`
	Amount        decimal.Decimal `json:"amount"`
	Encumbered    decimal.Decimal `json:"encumbered_amount"`
	Available     decimal.Decimal `json:"available_amount"`
}

// EventType returns the event type name
func (e *BudgetEncumbranceReleasedEvent) EventType() string {
	return EventTypeBudgetEncumbranceReleased
}

// NewBudgetEncumbranceReleasedEvent creates a new BudgetEncumbranceReleasedEvent
func NewBudgetEncumbranceReleasedEvent(budget *Budget, enc *BudgetEncumbrance, occurredAt time.Time) *BudgetEncumbranceReleasedEvent {
	return &BudgetEncumbranceReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBudgetEncumbranceReleased, "Budget", budget.ID, occurredAt),
		BudgetID:        budget.ID,
		EncumbranceID:   enc.ID,
		Amount:          enc.Amount,
		Encumbered:      budget.EncumberedAmount,
		Available:       budget.AvailableAmount(),
	}
}
