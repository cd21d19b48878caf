package accounting

import (
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// Event type names for accounting period events
const (
	EventTypeAccountingPeriodLocked   = "AccountingPeriodLocked"
	EventTypeAccountingPeriodUnlocked = "AccountingPeriodUnlocked"
)

// AccountingPeriodLockedEvent is raised when a period is locked
type AccountingPeriodLockedEvent struct {
	shared.BaseDomainEvent
	PeriodID  uuid.UUID `json:"period_id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	LockedBy  uuid.UUID `json:"locked_by"`
}

// EventType returns the event type name
func (e *AccountingPeriodLockedEvent) EventType() string {
	return EventTypeAccountingPeriodLocked
}

// NewAccountingPeriodLockedEvent creates a new AccountingPeriodLockedEvent
func NewAccountingPeriodLockedEvent(period *AccountingPeriod, actor uuid.UUID, occurredAt time.Time) *AccountingPeriodLockedEvent {
	return &AccountingPeriodLockedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountingPeriodLocked, "AccountingPeriod", period.ID, occurredAt),
		PeriodID:        period.ID,
		Name:            period.Name,
		StartDate:       period.StartDate,
		EndDate:         period.EndDate,
		LockedBy:        actor,
	}
}

// AccountingPeriodUnlockedEvent is raised when a period is reopened
type AccountingPeriodUnlockedEvent struct {
	shared.BaseDomainEvent
	PeriodID uuid.UUID `json:"period_id"`
	Name     string    `json:"name"`
}

// EventType returns the event type name
func (e *AccountingPeriodUnlockedEvent) EventType() string {
	return EventTypeAccountingPeriodUnlocked
}

// NewAccountingPeriodUnlockedEvent creates a new AccountingPeriodUnlockedEvent
func NewAccountingPeriodUnlockedEvent(period *AccountingPeriod, occurredAt time.Time) *AccountingPeriodUnlockedEvent {
	return &AccountingPeriodUnlockedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountingPeriodUnlocked, "AccountingPeriod", period.ID, occurredAt),
		PeriodID:        period.ID,
		Name:            period.Name,
	}
}
