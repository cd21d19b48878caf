package accounting

import (
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// Event type names for chart-of-accounts events
const (
	EventTypeChartOfAccountCreated = "ChartOfAccountCreated"
	EventTypeChartOfAccountUpdated = "ChartOfAccountUpdated"
	EventTypeChartOfAccountDeleted = "ChartOfAccountDeleted"
)

// ChartOfAccountCreatedEvent is raised when a new account is created
type ChartOfAccountCreatedEvent struct {
	shared.BaseDomainEvent
	AccountID uuid.UUID   `json:"account_id"`
	Code      string      `json:"code"`
	Name      string      `json:"name"`
	AcctType  AccountType `json:"account_type"`
	ParentID  *uuid.UUID  `json:"parent_id,omitempty"`
}

// EventType returns the event type name
func (e *ChartOfAccountCreatedEvent) EventType() string {
	return EventTypeChartOfAccountCreated
}

// NewChartOfAccountCreatedEvent creates a new ChartOfAccountCreatedEvent
func NewChartOfAccountCreatedEvent(account *ChartOfAccount, occurredAt time.Time) *ChartOfAccountCreatedEvent {
	return &ChartOfAccountCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeChartOfAccountCreated, "ChartOfAccount", account.ID, occurredAt),
		AccountID:       account.ID,
		Code:            account.Code,
		Name:            account.Name,
		AcctType:        account.Type,
		ParentID:        account.ParentID,
	}
}

// ChartOfAccountUpdatedEvent is raised when an account changes. Changes maps
// field name to its old and new value; the event is only emitted when the
// map is non-empty.
type ChartOfAccountUpdatedEvent struct {
	shared.BaseDomainEvent
	AccountID uuid.UUID         `json:"account_id"`
	Code      string            `json:"code"`
	Changes   map[string][2]any `json:"changes"`
}

// EventType returns the event type name
func (e *ChartOfAccountUpdatedEvent) EventType() string {
	return EventTypeChartOfAccountUpdated
}

// NewChartOfAccountUpdatedEvent creates a new ChartOfAccountUpdatedEvent
func NewChartOfAccountUpdatedEvent(account *ChartOfAccount, changes map[string][2]any, occurredAt time.Time) *ChartOfAccountUpdatedEvent {
	return &ChartOfAccountUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeChartOfAccountUpdated, "ChartOfAccount", account.ID, occurredAt),
		AccountID:       account.ID,
		Code:            account.Code,
		Changes:         changes,
	}
}

// ChartOfAccountDeletedEvent is raised before an account is physically
// deleted. It carries the pre-deletion snapshot for audit consumers.
type ChartOfAccountDeletedEvent struct {
	shared.BaseDomainEvent
	AccountID   uuid.UUID   `json:"account_id"`
	Code        string      `json:"code"`
	Name        string      `json:"name"`
	AcctType    AccountType `json:"account_type"`
	ParentID    *uuid.UUID  `json:"parent_id,omitempty"`
	IsActive    bool        `json:"is_active"`
	Description string      `json:"description,omitempty"`
}

// EventType returns the event type name
func (e *ChartOfAccountDeletedEvent) EventType() string {
	return EventTypeChartOfAccountDeleted
}

// NewChartOfAccountDeletedEvent creates a new ChartOfAccountDeletedEvent
func NewChartOfAccountDeletedEvent(account *ChartOfAccount, occurredAt time.Time) *ChartOfAccountDeletedEvent {
	return &ChartOfAccountDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeChartOfAccountDeleted, "ChartOfAccount", account.ID, occurredAt),
		AccountID:       account.ID,
		Code:            account.Code,
		Name:            account.Name,
		AcctType:        account.Type,
		ParentID:        account.ParentID,
		IsActive:        account.IsActive,
		Description:     account.Description,
	}
}
