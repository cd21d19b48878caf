package accounting

import (
	"fmt"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// PeriodStatus represents the state of an accounting period
type PeriodStatus string

const (
	PeriodStatusOpen   PeriodStatus = "open"
	PeriodStatusLocked PeriodStatus = "locked"
)

// String returns the string representation
func (s PeriodStatus) String() string {
	return string(s)
}

// AccountingPeriod is a date-range gate over postings. Periods must not
// overlap (the period service checks the repository before create/update).
// A locked period refuses any posting, update or reversal dated inside its
// range; locking is an administrative act recorded with actor and time.
type AccountingPeriod struct {
	shared.BaseAggregateRoot
	Name      string       `gorm:"type:varchar(100);not null"`
	StartDate time.Time    `gorm:"not null;index"`
	EndDate   time.Time    `gorm:"not null;index"`
	Status    PeriodStatus `gorm:"type:varchar(20);not null;default:'open';index"`
	LockedBy  *uuid.UUID   `gorm:"type:uuid"`
	LockedAt  *time.Time
}

// TableName returns the table name for GORM
func (AccountingPeriod) TableName() string {
	return "accounting_periods"
}

// NewAccountingPeriod creates an open period covering [startDate, endDate]
func NewAccountingPeriod(name string, startDate, endDate time.Time, now time.Time) (*AccountingPeriod, error) {
	if name == "" {
		return nil, shared.NewValidationError("Period name cannot be empty")
	}
	if startDate.IsZero() || endDate.IsZero() {
		return nil, shared.NewValidationError("Period start and end dates are required")
	}
	if endDate.Before(startDate) {
		return nil, shared.NewValidationError("Period end date must not be before start date")
	}

	return &AccountingPeriod{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		Name:              name,
		StartDate:         startDate,
		EndDate:           endDate,
		Status:            PeriodStatusOpen,
	}, nil
}

// Contains reports whether the date falls inside the period's range,
// inclusive on both ends. Comparison is by calendar day.
func (p *AccountingPeriod) Contains(date time.Time) bool {
	d := truncateToDay(date)
	return !d.Before(truncateToDay(p.StartDate)) && !d.After(truncateToDay(p.EndDate))
}

// Overlaps reports whether [start, end] intersects the period's range
func (p *AccountingPeriod) Overlaps(start, end time.Time) bool {
	return !truncateToDay(end).Before(truncateToDay(p.StartDate)) &&
		!truncateToDay(start).After(truncateToDay(p.EndDate))
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsLocked reports whether the period refuses postings
func (p *AccountingPeriod) IsLocked() bool {
	return p.Status == PeriodStatusLocked
}

// Lock freezes the period against further postings, recording who and when
func (p *AccountingPeriod) Lock(actor uuid.UUID, now time.Time) error {
	if p.IsLocked() {
		return shared.NewStateError(fmt.Sprintf("Period %s is already locked", p.Name))
	}
	if actor == uuid.Nil {
		return shared.NewValidationError("Locking actor is required")
	}

	p.Status = PeriodStatusLocked
	p.LockedBy = &actor
	p.LockedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewAccountingPeriodLockedEvent(p, actor, now))

	return nil
}

// Unlock reopens the period and clears the lock metadata
func (p *AccountingPeriod) Unlock(now time.Time) error {
	if !p.IsLocked() {
		return shared.NewStateError(fmt.Sprintf("Period %s is not locked", p.Name))
	}

	p.Status = PeriodStatusOpen
	p.LockedBy = nil
	p.LockedAt = nil
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewAccountingPeriodUnlockedEvent(p, now))

	return nil
}

// Rename changes the period name
func (p *AccountingPeriod) Rename(name string, now time.Time) error {
	if name == "" {
		return shared.NewValidationError("Period name cannot be empty")
	}
	if name == p.Name {
		return nil
	}
	p.Name = name
	p.UpdatedAt = now
	p.IncrementVersion()
	return nil
}

// Reschedule changes the period's date range. Overlap with other periods is
// the period service's check.
func (p *AccountingPeriod) Reschedule(startDate, endDate time.Time, now time.Time) error {
	if p.IsLocked() {
		return shared.NewStateError("Cannot reschedule a locked period")
	}
	if startDate.IsZero() || endDate.IsZero() {
		return shared.NewValidationError("Period start and end dates are required")
	}
	if endDate.Before(startDate) {
		return shared.NewValidationError("Period end date must not be before start date")
	}
	p.StartDate = startDate
	p.EndDate = endDate
	p.UpdatedAt = now
	p.IncrementVersion()
	return nil
}
