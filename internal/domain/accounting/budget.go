package accounting

import (
	"fmt"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetCheckStatus is the outcome of a budget check
type BudgetCheckStatus string

const (
	BudgetCheckOK      BudgetCheckStatus = "ok"
	BudgetCheckWarning BudgetCheckStatus = "warning"
	BudgetCheckBlocked BudgetCheckStatus = "blocked"
)

// BudgetCheckResult is returned to callers deciding whether to commit
// spending. The check is advisory: blocked must stop the triggering
// document, warning is surfaced but does not, ok is silent.
type BudgetCheckResult struct {
	Status          BudgetCheckStatus `json:"status"`
	Message         string            `json:"message,omitempty"`
	AvailableAmount decimal.Decimal   `json:"available_amount"`
	RequestedAmount decimal.Decimal   `json:"requested_amount"`
	BudgetID        *uuid.UUID        `json:"budget_id,omitempty"`
}

// Budget is a spending envelope for a department and fiscal year. It gates
// commitments (encumbrances), not GL postings directly.
type Budget struct {
	shared.BaseAggregateRoot
	DepartmentID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_budget_dept_year,priority:1"`
	FiscalYear       int             `gorm:"not null;uniqueIndex:idx_budget_dept_year,priority:2"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	EncumberedAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	IsActive         bool            `gorm:"not null;default:true"`
	IsStrict         bool            `gorm:"not null;default:false"`
	WarningThreshold decimal.Decimal `gorm:"type:decimal(5,2);not null"` // percent
}

// TableName returns the table name for GORM
func (Budget) TableName() string {
	return "budgets"
}

// NewBudget creates a budget envelope
func NewBudget(departmentID uuid.UUID, fiscalYear int, amount decimal.Decimal, isStrict bool, warningThreshold decimal.Decimal, now time.Time) (*Budget, error) {
	if departmentID == uuid.Nil {
		return nil, shared.NewValidationError("Department is required")
	}
	if fiscalYear < 1900 || fiscalYear > 9999 {
		return nil, shared.NewValidationError("Fiscal year is not valid")
	}
	if amount.IsNegative() {
		return nil, shared.NewValidationError("Budget amount must not be negative")
	}
	if warningThreshold.IsNegative() || warningThreshold.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewValidationError("Warning threshold must be between 0 and 100")
	}

	return &Budget{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		DepartmentID:      departmentID,
		FiscalYear:        fiscalYear,
		Amount:            amount,
		EncumberedAmount:  decimal.Zero,
		IsActive:          true,
		IsStrict:          isStrict,
		WarningThreshold:  warningThreshold,
	}, nil
}

// AvailableAmount returns amount minus running commitments
func (b *Budget) AvailableAmount() decimal.Decimal {
	return b.Amount.Sub(b.EncumberedAmount)
}

// Check evaluates a requested commitment against the envelope.
// Decision table: requested > available is blocked when strict, warning
// otherwise; utilization after the request at or above the threshold is a
// warning; anything else is ok.
func (b *Budget) Check(requested decimal.Decimal) BudgetCheckResult {
	available := b.AvailableAmount()
	result := BudgetCheckResult{
		Status:          BudgetCheckOK,
		AvailableAmount: available,
		RequestedAmount: requested,
		BudgetID:        &b.ID,
	}

	if requested.GreaterThan(available) {
		if b.IsStrict {
			result.Status = BudgetCheckBlocked
			result.Message = fmt.Sprintf("Requested %s exceeds available budget %s", requested.StringFixed(2), available.StringFixed(2))
		} else {
			result.Status = BudgetCheckWarning
			result.Message = fmt.Sprintf("Requested %s exceeds available budget %s (soft limit)", requested.StringFixed(2), available.StringFixed(2))
		}
		return result
	}

	if !b.Amount.IsZero() {
		utilizationAfter := b.EncumberedAmount.Add(requested).
			Div(b.Amount).
			Mul(decimal.NewFromInt(100))
		if utilizationAfter.GreaterThanOrEqual(b.WarningThreshold) {
			result.Status = BudgetCheckWarning
			result.Message = fmt.Sprintf("Budget utilization would reach %s%%", utilizationAfter.StringFixed(1))
		}
	}

	return result
}

// Encumber reserves an amount against the envelope and returns the
// encumbrance record linking the committing document to this budget.
func (b *Budget) Encumber(sourceType string, sourceID uuid.UUID, amount decimal.Decimal, now time.Time) (*BudgetEncumbrance, error) {
	if !b.IsActive {
		return nil, shared.NewStateError("Budget is not active")
	}
	if sourceType == "" || sourceID == uuid.Nil {
		return nil, shared.NewValidationError("Encumbrance source document is required")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Encumbrance amount must be positive")
	}
	if b.IsStrict && amount.GreaterThan(b.AvailableAmount()) {
		return nil, shared.NewStateError("Encumbrance exceeds available budget")
	}

	enc := NewBudgetEncumbrance(b.ID, sourceType, sourceID, amount, now)
	b.EncumberedAmount = b.EncumberedAmount.Add(amount)
	b.UpdatedAt = now
	b.IncrementVersion()

	b.AddDomainEvent(NewBudgetEncumbranceCreatedEvent(b, enc, now))

	return enc, nil
}

// ReleaseEncumbrance releases a commitment when the committing document is
// fulfilled or billed. The encumbrance record stays for the audit trail.
func (b *Budget) ReleaseEncumbrance(enc *BudgetEncumbrance, now time.Time) error {
	if enc.BudgetID != b.ID {
		return shared.NewValidationError("Encumbrance does not belong to this budget")
	}
	if err := enc.Release(now); err != nil {
		return err
	}

	b.EncumberedAmount = b.EncumberedAmount.Sub(enc.Amount)
	if b.EncumberedAmount.IsNegative() {
		b.EncumberedAmount = decimal.Zero
	}
	b.UpdatedAt = now
	b.IncrementVersion()

	b.AddDomainEvent(NewBudgetEncumbranceReleasedEvent(b, enc, now))

	return nil
}

// Deactivate disables the envelope; checks against an inactive budget
// resolve to ok (unrestricted).
func (b *Budget) Deactivate(now time.Time) {
	if !b.IsActive {
		return
	}
	b.IsActive = false
	b.UpdatedAt = now
	b.IncrementVersion()
}

// EncumbranceStatus is the lifecycle state of a budget encumbrance
type EncumbranceStatus string

const (
	EncumbranceStatusActive   EncumbranceStatus = "active"
	EncumbranceStatusReleased EncumbranceStatus = "released"
)

// BudgetEncumbrance links an encumberable document (purchase request or
// order) to a budget. Encumbrances are never deleted.
type BudgetEncumbrance struct {
	ID         uuid.UUID         `gorm:"type:uuid;primary_key"`
	BudgetID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	SourceType string            `gorm:"type:varchar(50);not null;index:idx_encumbrance_source,priority:1"`
	SourceID   uuid.UUID         `gorm:"type:uuid;not null;index:idx_encumbrance_source,priority:2"`
	Amount     decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	Status     EncumbranceStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	CreatedAt  time.Time         `gorm:"not null"`
	ReleasedAt *time.Time
}

// TableName returns the table name for GORM
func (BudgetEncumbrance) TableName() string {
	return "budget_encumbrances"
}

// NewBudgetEncumbrance creates an active encumbrance
func NewBudgetEncumbrance(budgetID uuid.UUID, sourceType string, sourceID uuid.UUID, amount decimal.Decimal, now time.Time) *BudgetEncumbrance {
	return &BudgetEncumbrance{
		ID:         uuid.New(),
		BudgetID:   budgetID,
		SourceType: sourceType,
		SourceID:   sourceID,
		Amount:     amount,
		Status:     EncumbranceStatusActive,
		CreatedAt:  now,
	}
}

// Release marks the encumbrance released
func (e *BudgetEncumbrance) Release(now time.Time) error {
	if e.Status == EncumbranceStatusReleased {
		return shared.NewStateError("Encumbrance has already been released")
	}
	e.Status = EncumbranceStatusReleased
	e.ReleasedAt = &now
	return nil
}
