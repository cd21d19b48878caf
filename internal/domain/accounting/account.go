package accounting

import (
	"fmt"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ChartOfAccount represents an account in the chart of accounts.
// Accounts form a tree: a child must share its parent's type, the parent
// chain must stay acyclic, and an account can only be deleted while it is
// a leaf with no journal lines posted against it.
type ChartOfAccount struct {
	shared.BaseAggregateRoot
	Code        string      `gorm:"type:varchar(20);not null;uniqueIndex"`
	Name        string      `gorm:"type:varchar(200);not null"`
	Type        AccountType `gorm:"type:varchar(20);not null;index"`
	ParentID    *uuid.UUID  `gorm:"type:uuid;index"`
	IsActive    bool        `gorm:"not null;default:true"`
	Description string      `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ChartOfAccount) TableName() string {
	return "chart_of_accounts"
}

// NewChartOfAccountParams carries the inputs for creating an account
type NewChartOfAccountParams struct {
	Code        string
	Name        string
	Type        string
	ParentID    *uuid.UUID
	Description string
	IsActive    *bool
}

// NewChartOfAccount creates a new chart-of-accounts entry. Code format and
// type casing are validated here; uniqueness and parent compatibility are
// checked by the account service, which can see the rest of the tree.
func NewChartOfAccount(p NewChartOfAccountParams, now time.Time) (*ChartOfAccount, error) {
	code, err := valueobject.NewAccountCode(p.Code)
	if err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, shared.NewValidationError("Account name cannot be empty")
	}
	accountType, err := ParseAccountType(p.Type)
	if err != nil {
		return nil, err
	}

	active := true
	if p.IsActive != nil {
		active = *p.IsActive
	}

	account := &ChartOfAccount{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		Code:              code.String(),
		Name:              p.Name,
		Type:              accountType,
		ParentID:          p.ParentID,
		IsActive:          active,
		Description:       p.Description,
	}

	account.AddDomainEvent(NewChartOfAccountCreatedEvent(account, now))

	return account, nil
}

// UpdateChartOfAccountParams carries a partial update; nil fields are left
// unchanged.
type UpdateChartOfAccountParams struct {
	Code        *string
	Name        *string
	Type        *string
	ParentID    *uuid.UUID
	ClearParent bool
	Description *string
}

// ApplyUpdate applies a partial update and returns the map of changed
// fields (old and new value per field). An empty map means nothing changed
// and no event should be emitted. Parent-chain and uniqueness checks are
// the service's responsibility.
func (a *ChartOfAccount) ApplyUpdate(p UpdateChartOfAccountParams, now time.Time) (map[string][2]any, error) {
	changes := make(map[string][2]any)

	if p.Code != nil && *p.Code != a.Code {
		code, err := valueobject.NewAccountCode(*p.Code)
		if err != nil {
			return nil, err
		}
		changes["code"] = [2]any{a.Code, code.String()}
		a.Code = code.String()
	}
	if p.Name != nil && *p.Name != a.Name {
		if *p.Name == "" {
			return nil, shared.NewValidationError("Account name cannot be empty")
		}
		changes["name"] = [2]any{a.Name, *p.Name}
		a.Name = *p.Name
	}
	if p.Type != nil {
		accountType, err := ParseAccountType(*p.Type)
		if err != nil {
			return nil, err
		}
		if accountType != a.Type {
			changes["type"] = [2]any{a.Type.String(), accountType.String()}
			a.Type = accountType
		}
	}
	if p.ClearParent {
		if a.ParentID != nil {
			changes["parent_id"] = [2]any{*a.ParentID, nil}
			a.ParentID = nil
		}
	} else if p.ParentID != nil {
		if a.ParentID == nil || *a.ParentID != *p.ParentID {
			var old any
			if a.ParentID != nil {
				old = *a.ParentID
			}
			changes["parent_id"] = [2]any{old, *p.ParentID}
			a.ParentID = p.ParentID
		}
	}
	if p.Description != nil && *p.Description != a.Description {
		changes["description"] = [2]any{a.Description, *p.Description}
		a.Description = *p.Description
	}
	if len(changes) > 0 {
		a.UpdatedAt = now
		a.IncrementVersion()
		a.AddDomainEvent(NewChartOfAccountUpdatedEvent(a, changes, now))
	}

	return changes, nil
}

// Deactivate marks the account inactive. Deactivation is reversible and is
// the alternative to deletion for accounts that have children or postings.
func (a *ChartOfAccount) Deactivate(now time.Time) {
	if !a.IsActive {
		return
	}
	a.IsActive = false
	a.UpdatedAt = now
	a.IncrementVersion()
	a.AddDomainEvent(NewChartOfAccountUpdatedEvent(a, map[string][2]any{"is_active": {true, false}}, now))
}

// Activate marks the account active again
func (a *ChartOfAccount) Activate(now time.Time) {
	if a.IsActive {
		return
	}
	a.IsActive = true
	a.UpdatedAt = now
	a.IncrementVersion()
	a.AddDomainEvent(NewChartOfAccountUpdatedEvent(a, map[string][2]any{"is_active": {false, true}}, now))
}

// ValidateParentType rejects a parent whose type differs from the account's
func (a *ChartOfAccount) ValidateParentType(parent *ChartOfAccount) error {
	if parent == nil {
		return nil
	}
	if parent.Type != a.Type {
		return shared.NewStateError(fmt.Sprintf("Parent account type %s does not match account type %s", parent.Type, a.Type))
	}
	return nil
}

// HasParent reports whether the account has a parent
func (a *ChartOfAccount) HasParent() bool {
	return a.ParentID != nil
}
