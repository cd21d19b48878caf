package accounting

import (
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// maxHierarchyDepth bounds the ancestor walk so already-corrupt data cannot
// loop forever even if the visited set were defeated.
const maxHierarchyDepth = 64

// Hierarchy is a domain service validating chart-of-accounts tree
// invariants against an arena of loaded accounts indexed by id.
type Hierarchy struct {
	byID map[uuid.UUID]*ChartOfAccount
}

// NewHierarchy builds a hierarchy over the given accounts
func NewHierarchy(accounts []ChartOfAccount) *Hierarchy {
	byID := make(map[uuid.UUID]*ChartOfAccount, len(accounts))
	for i := range accounts {
		byID[accounts[i].ID] = &accounts[i]
	}
	return &Hierarchy{byID: byID}
}

// Get returns the account with the given id, or nil
func (h *Hierarchy) Get(id uuid.UUID) *ChartOfAccount {
	return h.byID[id]
}

// ValidateNewParent checks that attaching account under parentID keeps the
// tree valid: the parent must exist, share the account's type, not be the
// account itself, and not be one of its descendants (which would create a
// cycle). The walk follows parent-id links with a visited set and a depth
// bound.
func (h *Hierarchy) ValidateNewParent(account *ChartOfAccount, parentID uuid.UUID) error {
	if parentID == account.ID {
		return shared.NewStateError("Account cannot be its own parent")
	}

	parent, ok := h.byID[parentID]
	if !ok {
		return shared.NewNotFoundError("Parent account not found")
	}
	if parent.Type != account.Type {
		return shared.NewStateError("Parent account type must match account type")
	}

	// Walk the new parent's ancestor chain; if the account's own id shows
	// up the attachment would close a cycle.
	visited := map[uuid.UUID]bool{account.ID: true}
	current := parent
	for depth := 0; depth < maxHierarchyDepth; depth++ {
		if visited[current.ID] {
			return shared.NewStateError("Parent assignment would create a cycle in the account hierarchy")
		}
		visited[current.ID] = true

		if current.ParentID == nil {
			return nil
		}
		next, ok := h.byID[*current.ParentID]
		if !ok {
			// Dangling parent reference: the chain ends here.
			return nil
		}
		current = next
	}
	return shared.NewStateError("Account hierarchy exceeds maximum depth")
}

// HasChildren reports whether any account in the arena points at id
func (h *Hierarchy) HasChildren(id uuid.UUID) bool {
	for _, account := range h.byID {
		if account.ParentID != nil && *account.ParentID == id {
			return true
		}
	}
	return false
}

// Ancestors returns the ancestor chain of the account, nearest first. The
// walk stops at the root, a dangling reference, or the depth bound.
func (h *Hierarchy) Ancestors(id uuid.UUID) []*ChartOfAccount {
	var chain []*ChartOfAccount
	account, ok := h.byID[id]
	if !ok {
		return chain
	}
	seen := map[uuid.UUID]bool{id: true}
	for depth := 0; depth < maxHierarchyDepth && account.ParentID != nil; depth++ {
		parent, ok := h.byID[*account.ParentID]
		if !ok || seen[parent.ID] {
			break
		}
		chain = append(chain, parent)
		seen[parent.ID] = true
		account = parent
	}
	return chain
}
