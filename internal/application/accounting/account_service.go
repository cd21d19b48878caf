package accounting

import (
	"context"
	"time"

	"github.com/erp/ledger/internal/domain/accounting"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccountService provides application-level chart-of-accounts operations
type AccountService struct {
	accountRepo accounting.ChartOfAccountRepository
	uow         shared.UnitOfWork
	publisher   shared.EventPublisher
	clock       shared.Clock
	logger      *zap.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(
	accountRepo accounting.ChartOfAccountRepository,
	uow shared.UnitOfWork,
	publisher shared.EventPublisher,
	clock shared.Clock,
	logger *zap.Logger,
) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		uow:         uow,
		publisher:   publisher,
		clock:       clock,
		logger:      logger,
	}
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID          uuid.UUID  `json:"id"`
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	IsActive    bool       `json:"is_active"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Version     int        `json:"version"`
}

func toAccountResponse(a *accounting.ChartOfAccount) *AccountResponse {
	return &AccountResponse{
		ID:          a.ID,
		Code:        a.Code,
		Name:        a.Name,
		Type:        a.Type.String(),
		ParentID:    a.ParentID,
		IsActive:    a.IsActive,
		Description: a.Description,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
		Version:     a.Version,
	}
}

// CreateAccountRequest represents a request to create an account
type CreateAccountRequest struct {
	Code        string     `json:"code" binding:"required"`
	Name        string     `json:"name" binding:"required"`
	Type        string     `json:"type" binding:"required"`
	ParentID    *uuid.UUID `json:"parent_id"`
	Description string     `json:"description"`
	IsActive    *bool      `json:"is_active"`
}

// UpdateAccountRequest represents a partial account update
type UpdateAccountRequest struct {
	Code        *string    `json:"code"`
	Name        *string    `json:"name"`
	Type        *string    `json:"type"`
	ParentID    *uuid.UUID `json:"parent_id"`
	ClearParent bool       `json:"clear_parent"`
	Description *string    `json:"description"`
	IsActive    *bool      `json:"is_active"`
}

// CreateAccount creates a new chart-of-accounts entry. Code uniqueness and
// parent compatibility are checked inside the same transaction as the write.
func (s *AccountService) CreateAccount(ctx context.Context, req CreateAccountRequest) (*AccountResponse, error) {
	var account *accounting.ChartOfAccount

	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		exists, err := s.accountRepo.ExistsByCode(ctx, req.Code, uuid.Nil)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError(shared.CodeAlreadyExist, "An account with this code already exists")
		}

		account, err = accounting.NewChartOfAccount(accounting.NewChartOfAccountParams{
			Code:        req.Code,
			Name:        req.Name,
			Type:        req.Type,
			ParentID:    req.ParentID,
			Description: req.Description,
			IsActive:    req.IsActive,
		}, s.clock.Now())
		if err != nil {
			return err
		}

		if req.ParentID != nil {
			parent, err := s.accountRepo.FindByID(ctx, *req.ParentID)
			if err != nil {
				return err
			}
			if parent == nil {
				return shared.NewNotFoundError("Parent account not found")
			}
			if err := account.ValidateParentType(parent); err != nil {
				return err
			}
		}

		return s.accountRepo.Save(ctx, account)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, account)

	s.logger.Info("account created",
		zap.String("account_id", account.ID.String()),
		zap.String("code", account.Code),
		zap.String("type", account.Type.String()),
	)

	return toAccountResponse(account), nil
}

// UpdateAccount applies a partial update. On code change uniqueness is
// re-validated excluding the account itself; on parent change the new
// parent's ancestor chain is walked to guard against cycles and type
// mismatches. ChartOfAccountUpdated is emitted only when something changed.
func (s *AccountService) UpdateAccount(ctx context.Context, id uuid.UUID, req UpdateAccountRequest) (*AccountResponse, error) {
	var account *accounting.ChartOfAccount
	var changed bool

	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		account, err = s.accountRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if account == nil {
			return shared.NewNotFoundError("Account not found")
		}

		if req.Code != nil && *req.Code != account.Code {
			exists, err := s.accountRepo.ExistsByCode(ctx, *req.Code, account.ID)
			if err != nil {
				return err
			}
			if exists {
				return shared.NewDomainError(shared.CodeAlreadyExist, "An account with this code already exists")
			}
		}

		// Validate the hierarchy against the state the account will have
		// after the update, so a type change and a parent change are
		// checked together.
		targetType := account.Type
		if req.Type != nil {
			if targetType, err = accounting.ParseAccountType(*req.Type); err != nil {
				return err
			}
		}
		targetParent := account.ParentID
		if req.ClearParent {
			targetParent = nil
		} else if req.ParentID != nil {
			targetParent = req.ParentID
		}

		if targetParent != nil {
			all, err := s.accountRepo.FindAll(ctx)
			if err != nil {
				return err
			}
			hierarchy := accounting.NewHierarchy(all)
			probe := *account
			probe.Type = targetType
			if err := hierarchy.ValidateNewParent(&probe, *targetParent); err != nil {
				return err
			}
		}

		changes, err := account.ApplyUpdate(accounting.UpdateChartOfAccountParams{
			Code:        req.Code,
			Name:        req.Name,
			Type:        req.Type,
			ParentID:    req.ParentID,
			ClearParent: req.ClearParent,
			Description: req.Description,
		}, s.clock.Now())
		if err != nil {
			return err
		}

		if req.IsActive != nil && *req.IsActive != account.IsActive {
			if *req.IsActive {
				account.Activate(s.clock.Now())
			} else {
				account.Deactivate(s.clock.Now())
			}
			changes["is_active"] = [2]any{!account.IsActive, account.IsActive}
		}

		if len(changes) == 0 {
			return nil
		}
		changed = true

		return s.accountRepo.Save(ctx, account)
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.publishEvents(ctx, account)
		s.logger.Info("account updated",
			zap.String("account_id", account.ID.String()),
			zap.String("code", account.Code),
		)
	}

	return toAccountResponse(account), nil
}

// DeleteAccount removes an unused leaf account. Accounts with children or
// with journal lines posted against them must be deactivated instead.
// The deleted event carries the pre-deletion snapshot.
func (s *AccountService) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	var events []shared.DomainEvent

	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		account, err := s.accountRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if account == nil {
			return shared.NewNotFoundError("Account not found")
		}

		hasChildren, err := s.accountRepo.HasChildren(ctx, id)
		if err != nil {
			return err
		}
		if hasChildren {
			return shared.NewStateError("Cannot delete an account that has child accounts")
		}

		hasTransactions, err := s.accountRepo.HasTransactions(ctx, id)
		if err != nil {
			return err
		}
		if hasTransactions {
			return shared.NewStateError("Cannot delete an account that has journal lines posted against it")
		}

		events = append(events, accounting.NewChartOfAccountDeletedEvent(account, s.clock.Now()))

		return s.accountRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish account deleted event", zap.Error(err))
	}

	s.logger.Info("account deleted", zap.String("account_id", id.String()))

	return nil
}

// GetAccount returns a single account
func (s *AccountService) GetAccount(ctx context.Context, id uuid.UUID) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, shared.NewNotFoundError("Account not found")
	}
	return toAccountResponse(account), nil
}

// ListAccounts returns every account in the chart
func (s *AccountService) ListAccounts(ctx context.Context) ([]AccountResponse, error) {
	accounts, err := s.accountRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]AccountResponse, 0, len(accounts))
	for i := range accounts {
		responses = append(responses, *toAccountResponse(&accounts[i]))
	}
	return responses, nil
}

func (s *AccountService) publishEvents(ctx context.Context, account *accounting.ChartOfAccount) {
	events := account.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish account events", zap.Error(err))
	}
	account.ClearDomainEvents()
}
