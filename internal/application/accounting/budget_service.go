package accounting

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/ledger/internal/domain/accounting"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BudgetService manages spending envelopes and the encumbrances reserved
// against them.
type BudgetService struct {
	budgetRepo accounting.BudgetRepository
	uow        shared.UnitOfWork
	publisher  shared.EventPublisher
	clock      shared.Clock
	logger     *zap.Logger
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(
	budgetRepo accounting.BudgetRepository,
	uow shared.UnitOfWork,
	publisher shared.EventPublisher,
	clock shared.Clock,
	logger *zap.Logger,
) *BudgetService {
	return &BudgetService{
		budgetRepo: budgetRepo,
		uow:        uow,
		publisher:  publisher,
		clock:      clock,
		logger:     logger,
	}
}

// CreateBudgetRequest represents a request to create a budget envelope
type CreateBudgetRequest struct {
	DepartmentID     uuid.UUID       `json:"department_id" binding:"required"`
	FiscalYear       int             `json:"fiscal_year" binding:"required"`
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	IsStrict         bool            `json:"is_strict"`
	WarningThreshold decimal.Decimal `json:"warning_threshold"`
}

// CheckBudgetRequest asks whether a department may commit an amount
type CheckBudgetRequest struct {
	DepartmentID uuid.UUID       `json:"department_id" binding:"required"`
	FiscalYear   int             `json:"fiscal_year" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
}

// CreateEncumbranceRequest reserves an amount against a budget
type CreateEncumbranceRequest struct {
	DepartmentID uuid.UUID       `json:"department_id" binding:"required"`
	FiscalYear   int             `json:"fiscal_year" binding:"required"`
	SourceType   string          `json:"source_type" binding:"required"`
	SourceID     uuid.UUID       `json:"source_id" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
}

// BudgetResponse represents a budget in API responses
type BudgetResponse struct {
	ID               uuid.UUID       `json:"id"`
	DepartmentID     uuid.UUID       `json:"department_id"`
	FiscalYear       int             `json:"fiscal_year"`
	Amount           decimal.Decimal `json:"amount"`
	EncumberedAmount decimal.Decimal `json:"encumbered_amount"`
	AvailableAmount  decimal.Decimal `json:"available_amount"`
	IsActive         bool            `json:"is_active"`
	IsStrict         bool            `json:"is_strict"`
	WarningThreshold decimal.Decimal `json:"warning_threshold"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// EncumbranceResponse represents an encumbrance in API responses
type EncumbranceResponse struct {
	ID         uuid.UUID       `json:"id"`
	BudgetID   uuid.UUID       `json:"budget_id"`
	SourceType string          `json:"source_type"`
	SourceID   uuid.UUID       `json:"source_id"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	ReleasedAt *time.Time      `json:"released_at,omitempty"`
}

func toBudgetResponse(b *accounting.Budget) *BudgetResponse {
	return &BudgetResponse{
		ID:               b.ID,
		DepartmentID:     b.DepartmentID,
		FiscalYear:       b.FiscalYear,
		Amount:           b.Amount,
		EncumberedAmount: b.EncumberedAmount,
		AvailableAmount:  b.AvailableAmount(),
		IsActive:         b.IsActive,
		IsStrict:         b.IsStrict,
		WarningThreshold: b.WarningThreshold,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

func toEncumbranceResponse(e *accounting.BudgetEncumbrance) *EncumbranceResponse {
	return &EncumbranceResponse{
		ID:         e.ID,
		BudgetID:   e.BudgetID,
		SourceType: e.SourceType,
		SourceID:   e.SourceID,
		Amount:     e.Amount,
		Status:     string(e.Status),
		CreatedAt:  e.CreatedAt,
		ReleasedAt: e.ReleasedAt,
	}
}

// CreateBudget creates a budget envelope for a department and fiscal year
func (s *BudgetService) CreateBudget(ctx context.Context, req CreateBudgetRequest) (*BudgetResponse, error) {
	var budget *accounting.Budget

	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		existing, err := s.budgetRepo.FindActive(ctx, req.DepartmentID, req.FiscalYear)
		if err != nil {
			return err
		}
		if existing != nil {
			return &shared.DomainError{
				Code: shared.CodeAlreadyExist,
				Message: fmt.Sprintf("Budget for department %s fiscal year %d already exists",
					req.DepartmentID, req.FiscalYear),
			}
		}

		budget, err = accounting.NewBudget(
			req.DepartmentID, req.FiscalYear, req.Amount,
			req.IsStrict, req.WarningThreshold, s.clock.Now(),
		)
		if err != nil {
			return err
		}
		return s.budgetRepo.Save(ctx, budget)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("budget created",
		zap.String("budget_id", budget.ID.String()),
		zap.String("department_id", budget.DepartmentID.String()),
		zap.Int("fiscal_year", budget.FiscalYear),
	)

	return toBudgetResponse(budget), nil
}

// CheckBudget evaluates a prospective commitment without reserving
// anything. A department with no active budget is unrestricted.
func (s *BudgetService) CheckBudget(ctx context.Context, req CheckBudgetRequest) (*accounting.BudgetCheckResult, error) {
	budget, err := s.budgetRepo.FindActive(ctx, req.DepartmentID, req.FiscalYear)
	if err != nil {
		return nil, err
	}
	if budget == nil {
		return &accounting.BudgetCheckResult{
			Status:          accounting.BudgetCheckOK,
			Message:         "No budget configured",
			RequestedAmount: req.Amount,
			AvailableAmount: decimal.Zero,
		}, nil
	}

	result := budget.Check(req.Amount)
	return &result, nil
}

// CreateEncumbrance reserves an amount against the department's budget.
// The read of the envelope and the write of the reservation share one
// transaction so two documents cannot both fit in the same remainder.
func (s *BudgetService) CreateEncumbrance(ctx context.Context, req CreateEncumbranceRequest) (*EncumbranceResponse, error) {
	var budget *accounting.Budget
	var enc *accounting.BudgetEncumbrance

	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		budget, err = s.budgetRepo.FindActive(ctx, req.DepartmentID, req.FiscalYear)
		if err != nil {
			return err
		}
		if budget == nil {
			return shared.NewNotFoundError(fmt.Sprintf(
				"No active budget for department %s fiscal year %d",
				req.DepartmentID, req.FiscalYear))
		}

		enc, err = budget.Encumber(req.SourceType, req.SourceID, req.Amount, s.clock.Now())
		if err != nil {
			return err
		}

		if err := s.budgetRepo.SaveEncumbrance(ctx, enc); err != nil {
			return err
		}
		return s.budgetRepo.Save(ctx, budget)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, budget)

	s.logger.Info("budget encumbrance created",
		zap.String("budget_id", budget.ID.String()),
		zap.String("encumbrance_id", enc.ID.String()),
		zap.String("amount", enc.Amount.StringFixed(2)),
	)

	return toEncumbranceResponse(enc), nil
}

// ReleaseEncumbrance frees a reservation back to its budget. Released
// encumbrances stay on record for audit.
func (s *BudgetService) ReleaseEncumbrance(ctx context.Context, id uuid.UUID) (*EncumbranceResponse, error) {
	var budget *accounting.Budget
	var enc *accounting.BudgetEncumbrance

	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		enc, err = s.budgetRepo.FindEncumbranceByID(ctx, id)
		if err != nil {
			return err
		}
		if enc == nil {
			return shared.NewNotFoundError("Encumbrance not found")
		}

		budget, err = s.budgetRepo.FindByID(ctx, enc.BudgetID)
		if err != nil {
			return err
		}
		if budget == nil {
			return shared.NewNotFoundError("Budget not found")
		}

		if err := budget.ReleaseEncumbrance(enc, s.clock.Now()); err != nil {
			return err
		}

		if err := s.budgetRepo.SaveEncumbrance(ctx, enc); err != nil {
			return err
		}
		return s.budgetRepo.Save(ctx, budget)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, budget)

	s.logger.Info("budget encumbrance released",
		zap.String("budget_id", budget.ID.String()),
		zap.String("encumbrance_id", enc.ID.String()),
	)

	return toEncumbranceResponse(enc), nil
}

// GetBudget returns a single budget envelope
func (s *BudgetService) GetBudget(ctx context.Context, id uuid.UUID) (*BudgetResponse, error) {
	budget, err := s.budgetRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if budget == nil {
		return nil, shared.NewNotFoundError("Budget not found")
	}
	return toBudgetResponse(budget), nil
}

// DeactivateBudget retires a budget envelope. Checks against a deactivated
// budget resolve to unrestricted, so this switches off a department's
// spending control without deleting its encumbrance history.
func (s *BudgetService) DeactivateBudget(ctx context.Context, id uuid.UUID) (*BudgetResponse, error) {
	var budget *accounting.Budget

	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		budget, err = s.budgetRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if budget == nil {
			return shared.NewNotFoundError("Budget not found")
		}
		budget.Deactivate(s.clock.Now())
		return s.budgetRepo.Save(ctx, budget)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("budget deactivated",
		zap.String("budget_id", budget.ID.String()),
		zap.String("department_id", budget.DepartmentID.String()),
	)

	return toBudgetResponse(budget), nil
}

// ListEncumbrancesBySource returns the encumbrances a document created
func (s *BudgetService) ListEncumbrancesBySource(ctx context.Context, sourceType string, sourceID uuid.UUID) ([]EncumbranceResponse, error) {
	encs, err := s.budgetRepo.FindEncumbrancesBySource(ctx, sourceType, sourceID)
	if err != nil {
		return nil, err
	}
	responses := make([]EncumbranceResponse, 0, len(encs))
	for i := range encs {
		responses = append(responses, *toEncumbranceResponse(&encs[i]))
	}
	return responses, nil
}

func (s *BudgetService) publishEvents(ctx context.Context, budget *accounting.Budget) {
	events := budget.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish budget events", zap.Error(err))
	}
	budget.ClearDomainEvents()
}
