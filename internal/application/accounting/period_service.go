package accounting

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/ledger/internal/domain/accounting"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccountingPeriodService manages period lifecycle and the lock that the
// posting engine enforces.
type AccountingPeriodService struct {
	periodRepo accounting.AccountingPeriodRepository
	entryRepo  accounting.JournalEntryRepository
	uow        shared.UnitOfWork
	publisher  shared.EventPublisher
	clock      shared.Clock
	logger     *zap.Logger
}

// NewAccountingPeriodService creates a new AccountingPeriodService
func NewAccountingPeriodService(
	periodRepo accounting.AccountingPeriodRepository,
	entryRepo accounting.JournalEntryRepository,
	uow shared.UnitOfWork,
	publisher shared.EventPublisher,
	clock shared.Clock,
	logger *zap.Logger,
) *AccountingPeriodService {
	return &AccountingPeriodService{
		periodRepo: periodRepo,
		entryRepo:  entryRepo,
		uow:        uow,
		publisher:  publisher,
		clock:      clock,
		logger:     logger,
	}
}

// CreatePeriodRequest represents a request to create an accounting period
type CreatePeriodRequest struct {
	Name      string    `json:"name" binding:"required"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
}

// UpdatePeriodRequest represents a request to rename or reschedule a period
type UpdatePeriodRequest struct {
	Name      *string    `json:"name"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

// PeriodResponse represents a period in API responses
type PeriodResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	StartDate time.Time  `json:"start_date"`
	EndDate   time.Time  `json:"end_date"`
	Status    string     `json:"status"`
	LockedBy  *uuid.UUID `json:"locked_by,omitempty"`
	LockedAt  *time.Time `json:"locked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func toPeriodResponse(p *accounting.AccountingPeriod) *PeriodResponse {
	return &PeriodResponse{
		ID:        p.ID,
		Name:      p.Name,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		Status:    p.Status.String(),
		LockedBy:  p.LockedBy,
		LockedAt:  p.LockedAt,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// checkOverlap rejects a date range that intersects an existing period.
// Periods partition the calendar; excludeID skips the period being updated.
func (s *AccountingPeriodService) checkOverlap(ctx context.Context, start, end time.Time, excludeID uuid.UUID) error {
	overlapping, err := s.periodRepo.FindOverlapping(ctx, start, end, excludeID)
	if err != nil {
		return err
	}
	if len(overlapping) > 0 {
		return shared.NewValidationError(fmt.Sprintf(
			"Date range overlaps existing period %s", overlapping[0].Name))
	}
	return nil
}

// CreatePeriod creates a new open accounting period
func (s *AccountingPeriodService) CreatePeriod(ctx context.Context, req CreatePeriodRequest) (*PeriodResponse, error) {
	var period *accounting.AccountingPeriod

	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		if err := s.checkOverlap(ctx, req.StartDate, req.EndDate, uuid.Nil); err != nil {
			return err
		}

		var err error
		period, err = accounting.NewAccountingPeriod(req.Name, req.StartDate, req.EndDate, s.clock.Now())
		if err != nil {
			return err
		}
		return s.periodRepo.Save(ctx, period)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("accounting period created",
		zap.String("period_id", period.ID.String()),
		zap.String("name", period.Name),
	)

	return toPeriodResponse(period), nil
}

// UpdatePeriod renames or reschedules a period. Rescheduling a locked
// period is refused; renaming is always allowed.
func (s *AccountingPeriodService) UpdatePeriod(ctx context.Context, id uuid.UUID, req UpdatePeriodRequest) (*PeriodResponse, error) {
	var period *accounting.AccountingPeriod

	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		period, err = s.periodRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if period == nil {
			return shared.NewNotFoundError("Accounting period not found")
		}

		now := s.clock.Now()
		if req.Name != nil {
			if err := period.Rename(*req.Name, now); err != nil {
				return err
			}
		}

		if req.StartDate != nil || req.EndDate != nil {
			start := period.StartDate
			end := period.EndDate
			if req.StartDate != nil {
				start = *req.StartDate
			}
			if req.EndDate != nil {
				end = *req.EndDate
			}
			if err := s.checkOverlap(ctx, start, end, period.ID); err != nil {
				return err
			}
			if err := period.Reschedule(start, end, now); err != nil {
				return err
			}
		}

		return s.periodRepo.Save(ctx, period)
	})
	if err != nil {
		return nil, err
	}

	return toPeriodResponse(period), nil
}

// LockPeriod closes a period to further postings
func (s *AccountingPeriodService) LockPeriod(ctx context.Context, id, actor uuid.UUID) (*PeriodResponse, error) {
	var period *accounting.AccountingPeriod

	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		period, err = s.periodRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if period == nil {
			return shared.NewNotFoundError("Accounting period not found")
		}
		if err := period.Lock(actor, s.clock.Now()); err != nil {
			return err
		}
		return s.periodRepo.Save(ctx, period)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, period)

	s.logger.Info("accounting period locked",
		zap.String("period_id", period.ID.String()),
		zap.String("name", period.Name),
		zap.String("actor", actor.String()),
	)

	return toPeriodResponse(period), nil
}

// UnlockPeriod reopens a locked period
func (s *AccountingPeriodService) UnlockPeriod(ctx context.Context, id uuid.UUID) (*PeriodResponse, error) {
	var period *accounting.AccountingPeriod

	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		period, err = s.periodRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if period == nil {
			return shared.NewNotFoundError("Accounting period not found")
		}
		if err := period.Unlock(s.clock.Now()); err != nil {
			return err
		}
		return s.periodRepo.Save(ctx, period)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, period)

	s.logger.Info("accounting period unlocked",
		zap.String("period_id", period.ID.String()),
		zap.String("name", period.Name),
	)

	return toPeriodResponse(period), nil
}

// DeletePeriod removes a period. Locked periods and periods that contain
// journal entries are kept.
func (s *AccountingPeriodService) DeletePeriod(ctx context.Context, id uuid.UUID) error {
	return s.uow.Execute(ctx, func(ctx context.Context) error {
		period, err := s.periodRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if period == nil {
			return shared.NewNotFoundError("Accounting period not found")
		}
		if period.IsLocked() {
			return shared.NewStateError("Cannot delete a locked period")
		}

		count, err := s.entryRepo.CountByDateRange(ctx, period.StartDate, period.EndDate)
		if err != nil {
			return err
		}
		if count > 0 {
			return shared.NewStateError(fmt.Sprintf(
				"Cannot delete period with %d journal entries", count))
		}

		return s.periodRepo.Delete(ctx, id)
	})
}

// GetPeriod returns a single period
func (s *AccountingPeriodService) GetPeriod(ctx context.Context, id uuid.UUID) (*PeriodResponse, error) {
	period, err := s.periodRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if period == nil {
		return nil, shared.NewNotFoundError("Accounting period not found")
	}
	return toPeriodResponse(period), nil
}

// ListPeriods returns all periods ordered by start date
func (s *AccountingPeriodService) ListPeriods(ctx context.Context) ([]PeriodResponse, error) {
	periods, err := s.periodRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]PeriodResponse, 0, len(periods))
	for i := range periods {
		responses = append(responses, *toPeriodResponse(&periods[i]))
	}
	return responses, nil
}

func (s *AccountingPeriodService) publishEvents(ctx context.Context, period *accounting.AccountingPeriod) {
	events := period.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish period events", zap.Error(err))
	}
	period.ClearDomainEvents()
}
