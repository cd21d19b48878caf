package accounting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/ledger/internal/domain/accounting"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// JournalEntryService is the posting engine: it composes the balance check
// owned by the aggregate with the period gate, and commits every mutation
// through a single transaction so gate reads and writes cannot interleave
// with a concurrent lock.
type JournalEntryService struct {
	entryRepo   accounting.JournalEntryRepository
	accountRepo accounting.ChartOfAccountRepository
	periodRepo  accounting.AccountingPeriodRepository
	uow         shared.UnitOfWork
	publisher   shared.EventPublisher
	clock       shared.Clock
	logger      *zap.Logger
}

// NewJournalEntryService creates a new JournalEntryService
func NewJournalEntryService(
	entryRepo accounting.JournalEntryRepository,
	accountRepo accounting.ChartOfAccountRepository,
	periodRepo accounting.AccountingPeriodRepository,
	uow shared.UnitOfWork,
	publisher shared.EventPublisher,
	clock shared.Clock,
	logger *zap.Logger,
) *JournalEntryService {
	return &JournalEntryService{
		entryRepo:   entryRepo,
		accountRepo: accountRepo,
		periodRepo:  periodRepo,
		uow:         uow,
		publisher:   publisher,
		clock:       clock,
		logger:      logger,
	}
}

// JournalLineRequest is one line of a create/update request
type JournalLineRequest struct {
	AccountID   uuid.UUID       `json:"account_id" binding:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// CreateJournalEntryRequest represents a request to create a draft entry
type CreateJournalEntryRequest struct {
	ReferenceNumber string               `json:"reference_number" binding:"required"`
	EntryDate       time.Time            `json:"entry_date" binding:"required"`
	Description     string               `json:"description"`
	Lines           []JournalLineRequest `json:"lines" binding:"required"`
	CurrencyCode    string               `json:"currency_code"`
	ExchangeRate    decimal.Decimal      `json:"exchange_rate"`
}

// UpdateJournalEntryRequest represents a full draft update (line replacement)
type UpdateJournalEntryRequest struct {
	EntryDate    time.Time            `json:"entry_date" binding:"required"`
	Description  string               `json:"description"`
	Lines        []JournalLineRequest `json:"lines" binding:"required"`
	CurrencyCode string               `json:"currency_code"`
	ExchangeRate decimal.Decimal      `json:"exchange_rate"`
}

// JournalLineResponse represents a line in API responses
type JournalLineResponse struct {
	ID          uuid.UUID       `json:"id"`
	AccountID   uuid.UUID       `json:"account_id"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description,omitempty"`
}

// JournalEntryResponse represents an entry in API responses
type JournalEntryResponse struct {
	ID              uuid.UUID             `json:"id"`
	ReferenceNumber string                `json:"reference_number"`
	EntryDate       time.Time             `json:"entry_date"`
	Description     string                `json:"description,omitempty"`
	Status          string                `json:"status"`
	CurrencyCode    string                `json:"currency_code"`
	ExchangeRate    decimal.Decimal       `json:"exchange_rate"`
	Lines           []JournalLineResponse `json:"lines"`
	TotalDebit      decimal.Decimal       `json:"total_debit"`
	TotalCredit     decimal.Decimal       `json:"total_credit"`
	Total           valueobject.Money     `json:"total"`
	FunctionalTotal valueobject.Money     `json:"functional_total"`
	ReversedEntryID *uuid.UUID            `json:"reversed_entry_id,omitempty"`
	PostedAt        *time.Time            `json:"posted_at,omitempty"`
	PostedBy        *uuid.UUID            `json:"posted_by,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
	Version         int                   `json:"version"`
}

func toJournalEntryResponse(e *accounting.JournalEntry) *JournalEntryResponse {
	lines := make([]JournalLineResponse, 0, len(e.Lines))
	for _, line := range e.Lines {
		lines = append(lines, JournalLineResponse{
			ID:          line.ID,
			AccountID:   line.AccountID,
			Debit:       line.Debit,
			Credit:      line.Credit,
			Description: line.Description,
		})
	}
	return &JournalEntryResponse{
		ID:              e.ID,
		ReferenceNumber: e.ReferenceNumber,
		EntryDate:       e.EntryDate,
		Description:     e.Description,
		Status:          e.Status.String(),
		CurrencyCode:    string(e.CurrencyCode),
		ExchangeRate:    e.ExchangeRate,
		Lines:           lines,
		TotalDebit:      e.TotalDebit(),
		TotalCredit:     e.TotalCredit(),
		Total:           e.Total(),
		FunctionalTotal: e.FunctionalTotal(),
		ReversedEntryID: e.ReversedEntryID,
		PostedAt:        e.PostedAt,
		PostedBy:        e.PostedBy,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
		Version:         e.Version,
	}
}

func toLineInputs(lines []JournalLineRequest) []accounting.LineInput {
	inputs := make([]accounting.LineInput, 0, len(lines))
	for _, line := range lines {
		inputs = append(inputs, accounting.LineInput{
			AccountID:   line.AccountID,
			Debit:       line.Debit,
			Credit:      line.Credit,
			Description: line.Description,
		})
	}
	return inputs
}

// checkPeriodOpen is the period gate: resolve the period containing the
// date and refuse if it is locked. No period covering the date means open;
// the period mechanism is an opt-in control.
func (s *JournalEntryService) checkPeriodOpen(ctx context.Context, date time.Time) error {
	period, err := s.periodRepo.FindByDate(ctx, date)
	if err != nil {
		return err
	}
	if period != nil && period.IsLocked() {
		return shared.NewPeriodLockedError(fmt.Sprintf(
			"Accounting period %s (%s to %s) is locked",
			period.Name,
			period.StartDate.Format("2006-01-02"),
			period.EndDate.Format("2006-01-02"),
		))
	}
	return nil
}

// verifyAccounts checks that every referenced account exists
func (s *JournalEntryService) verifyAccounts(ctx context.Context, lines []JournalLineRequest) error {
	seen := make(map[uuid.UUID]bool, len(lines))
	for _, line := range lines {
		if line.AccountID == uuid.Nil || seen[line.AccountID] {
			continue
		}
		seen[line.AccountID] = true
		account, err := s.accountRepo.FindByID(ctx, line.AccountID)
		if err != nil {
			return err
		}
		if account == nil {
			return shared.NewNotFoundError(fmt.Sprintf("Account %s not found", line.AccountID))
		}
	}
	return nil
}

// CreateJournalEntry creates a draft entry. Balance is validated before
// anything is written; header and lines are committed in one transaction.
func (s *JournalEntryService) CreateJournalEntry(ctx context.Context, req CreateJournalEntryRequest) (*JournalEntryResponse, error) {
	var entry *accounting.JournalEntry

	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		if err := s.checkPeriodOpen(ctx, req.EntryDate); err != nil {
			return err
		}
		if err := s.verifyAccounts(ctx, req.Lines); err != nil {
			return err
		}

		var err error
		entry, err = accounting.NewJournalEntry(accounting.NewJournalEntryParams{
			ReferenceNumber: req.ReferenceNumber,
			EntryDate:       req.EntryDate,
			Description:     req.Description,
			Lines:           toLineInputs(req.Lines),
			CurrencyCode:    valueobject.Currency(req.CurrencyCode),
			ExchangeRate:    req.ExchangeRate,
		}, s.clock.Now())
		if err != nil {
			return err
		}

		return s.entryRepo.Save(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, entry)

	s.logger.Info("journal entry created",
		zap.String("entry_id", entry.ID.String()),
		zap.String("reference", entry.ReferenceNumber),
		zap.String("total_debit", entry.TotalDebit().StringFixed(2)),
	)

	return toJournalEntryResponse(entry), nil
}

// UpdateJournalEntry replaces a draft entry's header and full line set.
// Posted entries are immutable and the target date must be in an open
// period.
func (s *JournalEntryService) UpdateJournalEntry(ctx context.Context, id uuid.UUID, req UpdateJournalEntryRequest) (*JournalEntryResponse, error) {
	var entry *accounting.JournalEntry

	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		entry, err = s.entryRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if entry == nil {
			return shared.NewNotFoundError("Journal entry not found")
		}

		if err := s.checkPeriodOpen(ctx, req.EntryDate); err != nil {
			return err
		}
		if err := s.verifyAccounts(ctx, req.Lines); err != nil {
			return err
		}

		if err := entry.Update(accounting.UpdateJournalEntryParams{
			EntryDate:    req.EntryDate,
			Description:  req.Description,
			Lines:        toLineInputs(req.Lines),
			CurrencyCode: valueobject.Currency(req.CurrencyCode),
			ExchangeRate: req.ExchangeRate,
		}, s.clock.Now()); err != nil {
			return err
		}

		return s.entryRepo.Save(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("journal entry updated",
		zap.String("entry_id", entry.ID.String()),
		zap.String("reference", entry.ReferenceNumber),
	)

	return toJournalEntryResponse(entry), nil
}

// PostJournalEntry commits a draft entry to the ledger. The period gate
// reads and the status write happen in the same transaction.
func (s *JournalEntryService) PostJournalEntry(ctx context.Context, id, actor uuid.UUID) (*JournalEntryResponse, error) {
	var entry *accounting.JournalEntry

	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		entry, err = s.entryRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if entry == nil {
			return shared.NewNotFoundError("Journal entry not found")
		}

		if err := s.checkPeriodOpen(ctx, entry.EntryDate); err != nil {
			return err
		}

		if err := entry.Post(actor, s.clock.Now()); err != nil {
			return err
		}

		return s.entryRepo.Save(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, entry)

	s.logger.Info("journal entry posted",
		zap.String("entry_id", entry.ID.String()),
		zap.String("reference", entry.ReferenceNumber),
		zap.String("actor", actor.String()),
	)

	return toJournalEntryResponse(entry), nil
}

// ReverseJournalEntry creates and immediately posts the reversal of a
// posted entry. The reversal is dated now, so its own date must fall in an
// open period; both entries are written in one transaction.
func (s *JournalEntryService) ReverseJournalEntry(ctx context.Context, id, actor uuid.UUID, reason string) (*JournalEntryResponse, error) {
	var entry, reversal *accounting.JournalEntry

	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		entry, err = s.entryRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if entry == nil {
			return shared.NewNotFoundError("Journal entry not found")
		}

		now := s.clock.Now()
		if err := s.checkPeriodOpen(ctx, now); err != nil {
			return err
		}

		reversal, err = entry.BuildReversal(actor, reason, now)
		if err != nil {
			return err
		}

		if err := s.entryRepo.Save(ctx, reversal); err != nil {
			return err
		}
		return s.entryRepo.Save(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, entry)

	s.logger.Info("journal entry reversed",
		zap.String("entry_id", entry.ID.String()),
		zap.String("reversal_id", reversal.ID.String()),
		zap.String("actor", actor.String()),
	)

	return toJournalEntryResponse(reversal), nil
}

// DeleteJournalEntry removes a draft entry and its lines. Posted entries
// are permanent.
func (s *JournalEntryService) DeleteJournalEntry(ctx context.Context, id uuid.UUID) error {
	return s.uow.Execute(ctx, func(ctx context.Context) error {
		entry, err := s.entryRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if entry == nil {
			return shared.NewNotFoundError("Journal entry not found")
		}
		if entry.IsPosted() {
			return shared.NewStateError("Cannot delete a posted journal entry")
		}
		return s.entryRepo.Delete(ctx, id)
	})
}

// BatchPostFailure records one skipped entry of a batch
type BatchPostFailure struct {
	EntryID uuid.UUID `json:"entry_id"`
	Code    string    `json:"code"`
	Reason  string    `json:"reason"`
}

// BatchPostResult summarizes a best-effort batch posting
type BatchPostResult struct {
	Posted  []uuid.UUID        `json:"posted"`
	Skipped []BatchPostFailure `json:"skipped"`
}

// PostJournalEntries posts each entry independently, best effort: domain
// failures (validation, state, period lock, not found) are recorded and the
// entry skipped so unrelated entries still post. Infrastructure errors
// abort the batch.
func (s *JournalEntryService) PostJournalEntries(ctx context.Context, ids []uuid.UUID, actor uuid.UUID) (*BatchPostResult, error) {
	result := &BatchPostResult{}

	for _, id := range ids {
		if _, err := s.PostJournalEntry(ctx, id, actor); err != nil {
			var domainErr *shared.DomainError
			if errors.As(err, &domainErr) {
				s.logger.Warn("batch posting skipped entry",
					zap.String("entry_id", id.String()),
					zap.String("code", domainErr.Code),
					zap.String("reason", domainErr.Message),
				)
				result.Skipped = append(result.Skipped, BatchPostFailure{
					EntryID: id,
					Code:    domainErr.Code,
					Reason:  domainErr.Message,
				})
				continue
			}
			return nil, err
		}
		result.Posted = append(result.Posted, id)
	}

	return result, nil
}

// GetJournalEntry returns a single entry with its lines
func (s *JournalEntryService) GetJournalEntry(ctx context.Context, id uuid.UUID) (*JournalEntryResponse, error) {
	entry, err := s.entryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, shared.NewNotFoundError("Journal entry not found")
	}
	return toJournalEntryResponse(entry), nil
}

// ListJournalEntries lists entries with filtering and pagination
func (s *JournalEntryService) ListJournalEntries(ctx context.Context, filter accounting.JournalEntryFilter) (*shared.Paginated[JournalEntryResponse], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	entries, err := s.entryRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.entryRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]JournalEntryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, *toJournalEntryResponse(&entries[i]))
	}

	paginated := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &paginated, nil
}

func (s *JournalEntryService) publishEvents(ctx context.Context, entry *accounting.JournalEntry) {
	events := entry.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish journal entry events", zap.Error(err))
	}
	entry.ClearDomainEvents()
}
