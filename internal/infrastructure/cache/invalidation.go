package cache

import (
	"context"

	appaccounting "github.com/erp/ledger/internal/application/accounting"
	"github.com/erp/ledger/internal/domain/accounting"
	"github.com/erp/ledger/internal/domain/shared"
	"go.uber.org/zap"
)

// ReportInvalidationHandler flushes cached reports whenever the posted
// ledger changes. Cached payloads must never outlive the figures they were
// computed from.
type ReportInvalidationHandler struct {
	cache  appaccounting.ReportCache
	logger *zap.Logger
}

// NewReportInvalidationHandler creates the invalidation handler
func NewReportInvalidationHandler(cache appaccounting.ReportCache, logger *zap.Logger) *ReportInvalidationHandler {
	return &ReportInvalidationHandler{cache: cache, logger: logger}
}

// Handle implements shared.EventHandler
func (h *ReportInvalidationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.cache == nil {
		return nil
	}
	if err := h.cache.Flush(ctx); err != nil {
		h.logger.Warn("failed to invalidate report cache",
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
		return err
	}
	h.logger.Debug("report cache invalidated", zap.String("event_type", event.EventType()))
	return nil
}

// EventTypes implements shared.EventHandler
func (h *ReportInvalidationHandler) EventTypes() []string {
	return []string{
		accounting.EventTypeJournalEntryPosted,
		accounting.EventTypeJournalEntryReversed,
	}
}

var _ shared.EventHandler = (*ReportInvalidationHandler)(nil)
