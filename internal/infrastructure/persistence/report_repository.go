package persistence

import (
	"context"

	"github.com/erp/ledger/internal/domain/accounting"
	"gorm.io/gorm"
)

// GormLedgerReportRepository implements LedgerReportRepository using GORM.
// The aggregation joins lines to their entries so draft lines are excluded
// at the SQL level, never filtered after the fact.
type GormLedgerReportRepository struct {
	db *gorm.DB
}

// NewGormLedgerReportRepository creates a new GormLedgerReportRepository
func NewGormLedgerReportRepository(db *gorm.DB) *GormLedgerReportRepository {
	return &GormLedgerReportRepository{db: db}
}

func (r *GormLedgerReportRepository) conn(ctx context.Context) *gorm.DB {
	if tx, ok := txFromContext(ctx); ok {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

// AccountBalances returns per-account SUM(debit) and SUM(credit) over lines
// of posted entries, restricted by the filter
func (r *GormLedgerReportRepository) AccountBalances(ctx context.Context, filter accounting.BalanceFilter) ([]accounting.AccountBalanceRow, error) {
	query := r.conn(ctx).
		Table("journal_entry_lines AS l").
		Select(
			"a.id AS account_id, a.code AS account_code, a.name AS account_name, a.type AS account_type, " +
				"COALESCE(SUM(l.debit), 0) AS total_debit, COALESCE(SUM(l.credit), 0) AS total_credit",
		).
		Joins("JOIN journal_entries e ON e.id = l.journal_entry_id").
		Joins("JOIN chart_of_accounts a ON a.id = l.account_id").
		Where("e.status = ?", accounting.EntryStatusPosted)

	if filter.FromDate != nil {
		fromDay, _ := dayBounds(*filter.FromDate)
		query = query.Where("e.entry_date >= ?", fromDay)
	}
	if filter.ToDate != nil {
		_, toDayEnd := dayBounds(*filter.ToDate)
		query = query.Where("e.entry_date < ?", toDayEnd)
	}
	if len(filter.Types) > 0 {
		query = query.Where("a.type IN ?", filter.Types)
	}

	var rows []accounting.AccountBalanceRow
	if err := query.
		Group("a.id, a.code, a.name, a.type").
		Order("a.code ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

var _ accounting.LedgerReportRepository = (*GormLedgerReportRepository)(nil)
