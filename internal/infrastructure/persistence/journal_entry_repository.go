package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/erp/ledger/internal/domain/accounting"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormJournalEntryRepository implements JournalEntryRepository using GORM.
// An entry and its lines are always written together; saving a draft after
// an update replaces the stored line set.
type GormJournalEntryRepository struct {
	db *gorm.DB
}

// NewGormJournalEntryRepository creates a new GormJournalEntryRepository
func NewGormJournalEntryRepository(db *gorm.DB) *GormJournalEntryRepository {
	return &GormJournalEntryRepository{db: db}
}

func (r *GormJournalEntryRepository) conn(ctx context.Context) *gorm.DB {
	if tx, ok := txFromContext(ctx); ok {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

// FindByID finds an entry with its lines ordered by position
func (r *GormJournalEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.JournalEntry, error) {
	var entry accounting.JournalEntry
	if err := r.conn(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *GormJournalEntryRepository) applyFilter(query *gorm.DB, filter accounting.JournalEntryFilter) *gorm.DB {
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Reference != nil {
		query = query.Where("reference_number LIKE ?", "%"+*filter.Reference+"%")
	}
	if filter.FromDate != nil {
		query = query.Where("entry_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("entry_date <= ?", *filter.ToDate)
	}
	if filter.AccountID != nil {
		query = query.Where(
			"id IN (?)",
			r.db.Model(&accounting.JournalEntryLine{}).
				Select("journal_entry_id").
				Where("account_id = ?", *filter.AccountID),
		)
	}
	return query
}

// FindAll lists entries with their lines, filtered and paginated
func (r *GormJournalEntryRepository) FindAll(ctx context.Context, filter accounting.JournalEntryFilter) ([]accounting.JournalEntry, error) {
	var entries []accounting.JournalEntry
	query := r.applyFilter(r.conn(ctx).Model(&accounting.JournalEntry{}), filter).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("entry_date DESC, created_at DESC")

	if filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Count counts entries matching the filter
func (r *GormJournalEntryRepository) Count(ctx context.Context, filter accounting.JournalEntryFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.conn(ctx).Model(&accounting.JournalEntry{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByDateRange counts entries whose calendar day falls inside [start, end]
func (r *GormJournalEntryRepository) CountByDateRange(ctx context.Context, start, end time.Time) (int64, error) {
	startDay, _ := dayBounds(start)
	_, endDayEnd := dayBounds(end)
	var count int64
	if err := r.conn(ctx).Model(&accounting.JournalEntry{}).
		Where("entry_date >= ? AND entry_date < ?", startDay, endDayEnd).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save persists the header and its lines as one unit. Stale stored lines
// are removed so a draft update's line replacement reaches the database.
func (r *GormJournalEntryRepository) Save(ctx context.Context, entry *accounting.JournalEntry) error {
	conn := r.conn(ctx)

	lineIDs := make([]uuid.UUID, 0, len(entry.Lines))
	for _, line := range entry.Lines {
		lineIDs = append(lineIDs, line.ID)
	}
	if err := conn.
		Where("journal_entry_id = ? AND id NOT IN (?)", entry.ID, lineIDs).
		Delete(&accounting.JournalEntryLine{}).Error; err != nil {
		return err
	}

	return conn.Session(&gorm.Session{FullSaveAssociations: true}).Save(entry).Error
}

// Delete removes a draft entry and its lines
func (r *GormJournalEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	conn := r.conn(ctx)
	if err := conn.Delete(&accounting.JournalEntryLine{}, "journal_entry_id = ?", id).Error; err != nil {
		return err
	}
	return conn.Delete(&accounting.JournalEntry{}, "id = ?", id).Error
}

var _ accounting.JournalEntryRepository = (*GormJournalEntryRepository)(nil)
