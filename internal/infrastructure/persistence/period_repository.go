package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/erp/ledger/internal/domain/accounting"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAccountingPeriodRepository implements AccountingPeriodRepository using GORM
type GormAccountingPeriodRepository struct {
	db *gorm.DB
}

// NewGormAccountingPeriodRepository creates a new GormAccountingPeriodRepository
func NewGormAccountingPeriodRepository(db *gorm.DB) *GormAccountingPeriodRepository {
	return &GormAccountingPeriodRepository{db: db}
}

func (r *GormAccountingPeriodRepository) conn(ctx context.Context) *gorm.DB {
	if tx, ok := txFromContext(ctx); ok {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

// FindByID finds a period by ID, returning nil when absent
func (r *GormAccountingPeriodRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.AccountingPeriod, error) {
	var period accounting.AccountingPeriod
	if err := r.conn(ctx).First(&period, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &period, nil
}

// FindByDate resolves the period whose range contains the date's calendar
// day, or nil. Boundary days count as inside the period regardless of the
// time-of-day on either operand.
func (r *GormAccountingPeriodRepository) FindByDate(ctx context.Context, date time.Time) (*accounting.AccountingPeriod, error) {
	dayStart, dayEnd := dayBounds(date)
	var period accounting.AccountingPeriod
	if err := r.conn(ctx).
		Where("start_date < ? AND end_date >= ?", dayEnd, dayStart).
		First(&period).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &period, nil
}

// FindOverlapping returns periods whose day range intersects [start, end]
func (r *GormAccountingPeriodRepository) FindOverlapping(ctx context.Context, start, end time.Time, excludeID uuid.UUID) ([]accounting.AccountingPeriod, error) {
	startDay, _ := dayBounds(start)
	_, endDayEnd := dayBounds(end)
	var periods []accounting.AccountingPeriod
	query := r.conn(ctx).
		Where("start_date < ? AND end_date >= ?", endDayEnd, startDay)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Find(&periods).Error; err != nil {
		return nil, err
	}
	return periods, nil
}

// FindAll returns all periods ordered by start date
func (r *GormAccountingPeriodRepository) FindAll(ctx context.Context) ([]accounting.AccountingPeriod, error) {
	var periods []accounting.AccountingPeriod
	if err := r.conn(ctx).Order("start_date ASC").Find(&periods).Error; err != nil {
		return nil, err
	}
	return periods, nil
}

// Save creates or updates a period
func (r *GormAccountingPeriodRepository) Save(ctx context.Context, period *accounting.AccountingPeriod) error {
	return r.conn(ctx).Save(period).Error
}

// Delete removes a period
func (r *GormAccountingPeriodRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.conn(ctx).Delete(&accounting.AccountingPeriod{}, "id = ?", id).Error
}

var _ accounting.AccountingPeriodRepository = (*GormAccountingPeriodRepository)(nil)
