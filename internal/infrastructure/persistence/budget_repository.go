package persistence

import (
	"context"
	"errors"

	"github.com/erp/ledger/internal/domain/accounting"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBudgetRepository implements BudgetRepository using GORM
type GormBudgetRepository struct {
	db *gorm.DB
}

// NewGormBudgetRepository creates a new GormBudgetRepository
func NewGormBudgetRepository(db *gorm.DB) *GormBudgetRepository {
	return &GormBudgetRepository{db: db}
}

func (r *GormBudgetRepository) conn(ctx context.Context) *gorm.DB {
	if tx, ok := txFromContext(ctx); ok {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

// FindByID finds a budget by ID, returning nil when absent
func (r *GormBudgetRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.Budget, error) {
	var budget accounting.Budget
	if err := r.conn(ctx).First(&budget, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &budget, nil
}

// FindActive resolves the active budget for a department and fiscal year
func (r *GormBudgetRepository) FindActive(ctx context.Context, departmentID uuid.UUID, fiscalYear int) (*accounting.Budget, error) {
	var budget accounting.Budget
	if err := r.conn(ctx).
		Where("department_id = ? AND fiscal_year = ? AND is_active = ?", departmentID, fiscalYear, true).
		First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &budget, nil
}

// Save creates or updates a budget
func (r *GormBudgetRepository) Save(ctx context.Context, budget *accounting.Budget) error {
	return r.conn(ctx).Save(budget).Error
}

// SaveEncumbrance creates or updates an encumbrance record
func (r *GormBudgetRepository) SaveEncumbrance(ctx context.Context, enc *accounting.BudgetEncumbrance) error {
	return r.conn(ctx).Save(enc).Error
}

// FindEncumbranceByID finds an encumbrance by ID, returning nil when absent
func (r *GormBudgetRepository) FindEncumbranceByID(ctx context.Context, id uuid.UUID) (*accounting.BudgetEncumbrance, error) {
	var enc accounting.BudgetEncumbrance
	if err := r.conn(ctx).First(&enc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &enc, nil
}

// FindEncumbrancesBySource finds encumbrances created by a document
func (r *GormBudgetRepository) FindEncumbrancesBySource(ctx context.Context, sourceType string, sourceID uuid.UUID) ([]accounting.BudgetEncumbrance, error) {
	var encs []accounting.BudgetEncumbrance
	if err := r.conn(ctx).
		Where("source_type = ? AND source_id = ?", sourceType, sourceID).
		Order("created_at ASC").
		Find(&encs).Error; err != nil {
		return nil, err
	}
	return encs, nil
}

var _ accounting.BudgetRepository = (*GormBudgetRepository)(nil)
