package persistence

import (
	"context"
	"errors"

	"github.com/erp/ledger/internal/domain/accounting"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormChartOfAccountRepository implements ChartOfAccountRepository using GORM
type GormChartOfAccountRepository struct {
	db *gorm.DB
}

// NewGormChartOfAccountRepository creates a new GormChartOfAccountRepository
func NewGormChartOfAccountRepository(db *gorm.DB) *GormChartOfAccountRepository {
	return &GormChartOfAccountRepository{db: db}
}

func (r *GormChartOfAccountRepository) conn(ctx context.Context) *gorm.DB {
	if tx, ok := txFromContext(ctx); ok {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

// FindByID finds an account by ID, returning nil when absent
func (r *GormChartOfAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.ChartOfAccount, error) {
	var account accounting.ChartOfAccount
	if err := r.conn(ctx).First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// FindByCode finds an account by its unique code, returning nil when absent
func (r *GormChartOfAccountRepository) FindByCode(ctx context.Context, code string) (*accounting.ChartOfAccount, error) {
	var account accounting.ChartOfAccount
	if err := r.conn(ctx).First(&account, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// FindAll returns all accounts ordered by code
func (r *GormChartOfAccountRepository) FindAll(ctx context.Context) ([]accounting.ChartOfAccount, error) {
	var accounts []accounting.ChartOfAccount
	if err := r.conn(ctx).Order("code ASC").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// ExistsByCode checks code uniqueness, excluding the given account id
func (r *GormChartOfAccountRepository) ExistsByCode(ctx context.Context, code string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := r.conn(ctx).Model(&accounting.ChartOfAccount{}).Where("code = ?", code)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasChildren checks whether any account references id as its parent
func (r *GormChartOfAccountRepository) HasChildren(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.conn(ctx).Model(&accounting.ChartOfAccount{}).
		Where("parent_id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasTransactions checks whether any journal line references the account
func (r *GormChartOfAccountRepository) HasTransactions(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.conn(ctx).Model(&accounting.JournalEntryLine{}).
		Where("account_id = ?", id).
		Limit(1).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an account
func (r *GormChartOfAccountRepository) Save(ctx context.Context, account *accounting.ChartOfAccount) error {
	return r.conn(ctx).Save(account).Error
}

// Delete removes an account
func (r *GormChartOfAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.conn(ctx).Delete(&accounting.ChartOfAccount{}, "id = ?", id).Error
}

var _ accounting.ChartOfAccountRepository = (*GormChartOfAccountRepository)(nil)
