package persistence

import (
	"context"

	"github.com/erp/ledger/internal/domain/shared"
	"gorm.io/gorm"
)

type txKey struct{}

// WithTx stores an open transaction on the context so repositories called
// inside a unit of work join it instead of the base connection.
func WithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// txFromContext returns the transaction stored on the context, if any
func txFromContext(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(txKey{}).(*gorm.DB)
	return tx, ok
}

// GormUnitOfWork runs a function inside a single database transaction.
// Gate reads (period lock, budget headroom) and the writes they guard must
// see the same snapshot, so services wrap whole operations in Execute.
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a unit of work over the given connection
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// Execute runs fn inside a transaction. A nested call joins the ambient
// transaction instead of opening another one.
func (u *GormUnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(WithTx(ctx, tx))
	})
}

var _ shared.UnitOfWork = (*GormUnitOfWork)(nil)
