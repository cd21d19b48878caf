// Package integration exercises the stack end to end against an
// in-memory SQLite database: real repositories, real unit of work, real
// event bus, with only the clock fixed for determinism.
package integration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/erp/ledger/internal/domain/accounting"
)

// testTime is the fixed wall clock used by every integration test
var testTime = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

// NewTestDB opens a private in-memory SQLite database with the ledger
// schema migrated. The connection pool is capped at one so every query
// sees the same in-memory database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err, "failed to open in-memory database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&accounting.ChartOfAccount{},
		&accounting.JournalEntry{},
		&accounting.JournalEntryLine{},
		&accounting.AccountingPeriod{},
		&accounting.Budget{},
		&accounting.BudgetEncumbrance{},
	), "failed to migrate schema")

	return db
}
