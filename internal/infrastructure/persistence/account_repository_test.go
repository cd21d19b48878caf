package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/erp/ledger/internal/domain/accounting"
)

// newMockDB creates a GORM connection backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormChartOfAccountRepository_FindByID(t *testing.T) {
	t.Run("finds existing account", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormChartOfAccountRepository(db)

		accountID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "code", "name", "type", "is_active"}).
			AddRow(accountID, "1100", "Cash", "asset", true)

		mock.ExpectQuery(`SELECT \* FROM "chart_of_accounts" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(accountID, 1).
			WillReturnRows(rows)

		account, err := repo.FindByID(context.Background(), accountID)

		require.NoError(t, err)
		require.NotNil(t, account)
		assert.Equal(t, accountID, account.ID)
		assert.Equal(t, "1100", account.Code)
		assert.Equal(t, accounting.AccountTypeAsset, account.Type)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absent account returns nil without error", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormChartOfAccountRepository(db)

		accountID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "chart_of_accounts" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(accountID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		account, err := repo.FindByID(context.Background(), accountID)

		assert.NoError(t, err)
		assert.Nil(t, account)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormChartOfAccountRepository_FindByCode(t *testing.T) {
	t.Run("absent code returns nil without error", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormChartOfAccountRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "chart_of_accounts" WHERE code = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("9999", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		account, err := repo.FindByCode(context.Background(), "9999")

		assert.NoError(t, err)
		assert.Nil(t, account)
	})
}

func TestGormChartOfAccountRepository_ExistsByCode(t *testing.T) {
	t.Run("without exclusion", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormChartOfAccountRepository(db)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "chart_of_accounts" WHERE code = \$1`).
			WithArgs("1100").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsByCode(context.Background(), "1100", uuid.Nil)

		require.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("excludes the account being updated", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormChartOfAccountRepository(db)

		excludeID := uuid.New()
		mock.ExpectQuery(`SELECT count\(\*\) FROM "chart_of_accounts" WHERE code = \$1 AND id <> \$2`).
			WithArgs("1100", excludeID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := repo.ExistsByCode(context.Background(), "1100", excludeID)

		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestGormChartOfAccountRepository_HasChildren(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormChartOfAccountRepository(db)

	parentID := uuid.New()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "chart_of_accounts" WHERE parent_id = \$1`).
		WithArgs(parentID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	hasChildren, err := repo.HasChildren(context.Background(), parentID)

	require.NoError(t, err)
	assert.True(t, hasChildren)
}

func TestGormChartOfAccountRepository_HasTransactions(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormChartOfAccountRepository(db)

	accountID := uuid.New()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "journal_entry_lines" WHERE account_id = \$1`).
		WithArgs(accountID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	hasTx, err := repo.HasTransactions(context.Background(), accountID)

	require.NoError(t, err)
	assert.False(t, hasTx)
}
