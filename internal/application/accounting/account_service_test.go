package accounting

import (
	"context"
	"testing"

	"github.com/erp/ledger/internal/domain/accounting"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type accountServiceFixture struct {
	accountRepo *MockChartOfAccountRepository
	publisher   *recordingPublisher
	service     *AccountService
}

func newAccountServiceFixture() *accountServiceFixture {
	f := &accountServiceFixture{
		accountRepo: new(MockChartOfAccountRepository),
		publisher:   &recordingPublisher{},
	}
	f.service = NewAccountService(f.accountRepo, passthroughUOW{}, f.publisher, testClock, testLogger())
	return f
}

func TestCreateAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("creates account", func(t *testing.T) {
		f := newAccountServiceFixture()
		f.accountRepo.On("ExistsByCode", ctx, "1100", uuid.Nil).Return(false, nil)
		f.accountRepo.On("Save", ctx, mock.AnythingOfType("*accounting.ChartOfAccount")).Return(nil)

		resp, err := f.service.CreateAccount(ctx, CreateAccountRequest{
			Code: "1100",
			Name: "Cash",
			Type: "asset",
		})
		require.NoError(t, err)

		assert.Equal(t, "1100", resp.Code)
		assert.Equal(t, "asset", resp.Type)
		assert.True(t, resp.IsActive)
		assert.Contains(t, f.publisher.EventTypes(), accounting.EventTypeChartOfAccountCreated)
	})

	t.Run("duplicate code is rejected", func(t *testing.T) {
		f := newAccountServiceFixture()
		f.accountRepo.On("ExistsByCode", ctx, "1100", uuid.Nil).Return(true, nil)

		_, err := f.service.CreateAccount(ctx, CreateAccountRequest{Code: "1100", Name: "Cash", Type: "asset"})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeAlreadyExist, domainErr.Code)
		f.accountRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("parent type must match", func(t *testing.T) {
		f := newAccountServiceFixture()
		parent := testAccount(uuid.New())
		parent.Type = accounting.AccountTypeLiability

		f.accountRepo.On("ExistsByCode", ctx, "1200", uuid.Nil).Return(false, nil)
		f.accountRepo.On("FindByID", ctx, parent.ID).Return(parent, nil)

		_, err := f.service.CreateAccount(ctx, CreateAccountRequest{
			Code:     "1200",
			Name:     "Receivables",
			Type:     "asset",
			ParentID: &parent.ID,
		})
		require.Error(t, err)
		assert.True(t, shared.IsStateError(err))
	})
}

func TestUpdateAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("renames account", func(t *testing.T) {
		f := newAccountServiceFixture()
		account := testAccount(uuid.New())
		account.ClearDomainEvents()
		name := "Cash on Hand"

		f.accountRepo.On("FindByID", ctx, account.ID).Return(account, nil)
		f.accountRepo.On("Save", ctx, account).Return(nil)

		resp, err := f.service.UpdateAccount(ctx, account.ID, UpdateAccountRequest{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, name, resp.Name)
		assert.Contains(t, f.publisher.EventTypes(), accounting.EventTypeChartOfAccountUpdated)
	})

	t.Run("deactivates and reactivates through the lifecycle methods", func(t *testing.T) {
		f := newAccountServiceFixture()
		account := testAccount(uuid.New())
		account.ClearDomainEvents()
		version := account.Version

		f.accountRepo.On("FindByID", ctx, account.ID).Return(account, nil)
		f.accountRepo.On("Save", ctx, account).Return(nil)

		inactive := false
		resp, err := f.service.UpdateAccount(ctx, account.ID, UpdateAccountRequest{IsActive: &inactive})
		require.NoError(t, err)
		assert.False(t, resp.IsActive)
		assert.Equal(t, version+1, account.Version)
		assert.Contains(t, f.publisher.EventTypes(), accounting.EventTypeChartOfAccountUpdated)

		active := true
		resp, err = f.service.UpdateAccount(ctx, account.ID, UpdateAccountRequest{IsActive: &active})
		require.NoError(t, err)
		assert.True(t, resp.IsActive)
		assert.Equal(t, version+2, account.Version)
	})

	t.Run("no-op update saves nothing", func(t *testing.T) {
		f := newAccountServiceFixture()
		account := testAccount(uuid.New())
		account.ClearDomainEvents()
		name := account.Name

		f.accountRepo.On("FindByID", ctx, account.ID).Return(account, nil)

		_, err := f.service.UpdateAccount(ctx, account.ID, UpdateAccountRequest{Name: &name})
		require.NoError(t, err)
		assert.Empty(t, f.publisher.EventTypes())
		f.accountRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("reparenting under own descendant is rejected", func(t *testing.T) {
		f := newAccountServiceFixture()
		root := testAccount(uuid.New())
		child := testAccount(uuid.New())
		child.Code = "1110"
		child.ParentID = &root.ID
		root.ClearDomainEvents()
		child.ClearDomainEvents()

		f.accountRepo.On("FindByID", ctx, root.ID).Return(root, nil)
		f.accountRepo.On("FindAll", ctx).Return([]accounting.ChartOfAccount{*root, *child}, nil)

		_, err := f.service.UpdateAccount(ctx, root.ID, UpdateAccountRequest{ParentID: &child.ID})
		require.Error(t, err)
		assert.True(t, shared.IsStateError(err))
	})
}

func TestDeleteAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes an unused leaf", func(t *testing.T) {
		f := newAccountServiceFixture()
		account := testAccount(uuid.New())

		f.accountRepo.On("FindByID", ctx, account.ID).Return(account, nil)
		f.accountRepo.On("HasChildren", ctx, account.ID).Return(false, nil)
		f.accountRepo.On("HasTransactions", ctx, account.ID).Return(false, nil)
		f.accountRepo.On("Delete", ctx, account.ID).Return(nil)

		require.NoError(t, f.service.DeleteAccount(ctx, account.ID))
		assert.Contains(t, f.publisher.EventTypes(), accounting.EventTypeChartOfAccountDeleted)
	})

	t.Run("refuses account with children", func(t *testing.T) {
		f := newAccountServiceFixture()
		account := testAccount(uuid.New())

		f.accountRepo.On("FindByID", ctx, account.ID).Return(account, nil)
		f.accountRepo.On("HasChildren", ctx, account.ID).Return(true, nil)

		err := f.service.DeleteAccount(ctx, account.ID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "child accounts")
		f.accountRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("refuses account with postings", func(t *testing.T) {
		f := newAccountServiceFixture()
		account := testAccount(uuid.New())

		f.accountRepo.On("FindByID", ctx, account.ID).Return(account, nil)
		f.accountRepo.On("HasChildren", ctx, account.ID).Return(false, nil)
		f.accountRepo.On("HasTransactions", ctx, account.ID).Return(true, nil)

		err := f.service.DeleteAccount(ctx, account.ID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "journal lines")
	})
}

func TestGetAccount(t *testing.T) {
	ctx := context.Background()
	f := newAccountServiceFixture()
	id := uuid.New()
	f.accountRepo.On("FindByID", ctx, id).Return(nil, nil)

	_, err := f.service.GetAccount(ctx, id)
	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
}
