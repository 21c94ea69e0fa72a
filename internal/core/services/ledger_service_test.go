package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/coinledger/coinledger/internal/apperrors"
	"github.com/coinledger/coinledger/internal/core/domain"
	portsrepo "github.com/coinledger/coinledger/internal/core/ports/repositories"
	portssvc "github.com/coinledger/coinledger/internal/core/ports/services"
	"github.com/coinledger/coinledger/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock BalanceStore ---
type MockBalanceStore struct {
	mock.Mock
}

func (m *MockBalanceStore) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockBalanceStore) FindAccountByName(ctx context.Context, displayName string) (*domain.Account, error) {
	args := m.Called(ctx, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockBalanceStore) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockBalanceStore) LoadBalanceSnapshot(ctx context.Context) (portsrepo.BalanceSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(portsrepo.BalanceSnapshot), args.Error(1)
}

func (m *MockBalanceStore) ProvisionCurrency(ctx context.Context, currencyID string) error {
	args := m.Called(ctx, currencyID)
	return args.Error(0)
}

var _ portsrepo.BalanceStore = (*MockBalanceStore)(nil)

// testAccount builds a cache-ready account fixture.
func testAccount(displayName string, balances map[string]decimal.Decimal) *domain.Account {
	if balances == nil {
		balances = map[string]decimal.Decimal{}
	}
	return &domain.Account{
		AccountID:   uuid.NewString(),
		DisplayName: displayName,
		CreatedAt:   time.Now().UTC(),
		Balances:    balances,
	}
}

// --- Test Suite ---
type LedgerServiceTestSuite struct {
	suite.Suite
	mockStore *MockBalanceStore
	ledger    portssvc.BalanceLedgerSvc
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockStore = new(MockBalanceStore)
	suite.mockStore.On("ProvisionCurrency", mock.Anything, mock.Anything).Return(nil)

	ctx := context.Background()
	registry := services.NewRegistryService(suite.mockStore)
	_, err := registry.RegisterCurrency(ctx, domain.Currency{
		ID:         "coins",
		Name:       "Coins",
		StartValue: decimal.NewFromInt(100),
	})
	suite.Require().NoError(err)
	_, err = registry.RegisterCurrency(ctx, domain.Currency{
		ID:       "money",
		Name:     "Money",
		Decimal:  true,
		MaxValue: decimal.NewFromInt(500),
	})
	suite.Require().NoError(err)

	// A long debounce interval so only Close flushes pending writes.
	suite.ledger = services.NewLedgerService(suite.mockStore, registry, time.Hour)
}

func (suite *LedgerServiceTestSuite) TearDownTest() {
	suite.ledger.Close()
}

// --- Test Cases ---

func (suite *LedgerServiceTestSuite) TestResolveByID_CreatesAccountOnFirstAccess() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockStore.On("FindAccountByID", ctx, accountID).Return(nil, apperrors.ErrAccountNotFound).Once()
	suite.mockStore.On("SaveAccount", mock.Anything, mock.MatchedBy(func(a domain.Account) bool {
		return a.AccountID == accountID
	})).Return(nil).Once()

	res := <-suite.ledger.ResolveAsync(ctx, accountID)

	suite.Require().NoError(res.Err)
	suite.Require().NotNil(res.Account)
	suite.Equal(accountID, res.Account.AccountID)
	suite.Equal(accountID, res.Account.DisplayName)
	suite.True(res.Account.Balances["coins"].Equal(decimal.NewFromInt(100)))
	suite.True(res.Account.Balances["money"].IsZero())

	// The freshly created account is scheduled for the next flush.
	suite.ledger.Close()
	suite.mockStore.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestResolveByName_Found() {
	ctx := context.Background()
	account := testAccount("alice", map[string]decimal.Decimal{"coins": decimal.NewFromInt(100)})

	suite.mockStore.On("FindAccountByName", ctx, "alice").Return(account, nil).Once()

	res := <-suite.ledger.ResolveAsync(ctx, "alice")
	suite.Require().NoError(res.Err)
	suite.Equal(account.AccountID, res.Account.AccountID)

	// The second resolution is served from the cache.
	res = <-suite.ledger.ResolveAsync(ctx, "alice")
	suite.Require().NoError(res.Err)
	suite.Equal(account.AccountID, res.Account.AccountID)

	suite.mockStore.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestResolveByName_NotFound() {
	ctx := context.Background()

	suite.mockStore.On("FindAccountByName", ctx, "ghost").Return(nil, apperrors.ErrAccountNotFound).Once()

	res := <-suite.ledger.ResolveAsync(ctx, "ghost")

	suite.Require().Error(res.Err)
	suite.Nil(res.Account)
	suite.ErrorIs(res.Err, apperrors.ErrAccountNotFound)
	suite.mockStore.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestGetBalance_FallsBackToStartValue() {
	ctx := context.Background()
	account := testAccount("alice", nil)

	suite.mockStore.On("FindAccountByName", ctx, "alice").Return(account, nil).Once()

	balance, err := suite.ledger.GetBalance(ctx, "alice", "coins")

	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.NewFromInt(100)))
	suite.mockStore.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestRemoveBalance_ClampsAtZero() {
	ctx := context.Background()
	account := testAccount("alice", map[string]decimal.Decimal{"coins": decimal.NewFromInt(100)})
	noSave := portssvc.MutateOptions{NoSave: true}

	suite.mockStore.On("FindAccountByName", ctx, "alice").Return(account, nil).Once()

	balance, err := suite.ledger.RemoveBalance(ctx, "alice", "coins", decimal.NewFromInt(150), noSave)
	suite.Require().NoError(err)
	suite.True(balance.IsZero())

	balance, err = suite.ledger.AddBalance(ctx, "alice", "coins", decimal.NewFromInt(50), noSave)
	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.NewFromInt(50)))

	suite.mockStore.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestSetBalance_ClampsToRange() {
	ctx := context.Background()
	account := testAccount("alice", nil)
	noSave := portssvc.MutateOptions{NoSave: true}

	suite.mockStore.On("FindAccountByName", ctx, "alice").Return(account, nil).Once()

	balance, err := suite.ledger.SetBalance(ctx, "alice", "money", decimal.NewFromInt(1000), noSave)
	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.NewFromInt(500)))

	balance, err = suite.ledger.SetBalance(ctx, "alice", "money", decimal.NewFromInt(-5), noSave)
	suite.Require().NoError(err)
	suite.True(balance.IsZero())

	suite.mockStore.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestNonDecimalCurrency_FloorsAmounts() {
	ctx := context.Background()
	account := testAccount("alice", map[string]decimal.Decimal{"coins": decimal.NewFromInt(10)})
	noSave := portssvc.MutateOptions{NoSave: true}

	suite.mockStore.On("FindAccountByName", ctx, "alice").Return(account, nil).Once()

	balance, err := suite.ledger.AddBalance(ctx, "alice", "coins", decimal.RequireFromString("5.9"), noSave)
	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.NewFromInt(15)))

	suite.mockStore.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestDecimalCurrency_RoundsToTwoPlaces() {
	ctx := context.Background()
	account := testAccount("alice", nil)
	noSave := portssvc.MutateOptions{NoSave: true}

	suite.mockStore.On("FindAccountByName", ctx, "alice").Return(account, nil).Once()

	balance, err := suite.ledger.SetBalance(ctx, "alice", "money", decimal.RequireFromString("1.005"), noSave)
	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.RequireFromString("1.01")))

	suite.mockStore.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestMutate_UnknownCurrency() {
	ctx := context.Background()

	_, err := suite.ledger.AddBalance(ctx, "alice", "gems", decimal.NewFromInt(1), portssvc.MutateOptions{})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrCurrencyNotFound)
	suite.mockStore.AssertNotCalled(suite.T(), "FindAccountByName", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestScheduleSave_CoalescesWrites() {
	ctx := context.Background()
	account := testAccount("alice", map[string]decimal.Decimal{"coins": decimal.NewFromInt(10)})

	suite.mockStore.On("FindAccountByName", ctx, "alice").Return(account, nil).Once()
	suite.mockStore.On("SaveAccount", mock.Anything, mock.MatchedBy(func(a domain.Account) bool {
		return a.AccountID == account.AccountID && a.Balances["coins"].Equal(decimal.NewFromInt(17))
	})).Return(nil).Once()

	_, err := suite.ledger.AddBalance(ctx, "alice", "coins", decimal.NewFromInt(5), portssvc.MutateOptions{})
	suite.Require().NoError(err)
	_, err = suite.ledger.AddBalance(ctx, "alice", "coins", decimal.NewFromInt(2), portssvc.MutateOptions{})
	suite.Require().NoError(err)

	// Both mutations land in the same debounce window, so the flush writes
	// the account once with the final state.
	suite.ledger.Close()
	suite.mockStore.AssertExpectations(suite.T())
	suite.mockStore.AssertNumberOfCalls(suite.T(), "SaveAccount", 1)
}

func (suite *LedgerServiceTestSuite) TestNoSave_SkipsScheduledSave() {
	ctx := context.Background()
	account := testAccount("alice", map[string]decimal.Decimal{"coins": decimal.NewFromInt(10)})

	suite.mockStore.On("FindAccountByName", ctx, "alice").Return(account, nil).Once()

	_, err := suite.ledger.AddBalance(ctx, "alice", "coins", decimal.NewFromInt(5), portssvc.MutateOptions{NoSave: true})
	suite.Require().NoError(err)

	suite.ledger.Close()
	suite.mockStore.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestPerform_NoSaveOnFailure() {
	ctx := context.Background()
	account := testAccount("alice", map[string]decimal.Decimal{"coins": decimal.NewFromInt(10)})
	expectedErr := apperrors.ErrInsufficientBalance

	suite.mockStore.On("FindAccountByName", ctx, "alice").Return(account, nil).Once()

	result, err := suite.ledger.Perform(ctx, "alice", func(a *domain.Account) error {
		return expectedErr
	})

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, expectedErr)

	suite.ledger.Close()
	suite.mockStore.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestPerformAsync_MutatesAndSchedulesSave() {
	ctx := context.Background()
	account := testAccount("alice", map[string]decimal.Decimal{"coins": decimal.NewFromInt(10)})
	coins := domain.Currency{ID: "coins", Name: "Coins"}

	suite.mockStore.On("FindAccountByName", ctx, "alice").Return(account, nil).Once()
	suite.mockStore.On("SaveAccount", mock.Anything, mock.MatchedBy(func(a domain.Account) bool {
		return a.Balances["coins"].Equal(decimal.NewFromInt(17))
	})).Return(nil).Once()

	res := <-suite.ledger.PerformAsync(ctx, "alice", func(a *domain.Account) error {
		a.AddBalance(coins, decimal.NewFromInt(7))
		return nil
	})

	suite.Require().NoError(res.Err)
	suite.Require().NotNil(res.Account)
	suite.True(res.Account.Balances["coins"].Equal(decimal.NewFromInt(17)))

	suite.ledger.Close()
	suite.mockStore.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestPerformAsync_ErrorOnChannelSkipsSave() {
	ctx := context.Background()
	account := testAccount("alice", map[string]decimal.Decimal{"coins": decimal.NewFromInt(10)})

	suite.mockStore.On("FindAccountByName", ctx, "alice").Return(account, nil).Once()

	res := <-suite.ledger.PerformAsync(ctx, "alice", func(a *domain.Account) error {
		return apperrors.ErrInsufficientBalance
	})

	suite.Require().Error(res.Err)
	suite.Nil(res.Account)
	suite.ErrorIs(res.Err, apperrors.ErrInsufficientBalance)

	suite.ledger.Close()
	suite.mockStore.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestSaveAsync_WritesWithoutDebounce() {
	ctx := context.Background()
	account := testAccount("alice", map[string]decimal.Decimal{"coins": decimal.NewFromInt(10)})

	suite.mockStore.On("FindAccountByName", ctx, "alice").Return(account, nil).Once()

	res := <-suite.ledger.ResolveAsync(ctx, "alice")
	suite.Require().NoError(res.Err)

	_, err := suite.ledger.AddBalance(ctx, res.Account.AccountID, "coins", decimal.NewFromInt(5), portssvc.MutateOptions{NoSave: true})
	suite.Require().NoError(err)

	saved := make(chan domain.Account, 1)
	suite.mockStore.On("SaveAccount", mock.Anything, mock.AnythingOfType("domain.Account")).Run(func(args mock.Arguments) {
		saved <- args.Get(1).(domain.Account)
	}).Return(nil).Once()

	// The debounce interval is an hour, so only SaveAsync can write here.
	suite.ledger.SaveAsync(res.Account.AccountID)

	select {
	case written := <-saved:
		suite.True(written.Balances["coins"].Equal(decimal.NewFromInt(15)))
	case <-time.After(2 * time.Second):
		suite.FailNow("immediate save did not reach the store")
	}
	suite.mockStore.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestPerformPair_MutatesBothUnderOneLock() {
	ctx := context.Background()
	alice := testAccount("alice", map[string]decimal.Decimal{"coins": decimal.NewFromInt(10)})
	bob := testAccount("bob", nil)
	coins := domain.Currency{ID: "coins", Name: "Coins"}

	suite.mockStore.On("FindAccountByName", ctx, "alice").Return(alice, nil).Once()
	suite.mockStore.On("FindAccountByName", ctx, "bob").Return(bob, nil).Once()
	suite.mockStore.On("SaveAccount", mock.Anything, mock.AnythingOfType("domain.Account")).Return(nil).Twice()

	first, second, err := suite.ledger.PerformPair(ctx, "alice", "bob", func(a, b *domain.Account) error {
		a.RemoveBalance(coins, decimal.NewFromInt(3))
		b.AddBalance(coins, decimal.NewFromInt(3))
		return nil
	})

	suite.Require().NoError(err)
	suite.True(first.Balances["coins"].Equal(decimal.NewFromInt(7)))
	suite.True(second.Balances["coins"].Equal(decimal.NewFromInt(3)))

	suite.ledger.Close()
	suite.mockStore.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestPerformPair_SameIdentifierSharesAccount() {
	ctx := context.Background()
	account := testAccount("alice", map[string]decimal.Decimal{"coins": decimal.NewFromInt(10)})

	suite.mockStore.On("FindAccountByName", ctx, "alice").Return(account, nil).Once()

	first, second, err := suite.ledger.PerformPair(ctx, "alice", "alice", func(a, b *domain.Account) error {
		suite.Same(a, b)
		return apperrors.ErrValidation
	})

	suite.Require().Error(err)
	suite.Nil(first)
	suite.Nil(second)
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.ledger.Close()
	suite.mockStore.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

// --- Run Suite ---
func TestLedgerService(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
