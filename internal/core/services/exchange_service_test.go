package services_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/coinledger/coinledger/internal/apperrors"
	"github.com/coinledger/coinledger/internal/core/domain"
	portssvc "github.com/coinledger/coinledger/internal/core/ports/services"
	"github.com/coinledger/coinledger/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite ---
type ExchangeServiceTestSuite struct {
	suite.Suite
	mockStore *MockBalanceStore
	ledger    portssvc.BalanceLedgerSvc
	service   portssvc.ExchangeSvc
}

func (suite *ExchangeServiceTestSuite) SetupTest() {
	suite.mockStore = new(MockBalanceStore)
	suite.mockStore.On("ProvisionCurrency", mock.Anything, mock.Anything).Return(nil)

	ctx := context.Background()
	registry := services.NewRegistryService(suite.mockStore)

	for _, currency := range []domain.Currency{
		{
			ID:              "money",
			Name:            "Money",
			Decimal:         true,
			ExchangeAllowed: true,
			ExchangeRates: map[string]decimal.Decimal{
				"coins":  decimal.NewFromInt(2),
				"capped": decimal.NewFromInt(2),
			},
		},
		{
			ID:              "coins",
			Name:            "Coins",
			ExchangeAllowed: true,
			ExchangeRates: map[string]decimal.Decimal{
				"money": decimal.RequireFromString("0.333"),
			},
		},
		{
			ID:              "capped",
			Name:            "Capped",
			Decimal:         true,
			MaxValue:        decimal.NewFromInt(10),
			ExchangeAllowed: true,
		},
		{
			ID:   "locked",
			Name: "Locked",
			ExchangeRates: map[string]decimal.Decimal{
				"money": decimal.NewFromInt(1),
			},
		},
		{
			ID:              "gems",
			Name:            "Gems",
			ExchangeAllowed: true,
		},
	} {
		_, err := registry.RegisterCurrency(ctx, currency)
		suite.Require().NoError(err)
	}

	suite.ledger = services.NewLedgerService(suite.mockStore, registry, time.Hour)
	audit := services.NewAuditLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	suite.service = services.NewExchangeService(registry, suite.ledger, audit)
}

func (suite *ExchangeServiceTestSuite) TearDownTest() {
	suite.ledger.Close()
}

// --- Test Cases ---

func (suite *ExchangeServiceTestSuite) TestExchange_Success() {
	ctx := context.Background()
	account := testAccount("bob", map[string]decimal.Decimal{"money": decimal.NewFromInt(10)})

	suite.mockStore.On("FindAccountByName", ctx, "bob").Return(account, nil).Once()
	suite.mockStore.On("SaveAccount", mock.Anything, mock.MatchedBy(func(a domain.Account) bool {
		return a.AccountID == account.AccountID &&
			a.Balances["money"].Equal(decimal.NewFromInt(6)) &&
			a.Balances["coins"].Equal(decimal.NewFromInt(8))
	})).Return(nil).Once()

	result, err := suite.service.Exchange(ctx, "bob", "money", "coins", decimal.NewFromInt(4))

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Equal("money", result.From)
	suite.Equal("coins", result.To)
	suite.True(result.Taken.Equal(decimal.NewFromInt(4)))
	suite.True(result.Received.Equal(decimal.NewFromInt(8)))
	suite.True(result.FromBalance.Equal(decimal.NewFromInt(6)))
	suite.True(result.ToBalance.Equal(decimal.NewFromInt(8)))

	// Both legs of the exchange land in one persisted write.
	suite.ledger.Close()
	suite.mockStore.AssertExpectations(suite.T())
	suite.mockStore.AssertNumberOfCalls(suite.T(), "SaveAccount", 1)
}

func (suite *ExchangeServiceTestSuite) TestExchange_InsufficientBalance() {
	ctx := context.Background()
	account := testAccount("bob", map[string]decimal.Decimal{"money": decimal.NewFromInt(2)})

	suite.mockStore.On("FindAccountByName", ctx, "bob").Return(account, nil).Once()

	result, err := suite.service.Exchange(ctx, "bob", "money", "coins", decimal.NewFromInt(4))

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)

	// The rejection leaves both balances untouched and schedules no write.
	balance, err := suite.ledger.GetBalance(ctx, "bob", "money")
	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.NewFromInt(2)))
	balance, err = suite.ledger.GetBalance(ctx, "bob", "coins")
	suite.Require().NoError(err)
	suite.True(balance.IsZero())

	suite.ledger.Close()
	suite.mockStore.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *ExchangeServiceTestSuite) TestExchange_Disabled() {
	ctx := context.Background()

	result, err := suite.service.Exchange(ctx, "bob", "locked", "money", decimal.NewFromInt(1))

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrExchangeDisabled)
	suite.mockStore.AssertNotCalled(suite.T(), "FindAccountByName", mock.Anything, mock.Anything)
}

func (suite *ExchangeServiceTestSuite) TestExchange_NoRoute() {
	ctx := context.Background()
	account := testAccount("bob", map[string]decimal.Decimal{"gems": decimal.NewFromInt(10)})

	suite.mockStore.On("FindAccountByName", ctx, "bob").Return(account, nil).Once()

	result, err := suite.service.Exchange(ctx, "bob", "gems", "money", decimal.NewFromInt(5))

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrNoExchangeRoute)
}

func (suite *ExchangeServiceTestSuite) TestExchange_AmountFloorsToZero() {
	ctx := context.Background()
	account := testAccount("bob", map[string]decimal.Decimal{"coins": decimal.NewFromInt(10)})

	suite.mockStore.On("FindAccountByName", ctx, "bob").Return(account, nil).Once()

	result, err := suite.service.Exchange(ctx, "bob", "coins", "money", decimal.RequireFromString("0.5"))

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrAmountTooSmall)
}

func (suite *ExchangeServiceTestSuite) TestExchange_ReceivedFloorsToZero() {
	ctx := context.Background()
	account := testAccount("bob", map[string]decimal.Decimal{"money": decimal.NewFromInt(10)})

	suite.mockStore.On("FindAccountByName", ctx, "bob").Return(account, nil).Once()

	// 0.2 money at rate 2 is 0.4 coins, which floors to zero.
	result, err := suite.service.Exchange(ctx, "bob", "money", "coins", decimal.RequireFromString("0.2"))

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrAmountTooSmall)

	balance, err := suite.ledger.GetBalance(ctx, "bob", "money")
	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.NewFromInt(10)))
}

func (suite *ExchangeServiceTestSuite) TestExchange_TargetLimitExceeded() {
	ctx := context.Background()
	account := testAccount("bob", map[string]decimal.Decimal{"money": decimal.NewFromInt(10)})

	suite.mockStore.On("FindAccountByName", ctx, "bob").Return(account, nil).Once()

	// 6 money at rate 2 is 12 capped, above its max of 10.
	result, err := suite.service.Exchange(ctx, "bob", "money", "capped", decimal.NewFromInt(6))

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrTargetLimitExceeded)

	balance, err := suite.ledger.GetBalance(ctx, "bob", "money")
	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.NewFromInt(10)))
}

func (suite *ExchangeServiceTestSuite) TestExchange_UnknownCurrency() {
	ctx := context.Background()

	result, err := suite.service.Exchange(ctx, "bob", "money", "ghost", decimal.NewFromInt(1))

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrCurrencyNotFound)
}

func (suite *ExchangeServiceTestSuite) TestExchange_RoundTripLosesValue() {
	ctx := context.Background()
	account := testAccount("bob", map[string]decimal.Decimal{"coins": decimal.NewFromInt(10)})

	suite.mockStore.On("FindAccountByName", ctx, "bob").Return(account, nil).Once()
	suite.mockStore.On("SaveAccount", mock.Anything, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	// 7 coins at rate 0.333 is 2.331 money, rounded to 2.33.
	result, err := suite.service.Exchange(ctx, "bob", "coins", "money", decimal.NewFromInt(7))
	suite.Require().NoError(err)
	suite.True(result.Received.Equal(decimal.RequireFromString("2.33")))

	// 2.33 money at rate 2 is 4.66 coins, floored to 4.
	result, err = suite.service.Exchange(ctx, "bob", "money", "coins", decimal.RequireFromString("2.33"))
	suite.Require().NoError(err)
	suite.True(result.Received.Equal(decimal.NewFromInt(4)))

	// Rounding only ever loses value across a round trip: 10 coins in, 7 out.
	balance, err := suite.ledger.GetBalance(ctx, "bob", "coins")
	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.NewFromInt(7)))
	balance, err = suite.ledger.GetBalance(ctx, "bob", "money")
	suite.Require().NoError(err)
	suite.True(balance.IsZero())

	suite.ledger.Close()
	suite.mockStore.AssertNumberOfCalls(suite.T(), "SaveAccount", 1)
}

// --- Run Suite ---
func TestExchangeService(t *testing.T) {
	suite.Run(t, new(ExchangeServiceTestSuite))
}
