package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/coinledger/coinledger/internal/apperrors"
	"github.com/coinledger/coinledger/internal/core/domain"
	portssvc "github.com/coinledger/coinledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// economyBridgeService exposes the host's generic economy-provider contract
// over whichever currency the registry binds as the primary economy. All
// operations delegate to the ledger's mutation primitives.
type economyBridgeService struct {
	BaseService
	ledger portssvc.BalanceLedgerSvc

	mu      sync.RWMutex
	primary *domain.Currency
}

// NewEconomyBridgeService creates the bridge. The registry binds a currency
// into it when a primary-economy currency registers.
func NewEconomyBridgeService(ledger portssvc.BalanceLedgerSvc) *economyBridgeService {
	return &economyBridgeService{ledger: ledger}
}

var (
	_ portssvc.EconomyBridgeSvc = (*economyBridgeService)(nil)
	_ portssvc.EconomyBinder    = (*economyBridgeService)(nil)
)

// BindPrimary attaches the primary-economy currency to the bridge.
func (s *economyBridgeService) BindPrimary(currency domain.Currency) {
	s.mu.Lock()
	s.primary = &currency
	s.mu.Unlock()
}

// UnbindPrimary releases the binding if it belongs to the given currency.
func (s *economyBridgeService) UnbindPrimary(currencyID string) {
	s.mu.Lock()
	if s.primary != nil && s.primary.ID == currencyID {
		s.primary = nil
	}
	s.mu.Unlock()
}

func (s *economyBridgeService) primaryCurrency() (*domain.Currency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.primary == nil {
		return nil, fmt.Errorf("%w: no primary economy currency bound", apperrors.ErrConfiguration)
	}
	return s.primary, nil
}

// HasAccount reports whether an account resolves by id or name.
func (s *economyBridgeService) HasAccount(ctx context.Context, identifier string) bool {
	res := <-s.ledger.ResolveAsync(ctx, identifier)
	return res.Err == nil
}

// GetBalance returns the account's primary-economy balance.
func (s *economyBridgeService) GetBalance(ctx context.Context, identifier string) (decimal.Decimal, error) {
	currency, err := s.primaryCurrency()
	if err != nil {
		return decimal.Zero, err
	}
	return s.ledger.GetBalance(ctx, identifier, currency.ID)
}

// Deposit adds amount to the account's primary-economy balance.
func (s *economyBridgeService) Deposit(ctx context.Context, identifier string, amount decimal.Decimal) (decimal.Decimal, error) {
	currency, err := s.primaryCurrency()
	if err != nil {
		return decimal.Zero, err
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%w: deposit amount must be positive", apperrors.ErrValidation)
	}

	// Resolution and the credit both run off the caller; the provider
	// contract only needs the resulting balance.
	res := <-s.ledger.PerformAsync(ctx, identifier, func(a *domain.Account) error {
		a.AddBalance(*currency, amount)
		return nil
	})
	if res.Err != nil {
		return decimal.Zero, res.Err
	}
	s.LogDebug(ctx, "Economy deposit", slog.String("account", identifier), slog.String("amount", amount.String()))
	return res.Account.Balance(*currency), nil
}

// Withdraw removes amount from the account's primary-economy balance. The
// generic provider contract fails on insufficient funds instead of clamping.
func (s *economyBridgeService) Withdraw(ctx context.Context, identifier string, amount decimal.Decimal) (decimal.Decimal, error) {
	currency, err := s.primaryCurrency()
	if err != nil {
		return decimal.Zero, err
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%w: withdraw amount must be positive", apperrors.ErrValidation)
	}

	account, err := s.ledger.Perform(ctx, identifier, func(a *domain.Account) error {
		if a.Balance(*currency).LessThan(amount) {
			return fmt.Errorf("%w: %s balance %s is below %s",
				apperrors.ErrInsufficientBalance, currency.ID, a.Balance(*currency), amount)
		}
		a.RemoveBalance(*currency, amount)
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	s.LogDebug(ctx, "Economy withdrawal", slog.String("account", identifier), slog.String("amount", amount.String()))
	return account.Balance(*currency), nil
}
