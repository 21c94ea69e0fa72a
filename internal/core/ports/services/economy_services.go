package services

import (
	"context"

	"github.com/coinledger/coinledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EconomyBridgeSvc exposes the host's generic economy-provider operations
// over the primary-economy currency, delegating to the ledger's mutation
// primitives.
type EconomyBridgeSvc interface {
	HasAccount(ctx context.Context, identifier string) bool
	GetBalance(ctx context.Context, identifier string) (decimal.Decimal, error)
	Deposit(ctx context.Context, identifier string, amount decimal.Decimal) (decimal.Decimal, error)
	Withdraw(ctx context.Context, identifier string, amount decimal.Decimal) (decimal.Decimal, error)
}

// EconomyBinder is consumed by the registry: when a primary-economy
// currency registers, the registry binds it here; when it unregisters, the
// binding is released.
type EconomyBinder interface {
	BindPrimary(currency domain.Currency)
	UnbindPrimary(currencyID string)
}
