package repositories

import (
	"context"

	"github.com/coinledger/coinledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceSnapshot is the full persisted balance dataset: currency id ->
// account display name -> balance. The leaderboard rebuild consumes it.
type BalanceSnapshot map[string]map[string]decimal.Decimal

// BalanceStore defines the persistence operations the core consumes. The
// core treats persistence as an abstract store; it never owns the on-disk
// format.
type BalanceStore interface {
	// FindAccountByID loads an account by its stable id. Returns
	// apperrors.ErrAccountNotFound when no record exists.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByName loads an account by its last-known display name,
	// case-insensitively. Returns apperrors.ErrAccountNotFound when no
	// record exists.
	FindAccountByName(ctx context.Context, displayName string) (*domain.Account, error)

	// SaveAccount upserts the account row and every balance entry.
	SaveAccount(ctx context.Context, account domain.Account) error

	// LoadBalanceSnapshot returns the full persisted balance dataset.
	LoadBalanceSnapshot(ctx context.Context) (BalanceSnapshot, error)

	// ProvisionCurrency makes the schema ready to hold balances for a newly
	// registered currency.
	ProvisionCurrency(ctx context.Context, currencyID string) error
}
