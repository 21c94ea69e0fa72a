package services

import (
	"context"

	"github.com/coinledger/coinledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MutateOptions carries the command-layer flags attached to a balance
// mutation.
type MutateOptions struct {
	// Silent suppresses notifying the affected account; it only influences
	// the audit record.
	Silent bool

	// NoSave suppresses the automatic persistence write, for callers that
	// batch their own save.
	NoSave bool
}

// AccountResult is the outcome of an asynchronous account resolution.
type AccountResult struct {
	Account *domain.Account
	Err     error
}

// AccountReaderSvc defines read operations over the balance ledger.
type AccountReaderSvc interface {
	// Resolve returns a copy of a cache-resident account. It never consults
	// the persistence store.
	Resolve(accountID string) (*domain.Account, bool)

	// ResolveAsync resolves an account by id or display name, consulting
	// the persistence store off the calling goroutine when the account is
	// not resident. Resolution by id creates the account on first access;
	// resolution by name of an unknown account yields
	// apperrors.ErrAccountNotFound.
	ResolveAsync(ctx context.Context, identifier string) <-chan AccountResult

	// GetBalance returns the account's balance for a currency, or the
	// currency's start value when the account has no entry yet.
	GetBalance(ctx context.Context, identifier, currencyID string) (decimal.Decimal, error)
}

// BalanceWriterSvc defines the ledger's mutation primitives. Every mutation
// is serialized behind the ledger's single writer and, unless NoSave is
// set, schedules a persistence write.
type BalanceWriterSvc interface {
	// SetBalance writes a balance, rounded to the currency's precision and
	// clamped to [0, MaxValue]. It returns the value actually stored.
	SetBalance(ctx context.Context, identifier, currencyID string, amount decimal.Decimal, opts MutateOptions) (decimal.Decimal, error)

	// AddBalance increases the balance by amount.
	AddBalance(ctx context.Context, identifier, currencyID string, amount decimal.Decimal, opts MutateOptions) (decimal.Decimal, error)

	// RemoveBalance decreases the balance by amount, clamping at zero
	// rather than failing.
	RemoveBalance(ctx context.Context, identifier, currencyID string, amount decimal.Decimal, opts MutateOptions) (decimal.Decimal, error)

	// Perform resolves an account and runs action against it under the
	// ledger's write lock, so the action observes a consistent snapshot and
	// no other mutation interleaves. A save is scheduled only when action
	// returns nil. It returns a copy of the account after the action.
	Perform(ctx context.Context, identifier string, action func(*domain.Account) error) (*domain.Account, error)

	// PerformAsync is Perform running off the calling goroutine, completing
	// on the returned channel.
	PerformAsync(ctx context.Context, identifier string, action func(*domain.Account) error) <-chan AccountResult

	// PerformPair resolves two accounts and runs action against both under
	// the same write lock acquisition, so a mutation spanning two accounts
	// is all-or-nothing. Both accounts are scheduled for persistence only
	// when action returns nil. The resolved accounts may be the same; the
	// action sees identical pointers then.
	PerformPair(ctx context.Context, identifier, otherIdentifier string, action func(a, b *domain.Account) error) (*domain.Account, *domain.Account, error)
}

// AccountSaverSvc schedules persistence writes. Both paths are
// fire-and-forget: failures are logged and the in-memory state stays
// authoritative.
type AccountSaverSvc interface {
	// ScheduleSave marks the account dirty for the next debounced flush.
	// Multiple mutations within one window collapse into a single write.
	ScheduleSave(accountID string)

	// SaveAsync persists the account immediately on a background goroutine.
	SaveAsync(accountID string)
}

// BalanceLedgerSvc combines all ledger interfaces.
type BalanceLedgerSvc interface {
	AccountReaderSvc
	BalanceWriterSvc
	AccountSaverSvc

	// Close stops the background saver, flushing pending writes.
	Close()
}
