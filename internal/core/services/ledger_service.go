package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/coinledger/coinledger/internal/apperrors"
	"github.com/coinledger/coinledger/internal/core/domain"
	portsrepo "github.com/coinledger/coinledger/internal/core/ports/repositories"
	portssvc "github.com/coinledger/coinledger/internal/core/ports/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ledgerService holds the in-memory account cache and serializes every
// balance mutation behind a single write lock. Persistence is
// fire-and-forget: a background saver flushes dirty accounts on a debounce
// interval, and failures never unwind an in-memory mutation.
type ledgerService struct {
	BaseService
	store    portsrepo.BalanceStore
	registry portssvc.CurrencyReaderSvc

	// mu guards the cache maps and the contents of every cached account.
	mu     sync.RWMutex
	cache  map[string]*domain.Account
	byName map[string]string

	dirtyMu sync.Mutex
	dirty   map[string]struct{}

	done    chan struct{}
	stopped chan struct{}
	closer  sync.Once
}

// NewLedgerService creates the balance ledger and starts its background
// saver. saveInterval is the debounce window for ScheduleSave.
func NewLedgerService(store portsrepo.BalanceStore, registry portssvc.CurrencyReaderSvc, saveInterval time.Duration) *ledgerService {
	if saveInterval <= 0 {
		saveInterval = 5 * time.Second
	}
	s := &ledgerService{
		store:    store,
		registry: registry,
		cache:    make(map[string]*domain.Account),
		byName:   make(map[string]string),
		dirty:    make(map[string]struct{}),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go s.saverLoop(saveInterval)
	return s
}

var _ portssvc.BalanceLedgerSvc = (*ledgerService)(nil)

// Resolve returns a copy of a cache-resident account without consulting the
// persistence store.
func (s *ledgerService) Resolve(accountID string) (*domain.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.cache[accountID]
	if !ok {
		return nil, false
	}
	return account.Clone(), true
}

// ResolveAsync resolves an account by id or display name off the calling
// goroutine.
func (s *ledgerService) ResolveAsync(ctx context.Context, identifier string) <-chan portssvc.AccountResult {
	ch := make(chan portssvc.AccountResult, 1)
	go func() {
		account, err := s.resolve(ctx, identifier)
		if err != nil {
			ch <- portssvc.AccountResult{Err: err}
			return
		}
		s.mu.RLock()
		clone := account.Clone()
		s.mu.RUnlock()
		ch <- portssvc.AccountResult{Account: clone}
	}()
	return ch
}

// resolve returns the cache-resident account for the identifier, loading it
// from the store when absent. An id-shaped identifier that has no record
// yet creates the account with every currency's start value; an unknown
// display name is ErrAccountNotFound. The returned pointer is the cached
// account itself; callers must hold mu to touch it.
func (s *ledgerService) resolve(ctx context.Context, identifier string) (*domain.Account, error) {
	s.mu.RLock()
	if account, ok := s.cache[identifier]; ok {
		s.mu.RUnlock()
		return account, nil
	}
	if id, ok := s.byName[normalizeName(identifier)]; ok {
		account := s.cache[id]
		s.mu.RUnlock()
		return account, nil
	}
	s.mu.RUnlock()

	byID := uuid.Validate(identifier) == nil
	var (
		account *domain.Account
		err     error
	)
	if byID {
		account, err = s.store.FindAccountByID(ctx, identifier)
		if err != nil && errors.Is(err, apperrors.ErrAccountNotFound) {
			// First access creates the account.
			account = domain.NewAccount(identifier, identifier, s.registry.ListCurrencies(ctx))
			err = nil
			defer s.ScheduleSave(identifier)
		}
	} else {
		account, err = s.store.FindAccountByName(ctx, identifier)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve account %q: %w", identifier, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another goroutine may have resolved the same account meanwhile; the
	// first insertion wins.
	if resident, ok := s.cache[account.AccountID]; ok {
		return resident, nil
	}
	s.cache[account.AccountID] = account
	s.byName[normalizeName(account.DisplayName)] = account.AccountID
	return account, nil
}

// GetBalance returns the account's balance for a currency, falling back to
// the currency's start value when the account has no entry yet.
func (s *ledgerService) GetBalance(ctx context.Context, identifier, currencyID string) (decimal.Decimal, error) {
	currency, err := s.registry.GetCurrency(ctx, currencyID)
	if err != nil {
		return decimal.Zero, err
	}
	account, err := s.resolve(ctx, identifier)
	if err != nil {
		return decimal.Zero, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return account.Balance(*currency), nil
}

// SetBalance writes a balance, rounded and clamped per the currency.
func (s *ledgerService) SetBalance(ctx context.Context, identifier, currencyID string, amount decimal.Decimal, opts portssvc.MutateOptions) (decimal.Decimal, error) {
	return s.mutate(ctx, identifier, currencyID, opts, func(a *domain.Account, c domain.Currency) decimal.Decimal {
		return a.SetBalance(c, amount)
	})
}

// AddBalance increases the balance by amount.
func (s *ledgerService) AddBalance(ctx context.Context, identifier, currencyID string, amount decimal.Decimal, opts portssvc.MutateOptions) (decimal.Decimal, error) {
	return s.mutate(ctx, identifier, currencyID, opts, func(a *domain.Account, c domain.Currency) decimal.Decimal {
		return a.AddBalance(c, amount)
	})
}

// RemoveBalance decreases the balance by amount, clamping at zero rather
// than failing.
func (s *ledgerService) RemoveBalance(ctx context.Context, identifier, currencyID string, amount decimal.Decimal, opts portssvc.MutateOptions) (decimal.Decimal, error) {
	return s.mutate(ctx, identifier, currencyID, opts, func(a *domain.Account, c domain.Currency) decimal.Decimal {
		return a.RemoveBalance(c, amount)
	})
}

func (s *ledgerService) mutate(ctx context.Context, identifier, currencyID string, opts portssvc.MutateOptions, op func(*domain.Account, domain.Currency) decimal.Decimal) (decimal.Decimal, error) {
	currency, err := s.registry.GetCurrency(ctx, currencyID)
	if err != nil {
		return decimal.Zero, err
	}
	account, err := s.resolve(ctx, identifier)
	if err != nil {
		return decimal.Zero, err
	}

	s.mu.Lock()
	balance := op(account, *currency)
	accountID := account.AccountID
	s.mu.Unlock()

	if !opts.NoSave {
		s.ScheduleSave(accountID)
	}
	return balance, nil
}

// Perform resolves an account and runs action against it under the write
// lock. A single save is scheduled only when the action succeeds.
func (s *ledgerService) Perform(ctx context.Context, identifier string, action func(*domain.Account) error) (*domain.Account, error) {
	account, err := s.resolve(ctx, identifier)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	err = action(account)
	clone := account.Clone()
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}
	s.ScheduleSave(clone.AccountID)
	return clone, nil
}

// PerformPair runs action against two resolved accounts under one write
// lock acquisition. Saves for both are scheduled only when the action
// succeeds.
func (s *ledgerService) PerformPair(ctx context.Context, identifier, otherIdentifier string, action func(a, b *domain.Account) error) (*domain.Account, *domain.Account, error) {
	first, err := s.resolve(ctx, identifier)
	if err != nil {
		return nil, nil, err
	}
	second, err := s.resolve(ctx, otherIdentifier)
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	err = action(first, second)
	firstClone := first.Clone()
	secondClone := second.Clone()
	s.mu.Unlock()

	if err != nil {
		return nil, nil, err
	}
	s.ScheduleSave(firstClone.AccountID)
	s.ScheduleSave(secondClone.AccountID)
	return firstClone, secondClone, nil
}

// PerformAsync is Perform completing on the returned channel.
func (s *ledgerService) PerformAsync(ctx context.Context, identifier string, action func(*domain.Account) error) <-chan portssvc.AccountResult {
	ch := make(chan portssvc.AccountResult, 1)
	go func() {
		account, err := s.Perform(ctx, identifier, action)
		ch <- portssvc.AccountResult{Account: account, Err: err}
	}()
	return ch
}

// ScheduleSave marks the account dirty for the next debounced flush.
// Repeated marks within one window collapse into a single write, so the
// pending set is bounded by the number of resident accounts.
func (s *ledgerService) ScheduleSave(accountID string) {
	s.dirtyMu.Lock()
	s.dirty[accountID] = struct{}{}
	s.dirtyMu.Unlock()
}

// SaveAsync persists the account immediately on a background goroutine.
func (s *ledgerService) SaveAsync(accountID string) {
	go s.persist(accountID)
}

// Close stops the saver after one final flush of pending writes.
func (s *ledgerService) Close() {
	s.closer.Do(func() {
		close(s.done)
		<-s.stopped
	})
}

func (s *ledgerService) saverLoop(interval time.Duration) {
	defer close(s.stopped)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.flushDirty()
		case <-s.done:
			s.flushDirty()
			return
		}
	}
}

func (s *ledgerService) flushDirty() {
	s.dirtyMu.Lock()
	if len(s.dirty) == 0 {
		s.dirtyMu.Unlock()
		return
	}
	pending := s.dirty
	s.dirty = make(map[string]struct{})
	s.dirtyMu.Unlock()

	for accountID := range pending {
		s.persist(accountID)
	}
}

// persist writes one account's current in-memory state. Failure is logged
// and never rolled back: between saves the in-memory state is the source of
// truth.
func (s *ledgerService) persist(accountID string) {
	account, ok := s.Resolve(accountID)
	if !ok {
		return
	}
	ctx := context.Background()
	if err := s.store.SaveAccount(ctx, *account); err != nil {
		s.LogError(ctx, fmt.Errorf("%w: %v", apperrors.ErrPersistence, err), "Failed to persist account",
			slog.String("account_id", accountID))
	}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
