package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/coinledger/coinledger/internal/apperrors"
	"github.com/coinledger/coinledger/internal/core/domain"
	portsrepo "github.com/coinledger/coinledger/internal/core/ports/repositories"
	portssvc "github.com/coinledger/coinledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// registryService owns the set of registered currencies. It holds the
// single authoritative copy of each currency; registration replaces
// wholesale, so readers never observe a partially-mutated currency.
type registryService struct {
	BaseService
	store  portsrepo.BalanceStore
	binder portssvc.EconomyBinder

	mu         sync.RWMutex
	currencies map[string]domain.Currency
	primaryID  string
}

// NewRegistryService creates the currency registry. The economy binder is
// attached separately (SetEconomyBinder) because the bridge itself depends
// on the ledger, which depends on this registry.
func NewRegistryService(store portsrepo.BalanceStore) *registryService {
	return &registryService{
		store:      store,
		currencies: make(map[string]domain.Currency),
	}
}

var _ portssvc.CurrencyRegistrySvc = (*registryService)(nil)

// SetEconomyBinder wires the economy bridge. Must be called before any
// currency registration; a nil binder means the bridge is unavailable.
func (s *registryService) SetEconomyBinder(binder portssvc.EconomyBinder) {
	s.binder = binder
}

// RegisterCurrency registers a currency, replacing any prior entry with the
// same id, and provisions storage for it.
func (s *registryService) RegisterCurrency(ctx context.Context, currency domain.Currency) (*domain.Currency, error) {
	id := domain.NormalizeCurrencyID(currency.ID)
	if id == "" {
		return nil, fmt.Errorf("%w: currency id must not be empty", apperrors.ErrValidation)
	}
	currency.ID = id

	if err := s.store.ProvisionCurrency(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to provision storage for currency %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Replace-on-register: the old entry goes first, including its wiring.
	s.removeLocked(ctx, id)

	if currency.PrimaryEconomy {
		switch {
		case s.primaryID != "":
			// At most one primary-economy currency system-wide.
			s.LogError(ctx, apperrors.ErrConfiguration, "Another primary economy currency is already registered, demoting",
				slog.String("currency", id), slog.String("primary", s.primaryID))
			currency.PrimaryEconomy = false
		case s.binder == nil:
			// Registration still proceeds for the currency's non-bridge
			// behavior.
			s.LogError(ctx, apperrors.ErrConfiguration, "Primary economy currency registered, but the economy bridge is unavailable",
				slog.String("currency", id))
			s.primaryID = id
		default:
			s.binder.BindPrimary(currency)
			s.primaryID = id
		}
	}

	s.currencies[id] = currency
	s.LogInfo(ctx, "Currency registered", slog.String("currency", id))
	return &currency, nil
}

// UnregisterCurrency removes a currency and its bridge wiring, reporting
// whether a currency was actually present.
func (s *registryService) UnregisterCurrency(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(ctx, domain.NormalizeCurrencyID(id))
}

func (s *registryService) removeLocked(ctx context.Context, id string) bool {
	currency, ok := s.currencies[id]
	if !ok {
		return false
	}
	delete(s.currencies, id)
	if s.primaryID == id {
		if s.binder != nil && currency.PrimaryEconomy {
			s.binder.UnbindPrimary(id)
		}
		s.primaryID = ""
	}
	s.LogInfo(ctx, "Currency unregistered", slog.String("currency", id))
	return true
}

// GetCurrency retrieves a currency by id, case-insensitively.
func (s *registryService) GetCurrency(ctx context.Context, id string) (*domain.Currency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	currency, ok := s.currencies[domain.NormalizeCurrencyID(id)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrCurrencyNotFound, id)
	}
	return &currency, nil
}

// ListCurrencies returns every registered currency, ordered by id.
func (s *registryService) ListCurrencies(ctx context.Context) []domain.Currency {
	s.mu.RLock()
	defer s.mu.RUnlock()
	currencies := make([]domain.Currency, 0, len(s.currencies))
	for _, c := range s.currencies {
		currencies = append(currencies, c)
	}
	sort.Slice(currencies, func(i, j int) bool { return currencies[i].ID < currencies[j].ID })
	return currencies
}

// PrimaryEconomyCurrency returns the currency bridged to the generic
// economy provider, if any.
func (s *registryService) PrimaryEconomyCurrency(ctx context.Context) (*domain.Currency, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.primaryID == "" {
		return nil, false
	}
	currency, ok := s.currencies[s.primaryID]
	if !ok {
		return nil, false
	}
	return &currency, true
}

// CreateDefaults registers the two first-run currencies: whole-unit coins
// and a decimal money currency bridged to the economy provider. Both are
// permissive: transfer and exchange allowed, unlimited max, no permission.
func (s *registryService) CreateDefaults(ctx context.Context) error {
	defaults := []domain.Currency{
		{
			ID:              "coins",
			Name:            "Coins",
			Symbol:          "⛂",
			Decimal:         false,
			TransferAllowed: true,
			ExchangeAllowed: true,
		},
		{
			ID:              "money",
			Name:            "Money",
			Symbol:          "$",
			Decimal:         true,
			TransferAllowed: true,
			ExchangeAllowed: true,
			PrimaryEconomy:  true,
		},
	}
	for i := range defaults {
		defaults[i].StartValue = decimal.Zero
		defaults[i].MaxValue = decimal.Zero
		if _, err := s.RegisterCurrency(ctx, defaults[i]); err != nil {
			return fmt.Errorf("failed to register default currency %s: %w", defaults[i].ID, err)
		}
	}
	return nil
}
