package services

import (
	"context"

	"github.com/coinledger/coinledger/internal/core/domain"
)

// CurrencyReaderSvc defines read operations over the currency registry.
type CurrencyReaderSvc interface {
	// GetCurrency retrieves a currency by id, case-insensitively. Returns
	// apperrors.ErrCurrencyNotFound for an unknown id.
	GetCurrency(ctx context.Context, id string) (*domain.Currency, error)

	// ListCurrencies returns every registered currency.
	ListCurrencies(ctx context.Context) []domain.Currency

	// PrimaryEconomyCurrency returns the single currency flagged as the
	// primary economy, if any.
	PrimaryEconomyCurrency(ctx context.Context) (*domain.Currency, bool)
}

// CurrencyWriterSvc defines write operations over the currency registry.
type CurrencyWriterSvc interface {
	// RegisterCurrency registers a currency, replacing any existing entry
	// with the same id, and provisions storage for it. It returns the
	// registered copy (the id is normalized, and the primary-economy flag
	// may have been demoted when another primary is already registered).
	RegisterCurrency(ctx context.Context, currency domain.Currency) (*domain.Currency, error)

	// UnregisterCurrency removes a currency and its bridge wiring. It
	// reports whether a currency was actually present.
	UnregisterCurrency(ctx context.Context, id string) bool

	// CreateDefaults registers the two default currencies used on first
	// run, when no currency configuration is present.
	CreateDefaults(ctx context.Context) error
}

// CurrencyRegistrySvc combines all currency registry interfaces.
type CurrencyRegistrySvc interface {
	CurrencyReaderSvc
	CurrencyWriterSvc
}
