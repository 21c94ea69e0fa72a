package dto

import (
	"github.com/coinledger/coinledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RegisterCurrencyRequest defines the data needed to register a currency.
// The id is normalized by the registry (lowercase, underscore separators).
type RegisterCurrencyRequest struct {
	ID                 string             `json:"id" binding:"required"`
	Name               string             `json:"name" binding:"required"`
	Symbol             string             `json:"symbol"`
	ShortSymbol        string             `json:"shortSymbol"`
	Decimal            bool               `json:"decimal"`
	StartValue         decimal.Decimal    `json:"startValue"`
	MaxValue           decimal.Decimal    `json:"maxValue"`
	PermissionRequired bool               `json:"permissionRequired"`
	TransferAllowed    bool               `json:"transferAllowed"`
	ExchangeAllowed    bool               `json:"exchangeAllowed"`
	PrimaryEconomy     bool               `json:"primaryEconomy"`
	ExchangeRates      map[string]float64 `json:"exchangeRates"`
}

// ToDomain converts the request into a domain currency.
func (r RegisterCurrencyRequest) ToDomain() domain.Currency {
	rates := make(map[string]decimal.Decimal, len(r.ExchangeRates))
	for target, rate := range r.ExchangeRates {
		rates[domain.NormalizeCurrencyID(target)] = decimal.NewFromFloat(rate)
	}
	return domain.Currency{
		ID:                 r.ID,
		Name:               r.Name,
		Symbol:             r.Symbol,
		ShortSymbol:        r.ShortSymbol,
		Decimal:            r.Decimal,
		StartValue:         r.StartValue,
		MaxValue:           r.MaxValue,
		PermissionRequired: r.PermissionRequired,
		TransferAllowed:    r.TransferAllowed,
		ExchangeAllowed:    r.ExchangeAllowed,
		PrimaryEconomy:     r.PrimaryEconomy,
		ExchangeRates:      rates,
	}
}

// CurrencyResponse defines the data returned for a currency.
type CurrencyResponse struct {
	ID                 string                     `json:"id"`
	Name               string                     `json:"name"`
	Symbol             string                     `json:"symbol"`
	ShortSymbol        string                     `json:"shortSymbol"`
	Decimal            bool                       `json:"decimal"`
	StartValue         decimal.Decimal            `json:"startValue"`
	MaxValue           decimal.Decimal            `json:"maxValue"`
	Unlimited          bool                       `json:"unlimited"`
	PermissionRequired bool                       `json:"permissionRequired"`
	TransferAllowed    bool                       `json:"transferAllowed"`
	ExchangeAllowed    bool                       `json:"exchangeAllowed"`
	PrimaryEconomy     bool                       `json:"primaryEconomy"`
	ExchangeRates      map[string]decimal.Decimal `json:"exchangeRates,omitempty"`
}

// ToCurrencyResponse converts a domain.Currency to CurrencyResponse DTO
func ToCurrencyResponse(c *domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		ID:                 c.ID,
		Name:               c.Name,
		Symbol:             c.Symbol,
		ShortSymbol:        c.ShortSymbol,
		Decimal:            c.Decimal,
		StartValue:         c.StartValue,
		MaxValue:           c.MaxValue,
		Unlimited:          c.Unlimited(),
		PermissionRequired: c.PermissionRequired,
		TransferAllowed:    c.TransferAllowed,
		ExchangeAllowed:    c.ExchangeAllowed,
		PrimaryEconomy:     c.PrimaryEconomy,
		ExchangeRates:      c.ExchangeRates,
	}
}

// ToListCurrencyResponse converts a slice of domain.Currency to DTOs.
func ToListCurrencyResponse(currencies []domain.Currency) []CurrencyResponse {
	res := make([]CurrencyResponse, len(currencies))
	for i := range currencies {
		res[i] = ToCurrencyResponse(&currencies[i])
	}
	return res
}
