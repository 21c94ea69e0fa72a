package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/coinledger/coinledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// CurrencyDefinition is one currency record from the currency configuration
// file. The core never parses files itself; this loader turns the file into
// plain records and hands them to the registry.
type CurrencyDefinition struct {
	ID                 string             `mapstructure:"id"`
	Name               string             `mapstructure:"name"`
	Symbol             string             `mapstructure:"symbol"`
	ShortSymbol        string             `mapstructure:"short_symbol"`
	Decimal            bool               `mapstructure:"decimal"`
	StartValue         float64            `mapstructure:"start_value"`
	MaxValue           float64            `mapstructure:"max_value"`
	PermissionRequired bool               `mapstructure:"permission_required"`
	TransferAllowed    bool               `mapstructure:"transfer_allowed"`
	ExchangeAllowed    bool               `mapstructure:"exchange_allowed"`
	PrimaryEconomy     bool               `mapstructure:"primary_economy"`
	ExchangeRates      map[string]float64 `mapstructure:"exchange_rates"`
}

// ToCurrency converts the record into its domain representation.
func (d CurrencyDefinition) ToCurrency() domain.Currency {
	rates := make(map[string]decimal.Decimal, len(d.ExchangeRates))
	for target, rate := range d.ExchangeRates {
		rates[domain.NormalizeCurrencyID(target)] = decimal.NewFromFloat(rate)
	}
	return domain.Currency{
		ID:                 d.ID,
		Name:               d.Name,
		Symbol:             d.Symbol,
		ShortSymbol:        d.ShortSymbol,
		Decimal:            d.Decimal,
		StartValue:         decimal.NewFromFloat(d.StartValue),
		MaxValue:           decimal.NewFromFloat(d.MaxValue),
		PermissionRequired: d.PermissionRequired,
		TransferAllowed:    d.TransferAllowed,
		ExchangeAllowed:    d.ExchangeAllowed,
		PrimaryEconomy:     d.PrimaryEconomy,
		ExchangeRates:      rates,
	}
}

// LoadCurrencyDefinitions reads currency definitions from a YAML file. A
// missing file is not an error: it returns no definitions, which triggers
// the registry's first-run bootstrap.
func LoadCurrencyDefinitions(path string) ([]CurrencyDefinition, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read currency configuration %s: %w", path, err)
	}

	var file struct {
		Currencies []CurrencyDefinition `mapstructure:"currencies"`
	}
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("failed to parse currency configuration %s: %w", path, err)
	}
	return file.Currencies, nil
}
