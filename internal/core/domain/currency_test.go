package domain_test

import (
	"testing"

	"github.com/coinledger/coinledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeCurrencyID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "already normalized", in: "coins", want: "coins"},
		{name: "uppercase", in: "Coins", want: "coins"},
		{name: "spaces become underscores", in: "Gold Coins", want: "gold_coins"},
		{name: "hyphens become underscores", in: "gold-coins", want: "gold_coins"},
		{name: "surrounding whitespace trimmed", in: "  coins  ", want: "coins"},
		{name: "punctuation dropped", in: "coins!", want: "coins"},
		{name: "only separators", in: " -_ ", want: ""},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.NormalizeCurrencyID(tt.in))
		})
	}
}

func TestCurrency_Fine(t *testing.T) {
	decimalCurrency := domain.Currency{ID: "money", Decimal: true}
	wholeCurrency := domain.Currency{ID: "coins"}

	tests := []struct {
		name     string
		currency domain.Currency
		in       string
		want     string
	}{
		{name: "decimal rounds to two places", currency: decimalCurrency, in: "1.005", want: "1.01"},
		{name: "decimal keeps two places", currency: decimalCurrency, in: "2.33", want: "2.33"},
		{name: "whole currency floors", currency: wholeCurrency, in: "10.9", want: "10"},
		{name: "whole currency keeps integers", currency: wholeCurrency, in: "10", want: "10"},
		{name: "sub-unit floors to zero", currency: wholeCurrency, in: "0.5", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.currency.Fine(decimal.RequireFromString(tt.in))
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestCurrency_Clamp(t *testing.T) {
	capped := domain.Currency{ID: "money", Decimal: true, MaxValue: decimal.NewFromInt(500)}
	unlimited := domain.Currency{ID: "coins"}

	tests := []struct {
		name     string
		currency domain.Currency
		in       string
		want     string
	}{
		{name: "negative clamps to zero", currency: capped, in: "-5", want: "0"},
		{name: "above max clamps to max", currency: capped, in: "1000", want: "500"},
		{name: "within range unchanged", currency: capped, in: "123.45", want: "123.45"},
		{name: "unlimited never caps", currency: unlimited, in: "1000000", want: "1000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.currency.Clamp(decimal.RequireFromString(tt.in))
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestCurrency_UnderLimit(t *testing.T) {
	capped := domain.Currency{ID: "money", MaxValue: decimal.NewFromInt(100)}
	unlimited := domain.Currency{ID: "coins"}

	assert.True(t, capped.UnderLimit(decimal.NewFromInt(100)))
	assert.False(t, capped.UnderLimit(decimal.NewFromInt(101)))
	assert.True(t, unlimited.UnderLimit(decimal.NewFromInt(1000000)))
}

func TestCurrency_ExchangeRate(t *testing.T) {
	money := domain.Currency{ID: "money"}
	coins := domain.Currency{
		ID:            "coins",
		ExchangeRates: map[string]decimal.Decimal{"money": decimal.RequireFromString("0.5")},
	}

	assert.True(t, coins.ExchangeRate(money).Equal(decimal.RequireFromString("0.5")))
	assert.True(t, money.ExchangeRate(coins).IsZero())
}

func TestCurrency_Format(t *testing.T) {
	money := domain.Currency{ID: "money", Symbol: "$", Decimal: true}
	coins := domain.Currency{ID: "coins", Symbol: "C"}

	assert.Equal(t, "12.5$", money.Format(decimal.RequireFromString("12.5")))
	assert.Equal(t, "12C", coins.Format(decimal.RequireFromString("12.7")))
}
