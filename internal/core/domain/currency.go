package domain

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// decimalPlaces is the sub-unit precision for currencies that allow it.
const decimalPlaces = 2

// Currency describes one independently configured balance dimension.
// A Currency value is immutable after load; the registry owns the single
// authoritative copy and replaces it wholesale on re-registration.
type Currency struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	ShortSymbol string `json:"shortSymbol"`

	// Decimal controls sub-unit precision. When false, every stored balance
	// and every balance-affecting delta is floored to whole units.
	Decimal bool `json:"decimal"`

	// StartValue is the balance assigned to a brand-new account.
	StartValue decimal.Decimal `json:"startValue"`

	// MaxValue is the upper bound on a balance. Zero or negative means
	// unlimited.
	MaxValue decimal.Decimal `json:"maxValue"`

	PermissionRequired bool `json:"permissionRequired"`
	TransferAllowed    bool `json:"transferAllowed"`
	ExchangeAllowed    bool `json:"exchangeAllowed"`

	// PrimaryEconomy marks the currency bridged to the generic economy
	// provider. At most one registered currency may carry this flag.
	PrimaryEconomy bool `json:"primaryEconomy"`

	// ExchangeRates maps a target currency id to a positive multiplier.
	// A missing or non-positive rate means there is no exchange route.
	ExchangeRates map[string]decimal.Decimal `json:"exchangeRates"`
}

// NormalizeCurrencyID lowercases an id and collapses word separators to
// underscores, e.g. "Gold Coins" -> "gold_coins".
func NormalizeCurrencyID(id string) string {
	id = strings.TrimSpace(strings.ToLower(id))
	var b strings.Builder
	for _, r := range id {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '_' || r == '-' || unicode.IsSpace(r):
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "_")
}

// Unlimited reports whether the currency has no upper balance bound.
func (c Currency) Unlimited() bool {
	return c.MaxValue.LessThanOrEqual(decimal.Zero)
}

// Fine rounds an amount to the currency's allowed precision: half-up to two
// places for decimal currencies, floored to whole units otherwise. Flooring
// means rounding only ever loses value, never creates it.
func (c Currency) Fine(amount decimal.Decimal) decimal.Decimal {
	if c.Decimal {
		return amount.Round(decimalPlaces)
	}
	return amount.Floor()
}

// Clamp rounds an amount per Fine and restricts it to [0, MaxValue].
func (c Currency) Clamp(amount decimal.Decimal) decimal.Decimal {
	amount = c.Fine(amount)
	if amount.IsNegative() {
		return decimal.Zero
	}
	if !c.Unlimited() && amount.GreaterThan(c.MaxValue) {
		return c.MaxValue
	}
	return amount
}

// UnderLimit reports whether a prospective balance fits below MaxValue.
func (c Currency) UnderLimit(amount decimal.Decimal) bool {
	return c.Unlimited() || amount.LessThanOrEqual(c.MaxValue)
}

// ExchangeRate returns the multiplier for converting into the target
// currency, or zero when no route is configured.
func (c Currency) ExchangeRate(to Currency) decimal.Decimal {
	rate, ok := c.ExchangeRates[to.ID]
	if !ok {
		return decimal.Zero
	}
	return rate
}

// Format renders an amount at the currency's precision followed by its
// symbol, e.g. "12.5$".
func (c Currency) Format(amount decimal.Decimal) string {
	return c.Fine(amount).String() + c.Symbol
}
