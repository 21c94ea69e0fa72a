package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the balance-holding entity, keyed by a stable id with a
// mutable last-known display name.
//
// Account values are not safe for concurrent mutation; the ledger service
// serializes every mutation behind its write lock.
type Account struct {
	AccountID   string    `json:"accountID"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`

	// Balances maps a currency id to a non-negative balance.
	Balances map[string]decimal.Decimal `json:"balances"`
}

// NewAccount creates an account seeded with the start value of every known
// currency.
func NewAccount(accountID, displayName string, currencies []Currency) *Account {
	balances := make(map[string]decimal.Decimal, len(currencies))
	for _, c := range currencies {
		balances[c.ID] = c.Clamp(c.StartValue)
	}
	return &Account{
		AccountID:   accountID,
		DisplayName: displayName,
		CreatedAt:   time.Now().UTC(),
		Balances:    balances,
	}
}

// Balance returns the stored balance for a currency, or the currency's
// start value when the account has no entry for it yet.
func (a *Account) Balance(c Currency) decimal.Decimal {
	if bal, ok := a.Balances[c.ID]; ok {
		return bal
	}
	return c.Clamp(c.StartValue)
}

// SetBalance writes a new balance, rounded to the currency's precision and
// clamped to [0, MaxValue]. It returns the value actually stored.
func (a *Account) SetBalance(c Currency, amount decimal.Decimal) decimal.Decimal {
	if a.Balances == nil {
		a.Balances = make(map[string]decimal.Decimal)
	}
	stored := c.Clamp(amount)
	a.Balances[c.ID] = stored
	return stored
}

// AddBalance increases the balance by amount, subject to rounding and the
// currency's upper bound.
func (a *Account) AddBalance(c Currency, amount decimal.Decimal) decimal.Decimal {
	return a.SetBalance(c, a.Balance(c).Add(amount))
}

// RemoveBalance decreases the balance by amount, clamping at zero rather
// than failing. Callers that need an insufficient-balance rejection check
// before calling (the exchange path does).
func (a *Account) RemoveBalance(c Currency, amount decimal.Decimal) decimal.Decimal {
	return a.SetBalance(c, a.Balance(c).Sub(amount))
}

// Clone returns a deep copy safe to hand to readers outside the ledger's
// write lock.
func (a *Account) Clone() *Account {
	cp := *a
	cp.Balances = make(map[string]decimal.Decimal, len(a.Balances))
	for id, bal := range a.Balances {
		cp.Balances[id] = bal
	}
	return &cp
}
