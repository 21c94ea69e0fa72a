package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the persistence row shape for an account.
type Account struct {
	AccountID     string    `db:"account_id"`
	DisplayName   string    `db:"display_name"`
	CreatedAt     time.Time `db:"created_at"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
}

// Balance is one (account, currency) balance row.
type Balance struct {
	AccountID  string          `db:"account_id"`
	CurrencyID string          `db:"currency_id"`
	Balance    decimal.Decimal `db:"balance"`
}
