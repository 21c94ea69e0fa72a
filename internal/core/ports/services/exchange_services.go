package services

import (
	"context"

	"github.com/shopspring/decimal"
)

// ExchangeResult describes a completed currency exchange.
type ExchangeResult struct {
	AccountID   string          `json:"accountID"`
	DisplayName string          `json:"displayName"`
	From        string          `json:"from"`
	To          string          `json:"to"`
	Taken       decimal.Decimal `json:"taken"`
	Received    decimal.Decimal `json:"received"`
	FromBalance decimal.Decimal `json:"fromBalance"`
	ToBalance   decimal.Decimal `json:"toBalance"`
}

// ExchangeSvc validates and executes point-to-point currency conversions.
type ExchangeSvc interface {
	// Exchange converts amount of the from currency into the to currency at
	// the configured rate. It is all-or-nothing: every rejection
	// (apperrors.ErrExchangeDisabled, ErrInsufficientBalance,
	// ErrNoExchangeRoute, ErrAmountTooSmall, ErrTargetLimitExceeded) leaves
	// both balances untouched.
	Exchange(ctx context.Context, identifier, fromID, toID string, amount decimal.Decimal) (*ExchangeResult, error)
}
