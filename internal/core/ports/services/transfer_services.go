package services

import (
	"context"

	"github.com/shopspring/decimal"
)

// TransferResult describes a completed account-to-account payment.
type TransferResult struct {
	FromAccountID   string          `json:"fromAccountID"`
	FromDisplayName string          `json:"fromDisplayName"`
	ToAccountID     string          `json:"toAccountID"`
	ToDisplayName   string          `json:"toDisplayName"`
	Currency        string          `json:"currency"`
	Amount          decimal.Decimal `json:"amount"`
	FromBalance     decimal.Decimal `json:"fromBalance"`
	ToBalance       decimal.Decimal `json:"toBalance"`
}

// TransferSvc moves an amount of one currency between two accounts.
type TransferSvc interface {
	// Transfer debits the sender and credits the recipient. Rejections
	// (apperrors.ErrTransferDisabled, ErrValidation for a self-payment,
	// ErrAmountTooSmall, ErrInsufficientBalance, ErrTargetLimitExceeded)
	// leave both accounts untouched.
	Transfer(ctx context.Context, fromIdentifier, toIdentifier, currencyID string, amount decimal.Decimal) (*TransferResult, error)
}
