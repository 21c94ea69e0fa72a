package dto

import (
	"github.com/coinledger/coinledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MutateBalanceRequest carries a balance mutation: the amount plus the
// command-layer flags.
type MutateBalanceRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`

	// Silent suppresses notifying the affected account.
	Silent bool `json:"silent"`

	// NoSave suppresses the automatic persistence write, for callers that
	// batch their own save.
	NoSave bool `json:"noSave"`
}

// BalanceResponse is the outcome of a balance read or mutation.
type BalanceResponse struct {
	AccountID   string          `json:"accountID"`
	DisplayName string          `json:"displayName,omitempty"`
	Currency    string          `json:"currency"`
	Balance     decimal.Decimal `json:"balance"`
}

// AccountResponse is the full per-currency balance view of an account.
type AccountResponse struct {
	AccountID   string                     `json:"accountID"`
	DisplayName string                     `json:"displayName"`
	Balances    map[string]decimal.Decimal `json:"balances"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:   account.AccountID,
		DisplayName: account.DisplayName,
		Balances:    account.Balances,
	}
}
