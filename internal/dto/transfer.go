package dto

import (
	portssvc "github.com/coinledger/coinledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// TransferRequest asks to move amount of a currency to another account.
type TransferRequest struct {
	To       string          `json:"to" binding:"required"`
	Currency string          `json:"currency" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
}

// TransferResponse reports a completed transfer.
type TransferResponse struct {
	FromAccountID   string          `json:"fromAccountID"`
	FromDisplayName string          `json:"fromDisplayName"`
	ToAccountID     string          `json:"toAccountID"`
	ToDisplayName   string          `json:"toDisplayName"`
	Currency        string          `json:"currency"`
	Amount          decimal.Decimal `json:"amount"`
	FromBalance     decimal.Decimal `json:"fromBalance"`
	ToBalance       decimal.Decimal `json:"toBalance"`
}

// ToTransferResponse converts a transfer result to its DTO.
func ToTransferResponse(result *portssvc.TransferResult) TransferResponse {
	return TransferResponse{
		FromAccountID:   result.FromAccountID,
		FromDisplayName: result.FromDisplayName,
		ToAccountID:     result.ToAccountID,
		ToDisplayName:   result.ToDisplayName,
		Currency:        result.Currency,
		Amount:          result.Amount,
		FromBalance:     result.FromBalance,
		ToBalance:       result.ToBalance,
	}
}
