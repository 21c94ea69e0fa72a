package dto

import (
	portssvc "github.com/coinledger/coinledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// ExchangeRequest asks to convert amount of the from currency into the to
// currency at the configured rate.
type ExchangeRequest struct {
	From   string          `json:"from" binding:"required"`
	To     string          `json:"to" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// ExchangeResponse reports a completed exchange.
type ExchangeResponse struct {
	AccountID   string          `json:"accountID"`
	DisplayName string          `json:"displayName"`
	From        string          `json:"from"`
	To          string          `json:"to"`
	Taken       decimal.Decimal `json:"taken"`
	Received    decimal.Decimal `json:"received"`
	FromBalance decimal.Decimal `json:"fromBalance"`
	ToBalance   decimal.Decimal `json:"toBalance"`
}

// ToExchangeResponse converts an exchange result to its DTO.
func ToExchangeResponse(result *portssvc.ExchangeResult) ExchangeResponse {
	return ExchangeResponse{
		AccountID:   result.AccountID,
		DisplayName: result.DisplayName,
		From:        result.From,
		To:          result.To,
		Taken:       result.Taken,
		Received:    result.Received,
		FromBalance: result.FromBalance,
		ToBalance:   result.ToBalance,
	}
}
