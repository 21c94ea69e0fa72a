package services

import (
	"context"

	"github.com/coinledger/coinledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AuditSvc receives structured records for balance operations: actor,
// account, currency, amount and the resulting balance.
type AuditSvc interface {
	LogGive(ctx context.Context, account *domain.Account, currency domain.Currency, amount, balance decimal.Decimal, opts MutateOptions)
	LogTake(ctx context.Context, account *domain.Account, currency domain.Currency, amount, balance decimal.Decimal, opts MutateOptions)
	LogSet(ctx context.Context, account *domain.Account, currency domain.Currency, amount, balance decimal.Decimal, opts MutateOptions)
	LogExchange(ctx context.Context, result ExchangeResult)
	LogTransfer(ctx context.Context, result TransferResult)
}
