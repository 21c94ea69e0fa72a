package services

import (
	"context"
	"log/slog"

	"github.com/coinledger/coinledger/internal/core/domain"
	portssvc "github.com/coinledger/coinledger/internal/core/ports/services"
	"github.com/coinledger/coinledger/internal/middleware"
	"github.com/shopspring/decimal"
)

// auditLogger emits one structured record per balance operation. Records go
// through slog so they land in the same sink as the rest of the
// application's output.
type auditLogger struct {
	logger *slog.Logger
}

// NewAuditLogger creates the audit collaborator.
func NewAuditLogger(logger *slog.Logger) portssvc.AuditSvc {
	return &auditLogger{logger: logger.With(slog.String("audit", "balance"))}
}

var _ portssvc.AuditSvc = (*auditLogger)(nil)

func (l *auditLogger) record(ctx context.Context, op string, account *domain.Account, currency domain.Currency, amount, balance decimal.Decimal, opts portssvc.MutateOptions) {
	l.logger.Info("Balance operation",
		slog.String("op", op),
		slog.String("actor", middleware.GetActorFromCtx(ctx)),
		slog.String("account_id", account.AccountID),
		slog.String("account_name", account.DisplayName),
		slog.String("currency", currency.ID),
		slog.String("amount", currency.Fine(amount).String()),
		slog.String("balance", balance.String()),
		slog.Bool("silent", opts.Silent),
	)
}

func (l *auditLogger) LogGive(ctx context.Context, account *domain.Account, currency domain.Currency, amount, balance decimal.Decimal, opts portssvc.MutateOptions) {
	l.record(ctx, "give", account, currency, amount, balance, opts)
}

func (l *auditLogger) LogTake(ctx context.Context, account *domain.Account, currency domain.Currency, amount, balance decimal.Decimal, opts portssvc.MutateOptions) {
	l.record(ctx, "take", account, currency, amount, balance, opts)
}

func (l *auditLogger) LogSet(ctx context.Context, account *domain.Account, currency domain.Currency, amount, balance decimal.Decimal, opts portssvc.MutateOptions) {
	l.record(ctx, "set", account, currency, amount, balance, opts)
}

func (l *auditLogger) LogTransfer(ctx context.Context, result portssvc.TransferResult) {
	l.logger.Info("Balance operation",
		slog.String("op", "transfer"),
		slog.String("actor", middleware.GetActorFromCtx(ctx)),
		slog.String("from_account", result.FromAccountID),
		slog.String("from_name", result.FromDisplayName),
		slog.String("to_account", result.ToAccountID),
		slog.String("to_name", result.ToDisplayName),
		slog.String("currency", result.Currency),
		slog.String("amount", result.Amount.String()),
		slog.String("from_balance", result.FromBalance.String()),
		slog.String("to_balance", result.ToBalance.String()),
	)
}

func (l *auditLogger) LogExchange(ctx context.Context, result portssvc.ExchangeResult) {
	l.logger.Info("Balance operation",
		slog.String("op", "exchange"),
		slog.String("actor", middleware.GetActorFromCtx(ctx)),
		slog.String("account_id", result.AccountID),
		slog.String("account_name", result.DisplayName),
		slog.String("from_currency", result.From),
		slog.String("to_currency", result.To),
		slog.String("taken", result.Taken.String()),
		slog.String("received", result.Received.String()),
		slog.String("from_balance", result.FromBalance.String()),
		slog.String("to_balance", result.ToBalance.String()),
	)
}
