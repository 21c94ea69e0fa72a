package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/coinledger/coinledger/internal/apperrors"
	"github.com/coinledger/coinledger/internal/core/domain"
	portssvc "github.com/coinledger/coinledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// transferService moves one currency between two accounts. Validation and
// both mutations run inside a single PerformPair action, so a rejection at
// any step leaves both accounts untouched.
type transferService struct {
	BaseService
	registry portssvc.CurrencyReaderSvc
	ledger   portssvc.BalanceWriterSvc
	audit    portssvc.AuditSvc
}

// NewTransferService creates the account-to-account payment service.
func NewTransferService(registry portssvc.CurrencyReaderSvc, ledger portssvc.BalanceWriterSvc, audit portssvc.AuditSvc) *transferService {
	return &transferService{
		registry: registry,
		ledger:   ledger,
		audit:    audit,
	}
}

var _ portssvc.TransferSvc = (*transferService)(nil)

// Transfer debits amount from the sender and credits it to the recipient.
func (s *transferService) Transfer(ctx context.Context, fromIdentifier, toIdentifier, currencyID string, amount decimal.Decimal) (*portssvc.TransferResult, error) {
	currency, err := s.registry.GetCurrency(ctx, currencyID)
	if err != nil {
		return nil, err
	}

	if !currency.TransferAllowed {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrTransferDisabled, currency.ID)
	}

	amount = currency.Fine(amount)
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount rounds to %s in %s", apperrors.ErrAmountTooSmall, amount, currency.ID)
	}

	var result portssvc.TransferResult
	_, _, err = s.ledger.PerformPair(ctx, fromIdentifier, toIdentifier, func(sender, recipient *domain.Account) error {
		if sender.AccountID == recipient.AccountID {
			return fmt.Errorf("%w: cannot transfer to the same account", apperrors.ErrValidation)
		}

		if sender.Balance(*currency).LessThan(amount) {
			return fmt.Errorf("%w: %s balance %s is below %s",
				apperrors.ErrInsufficientBalance, currency.ID, sender.Balance(*currency), amount)
		}

		if !currency.UnderLimit(recipient.Balance(*currency).Add(amount)) {
			return fmt.Errorf("%w: %s balance of %s would exceed %s",
				apperrors.ErrTargetLimitExceeded, currency.ID, recipient.DisplayName, currency.MaxValue)
		}

		sender.RemoveBalance(*currency, amount)
		recipient.AddBalance(*currency, amount)

		result = portssvc.TransferResult{
			FromAccountID:   sender.AccountID,
			FromDisplayName: sender.DisplayName,
			ToAccountID:     recipient.AccountID,
			ToDisplayName:   recipient.DisplayName,
			Currency:        currency.ID,
			Amount:          amount,
			FromBalance:     sender.Balance(*currency),
			ToBalance:       recipient.Balance(*currency),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.LogTransfer(ctx, result)
	s.LogDebug(ctx, "Transfer completed",
		slog.String("from", result.FromAccountID),
		slog.String("to", result.ToAccountID),
		slog.String("currency", currency.ID))
	return &result, nil
}
