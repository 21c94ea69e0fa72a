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

// exchangeService validates and executes point-to-point currency
// conversions. The whole validate-then-mutate sequence runs under the
// ledger's write lock, so a rejection at any step leaves both balances
// untouched and no other mutation interleaves.
type exchangeService struct {
	BaseService
	registry portssvc.CurrencyReaderSvc
	ledger   portssvc.BalanceWriterSvc
	audit    portssvc.AuditSvc
}

// NewExchangeService creates the exchange engine.
func NewExchangeService(registry portssvc.CurrencyReaderSvc, ledger portssvc.BalanceWriterSvc, audit portssvc.AuditSvc) *exchangeService {
	return &exchangeService{
		registry: registry,
		ledger:   ledger,
		audit:    audit,
	}
}

var _ portssvc.ExchangeSvc = (*exchangeService)(nil)

// Exchange converts amount of the from currency into the to currency.
func (s *exchangeService) Exchange(ctx context.Context, identifier, fromID, toID string, amount decimal.Decimal) (*portssvc.ExchangeResult, error) {
	from, err := s.registry.GetCurrency(ctx, fromID)
	if err != nil {
		return nil, err
	}
	to, err := s.registry.GetCurrency(ctx, toID)
	if err != nil {
		return nil, err
	}

	if !from.ExchangeAllowed {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrExchangeDisabled, from.ID)
	}

	var result portssvc.ExchangeResult
	account, err := s.ledger.Perform(ctx, identifier, func(a *domain.Account) error {
		if a.Balance(*from).LessThan(amount) {
			return fmt.Errorf("%w: %s balance %s is below %s",
				apperrors.ErrInsufficientBalance, from.ID, a.Balance(*from), amount)
		}

		rate := from.ExchangeRate(*to)
		if rate.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w: %s -> %s", apperrors.ErrNoExchangeRoute, from.ID, to.ID)
		}

		taken := from.Fine(amount)
		if taken.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w: %s rounds to %s in %s", apperrors.ErrAmountTooSmall, amount, taken, from.ID)
		}

		received := to.Fine(taken.Mul(rate))
		if received.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w: %s converts to %s in %s", apperrors.ErrAmountTooSmall, taken, received, to.ID)
		}

		if !to.UnderLimit(a.Balance(*to).Add(received)) {
			return fmt.Errorf("%w: %s balance would exceed %s",
				apperrors.ErrTargetLimitExceeded, to.ID, to.MaxValue)
		}

		// All checks passed; from here the mutation is all-or-nothing.
		a.RemoveBalance(*from, taken)
		a.AddBalance(*to, received)

		result = portssvc.ExchangeResult{
			AccountID:   a.AccountID,
			DisplayName: a.DisplayName,
			From:        from.ID,
			To:          to.ID,
			Taken:       taken,
			Received:    received,
			FromBalance: a.Balance(*from),
			ToBalance:   a.Balance(*to),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Perform already coalesced the two mutations into one scheduled save.
	s.audit.LogExchange(ctx, result)
	s.LogDebug(ctx, "Exchange completed",
		slog.String("account_id", account.AccountID),
		slog.String("from", from.ID),
		slog.String("to", to.ID))
	return &result, nil
}
