package mapping

import (
	"time"

	"github.com/coinledger/coinledger/internal/core/domain"
	"github.com/coinledger/coinledger/internal/models"
	"github.com/shopspring/decimal"
)

// ToDomainAccount assembles a domain account from its row and balance rows.
func ToDomainAccount(account models.Account, balances []models.Balance) *domain.Account {
	balanceMap := make(map[string]decimal.Decimal, len(balances))
	for _, b := range balances {
		balanceMap[b.CurrencyID] = b.Balance
	}
	return &domain.Account{
		AccountID:   account.AccountID,
		DisplayName: account.DisplayName,
		CreatedAt:   account.CreatedAt,
		Balances:    balanceMap,
	}
}

// ToModelAccount splits a domain account into its row and balance rows.
func ToModelAccount(account domain.Account) (models.Account, []models.Balance) {
	row := models.Account{
		AccountID:     account.AccountID,
		DisplayName:   account.DisplayName,
		CreatedAt:     account.CreatedAt,
		LastUpdatedAt: time.Now().UTC(),
	}
	balances := make([]models.Balance, 0, len(account.Balances))
	for currencyID, balance := range account.Balances {
		balances = append(balances, models.Balance{
			AccountID:  account.AccountID,
			CurrencyID: currencyID,
			Balance:    balance,
		})
	}
	return row, balances
}
