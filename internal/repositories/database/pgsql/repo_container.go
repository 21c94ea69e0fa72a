package pgsql

import (
	portsrepo "github.com/coinledger/coinledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		BalanceStore: newPgxBalanceStore(dbPool),
	}
}
