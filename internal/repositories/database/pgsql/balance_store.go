package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/coinledger/coinledger/internal/apperrors"
	"github.com/coinledger/coinledger/internal/core/domain"
	portsrepo "github.com/coinledger/coinledger/internal/core/ports/repositories"
	"github.com/coinledger/coinledger/internal/models"
	"github.com/coinledger/coinledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxBalanceStore is the PostgreSQL adapter for the core's persistence
// port. Balances live in one row per (account, currency); provisioning a
// currency registers its id so balance rows can reference it.
type PgxBalanceStore struct {
	BaseRepository
}

// newPgxBalanceStore creates the store adapter.
func newPgxBalanceStore(pool *pgxpool.Pool) portsrepo.BalanceStore {
	return &PgxBalanceStore{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure implementation matches interface
var _ portsrepo.BalanceStore = (*PgxBalanceStore)(nil)

// FindAccountByID retrieves an account and its balances by id.
func (r *PgxBalanceStore) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `
		SELECT account_id, display_name, created_at, last_updated_at
		FROM accounts
		WHERE account_id = $1;
	`
	return r.findAccount(ctx, query, accountID)
}

// FindAccountByName retrieves an account by display name, case-insensitively.
func (r *PgxBalanceStore) FindAccountByName(ctx context.Context, displayName string) (*domain.Account, error) {
	query := `
		SELECT account_id, display_name, created_at, last_updated_at
		FROM accounts
		WHERE lower(display_name) = lower($1);
	`
	return r.findAccount(ctx, query, displayName)
}

func (r *PgxBalanceStore) findAccount(ctx context.Context, query, arg string) (*domain.Account, error) {
	var row models.Account
	err := r.Pool.QueryRow(ctx, query, arg).Scan(
		&row.AccountID,
		&row.DisplayName,
		&row.CreatedAt,
		&row.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, arg)
		}
		return nil, fmt.Errorf("failed to find account %s: %w", arg, err)
	}

	balances, err := r.loadBalances(ctx, row.AccountID)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainAccount(row, balances), nil
}

func (r *PgxBalanceStore) loadBalances(ctx context.Context, accountID string) ([]models.Balance, error) {
	query := `
		SELECT account_id, currency_id, balance
		FROM balances
		WHERE account_id = $1;
	`
	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query balances for account %s: %w", accountID, err)
	}
	defer rows.Close()

	balances, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Balance, error) {
		var b models.Balance
		err := row.Scan(&b.AccountID, &b.CurrencyID, &b.Balance)
		return b, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan balances for account %s: %w", accountID, err)
	}
	return balances, nil
}

// SaveAccount upserts the account row and every balance entry atomically.
func (r *PgxBalanceStore) SaveAccount(ctx context.Context, account domain.Account) error {
	row, balances := mapping.ToModelAccount(account)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	accountQuery := `
		INSERT INTO accounts (account_id, display_name, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (account_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			last_updated_at = EXCLUDED.last_updated_at;
	`
	if _, err := tx.Exec(ctx, accountQuery, row.AccountID, row.DisplayName, row.CreatedAt, row.LastUpdatedAt); err != nil {
		return fmt.Errorf("failed to save account %s: %w", row.AccountID, err)
	}

	balanceQuery := `
		INSERT INTO balances (account_id, currency_id, balance)
		VALUES ($1, $2, $3)
		ON CONFLICT (account_id, currency_id) DO UPDATE SET
			balance = EXCLUDED.balance;
	`
	batch := &pgx.Batch{}
	for _, b := range balances {
		batch.Queue(balanceQuery, b.AccountID, b.CurrencyID, b.Balance)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to save balances for account %s: %w", row.AccountID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit account save %s: %w", row.AccountID, err)
	}
	return nil
}

// LoadBalanceSnapshot returns the full persisted balance dataset grouped by
// currency, keyed by account display name.
func (r *PgxBalanceStore) LoadBalanceSnapshot(ctx context.Context) (portsrepo.BalanceSnapshot, error) {
	query := `
		SELECT b.currency_id, a.display_name, b.balance
		FROM balances b
		JOIN accounts a ON a.account_id = b.account_id;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query balance snapshot: %w", err)
	}
	defer rows.Close()

	snapshot := make(portsrepo.BalanceSnapshot)
	for rows.Next() {
		var (
			currencyID  string
			displayName string
			balance     decimal.Decimal
		)
		if err := rows.Scan(&currencyID, &displayName, &balance); err != nil {
			return nil, fmt.Errorf("failed to scan balance snapshot row: %w", err)
		}
		if snapshot[currencyID] == nil {
			snapshot[currencyID] = make(map[string]decimal.Decimal)
		}
		snapshot[currencyID][displayName] = balance
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read balance snapshot: %w", err)
	}
	return snapshot, nil
}

// ProvisionCurrency makes the schema ready to hold balances for a currency.
func (r *PgxBalanceStore) ProvisionCurrency(ctx context.Context, currencyID string) error {
	query := `
		INSERT INTO currencies (currency_id)
		VALUES ($1)
		ON CONFLICT (currency_id) DO NOTHING;
	`
	if _, err := r.Pool.Exec(ctx, query, currencyID); err != nil {
		return fmt.Errorf("failed to provision currency %s: %w", currencyID, err)
	}
	return nil
}
