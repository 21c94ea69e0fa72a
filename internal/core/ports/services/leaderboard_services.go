package services

import (
	"context"

	"github.com/coinledger/coinledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LeaderboardSvc serves cached per-currency rankings rebuilt periodically
// from the full persisted balance dataset.
type LeaderboardSvc interface {
	// TopN returns up to n entries of the currency's cached descending
	// ranking, or nil when nothing is cached yet.
	TopN(currencyID string, n int) []domain.LeaderboardEntry

	// Total sums all cached balances for the currency. It lags the live
	// store by at most one refresh interval.
	Total(currencyID string) decimal.Decimal

	// Refresh rebuilds the snapshot from the store. It is single-flight: a
	// request made while a rebuild is in flight is dropped, and Refresh
	// reports whether this call performed the rebuild.
	Refresh(ctx context.Context) bool

	// Start launches the periodic refresh loop; it stops when ctx is done.
	Start(ctx context.Context)
}
