package services

import (
	"context"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"github.com/coinledger/coinledger/internal/core/domain"
	portsrepo "github.com/coinledger/coinledger/internal/core/ports/repositories"
	portssvc "github.com/coinledger/coinledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// leaderboardService serves cached per-currency rankings. Rebuilds run off
// the caller and publish a fresh snapshot atomically; readers always see
// either the old snapshot or the fully-built new one.
type leaderboardService struct {
	BaseService
	store    portsrepo.BalanceStore
	interval time.Duration

	snapshot   atomic.Value // domain.LeaderboardSnapshot
	rebuilding atomic.Bool
}

// NewLeaderboardService creates the leaderboard cache. interval is the
// periodic refresh interval.
func NewLeaderboardService(store portsrepo.BalanceStore, interval time.Duration) *leaderboardService {
	if interval <= 0 {
		interval = time.Minute
	}
	s := &leaderboardService{
		store:    store,
		interval: interval,
	}
	s.snapshot.Store(domain.LeaderboardSnapshot{})
	return s
}

var _ portssvc.LeaderboardSvc = (*leaderboardService)(nil)

// Start runs the periodic refresh loop until ctx is done. The first rebuild
// happens immediately so the cache is warm before the first tick.
func (s *leaderboardService) Start(ctx context.Context) {
	go func() {
		s.Refresh(ctx)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Refresh(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Refresh rebuilds the snapshot from the full persisted balance dataset.
// Single-flight: a refresh requested while one is in flight is dropped; the
// next periodic tick picks up the latest data.
func (s *leaderboardService) Refresh(ctx context.Context) bool {
	if !s.rebuilding.CompareAndSwap(false, true) {
		s.LogDebug(ctx, "Leaderboard rebuild already in flight, dropping request")
		return false
	}
	defer s.rebuilding.Store(false)

	data, err := s.store.LoadBalanceSnapshot(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load balance snapshot for leaderboard")
		return false
	}

	s.snapshot.Store(buildSnapshot(data))
	s.LogDebug(ctx, "Leaderboard rebuilt", slog.Int("currencies", len(data)))
	return true
}

// buildSnapshot groups balances by currency and sorts each group descending
// by balance. The sort is stable, so ties keep the underlying snapshot's
// order.
func buildSnapshot(data portsrepo.BalanceSnapshot) domain.LeaderboardSnapshot {
	snapshot := make(domain.LeaderboardSnapshot, len(data))
	for currencyID, balances := range data {
		entries := make([]domain.LeaderboardEntry, 0, len(balances))
		names := make([]string, 0, len(balances))
		for name := range balances {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			entries = append(entries, domain.LeaderboardEntry{DisplayName: name, Balance: balances[name]})
		}
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Balance.GreaterThan(entries[j].Balance)
		})
		snapshot[currencyID] = entries
	}
	return snapshot
}

// TopN returns up to n entries of the currency's cached ranking.
func (s *leaderboardService) TopN(currencyID string, n int) []domain.LeaderboardEntry {
	if n <= 0 {
		return nil
	}
	entries := s.current()[domain.NormalizeCurrencyID(currencyID)]
	if len(entries) == 0 {
		return nil
	}
	if n > len(entries) {
		n = len(entries)
	}
	top := make([]domain.LeaderboardEntry, n)
	copy(top, entries[:n])
	return top
}

// Total sums all cached balances for the currency. It is an approximation
// bounded by refresh staleness, not a live aggregate.
func (s *leaderboardService) Total(currencyID string) decimal.Decimal {
	total := decimal.Zero
	for _, entry := range s.current()[domain.NormalizeCurrencyID(currencyID)] {
		total = total.Add(entry.Balance)
	}
	return total
}

func (s *leaderboardService) current() domain.LeaderboardSnapshot {
	snapshot, _ := s.snapshot.Load().(domain.LeaderboardSnapshot)
	return snapshot
}
