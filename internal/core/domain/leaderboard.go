package domain

import "github.com/shopspring/decimal"

// LeaderboardEntry is one row of a currency's ranking.
type LeaderboardEntry struct {
	DisplayName string          `json:"displayName"`
	Balance     decimal.Decimal `json:"balance"`
}

// LeaderboardSnapshot maps a currency id to its descending-sorted ranking.
// A snapshot is immutable once published; rebuilds replace it wholesale.
type LeaderboardSnapshot map[string][]LeaderboardEntry
