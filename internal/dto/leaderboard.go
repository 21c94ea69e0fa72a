package dto

import (
	"github.com/coinledger/coinledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LeaderboardEntryResponse is one ranked row of a currency's leaderboard.
type LeaderboardEntryResponse struct {
	Rank        int             `json:"rank"`
	DisplayName string          `json:"displayName"`
	Balance     decimal.Decimal `json:"balance"`
}

// LeaderboardTotalResponse is the cached sum of all balances for a currency.
type LeaderboardTotalResponse struct {
	Currency string          `json:"currency"`
	Total    decimal.Decimal `json:"total"`
}

// ToLeaderboardResponse converts leaderboard entries to ranked DTOs.
func ToLeaderboardResponse(entries []domain.LeaderboardEntry) []LeaderboardEntryResponse {
	res := make([]LeaderboardEntryResponse, len(entries))
	for i, entry := range entries {
		res[i] = LeaderboardEntryResponse{
			Rank:        i + 1,
			DisplayName: entry.DisplayName,
			Balance:     entry.Balance,
		}
	}
	return res
}
