package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/coinledger/coinledger/internal/apperrors"
	portssvc "github.com/coinledger/coinledger/internal/core/ports/services"
	"github.com/coinledger/coinledger/internal/dto"
	"github.com/gin-gonic/gin"
)

// defaultTopN is how many leaderboard entries are returned when the caller
// does not say.
const defaultTopN = 10

// leaderboardHandler serves the cached per-currency rankings.
type leaderboardHandler struct {
	registry    portssvc.CurrencyReaderSvc
	leaderboard portssvc.LeaderboardSvc
}

// newLeaderboardHandler creates a new leaderboardHandler.
func newLeaderboardHandler(registry portssvc.CurrencyReaderSvc, leaderboard portssvc.LeaderboardSvc) *leaderboardHandler {
	return &leaderboardHandler{registry: registry, leaderboard: leaderboard}
}

// RegisterLeaderboardRoutes registers routes related to leaderboards.
func RegisterLeaderboardRoutes(rg *gin.RouterGroup, registry portssvc.CurrencyReaderSvc, leaderboard portssvc.LeaderboardSvc) {
	h := newLeaderboardHandler(registry, leaderboard)

	boards := rg.Group("/leaderboard")
	{
		boards.GET("/:currency", h.top)
		boards.GET("/:currency/total", h.total)
	}
}

func (h *leaderboardHandler) top(c *gin.Context) {
	currency, ok := h.lookupCurrency(c)
	if !ok {
		return
	}

	limit := defaultTopN
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	entries := h.leaderboard.TopN(currency, limit)
	c.JSON(http.StatusOK, dto.ToLeaderboardResponse(entries))
}

func (h *leaderboardHandler) total(c *gin.Context) {
	currency, ok := h.lookupCurrency(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.LeaderboardTotalResponse{
		Currency: currency,
		Total:    h.leaderboard.Total(currency),
	})
}

func (h *leaderboardHandler) lookupCurrency(c *gin.Context) (string, bool) {
	id := c.Param("currency")
	currency, err := h.registry.GetCurrency(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrCurrencyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Currency '%s' not found", id)})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up currency"})
		}
		return "", false
	}
	return currency.ID, true
}
