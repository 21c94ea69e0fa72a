package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/coinledger/coinledger/internal/apperrors"
	portssvc "github.com/coinledger/coinledger/internal/core/ports/services"
	"github.com/coinledger/coinledger/internal/dto"
	"github.com/coinledger/coinledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// economyHandler exposes the generic economy-provider operations over the
// primary-economy currency.
type economyHandler struct {
	registry portssvc.CurrencyReaderSvc
	economy  portssvc.EconomyBridgeSvc
}

// newEconomyHandler creates a new economyHandler.
func newEconomyHandler(registry portssvc.CurrencyReaderSvc, economy portssvc.EconomyBridgeSvc) *economyHandler {
	return &economyHandler{registry: registry, economy: economy}
}

// RegisterEconomyRoutes registers the economy bridge routes.
func RegisterEconomyRoutes(rg *gin.RouterGroup, registry portssvc.CurrencyReaderSvc, economy portssvc.EconomyBridgeSvc) {
	h := newEconomyHandler(registry, economy)

	eco := rg.Group("/economy")
	{
		eco.GET("/currency", h.primaryCurrency)
		eco.GET("/accounts/:identifier", h.hasAccount)
		eco.GET("/accounts/:identifier/balance", h.getBalance)
		eco.POST("/accounts/:identifier/deposit", h.deposit)
		eco.POST("/accounts/:identifier/withdraw", h.withdraw)
	}
}

func (h *economyHandler) primaryCurrency(c *gin.Context) {
	currency, ok := h.registry.PrimaryEconomyCurrency(c.Request.Context())
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No primary economy currency registered"})
		return
	}
	c.JSON(http.StatusOK, dto.ToCurrencyResponse(currency))
}

func (h *economyHandler) hasAccount(c *gin.Context) {
	identifier := c.Param("identifier")
	c.JSON(http.StatusOK, gin.H{
		"identifier": identifier,
		"exists":     h.economy.HasAccount(c.Request.Context(), identifier),
	})
}

func (h *economyHandler) getBalance(c *gin.Context) {
	identifier := c.Param("identifier")

	balance, err := h.economy.GetBalance(c.Request.Context(), identifier)
	if err != nil {
		h.writeEconomyError(c, identifier, err)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{AccountID: identifier, Balance: balance})
}

// economyAmountRequest is the deposit/withdraw payload.
type economyAmountRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

func (h *economyHandler) deposit(c *gin.Context) {
	h.moveBalance(c, h.economy.Deposit)
}

func (h *economyHandler) withdraw(c *gin.Context) {
	h.moveBalance(c, h.economy.Withdraw)
}

func (h *economyHandler) moveBalance(c *gin.Context, move func(ctx context.Context, identifier string, amount decimal.Decimal) (decimal.Decimal, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	identifier := c.Param("identifier")

	var req economyAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for economy operation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	balance, err := move(c.Request.Context(), identifier, req.Amount)
	if err != nil {
		h.writeEconomyError(c, identifier, err)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{AccountID: identifier, Balance: balance})
}

func (h *economyHandler) writeEconomyError(c *gin.Context, identifier string, err error) {
	switch {
	case errors.Is(err, apperrors.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Account '%s' not found", identifier)})
	case errors.Is(err, apperrors.ErrInsufficientBalance):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "kind": "insufficient_balance"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConfiguration):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Economy operation failed",
			slog.String("identifier", identifier), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Economy operation failed"})
	}
}
