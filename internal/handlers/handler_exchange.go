package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/coinledger/coinledger/internal/apperrors"
	portssvc "github.com/coinledger/coinledger/internal/core/ports/services"
	"github.com/coinledger/coinledger/internal/dto"
	"github.com/coinledger/coinledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// exchangeHandler handles HTTP requests for currency exchange.
type exchangeHandler struct {
	exchange portssvc.ExchangeSvc
}

// newExchangeHandler creates a new exchangeHandler.
func newExchangeHandler(exchange portssvc.ExchangeSvc) *exchangeHandler {
	return &exchangeHandler{exchange: exchange}
}

// RegisterExchangeRoutes registers the exchange route.
func RegisterExchangeRoutes(rg *gin.RouterGroup, exchange portssvc.ExchangeSvc) {
	h := newExchangeHandler(exchange)
	rg.POST("/accounts/:identifier/exchange", h.exchangeCurrency)
}

func (h *exchangeHandler) exchangeCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	identifier := c.Param("identifier")

	var req dto.ExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Exchange", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.exchange.Exchange(c.Request.Context(), identifier, req.From, req.To, req.Amount)
	if err != nil {
		h.writeExchangeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToExchangeResponse(result))
}

// writeExchangeError maps each rejection kind to a status and a stable kind
// tag so callers can produce their own user messaging.
func (h *exchangeHandler) writeExchangeError(c *gin.Context, err error) {
	for _, m := range exchangeErrorMappings {
		if errors.Is(err, m.sentinel) {
			c.JSON(m.status, gin.H{"error": err.Error(), "kind": m.kind})
			return
		}
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Error("Exchange failed", slog.String("error", err.Error()))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to exchange"})
}

var exchangeErrorMappings = []struct {
	sentinel error
	status   int
	kind     string
}{
	{apperrors.ErrCurrencyNotFound, http.StatusNotFound, "currency_not_found"},
	{apperrors.ErrAccountNotFound, http.StatusNotFound, "account_not_found"},
	{apperrors.ErrExchangeDisabled, http.StatusUnprocessableEntity, "exchange_disabled"},
	{apperrors.ErrInsufficientBalance, http.StatusUnprocessableEntity, "insufficient_balance"},
	{apperrors.ErrNoExchangeRoute, http.StatusUnprocessableEntity, "no_exchange_route"},
	{apperrors.ErrAmountTooSmall, http.StatusUnprocessableEntity, "amount_too_small"},
	{apperrors.ErrTargetLimitExceeded, http.StatusUnprocessableEntity, "target_limit_exceeded"},
}
