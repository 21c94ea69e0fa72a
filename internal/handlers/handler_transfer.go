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

// transferHandler handles HTTP requests for account-to-account payments.
type transferHandler struct {
	transfer portssvc.TransferSvc
}

// newTransferHandler creates a new transferHandler.
func newTransferHandler(transfer portssvc.TransferSvc) *transferHandler {
	return &transferHandler{transfer: transfer}
}

// RegisterTransferRoutes registers the transfer route.
func RegisterTransferRoutes(rg *gin.RouterGroup, transfer portssvc.TransferSvc) {
	h := newTransferHandler(transfer)
	rg.POST("/accounts/:identifier/transfer", h.transferBalance)
}

func (h *transferHandler) transferBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	identifier := c.Param("identifier")

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Transfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.transfer.Transfer(c.Request.Context(), identifier, req.To, req.Currency, req.Amount)
	if err != nil {
		h.writeTransferError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTransferResponse(result))
}

func (h *transferHandler) writeTransferError(c *gin.Context, err error) {
	for _, m := range transferErrorMappings {
		if errors.Is(err, m.sentinel) {
			c.JSON(m.status, gin.H{"error": err.Error(), "kind": m.kind})
			return
		}
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Error("Transfer failed", slog.String("error", err.Error()))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to transfer"})
}

var transferErrorMappings = []struct {
	sentinel error
	status   int
	kind     string
}{
	{apperrors.ErrCurrencyNotFound, http.StatusNotFound, "currency_not_found"},
	{apperrors.ErrAccountNotFound, http.StatusNotFound, "account_not_found"},
	{apperrors.ErrValidation, http.StatusBadRequest, "validation"},
	{apperrors.ErrTransferDisabled, http.StatusUnprocessableEntity, "transfer_disabled"},
	{apperrors.ErrInsufficientBalance, http.StatusUnprocessableEntity, "insufficient_balance"},
	{apperrors.ErrAmountTooSmall, http.StatusUnprocessableEntity, "amount_too_small"},
	{apperrors.ErrTargetLimitExceeded, http.StatusUnprocessableEntity, "target_limit_exceeded"},
}
