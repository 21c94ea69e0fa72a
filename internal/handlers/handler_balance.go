package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/coinledger/coinledger/internal/apperrors"
	"github.com/coinledger/coinledger/internal/core/domain"
	portssvc "github.com/coinledger/coinledger/internal/core/ports/services"
	"github.com/coinledger/coinledger/internal/dto"
	"github.com/coinledger/coinledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// balanceHandler handles HTTP requests against the balance ledger.
type balanceHandler struct {
	registry portssvc.CurrencyReaderSvc
	ledger   portssvc.BalanceLedgerSvc
	audit    portssvc.AuditSvc
}

// newBalanceHandler creates a new balanceHandler.
func newBalanceHandler(registry portssvc.CurrencyReaderSvc, ledger portssvc.BalanceLedgerSvc, audit portssvc.AuditSvc) *balanceHandler {
	return &balanceHandler{registry: registry, ledger: ledger, audit: audit}
}

// RegisterBalanceRoutes registers routes related to accounts and balances.
func RegisterBalanceRoutes(rg *gin.RouterGroup, registry portssvc.CurrencyReaderSvc, ledger portssvc.BalanceLedgerSvc, audit portssvc.AuditSvc) {
	h := newBalanceHandler(registry, ledger, audit)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("/:identifier", h.getAccount)
		accounts.GET("/:identifier/balances/:currency", h.getBalance)
		accounts.PUT("/:identifier/balances/:currency", h.setBalance)
		accounts.POST("/:identifier/balances/:currency/give", h.giveBalance)
		accounts.POST("/:identifier/balances/:currency/take", h.takeBalance)
	}
}

func (h *balanceHandler) getAccount(c *gin.Context) {
	identifier := c.Param("identifier")

	res := <-h.ledger.ResolveAsync(c.Request.Context(), identifier)
	if res.Err != nil {
		h.writeResolveError(c, identifier, res.Err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(res.Account))
}

func (h *balanceHandler) getBalance(c *gin.Context) {
	identifier := c.Param("identifier")
	currencyID := c.Param("currency")

	balance, err := h.ledger.GetBalance(c.Request.Context(), identifier, currencyID)
	if err != nil {
		h.writeLookupError(c, identifier, currencyID, err)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		AccountID: identifier,
		Currency:  domain.NormalizeCurrencyID(currencyID),
		Balance:   balance,
	})
}

func (h *balanceHandler) setBalance(c *gin.Context) {
	h.mutateBalance(c, "set", h.ledger.SetBalance, h.audit.LogSet)
}

func (h *balanceHandler) giveBalance(c *gin.Context) {
	h.mutateBalance(c, "give", h.ledger.AddBalance, h.audit.LogGive)
}

func (h *balanceHandler) takeBalance(c *gin.Context) {
	h.mutateBalance(c, "take", h.ledger.RemoveBalance, h.audit.LogTake)
}

type mutateFn func(ctx context.Context, identifier, currencyID string, amount decimal.Decimal, opts portssvc.MutateOptions) (decimal.Decimal, error)

type auditFn func(ctx context.Context, account *domain.Account, currency domain.Currency, amount, balance decimal.Decimal, opts portssvc.MutateOptions)

func (h *balanceHandler) mutateBalance(c *gin.Context, op string, mutate mutateFn, record auditFn) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	identifier := c.Param("identifier")
	currencyID := c.Param("currency")

	var req dto.MutateBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for balance mutation", slog.String("op", op), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	if req.Amount.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must not be negative"})
		return
	}

	currency, err := h.registry.GetCurrency(c.Request.Context(), currencyID)
	if err != nil {
		h.writeLookupError(c, identifier, currencyID, err)
		return
	}

	// Resolve first so the audit record carries the account identity even
	// when the mutation is a no-op.
	res := <-h.ledger.ResolveAsync(c.Request.Context(), identifier)
	if res.Err != nil {
		h.writeResolveError(c, identifier, res.Err)
		return
	}

	opts := portssvc.MutateOptions{Silent: req.Silent, NoSave: req.NoSave}
	balance, err := mutate(c.Request.Context(), res.Account.AccountID, currency.ID, req.Amount, opts)
	if err != nil {
		logger.Error("Balance mutation failed", slog.String("op", op), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update balance"})
		return
	}

	record(c.Request.Context(), res.Account, *currency, req.Amount, balance, opts)

	c.JSON(http.StatusOK, dto.BalanceResponse{
		AccountID:   res.Account.AccountID,
		DisplayName: res.Account.DisplayName,
		Currency:    currency.ID,
		Balance:     balance,
	})
}

func (h *balanceHandler) writeResolveError(c *gin.Context, identifier string, err error) {
	if errors.Is(err, apperrors.ErrAccountNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Account '%s' not found", identifier)})
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to resolve account",
		slog.String("identifier", identifier), slog.String("error", err.Error()))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve account"})
}

func (h *balanceHandler) writeLookupError(c *gin.Context, identifier, currencyID string, err error) {
	switch {
	case errors.Is(err, apperrors.ErrCurrencyNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Currency '%s' not found", currencyID)})
	case errors.Is(err, apperrors.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Account '%s' not found", identifier)})
	default:
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Balance lookup failed",
			slog.String("identifier", identifier), slog.String("currency", currencyID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up balance"})
	}
}
