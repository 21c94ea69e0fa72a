package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/coinledger/coinledger/internal/apperrors"
	portssvc "github.com/coinledger/coinledger/internal/core/ports/services"
	"github.com/coinledger/coinledger/internal/dto"
	"github.com/coinledger/coinledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// currencyHandler handles HTTP requests related to the currency registry.
type currencyHandler struct {
	registry portssvc.CurrencyRegistrySvc
}

// newCurrencyHandler creates a new currencyHandler.
func newCurrencyHandler(registry portssvc.CurrencyRegistrySvc) *currencyHandler {
	return &currencyHandler{registry: registry}
}

// RegisterCurrencyRoutes registers routes related to currencies.
func RegisterCurrencyRoutes(rg *gin.RouterGroup, registry portssvc.CurrencyRegistrySvc) {
	h := newCurrencyHandler(registry)

	currencies := rg.Group("/currencies")
	{
		currencies.POST("", h.registerCurrency)
		currencies.GET("", h.listCurrencies)
		currencies.GET("/:id", h.getCurrency)
		currencies.DELETE("/:id", h.unregisterCurrency)
	}
}

func (h *currencyHandler) registerCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RegisterCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RegisterCurrency", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received request to register currency", slog.String("currency", req.ID))

	registered, err := h.registry.RegisterCurrency(c.Request.Context(), req.ToDomain())
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error registering currency", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to register currency", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register currency"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToCurrencyResponse(registered))
}

func (h *currencyHandler) getCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id := c.Param("id")

	currency, err := h.registry.GetCurrency(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrCurrencyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Currency '%s' not found", id)})
		} else {
			logger.Error("Failed to get currency", slog.String("currency", id), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve currency"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToCurrencyResponse(currency))
}

func (h *currencyHandler) listCurrencies(c *gin.Context) {
	currencies := h.registry.ListCurrencies(c.Request.Context())
	c.JSON(http.StatusOK, dto.ToListCurrencyResponse(currencies))
}

func (h *currencyHandler) unregisterCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id := c.Param("id")

	if !h.registry.UnregisterCurrency(c.Request.Context(), id) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Currency '%s' not found", id)})
		return
	}

	logger.Info("Currency unregistered via API", slog.String("currency", id))
	c.Status(http.StatusNoContent)
}
