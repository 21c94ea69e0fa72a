package handlers

import (
	portssvc "github.com/coinledger/coinledger/internal/core/ports/services"
	"github.com/coinledger/coinledger/internal/middleware"
	"github.com/coinledger/coinledger/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	limiterInstance *limiter.Limiter,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, services, limiterInstance)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
	limiterInstance *limiter.Limiter,
) {
	v1 := r.Group("/api/v1", middleware.ActorMiddleware(), middleware.RateLimit(limiterInstance))

	RegisterCurrencyRoutes(v1, services.Registry)
	RegisterBalanceRoutes(v1, services.Registry, services.Ledger, services.Audit)
	RegisterExchangeRoutes(v1, services.Exchange)
	RegisterTransferRoutes(v1, services.Transfer)
	RegisterLeaderboardRoutes(v1, services.Registry, services.Leaderboard)
	RegisterEconomyRoutes(v1, services.Registry, services.Economy)
}
