package services

import (
	"log/slog"

	portsrepo "github.com/coinledger/coinledger/internal/core/ports/repositories"
	portssvc "github.com/coinledger/coinledger/internal/core/ports/services"
	"github.com/coinledger/coinledger/pkg/config"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies. Wiring order matters: the ledger reads
// currencies from the registry, the economy bridge mutates through the
// ledger, and the registry binds primary-economy currencies into the
// bridge.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, logger *slog.Logger) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	audit := NewAuditLogger(logger)

	registry := NewRegistryService(repos.BalanceStore)
	ledger := NewLedgerService(repos.BalanceStore, registry, cfg.SaveDebounceInterval)
	economy := NewEconomyBridgeService(ledger)

	// The binder must be attached before any currency registration.
	registry.SetEconomyBinder(economy)

	container.Registry = registry
	container.Ledger = ledger
	container.Exchange = NewExchangeService(registry, ledger, audit)
	container.Transfer = NewTransferService(registry, ledger, audit)
	container.Leaderboard = NewLeaderboardService(repos.BalanceStore, cfg.TopRefreshInterval)
	container.Economy = economy
	container.Audit = audit

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.CurrencyRegistrySvc = (*registryService)(nil)
	_ portssvc.BalanceLedgerSvc    = (*ledgerService)(nil)
	_ portssvc.ExchangeSvc         = (*exchangeService)(nil)
	_ portssvc.TransferSvc         = (*transferService)(nil)
	_ portssvc.LeaderboardSvc      = (*leaderboardService)(nil)
	_ portssvc.EconomyBridgeSvc    = (*economyBridgeService)(nil)
)
