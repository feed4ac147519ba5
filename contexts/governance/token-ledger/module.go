package tokenledger

import (
	"log/slog"

	httpadapter "psephos/contexts/governance/token-ledger/adapters/http"
	"psephos/contexts/governance/token-ledger/adapters/memory"
	"psephos/contexts/governance/token-ledger/application/commands"
	"psephos/contexts/governance/token-ledger/application/queries"
	"psephos/contexts/governance/token-ledger/ports"
)

type Module struct {
	Handler  httpadapter.Handler
	Balances queries.BalanceUseCase
	Store    *memory.Store
}

type Dependencies struct {
	Accounts ports.AccountRepository
	Clock    ports.Clock
	Logger   *slog.Logger
}

func NewModule(deps Dependencies) Module {
	transferUseCase := commands.TransferUseCase{
		Accounts: deps.Accounts,
		Clock:    deps.Clock,
		Logger:   deps.Logger,
	}
	balanceUseCase := queries.BalanceUseCase{
		Accounts: deps.Accounts,
	}
	return Module{
		Handler: httpadapter.Handler{
			Transfers: transferUseCase,
			Balances:  balanceUseCase,
			Logger:    deps.Logger,
		},
		Balances: balanceUseCase,
	}
}

// NewInMemoryModule wires the module over the in-memory store. A nil clock
// falls back to the system clock.
func NewInMemoryModule(clock ports.Clock, logger *slog.Logger) Module {
	store := memory.NewStore()
	if clock == nil {
		clock = memory.SystemClock{}
	}
	module := NewModule(Dependencies{
		Accounts: store,
		Clock:    clock,
		Logger:   logger,
	})
	module.Store = store
	return module
}
