package electionledger

import (
	"log/slog"

	httpadapter "psephos/contexts/governance/election-ledger/adapters/http"
	"psephos/contexts/governance/election-ledger/adapters/memory"
	"psephos/contexts/governance/election-ledger/application/commands"
	"psephos/contexts/governance/election-ledger/application/queries"
	"psephos/contexts/governance/election-ledger/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Ledger   ports.LedgerRepository
	Balances ports.BalanceSource
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

func NewModule(deps Dependencies) Module {
	electionUseCase := commands.ElectionUseCase{
		Ledger: deps.Ledger,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
	}
	candidacyUseCase := commands.CandidacyUseCase{
		Ledger: deps.Ledger,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
	}
	ballotUseCase := commands.BallotUseCase{
		Ledger:   deps.Ledger,
		Balances: deps.Balances,
		Clock:    deps.Clock,
		IDGen:    deps.IDGen,
		Logger:   deps.Logger,
	}
	registryUseCase := queries.RegistryUseCase{
		Ledger: deps.Ledger,
		Clock:  deps.Clock,
	}
	eligibilityUseCase := queries.EligibilityUseCase{
		Ledger:   deps.Ledger,
		Balances: deps.Balances,
		Clock:    deps.Clock,
	}
	return Module{
		Handler: httpadapter.Handler{
			Elections:   electionUseCase,
			Candidacy:   candidacyUseCase,
			Ballots:     ballotUseCase,
			Registry:    registryUseCase,
			Eligibility: eligibilityUseCase,
			Logger:      deps.Logger,
		},
	}
}

// NewInMemoryModule wires the module over the in-memory store, used by tests
// and dependency-free local runs. A nil clock falls back to the system clock.
func NewInMemoryModule(balances ports.BalanceSource, clock ports.Clock, logger *slog.Logger) Module {
	store := memory.NewStore()
	if clock == nil {
		clock = memory.SystemClock{}
	}
	module := NewModule(Dependencies{
		Ledger:   store,
		Balances: balances,
		Clock:    clock,
		IDGen:    memory.UUIDGenerator{},
		Logger:   logger,
	})
	module.Store = store
	return module
}
