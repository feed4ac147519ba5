package bootstrap

import (
	"context"
	"log/slog"
	"strings"
	"time"

	electionledger "psephos/contexts/governance/election-ledger"
	ledgerpostgres "psephos/contexts/governance/election-ledger/adapters/postgres"
	ledgerworkers "psephos/contexts/governance/election-ledger/application/workers"
	tokenledger "psephos/contexts/governance/token-ledger"
	tokenpostgres "psephos/contexts/governance/token-ledger/adapters/postgres"
	"psephos/internal/platform/config"
	"psephos/internal/platform/db"
	"psephos/internal/platform/httpserver"
	"psephos/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server *httpserver.Server
	store  *db.DB
	logger *slog.Logger
}

type WorkerApp struct {
	store        *db.DB
	outboxRelay  ledgerworkers.OutboxRelay
	pollInterval time.Duration
	enabled      bool
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")

	store, err := db.Connect(cfg.PostgresDSN, cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	if err := ledgerpostgres.AutoMigrate(store.Gorm); err != nil {
		return nil, err
	}
	if err := tokenpostgres.AutoMigrate(store.Gorm); err != nil {
		return nil, err
	}

	tokenRepo := tokenpostgres.NewRepository(store.Gorm, logger)
	tokenModule := tokenledger.NewModule(tokenledger.Dependencies{
		Accounts: tokenRepo,
		Clock:    tokenpostgres.SystemClock{},
		Logger:   logger,
	})

	ledgerRepo := ledgerpostgres.NewRepository(store.Gorm, logger)
	ledgerModule := electionledger.NewModule(electionledger.Dependencies{
		Ledger:   ledgerRepo,
		Balances: tokenModule.Balances,
		Clock:    ledgerpostgres.SystemClock{},
		IDGen:    ledgerpostgres.UUIDGenerator{},
		Logger:   logger,
	})

	server := httpserver.New(ledgerModule, tokenModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server: server,
		store:  store,
		logger: logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")

	store, err := db.Connect(cfg.PostgresDSN, cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	if err := ledgerpostgres.AutoMigrate(store.Gorm); err != nil {
		return nil, err
	}

	bus := messaging.NewBus(logger)
	repo := ledgerpostgres.NewRepository(store.Gorm, logger)
	return &WorkerApp{
		store: store,
		outboxRelay: ledgerworkers.OutboxRelay{
			Outbox:    repo,
			Publisher: bus,
			Clock:     ledgerpostgres.SystemClock{},
			Source:    cfg.ServiceName,
			BatchSize: cfg.OutboxBatchSize,
			Logger:    logger,
		},
		pollInterval: cfg.OutboxPollInterval,
		enabled:      cfg.EnableOutboxRelay,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if !w.enabled {
		w.logger.Info("worker app idle, relay disabled",
			"event", "bootstrap_worker_idle",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.outboxRelay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.store != nil {
		return w.store.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
