package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	catalogStore "tally/internal/catalog/store"
	dedupService "tally/internal/dedup/service"
	ledgerService "tally/internal/ledger/service"
	ledgerStore "tally/internal/ledger/store"
	"tally/internal/lock"
	participationStore "tally/internal/participation/store"
	"tally/internal/platform/config"
	"tally/internal/platform/postgres"
	"tally/internal/platform/redis"
	schedulingAdapters "tally/internal/scheduling/adapters"
	schedulingService "tally/internal/scheduling/service"
	schedulingStore "tally/internal/scheduling/store"
	statsAdapters "tally/internal/stats/adapters"
	httptransport "tally/internal/transport/http"
	audit "tally/pkg/platform/audit"
	auditmemory "tally/pkg/platform/audit/store/memory"
	auditpostgres "tally/pkg/platform/audit/store/postgres"
	"tally/pkg/platform/tx"
)

// stores bundles the backends every service reads from. Either all of them
// are Postgres-backed or all of them live in memory.
type stores struct {
	db            *sql.DB
	catalog       catalogBackend
	scheduling    schedulingBackend
	ledger        ledgerBackend
	participation participationBackend
	audit         audit.Store
	txRunner      tx.Runner
}

type (
	catalogBackend interface {
		schedulingService.Catalog
		ledgerService.Catalog
		statsAdapters.Catalog
		dedupService.Tenants
	}
	schedulingBackend interface {
		schedulingService.Store
	}
	ledgerBackend interface {
		ledgerService.Store
		schedulingAdapters.LedgerCounter
		statsAdapters.Recounts
	}
	participationBackend interface {
		dedupService.Store
		schedulingAdapters.VoterCounter
		statsAdapters.Participation
	}
)

func openStores(ctx context.Context, cfg config.PostgresConfig, logger *slog.Logger) (*stores, func(), error) {
	if cfg.DSN == "" {
		logger.WarnContext(ctx, "no postgres DSN configured, using in-memory stores")
		return &stores{
			catalog:       catalogStore.NewInMemory(),
			scheduling:    schedulingStore.NewInMemory(),
			ledger:        ledgerStore.NewInMemory(),
			participation: participationStore.NewInMemory(),
			audit:         auditmemory.NewInMemoryStore(),
			txRunner:      tx.NoopRunner{},
		}, func() {}, nil
	}

	db, err := postgres.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			logger.Error("close postgres", "error", err)
		}
	}
	return &stores{
		db:            db,
		catalog:       catalogStore.NewPostgres(db),
		scheduling:    schedulingStore.NewPostgres(db),
		ledger:        ledgerStore.NewPostgres(db),
		participation: participationStore.NewPostgres(db),
		audit:         auditpostgres.New(db),
		txRunner:      tx.SQLRunner{DB: db},
	}, closeDB, nil
}

// checks returns the readiness probes for the configured backends.
func (s *stores) checks() map[string]httptransport.Check {
	checks := make(map[string]httptransport.Check)
	if s.db != nil {
		checks["postgres"] = s.db.PingContext
	}
	return checks
}

// openLocker prefers Redis so several processes share aggregate locks. The
// returned check is nil for the in-process locker.
func openLocker(ctx context.Context, cfg *config.Config, logger *slog.Logger) (lock.Locker, httptransport.Check, func(), error) {
	client, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	if client == nil {
		logger.InfoContext(ctx, "no redis URL configured, using in-process locks")
		return lock.NewMemoryLocker(cfg.Features.LockTTL), nil, func() {}, nil
	}
	closeClient := func() {
		if err := client.Close(); err != nil {
			logger.Error("close redis", "error", err)
		}
	}
	return lock.NewRedisLocker(client.Client, cfg.Features.LockTTL, lock.WithLogger(logger)), client.Health, closeClient, nil
}
