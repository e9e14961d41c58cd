// Command maintenance runs the data repair passes over every tenant:
// duplicate voters, duplicate answers and answer option backfill.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	catalogStore "tally/internal/catalog/store"
	dedupMetrics "tally/internal/dedup/metrics"
	dedupService "tally/internal/dedup/service"
	participationStore "tally/internal/participation/store"
	"tally/internal/platform/config"
	"tally/internal/platform/logger"
	"tally/internal/platform/postgres"
	"tally/pkg/platform/audit/publishers/ops"
	auditpostgres "tally/pkg/platform/audit/store/postgres"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(openService).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// openService connects to the store of record. Maintenance has nothing to
// repair in the in-memory stores, so a DSN is required.
func openService(ctx context.Context) (*dedupService.Service, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	if cfg.Postgres.DSN == "" {
		return nil, nil, fmt.Errorf("postgres.dsn is required")
	}

	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		return nil, nil, err
	}
	tracker := ops.New(auditpostgres.New(db), ops.WithLogger(log))
	svc := dedupService.New(
		participationStore.NewPostgres(db),
		catalogStore.NewPostgres(db),
		dedupService.WithLogger(log),
		dedupService.WithOpsTracker(tracker),
		dedupService.WithMetrics(dedupMetrics.New()),
		dedupService.WithLocales(cfg.Features.Locales),
	)
	cleanup := func() {
		if err := tracker.Close(); err != nil {
			log.Warn("flush ops events", "error", err)
		}
		if err := db.Close(); err != nil {
			log.Warn("close postgres", "error", err)
		}
	}
	slog.SetDefault(log)
	return svc, cleanup, nil
}
