package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	dedupHandler "tally/internal/dedup/handler"
	dedupMetrics "tally/internal/dedup/metrics"
	dedupService "tally/internal/dedup/service"
	ledgerHandler "tally/internal/ledger/handler"
	ledgerMetrics "tally/internal/ledger/metrics"
	ledgerService "tally/internal/ledger/service"
	"tally/internal/platform/config"
	"tally/internal/platform/httpserver"
	"tally/internal/platform/kafka"
	"tally/internal/platform/logger"
	platformMetrics "tally/internal/platform/metrics"
	schedulingAdapters "tally/internal/scheduling/adapters"
	schedulingHandler "tally/internal/scheduling/handler"
	schedulingMetrics "tally/internal/scheduling/metrics"
	schedulingService "tally/internal/scheduling/service"
	statsAdapters "tally/internal/stats/adapters"
	statsHandler "tally/internal/stats/handler"
	statsMetrics "tally/internal/stats/metrics"
	statsService "tally/internal/stats/service"
	httptransport "tally/internal/transport/http"
	"tally/pkg/platform/audit/outbox"
	"tally/pkg/platform/audit/publishers/compliance"
	"tally/pkg/platform/audit/publishers/ops"
)

const requestTimeout = 30 * time.Second

// main wires the stores, services and HTTP router, and runs the server and
// the audit relay until a shutdown signal arrives.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "tally: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStores, err := openStores(ctx, cfg.Postgres, log)
	if err != nil {
		return err
	}
	defer closeStores()

	locker, lockerCheck, closeLocker, err := openLocker(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeLocker()
	checks := st.checks()
	if lockerCheck != nil {
		checks["redis"] = lockerCheck
	}

	compliancePublisher := compliance.New(st.audit,
		compliance.WithLogger(log),
		compliance.WithMetrics(compliance.NewMetrics()),
	)
	defer compliancePublisher.Close()
	opsPublisher := ops.New(st.audit,
		ops.WithLogger(log),
		ops.WithMetrics(ops.NewMetrics()),
	)
	defer opsPublisher.Close()

	scheduling := schedulingService.New(
		st.scheduling,
		st.catalog,
		schedulingAdapters.NewAttributionAdapter(st.ledger, st.participation),
		locker,
		schedulingService.WithLogger(log),
		schedulingService.WithAuditPublisher(compliancePublisher),
		schedulingService.WithMetrics(schedulingMetrics.New()),
		schedulingService.WithTxRunner(st.txRunner),
		schedulingService.WithRecountDuration(cfg.Features.RecountDuration),
	)
	ledger := ledgerService.New(
		st.ledger,
		st.scheduling,
		st.catalog,
		locker,
		ledgerService.WithLogger(log),
		ledgerService.WithAuditPublisher(compliancePublisher),
		ledgerService.WithMetrics(ledgerMetrics.New()),
		ledgerService.WithTxRunner(st.txRunner),
	)
	dedup := dedupService.New(
		st.participation,
		st.catalog,
		dedupService.WithLogger(log),
		dedupService.WithOpsTracker(opsPublisher),
		dedupService.WithMetrics(dedupMetrics.New()),
		dedupService.WithLocales(cfg.Features.Locales),
	)
	stats := statsService.New(
		statsAdapters.NewSourceAdapter(st.catalog, st.participation, st.ledger),
		statsService.Config{Channels: cfg.Features.Channels},
		statsService.WithLogger(log),
		statsService.WithMetrics(statsMetrics.New()),
	)

	router := httptransport.NewRouter(
		httptransport.Options{Logger: log, Metrics: platformMetrics.New(), Timeout: requestTimeout, Checks: checks},
		schedulingHandler.New(scheduling, log),
		ledgerHandler.New(ledger, log),
		dedupHandler.New(dedup, log),
		statsHandler.New(stats, log),
	)
	srv := httpserver.New(cfg.Server, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.InfoContext(gctx, "starting tally", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	if st.db != nil {
		relay, closeRelay, err := openRelay(ctx, cfg, st, log)
		if err != nil {
			return err
		}
		if relay != nil {
			defer closeRelay()
			g.Go(func() error {
				if err := relay.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
					return err
				}
				return nil
			})
		}
	}
	return g.Wait()
}

// openRelay starts forwarding the audit outbox to Kafka. It returns a nil
// relay when no brokers are configured.
func openRelay(ctx context.Context, cfg *config.Config, st *stores, log *slog.Logger) (*outbox.Relay, func(), error) {
	client, err := kafka.NewClient(cfg.Kafka)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		log.InfoContext(ctx, "no kafka brokers configured, audit outbox is not relayed")
		return nil, nil, nil
	}
	if err := kafka.EnsureTopic(ctx, client, cfg.Kafka.AuditTopic, cfg.Kafka.Partitions, cfg.Kafka.Replication); err != nil {
		client.Close()
		return nil, nil, err
	}
	relay := outbox.NewRelay(st.db, outbox.NewKafkaProducer(client, cfg.Kafka.AuditTopic),
		outbox.WithLogger(log),
		outbox.WithBatchSize(cfg.Kafka.RelayBatch),
		outbox.WithInterval(cfg.Kafka.RelayInterval),
	)
	return relay, client.Close, nil
}
