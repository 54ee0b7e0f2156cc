package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	jwttoken "consortium/internal/jwt_token"
	"consortium/internal/ledger/ingest"
	"consortium/internal/platform/config"
	"consortium/internal/platform/httpserver"
	"consortium/internal/platform/kafka"
	"consortium/internal/platform/logger"
	platformmetrics "consortium/internal/platform/metrics"
	"consortium/internal/platform/postgres"
	redisclient "consortium/internal/platform/redis"
	settlementhandler "consortium/internal/settlement/handler"
	"consortium/internal/settlement/lock"
	settlementmetrics "consortium/internal/settlement/metrics"
	settlementservice "consortium/internal/settlement/service"
	settlementstore "consortium/internal/settlement/store"
	httptransport "consortium/internal/transport/http"
	"consortium/pkg/platform/audit"
	"consortium/pkg/platform/audit/outbox"
	"consortium/pkg/platform/audit/publisher"
	auditmemory "consortium/pkg/platform/audit/store/memory"
	auditpostgres "consortium/pkg/platform/audit/store/postgres"
	"consortium/pkg/platform/circuit"
)

const lockKeyPrefix = "settlement:lock:"

// main wires high-level dependencies and runs the HTTP server, movement
// ingestion and the audit outbox relay until a signal arrives. Business
// logic lives in internal services packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	metrics := platformmetrics.New()
	readiness := map[string]httptransport.ReadinessCheck{}

	var (
		store      settlementservice.Store
		storeTx    settlementservice.StoreTx
		auditStore audit.Store
		pgAudit    *auditpostgres.Store
	)
	auditOpts := []publisher.Option{publisher.WithLogger(log)}
	if cfg.Database.URL != "" {
		db, err := postgres.Open(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer closeDB(db, log)
		if err := settlementstore.Migrate(ctx, db); err != nil {
			return err
		}
		pg := settlementstore.NewPostgres(db)
		store = pg
		storeTx = newSettlementPostgresTx(db, pg, cfg.Settlement.TxTimeout)
		pgAudit = auditpostgres.New(db)
		auditStore = pgAudit
		readiness["postgres"] = db.PingContext
		log.Info("using postgres settlement store")
	} else {
		mem := settlementstore.NewInMemory()
		store = mem
		storeTx = settlementservice.NewLockingTx(mem, cfg.Settlement.TxTimeout)
		auditStore = auditmemory.NewInMemoryStore()
		// the postgres audit store must write inside the report transaction,
		// so only the in-memory store is buffered
		auditOpts = append(auditOpts, publisher.WithAsyncBuffer(cfg.Settlement.AuditBuffer))
		log.Warn("DATABASE_URL not set, using in-memory settlement store")
	}
	auditPublisher := publisher.NewPublisher(auditStore, auditOpts...)
	defer auditPublisher.Close()

	var locker settlementservice.RangeLocker = lock.NewMemory()
	if cfg.Redis.URL != "" {
		rc, err := redisclient.New(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer func() { _ = rc.Close() }()
		breaker := circuit.New("settlement-lock",
			circuit.WithFailureThreshold(cfg.Settlement.BreakerFailures),
			circuit.WithSuccessThreshold(cfg.Settlement.BreakerSuccesses),
		)
		prefix := cfg.Redis.KeyPrefix
		if prefix == "" {
			prefix = lockKeyPrefix
		}
		locker = lock.NewFallback(lock.NewRedis(rc.Client, prefix), lock.NewMemory(), breaker, log)
		readiness["redis"] = rc.Health
	}

	svc := settlementservice.New(store, storeTx, locker,
		settlementservice.WithLogger(log),
		settlementservice.WithAuditPublisher(auditPublisher),
		settlementservice.WithMetrics(settlementmetrics.New(metrics.Registerer())),
		settlementservice.WithLockTTL(cfg.Settlement.LockTTL),
	)

	jwtService := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer, cfg.Server.JWTAudience)
	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:     log,
		Validator:  jwttoken.NewJWTServiceAdapter(jwtService),
		Publisher:  auditPublisher,
		Metrics:    metrics,
		Readiness:  readiness,
		Registrars: []httptransport.Registrar{settlementhandler.New(svc, log)},
	})
	srv := httpserver.New(cfg.Server.Addr, router)

	var consumerClient, producer *kgo.Client
	if len(cfg.Kafka.Brokers) > 0 {
		var err error
		consumerClient, err = kafka.NewGroupConsumer(cfg.Kafka.Brokers, cfg.Kafka.ConsumerGroup, cfg.Kafka.MovementsTopic)
		if err != nil {
			return err
		}
		defer consumerClient.Close()
		if err := kafka.EnsureTopics(ctx, consumerClient, 1, cfg.Kafka.MovementsTopic, cfg.Kafka.AuditTopic); err != nil {
			log.Warn("failed to ensure kafka topics", "error", err)
		}
		if pgAudit != nil {
			producer, err = kafka.NewProducer(cfg.Kafka.Brokers)
			if err != nil {
				return err
			}
			defer producer.Close()
		}
	} else {
		log.Warn("KAFKA_BROKERS not set, movement ingestion and audit relay disabled")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting settlement server", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if consumerClient != nil {
		g.Go(func() error {
			return ingest.NewConsumer(consumerClient, svc, auditPublisher, log).Run(gctx)
		})
	}
	if producer != nil {
		relay := outbox.NewRelay(pgAudit, outbox.NewKafkaSink(producer, cfg.Kafka.AuditTopic),
			outbox.WithInterval(cfg.Kafka.RelayInterval),
			outbox.WithBatchSize(cfg.Kafka.RelayBatchSize),
			outbox.WithLogger(log),
			outbox.WithOnRelayed(metrics.AddOutboxPublished),
			outbox.WithTransactor(pgAudit),
		)
		g.Go(func() error { return relay.Run(gctx) })
	}

	return g.Wait()
}

func closeDB(db *sql.DB, log *slog.Logger) {
	if err := db.Close(); err != nil {
		log.Error("failed to close database", "error", err)
	}
}
