package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"crivo/internal/credit"
	creditcache "crivo/internal/credit/cache"
	creditmetrics "crivo/internal/credit/metrics"
	"crivo/internal/platform/config"
	"crivo/internal/platform/httpserver"
	"crivo/internal/platform/kafka"
	"crivo/internal/platform/logger"
	platformmetrics "crivo/internal/platform/metrics"
	platformredis "crivo/internal/platform/redis"
	jwttoken "crivo/internal/jwt_token"
	pricinghandler "crivo/internal/pricing/handler"
	"crivo/internal/proposal/catalog"
	proposalhandler "crivo/internal/proposal/handler"
	"crivo/internal/proposal/rules"
	proposalservice "crivo/internal/proposal/service"
	proposalstore "crivo/internal/proposal/store"
	httptransport "crivo/internal/transport/http"
	audit "crivo/pkg/platform/audit"
	"crivo/pkg/platform/circuit"
	auditkafka "crivo/pkg/platform/audit/kafka"
	auditpublisher "crivo/pkg/platform/audit/publisher"
	auditmemory "crivo/pkg/platform/audit/store/memory"
)

// main wires dependencies and runs the server. Business logic lives in the
// internal service packages; everything here is assembly.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Audit pipeline: memory store, optionally mirrored to Kafka.
	var auditStore audit.Store = auditmemory.NewInMemoryStore()
	var producer *kafka.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		p, err := kafka.NewProducer(cfg.Kafka.Brokers, log)
		if err != nil {
			log.Error("kafka producer init failed", "error", err)
			os.Exit(1)
		}
		producer = p
		auditStore = auditkafka.NewSink(auditStore, p, cfg.Kafka.AuditTopic)
	}
	publisher := auditpublisher.NewPublisher(auditStore,
		auditpublisher.WithAsyncBuffer(cfg.Audit.BufferSize),
	)
	defer publisher.Close()

	// Analysis cache: Redis when configured, in-process otherwise.
	var analysisCache credit.ResultCache
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis init failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		analysisCache = creditcache.NewGuarded(
			creditcache.NewRedis(redisClient.Client, cfg.Credit.CacheTTL),
			circuit.New("analysis-cache"),
			log,
		)
	} else {
		analysisCache = creditcache.NewInMemory(cfg.Credit.CacheTTL)
	}

	// Proposal store: PostgreSQL when configured, in-memory otherwise.
	var store proposalstore.Store = proposalstore.NewInMemory()
	var db *sql.DB
	if cfg.Postgres.DSN != "" {
		db, err = sql.Open("postgres", cfg.Postgres.DSN)
		if err != nil {
			log.Error("postgres open failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Error("postgres ping failed", "error", err)
			os.Exit(1)
		}
		store = proposalstore.NewPostgres(db)
	}

	limits := rules.DefaultLimits()
	engine := credit.NewEngine(limits, credit.WithEconomicRiskFactor(cfg.Credit.EconomicRiskFactor))

	analyzer, err := credit.NewService(engine,
		credit.WithLogger(log),
		credit.WithMetrics(creditmetrics.New()),
		credit.WithCache(analysisCache),
		credit.WithAuditor(publisher),
	)
	if err != nil {
		log.Error("credit service init failed", "error", err)
		os.Exit(1)
	}

	cat := catalog.NewInMemory()
	lifecycle, err := proposalservice.NewService(store, cat, rules.New(limits),
		proposalservice.WithLogger(log),
		proposalservice.WithAnalyzer(analyzer),
		proposalservice.WithAuditor(publisher),
	)
	if err != nil {
		log.Error("proposal service init failed", "error", err)
		os.Exit(1)
	}

	tokens := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, "crivo", "crivo-api")

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:       log,
		Metrics:      platformmetrics.New(),
		JWTValidator: jwttoken.NewJWTServiceAdapter(tokens),
		AdminToken:   cfg.Server.AdminToken,
		Proposals:    proposalhandler.New(lifecycle, log),
		Pricing:      pricinghandler.New(log, publisher),
		Admin:        httptransport.NewAdminHandler(cat, tokens, log),
		Health:       healthHandler(db, redisClient),
	})

	srv := httpserver.New(cfg.Server.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("starting crivo", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}

	if producer != nil {
		producer.Close()
	}
	log.Info("shutdown complete")
}

// healthHandler reports the health of the configured backing services.
func healthHandler(db *sql.DB, redisClient *platformredis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"degraded","postgres":"down"}`))
				return
			}
		}
		if redisClient != nil {
			if err := redisClient.Health(ctx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"degraded","redis":"down"}`))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
