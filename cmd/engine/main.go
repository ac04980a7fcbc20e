package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rakeshbhol1995-dotcom/dex-free/internal/admission"
	"github.com/rakeshbhol1995-dotcom/dex-free/internal/config"
	"github.com/rakeshbhol1995-dotcom/dex-free/internal/discovery"
	"github.com/rakeshbhol1995-dotcom/dex-free/internal/domain"
	"github.com/rakeshbhol1995-dotcom/dex-free/internal/ledger"
	"github.com/rakeshbhol1995-dotcom/dex-free/internal/notify"
	"github.com/rakeshbhol1995-dotcom/dex-free/internal/observability"
	"github.com/rakeshbhol1995-dotcom/dex-free/internal/provider"
	"github.com/rakeshbhol1995-dotcom/dex-free/internal/risk"
	"github.com/rakeshbhol1995-dotcom/dex-free/internal/scheduler"
	"github.com/rakeshbhol1995-dotcom/dex-free/internal/storage"
	chstore "github.com/rakeshbhol1995-dotcom/dex-free/internal/storage/clickhouse"
	"github.com/rakeshbhol1995-dotcom/dex-free/internal/storage/memory"
	"github.com/rakeshbhol1995-dotcom/dex-free/internal/storage/migrations"
	pgstore "github.com/rakeshbhol1995-dotcom/dex-free/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	logger := log.New(os.Stderr, "[engine] ", log.LstdFlags)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("validate config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Stores
	var marketStore storage.MarketStore = memory.NewMarketStore()
	var decisionStore storage.DecisionStore = memory.NewDecisionStore()
	var capHistory storage.CapHistoryStore = memory.NewCapHistoryStore()

	if cfg.Storage.Backend == "postgres" {
		pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			logger.Fatalf("connect to postgres: %v", err)
		}
		defer pool.Close()

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			logger.Fatalf("run postgres migrations: %v", err)
		}

		marketStore = pgstore.NewMarketStore(pool)
		decisionStore = pgstore.NewDecisionStore(pool)
	}

	if cfg.Storage.ClickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.Storage.ClickhouseDSN)
		if err != nil {
			logger.Fatalf("run clickhouse migrations: %v", err)
		}
		defer conn.Close()

		capHistory = chstore.NewCapHistoryStore(conn)
	}

	// Metrics
	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics("dex_free")

		mux := http.NewServeMux()
		mux.Handle("/metrics", observability.Handler())
		srv := &http.Server{Addr: cfg.Metrics.ListenAddr, Handler: mux}
		go func() {
			logger.Printf("metrics listening on %s", cfg.Metrics.ListenAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Printf("metrics server: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
	}

	// Notifier
	var notifier notify.Notifier = notify.NewLogNotifier(logger)
	if cfg.Telegram.Enabled {
		tg, err := notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, logger)
		if err != nil {
			logger.Fatalf("create telegram notifier: %v", err)
		}
		notifier = tg
	}

	// Market data provider
	dataProvider := provider.NewHTTPProvider(cfg.Provider.BaseURL, cfg.Provider.APIKey,
		provider.WithTimeout(cfg.Provider.Timeout),
		provider.WithMaxRetries(cfg.Provider.MaxRetries),
	)

	// Ledger gateway
	signer, err := ledger.NewSigner(cfg.Ledger.SignerSeed)
	if err != nil {
		logger.Fatalf("create signer: %v", err)
	}
	gateway := ledger.NewHTTPGateway(cfg.Ledger.RPCURL, signer, logger,
		ledger.WithSubmitTimeout(cfg.Ledger.SubmitTimeout),
		ledger.WithConfirmTimeout(cfg.Ledger.ConfirmTimeout),
	)
	logger.Printf("ledger signer address: %s", signer.Address())

	// Discovery feed
	var feed discovery.Feed
	if cfg.Discovery.WSURL != "" {
		wsCfg := discovery.DefaultWSFeedConfig()
		wsCfg.BufferSize = cfg.Discovery.BufferSize
		wsFeed, err := discovery.NewWSFeed(ctx, cfg.Discovery.WSURL, logger, &wsCfg)
		if err != nil {
			logger.Fatalf("connect discovery feed: %v", err)
		}
		defer wsFeed.Close()
		feed = wsFeed
	} else {
		logger.Printf("no discovery feed configured; admission sweeps will be idle")
		feed = discovery.NewStaticFeed()
	}

	// Pipelines
	pipeline := admission.NewPipeline(admission.PipelineOptions{
		Feed:      feed,
		Provider:  dataProvider,
		Gateway:   gateway,
		Markets:   marketStore,
		Decisions: decisionStore,
		Notifier:  notifier,
		Metrics:   metrics,
		Logger:    logger,
		Thresholds: domain.Thresholds{
			MinSecurityScore: cfg.Admission.MinSecurityScore,
			MinLiquidityUsd:  cfg.Admission.MinLiquidityDecimal(),
		},
		Workers: cfg.Admission.Workers,
	})

	controller := risk.NewController(risk.ControllerOptions{
		Provider:   dataProvider,
		Gateway:    gateway,
		Markets:    marketStore,
		CapHistory: capHistory,
		Notifier:   notifier,
		Metrics:    metrics,
		Logger:     logger,
		Ratio:      cfg.Risk.CapRatioDecimal(),
		Workers:    cfg.Risk.Workers,
	})

	// Scheduler
	sched := scheduler.New([]scheduler.Task{
		{Name: "admission", Interval: cfg.Admission.Interval, Run: pipeline.Run},
		{Name: "risk", Interval: cfg.Risk.Interval, Run: controller.Run},
	}, logger, metrics)

	if err := sched.Start(ctx); err != nil {
		logger.Fatalf("start scheduler: %v", err)
	}
	logger.Printf("engine started: admission every %s, risk every %s", cfg.Admission.Interval, cfg.Risk.Interval)

	sig := <-sigCh
	logger.Printf("received signal %v, draining...", sig)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	if err := sched.Stop(stopCtx); err != nil {
		logger.Printf("shutdown: %v", err)
	}
	logger.Printf("engine stopped")
}
