package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"wealthway/internal/amqp"
	"wealthway/internal/backend"
	"wealthway/internal/cache"
	"wealthway/internal/cli"
	"wealthway/internal/config"
	"wealthway/internal/events"
	apphttp "wealthway/internal/http"
	"wealthway/internal/insights"
	"wealthway/internal/log"
	"wealthway/internal/services"
)

func main() {
	// Load .env file for local development; a missing file is fine.
	if err := cli.LoadEnvFile(); err != nil {
		cli.Exit(cli.SetupLogger("info"), "Failed to load .env file", err)
	}

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		cli.Exit(cli.SetupLogger("info"), "Configuration validation failed", err)
	}
	logger := cli.SetupLogger(cfg.LogLevel)

	if err := run(cfg, logger); err != nil {
		cli.Exit(logger, "wealthway stopped with error", err)
	}
	logger.Info("Server stopped gracefully")
}

func run(cfg *config.Config, logger *log.Logger) error {
	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	logger.Info("Starting wealthway",
		log.FieldOperation, log.OpStartup,
		"port", cfg.Port,
		log.FieldBackend, cfg.DataBackend,
		log.FieldProvider, cfg.InsightsProvider)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return fmt.Errorf("backend configuration: %w", err)
	}
	result, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return fmt.Errorf("initialize backend: %w", err)
	}
	defer func() {
		if result.Cleanup == nil {
			return
		}
		if err := result.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", log.FieldError, err)
		}
	}()

	bus := events.NewBus(64)
	defer bus.Close()

	transactions := services.NewTransactionStore(result.Backend, bus)
	transactions.Load(ctx)
	themes := services.NewThemeStore(result.Backend)

	provider, err := insights.NewProvider(ctx, insights.ProviderConfig{
		Kind:          cfg.InsightsProvider,
		Model:         cfg.InsightsModel,
		GeminiAPIKey:  cfg.GeminiAPIKey,
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
	})
	if err != nil {
		return fmt.Errorf("initialize insights provider: %w", err)
	}
	responses := cache.NewLRUCache[string](cfg.InsightsCacheSize, cfg.InsightsCacheTTL)
	advisor := insights.NewClient(provider,
		insights.WithCache(responses),
		insights.WithTimeout(cfg.InsightsTimeout))

	renderer, err := apphttp.NewRenderer()
	if err != nil {
		return err
	}
	hub := apphttp.NewHub(renderer, logger)
	tracker := insights.NewTracker(advisor, transactions, hub)

	srv, err := apphttp.NewServer(apphttp.Options{
		Addr:               ":" + cfg.Port,
		DefaultTheme:       cfg.Theme(),
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Transactions:       transactions,
		Themes:             themes,
		Insights:           tracker,
		Storage:            result.Backend,
		Renderer:           renderer,
		Hub:                hub,
		Logger:             logger,
	})
	if err != nil {
		return fmt.Errorf("create HTTP server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	trackerEvents, unsubscribeTracker := bus.Subscribe()
	defer unsubscribeTracker()
	g.Go(func() error { return tracker.Run(gctx, trackerEvents) })

	if cfg.AMQPURL != "" {
		publisher, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			logger.Warn("AMQP unavailable at startup, will retry on publish",
				log.FieldError, err)
			publisher = amqp.New(cfg.AMQPURL, cfg.AMQPExchange)
		}
		defer publisher.Close()
		amqpEvents, unsubscribeAMQP := bus.Subscribe()
		defer unsubscribeAMQP()
		g.Go(func() error { return publisher.Run(gctx, amqpEvents) })
	}

	g.Go(func() error { return cache.NewJanitor(5*time.Minute, responses).Run(gctx) })
	g.Go(func() error { return srv.Limiter().Run(gctx, 5*time.Minute) })

	g.Go(func() error {
		logger.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
