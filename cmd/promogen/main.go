package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/coursekit/promogen/internal/auth"
	"github.com/coursekit/promogen/internal/catalog"
	"github.com/coursekit/promogen/internal/config"
	"github.com/coursekit/promogen/internal/content"
	"github.com/coursekit/promogen/internal/extract"
	"github.com/coursekit/promogen/internal/prompt"
	"github.com/coursekit/promogen/internal/provider"
	"github.com/coursekit/promogen/internal/registration"
	"github.com/coursekit/promogen/internal/server"
	"github.com/coursekit/promogen/internal/telemetry"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	shutdownTracer, err := telemetry.InitTracer("promogen", logger)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Error("failed to shutdown tracer", slog.String("error", err.Error()))
		}
	}()

	configPath := os.Getenv("PROMOGEN_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	registration.RegisterBuiltins()

	candidates, err := provider.NewRegistry().CreateCandidates(cfg.Providers.Candidates)
	if err != nil {
		log.Fatalf("Failed to build provider candidates: %v", err)
	}
	if len(candidates) == 0 {
		log.Fatal("No provider candidates configured")
	}

	invoker := provider.NewInvoker(candidates,
		provider.WithAttemptTimeout(config.Duration(cfg.Providers.AttemptTimeout, 30*time.Second)),
		provider.WithRateLimitFailover(cfg.Providers.RateLimitFailover),
		provider.WithLogger(logger),
	)

	generator := content.NewService(
		prompt.NewBuilder(cfg.Content),
		invoker,
		extract.New(cfg.Content),
		logger,
	)

	catalogClient := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.APIKey,
		catalog.WithTimeout(config.Duration(cfg.Catalog.Timeout, 15*time.Second)))
	gate := auth.NewGate(cfg.Auth, catalogClient, logger)
	fetcher := catalog.NewFetcher(catalogClient, logger)

	srv := server.New(cfg.Server.Port,
		config.Duration(cfg.Server.RequestTimeout, 60*time.Second), logger)
	server.NewHandlers(generator, gate, fetcher, cfg.Content.Aliases, logger).Register(srv)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	case sig := <-sigCh:
		logger.Info("shutting down", slog.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("shutdown failed", slog.String("error", err.Error()))
		}
	}
}
