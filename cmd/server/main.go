package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"signalrelay/internal/api"
	"signalrelay/internal/api/handlers"
	"signalrelay/internal/api/middleware"
	"signalrelay/internal/engine/dispatch"
	"signalrelay/internal/engine/targets"
	"signalrelay/internal/pkg/logger"
	"signalrelay/internal/platform/config"
	"signalrelay/internal/platform/database"
	"signalrelay/internal/platform/repositories"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging)

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	repo := repositories.NewSignalRepository(db)
	if err := repo.InitSchema(); err != nil {
		log.Fatal().Err(err).Msg("failed to init schema")
	}

	registry, err := targets.Load(cfg.Targets.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Targets.Path).Msg("failed to load targets")
	}
	log.Info().Int("instruments", registry.Len()).Msg("target registry loaded")

	queues := dispatch.NewQueueManager(registry.Instruments(), cfg.Dispatch.QueueCapacity)
	client := dispatch.NewClient(cfg.Dispatch.DeliveryTimeout)
	coord := dispatch.NewCoordinator(registry, queues, repo, client, cfg.Dispatch)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	coord.Start(ctx)

	deps := &api.Dependencies{
		SignalHandler:  handlers.NewSignalHandler(coord, registry),
		LogsHandler:    handlers.NewLogsHandler(repo, cfg.Dispatch.DefaultLogLimit),
		TargetsHandler: handlers.NewTargetsHandler(registry, client),
		HealthHandler:  handlers.NewHealthHandler(registry, coord, repo),
		IndexHandler:   handlers.NewIndexHandler(registry),
		RateLimiter:    middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute),
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Dispatch.ShutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server error")
	}

	coord.Stop()
	log.Info().Msg("server stopped")
}
