package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fortuna/gridiron/internal/api/rest"
	"github.com/fortuna/gridiron/internal/api/websocket"
	"github.com/fortuna/gridiron/internal/cache"
	"github.com/fortuna/gridiron/internal/config"
	"github.com/fortuna/gridiron/internal/logger"
	"github.com/fortuna/gridiron/internal/provider"
	"github.com/fortuna/gridiron/internal/publisher"
	"github.com/fortuna/gridiron/internal/scheduler"
	"github.com/fortuna/gridiron/internal/store"
	"github.com/fortuna/gridiron/internal/store/repository"
)

const (
	serviceName    = "gridiron"
	serviceVersion = "1.0.0"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info", false).Fatalf("failed to load configuration: %v", err)
	}

	log := logger.Init(cfg.LogLevel, cfg.IsDevelopment())
	log.Infof("starting %s v%s", serviceName, serviceVersion)

	db, err := store.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("failed to run database migrations: %v", err)
	}

	// Redis comes up after the service in compose setups, so retry.
	var redisCache *cache.RedisCache
	maxRetries := 30
	retryDelay := 2 * time.Second
	for i := 0; i < maxRetries; i++ {
		redisCache, err = cache.NewRedisCache(cfg.RedisURL)
		if err == nil {
			break
		}
		if i < maxRetries-1 {
			log.WithError(err).Warnf("redis connection attempt %d/%d failed, retrying in %v", i+1, maxRetries, retryDelay)
			time.Sleep(retryDelay)
		} else {
			log.Fatalf("failed to connect to redis after %d attempts: %v", maxRetries, err)
		}
	}
	defer redisCache.Close()

	redisPublisher := publisher.NewFromClient(redisCache.Client())

	opts := []provider.Option{provider.WithPayloadCache(redisCache)}
	if cfg.EnableRenderedHTML {
		opts = append(opts, provider.WithRenderer(provider.NewRenderer()))
	}
	fetcher := provider.New(cfg.ProviderBaseURL, cfg.FetchTimeout, opts...)
	defer fetcher.Close()

	location, err := time.LoadLocation(cfg.ReferenceTimezone)
	if err != nil {
		log.WithError(err).Warnf("unknown timezone %q, using UTC", cfg.ReferenceTimezone)
		location = time.UTC
	}

	hub := websocket.NewHub()
	wsServer := websocket.NewServer(hub)

	orch := scheduler.New(
		fetcher,
		repository.NewRosterRepository(db),
		repository.NewScoreRepository(db),
		repository.NewGameRepository(db),
		redisCache,
		redisPublisher,
		hub,
		&scheduler.Config{
			LeagueID:          1,
			PollInterval:      cfg.PollInterval,
			Workers:           cfg.PassWorkers,
			EnableLivePolling: cfg.EnableLivePolling,
			RolloverSchedule:  cfg.RolloverSchedule,
			Location:          location,
		},
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go orch.Start(ctx)

	restServer := rest.NewServer(cfg.RESTPort, db, orch)
	go func() {
		log.Infof("REST API server listening on :%s", cfg.RESTPort)
		if err := restServer.Start(); err != nil {
			log.WithError(err).Error("REST server stopped")
		}
	}()

	go func() {
		if err := wsServer.Start(cfg.WSPort); err != nil {
			log.WithError(err).Error("websocket server stopped")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down")

	cancel()
	orch.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("REST server shutdown error")
	}
	if err := wsServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("websocket server shutdown error")
	}

	log.Infof("%s stopped", serviceName)
}
