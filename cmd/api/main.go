package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"caravanshare/internal/api"
	"caravanshare/internal/config"
	"caravanshare/internal/database"
	"caravanshare/internal/domain"
	"caravanshare/internal/events"
	"caravanshare/internal/logging"
	"caravanshare/internal/metrics"
	"caravanshare/internal/repository"
	"caravanshare/internal/seed"
	"caravanshare/internal/service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	db, err := database.NewDBWithTimeout(cfg.Database.Path, cfg.Database.BusyTimeoutMS, &logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient := initRedis(ctx, cfg, &logger)
	if redisClient != nil {
		defer func() { _ = repository.Close(redisClient) }()
	}
	lookupCache := initLookupCache(cfg, redisClient, &logger)

	eventBus := events.NewEventBus()
	subscribeDomainEvents(eventBus, &logger)

	services := api.Services{
		Users:         service.NewUserService(db, &logger),
		Caravans:      service.NewCaravanService(db, &logger),
		Reservations:  service.NewReservationService(db, lookupCache, eventBus, cfg.Booking, &logger),
		Payments:      service.NewPaymentService(db, lookupCache, eventBus, &logger),
		Reviews:       service.NewReviewService(db, eventBus, cfg.Reviews.RequireConfirmedStay, &logger),
		LookupLimiter: lookupCache,
		Ready:         db.PingContext,
	}

	if err := applyFixtures(ctx, cfg, db, services, &logger); err != nil {
		return err
	}

	if cfg.Backup.Enabled {
		backupService := database.NewBackupService(db, cfg.Database.Path, cfg.Backup, &logger)
		go backupService.Start(ctx)
	}

	startMetrics(ctx, cfg, &logger)

	httpServer := api.NewHTTPServer(cfg.HTTP, services, &logger)
	return startServer(ctx, httpServer, cfg, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

func initRedis(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := repository.Ping(pingCtx, redisClient); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing with in-memory lookup cache")
		_ = redisClient.Close()
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

// initLookupCache отдает Redis с резервом в памяти либо только память
func initLookupCache(cfg *config.Config, redisClient *redis.Client, logger *zerolog.Logger) domain.LookupCache {
	ttl := time.Duration(cfg.Redis.LookupTTLSeconds) * time.Second
	memory := repository.NewMemoryLookupCache(ttl)
	if redisClient == nil {
		return memory
	}
	return repository.NewFailoverLookupCache(repository.NewRedisLookupCache(redisClient, ttl), memory, logger)
}

func applyFixtures(ctx context.Context, cfg *config.Config, db *database.DB, services api.Services, logger *zerolog.Logger) error {
	if cfg.Seed.FixturesPath == "" {
		return nil
	}

	fixtures, err := seed.Load(cfg.Seed.FixturesPath)
	if err != nil {
		logger.Error().Err(err).Str("fixtures_path", cfg.Seed.FixturesPath).Msg("load fixtures")
		return err
	}
	if _, err := seed.NewSeeder(services.Users, db, services.Caravans, logger).Apply(ctx, fixtures); err != nil {
		logger.Error().Err(err).Msg("apply fixtures")
		return err
	}
	return nil
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startServer(ctx context.Context, httpServer *api.HTTPServer, cfg *config.Config, logger *zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start()
	}()

	logger.Info().Int("http_port", cfg.HTTP.Port).Msg("API server started")

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("http server stopped")
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("http server shutdown")
	}

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
