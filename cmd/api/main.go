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

	"bookyard/internal/api"
	"bookyard/internal/auth"
	"bookyard/internal/cache"
	"bookyard/internal/config"
	"bookyard/internal/database"
	"bookyard/internal/logging"
	"bookyard/internal/metrics"
	"bookyard/internal/models"
	"bookyard/internal/payments"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
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
		defer func() { _ = closer.Close() }()
	}

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	if err := seedCategories(cfg, db, &logger); err != nil {
		return err
	}

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	cacheTTL := time.Duration(cfg.Redis.CacheTTLSec) * time.Second
	categoryCache := cache.NewCategoryCache(db, redisClient, cacheTTL, &logger)

	tokens := newTokenManager(cfg)
	intents := initPayments(cfg, &logger)

	server := api.NewServer(cfg, db, tokens, intents, categoryCache, &logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startMetrics(ctx, cfg, &logger)

	return serve(ctx, server, cfg, &logger)
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

func seedCategories(cfg *config.Config, db *database.DB, logger *zerolog.Logger) error {
	data, err := os.ReadFile(cfg.Categories.Path)
	if err != nil {
		logger.Error().Err(err).Str("categories_path", cfg.Categories.Path).Msg("read categories")
		return err
	}

	var categoriesFile struct {
		Categories []models.Category `yaml:"categories"`
	}
	if err := yaml.Unmarshal(data, &categoriesFile); err != nil {
		logger.Error().Err(err).Str("categories_path", cfg.Categories.Path).Msg("parse categories")
		return err
	}

	if err := config.ValidateCategories(categoriesFile.Categories); err != nil {
		return err
	}

	if err := db.SeedCategories(context.Background(), categoriesFile.Categories); err != nil {
		return err
	}
	logger.Info().Int("count", len(categoriesFile.Categories)).Msg("categories seeded")
	return nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

func newTokenManager(cfg *config.Config) *auth.Manager {
	ttl := time.Duration(cfg.Auth.TokenTTLHours) * time.Hour
	return auth.NewManager(cfg.Auth.JWTSecret, ttl)
}

func initPayments(cfg *config.Config, logger *zerolog.Logger) api.PaymentIntents {
	if cfg.Payments.StripeSecretKey == "" {
		logger.Warn().Msg("stripe secret key is empty, payment intents disabled")
		return nil
	}
	return payments.NewStripeClient(cfg.Payments.StripeSecretKey)
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

func serve(ctx context.Context, server *api.Server, cfg *config.Config, logger *zerolog.Logger) error {
	go func() {
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	logger.Info().Int("port", cfg.Server.Port).Msg("API server started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http server shutdown")
	}

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
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
