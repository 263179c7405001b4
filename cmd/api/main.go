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

	"rozgaarsetu/internal/api"
	"rozgaarsetu/internal/config"
	"rozgaarsetu/internal/database"
	"rozgaarsetu/internal/domain"
	"rozgaarsetu/internal/events"
	"rozgaarsetu/internal/google"
	"rozgaarsetu/internal/logging"
	"rozgaarsetu/internal/metrics"
	"rozgaarsetu/internal/models"
	"rozgaarsetu/internal/notify"
	"rozgaarsetu/internal/repository"
	"rozgaarsetu/internal/service"
	"rozgaarsetu/internal/worker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
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

	categories, services, err := loadCatalog(&logger)
	if err != nil {
		return err
	}

	db, err := initDatabase(cfg, categories, services, &logger)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	sessions := initSessions(redisClient, &logger)
	sheetsService := initGoogleSheets(cfg, &logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sheetsWorker domain.SyncWorker
	if sheetsService != nil {
		sw := worker.NewSheetsWorker(db, sheetsService, redisClient, worker.RetryPolicy{}, &logger)
		go sw.Start(ctx)
		sheetsWorker = sw
	}

	eventBus := events.NewEventBus()
	startNotifier(ctx, cfg, db, eventBus, &logger)

	bookingService := service.NewBookingService(db, eventBus, sheetsWorker, &logger)
	catalogService := service.NewCatalogService(db, &logger)
	userService := service.NewUserService(db, sessions, &logger)
	jobService := service.NewJobService(db, &logger)

	if cfg.Backup.Enabled {
		backup := database.NewBackupService(cfg.Database.Path, cfg.Backup, &logger)
		go backup.Start(ctx)
	}

	auth := api.NewJWTAuth(cfg.Auth, cfg.API.RateLimit, sessions)
	httpServer := api.NewHTTPServer(cfg.API, auth, bookingService, catalogService, userService, jobService, &logger)

	startMetrics(ctx, cfg, &logger)

	return startServer(ctx, httpServer, &logger)
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

func loadCatalog(logger *zerolog.Logger) ([]models.ServiceCategory, []models.Service, error) {
	catalogPath := os.Getenv("CATALOG_PATH")
	if catalogPath == "" {
		catalogPath = "configs/catalog.yaml"
	}
	catalogData, err := os.ReadFile(catalogPath)
	if err != nil {
		logger.Error().Err(err).Str("catalog_path", catalogPath).Msg("read catalog")
		return nil, nil, err
	}

	var catalog struct {
		Categories []models.ServiceCategory `yaml:"categories"`
		Services   []models.Service         `yaml:"services"`
	}
	if err := yaml.Unmarshal(catalogData, &catalog); err != nil {
		logger.Error().Err(err).Str("catalog_path", catalogPath).Msg("parse catalog")
		return nil, nil, err
	}

	if err := config.ValidateCatalog(catalog.Categories, catalog.Services); err != nil {
		logger.Error().Err(err).Str("catalog_path", catalogPath).Msg("validate catalog")
		return nil, nil, err
	}

	return catalog.Categories, catalog.Services, nil
}

func initDatabase(cfg *config.Config, categories []models.ServiceCategory, services []models.Service, logger *zerolog.Logger) (*database.DB, error) {
	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.SeedCatalog(ctx, categories, services); err != nil {
		logger.Error().Err(err).Msg("seed catalog")
		db.Close()
		return nil, err
	}
	return db, nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(context.Background(), redisClient); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

// initSessions prefers redis with an in-memory fallback; without redis the
// in-memory repository serves alone.
func initSessions(redisClient *redis.Client, logger *zerolog.Logger) domain.SessionRepository {
	memory := repository.NewMemorySessionRepository(models.DefaultSessionTTL * time.Second)
	if redisClient == nil {
		return memory
	}

	primary := repository.NewRedisSessionRepository(redisClient, models.DefaultSessionTTL*time.Second)
	return repository.NewFailoverSessionRepository(primary, memory, logger)
}

func initGoogleSheets(cfg *config.Config, logger *zerolog.Logger) *google.SheetsService {
	if !cfg.Google.Enabled || cfg.Google.GoogleCredentialsFile == "" || cfg.Google.BookingSpreadSheetID == "" {
		return nil
	}

	sheetsService, err := google.NewSheetsService(
		cfg.Google.GoogleCredentialsFile,
		cfg.Google.BookingSpreadSheetID,
	)
	if err != nil {
		logger.Warn().Err(err).Msg("google sheets init failed, continuing without sheets")
		return nil
	}

	logger.Info().Msg("google sheets connected")
	return sheetsService
}

func startNotifier(ctx context.Context, cfg *config.Config, db *database.DB, bus *events.EventBus, logger *zerolog.Logger) {
	if !cfg.Telegram.Enabled || cfg.Telegram.BotToken == "" {
		return
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Warn().Err(err).Msg("telegram init failed, continuing without notifications")
		return
	}
	botAPI.Debug = cfg.Telegram.Debug

	notifier := notify.NewTelegramNotifier(botAPI, db, logger)
	notifier.SubscribeAll(bus)
	go notifier.Run(ctx)
	logger.Info().Str("bot", botAPI.Self.UserName).Msg("telegram notifier started")
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

func startServer(ctx context.Context, httpServer *api.HTTPServer, logger *zerolog.Logger) error {
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpServer.Shutdown(shutdownCtx)

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
