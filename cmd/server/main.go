package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bobby-s-dev/smhi-warnings/internal/api"
	"github.com/bobby-s-dev/smhi-warnings/internal/config"
	"github.com/bobby-s-dev/smhi-warnings/internal/models"
	"github.com/bobby-s-dev/smhi-warnings/internal/observability"
	"github.com/bobby-s-dev/smhi-warnings/internal/services"
	"github.com/bobby-s-dev/smhi-warnings/internal/settings"
	"github.com/bobby-s-dev/smhi-warnings/pkg/client"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Initialize logger
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = level
	logger, _ := zapConfig.Build()
	defer logger.Sync()

	zap.ReplaceGlobals(logger)
	logger.Info("Starting SMHI Warnings Service")

	ctx := context.Background()

	// Load configuration
	cfg, err := config.LoadConfig(ctx)
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logger.Warn("Invalid log level, keeping info", zap.String("level", cfg.LogLevel))
	}

	backend, err := newPreferenceBackend(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize preference backend", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	prefs := settings.Load(ctx, backend, logger, metrics)

	smhi := client.NewSMHIClient(cfg.SMHI.WarningsURL, client.ClientConfig{
		Timeout:        cfg.SMHI.Timeout,
		MaxRetries:     cfg.SMHI.MaxRetries,
		RetryDelay:     cfg.SMHI.RetryDelay,
		Multiplier:     cfg.SMHI.RetryMultiplier,
		Threshold:      cfg.CircuitBreaker.Threshold,
		BreakerTimeout: cfg.CircuitBreaker.Timeout,
	}, logger)

	normalizer := services.NewNormalizer(clockwork.NewRealClock())
	national := services.NewNationalScreen(smhi, normalizer, logger, metrics)
	local := services.NewLocalScreen(smhi, normalizer, prefs.County(), logger, metrics)
	prefs.Subscribe(func(p models.Preferences) {
		local.SetCounty(p.County)
	})

	screens, stopScreens := context.WithCancel(ctx)
	national.Mount(screens)
	local.Mount(screens)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: api.ErrorHandler,
	})

	handler := api.NewHandler(national, local, prefs, cfg.WaitTimeout, logger)
	api.SetupRoutes(app, handler)

	// Start server in goroutine
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Info("Starting server", zap.String("address", addr))

		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}

	national.Unmount()
	local.Unmount()
	stopScreens()

	if err := backend.Close(); err != nil {
		logger.Error("Failed to close preference backend", zap.Error(err))
	}

	logger.Info("Server stopped")
}

func newPreferenceBackend(ctx context.Context, cfg *config.Config) (settings.Backend, error) {
	if cfg.Preferences.Backend == config.BackendRedis {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			zap.L().Warn("Redis not reachable at startup, stored preferences fall back to defaults",
				zap.String("address", cfg.Redis.Address),
				zap.Error(err))
		}
		return settings.NewRedisBackend(rdb, cfg.Redis.KeyPrefix), nil
	}
	return settings.NewFileBackend(cfg.Preferences.Path)
}
