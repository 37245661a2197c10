package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/petalflow/assistant/config"
	"github.com/petalflow/assistant/internal/adapter/channel"
	"github.com/petalflow/assistant/internal/adapter/fulfillment"
	"github.com/petalflow/assistant/internal/adapter/nlu"
	"github.com/petalflow/assistant/internal/adapter/speech"
	"github.com/petalflow/assistant/internal/repository"
	"github.com/petalflow/assistant/internal/service"
	handler "github.com/petalflow/assistant/internal/transport/http"
	"github.com/petalflow/assistant/policy"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting assistant",
		zap.Int("http_port", cfg.HTTPPort),
		zap.String("database", cfg.DatabaseURL),
		zap.String("nlu_model", cfg.OpenAIModel))

	// Initialize session store
	store, err := repository.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to initialize store", zap.Error(err))
	}
	defer store.Close()

	// Initialize NLU backend (nil means keyword heuristics only)
	backend := nlu.NewBackend(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.NLUTimeout)
	if backend == nil {
		logger.Warn("No NLU backend configured, falling back to keyword heuristics")
	}

	// Initialize transcriber
	var transcriber speech.Transcriber
	if c := speech.NewClient(cfg.OpenAIAPIKey, cfg.STTModel, cfg.NLUTimeout); c != nil {
		transcriber = c
	} else {
		logger.Warn("No transcriber configured, voice messages will be refused")
	}

	// Initialize messaging channel client
	channelClient := channel.NewClient(cfg.ChannelBaseURL, cfg.ChannelPhoneID, cfg.ChannelAccessToken)

	// Initialize order fulfillment
	catalog := fulfillment.NewCatalog()

	// Initialize policy engine
	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		logger.Fatal("Failed to initialize policy engine", zap.Error(err))
	}

	// Initialize service
	svc := service.New(store, backend, transcriber, channelClient, catalog, policyEngine, cfg, logger)

	// Initialize handler
	h := handler.NewHandler(svc, cfg.WebhookVerifyToken, cfg.WebhookAppSecret, logger)

	// Create Echo server
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Register routes
	h.RegisterRoutes(e)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Assistant started", zap.Int("port", cfg.HTTPPort))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down assistant...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server gracefully", zap.Error(err))
	}

	logger.Info("Assistant stopped")
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}
