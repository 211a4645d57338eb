package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/growthplot/strategy-agent/internal/auth"
	"github.com/growthplot/strategy-agent/internal/config"
	"github.com/growthplot/strategy-agent/internal/httpapi"
	"github.com/growthplot/strategy-agent/internal/scheduler"
	"github.com/growthplot/strategy-agent/internal/store"
	"github.com/growthplot/strategy-agent/internal/strategist"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	if cfg.GeminiAPIKey == "" {
		logger.Fatal("GEMINI_API_KEY environment variable is required")
	}

	ctx := context.Background()
	generator, err := strategist.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger.Named("strategist"))
	if err != nil {
		logger.Fatal("failed to create Gemini client", zap.Error(err))
	}
	defer generator.Close()

	db, err := store.Open(cfg.DatabasePath, logger.Named("store"))
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer db.Close()

	sched := scheduler.New(generator, db, cfg.StaleAfter, cfg.ManualBatch, logger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	verifier := auth.NewEnvVerifier()
	handler := httpapi.NewHandler(generator, db, sched, logger.Named("http"))

	router := gin.Default()
	handler.Register(router, verifier)

	logger.Info("strategy agent starting",
		zap.String("port", cfg.Port),
		zap.Duration("stale_after", cfg.StaleAfter))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server failed to start", zap.Error(err))
	}
}
