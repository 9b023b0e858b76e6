package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/voltprep/revision-service/internal/bank"
	"github.com/voltprep/revision-service/internal/config"
	"github.com/voltprep/revision-service/internal/handlers"
	"github.com/voltprep/revision-service/internal/progress"
	"github.com/voltprep/revision-service/internal/quiz"
	"github.com/voltprep/revision-service/internal/services"
	"github.com/voltprep/revision-service/internal/utils"
)

const sweepInterval = 10 * time.Minute

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
		gin.SetMode(gin.ReleaseMode)
	} else {
		logger = utils.NewDevelopmentLogger()
	}
	slogger := logger.(*utils.SlogLogger).Slog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kvStore, err := cfg.CreateStore(ctx, slogger)
	if err != nil {
		logger.LogError(err, "Failed to create progress store")
		os.Exit(1)
	}
	defer kvStore.Close()

	banks, err := bank.Load(logger)
	if err != nil {
		logger.LogError(err, "Failed to load question banks")
		os.Exit(1)
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		logger.LogError(err, "Failed to create event publisher")
		os.Exit(1)
	}
	defer publisher.Close()

	store := progress.NewStore(kvStore, logger)
	validator := utils.NewValidator()
	engine := quiz.NewEngine()

	sessionService := services.NewSessionService(banks, store, engine, publisher, logger, validator)
	progressService := services.NewProgressService(banks, store, logger)
	bankService := services.NewBankService(banks, store, logger)

	router := gin.New()
	router.Use(gin.Recovery())

	hm := handlers.NewHandlerManager(bankService, sessionService, progressService, store, logger)
	hm.SetupRoutes(router, cfg.AllowedOrigins)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sessionService.SweepIdle()
			}
		}
	}()

	go func() {
		logger.Info("Starting revision service",
			"port", cfg.Port,
			"environment", cfg.Environment,
			"storage_backend", cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.LogError(err, "HTTP server failed")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.LogError(err, "Graceful shutdown failed")
	}
}
