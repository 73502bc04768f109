package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/cricket-fixtures/config"
	"github.com/Dosada05/cricket-fixtures/db"
	"github.com/Dosada05/cricket-fixtures/handlers"
	"github.com/Dosada05/cricket-fixtures/repositories"
	api "github.com/Dosada05/cricket-fixtures/routes"
	"github.com/Dosada05/cricket-fixtures/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// Репозитории
	txRunner := repositories.NewSQLTxRunner(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	stageRepo := repositories.NewPostgresStageRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	sourceRepo := repositories.NewPostgresParticipantSourceRepository(dbConn)
	versionRepo := repositories.NewPostgresFixtureVersionRepository(dbConn)
	roundRepo := repositories.NewPostgresFixtureRoundRepository(dbConn)
	versionMatchRepo := repositories.NewPostgresVersionMatchRepository(dbConn)
	changeLogRepo := repositories.NewPostgresChangeLogRepository(dbConn)
	venueRepo := repositories.NewPostgresVenueRepository(dbConn)
	inningsRepo := repositories.NewPostgresInningsRepository(dbConn)
	logger.Info("repositories initialized")

	// Сервисы
	standingsService := services.NewStandingsService(stageRepo, matchRepo, tournamentRepo, inningsRepo)
	fixtureService := services.NewFixtureService(
		txRunner,
		tournamentRepo,
		stageRepo,
		matchRepo,
		sourceRepo,
		versionRepo,
		roundRepo,
		versionMatchRepo,
		changeLogRepo,
		venueRepo,
		standingsService,
		logger,
	)
	publishService := services.NewPublishService(
		txRunner,
		tournamentRepo,
		matchRepo,
		versionRepo,
		versionMatchRepo,
		changeLogRepo,
		logger,
	)
	stageService := services.NewStageService(txRunner, stageRepo, changeLogRepo, logger)
	logger.Info("services initialized")

	// HTTP-обработчики и маршруты
	fixtureHandler := handlers.NewFixtureHandler(fixtureService, publishService)
	standingsHandler := handlers.NewStandingsHandler(standingsService)
	stageHandler := handlers.NewStageHandler(stageService)

	router := chi.NewRouter()
	api.SetupRoutes(router, cfg.CORSOrigins, fixtureHandler, standingsHandler, stageHandler)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
