package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/poolside/bracket-pool/brackets"
	"github.com/poolside/bracket-pool/config"
	"github.com/poolside/bracket-pool/db"
	"github.com/poolside/bracket-pool/handlers"
	"github.com/poolside/bracket-pool/repositories"
	api "github.com/poolside/bracket-pool/routes"
	"github.com/poolside/bracket-pool/services"
	"github.com/poolside/bracket-pool/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.Int("pool_id", cfg.PoolID))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	// Snapshot storage is optional; without R2 credentials winner commits
	// simply skip archival.
	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Info("snapshot storage not configured, archival disabled")
	}

	wsHub := brackets.NewHub(logger)
	go wsHub.Run()

	poolRepo := repositories.NewPostgresPoolRepository(dbConn)
	gameRepo := repositories.NewPostgresGameRepository(dbConn)
	pickRepo := repositories.NewPostgresPickRepository(dbConn)
	potentialRepo := repositories.NewPostgresPotentialWinnerRepository(dbConn)
	roundRepo := repositories.NewPostgresRoundRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	regionRepo := repositories.NewPostgresRegionRepository(dbConn)
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	logRepo := repositories.NewPostgresLogRepository(dbConn)

	standingsService := services.NewStandingsService(dbConn, gameRepo, pickRepo, roundRepo, teamRepo, userRepo, logRepo, logger)

	var snapshotService services.SnapshotService
	if uploader != nil {
		snapshotService = services.NewSnapshotService(gameRepo, teamRepo, roundRepo, standingsService, uploader, logger)
	}

	seedService := services.NewSeedService(dbConn, gameRepo, potentialRepo, logRepo, logger)
	pickService := services.NewPickService(dbConn, gameRepo, pickRepo, teamRepo, userRepo, logRepo, standingsService, cfg.PickDeadline, logger)
	resultService := services.NewResultService(dbConn, gameRepo, teamRepo, potentialRepo, logRepo, standingsService, snapshotService, wsHub, logger)
	adminService := services.NewAdminService(dbConn, teamRepo, regionRepo, logRepo, logger)
	logger.Info("services initialized")

	gameHandler := handlers.NewGameHandler(poolRepo, gameRepo, seedService)
	pickHandler := handlers.NewPickHandler(pickService)
	winnerHandler := handlers.NewWinnerHandler(resultService)
	standingsHandler := handlers.NewStandingsHandler(standingsService)
	adminHandler := handlers.NewAdminHandler(adminService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, logger)

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.JWTSecretKey,
		gameHandler,
		pickHandler,
		winnerHandler,
		standingsHandler,
		adminHandler,
		webSocketHandler,
	)
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

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
}
