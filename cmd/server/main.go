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

	"github.com/playday/tournament-organizer/config"
	"github.com/playday/tournament-organizer/db"
	"github.com/playday/tournament-organizer/distributor"
	"github.com/playday/tournament-organizer/handlers"
	"github.com/playday/tournament-organizer/repositories"
	api "github.com/playday/tournament-organizer/routes"
	"github.com/playday/tournament-organizer/services"
	"github.com/playday/tournament-organizer/storage"
)

// @title Tournament Organizer API
// @version 1.0
// @description Турниры, ростер игроков и генерация команд.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.Bool("r2_enabled", cfg.R2.Enabled()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Подключение к базе данных
	dbConn, err := db.Connect(ctx, cfg.DatabaseURL, cfg.DBConnectTimeout)
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

	if err := db.EnsureSchema(ctx, dbConn); err != nil {
		logger.Error("failed to apply schema", slog.Any("error", err))
		os.Exit(1)
	}

	// Загрузчик логотипов (Cloudflare R2). Без конфигурации загрузка отключена.
	var uploader storage.FileUploader
	if cfg.R2.Enabled() {
		uploader, err = storage.NewR2Uploader(ctx, storage.R2Config{
			AccountID:       cfg.R2.AccountID,
			AccessKeyID:     cfg.R2.AccessKeyID,
			SecretAccessKey: cfg.R2.SecretAccessKey,
			BucketName:      cfg.R2.BucketName,
			PublicBaseURL:   cfg.R2.PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("R2 is not configured, logo uploads are disabled")
	}

	// Распределитель команд
	var distOpts []distributor.Option
	if cfg.DistributorSeed != nil {
		distOpts = append(distOpts, distributor.WithSource(distributor.NewSource(*cfg.DistributorSeed)))
		logger.Warn("team distributor uses a fixed seed", slog.Int64("seed", *cfg.DistributorSeed))
	}
	teamDistributor := distributor.New(distOpts...)

	// Инициализация репозиториев
	txRunner := repositories.NewTxRunner(dbConn)
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	adminRepo := repositories.NewPostgresAdminRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	categoryRepo := repositories.NewPostgresCategoryRepository(dbConn)
	announcementRepo := repositories.NewPostgresAnnouncementRepository(dbConn)
	logger.Info("Repositories initialized")

	// Инициализация сервисов
	userService := services.NewUserService(userRepo)
	dashboardService := services.NewDashboardService(tournamentRepo)
	tournamentService := services.NewTournamentService(
		tournamentRepo,
		adminRepo,
		playerRepo,
		teamRepo,
		announcementRepo,
		categoryRepo,
		txRunner,
		uploader,
		logger,
	)
	teamService := services.NewTeamService(
		tournamentRepo,
		adminRepo,
		playerRepo,
		teamRepo,
		categoryRepo,
		txRunner,
		teamDistributor,
		uploader,
		logger,
	)
	playerService := services.NewPlayerService(tournamentRepo, adminRepo, playerRepo, teamRepo, txRunner, logger)
	adminService := services.NewAdminService(tournamentRepo, adminRepo, playerRepo, userRepo, logger)
	announcementService := services.NewAnnouncementService(tournamentRepo, adminRepo, playerRepo, announcementRepo)
	categoryService := services.NewCategoryService(tournamentRepo, adminRepo, playerRepo, categoryRepo)
	logger.Info("Services initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Health:       handlers.NewHealthHandler(dbConn),
		User:         handlers.NewUserHandler(userService),
		Dashboard:    handlers.NewDashboardHandler(dashboardService),
		Tournament:   handlers.NewTournamentHandler(tournamentService),
		Team:         handlers.NewTeamHandler(teamService),
		Player:       handlers.NewPlayerHandler(playerService),
		Admin:        handlers.NewAdminHandler(adminService),
		Announcement: handlers.NewAnnouncementHandler(announcementService),
		Category:     handlers.NewCategoryHandler(categoryService),
	}, api.Options{
		JWTSecret:      []byte(cfg.JWTSecretKey),
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 40 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case <-ctx.Done():
		logger.Info("shutdown signal received")
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

func parseLevel(level string) slog.Level {
	switch level {
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
