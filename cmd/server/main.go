// backend/cmd/server/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ayash-Bera/kuna/backend/internal/api"
	"github.com/Ayash-Bera/kuna/backend/internal/auth"
	"github.com/Ayash-Bera/kuna/backend/internal/config"
	"github.com/Ayash-Bera/kuna/backend/internal/database"
	"github.com/Ayash-Bera/kuna/backend/internal/health"
	"github.com/Ayash-Bera/kuna/backend/internal/matching"
	"github.com/Ayash-Bera/kuna/backend/internal/middleware"
	"github.com/Ayash-Bera/kuna/backend/internal/migration"
	"github.com/Ayash-Bera/kuna/backend/internal/repository"
	"github.com/Ayash-Bera/kuna/backend/internal/services"
	"github.com/Ayash-Bera/kuna/backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var sqlDir = flag.String("sql-dir", "", "Directory of extra .sql migrations to run at startup")

func main() {
	flag.Parse()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := utils.NewLogger(cfg.Log.Level)
	if cfg.UsesDefaultSecret() {
		logger.Warn("SECRET_KEY is not set, tokens are signed with the built-in development key. Set SECRET_KEY before deploying.")
	}
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	dbManager, err := database.NewManager(&database.Config{
		DatabaseURL: cfg.Database.URL,
		RedisURL:    cfg.Redis.URL,
		LogLevel:    cfg.Log.Level,
	}, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database manager")
	}
	defer dbManager.Close()

	if err := migration.NewRunner(dbManager.DB, logger).RunMigrations(*sqlDir); err != nil {
		logger.WithError(err).Fatal("Failed to run migrations")
	}

	repoManager := repository.NewRepositoryManager(dbManager.DB)

	tokens := auth.NewTokenManager(cfg.Auth.SecretKey, cfg.Auth.TokenTTL)
	provider := auth.NewStaticProvider(cfg.Auth.AdminEmail, cfg.Auth.AdminName, cfg.Auth.AdminPasswordHash)
	authService := auth.NewService(provider, tokens, logger)

	var counter middleware.AttemptCounter
	if dbManager.Redis != nil {
		counter = middleware.NewRedisCounter(dbManager.Redis)
		logger.Info("Login throttle backed by Redis")
	} else {
		memory := middleware.NewMemoryCounter()
		defer memory.Close()
		counter = memory
	}

	router := api.NewRouter(api.Dependencies{
		Questionnaire: services.NewQuestionnaireService(
			repoManager,
			matching.NewDefaultService(logger),
			matching.DefaultModels,
			logger,
		),
		Therapists:     services.NewTherapistService(repoManager, logger),
		Admin:          services.NewAdminService(repoManager, logger),
		Auth:           authService,
		Health:         health.NewHealthChecker(dbManager, logger),
		LoginLimiter:   middleware.NewRateLimiter(counter, cfg.RateLimit.LoginPerMinute, logger),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Logger:         logger,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.WithFields(logrus.Fields{
			"port":    cfg.Server.Port,
			"origins": cfg.CORS.AllowedOrigins,
		}).Info("Kuna API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Graceful shutdown failed")
	}
	logger.Info("Server stopped")
}
