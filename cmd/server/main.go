package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlbertoMK/tier-app/internal/config"
	"github.com/AlbertoMK/tier-app/internal/database"
	"github.com/AlbertoMK/tier-app/internal/handlers"
	"github.com/AlbertoMK/tier-app/internal/repositories"
	"github.com/AlbertoMK/tier-app/internal/security"
	"github.com/AlbertoMK/tier-app/internal/services"
	"github.com/AlbertoMK/tier-app/pkg/logger"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("APP_ENV"))
	defer logger.Sync()

	logger.Info("Starting tier API server...")

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", err)
	}

	if cfg.AppEnv == "production" {
		if err := cfg.ValidateProductionSecurity(); err != nil {
			logger.Fatal("Production security validation failed", err)
		}
		logger.Info("Production security validation passed")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	if cfg.SeedExercise {
		if err := database.SeedExercises(db); err != nil {
			logger.Warn("Failed to seed exercises", "error", err)
		}
	}

	userRepo := repositories.NewUserRepository(db)
	friendRepo := repositories.NewFriendRepository(db)
	routineRepo := repositories.NewRoutineRepository(db)
	exerciseRepo := repositories.NewExerciseRepository(db)

	tokens := security.NewTokenService(cfg.JWTSecret, cfg.GetTokenTTL())

	userSvc := services.NewUserService(userRepo, tokens)
	friendSvc := services.NewFriendService(userRepo, friendRepo)
	routineSvc := services.NewRoutineService(routineRepo, exerciseRepo, friendSvc)

	h := handlers.NewHandlerManager(userSvc, friendSvc, routineSvc)

	srv := &http.Server{
		Addr:         cfg.GetListenAddr(),
		Handler:      h.Router(),
		ReadTimeout:  cfg.GetReadTimeout(),
		WriteTimeout: cfg.GetWriteTimeout(),
	}

	go func() {
		logger.Info("HTTP server listening", "addr", srv.Addr, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeout())
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("Server stopped")
}
