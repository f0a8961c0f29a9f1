package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"silant-backend/config"
	"silant-backend/internal/api"
	"silant-backend/internal/auth"
	"silant-backend/internal/db"
	"silant-backend/internal/logging"
	"silant-backend/internal/service"
	"silant-backend/internal/store"
)

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()
	logger.Info("configuration loaded", zap.String("path", configPath))

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
	logger.Info("server gracefully stopped")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	gormDB, err := db.Init(&cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	logger.Info("database initialized", zap.String("driver", cfg.Database.Driver))
	defer closeDB(gormDB, logger)

	appStore := store.NewGormStore(gormDB)
	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	svc := service.New(appStore, tokens, logger)

	if cfg.Bootstrap.ManagerUsername != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		created, err := svc.EnsureManager(ctx, cfg.Bootstrap.ManagerUsername, cfg.Bootstrap.ManagerPassword)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to create bootstrap manager: %w", err)
		}
		if !created {
			logger.Info("bootstrap manager already exists", zap.String("username", cfg.Bootstrap.ManagerUsername))
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(svc, appStore, tokens, api.Options{
		Server:   cfg.Server,
		Logger:   logger,
		Registry: reg,
	})
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("HTTP server ListenAndServe: %w", err)
		}
		return nil
	case sig := <-stop:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server Shutdown: %w", err)
	}
	return nil
}

func closeDB(gormDB *gorm.DB, logger *zap.Logger) {
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Error("failed to get sql.DB for close", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("failed to close database", zap.Error(err))
		return
	}
	logger.Info("database closed")
}
