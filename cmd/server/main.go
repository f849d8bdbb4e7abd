package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kizuna-chat/kizuna-server/internal/config"
	"github.com/kizuna-chat/kizuna-server/internal/handlers"
	"github.com/kizuna-chat/kizuna-server/internal/i18n"
	"github.com/kizuna-chat/kizuna-server/internal/middleware"
	"github.com/kizuna-chat/kizuna-server/internal/services/ai"
	"github.com/kizuna-chat/kizuna-server/internal/services/cache"
	"github.com/kizuna-chat/kizuna-server/internal/services/storage"
	"github.com/kizuna-chat/kizuna-server/pkg/logger"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	envFile := flag.String("env", ".env", "Path to .env file")
	flag.Parse()

	// Load .env file if exists
	if err := godotenv.Load(*envFile); err != nil {
		fmt.Printf("Warning: .env file not found: %v\n", err)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(&cfg.Logging)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.Info("Starting Kizuna analysis server...")

	// Initialize storage
	storageManager, err := storage.NewManager(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize storage")
	}

	// Initialize AI analysis stack. A missing credential degrades the
	// service to fallback responses rather than stopping the server.
	gateway := ai.NewOpenAIGateway(&cfg.AI, log)
	aiService := ai.NewService(gateway, log)

	cacheService := cache.NewCache(cfg, log)
	rateLimiter := middleware.NewRateLimiter(cfg, log)
	metrics := middleware.NewMetrics()

	localizer, err := i18n.NewLocalizer(&cfg.I18n)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize i18n")
	}

	// Start metrics server if enabled
	if cfg.Monitoring.Metrics.Enabled {
		go func() {
			log.WithFields(logrus.Fields{
				"port": cfg.Monitoring.Metrics.Port,
				"path": cfg.Monitoring.Metrics.Path,
			}).Info("Starting metrics server")

			if err := middleware.StartMetricsServer(cfg.Monitoring.Metrics.Port, cfg.Monitoring.Metrics.Path); err != nil {
				log.WithError(err).Error("Metrics server failed")
			}
		}()
	}

	aiHandler := handlers.NewAIHandler(aiService, storageManager, cacheService, rateLimiter, localizer, metrics, log)
	contextHandler := handlers.NewContextHandler(storageManager, localizer, log)
	historyHandler := handlers.NewHistoryHandler(storageManager, localizer, log)

	router := handlers.NewRouter(aiHandler, contextHandler, historyHandler, log)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.WithFields(logrus.Fields{
			"port":         cfg.Server.Port,
			"ai_available": aiService.IsAvailable(),
		}).Info("HTTP server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}

	log.Info("Server stopped")
}
