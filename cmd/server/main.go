package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/unityguilds/hub/internal/api"
	"github.com/unityguilds/hub/internal/auth"
	"github.com/unityguilds/hub/internal/cache"
	"github.com/unityguilds/hub/internal/content"
	"github.com/unityguilds/hub/internal/db"
	"github.com/unityguilds/hub/internal/discord"
	"github.com/unityguilds/hub/internal/leaderboard"
	"github.com/unityguilds/hub/internal/search"
	"github.com/unityguilds/hub/pkg/config"
	"github.com/unityguilds/hub/pkg/logging"
	"github.com/unityguilds/hub/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()
	logger.Info("Starting Unity Guilds API Server", zap.String("environment", cfg.Server.Environment))

	// Initialize telemetry
	telemetryShutdown, err := telemetry.Init(&cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer telemetryShutdown()

	var metricsSrv *http.Server
	if cfg.Telemetry.PrometheusEnabled {
		metricsSrv = telemetry.ServeMetrics(cfg.Telemetry.PrometheusPort)
	}

	// Initialize database
	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	// Initialize Redis cache; a nil cache disables caching
	redisCache, err := cache.New(&cfg.Redis)
	if err != nil {
		logger.Warn("Redis unavailable, continuing without cache", zap.Error(err))
		redisCache = nil
	}
	defer redisCache.Close()

	sessions, err := auth.NewSessionCodec(cfg.Session, cfg.Server.Production())
	if err != nil {
		logger.Fatal("Failed to initialize sessions", zap.Error(err))
	}

	repo := db.NewRepository(database.DB)
	repos := content.NewRepositories(repo)
	discordClient := discord.NewClient(cfg.Discord, cfg.Server.SiteURL)
	resolver := auth.NewResolver(discordClient, discordClient, db.NewUserRepository(repo), cfg.Discord.SuperAdmins)

	apiRouter := api.NewRouter(api.Options{
		Database: database,
		Cache:    redisCache,
		Sessions: sessions,
		Login:    discordClient,
		Resolver: resolver,
		Content:  content.NewServices(repos, redisCache),
		Settings: content.NewSettingsService(db.NewSettingsRepository(repo), redisCache),
		Games:    leaderboard.NewService(db.NewGamesRepository(repo)),
		Search:   search.NewService(repos, redisCache),
		SiteURL:  cfg.Server.SiteURL,
		Location: cfg.Server.Location(),
	})

	// Create Gin router
	if cfg.Logging.Level == "DEBUG" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(logging.GinRecovery(logger))
	router.Use(logging.GinLogger(logger))
	if cfg.Telemetry.Enabled {
		router.Use(telemetry.GinTracing())
	}
	apiRouter.SetupRoutes(router)

	// Create HTTP server
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Server starting", zap.String("address", srv.Addr), zap.String("site_url", cfg.Server.SiteURL))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logger.Warn("Metrics server forced to shutdown", zap.Error(err))
		}
	}
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
