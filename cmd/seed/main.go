package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/unityguilds/hub/internal/content"
	"github.com/unityguilds/hub/internal/db"
	"github.com/unityguilds/hub/internal/guilds"
	"github.com/unityguilds/hub/internal/seed"
	"github.com/unityguilds/hub/pkg/config"
	"github.com/unityguilds/hub/pkg/logging"
)

func main() {
	guildFlag := pflag.StringSlice("guild", guilds.GameGuilds(), "guilds to reseed")
	skipContent := pflag.Bool("skip-content", false, "leave guild content untouched")
	skipGames := pflag.Bool("skip-games", false, "do not create Guildie Games months")
	resetGames := pflag.Bool("reset-games", false, "delete every month and score before seeding games")
	resetSettings := pflag.Bool("reset-settings", false, "drop stored settings of the seeded guilds")
	promote := pflag.String("promote", "", "Discord user id to grant super_admin")
	pflag.Parse()

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
	logger.Info("Starting Unity Guilds seeder")

	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo := db.NewRepository(database.DB)
	seeder := seed.New(
		content.NewRepositories(repo),
		db.NewGamesRepository(repo),
		db.NewUserRepository(repo),
		db.NewSettingsRepository(repo),
	)

	if !*skipContent {
		results, err := seeder.Guilds(ctx, *guildFlag)
		if err != nil {
			logger.Fatal("Failed to seed guilds", zap.Error(err))
		}
		logger.Info("Guild content seeded", zap.Any("results", results))
	}

	if *resetSettings {
		if err := seeder.ResetSettings(ctx, *guildFlag); err != nil {
			logger.Fatal("Failed to reset settings", zap.Error(err))
		}
	}

	if *resetGames {
		if err := seeder.ResetGames(ctx); err != nil {
			logger.Fatal("Failed to reset games", zap.Error(err))
		}
	}

	if !*skipGames {
		created, err := seeder.Games(ctx)
		if err != nil {
			logger.Fatal("Failed to seed games", zap.Error(err))
		}
		logger.Info("Games seeded", zap.Int("months_created", created))
	}

	if *promote != "" {
		if err := seeder.Promote(ctx, *promote); err != nil {
			logger.Fatal("Failed to promote user", zap.String("discord_id", *promote), zap.Error(err))
		}
	}

	logger.Info("Seeder finished")
}
