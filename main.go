// main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trainer-booking/cmd"
	"trainer-booking/internal/data/memstore"
	"trainer-booking/internal/data/repository"
	"trainer-booking/internal/feed"
	"trainer-booking/internal/usecase"
	"trainer-booking/internal/wire"
	"trainer-booking/pkg/database"
	"trainer-booking/pkg/obs"
	"trainer-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.String("store", config.Store.Driver),
		zap.String("feed", config.Feed.Driver),
		zap.String("timezone", config.App.Timezone),
	)

	shutdownTracer, err := obs.InitTracer(ctx, config.Tracing, config.App.Name)
	if err != nil {
		logger.Fatal("Failed to init tracing", zap.Error(err))
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(flushCtx); err != nil {
			logger.Warn("Failed to flush traces", zap.Error(err))
		}
	}()

	repos, closeStore := openStore(ctx, config, logger)
	defer closeStore()

	events, err := feed.New(config.Feed, logger)
	if err != nil {
		logger.Fatal("Failed to open change feed", zap.Error(err))
	}
	defer events.Close()

	opts, err := usecase.OptionsFromConfig(config)
	if err != nil {
		logger.Fatal("Invalid booking options", zap.Error(err))
	}

	// Wire all dependencies
	app := wire.Wiring(repos, events, opts, config, logger)

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("HTTP server stopped", zap.Error(err))
	}
	logger.Info("Shutdown complete")
}

func openStore(ctx context.Context, config *utils.Config, logger *zap.Logger) (*repository.Repository, func()) {
	if config.Store.Driver == "memory" {
		logger.Warn("Using in-memory store; data is lost on restart")
		return memstore.New().Repository(), func() {}
	}

	db, err := database.InitDB(ctx, config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	logger.Info("Database connected successfully")

	if config.Database.AutoMigrate {
		if err := database.Migrate(ctx, config.Database, logger); err != nil {
			db.Close()
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	return repository.NewRepository(db, logger), db.Close
}
