// main.go
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"salon-calendar/cmd"
	"salon-calendar/internal/calendar"
	"salon-calendar/internal/data/feed"
	"salon-calendar/internal/data/repository"
	"salon-calendar/internal/wire"
	"salon-calendar/pkg/database"
	"salon-calendar/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.Name, config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.String("timezone", config.App.Timezone),
		zap.String("feed", config.Feed.Driver),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.InitDB(ctx, config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Change feed
	sub, err := feed.New(config.Feed, db, logger)
	if err != nil {
		logger.Fatal("Failed to create change feed", zap.Error(err))
	}
	defer sub.Close()

	// Wire all dependencies
	app := wire.Wiring(ctx, repos, config, logger,
		wire.ReadyCheck{Name: "postgres", Check: db.Ping},
		wire.ReadyCheck{Name: sub.Name(), Check: sub.Check},
	)

	if err := app.Service.Calendar.Start(ctx); err != nil {
		logger.Error("Calendar started without professionals", zap.Error(err))
	}

	events := make(chan calendar.ChangeEvent, 16)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return cmd.APIServer(gctx, app.Router, config.App.Port, logger)
	})
	g.Go(func() error {
		defer close(events)
		return sub.Run(gctx, events)
	})
	g.Go(func() error {
		app.Service.Calendar.Run(gctx, events)
		return nil
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		logger.Error("Application stopped with error", zap.Error(err))
		return
	}
	logger.Info("Application stopped")
}
