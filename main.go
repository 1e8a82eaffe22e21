// main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"movie-booking/cmd"
	"movie-booking/internal/data/repository"
	"movie-booking/internal/usecase"
	"movie-booking/internal/wire"
	"movie-booking/pkg/broker"
	"movie-booking/pkg/database"
	"movie-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
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
		zap.String("checkout_flow", config.Checkout.Flow),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Checkout store: Redis kalau dikonfigurasi, selain itu in-memory
	var checkouts repository.CheckoutStore
	rdb, err := database.InitRedis(config.Redis)
	switch {
	case err != nil:
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	case rdb != nil:
		defer rdb.Close()
		checkouts = repository.NewRedisCheckoutStore(rdb, logger)
		logger.Info("Redis connected successfully", zap.String("addr", config.Redis.Addr))
	default:
		checkouts = repository.NewMemoryCheckoutStore(time.Now)
		logger.Warn("REDIS_ADDR not set, checkouts are kept in memory")
	}

	// Confirmation notices always go to the log, and to RabbitMQ when configured
	notifier := usecase.NewLogNotifier(logger)
	if config.Broker.URL != "" {
		notifier = usecase.NewMultiNotifier(
			notifier,
			usecase.NewQueueNotifier(broker.NewRabbitPublisher(config.Broker.URL, logger)),
		)
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, checkouts, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, notifier, config, logger)

	scheduler, err := cmd.Scheduler(app.Service, config.Availability.Cron, logger)
	if err != nil {
		logger.Fatal("Failed to start scheduler", zap.Error(err))
	}
	scheduler.Start()
	defer func() { <-scheduler.Stop().Done() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}

	// Confirmations still in flight get their own timeout
	app.Service.Checkout.WaitNotifications()
}
