// main.go
package main

import (
	"context"
	"log"

	"cleaning-service/cmd"
	"cleaning-service/internal/data/repository"
	"cleaning-service/internal/usecase"
	"cleaning-service/internal/wire"
	"cleaning-service/pkg/database"
	"cleaning-service/pkg/mq"
	"cleaning-service/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if config.Database.Migrate {
		ctx := context.Background()
		if err := database.Migrate(ctx, db.Pool()); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
		if version, err := database.Version(ctx, db.Pool()); err != nil {
			logger.Warn("Migrations applied but schema version unreadable", zap.Error(err))
		} else {
			logger.Info("Database schema up to date", zap.Int64("version", version))
		}
	}

	// Invoice intents go to the broker when one is configured
	var publisher usecase.JSONPublisher
	if config.Broker.URL != "" {
		pub, err := mq.NewPublisher(config.Broker.URL, config.Broker.InvoiceExchange, logger)
		if err != nil {
			logger.Fatal("Failed to connect to broker", zap.Error(err))
		}
		defer pub.Close()
		publisher = pub
	} else {
		logger.Warn("RABBIT_URL not set, invoice intents will be dropped")
	}
	invoices := usecase.NewInvoicePublisher(publisher, logger)

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, db, invoices, config, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server error", zap.Error(err))
	}
}
