package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"breathadmin/internal/config"
	"breathadmin/internal/database"
	"breathadmin/internal/server"

	"github.com/sirupsen/logrus"
)

func main() {
	configPath := "./config.toml"

	// Initialize basic logger for startup
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	// Load configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.WithError(err).Fatal("Error loading configuration")
	}

	configureLogger(logger, &cfg.Logging)

	// Initialize the local state store
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		logger.WithError(err).Fatal("Error initializing database")
	}
	defer db.Close()

	// Create the admin server with all its services
	adminServer, err := server.NewAdminServer(cfg, db, logger)
	if err != nil {
		logger.WithError(err).Fatal("Error creating admin server")
	}

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	// Start the server in a goroutine
	go func() {
		if err := adminServer.Start(); err != nil {
			logger.WithError(err).Fatal("Server failed")
		}
	}()

	// Wait for shutdown signal
	<-c

	logger.Info("Received shutdown signal")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	adminServer.Shutdown(ctx)
}

// configureLogger applies the configured level, format and output file.
func configureLogger(logger *logrus.Logger, cfg *config.LoggingConfig) {
	if level, err := logrus.ParseLevel(cfg.Level); err == nil {
		logger.SetLevel(level)
	}

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			logger.WithError(err).Warn("Could not open log file, logging to stderr")
			return
		}
		logger.SetOutput(f)
	}
}
