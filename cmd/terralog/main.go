// Package main provides the terralog sensor telemetry service.
//
// The service ingests sensor reading batches into a month-partitioned
// PostgreSQL store, creating partitions on demand, and verifies user
// credentials against hashes held in the same store.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/terralog-io/terralog/internal/aliasing"
	"github.com/terralog-io/terralog/internal/api"
	"github.com/terralog-io/terralog/internal/api/middleware"
	"github.com/terralog-io/terralog/internal/events"
	"github.com/terralog-io/terralog/internal/storage"
)

// Version information.
const (
	version = "1.0.0"
	name    = "terralog"
)

func main() {
	versionFlag := flag.Bool("version", false, "show version information")
	flag.Parse()

	if *versionFlag {
		log.Printf("%s v%s\n", name, version)
		os.Exit(0)
	}

	serverConfig := api.LoadServerConfig()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: serverConfig.LogLevel,
	}))

	logger.Info("Starting terralog service",
		slog.String("service", name),
		slog.String("version", version),
		slog.String("host", serverConfig.Host),
		slog.Int("port", serverConfig.Port),
		slog.String("log_level", serverConfig.LogLevel.String()),
	)

	storageConfig := storage.LoadConfig()

	dbConn, err := storage.NewConnection(storageConfig)
	if err != nil {
		logger.Error("Failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		_ = dbConn.Close() // Ensure connection closes on normal shutdown
	}()

	logger.Info("Database connection established",
		slog.String("database_url", storageConfig.MaskDatabaseURL()),
		slog.Int("database_max_open_conns", storageConfig.MaxOpenConns),
		slog.Int("database_max_idle_conns", storageConfig.MaxIdleConns),
	)

	partitions, err := storage.NewPartitionManager(dbConn, logger)
	if err != nil {
		logger.Error("Failed to create partition manager", slog.String("error", err.Error()))
		exitClosing(dbConn)
	}

	readingStore, err := storage.NewReadingStore(dbConn, partitions, logger)
	if err != nil {
		logger.Error("Failed to create reading store", slog.String("error", err.Error()))
		exitClosing(dbConn)
	}

	userStore, err := storage.NewUserStore(dbConn, logger)
	if err != nil {
		logger.Error("Failed to create user store", slog.String("error", err.Error()))
		exitClosing(dbConn)
	}

	aliasConfig, err := aliasing.LoadConfigFromEnv()
	if err != nil {
		logger.Warn("Failed to load alias configuration", slog.String("error", err.Error()))
	}

	resolver := aliasing.NewResolver(aliasConfig)
	if resolver.AliasCount() > 0 {
		logger.Info("Sensor alias resolution enabled",
			slog.Int("aliases", resolver.AliasCount()),
		)
	}

	publisher := events.NewPublisher(events.LoadConfig(), logger)

	middlewareConfig := middleware.LoadConfig()
	rateLimiter := middleware.NewInMemoryRateLimiter(middlewareConfig)

	logger.Info("Rate limiter initialized",
		slog.Int("global_rps", middlewareConfig.GlobalRPS),
		slog.Int("client_rps", middlewareConfig.ClientRPS),
	)

	server := api.NewServer(serverConfig, readingStore, userStore, resolver, publisher, rateLimiter)

	if err := server.Start(); err != nil {
		logger.Error("Server failed", slog.String("error", err.Error()))
		exitClosing(dbConn)
	}
}

// exitClosing closes the database connection before exiting; deferred
// cleanup does not run through os.Exit.
func exitClosing(conn *storage.Connection) {
	_ = conn.Close()
	os.Exit(1)
}
