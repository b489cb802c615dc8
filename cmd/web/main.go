// Package main is the entry point for the library catalog server.
// It wires together configuration, the database connection, the template
// cache, and the HTTP router.
package main

import (
	"context"
	"flag"
	"html/template"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jonathanbernal/library-tutorial/internal/data"
)

// appVersion is the current version of the application, shown in logs.
const appVersion = "1.0.0"

// serverConfig holds all the values that can be tweaked at startup.
// Defaults come from the environment (a .env file is loaded first when
// present); command-line flags override both.
type serverConfig struct {
	port        int    // TCP port the HTTP server listens on (default 4000)
	environment string // Runtime environment: development, staging, or production
	db          struct {
		uri  string // MongoDB connection string
		name string // Database name
	}
	limiter struct {
		rps     float64 // Sustained requests per second per client IP
		burst   int     // Burst capacity per client IP
		enabled bool    // Disabled in tests
	}
}

// applicationDependencies bundles every shared resource that HTTP handlers
// need. A pointer to this struct is passed as the receiver on all handler
// and route methods.
type applicationDependencies struct {
	config        serverConfig
	logger        *slog.Logger
	models        data.Models
	templateCache map[string]*template.Template
}

// main is the application entry point.
// It parses configuration, opens the database, builds the template cache,
// wires up dependencies, and starts the HTTP server.
func main() {
	// Load a .env file if one exists; absence is not an error.
	_ = godotenv.Load()

	var settings serverConfig

	flag.IntVar(&settings.port, "port", 4000, "Server port")
	flag.StringVar(&settings.environment, "env", envOr("ENV", "development"), "Environment(development|staging|production)")
	flag.StringVar(&settings.db.uri, "db-uri", envOr("MONGODB_URI", "mongodb://localhost:27017"), "MongoDB connection URI")
	flag.StringVar(&settings.db.name, "db-name", envOr("MONGODB_DATABASE", "local_library"), "MongoDB database name")
	flag.Float64Var(&settings.limiter.rps, "limiter-rps", 2, "Rate limiter requests per second per IP")
	flag.IntVar(&settings.limiter.burst, "limiter-burst", 4, "Rate limiter burst per IP")
	flag.BoolVar(&settings.limiter.enabled, "limiter-enabled", true, "Enable rate limiting")

	flag.Parse()

	// Structured logger writing human-readable text to stdout.
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Open and verify the database connection.
	client, err := openDB(settings)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	// Tear the connection down cleanly when main() returns.
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error(err.Error())
		}
	}()

	logger.Info("database connection established", "database", settings.db.name, "version", appVersion)

	templateCache, err := newTemplateCache()
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	// Bundle all shared dependencies into a single struct.
	app := &applicationDependencies{
		config:        settings,
		logger:        logger,
		models:        data.NewModels(client.Database(settings.db.name)),
		templateCache: templateCache,
	}

	if err := app.serve(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

// envOr returns the environment variable named by key, or fallback when it
// is unset or empty.
func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// openDB connects to MongoDB using the URI stored in settings, then pings
// the server with a 5-second timeout to confirm it is reachable.
// Returns the client on success, or an error if the connection cannot be
// established.
func openDB(settings serverConfig) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(settings.db.uri))
	if err != nil {
		return nil, err
	}

	// Ping performs a real round-trip to verify the server is reachable.
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return client, nil
}
