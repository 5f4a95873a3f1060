// latticesim serves the HTTP control and status surface for the lattice
// agent-based simulation engine: submit a run, poll its status, cancel it.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/lattics/lattics/pkg/api"
	"github.com/lattics/lattics/pkg/config"
	"github.com/lattics/lattics/pkg/retention"
	"github.com/lattics/lattics/pkg/runmanager"
	"github.com/lattics/lattics/pkg/storage"
	"github.com/lattics/lattics/pkg/version"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	envDir := flag.String("env-dir",
		getEnv("LATTICS_ENV_DIR", "."),
		"Directory to load a .env file from")
	flag.Parse()

	envPath := filepath.Join(*envDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		log.Printf("Warning: Could not load %s file: %v", envPath, err)
		log.Printf("Continuing with existing environment variables...")
	} else {
		log.Printf("Loaded environment from %s", envPath)
	}

	log.Printf("Starting %s", version.Full())

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewClient(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to connect to storage: %v", err)
	}
	defer store.Close()
	slog.Info("connected to run/snapshot store", "host", cfg.Storage.Host, "database", cfg.Storage.Database)

	runs := runmanager.NewManager(store)

	retentionSvc := retention.NewService(cfg.Retention, store)
	retentionSvc.Start(ctx)
	defer retentionSvc.Stop()

	server := api.NewServer(cfg, store, runs)

	slog.Info("HTTP server listening", "port", cfg.Server.Port)
	if err := server.Start(ctx); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
	slog.Info("shutdown complete")
}
