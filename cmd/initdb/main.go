// Command initdb creates the topics and sessions tables if they do not exist
// and exits. The API server does the same on startup.
package main

import (
	"log"

	"studytracker/config"
	"studytracker/internal/infrastructure/repository"
	"studytracker/internal/logger"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	lg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer lg.Sync()

	if cfg.DBDriver == repository.DriverMemory {
		lg.Info("Memory driver selected, nothing to create")
		return
	}

	store, err := repository.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		lg.Fatal("Failed to open storage", "driver", cfg.DBDriver, "error", err)
	}
	defer store.Close()

	if err := store.AutoMigrate(); err != nil {
		lg.Fatal("Failed to create tables", "error", err)
	}
	lg.Info("Tables ready", "driver", cfg.DBDriver)
}
