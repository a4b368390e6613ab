package main

import (
	"fmt"
	"os"

	"github.com/Rrens/notebooklm/internal/config"
	"github.com/Rrens/notebooklm/internal/logger"
	"github.com/Rrens/notebooklm/internal/repository"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logCloser, err := logger.Setup(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	direction := repository.Up
	if len(os.Args) > 1 {
		direction = repository.Direction(os.Args[1])
	}

	log.Info().
		Str("driver", cfg.Database.Dialect()).
		Str("host", cfg.Database.Host).
		Int("port", cfg.Database.Port).
		Str("direction", string(direction)).
		Msg("running migrations")

	if err := repository.RunMigrations(cfg.Database, direction); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
}
