package main

import (
	"context"
	"flag"

	"ai-pulse/internal/config"
	"ai-pulse/internal/database"
	"ai-pulse/internal/logging"
	"ai-pulse/internal/seed"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Seeds sources, synonyms and generic terms. Without -file the built-in
// starter set is used.
func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	seedFile := flag.String("file", "", "YAML seed file (defaults to the built-in starter set)")
	flag.Parse()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using environment variables")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	log.Info().Msg("🌱 AI Pulse Database Seeder")

	if err := database.Connect(&cfg.Database); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	data := seed.Defaults()
	if *seedFile != "" {
		if data, err = seed.Load(*seedFile); err != nil {
			log.Fatal().Err(err).Msg("Failed to load seed file")
		}
	}

	if _, err := seed.Apply(context.Background(), database.DB, data); err != nil {
		log.Fatal().Err(err).Msg("Seeding failed")
	}
	log.Info().Msg("✅ Database seeding completed")
}
