package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"ai-pulse/internal/config"
	"ai-pulse/internal/database"
	"ai-pulse/internal/ingest"
	"ai-pulse/internal/logging"
	"ai-pulse/internal/models"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	sourceName := flag.String("source", "", "Only ingest the enabled source with this name")
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
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid config")
	}

	if err := database.Connect(&cfg.Database); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	service := ingest.NewService(database.DB, cfg.Ingest)

	if *sourceName != "" {
		var source models.Source
		if err := database.DB.WithContext(ctx).Where("name = ?", *sourceName).First(&source).Error; err != nil {
			log.Fatal().Err(err).Str("source", *sourceName).Msg("Source not found")
		}
		inserted, err := service.IngestSource(ctx, &source)
		if err != nil {
			log.Fatal().Err(err).Str("source", source.Name).Msg("Ingestion failed")
		}
		log.Info().Str("source", source.Name).Int("ingested", inserted).Msg("✅ Ingestion complete")
		return
	}

	log.Info().Msg("📥 Ingesting all enabled sources...")
	result, err := service.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Ingestion failed")
	}
	log.Info().
		Int("ingested", result.Ingested).
		Int("sources_processed", result.SourcesProcessed).
		Int("sources_failed", result.SourcesFailed).
		Int("sources_skipped", result.SourcesSkipped).
		Msg("✅ Ingestion complete")
}
