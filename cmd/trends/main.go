package main

import (
	"context"
	"flag"
	"io"

	"ai-pulse/internal/cache"
	"ai-pulse/internal/config"
	"ai-pulse/internal/database"
	"ai-pulse/internal/logging"
	"ai-pulse/internal/trends"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
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

	ctx := context.Background()
	readCache := cache.New(ctx, cfg.Redis.URL)
	if closer, ok := readCache.(io.Closer); ok {
		defer closer.Close()
	}

	log.Info().Dur("lookback", cfg.Trends.Lookback).Msg("📈 Aggregating trends...")
	result, err := trends.NewAggregator(database.DB, readCache, cfg.Trends).Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Trend aggregation failed")
	}
	log.Info().
		Int("articles_scanned", result.ArticlesScanned).
		Int("distinct_tags", result.DistinctTags).
		Int("interests", result.Interests).
		Int("topics", result.Topics).
		Msg("✅ Trend aggregation complete")
}
