package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ai-pulse/internal/config"
	"ai-pulse/internal/database"
	"ai-pulse/internal/insights"
	"ai-pulse/internal/logging"
	"ai-pulse/internal/nlp"
	"ai-pulse/internal/pipeline"
	"ai-pulse/internal/scoring"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	batchSize := flag.Int("batch", 0, "Override pipeline.batchSize")
	articleID := flag.String("article", "", "Process one pending article by id")
	showStats := flag.Bool("stats", false, "Print article counts by status and exit")
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
	if *batchSize > 0 {
		cfg.Pipeline.BatchSize = *batchSize
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid config")
	}

	if err := database.Connect(&cfg.Database); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lemmatizer, err := nlp.NewLemmatizer()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load lemmatizer")
	}
	scorer := scoring.NewScorer(lemmatizer, time.Now)
	detector := nlp.NewLanguageDetector()

	if *showStats {
		stats, err := pipeline.NewProcessor(database.DB, nil, scorer, detector, cfg.Pipeline).Stats(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load stats")
		}
		log.Info().
			Int64("pending", stats.Pending).
			Int64("processing", stats.Processing).
			Int64("processed", stats.Processed).
			Int64("failed", stats.Failed).
			Int64("processed_articles", stats.ProcessedArticles).
			Msg("📊 Article stats")
		return
	}

	if err := cfg.ValidateLLM(); err != nil {
		log.Fatal().Err(err).Msg("LLM is not configured")
	}
	extractor, err := insights.NewExtractor(ctx, cfg.LLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create insight extractor")
	}
	processor := pipeline.NewProcessor(database.DB, extractor, scorer, detector, cfg.Pipeline)

	if *articleID != "" {
		id, err := uuid.Parse(*articleID)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid article id")
		}
		processed, err := processor.ProcessArticle(ctx, id)
		if err != nil {
			log.Fatal().Err(err).Str("article_id", id.String()).Msg("Processing failed")
		}
		log.Info().
			Str("article_id", id.String()).
			Float64("initial_score", processed.InitialScore).
			Msg("✅ Article processed")
		return
	}

	log.Info().Str("provider", cfg.LLM.Provider).Int("batch", cfg.Pipeline.BatchSize).Msg("🧠 Processing pending articles...")
	result, err := processor.ProcessBatch(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Processing failed")
	}
	log.Info().
		Int("selected", result.Selected).
		Int("processed", result.Processed).
		Int("failed", result.Failed).
		Msg("✅ Processing complete")
}
