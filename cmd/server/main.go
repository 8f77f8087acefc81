package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ai-pulse/internal/auth"
	"ai-pulse/internal/cache"
	"ai-pulse/internal/config"
	"ai-pulse/internal/database"
	"ai-pulse/internal/feeds"
	"ai-pulse/internal/handlers"
	"ai-pulse/internal/ingest"
	"ai-pulse/internal/insights"
	"ai-pulse/internal/logging"
	"ai-pulse/internal/nlp"
	"ai-pulse/internal/pipeline"
	"ai-pulse/internal/profiles"
	"ai-pulse/internal/scoring"
	"ai-pulse/internal/trends"
	"ai-pulse/internal/worker"

	"github.com/gin-gonic/gin"
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
	if cfg.Server.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is not set, authenticated endpoints will reject every request")
	}

	// Connect to database
	if err := database.Connect(&cfg.Database); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	ctx := context.Background()
	readCache := cache.New(ctx, cfg.Redis.URL)
	if closer, ok := readCache.(io.Closer); ok {
		defer closer.Close()
	}

	processor, err := newProcessor(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up the processing pipeline")
	}
	ingester := ingest.NewService(database.DB, cfg.Ingest)
	aggregator := trends.NewAggregator(database.DB, readCache, cfg.Trends)

	// Initialize and start background workers
	jobs := worker.NewJobs(ingester, processor, aggregator)
	if !processor.CanProcess() {
		delete(jobs, worker.JobProcess)
	}
	workerService := worker.NewWorkerService(cfg.Schedule, jobs)
	if err := workerService.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start background workers")
	}
	defer workerService.Stop()

	profileService := profiles.NewService(database.DB)
	feedService := feeds.NewFeedService(database.DB, readCache, profileService, cfg)

	if cfg.Server.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := &handlers.Router{
		Feed:     handlers.NewFeedHandler(feedService, workerService),
		Profile:  handlers.NewProfileHandler(profileService, cfg.Server.HookSecret),
		Admin:    handlers.NewAdminHandler(database.DB, workerService, processor, cfg.Server.AdminPassword),
		Docs:     handlers.NewDocsHandler(),
		Verifier: auth.NewJWTVerifier(cfg.Server.JWTSecret),
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router.Engine(cfg.Server),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("🚀 Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Received shutdown signal, gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
	log.Info().Msg("Shutdown complete")
}

// newProcessor builds the pipeline processor. Without LLM credentials the
// processor only serves stats and the process job is not scheduled.
func newProcessor(ctx context.Context, cfg *config.Config) (*pipeline.Processor, error) {
	lemmatizer, err := nlp.NewLemmatizer()
	if err != nil {
		return nil, err
	}
	scorer := scoring.NewScorer(lemmatizer, time.Now)
	detector := nlp.NewLanguageDetector()

	if err := cfg.ValidateLLM(); err != nil {
		log.Warn().Err(err).Msg("LLM not configured, article processing disabled")
		return pipeline.NewProcessor(database.DB, nil, scorer, detector, cfg.Pipeline), nil
	}

	extractor, err := insights.NewExtractor(ctx, cfg.LLM)
	if err != nil {
		return nil, err
	}
	return pipeline.NewProcessor(database.DB, extractor, scorer, detector, cfg.Pipeline), nil
}
