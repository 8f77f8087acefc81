// Package config loads ai-pulse settings from an optional YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"ai-pulse/internal/database"

	"gopkg.in/yaml.v3"
)

const configPathEnv = "AI_PULSE_CONFIG"

// Config holds every setting shared by the binaries
type Config struct {
	Database database.Config `yaml:"database"`
	Server   ServerConfig    `yaml:"server"`
	LLM      LLMConfig       `yaml:"llm"`
	Ingest   IngestConfig    `yaml:"ingest"`
	Pipeline PipelineConfig  `yaml:"pipeline"`
	Trends   TrendsConfig    `yaml:"trends"`
	Feed     FeedConfig      `yaml:"feed"`
	Redis    RedisConfig     `yaml:"redis"`
	Schedule ScheduleConfig  `yaml:"schedule"`
	Log      LogConfig       `yaml:"log"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Port           string   `yaml:"port"`
	GinMode        string   `yaml:"ginMode"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
	AdminPassword  string   `yaml:"adminPassword"`
	JWTSecret      string   `yaml:"jwtSecret"`
	HookSecret     string   `yaml:"hookSecret"`
}

// LLMConfig selects and tunes the insight provider
type LLMConfig struct {
	Provider        string        `yaml:"provider"`
	APIKey          string        `yaml:"apiKey"`
	Model           string        `yaml:"model"`
	Timeout         time.Duration `yaml:"timeout"`
	MaxInputChars   int           `yaml:"maxInputChars"`
	MinInputChars   int           `yaml:"minInputChars"`
	Temperature     float32       `yaml:"temperature"`
	MaxOutputTokens int           `yaml:"maxOutputTokens"`
}

// IngestConfig tunes feed fetching
type IngestConfig struct {
	RecencyMonths int           `yaml:"recencyMonths"`
	HTTPTimeout   time.Duration `yaml:"httpTimeout"`
	UserAgent     string        `yaml:"userAgent"`
}

// PipelineConfig tunes article processing
type PipelineConfig struct {
	BatchSize      int `yaml:"batchSize"`
	TrendingTopics int `yaml:"trendingTopics"`
}

// TrendsConfig tunes trend aggregation
type TrendsConfig struct {
	Lookback      time.Duration `yaml:"lookback"`
	OnboardingTop int           `yaml:"onboardingTop"`
	TrendingTop   int           `yaml:"trendingTop"`
}

// FeedConfig tunes the personalized feed and read APIs
type FeedConfig struct {
	CandidateWindow int `yaml:"candidateWindow"`
	Limit           int `yaml:"limit"`
	MaxLimit        int `yaml:"maxLimit"`
	SearchLimit     int `yaml:"searchLimit"`
}

// RedisConfig enables the read cache when URL is set
type RedisConfig struct {
	URL string        `yaml:"url"`
	TTL time.Duration `yaml:"ttl"`
}

// ScheduleConfig holds cron specs for the background jobs
type ScheduleConfig struct {
	Enabled bool   `yaml:"enabled"`
	Ingest  string `yaml:"ingest"`
	Process string `yaml:"process"`
	Trends  string `yaml:"trends"`
}

// LogConfig configures zerolog
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		Database: *database.LoadConfig(),
		Server: ServerConfig{
			Port:           "8080",
			GinMode:        "debug",
			AllowedOrigins: []string{"http://localhost:5173"},
			AdminPassword:  "admin123",
		},
		LLM: LLMConfig{
			Provider:        "gemini",
			Timeout:         60 * time.Second,
			MaxInputChars:   15000,
			MinInputChars:   50,
			Temperature:     0.5,
			MaxOutputTokens: 1000,
		},
		Ingest: IngestConfig{
			RecencyMonths: 3,
			HTTPTimeout:   30 * time.Second,
			UserAgent:     "ai-pulse/1.0 (+https://github.com/ai-pulse)",
		},
		Pipeline: PipelineConfig{
			BatchSize:      3,
			TrendingTopics: 10,
		},
		Trends: TrendsConfig{
			Lookback:      48 * time.Hour,
			OnboardingTop: 15,
			TrendingTop:   10,
		},
		Feed: FeedConfig{
			CandidateWindow: 50,
			Limit:           20,
			MaxLimit:        100,
			SearchLimit:     20,
		},
		Redis: RedisConfig{
			TTL: 5 * time.Minute,
		},
		Schedule: ScheduleConfig{
			Enabled: true,
			Ingest:  "@every 30m",
			Process: "@every 1m",
			Trends:  "@every 1h",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads the YAML file at path (or $AI_PULSE_CONFIG) over the defaults,
// then applies environment overrides
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	setString(&c.Database.URL, "DATABASE_URL")
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.DBName, "DB_NAME")
	setString(&c.Database.SSLMode, "DB_SSLMODE")

	setString(&c.Server.Port, "PORT")
	setString(&c.Server.GinMode, "GIN_MODE")
	setString(&c.Server.AdminPassword, "ADMIN_PASSWORD")
	setString(&c.Server.JWTSecret, "JWT_SECRET")
	setString(&c.Server.HookSecret, "SIGNUP_HOOK_SECRET")
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}

	setString(&c.LLM.Provider, "LLM_PROVIDER")
	setString(&c.LLM.Model, "LLM_MODEL")
	setDuration(&c.LLM.Timeout, "LLM_TIMEOUT")
	setString(&c.LLM.APIKey, "LLM_API_KEY")
	if c.LLM.APIKey == "" {
		switch strings.ToLower(c.LLM.Provider) {
		case "gemini":
			setString(&c.LLM.APIKey, "GEMINI_API_KEY")
		case "openai":
			setString(&c.LLM.APIKey, "OPENAI_API_KEY")
		case "anthropic":
			setString(&c.LLM.APIKey, "ANTHROPIC_API_KEY")
		}
	}

	setInt(&c.Ingest.RecencyMonths, "INGEST_RECENCY_MONTHS")
	setInt(&c.Pipeline.BatchSize, "PIPELINE_BATCH_SIZE")
	setDuration(&c.Trends.Lookback, "TRENDS_LOOKBACK")

	setString(&c.Redis.URL, "REDIS_URL")
	setDuration(&c.Redis.TTL, "REDIS_TTL")

	if v := os.Getenv("SCHEDULE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Schedule.Enabled = b
		}
	}
	setString(&c.Schedule.Ingest, "SCHEDULE_INGEST")
	setString(&c.Schedule.Process, "SCHEDULE_PROCESS")
	setString(&c.Schedule.Trends, "SCHEDULE_TRENDS")

	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")
}

// Validate checks settings every invocation needs
func (c *Config) Validate() error {
	var errs []error
	if c.Pipeline.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("pipeline.batchSize must be positive, got %d", c.Pipeline.BatchSize))
	}
	if c.Ingest.RecencyMonths < 1 {
		errs = append(errs, fmt.Errorf("ingest.recencyMonths must be positive, got %d", c.Ingest.RecencyMonths))
	}
	if c.Trends.Lookback <= 0 {
		errs = append(errs, fmt.Errorf("trends.lookback must be positive"))
	}
	if c.Trends.OnboardingTop < 1 || c.Trends.TrendingTop < 1 {
		errs = append(errs, fmt.Errorf("trends.onboardingTop and trends.trendingTop must be positive"))
	}
	if c.Feed.Limit < 1 || c.Feed.CandidateWindow < 1 {
		errs = append(errs, fmt.Errorf("feed.limit and feed.candidateWindow must be positive"))
	}
	return errors.Join(errs...)
}

// ValidateLLM checks the settings a processing run needs
func (c *Config) ValidateLLM() error {
	switch strings.ToLower(c.LLM.Provider) {
	case "gemini", "openai", "anthropic":
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("llm api key is not set for provider %s", c.LLM.Provider)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
