package database

import (
	"fmt"
	"os"

	"ai-pulse/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB holds the database connection
var DB *gorm.DB

// Config holds database configuration
type Config struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
	LogSQL   bool   `yaml:"logSql"`
}

// LoadConfig loads database configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		URL:      os.Getenv("DATABASE_URL"),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		DBName:   getEnv("DB_NAME", "ai_pulse"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
}

// DSN builds the connection string. DATABASE_URL wins when set.
func (c *Config) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.DBName, c.SSLMode,
	)
	// Only add password if it's not empty
	if c.Password != "" {
		dsn = fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
		)
	}
	return dsn
}

// Connect establishes a connection to the PostgreSQL database
func Connect(config *Config) error {
	level := logger.Warn
	if config.LogSQL {
		level = logger.Info
	}

	var err error
	DB, err = gorm.Open(postgres.Open(config.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info().Str("host", config.Host).Str("database", config.DBName).Msg("Successfully connected to database")
	return nil
}

// Migrate runs database migrations
func Migrate() error {
	if DB == nil {
		return fmt.Errorf("database connection not established")
	}

	if err := models.AutoMigrate(DB); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if DB.Dialector.Name() == "postgres" {
		if err := DB.Exec(searchIndexSQL).Error; err != nil {
			return fmt.Errorf("failed to create search index: %w", err)
		}
	}

	log.Info().Msg("Database migrations completed successfully")
	return nil
}

const searchIndexSQL = `CREATE INDEX IF NOT EXISTS idx_processed_articles_fts ON processed_articles
USING GIN (to_tsvector('english', coalesce(title, '') || ' ' || coalesce(summary_executive, '') || ' ' || coalesce(summary_simple, '')))`

// Close closes the database connection
func Close() error {
	if DB == nil {
		return nil
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// getEnv returns environment variable value or default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
