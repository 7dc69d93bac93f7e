package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/Makepad-fr/bucket/internal/store/kv"
)

type Config struct {
	// Storage
	DataDir string
	Backend string
	DBName  string

	// Photo notes
	ImageMaxWidth int
	ImageQuality  float64
	ImageMaxKB    float64

	// Presentation
	Theme       string
	LogTarget   string
	Suggestions string
}

// Load reads configuration from the environment, after merging a .env file
// from the working directory if there is one. A .env file that exists but
// cannot be read or parsed is reported to logger and otherwise ignored.
func Load(logger *log.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Printf("config: ignoring .env: %v", err)
	}

	home, _ := os.UserHomeDir()
	cfg := &Config{
		DataDir:       getEnv("BUCKET_DATA_DIR", filepath.Join(home, ".bucket")),
		Backend:       getEnv("BUCKET_BACKEND", kv.KindFile),
		DBName:        getEnv("BUCKET_DB_NAME", "bucket.db"),
		ImageMaxWidth: getEnvAsInt("BUCKET_IMAGE_MAX_WIDTH", 800),
		ImageQuality:  getEnvAsFloat("BUCKET_IMAGE_QUALITY", 0.8),
		ImageMaxKB:    getEnvAsFloat("BUCKET_IMAGE_MAX_KB", 500),
		Theme:         getEnv("BUCKET_THEME", "classic"),
		LogTarget:     getEnv("BUCKET_LOG", "file"),
		Suggestions:   getEnv("BUCKET_SUGGESTIONS", ""),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the stores or the image pipeline cannot use.
func (c *Config) Validate() error {
	switch c.Backend {
	case kv.KindFile, kv.KindSQLite, kv.KindMemory:
	default:
		return fmt.Errorf("BUCKET_BACKEND must be file, sqlite or memory, got %q", c.Backend)
	}
	if c.DataDir == "" {
		return fmt.Errorf("BUCKET_DATA_DIR is required")
	}
	if c.ImageMaxWidth <= 0 {
		return fmt.Errorf("BUCKET_IMAGE_MAX_WIDTH must be positive")
	}
	if c.ImageQuality < 0 || c.ImageQuality > 1 {
		return fmt.Errorf("BUCKET_IMAGE_QUALITY must be in [0, 1]")
	}
	if c.ImageMaxKB <= 0 {
		return fmt.Errorf("BUCKET_IMAGE_MAX_KB must be positive")
	}
	switch c.LogTarget {
	case "file", "stderr":
	default:
		return fmt.Errorf("BUCKET_LOG must be file or stderr, got %q", c.LogTarget)
	}
	return nil
}

// Helper functions to read environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}
