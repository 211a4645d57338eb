// Package config reads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every tunable of the service.
type Config struct {
	Port         string
	GeminiAPIKey string
	GeminiModel  string
	DatabasePath string

	// StaleAfter is the age past which a strategy gets refreshed.
	StaleAfter time.Duration
	// ManualBatch caps how many businesses a manual update touches.
	ManualBatch int
}

// Load reads configuration from the environment. A missing .env file is not
// an error; deployed environments set variables directly.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:         getenv("PORT", "8080"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  os.Getenv("GEMINI_MODEL"),
		DatabasePath: getenv("DATABASE_PATH", "data/strategies.db"),
		StaleAfter:   getduration("STALE_AFTER", 7*24*time.Hour),
		ManualBatch:  getint("MANUAL_BATCH", 5),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getint(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
