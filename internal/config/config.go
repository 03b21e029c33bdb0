package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds everything the console and the CLI need from the environment.
type Config struct {
	Env  string
	Port string

	ScoringURL       string
	ScoringAPIKey    string
	ScoringHealthURL string
	ScoringTimeout   time.Duration

	SessionSecret string
	SessionTTL    time.Duration

	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	HealthCacheTTL time.Duration

	RateLimitPerMinute int
	CORSOrigins        string
	LogLevel           string
}

var ErrMissingAPIKey = errors.New("SCORING_API_KEY is not set")

var ErrMissingSessionSecret = errors.New("SESSION_SECRET must be set in production")

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file found")
	}
}

// Load reads the console configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Env:  GetEnv("ENV", "development"),
		Port: GetEnv("PORT", "3000"),

		ScoringURL:       strings.TrimRight(GetEnv("SCORING_URL", "http://localhost:8000/api/v1"), "/"),
		ScoringAPIKey:    GetEnv("SCORING_API_KEY", ""),
		ScoringHealthURL: GetEnv("SCORING_HEALTH_URL", "http://localhost:8000/health"),
		ScoringTimeout:   GetDurationEnv("SCORING_TIMEOUT", 0),

		SessionSecret: GetEnv("SESSION_SECRET", ""),
		SessionTTL:    GetDurationEnv("SESSION_TTL", 30*time.Minute),

		RedisAddr:      GetEnv("REDIS_ADDR", ""),
		RedisPassword:  GetEnv("REDIS_PASSWORD", ""),
		RedisDB:        GetIntEnv("REDIS_DB", 0),
		HealthCacheTTL: GetDurationEnv("HEALTH_CACHE_TTL", time.Minute),

		RateLimitPerMinute: GetIntEnv("RATE_LIMIT_PER_MINUTE", 60),
		CORSOrigins:        GetEnv("CORS_ORIGINS", "http://localhost:3000"),
		LogLevel:           GetEnv("LOG_LEVEL", "info"),
	}

	if cfg.ScoringAPIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.SessionSecret == "" && cfg.IsProduction() {
		return nil, ErrMissingSessionSecret
	}
	return cfg, nil
}

// IsProduction checks if the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// GetDurationEnv returns a duration environment variable or a default value.
func GetDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
