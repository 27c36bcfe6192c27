package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"
)

const defaultJWTSecret = "dev-secret-change-in-production"

var ErrDefaultSecretInProduction = errors.New("JWT_SECRET must be set in production environment")

type Config struct {
	Port        string
	Env         string
	DatabaseDSN string
	JWTSecret   string
	JWTExpiry   time.Duration

	// An empty AdvisorURL disables separator suggestions.
	AdvisorURL     string
	AdvisorAPIKey  string
	AdvisorModel   string
	AdvisorTimeout time.Duration

	GenerateRate  float64
	GenerateBurst int
	SuggestRate   float64
	SuggestBurst  int

	// MaxPasswordLength caps the length accepted over HTTP.
	MaxPasswordLength int
}

// Load reads the configuration from the environment. Malformed numeric values
// fall back to their defaults with a warning.
func Load() (Config, error) {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		DatabaseDSN: getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/passforge?parseTime=true"),
		JWTSecret:   getEnv("JWT_SECRET", defaultJWTSecret),
		JWTExpiry:   getDuration("JWT_EXPIRY", 24*time.Hour),

		AdvisorURL:     getEnv("ADVISOR_URL", ""),
		AdvisorAPIKey:  getEnv("ADVISOR_API_KEY", ""),
		AdvisorModel:   getEnv("ADVISOR_MODEL", "gpt-4o-mini"),
		AdvisorTimeout: getDuration("ADVISOR_TIMEOUT", 15*time.Second),

		GenerateRate:  getFloat("GENERATE_RATE", 10),
		GenerateBurst: getInt("GENERATE_BURST", 20),
		SuggestRate:   getFloat("SUGGEST_RATE", 1),
		SuggestBurst:  getInt("SUGGEST_BURST", 5),

		MaxPasswordLength: getInt("MAX_PASSWORD_LENGTH", 1024),
	}

	if cfg.Env == "production" && cfg.JWTSecret == defaultJWTSecret {
		return cfg, ErrDefaultSecretInProduction
	}
	return cfg, nil
}

// AdvisorEnabled reports whether an advisor endpoint is configured.
func (c Config) AdvisorEnabled() bool { return c.AdvisorURL != "" }

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		slog.Warn("ignoring invalid duration", "key", key, "value", v)
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("ignoring invalid integer", "key", key, "value", v)
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		slog.Warn("ignoring invalid number", "key", key, "value", v)
		return fallback
	}
	return f
}
