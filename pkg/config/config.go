package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kislikjeka/txfeed/pkg/logger"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port string
	Env  string

	// Logging; empty values follow Env
	LogLevel  string
	LogFormat string

	// Database configuration; empty keeps preferences in memory
	DatabaseURL string

	// Redis configuration; empty disables the preference cache
	RedisURL           string
	RedisPassword      string
	PreferenceCacheTTL time.Duration

	// NATS configuration; empty dispatches click events in-process
	NATSURL string

	// JWT configuration
	JWTSecret string

	// Display defaults
	DefaultFiatCode string
	DefaultLocale   string
	TimeZone        string

	// CORS
	AllowedOrigins []string
}

var defaults = map[string]any{
	"PORT":                 "8080",
	"ENV":                  "development",
	"LOG_LEVEL":            "",
	"LOG_FORMAT":           "",
	"DATABASE_URL":         "",
	"REDIS_URL":            "",
	"REDIS_PASSWORD":       "",
	"PREFERENCE_CACHE_TTL": "10m",
	"NATS_URL":             "",
	"JWT_SECRET":           "",
	"DEFAULT_FIAT_CODE":    "USD",
	"DEFAULT_LOCALE":       "en",
	"TIME_ZONE":            "UTC",
	"ALLOWED_ORIGINS":      "http://localhost:3000,http://localhost:5173",
}

// Load reads .env files (missing files are ignored), then resolves
// configuration from the environment.
func Load(envFiles ...string) (*Config, error) {
	if err := loadEnvFiles(envFiles...); err != nil {
		return nil, err
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	cfg, err := fromViper(v)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return nil
}

func fromViper(v *viper.Viper) (*Config, error) {
	ttl, err := time.ParseDuration(v.GetString("PREFERENCE_CACHE_TTL"))
	if err != nil {
		return nil, fmt.Errorf("PREFERENCE_CACHE_TTL: %w", err)
	}

	return &Config{
		Port:               v.GetString("PORT"),
		Env:                v.GetString("ENV"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		LogFormat:          strings.ToLower(v.GetString("LOG_FORMAT")),
		DatabaseURL:        v.GetString("DATABASE_URL"),
		RedisURL:           v.GetString("REDIS_URL"),
		RedisPassword:      v.GetString("REDIS_PASSWORD"),
		PreferenceCacheTTL: ttl,
		NATSURL:            v.GetString("NATS_URL"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		DefaultFiatCode:    strings.ToUpper(v.GetString("DEFAULT_FIAT_CODE")),
		DefaultLocale:      v.GetString("DEFAULT_LOCALE"),
		TimeZone:           v.GetString("TIME_ZONE"),
		AllowedOrigins:     splitList(v.GetString("ALLOWED_ORIGINS")),
	}, nil
}

// Validate ensures all required configuration is present
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	if len(c.DefaultFiatCode) != 3 {
		return fmt.Errorf("DEFAULT_FIAT_CODE must be a 3-letter ISO 4217 code")
	}

	if c.LogLevel != "" {
		if _, err := logger.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("LOG_LEVEL: %w", err)
		}
	}

	switch c.LogFormat {
	case "", "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text")
	}

	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return fmt.Errorf("TIME_ZONE: %w", err)
	}

	if c.DatabaseURL == "" && c.IsProduction() {
		return fmt.Errorf("DATABASE_URL is required in production")
	}

	return nil
}

// Location returns the configured time zone
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
