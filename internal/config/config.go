package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Feed     FeedConfig
	Auth     AuthConfig
	Log      LogConfig
	Metrics  MetricsConfig
}

type ServerConfig struct {
	Port           int
	HandlerTimeout time.Duration
}

type DatabaseConfig struct {
	URL string
}

type FeedConfig struct {
	// PublicBaseURL is the externally reachable origin feed links are built on.
	PublicBaseURL string
	MaxAge        time.Duration
}

// AuthConfig selects the bearer verifier. A Clerk key takes precedence over
// a shared JWT secret.
type AuthConfig struct {
	ClerkSecretKey string
	JWTSecret      string
	JWTIssuer      string
}

type LogConfig struct {
	Level  string
	Format string
}

type MetricsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           GetEnv("PORT", 8080).(int),
			HandlerTimeout: GetEnv("HANDLER_TIMEOUT", 10*time.Second).(time.Duration),
		},
		Database: DatabaseConfig{
			URL: GetEnv("DATABASE_URL", "file:calendar.db").(string),
		},
		Feed: FeedConfig{
			PublicBaseURL: strings.TrimRight(GetEnv("PUBLIC_BASE_URL", "").(string), "/"),
			MaxAge:        GetEnv("FEED_MAX_AGE", 15*time.Minute).(time.Duration),
		},
		Auth: AuthConfig{
			ClerkSecretKey: GetEnv("CLERK_SECRET_KEY", "").(string),
			JWTSecret:      GetEnv("AUTH_JWT_SECRET", "").(string),
			JWTIssuer:      GetEnv("AUTH_JWT_ISSUER", "").(string),
		},
		Log: LogConfig{
			Level:  GetEnv("LOG_LEVEL", "info").(string),
			Format: GetEnv("LOG_FORMAT", "json").(string),
		},
		Metrics: MetricsConfig{
			Enabled: GetEnv("METRICS_ENABLED", false).(bool),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Feed.PublicBaseURL == "" {
		return fmt.Errorf("missing env PUBLIC_BASE_URL")
	}
	if !strings.HasPrefix(c.Feed.PublicBaseURL, "https://") && !strings.HasPrefix(c.Feed.PublicBaseURL, "http://") {
		return fmt.Errorf("PUBLIC_BASE_URL must start with http:// or https://")
	}
	if c.Auth.ClerkSecretKey == "" && c.Auth.JWTSecret == "" {
		return fmt.Errorf("missing env CLERK_SECRET_KEY or AUTH_JWT_SECRET")
	}
	if c.Server.HandlerTimeout <= 0 {
		return fmt.Errorf("HANDLER_TIMEOUT must be positive")
	}
	if c.Feed.MaxAge < 0 {
		return fmt.Errorf("FEED_MAX_AGE must not be negative")
	}
	return nil
}

func GetEnv(key string, defaultValue any) any {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	switch def := defaultValue.(type) {
	case string:
		return value
	case int:
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		return def
	case bool:
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
		return def
	case time.Duration:
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
		return def
	default:
		panic(fmt.Sprintf("unsupported type %T", defaultValue))
	}
}
