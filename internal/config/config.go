package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	devSessionSecret = "umbrella-dev-session-secret"
	defaultZipkinURL = "http://localhost:9411/api/v2/spans"
)

// Provider exposes the settings the server and its modules read.
type Provider interface {
	GetServerAddr() string
	GetSessionSecret() string
	GetAssetsDir() string
	GetViewIdleTTL() time.Duration
	GetUploadRateLimit() int
	GetVerifyImages() bool
	GetTracingEnabled() bool
	GetZipkinURL() string
	IsProduction() bool
}

// Config holds all configuration for the application.
type Config struct {
	ServerAddr      string
	SessionSecret   string
	AssetsDir       string
	ViewIdleTTL     time.Duration
	UploadRateLimit int
	VerifyImages    bool
	TracingEnabled  bool
	ZipkinURL       string
	Env             string
}

// New loads configuration from environment variables, reading .env first
// when one exists.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		ServerAddr:      ":8080",
		SessionSecret:   getenv("SESSION_SECRET"),
		AssetsDir:       getenv("ASSETS_DIR"),
		ViewIdleTTL:     30 * time.Minute,
		UploadRateLimit: 30,
		ZipkinURL:       defaultZipkinURL,
		Env:             getenv("APP_ENV"),
	}

	if v := getenv("SERVER_ADDR"); v != "" {
		cfg.ServerAddr = v
	}
	if v := getenv("VIEW_IDLE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil || ttl <= 0 {
			return nil, fmt.Errorf("invalid VIEW_IDLE_TTL %q", v)
		}
		cfg.ViewIdleTTL = ttl
	}
	if v := getenv("UPLOAD_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid UPLOAD_RATE_LIMIT %q", v)
		}
		cfg.UploadRateLimit = n
	}
	if v := getenv("VERIFY_IMAGES"); v != "" {
		verify, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid VERIFY_IMAGES %q: %w", v, err)
		}
		cfg.VerifyImages = verify
	}

	if v := getenv("PUBSUB_TRACING_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PUBSUB_TRACING_ENABLED %q: %w", v, err)
		}
		cfg.TracingEnabled = enabled
	}
	if v := getenv("ZIPKIN_URL"); v != "" {
		cfg.ZipkinURL = v
	}

	if cfg.SessionSecret == "" {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("SESSION_SECRET must be set in production")
		}
		cfg.SessionSecret = devSessionSecret
	}

	return cfg, nil
}

func (c *Config) GetServerAddr() string         { return c.ServerAddr }
func (c *Config) GetSessionSecret() string      { return c.SessionSecret }
func (c *Config) GetAssetsDir() string          { return c.AssetsDir }
func (c *Config) GetViewIdleTTL() time.Duration { return c.ViewIdleTTL }
func (c *Config) GetUploadRateLimit() int       { return c.UploadRateLimit }
func (c *Config) GetVerifyImages() bool         { return c.VerifyImages }
func (c *Config) GetTracingEnabled() bool       { return c.TracingEnabled }
func (c *Config) GetZipkinURL() string          { return c.ZipkinURL }

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool { return c.Env == "production" }
