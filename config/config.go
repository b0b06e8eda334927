package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config struct to hold the configuration settings
type Config struct {
	Database      DatabaseConfig      `yaml:"database"`
	NATS          NATSConfig          `yaml:"nats"`
	HTTP          HTTPConfig          `yaml:"http"`
	JWT           JWTConfig           `yaml:"jwt"`
	Queue         QueueConfig         `yaml:"queue"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// DatabaseConfig selects the storage driver. Postgres is required for the
// recalculation queue.
type DatabaseConfig struct {
	Driver     string `yaml:"driver"` // postgres|sqlite
	DSN        string `yaml:"dsn"`
	SQLitePath string `yaml:"sqlite_path"`
}

// NATSConfig holds NATS configuration. An empty URL runs the in-memory bus.
type NATSConfig struct {
	URL        string        `yaml:"url"`
	QueueGroup string        `yaml:"queue_group"`
	AckWait    time.Duration `yaml:"ack_wait"`
}

// HTTPConfig holds the API listener settings.
type HTTPConfig struct {
	Address        string   `yaml:"address"`
	PublicBaseURL  string   `yaml:"public_base_url"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	RatePerSecond  float64  `yaml:"rate_per_second"`
	RateBurst      int      `yaml:"rate_burst"`

	// Scorer limits apply per token subject and game. Zero falls back to
	// the public limits.
	ScorerRatePerSecond float64 `yaml:"scorer_rate_per_second"`
	ScorerRateBurst     int     `yaml:"scorer_rate_burst"`
}

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	Secret     string        `yaml:"secret"`
	Issuer     string        `yaml:"issuer"`
	DefaultTTL time.Duration `yaml:"default_ttl"`
}

// QueueConfig toggles the river recalculation queue.
type QueueConfig struct {
	Enabled bool `yaml:"enabled"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	MetricsAddress string `yaml:"metrics_address"`
	Environment    string `yaml:"environment"`
	LogLevel       string `yaml:"log_level"`
	ServiceName    string `yaml:"service_name"`
}

// Default returns the settings used for anything not configured.
func Default() Config {
	return Config{
		Database: DatabaseConfig{Driver: "postgres", SQLitePath: "golf.db"},
		NATS:     NATSConfig{QueueGroup: "golf-scorecard", AckWait: 30 * time.Second},
		HTTP: HTTPConfig{
			Address:       ":8080",
			PublicBaseURL: "http://localhost:8080",
			RatePerSecond: 10,
			RateBurst:     20,
		},
		JWT: JWTConfig{Issuer: "golf-scorecard", DefaultTTL: 24 * time.Hour},
		Observability: ObservabilityConfig{
			Environment: "development",
			LogLevel:    "info",
			ServiceName: "golf-scorecard",
		},
	}
}

// LoadConfig loads the configuration from a YAML file, then applies
// environment overrides. A missing file falls back to environment only.
func LoadConfig(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv overrides cfg with any environment variables that are set.
func applyEnv(cfg *Config) error {
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("NATS_QUEUE_GROUP"); v != "" {
		cfg.NATS.QueueGroup = v
	}
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("PUBLIC_BASE_URL"); v != "" {
		cfg.HTTP.PublicBaseURL = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("RATE_PER_SECOND"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid RATE_PER_SECOND value: %v", err)
		}
		cfg.HTTP.RatePerSecond = f
	}
	if v := os.Getenv("RATE_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RATE_BURST value: %v", err)
		}
		cfg.HTTP.RateBurst = n
	}
	if v := os.Getenv("SCORER_RATE_PER_SECOND"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid SCORER_RATE_PER_SECOND value: %v", err)
		}
		cfg.HTTP.ScorerRatePerSecond = f
	}
	if v := os.Getenv("SCORER_RATE_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SCORER_RATE_BURST value: %v", err)
		}
		cfg.HTTP.ScorerRateBurst = n
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("JWT_ISSUER"); v != "" {
		cfg.JWT.Issuer = v
	}
	if v := os.Getenv("JWT_DEFAULT_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid JWT_DEFAULT_TTL value: %v", err)
		}
		cfg.JWT.DefaultTTL = d
	}
	if v := os.Getenv("QUEUE_ENABLED"); v != "" {
		cfg.Queue.Enabled = v == "true"
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Observability.MetricsAddress = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	return nil
}

// Validate checks settings that would otherwise fail at startup.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("DATABASE_URL must be set for the postgres driver")
		}
	case "sqlite":
		if c.Queue.Enabled {
			return fmt.Errorf("the recalculation queue requires the postgres driver")
		}
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	return nil
}

// IsProduction reports whether logs should be JSON.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Observability.Environment)
	return env == "production" || env == "prod"
}
