// Package config loads the gateway configuration from an optional YAML file
// and environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full gateway configuration.
type Config struct {
	HTTPAddr string `yaml:"http_addr"`
	GRPCAddr string `yaml:"grpc_addr"`

	Remote   RemoteConfig   `yaml:"remote"`
	Cache    CacheConfig    `yaml:"cache"`
	SagaLog  SagaLogConfig  `yaml:"saga_log"`
	Calendar CalendarConfig `yaml:"calendar"`
	Log      LogConfig      `yaml:"log"`
	Tracing  TracingConfig  `yaml:"tracing"`

	// Technicians are the selectable profiles.
	Technicians []string `yaml:"technicians"`
}

type RemoteConfig struct {
	// BaseURL of the work order server, or "memory" for an in-process store.
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	// WeeklyConcurrency bounds parallel fetches when building a weekly view.
	WeeklyConcurrency int           `yaml:"weekly_concurrency"`
	HealthInterval    time.Duration `yaml:"health_interval"`
}

type CacheConfig struct {
	// RedisAddr empty keeps the catalog cache in process.
	RedisAddr  string        `yaml:"redis_addr"`
	CatalogTTL time.Duration `yaml:"catalog_ttl"`
}

type SagaLogConfig struct {
	Path string `yaml:"path"`
}

type CalendarConfig struct {
	Timezone string `yaml:"timezone"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type TracingConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		HTTPAddr: ":8080",
		GRPCAddr: ":9090",
		Remote: RemoteConfig{
			BaseURL:           "http://10.0.0.63:8000",
			Timeout:           15 * time.Second,
			WeeklyConcurrency: 8,
			HealthInterval:    30 * time.Second,
		},
		Cache: CacheConfig{
			CatalogTTL: 10 * time.Minute,
		},
		SagaLog:     SagaLogConfig{Path: "./data/sagalog.db"},
		Calendar:    CalendarConfig{Timezone: "America/Toronto"},
		Log:         LogConfig{Level: "info"},
		Tracing:     TracingConfig{ServiceName: "workorder-gateway"},
		Technicians: []string{"Vidy", "Subas"},
	}
}

// PathEnv names the environment variable holding the optional YAML file.
const PathEnv = "WORKORDERS_CONFIG"

// LoadFromEnv loads the file named by PathEnv, if any.
func LoadFromEnv() (*Config, error) {
	return Load(os.Getenv(PathEnv))
}

// Load reads path (when non-empty) over the defaults, then applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %q: %w", path, err)
		}
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	c.HTTPAddr = getEnv("HTTP_ADDR", c.HTTPAddr)
	c.GRPCAddr = getEnv("GRPC_ADDR", c.GRPCAddr)
	c.Remote.BaseURL = getEnv("REMOTE_BASE_URL", c.Remote.BaseURL)
	c.Cache.RedisAddr = getEnv("REDIS_ADDR", c.Cache.RedisAddr)
	c.SagaLog.Path = getEnv("SAGALOG_PATH", c.SagaLog.Path)
	c.Calendar.Timezone = getEnv("TIMEZONE", c.Calendar.Timezone)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Tracing.ServiceName = getEnv("OTEL_SERVICE_NAME", c.Tracing.ServiceName)

	if v := os.Getenv("TRACING_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: TRACING_ENABLED: %w", err)
		}
		c.Tracing.Enabled = enabled
	}
	if v := os.Getenv("REMOTE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: REMOTE_TIMEOUT: %w", err)
		}
		c.Remote.Timeout = d
	}
	if v := os.Getenv("TECHNICIANS"); v != "" {
		var names []string
		for _, n := range strings.Split(v, ",") {
			if n = strings.TrimSpace(n); n != "" {
				names = append(names, n)
			}
		}
		c.Technicians = names
	}
	return nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Remote.BaseURL == "" {
		errs = append(errs, errors.New("remote.base_url is required"))
	}
	if c.Remote.Timeout <= 0 {
		errs = append(errs, errors.New("remote.timeout must be positive"))
	}
	if c.Remote.WeeklyConcurrency <= 0 {
		errs = append(errs, errors.New("remote.weekly_concurrency must be positive"))
	}
	if c.Cache.CatalogTTL <= 0 {
		errs = append(errs, errors.New("cache.catalog_ttl must be positive"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Location resolves the calendar timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Calendar.Timezone)
	if err != nil {
		return nil, fmt.Errorf("calendar.timezone %q: %w", c.Calendar.Timezone, err)
	}
	return loc, nil
}

// UsesMemoryStore reports whether the remote server is replaced by the
// in-process store.
func (c *Config) UsesMemoryStore() bool {
	return c.Remote.BaseURL == "memory"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
