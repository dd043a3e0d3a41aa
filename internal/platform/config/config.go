// Package config loads application configuration from an optional YAML file,
// a .env file and environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr        string   `yaml:"addr"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`
	AlphaVantage struct {
		APIKey         string        `yaml:"api_key"`
		BaseURL        string        `yaml:"base_url"`
		Timeout        time.Duration `yaml:"timeout"`
		RequestsPerMin int           `yaml:"requests_per_minute"`
	} `yaml:"alphavantage"`
	Redis struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Fetch struct {
		CacheTTL   time.Duration `yaml:"cache_ttl"`
		Retries    int           `yaml:"retries"`
		RetryDelay time.Duration `yaml:"retry_delay"`
	} `yaml:"fetch"`
	Dashboard struct {
		DefaultSymbol string  `yaml:"default_symbol"`
		ChartWidth    float64 `yaml:"chart_width"`
		ChartHeight   float64 `yaml:"chart_height"`
	} `yaml:"dashboard"`
}

// Load reads the YAML file at path (missing is fine), loads .env, then applies environment overrides and defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	cfg := &Config{}
	// Zero is a valid retry count, so the default is set before the file is parsed.
	cfg.Fetch.Retries = 2

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

// Path returns the config file location from CONFIG_FILE, defaulting to config.yaml.
func Path() string {
	return envStr("CONFIG_FILE", "config.yaml")
}

func (c *Config) applyEnv() {
	c.Server.Addr = envStr("LISTEN_ADDR", c.Server.Addr)
	if v := os.Getenv("CORS_ALLOW_ORIGINS"); v != "" {
		c.Server.CORSOrigins = splitList(v)
	}

	c.AlphaVantage.APIKey = envStr("ALPHAVANTAGE_API_KEY", c.AlphaVantage.APIKey)
	c.AlphaVantage.BaseURL = envStr("ALPHAVANTAGE_BASE_URL", c.AlphaVantage.BaseURL)
	c.AlphaVantage.Timeout = envDuration("ALPHAVANTAGE_TIMEOUT", c.AlphaVantage.Timeout)
	c.AlphaVantage.RequestsPerMin = envInt("ALPHAVANTAGE_REQUESTS_PER_MINUTE", c.AlphaVantage.RequestsPerMin)

	c.Redis.Host = envStr("REDIS_HOST", c.Redis.Host)
	c.Redis.Port = envStr("REDIS_PORT", c.Redis.Port)
	c.Redis.Password = envStr("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = envInt("REDIS_DB", c.Redis.DB)

	c.Fetch.CacheTTL = envDuration("FETCH_CACHE_TTL", c.Fetch.CacheTTL)
	c.Fetch.Retries = envInt("FETCH_RETRIES", c.Fetch.Retries)
	c.Fetch.RetryDelay = envDuration("FETCH_RETRY_DELAY", c.Fetch.RetryDelay)

	c.Dashboard.DefaultSymbol = envStr("DEFAULT_SYMBOL", c.Dashboard.DefaultSymbol)
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.AlphaVantage.BaseURL == "" {
		c.AlphaVantage.BaseURL = "https://www.alphavantage.co"
	}
	if c.AlphaVantage.Timeout <= 0 {
		c.AlphaVantage.Timeout = 10 * time.Second
	}
	if c.AlphaVantage.RequestsPerMin <= 0 {
		c.AlphaVantage.RequestsPerMin = 5
	}
	if c.Fetch.CacheTTL <= 0 {
		c.Fetch.CacheTTL = 5 * time.Minute
	}
	if c.Fetch.Retries < 0 {
		c.Fetch.Retries = 0
	}
	if c.Fetch.RetryDelay <= 0 {
		c.Fetch.RetryDelay = time.Second
	}
	if c.Dashboard.DefaultSymbol == "" {
		c.Dashboard.DefaultSymbol = "IBM"
	}
	if c.Dashboard.ChartWidth <= 0 {
		c.Dashboard.ChartWidth = 800
	}
	if c.Dashboard.ChartHeight <= 0 {
		c.Dashboard.ChartHeight = 400
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.AlphaVantage.APIKey == "" {
		return fmt.Errorf("ALPHAVANTAGE_API_KEY is required")
	}
	if c.Fetch.Retries > 10 {
		return fmt.Errorf("fetch.retries must be at most 10, got %d", c.Fetch.Retries)
	}
	return nil
}

// RedisEnabled reports whether a Redis host has been configured.
func (c *Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}

// RedisAddr returns host:port, defaulting the port to 6379.
func (c *Config) RedisAddr() string {
	port := c.Redis.Port
	if port == "" {
		port = "6379"
	}
	return c.Redis.Host + ":" + port
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		slog.Warn("ignoring invalid integer env var", "key", key, "value", v)
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		slog.Warn("ignoring invalid duration env var", "key", key, "value", v)
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
