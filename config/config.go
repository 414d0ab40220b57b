// Package config loads service settings from an optional YAML file, an
// optional .env file and the process environment, in increasing precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every setting the service and CLI read at startup.
type Config struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`

	LogLevel    string   `yaml:"log_level"`
	CORSOrigins []string `yaml:"cors_origins"`

	SerperAPIKey  string `yaml:"serper_api_key"`
	YouTubeAPIKey string `yaml:"youtube_api_key"`

	EmbeddingAPIKey  string `yaml:"embedding_api_key"`
	EmbeddingBaseURL string `yaml:"embedding_base_url"`
	EmbeddingModel   string `yaml:"embedding_model"`

	DatabaseURL     string        `yaml:"database_url"`
	RedisURL        string        `yaml:"redis_url"`
	CacheTTL        time.Duration `yaml:"cache_ttl"`
	CacheMaxEntries int           `yaml:"cache_max_entries"`

	HTTPTimeout       time.Duration `yaml:"http_timeout"`
	ProviderRPS       float64       `yaml:"provider_rps"`
	BrowserFetch      bool          `yaml:"browser_fetch"`
	SearchLimit       int           `yaml:"search_limit"`
	RephraseMax       int           `yaml:"rephrase_max"`
	EnrichConcurrency int           `yaml:"enrich_concurrency"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		Host:              "0.0.0.0",
		Port:              "8080",
		LogLevel:          "info",
		CORSOrigins:       []string{"*"},
		EmbeddingModel:    "text-embedding-3-small",
		CacheTTL:          15 * time.Minute,
		CacheMaxEntries:   1000,
		HTTPTimeout:       15 * time.Second,
		ProviderRPS:       5,
		SearchLimit:       10,
		RephraseMax:       8,
		EnrichConcurrency: 4,
	}
}

// Load builds a Config. path may be empty; a missing .env file is ignored.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// .env is for local dev only
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	cfg.DatabaseURL = NormalizeDatabaseURL(cfg.DatabaseURL)
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	c.Host = envStr("HOST", c.Host)
	c.Port = envStr("PORT", c.Port)
	c.LogLevel = envStr("LOG_LEVEL", c.LogLevel)
	c.CORSOrigins = envList("CORS_ORIGINS", c.CORSOrigins)

	// API_KEY is the historical name of the Serper key.
	c.SerperAPIKey = envStr("SERPER_API_KEY", envStr("API_KEY", c.SerperAPIKey))
	c.YouTubeAPIKey = envStr("YOUTUBE_API_KEY", c.YouTubeAPIKey)

	c.EmbeddingAPIKey = envStr("EMBEDDING_API_KEY", c.EmbeddingAPIKey)
	c.EmbeddingBaseURL = envStr("EMBEDDING_BASE_URL", c.EmbeddingBaseURL)
	c.EmbeddingModel = envStr("EMBEDDING_MODEL", c.EmbeddingModel)

	c.DatabaseURL = envStr("DATABASE_URL", c.DatabaseURL)
	c.RedisURL = envStr("REDIS_URL", c.RedisURL)

	var err error
	if c.CacheTTL, err = envDuration("CACHE_TTL", c.CacheTTL); err != nil {
		return err
	}
	if c.CacheMaxEntries, err = envInt("CACHE_MAX_ENTRIES", c.CacheMaxEntries); err != nil {
		return err
	}
	if c.HTTPTimeout, err = envDuration("HTTP_TIMEOUT", c.HTTPTimeout); err != nil {
		return err
	}
	if c.ProviderRPS, err = envFloat("PROVIDER_RPS", c.ProviderRPS); err != nil {
		return err
	}
	if c.BrowserFetch, err = envBool("BROWSER_FETCH", c.BrowserFetch); err != nil {
		return err
	}
	if c.SearchLimit, err = envInt("SEARCH_LIMIT", c.SearchLimit); err != nil {
		return err
	}
	if c.RephraseMax, err = envInt("REPHRASE_MAX", c.RephraseMax); err != nil {
		return err
	}
	if c.EnrichConcurrency, err = envInt("ENRICH_CONCURRENCY", c.EnrichConcurrency); err != nil {
		return err
	}
	return nil
}

// Validate rejects settings the service cannot start with.
func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Port)
	}
	if c.SearchLimit <= 0 || c.SearchLimit > 50 {
		return fmt.Errorf("SEARCH_LIMIT must be within 1..50, got %d", c.SearchLimit)
	}
	if c.RephraseMax <= 0 {
		return fmt.Errorf("REPHRASE_MAX must be positive, got %d", c.RephraseMax)
	}
	if c.EnrichConcurrency <= 0 {
		return fmt.Errorf("ENRICH_CONCURRENCY must be positive, got %d", c.EnrichConcurrency)
	}
	if c.ProviderRPS <= 0 {
		return fmt.Errorf("PROVIDER_RPS must be positive, got %v", c.ProviderRPS)
	}
	return nil
}

// Addr is the listen address.
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}

// NormalizeDatabaseURL rewrites the SQLAlchemy psycopg scheme into one pgx understands.
func NormalizeDatabaseURL(dbURL string) string {
	const sqlalchemyScheme = "postgresql+psycopg:"
	if strings.HasPrefix(dbURL, sqlalchemyScheme) {
		return "postgres:" + dbURL[len(sqlalchemyScheme):]
	}
	return dbURL
}

func envStr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func envList(key string, def []string) []string {
	v := envStr(key, "")
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envInt(key string, def int) (int, error) {
	v := envStr(key, "")
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return i, nil
}

func envFloat(key string, def float64) (float64, error) {
	v := envStr(key, "")
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func envBool(key string, def bool) (bool, error) {
	v := envStr(key, "")
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := envStr(key, "")
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
