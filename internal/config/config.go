// Package config loads application configuration with layered sources:
// built-in defaults, an optional YAML file, then environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "RESONATE_CONFIG"

// envPrefix namespaces the environment variables this service reads.
const envPrefix = "RESONATE_"

// DefaultConfigPaths are consulted in order when RESONATE_CONFIG is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"/etc/resonate/config.yaml",
}

// Config holds all application configuration. Immutable after Load and
// safe for concurrent reads.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Spotify SpotifyConfig `koanf:"spotify"`
	Cache   CacheConfig   `koanf:"cache"`
	Engine  EngineConfig  `koanf:"engine"`
	Logging LoggingConfig `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// SpotifyConfig holds catalog credentials and transport tuning. Either
// AccessToken or ClientID/ClientSecret must be set.
type SpotifyConfig struct {
	BaseURL      string `koanf:"base_url"`
	AccessToken  string `koanf:"access_token"`
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`

	Timeout      time.Duration `koanf:"timeout"`
	MaxRetries   int           `koanf:"max_retries"`
	RetryBackoff time.Duration `koanf:"retry_backoff"`

	RateLimitRPS   float64 `koanf:"rate_limit_rps"`
	RateLimitBurst int     `koanf:"rate_limit_burst"`
}

// CacheConfig holds the audio feature cache settings.
type CacheConfig struct {
	Enabled   bool          `koanf:"enabled"`
	Path      string        `koanf:"path"`
	TTL       time.Duration `koanf:"ttl"`
	Workers   int           `koanf:"workers"`
	QueueSize int           `koanf:"queue_size"`
}

// EngineConfig tunes the similarity engine.
type EngineConfig struct {
	CandidatePool int `koanf:"candidate_pool"`
	FanOut        int `koanf:"fan_out"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Spotify: SpotifyConfig{
			Timeout:        30 * time.Second,
			MaxRetries:     3,
			RetryBackoff:   500 * time.Millisecond,
			RateLimitRPS:   10,
			RateLimitBurst: 5,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Path:      "resonate.db",
			TTL:       24 * time.Hour,
			Workers:   2,
			QueueSize: 256,
		},
		Engine: EngineConfig{
			CandidatePool: 500,
			FanOut:        5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration with precedence ENV > file > defaults.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// RESONATE_SPOTIFY_CLIENT_ID -> spotify.client_id
	envProvider := env.Provider(envPrefix, ".", envTransform)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks the loaded configuration for internal consistency.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Spotify.AccessToken == "" && c.Spotify.ClientID == "" {
		return fmt.Errorf("spotify credentials required: set spotify.access_token or spotify.client_id")
	}
	if c.Spotify.ClientID != "" && c.Spotify.ClientSecret == "" && c.Spotify.AccessToken == "" {
		return fmt.Errorf("spotify.client_secret required with spotify.client_id")
	}
	if c.Cache.Enabled && c.Cache.Path == "" {
		return fmt.Errorf("cache.path required when cache is enabled")
	}
	if c.Engine.CandidatePool < 1 {
		return fmt.Errorf("engine.candidate_pool must be positive, got %d", c.Engine.CandidatePool)
	}
	if c.Engine.FanOut < 1 {
		return fmt.Errorf("engine.fan_out must be positive, got %d", c.Engine.FanOut)
	}
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of trace, debug, info, warn, error; got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// envTransform maps RESONATE_SECTION_SOME_KEY to section.some_key. The
// first underscore separates the section; the rest keep underscores so
// multi-word keys round-trip.
func envTransform(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	parts := strings.SplitN(s, "_", 2)
	if len(parts) != 2 {
		return s
	}
	return parts[0] + "." + parts[1]
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
