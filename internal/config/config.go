// Package config loads megaverse settings from defaults, an optional file and the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/aretw0/megaverse/pkg/backoff"
	"github.com/aretw0/megaverse/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Config holds every tunable of a synchronization run.
type Config struct {
	CandidateID    string        `mapstructure:"candidate_id"`
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxRetries     int           `mapstructure:"max_retries"`
	BaseDelay      time.Duration `mapstructure:"base_delay"`
	MaxJitter      time.Duration `mapstructure:"max_jitter"`
	LogLevel       string        `mapstructure:"log_level"`
	LogFormat      string        `mapstructure:"log_format"`
	RedisAddr      string        `mapstructure:"redis_addr"`
	LockTTL        time.Duration `mapstructure:"lock_ttl"`
	MetricsAddr    string        `mapstructure:"metrics_addr"`
}

// envKeys maps environment variables to config keys.
var envKeys = map[string]string{
	"CANDIDATE_ID":              "candidate_id",
	"MEGAVERSE_BASE_URL":        "base_url",
	"MEGAVERSE_REQUEST_TIMEOUT": "request_timeout",
	"MEGAVERSE_MAX_RETRIES":     "max_retries",
	"MEGAVERSE_BASE_DELAY":      "base_delay",
	"MEGAVERSE_MAX_JITTER":      "max_jitter",
	"MEGAVERSE_LOG_LEVEL":       "log_level",
	"MEGAVERSE_LOG_FORMAT":      "log_format",
	"MEGAVERSE_REDIS_ADDR":      "redis_addr",
	"MEGAVERSE_LOCK_TTL":        "lock_ttl",
	"MEGAVERSE_METRICS_ADDR":    "metrics_addr",
}

// Default returns the built-in settings.
func Default() Config {
	p := backoff.DefaultPolicy()
	return Config{
		BaseURL:        "https://challenge.crossmint.io",
		RequestTimeout: 30 * time.Second,
		MaxRetries:     p.MaxRetries,
		BaseDelay:      p.BaseDelay,
		MaxJitter:      p.MaxJitter,
		LogLevel:       "info",
		LogFormat:      "text",
		LockTTL:        15 * time.Minute,
	}
}

// Load applies, in order, the defaults, the file at path (if non-empty) and the environment.
func Load(path string) (Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := readFile(path)
		if err != nil {
			return cfg, err
		}
		if err := decode(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
	}

	env := make(map[string]any)
	for name, key := range envKeys {
		if v, ok := lookup(name); ok && v != "" {
			env[key] = v
		}
	}
	if err := decode(env, &cfg); err != nil {
		return cfg, fmt.Errorf("config from environment: %w", err)
	}
	return cfg, nil
}

func readFile(path string) (map[string]any, error) {
	raw := make(map[string]any)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, &raw); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	case ".yaml", ".yml", ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	return raw, nil
}

func decode(input map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// Validate checks the settings that every command depends on.
func (c Config) Validate() error {
	var errs []error
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("base_url %q must be an absolute http(s) URL", c.BaseURL))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request_timeout must be positive"))
	}
	if c.MaxRetries < 0 {
		errs = append(errs, errors.New("max_retries must not be negative"))
	}
	if c.BaseDelay < 0 || c.MaxJitter < 0 {
		errs = append(errs, errors.New("base_delay and max_jitter must not be negative"))
	}
	if c.LockTTL <= 0 {
		errs = append(errs, errors.New("lock_ttl must be positive"))
	}
	return errors.Join(errs...)
}

// RequireCandidate fails when no candidate identifier is configured.
func (c Config) RequireCandidate() error {
	if strings.TrimSpace(c.CandidateID) == "" {
		return fmt.Errorf("%w: set CANDIDATE_ID or pass --candidate", domain.ErrCandidateRequired)
	}
	return nil
}

// Policy returns the retry policy described by the config.
func (c Config) Policy() backoff.Policy {
	return backoff.Policy{MaxRetries: c.MaxRetries, BaseDelay: c.BaseDelay, MaxJitter: c.MaxJitter}
}
