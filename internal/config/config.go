package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ironsheep/image-enhance-mcp/internal/enhance"
	"github.com/ironsheep/image-enhance-mcp/internal/imaging"
	"github.com/ironsheep/image-enhance-mcp/internal/vision"
)

const appName = "image-enhance"

// EnvPrefix is the prefix of environment overrides. Nested keys use a double
// underscore, e.g. IMAGE_ENHANCE_AZURE__API_KEY sets azure.api_key.
const EnvPrefix = "IMAGE_ENHANCE_"

// Log levels.
const (
	LogDebug = "debug"
	LogInfo  = "info"
	LogQuiet = "quiet"
)

type Config struct {
	LogLevel       string `koanf:"log_level"`        // "debug", "info" or "quiet" (default: "info")
	MaxUploadBytes int64  `koanf:"max_upload_bytes"` // largest accepted upload (default: 10 MiB)

	// Azure Computer Vision credentials used for background removal when a
	// request does not carry its own.
	Azure AzureConfig `koanf:"azure"`

	Batch BatchConfig `koanf:"batch"`
}

// AzureConfig holds the remote vision provider settings.
type AzureConfig struct {
	APIKey         string `koanf:"api_key"`
	Location       string `koanf:"location"` // region, e.g. "westeurope"
	Endpoint       string `koanf:"endpoint"` // e.g. "https://myresource.cognitiveservices.azure.com"
	TimeoutSeconds int    `koanf:"timeout_seconds"`
}

// BatchConfig controls image_enhance_batch.
type BatchConfig struct {
	Concurrency int `koanf:"concurrency"` // default: 4
}

// Load reads the config files in priority order and applies environment
// overrides on top.
func Load() (*Config, error) {
	return load(getConfigPaths(), true)
}

// LoadFile reads a single config file with environment overrides, skipping
// the default search paths.
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return load([]string{path}, true)
}

func load(paths []string, useEnv bool) (*Config, error) {
	k := koanf.New(".")

	// Last wins.
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", path, err)
			}
		}
	}

	if useEnv {
		if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
			return nil, fmt.Errorf("failed to load environment: %w", err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.Azure.Endpoint = strings.TrimSuffix(strings.TrimSpace(cfg.Azure.Endpoint), "/")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps IMAGE_ENHANCE_AZURE__API_KEY to azure.api_key.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/image-enhance/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),

		// 2. ./image-enhance.toml (pwd, highest priority)
		appName + ".toml",
	}
}

func (c *Config) validate() error {
	switch c.LogLevel {
	case "", LogDebug, LogInfo, LogQuiet:
	default:
		return fmt.Errorf("invalid log_level %q: want debug, info or quiet", c.LogLevel)
	}
	if c.MaxUploadBytes < 0 {
		return fmt.Errorf("invalid max_upload_bytes %d", c.MaxUploadBytes)
	}
	if c.Azure.TimeoutSeconds < 0 {
		return fmt.Errorf("invalid azure.timeout_seconds %d", c.Azure.TimeoutSeconds)
	}
	if c.Batch.Concurrency < 0 {
		return fmt.Errorf("invalid batch.concurrency %d", c.Batch.Concurrency)
	}
	return nil
}

// Level returns the log level with the default applied.
func (c *Config) Level() string {
	if c.LogLevel == "" {
		return LogInfo
	}
	return c.LogLevel
}

// Debug reports whether debug logging is enabled.
func (c *Config) Debug() bool {
	return c.Level() == LogDebug
}

// UploadLimit returns the maximum upload size with the default applied.
func (c *Config) UploadLimit() int64 {
	if c.MaxUploadBytes <= 0 {
		return imaging.MaxUploadBytes
	}
	return c.MaxUploadBytes
}

// HasAzureConfig returns true if background removal credentials are
// configured.
func (c *Config) HasAzureConfig() bool {
	return c.Credentials().Complete()
}

// Credentials returns the configured remote provider credentials.
func (c *Config) Credentials() enhance.Credentials {
	return enhance.Credentials{
		APIKey:   c.Azure.APIKey,
		Location: c.Azure.Location,
		Endpoint: c.Azure.Endpoint,
	}
}

// Timeout returns the remote request timeout with the default applied.
func (c *Config) Timeout() time.Duration {
	if c.Azure.TimeoutSeconds <= 0 {
		return vision.DefaultTimeout
	}
	return time.Duration(c.Azure.TimeoutSeconds) * time.Second
}

// Concurrency returns the batch fan-out limit with the default applied.
func (c *Config) Concurrency() int {
	if c.Batch.Concurrency <= 0 {
		return enhance.DefaultConcurrency
	}
	return c.Batch.Concurrency
}

// NewEnhancer builds an Enhancer wired to Azure Computer Vision.
func (c *Config) NewEnhancer() *enhance.Enhancer {
	return enhance.New(
		enhance.VisionProvider(c.Timeout()),
		enhance.WithConcurrency(c.Concurrency()),
		enhance.WithDebug(c.Debug()),
	)
}
