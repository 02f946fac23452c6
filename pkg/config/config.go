// Package config provides configuration loading and validation for the
// lineforge versioning core and its CLI front end.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/lineforge/lineforge/pkg/units"
)

// Sentinel validation errors.
var (
	ErrInvalidEOL              = errors.New("default eol must be \\n or \\r\\n")
	ErrInvalidCacheEntries     = errors.New("cache max entries must be positive")
	ErrInvalidCacheBytes       = errors.New("cache max bytes must be positive")
	ErrInvalidTagBloomEstimate = errors.New("tag bloom estimate must be positive")
	ErrInvalidStorageDir       = errors.New("storage directory must not be empty")
)

// Default configuration values.
const (
	defaultEOL              = "\n"
	defaultCacheMaxEntries  = 512
	defaultCacheMaxBytes    = 64 * units.MiB
	defaultTagBloomEstimate = 10000
	defaultTagBloomFPRate   = 0.01
	defaultCheckpointMaxAge = 30 * 24 * time.Hour
)

// Config holds all configuration for a lineforge session.
type Config struct {
	Storage    StorageConfig    `mapstructure:"storage"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Timeline   TimelineConfig   `mapstructure:"timeline"`
	Tags       TagsConfig       `mapstructure:"tags"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Checkpoint CheckpointConfig `mapstructure:"checkpoint"`
}

// StorageConfig controls where session state is persisted.
type StorageConfig struct {
	Directory string `mapstructure:"directory"`
}

// CacheConfig controls the in-process rendered-text cache.
type CacheConfig struct {
	MaxEntries int  `mapstructure:"max_entries"`
	MaxBytes   int  `mapstructure:"max_bytes"`
	Enabled    bool `mapstructure:"enabled"`
}

// TimelineConfig controls defaults applied when a File is imported.
type TimelineConfig struct {
	DefaultEOL string `mapstructure:"default_eol"`
}

// TagsConfig controls the tag registry's membership pre-check.
type TagsConfig struct {
	BloomEstimate          uint    `mapstructure:"bloom_estimate"`
	BloomFalsePositiveRate float64 `mapstructure:"bloom_fp_rate"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// CheckpointConfig controls on-disk snapshot retention.
type CheckpointConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Dir     string        `mapstructure:"dir"`
	MaxAge  time.Duration `mapstructure:"max_age"`
}

// LoadConfig loads configuration from file and environment variables.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("lineforge")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("/etc/lineforge")
	}

	viperCfg.SetEnvPrefix("LINEFORGE")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("storage.directory", "")

	viperCfg.SetDefault("cache.enabled", true)
	viperCfg.SetDefault("cache.max_entries", defaultCacheMaxEntries)
	viperCfg.SetDefault("cache.max_bytes", defaultCacheMaxBytes)

	viperCfg.SetDefault("timeline.default_eol", defaultEOL)

	viperCfg.SetDefault("tags.bloom_estimate", defaultTagBloomEstimate)
	viperCfg.SetDefault("tags.bloom_fp_rate", defaultTagBloomFPRate)

	viperCfg.SetDefault("logging.level", "info")
	viperCfg.SetDefault("logging.format", "json")
	viperCfg.SetDefault("logging.output", "stdout")

	viperCfg.SetDefault("checkpoint.enabled", true)
	viperCfg.SetDefault("checkpoint.dir", "")
	viperCfg.SetDefault("checkpoint.max_age", defaultCheckpointMaxAge)
}

// validateConfig validates the configuration.
func validateConfig(config *Config) error {
	if config.Timeline.DefaultEOL != "\n" && config.Timeline.DefaultEOL != "\r\n" {
		return fmt.Errorf("%w: %q", ErrInvalidEOL, config.Timeline.DefaultEOL)
	}

	if config.Cache.Enabled && config.Cache.MaxEntries <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCacheEntries, config.Cache.MaxEntries)
	}

	if config.Cache.Enabled && config.Cache.MaxBytes <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCacheBytes, config.Cache.MaxBytes)
	}

	if config.Tags.BloomEstimate == 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTagBloomEstimate, config.Tags.BloomEstimate)
	}

	return nil
}
