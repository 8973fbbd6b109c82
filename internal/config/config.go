package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	appName = "streamq"

	defaultChunkSize = 64 << 10
	maxChunkSize     = 16 << 20
	defaultUserAgent = "streamq"
	defaultLogLevel  = "info"
	defaultLogFormat = "console"
	defaultLogOutput = "stderr"
)

type Config struct {
	// Cache location (empty means the XDG cache directory)
	Cache CacheConfig `koanf:"cache"`

	// Next-track prefetching
	Prefetch PrefetchConfig `koanf:"prefetch"`

	// HTTP downloader settings
	Download DownloadConfig `koanf:"download"`

	// Logging
	Log LogConfig `koanf:"log"`
}

// CacheConfig holds the audio cache configuration.
type CacheConfig struct {
	Dir string `koanf:"dir"` // e.g., "~/.cache/streamq/AudioCache"
}

// PrefetchConfig holds the prefetch configuration.
type PrefetchConfig struct {
	Enabled *bool `koanf:"enabled"` // prefetch the next stream (default: true)
}

// DownloadConfig holds the HTTP downloader configuration.
type DownloadConfig struct {
	ChunkSize int           `koanf:"chunk_size"` // bytes per cache write (default: 64 KiB, max 16 MiB)
	Timeout   time.Duration `koanf:"timeout"`    // whole-request timeout, e.g. "10m" (default: none)
	UserAgent string        `koanf:"user_agent"` // default: "streamq"
}

// LogConfig holds the logging configuration.
type LogConfig struct {
	Level  string `koanf:"level"`  // "debug", "info", "warn", "error" (default: "info")
	Format string `koanf:"format"` // "console" or "json" (default: "console")
	Output string `koanf:"output"` // "stderr" or a file path (default: "stderr")
}

func Load() (*Config, error) {
	return load(getConfigPaths())
}

func load(configPaths []string) (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	// Expand ~ in cache dir
	if cfg.Cache.Dir != "" {
		cfg.Cache.Dir = expandPath(cfg.Cache.Dir)
	}

	// Expand ~ in log output
	if cfg.Log.Output != "" && cfg.Log.Output != defaultLogOutput {
		cfg.Log.Output = expandPath(cfg.Log.Output)
	}

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/streamq/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appName, "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// PrefetchEnabled returns whether next-track prefetching is on.
func (c *Config) PrefetchEnabled() bool {
	return c.Prefetch.Enabled == nil || *c.Prefetch.Enabled
}

// GetDownloadConfig returns the downloader configuration with defaults applied.
func (c *Config) GetDownloadConfig() DownloadConfig {
	cfg := c.Download

	// Apply defaults
	if cfg.ChunkSize <= 0 || cfg.ChunkSize > maxChunkSize {
		cfg.ChunkSize = defaultChunkSize
	}
	if cfg.Timeout < 0 {
		cfg.Timeout = 0
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	return cfg
}

// GetLogConfig returns the logging configuration with defaults applied.
func (c *Config) GetLogConfig() LogConfig {
	cfg := c.Log

	cfg.Level = strings.ToLower(strings.TrimSpace(cfg.Level))
	if cfg.Level == "" {
		cfg.Level = defaultLogLevel
	}
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	if cfg.Format != "json" {
		cfg.Format = defaultLogFormat
	}
	if cfg.Output == "" {
		cfg.Output = defaultLogOutput
	}

	return cfg
}
