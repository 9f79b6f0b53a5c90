// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// defaultOllamaBinary is the executable invoked for all local model operations.
	defaultOllamaBinary = "ollama"
	// defaultRegistryURL is the base URL of the public model registry.
	defaultRegistryURL = "https://ollama.com"
	// defaultCacheTTLHours is the freshness window for scraped registry data.
	defaultCacheTTLHours = 24
	// defaultPSRefreshSeconds is the poll interval for the running-process tab.
	defaultPSRefreshSeconds = 5
	// defaultHTTPTimeoutSeconds bounds every registry fetch.
	defaultHTTPTimeoutSeconds = 10
)

// Config represents the top-level application configuration.
type Config struct {
	OllamaBinary       string `json:"ollamaBinary,omitempty" mapstructure:"ollamaBinary"`
	RegistryURL        string `json:"registryUrl,omitempty" mapstructure:"registryUrl"`
	CacheDir           string `json:"cacheDir,omitempty" mapstructure:"cacheDir"`
	CacheTTLHours      int    `json:"cacheTtlHours,omitempty" mapstructure:"cacheTtlHours"`
	PSRefreshSeconds   int    `json:"psRefreshSeconds,omitempty" mapstructure:"psRefreshSeconds"`
	HTTPTimeoutSeconds int    `json:"httpTimeoutSeconds,omitempty" mapstructure:"httpTimeoutSeconds"`
	LogFile            string `json:"logFile,omitempty" mapstructure:"logFile"`
	Debug              bool   `json:"debug" mapstructure:"debug"`
	ConfigPath         string `json:"-" mapstructure:"-"`
}

// Binary returns the configured adapter executable, falling back to the default.
func (c Config) Binary() string {
	if b := strings.TrimSpace(c.OllamaBinary); b != "" {
		return b
	}
	return defaultOllamaBinary
}

// Registry returns the registry base URL, falling back to the default.
func (c Config) Registry() string {
	if u := strings.TrimSpace(c.RegistryURL); u != "" {
		return strings.TrimRight(u, "/")
	}
	return defaultRegistryURL
}

// CacheTTL returns the freshness window for cached registry data.
func (c Config) CacheTTL() time.Duration {
	if c.CacheTTLHours <= 0 {
		return defaultCacheTTLHours * time.Hour
	}
	return time.Duration(c.CacheTTLHours) * time.Hour
}

// PSRefreshInterval returns the poll interval for the running-process source.
func (c Config) PSRefreshInterval() time.Duration {
	if c.PSRefreshSeconds <= 0 {
		return defaultPSRefreshSeconds * time.Second
	}
	return time.Duration(c.PSRefreshSeconds) * time.Second
}

// HTTPTimeout returns the bound applied to every registry fetch.
func (c Config) HTTPTimeout() time.Duration {
	if c.HTTPTimeoutSeconds <= 0 {
		return defaultHTTPTimeoutSeconds * time.Second
	}
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "ollamadash.log"
}

// CachePath returns the cache directory, defaulting to the user cache dir.
func (c Config) CachePath() string {
	if d := strings.TrimSpace(c.CacheDir); d != "" {
		return d
	}
	if base, err := os.UserCacheDir(); err == nil {
		return filepath.Join(base, "ollamadash")
	}
	return ".ollamadash-cache"
}

// Load reads the application configuration from the specified path.
// A missing file is not an error: defaults apply.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err == nil {
		config.ConfigPath = path
		return config, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return Config{}, nil
	}

	return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	if err := ValidateJSON(data); err != nil {
		return Config{}, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, err
	}

	return config, nil
}
