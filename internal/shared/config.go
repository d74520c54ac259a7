package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Storage  StorageConfig  `toml:"storage"`
	Share    ShareConfig    `toml:"share"`
	Metadata MetadataConfig `toml:"metadata"`
	History  HistoryConfig  `toml:"history"`
	Server   ServerConfig   `toml:"server"`
}

// StorageConfig selects and configures the blob store holding the collection.
type StorageConfig struct {
	Driver  string `toml:"driver"`
	Path    string `toml:"path"`
	Key     string `toml:"key"`
	History int    `toml:"history"`
}

// ShareConfig contains share link defaults.
type ShareConfig struct {
	BaseURL           string `toml:"base_url"`
	Scope             string `toml:"scope"`
	IncludeThumbnails bool   `toml:"include_thumbnails"`
}

// MetadataConfig contains oEmbed lookup settings.
type MetadataConfig struct {
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	AllowPartial      bool    `toml:"allow_partial"`
	UserAgent         string  `toml:"user_agent"`
	YouTubeEndpoint   string  `toml:"youtube_endpoint"`
	VimeoEndpoint     string  `toml:"vimeo_endpoint"`
	FallbackEndpoint  string  `toml:"fallback_endpoint"`
}

// Timeout returns the lookup timeout as a [time.Duration], defaulting to eight seconds.
func (m MetadataConfig) Timeout() time.Duration {
	if m.TimeoutSeconds <= 0 {
		return 8 * time.Second
	}
	return time.Duration(m.TimeoutSeconds) * time.Second
}

// HistoryConfig bounds the undo stack.
type HistoryConfig struct {
	MaxUndo int `toml:"max_undo"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their values from [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %w", ErrMissingConfig, err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %w", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks enumerated and required settings.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "sqlite", "file", "memory":
	default:
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, c.Storage.Driver)
	}

	switch c.Share.Scope {
	case "all", "selected":
	default:
		return fmt.Errorf("%w: unknown share scope %q", ErrInvalidConfig, c.Share.Scope)
	}

	if c.Storage.Key == "" {
		return fmt.Errorf("%w: storage key is required", ErrInvalidConfig)
	}

	return nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
