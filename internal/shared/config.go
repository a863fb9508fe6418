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
	Fetch    FetchConfig    `toml:"fetch"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Matching MatchingConfig `toml:"matching"`
	Filter   FilterConfig   `toml:"filter"`
	Parser   ParserConfig   `toml:"parser"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
}

// FetchConfig contains playlist page fetch settings.
type FetchConfig struct {
	UserAgent      string `toml:"user_agent"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	ShowHost       string `toml:"show_host"` // host used to expand numeric show IDs
}

// CatalogConfig contains catalog service settings.
type CatalogConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials and search settings.
type SpotifyConfig struct {
	ClientID       string  `toml:"client_id"`
	ClientSecret   string  `toml:"client_secret"`
	Market         string  `toml:"market"`
	Limit          int     `toml:"limit"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	Workers        int     `toml:"workers"`
	RatePerSecond  float64 `toml:"rate_per_second"`
}

// Configured reports whether both credentials are present.
func (s SpotifyConfig) Configured() bool {
	return s.ClientID != "" && s.ClientSecret != ""
}

// MatchingConfig contains match score thresholds.
type MatchingConfig struct {
	ConfirmedAt int `toml:"confirmed_at"`
	UncertainAt int `toml:"uncertain_at"`
}

// FilterConfig contains the row classifier denylist.
type FilterConfig struct {
	Denylist []string `toml:"denylist"`
}

// ParserConfig contains selector overrides for the playlist parser.
type ParserConfig struct {
	Tables        []string `toml:"tables"`
	ArtistHeaders []string `toml:"artist_headers"`
	TitleHeaders  []string `toml:"title_headers"`
	Artists       []string `toml:"artists"`
	Titles        []string `toml:"titles"`
	Rows          []string `toml:"rows"`
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

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// FetchTimeout returns the page fetch timeout.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// SearchTimeout returns the per-query catalog timeout.
func (c *Config) SearchTimeout() time.Duration {
	return time.Duration(c.Catalog.Spotify.TimeoutSeconds) * time.Second
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// Validate checks values that would otherwise fail later at run time.
func (c *Config) Validate() error {
	if c.Fetch.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: fetch.timeout_seconds must be positive", ErrInvalidConfig)
	}
	if c.Matching.UncertainAt > c.Matching.ConfirmedAt {
		return fmt.Errorf("%w: matching.uncertain_at exceeds confirmed_at", ErrInvalidConfig)
	}
	if c.Catalog.Spotify.Limit < 0 || c.Catalog.Spotify.Workers < 0 {
		return fmt.Errorf("%w: catalog limits must not be negative", ErrInvalidConfig)
	}
	return nil
}

// ApplyEnv overrides Spotify credentials from SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET when set.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.Catalog.Spotify.ClientID = v
	}
	if v := getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Catalog.Spotify.ClientSecret = v
	}
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
