package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v4"
)

// DefaultCSVURL is the published roster sheet.
const DefaultCSVURL = "https://docs.google.com/spreadsheets/d/e/2PACX-1vTIBMlIbnvEfecFbrdQ_1Wxz-2XcGn1XDswoZPwsR3_2_ChYQmcE8ubFDtft5dkJ4dqZde9xOPU5DVI/pub?output=csv"

// Environment variables applied on top of the config file.
const (
	EnvCSVURL   = "DUTYROSTER_CSV_URL"
	EnvTag      = "DUTYROSTER_TAG"
	EnvPort     = "DUTYROSTER_PORT"
	EnvLogLevel = "DUTYROSTER_LOG_LEVEL"
)

// Config represents the application configuration
type Config struct {
	Server ServerConfig `yaml:"server"`
	Roster RosterConfig `yaml:"roster"`
	UI     UIConfig     `yaml:"ui"`
	Log    LogConfig    `yaml:"log"`
}

// UIConfig contains user interface settings
type UIConfig struct {
	// Theme controls the default theme: "system" (default), "light", or "dark".
	Theme string `yaml:"theme"`
	Title string `yaml:"title"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	MaxHeaderBytes int           `yaml:"max_header_bytes"`
	TLS            TLSConfig     `yaml:"tls"`
}

// TLSConfig contains TLS settings
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// RosterConfig describes where the roster comes from and how it is read.
type RosterConfig struct {
	CSVURL       string        `yaml:"csv_url"`
	Tag          string        `yaml:"tag"`
	Timezone     string        `yaml:"timezone"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   30 * time.Second,
			MaxHeaderBytes: 1 << 20, // 1 MB
		},
		Roster: RosterConfig{
			CSVURL:       DefaultCSVURL,
			Tag:          "FGZ",
			Timezone:     "Local",
			FetchTimeout: 20 * time.Second,
		},
		UI: UIConfig{
			Theme: "system",
			Title: "FGZ Duty Roster",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file and applies environment overrides
func Load(path string) (*Config, error) {
	cfg := Default()

	// If config file exists, load it
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overlays the DUTYROSTER_* variables returned by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvCSVURL); ok && strings.TrimSpace(v) != "" {
		c.Roster.CSVURL = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvTag); ok && strings.TrimSpace(v) != "" {
		c.Roster.Tag = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvPort); ok && strings.TrimSpace(v) != "" {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPort, err)
		}
		c.Server.Port = port
	}
	if v, ok := lookup(EnvLogLevel); ok && strings.TrimSpace(v) != "" {
		c.Log.Level = strings.TrimSpace(v)
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.TLS.Enabled {
		if c.Server.TLS.CertFile == "" {
			return fmt.Errorf("TLS cert file is required when TLS is enabled")
		}
		if c.Server.TLS.KeyFile == "" {
			return fmt.Errorf("TLS key file is required when TLS is enabled")
		}
	}

	if c.Roster.CSVURL == "" {
		return fmt.Errorf("roster csv_url is required")
	}
	u, err := url.Parse(c.Roster.CSVURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid roster csv_url: %q (must be an http or https URL)", c.Roster.CSVURL)
	}

	if strings.TrimSpace(c.Roster.Tag) == "" {
		return fmt.Errorf("roster tag is required")
	}

	if c.Roster.FetchTimeout <= 0 {
		return fmt.Errorf("invalid roster fetch_timeout: %s (must be positive)", c.Roster.FetchTimeout)
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	switch c.UI.Theme {
	case "", "system", "light", "dark":
		// ok
	default:
		return fmt.Errorf("invalid ui.theme: %q (must be system, light, or dark)", c.UI.Theme)
	}
	if c.UI.Theme == "" {
		c.UI.Theme = "system"
	}

	if _, err := c.LogLevel(); err != nil {
		return err
	}

	return nil
}

// Location resolves roster.timezone. Empty and "Local" mean the host zone.
func (c *Config) Location() (*time.Location, error) {
	switch tz := strings.TrimSpace(c.Roster.Timezone); tz {
	case "", "Local", "local":
		return time.Local, nil
	default:
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid roster timezone %q: %w", tz, err)
		}
		return loc, nil
	}
}

// LogLevel maps log.level to a slog level.
func (c *Config) LogLevel() (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log.level: %q (must be debug, info, warn, or error)", c.Log.Level)
	}
}

// Save saves the configuration to a YAML file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
