/*
Package config loads the time bank's TOML configuration.

FILE FORMAT:
  [server]
  port = 8080
  allowed_origins = ["http://localhost:5173"]

  [database]
  path = "./data/timebank.db"      # ":memory:" for a throwaway ledger

  [interest]
  enabled = true
  check_interval = "1h"

  [encouragement]
  provider = "gemini"              # or "static"
  model = "gemini-2.5-flash"
  api_key_env = "GEMINI_API_KEY"
  timeout = "10s"

  [[subjects]]
  id = "seoa"
  name = "Seoa"
  theme = "rose"
  avatar = "👧🏻"

  Values missing from the file keep their defaults. A missing file is not
  an error. Subjects, when listed, replace the default pair entirely.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/warp/timebank/household"
)

// Encouragement providers.
const (
	ProviderGemini = "gemini"
	ProviderStatic = "static"
)

type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Interest      InterestConfig      `toml:"interest"`
	Encouragement EncouragementConfig `toml:"encouragement"`
	Subjects      []household.Profile `toml:"subjects"`
}

type ServerConfig struct {
	Port           int      `toml:"port"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type InterestConfig struct {
	Enabled       bool   `toml:"enabled"`
	CheckInterval string `toml:"check_interval"`
}

type EncouragementConfig struct {
	Provider  string `toml:"provider"`
	Model     string `toml:"model"`
	APIKeyEnv string `toml:"api_key_env"`
	Timeout   string `toml:"timeout"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Database: DatabaseConfig{Path: "./data/timebank.db"},
		Interest: InterestConfig{
			Enabled:       true,
			CheckInterval: "1h",
		},
		Encouragement: EncouragementConfig{
			Provider:  ProviderGemini,
			Model:     "gemini-2.5-flash",
			APIKeyEnv: "GEMINI_API_KEY",
			Timeout:   "10s",
		},
		Subjects: household.DefaultProfiles(),
	}
}

// Load reads path over the defaults. An empty path or a missing file
// yields Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(string(data))
}

// Parse decodes TOML text over the defaults and validates the result.
func Parse(text string) (Config, error) {
	cfg := Default()
	defaults := cfg.Subjects
	cfg.Subjects = nil

	if _, err := toml.Decode(text, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if len(cfg.Subjects) == 0 {
		cfg.Subjects = defaults
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and duration strings.
func (c Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Database.Path == "" {
		return errors.New("database.path is required")
	}
	if _, err := c.Interest.Interval(); err != nil {
		return err
	}
	if _, err := c.Encouragement.TimeoutDuration(); err != nil {
		return err
	}
	switch c.Encouragement.Provider {
	case ProviderGemini, ProviderStatic:
	default:
		return fmt.Errorf("encouragement.provider %q must be %q or %q",
			c.Encouragement.Provider, ProviderGemini, ProviderStatic)
	}

	seen := make(map[string]bool, len(c.Subjects))
	for _, s := range c.Subjects {
		if s.ID == "" || s.Name == "" {
			return errors.New("subjects need an id and a name")
		}
		if seen[string(s.ID)] {
			return fmt.Errorf("subject %q listed twice", s.ID)
		}
		seen[string(s.ID)] = true
	}
	return nil
}

// Interval parses check_interval. It must be positive.
func (c InterestConfig) Interval() (time.Duration, error) {
	d, err := time.ParseDuration(c.CheckInterval)
	if err != nil {
		return 0, fmt.Errorf("interest.check_interval: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("interest.check_interval must be positive, got %s", d)
	}
	return d, nil
}

// TimeoutDuration parses timeout. Zero disables the deadline.
func (c EncouragementConfig) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("encouragement.timeout: %w", err)
	}
	return d, nil
}

// APIKey reads the key from the configured environment variable.
func (c EncouragementConfig) APIKey() string {
	if c.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.APIKeyEnv)
}
