package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/theirongolddev/proplife/internal/model"
)

const appName = "proplife"

// ThemeNames lists the accepted appearance.theme values. The dashboard's
// theme table uses the same names.
var ThemeNames = []string{"flexoki-dark", "catppuccin-mocha", "tokyo-night", "terminal"}

// Config holds all proplife configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Server     ServerConfig     `toml:"server"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	Database        string `toml:"database,omitempty"`
	DefaultPipeline string `toml:"default_pipeline"`
	Currency        string `toml:"currency"`
}

// ServerConfig holds settings for `proplife serve`.
type ServerConfig struct {
	Addr                 string `toml:"addr"`
	ReadHeaderTimeoutSec int    `toml:"read_header_timeout_sec"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultPipeline: "all",
			Currency:        "KES",
		},
		Server: ServerConfig{
			Addr:                 "127.0.0.1:8790",
			ReadHeaderTimeoutSec: 5,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName)
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", appName)
}

// DatabasePath resolves the sqlite path: PROPLIFE_DB, then the config
// value, then the data directory default.
func DatabasePath(cfg Config) string {
	if p := os.Getenv("PROPLIFE_DB"); p != "" {
		return p
	}
	if cfg.General.Database != "" {
		return cfg.General.Database
	}
	return filepath.Join(DataDir(), "properties.db")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads a config file at path, returning defaults if it doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes the config to path, creating its directory.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

var currencyRules = []validation.Rule{
	validation.Required,
	validation.Match(regexp.MustCompile(`^[A-Z]{3}$`)).Error("must be a three-letter ISO 4217 code"),
}

// ValidateCurrency checks a currency code the way Validate does.
func ValidateCurrency(code string) error {
	return validation.Validate(code, currencyRules...)
}

// Validate rejects unknown pipelines, themes and malformed server settings.
func (c Config) Validate() error {
	pipelines := []any{"all"}
	for _, wt := range model.WorkflowTypes {
		pipelines = append(pipelines, string(wt))
	}
	var themes []any
	for _, name := range ThemeNames {
		themes = append(themes, name)
	}

	return validation.Errors{
		"general": validation.ValidateStruct(&c.General,
			validation.Field(&c.General.DefaultPipeline, validation.In(pipelines...)),
			validation.Field(&c.General.Currency, currencyRules...),
		),
		"server": validation.ValidateStruct(&c.Server,
			validation.Field(&c.Server.Addr, validation.Required),
			validation.Field(&c.Server.ReadHeaderTimeoutSec, validation.Min(0)),
		),
		"appearance": validation.ValidateStruct(&c.Appearance,
			validation.Field(&c.Appearance.Theme, validation.In(themes...)),
		),
	}.Filter()
}
