package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFrom_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
}

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultConfig()
	cfg.General.DefaultPipeline = "handover"
	cfg.General.Currency = "USD"
	cfg.Appearance.Theme = "tokyo-night"
	cfg.Server.Addr = ":9000"

	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got != cfg {
		t.Fatalf("got %+v, want %+v", got, cfg)
	}
}

func TestLoadFrom_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[appearance]\ntheme = \"terminal\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Appearance.Theme != "terminal" {
		t.Errorf("Theme = %q", cfg.Appearance.Theme)
	}
	if cfg.General.Currency != "KES" || cfg.Server.Addr != "127.0.0.1:8790" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name, body, want string
	}{
		{"bad toml", "[general\n", "parsing config"},
		{"unknown pipeline", "[general]\ndefault_pipeline = \"rental\"\n", "default_pipeline"},
		{"unknown theme", "[appearance]\ntheme = \"solarized\"\n", "theme"},
		{"bad currency", "[general]\ncurrency = \"shillings\"\n", "currency"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.body), 0o600); err != nil {
				t.Fatal(err)
			}
			_, err := LoadFrom(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestDatabasePath(t *testing.T) {
	t.Setenv("PROPLIFE_DB", "")
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")

	cfg := DefaultConfig()
	if got := DatabasePath(cfg); got != filepath.Join("/tmp/xdg-data", "proplife", "properties.db") {
		t.Errorf("default DatabasePath = %q", got)
	}

	cfg.General.Database = "/srv/props.db"
	if got := DatabasePath(cfg); got != "/srv/props.db" {
		t.Errorf("configured DatabasePath = %q", got)
	}

	t.Setenv("PROPLIFE_DB", "/env/props.db")
	if got := DatabasePath(cfg); got != "/env/props.db" {
		t.Errorf("env DatabasePath = %q", got)
	}
}

func TestConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
	if got := ConfigPath(); got != filepath.Join("/tmp/xdg-config", "proplife", "config.toml") {
		t.Errorf("ConfigPath = %q", got)
	}
}

func TestValidateCurrency(t *testing.T) {
	for _, ok := range []string{"KES", "USD"} {
		if err := ValidateCurrency(ok); err != nil {
			t.Errorf("ValidateCurrency(%q) = %v", ok, err)
		}
	}
	for _, bad := range []string{"", "kes", "KSH1", "Ksh"} {
		if err := ValidateCurrency(bad); err == nil {
			t.Errorf("ValidateCurrency(%q) should fail", bad)
		}
	}
}

func TestValidate_AcceptsEveryTheme(t *testing.T) {
	for _, name := range ThemeNames {
		cfg := DefaultConfig()
		cfg.Appearance.Theme = name
		if err := cfg.Validate(); err != nil {
			t.Errorf("theme %q: %v", name, err)
		}
	}
}
