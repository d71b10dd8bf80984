package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/digestiflow/flowsheet/pkg/errors"
)

// clearEnv unsets the variables LoadConfig reads for the duration of a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"FLOWSHEET_CATALOG_URL", "FLOWSHEET_CATALOG_DIR", "FLOWSHEET_CATALOG_TTL",
		"FLOWSHEET_SPARE_ROWS", "FLOWSHEET_CORS_ORIGINS", "FLOWSHEET_API_KEY",
		"FLOWSHEET_LISTEN", "FLOWSHEET_LOG_LEVEL", "LOG_LEVEL", "NO_COLOR",
	} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
}

// TestLoadConfig verifies the defaults.
func TestLoadConfig(t *testing.T) {
	clearEnv(t)

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if config.SpareRows != 3 {
		t.Errorf("SpareRows = %d, want 3", config.SpareRows)
	}
	if config.CatalogTTL != 5*time.Minute {
		t.Errorf("CatalogTTL = %s, want 5m", config.CatalogTTL)
	}
	if config.Listen != ":8080" {
		t.Errorf("Listen = %s, want :8080", config.Listen)
	}
	if config.LogFormat != "auto" || config.LogOutput != "stderr" {
		t.Errorf("log settings = %s/%s, want auto/stderr", config.LogFormat, config.LogOutput)
	}
}

// TestConfig_EnvironmentVariables verifies FLOWSHEET_* variables.
func TestConfig_EnvironmentVariables(t *testing.T) {
	clearEnv(t)
	t.Setenv("FLOWSHEET_CATALOG_URL", "https://flowcells.example.org")
	t.Setenv("FLOWSHEET_SPARE_ROWS", "1")
	t.Setenv("FLOWSHEET_CATALOG_TTL", "30s")
	t.Setenv("FLOWSHEET_CORS_ORIGINS", "https://a.example, https://b.example")

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if config.CatalogURL != "https://flowcells.example.org" {
		t.Errorf("CatalogURL = %s", config.CatalogURL)
	}
	if config.SpareRows != 1 {
		t.Errorf("SpareRows = %d, want 1", config.SpareRows)
	}
	if config.CatalogTTL != 30*time.Second {
		t.Errorf("CatalogTTL = %s, want 30s", config.CatalogTTL)
	}
	if len(config.CORSOrigins) != 2 || config.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %v", config.CORSOrigins)
	}

	cfg := config.ServerConfig()
	if !cfg.CORSEnabled {
		t.Error("CORS should be enabled when origins are configured")
	}
	if cfg.AuthEnabled {
		t.Error("auth should be disabled without an API key")
	}
	if cfg.SpareRows != 1 {
		t.Errorf("server SpareRows = %d, want 1", cfg.SpareRows)
	}
}

// TestConfig_File verifies loading an explicit config file.
func TestConfig_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "flowsheet.yaml")
	content := `catalog_dir: /srv/barcodes
spare_rows: 5
api_key: s3cret
trust_proxy: true
cors_origins:
  - https://a.example
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if config.ConfigFile != path {
		t.Errorf("ConfigFile = %s, want %s", config.ConfigFile, path)
	}
	if config.CatalogDir != "/srv/barcodes" || config.SpareRows != 5 {
		t.Errorf("file settings not loaded: %+v", config)
	}
	if len(config.CORSOrigins) != 1 {
		t.Errorf("CORSOrigins = %v", config.CORSOrigins)
	}
	cfg := config.ServerConfig()
	if !cfg.AuthEnabled || cfg.APIKey != "s3cret" {
		t.Error("auth should be enabled by api_key")
	}
	if !cfg.TrustProxy {
		t.Error("trust_proxy should reach the server config")
	}
}

// TestConfig_MissingFile verifies an explicit file must exist.
func TestConfig_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	var ce *errors.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("LoadConfig() error = %v, want ConfigError", err)
	}
}

// TestConfig_Validate verifies rejected settings.
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{"negative spare rows", Config{SpareRows: -1}},
		{"negative ttl", Config{CatalogTTL: -time.Second}},
		{"non-http catalog url", Config{CatalogURL: "ftp://example.org"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.validate(); err == nil {
				t.Error("validate() returned nil, want error")
			}
		})
	}

	ok := Config{CatalogURL: "http://localhost:8000"}
	if err := ok.validate(); err != nil {
		t.Errorf("validate() = %v, want nil", err)
	}
}

// TestConfig_UpdateFromFlags verifies flags only override when set.
func TestConfig_UpdateFromFlags(t *testing.T) {
	config := &Config{Format: "yaml", LogLevel: "warn"}
	config.UpdateFromFlags(true, false, true, "", "")
	if !config.Verbose || !config.NoColor {
		t.Error("boolean flags not applied")
	}
	if config.Format != "yaml" || config.LogLevel != "warn" {
		t.Error("empty flags must not override settings")
	}

	config.UpdateFromFlags(false, false, false, "json", "debug")
	if config.Format != "json" || config.LogLevel != "debug" {
		t.Errorf("Format/LogLevel = %s/%s, want json/debug", config.Format, config.LogLevel)
	}
	if !config.Verbose {
		t.Error("unset flag must not clear verbose")
	}
}

func TestStringList(t *testing.T) {
	v := viper.New()
	v.Set("a", "x, y,,z")
	v.Set("b", []string{"p", "q"})

	if got := stringList(v, "a"); len(got) != 3 || got[2] != "z" {
		t.Errorf("stringList(a) = %v", got)
	}
	if got := stringList(v, "b"); len(got) != 2 || got[0] != "p" {
		t.Errorf("stringList(b) = %v", got)
	}
	if got := stringList(v, "missing"); len(got) != 0 {
		t.Errorf("stringList(missing) = %v", got)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", "b", "c"); got != "b" {
		t.Errorf("firstNonEmpty = %q, want b", got)
	}
	if got := firstNonEmpty(); got != "" {
		t.Errorf("firstNonEmpty() = %q, want empty", got)
	}
}
