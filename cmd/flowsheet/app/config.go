package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/digestiflow/flowsheet/internal/server"
	"github.com/digestiflow/flowsheet/pkg/constants"
	"github.com/digestiflow/flowsheet/pkg/errors"
)

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Barcode catalog
	CatalogURL   string
	CatalogToken string
	CatalogDir   string
	CatalogTTL   time.Duration

	// Editor
	SpareRows int

	// API server
	Listen      string
	CORSOrigins []string
	Metrics     bool
	APIKey      string
	RateLimit   int
	TrustProxy  bool

	// Logging
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (applied later by the root command)
//  2. FLOWSHEET_* environment variables
//  3. .env and .env.local files
//  4. The config file (configFile, or ~/.flowsheet.yaml / ./.flowsheet.yaml)
//  5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".flowsheet")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// an explicit file must exist; the search locations are optional
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errors.NewConfigError("config file", err.Error(), err)
		}
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color") || os.Getenv("NO_COLOR") != "",
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		CatalogURL:   v.GetString("catalog_url"),
		CatalogToken: v.GetString("catalog_token"),
		CatalogDir:   v.GetString("catalog_dir"),
		CatalogTTL:   v.GetDuration("catalog_ttl"),

		SpareRows: v.GetInt("spare_rows"),

		Listen:      v.GetString("listen"),
		CORSOrigins: stringList(v, "cors_origins"),
		Metrics:     v.GetBool("metrics"),
		APIKey:      v.GetString("api_key"),
		RateLimit:   v.GetInt("rate_limit"),
		TrustProxy:  v.GetBool("trust_proxy"),

		LogLevel:  firstNonEmpty(v.GetString("log_level"), os.Getenv("LOG_LEVEL")),
		LogFormat: firstNonEmpty(v.GetString("log_format"), os.Getenv("LOG_FORMAT"), "auto"),
		LogOutput: firstNonEmpty(v.GetString("log_output"), os.Getenv("LOG_OUTPUT"), "stderr"),
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	defaults := server.DefaultConfig()
	v.SetDefault("catalog_ttl", constants.DefaultCatalogTTL)
	v.SetDefault("spare_rows", constants.DefaultSpareRows)
	v.SetDefault("listen", defaults.Addr)
	v.SetDefault("metrics", defaults.MetricsEnabled)
	v.SetDefault("rate_limit", defaults.RateLimit)
}

func (c *Config) validate() error {
	if c.SpareRows < 0 {
		return errors.NewConfigError("spare_rows", "must not be negative", nil)
	}
	if c.CatalogTTL < 0 {
		return errors.NewConfigError("catalog_ttl", "must not be negative", nil)
	}
	if c.CatalogURL != "" && !strings.HasPrefix(c.CatalogURL, "http://") && !strings.HasPrefix(c.CatalogURL, "https://") {
		return errors.NewConfigError("catalog_url", "must be an http(s) URL, got "+c.CatalogURL, nil)
	}
	return nil
}

// ServerConfig maps the configuration onto API server settings.
func (c *Config) ServerConfig() server.Config {
	cfg := server.DefaultConfig()
	if c.Listen != "" {
		cfg.Addr = c.Listen
	}
	cfg.CORSOrigins = c.CORSOrigins
	cfg.CORSEnabled = len(c.CORSOrigins) > 0
	cfg.MetricsEnabled = c.Metrics
	cfg.RateLimit = c.RateLimit
	cfg.TrustProxy = c.TrustProxy
	cfg.SpareRows = c.SpareRows
	if c.APIKey != "" {
		cfg.AuthEnabled = true
		cfg.APIKey = c.APIKey
	}
	return cfg
}

// UpdateFromFlags applies flag values that were set explicitly on the
// command line over the loaded configuration.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads .env.local then .env. godotenv never overrides a
// variable that is already set, so the real environment wins over both
// files and .env.local wins over .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// stringList reads key as a list, accepting comma separated strings from
// the environment and YAML sequences from the config file.
func stringList(v *viper.Viper, key string) []string {
	if raw, ok := v.Get(key).(string); ok {
		var out []string
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return v.GetStringSlice(key)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
