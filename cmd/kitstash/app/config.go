package app

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/kitstash/pkg/constants"
	"github.com/agentstation/kitstash/pkg/errors"
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

	// Record store and catalog
	StorePath   string
	CatalogPath string

	// Fetch relay used for kit enrichment
	RelayURL       string
	RelayAPIKey    string
	RelayAuth      string
	RelayAuthParam string
	RelayTimeout   time.Duration

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (handled by cobra)
//  2. Environment variables, e.g. KITSTASH_RELAY_URL or RELAY_URL
//  3. .env files
//  4. Config file (~/.kitstash.yaml)
//  5. Defaults
func LoadConfig() (*Config, error) {
	return LoadConfigFile("")
}

// LoadConfigFile is LoadConfig with an explicit config file. An empty path
// searches $HOME and the working directory.
func LoadConfigFile(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	for _, key := range []string{"store_path", "catalog_path", "relay_url", "relay_api_key", "relay_auth", "relay_auth_param", "relay_timeout"} {
		if err := v.BindEnv(key, "KITSTASH_"+strings.ToUpper(key), strings.ToUpper(key)); err != nil {
			return nil, errors.NewConfigError("env", "failed to bind "+key, err)
		}
	}

	v.SetDefault("store_path", constants.DefaultStorePath)
	v.SetDefault("relay_auth", "bearer")
	v.SetDefault("relay_timeout", constants.RelayTimeout)

	if path == "" {
		path = v.GetString("config")
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(constants.DefaultConfigName)
	}

	// Only a searched-for config file may be missing
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return nil, errors.NewConfigError("file", "failed to read config", err)
		}
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no-color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		StorePath:   v.GetString("store_path"),
		CatalogPath: v.GetString("catalog_path"),

		RelayURL:       v.GetString("relay_url"),
		RelayAPIKey:    v.GetString("relay_api_key"),
		RelayAuth:      v.GetString("relay_auth"),
		RelayAuthParam: v.GetString("relay_auth_param"),
		RelayTimeout:   v.GetDuration("relay_timeout"),

		// LogLevel stays empty unless set so -v and -q can apply
		LogLevel:  os.Getenv("LOG_LEVEL"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	return config, nil
}

// UpdateFromFlags updates config values from parsed command flags so flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// ResolvedStorePath returns the store path with a leading ~ expanded.
// ":memory:" and the empty path are returned unchanged.
func (c *Config) ResolvedStorePath() (string, error) {
	return expandHome(c.StorePath)
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.NewConfigError("store", "cannot resolve home directory", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// loadEnvFiles loads environment variables from .env files.
// Variables already set in the environment are not overridden.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
