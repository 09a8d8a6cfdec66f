package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/rowform/rowform"
	"github.com/rowform/rowform/internal/config"
)

// StorageBackend selects where catalogs and products live.
type StorageBackend string

// Supported storage backends.
const (
	StorageEmbedded StorageBackend = "embedded"
	StorageFiles    StorageBackend = "files"
	StorageSQLite   StorageBackend = "sqlite"
	StoragePostgres StorageBackend = "postgres"
)

// StorageConfig holds the storage backend selection and its settings.
type StorageConfig struct {
	Backend     StorageBackend
	SQLitePath  string
	PostgresURL string
	FilesDir    string
}

// PostgresConfig builds the engine's PostgreSQL settings.
func (s StorageConfig) PostgresConfig() rowform.PostgresConfig {
	return rowform.PostgresConfig{URL: s.PostgresURL}
}

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Engine configuration
	Storage       StorageConfig
	FuzzyMatching bool
	Strict        bool
	Concurrency   int

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.rowform.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	// Set up Viper for environment variables
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// Defaults that differ from Go zero values
	viper.SetDefault("fuzzy_matching", true)
	viper.SetDefault("storage.backend", string(StorageEmbedded))
	viper.SetDefault("storage.sqlite_path", "rowform.db")

	// Try to read config file if it exists
	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// Search for config in standard locations
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigType("yaml")
			viper.SetConfigName(".rowform")
		}
	}

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()

	// Build config from viper
	cfg := &Config{
		// Global flags (may be overridden by cobra flags later)
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
		NoColor: viper.GetBool("no-color"),
		Format:  viper.GetString("format"),

		// Config file
		ConfigFile: viper.ConfigFileUsed(),

		// Engine configuration
		Storage: StorageConfig{
			Backend:     StorageBackend(viper.GetString("storage.backend")),
			SQLitePath:  viper.GetString("storage.sqlite_path"),
			PostgresURL: viper.GetString("storage.postgres_url"),
			FilesDir:    viper.GetString("storage.files_dir"),
		},
		FuzzyMatching: viper.GetBool("fuzzy_matching"),
		Strict:        viper.GetBool("strict"),
		Concurrency:   viper.GetInt("concurrency"),

		// Logging configuration. LogLevel stays empty unless set so the
		// precedence rules in determineLogLevel can see flag shortcuts.
		LogLevel:  config.GetString("LOG_LEVEL"),
		LogFormat: config.GetStringDefault("LOG_FORMAT", "auto"),
		LogOutput: config.GetStringDefault("LOG_OUTPUT", "stderr"),
	}

	return cfg, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
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

// loadEnvFiles loads environment variables from .env files.
func loadEnvFiles() {
	// Try to load .env files in order of precedence
	// .env.local overrides .env
	envFiles := []string{
		".env",
		".env.local",
	}

	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}
