// Package config loads the wilddocs client configuration from defaults, an
// optional YAML file, a .env file, WILDDOCS_* environment variables and flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Defaults.
const (
	DefaultAPIURL       = "http://localhost:8000"
	DefaultTimeout      = 30 * time.Second
	DefaultOutputFormat = OutputFormatJSON
	DefaultLogLevel     = "warn"
	DefaultLogFormat    = "text"

	// EnvPrefix is prepended to every environment variable, e.g. WILDDOCS_API_URL.
	EnvPrefix = "WILDDOCS"

	// AppDirName is the directory under the user config dir holding config and credentials.
	AppDirName = "wilddocs"

	configFileName      = "config"
	configFileType      = "yaml"
	credentialsFileName = "credentials.yaml"
	defaultEnvFile      = ".env"
)

// Output formats.
const (
	OutputFormatJSON = "json"
	OutputFormatText = "text"
)

// Viper keys.
const (
	KeyAPIURL          = "api.url"
	KeyAPITimeout      = "api.timeout"
	KeyAPIKey          = "api.key"
	KeyAPIRequireKey   = "api.require_key"
	KeyOutputFormat    = "output.format"
	KeyLogLevel        = "log.level"
	KeyLogFormat       = "log.format"
	KeyCredentialsPath = "credentials.path"
)

var (
	validOutputFormats = []string{OutputFormatJSON, OutputFormatText}
	validLogLevels     = []string{"debug", "info", "warn", "error"}
	validLogFormats    = []string{"json", "text"}
)

// Config holds the complete client configuration.
type Config struct {
	API         APIConfig         `mapstructure:"api"`
	Output      OutputConfig      `mapstructure:"output"`
	Log         LogConfig         `mapstructure:"log"`
	Credentials CredentialsConfig `mapstructure:"credentials"`
}

// APIConfig holds backend connection settings.
type APIConfig struct {
	URL        string        `mapstructure:"url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Key        string        `mapstructure:"key"`         // Overrides the stored credential when set
	RequireKey bool          `mapstructure:"require_key"` // Refuse to call the backend without a key
}

// OutputConfig controls how command results are printed.
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CredentialsConfig locates the stored API key.
type CredentialsConfig struct {
	Path string `mapstructure:"path"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyAPIURL, DefaultAPIURL)
	v.SetDefault(KeyAPITimeout, DefaultTimeout)
	v.SetDefault(KeyAPIKey, "")
	v.SetDefault(KeyAPIRequireKey, false)

	v.SetDefault(KeyOutputFormat, DefaultOutputFormat)

	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyLogFormat, DefaultLogFormat)

	v.SetDefault(KeyCredentialsPath, DefaultCredentialsPath())
}

// LoadOptions tells Load where to look for files.
type LoadOptions struct {
	ConfigFile string // Explicit config file; when empty the default locations are searched
	EnvFile    string // .env file; defaults to ./.env
	ConfigDirs []string
}

// Load reads the .env file, environment variables and config file into v.
// A missing config file or .env file is not an error.
func Load(v *viper.Viper, opts LoadOptions) error {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = defaultEnvFile
	}
	if err := loadEnvFile(envFile); err != nil {
		return err
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		dirs := opts.ConfigDirs
		if len(dirs) == 0 {
			dirs = defaultConfigDirs()
		}
		for _, dir := range dirs {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found; use defaults and environment
	}

	return nil
}

// loadEnvFile loads KEY=VALUE pairs without overriding variables already set.
func loadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to stat env file %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// New decodes and validates the configuration held by v.
func New(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	config.Output.Format = strings.ToLower(config.Output.Format)
	config.Log.Level = strings.ToLower(config.Log.Level)
	config.Log.Format = strings.ToLower(config.Log.Format)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.API.URL == "" {
		return errors.New("api.url is required")
	}
	parsed, err := url.Parse(c.API.URL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("api.url must be an http or https URL, got %q", c.API.URL)
	}

	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %v", c.API.Timeout)
	}

	if !slices.Contains(validOutputFormats, c.Output.Format) {
		return fmt.Errorf("output.format must be one of %v, got %q", validOutputFormats, c.Output.Format)
	}

	if !slices.Contains(validLogLevels, c.Log.Level) {
		return fmt.Errorf("log.level must be one of %v, got %q", validLogLevels, c.Log.Level)
	}

	if !slices.Contains(validLogFormats, c.Log.Format) {
		return fmt.Errorf("log.format must be one of %v, got %q", validLogFormats, c.Log.Format)
	}

	if c.Credentials.Path == "" {
		return errors.New("credentials.path is required")
	}

	return nil
}

// ConfigDir returns the per-user directory for wilddocs files.
func ConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, AppDirName)
	}
	return filepath.Join(".", "."+AppDirName)
}

// DefaultCredentialsPath returns where the API key is stored by default.
func DefaultCredentialsPath() string {
	return filepath.Join(ConfigDir(), credentialsFileName)
}

func defaultConfigDirs() []string {
	return []string{ConfigDir(), "."}
}
