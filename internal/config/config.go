// Package config resolves gradebook settings from defaults, an optional
// .env file, an optional YAML config file and GRADEBOOK_* environment
// variables. Command-line flags are applied on top by the cli package.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "GRADEBOOK"

// Config holds resolved settings.
type Config struct {
	DB        string `mapstructure:"db"`         // SQLite file path
	Format    string `mapstructure:"format"`     // text or json
	ExportDir string `mapstructure:"export_dir"` // where CSV and backup files are written
}

// Options locate optional configuration sources. Empty paths fall back to
// gradebook.yaml and .env in the working directory; missing default files are
// not an error.
type Options struct {
	ConfigFile string
	EnvFile    string
}

const (
	defaultConfigName = "gradebook"
	defaultEnvFile    = ".env"
)

// New returns a viper instance carrying the defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("db", "gradebook.db")
	v.SetDefault("format", "text")
	v.SetDefault("export_dir", ".")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load resolves the configuration.
//
// Precedence, highest first: environment, config file, .env file, defaults.
// The .env file is read without touching the process environment.
func Load(opts Options) (*Config, error) {
	v := New()

	if err := loadDotEnv(v, opts.EnvFile); err != nil {
		return nil, err
	}
	if err := readConfigFile(v, opts.ConfigFile); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the resolved values.
func (c *Config) Validate() error {
	if c.DB == "" {
		return errors.New("config: db path is empty")
	}
	switch c.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: format must be text or json, got %q", c.Format)
	}
	return nil
}

func loadDotEnv(v *viper.Viper, path string) error {
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return fmt.Errorf("config: env file %s: %w", path, err)
	}

	vars, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("config: env file %s: %w", path, err)
	}
	prefix := EnvPrefix + "_"
	for name, value := range vars {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(name, prefix))
		v.SetDefault(key, value)
	}
	return nil
}

func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName(defaultConfigName)
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("config: read: %w", err)
	}
	return nil
}
