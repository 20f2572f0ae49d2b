package config

import (
	"fmt"
	"strings"

	"github.com/Veraticus/gradebook/internal/common"
	"github.com/Veraticus/gradebook/internal/model"
	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendText   = "text"
	BackendSQLite = "sqlite"
)

// Defaults.
const (
	DefaultDataPath     = "gradebook_data.txt"
	DefaultDatabasePath = "~/.local/share/gradebook/gradebook.db"
)

// Config holds the application settings.
type Config struct {
	Data     DataConfig             `mapstructure:"data"`
	Database DatabaseConfig         `mapstructure:"database"`
	Logging  LoggingConfig          `mapstructure:"logging"`
	Weights  []model.CategoryWeight `mapstructure:"weights"`
}

// DataConfig selects where the roster is stored.
type DataConfig struct {
	Path    string `mapstructure:"path"`
	Backend string `mapstructure:"backend"`
}

// DatabaseConfig configures the SQLite backend.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig configures slog output.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers default values on v. Keys must be known to viper
// for environment overrides to reach Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("data.path", DefaultDataPath)
	v.SetDefault("data.backend", BackendText)
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load reads and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}

	cfg.Data.Path = ExpandPath(strings.TrimSpace(cfg.Data.Path))
	cfg.Data.Backend = strings.ToLower(strings.TrimSpace(cfg.Data.Backend))
	cfg.Database.Path = ExpandPath(strings.TrimSpace(cfg.Database.Path))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.Data.Backend {
	case BackendText:
		if c.Data.Path == "" {
			return fmt.Errorf("%w: data.path", common.ErrMissingConfig)
		}
	case BackendSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("%w: database.path", common.ErrMissingConfig)
		}
	default:
		return fmt.Errorf("%w: unknown data.backend %q (want %s or %s)",
			common.ErrInvalidConfig, c.Data.Backend, BackendText, BackendSQLite)
	}

	for _, w := range c.Weights {
		if strings.TrimSpace(w.Category) == "" {
			return fmt.Errorf("%w: weight entry without a category", common.ErrInvalidConfig)
		}
	}
	if err := model.WeightsFromList(c.Weights).Validate(); err != nil {
		return fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}

	if _, err := common.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	return nil
}

// InitialWeights returns the configured category weights, or the default
// set when none are configured.
func (c *Config) InitialWeights() model.Weights {
	if len(c.Weights) == 0 {
		return model.DefaultWeights()
	}
	return model.WeightsFromList(c.Weights)
}
