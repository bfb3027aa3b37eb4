package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the configuration reads,
// e.g. IMPORTMOVER_REFACTOR_MAP_FILE.
const EnvPrefix = "IMPORTMOVER"

// Default values for a run.
const (
	DefaultPattern         = "javascripts/**/*.+(jsx|js)"
	DefaultOriginalBase    = "assets/javascripts"
	DefaultDestinationBase = "javascripts"
)

// Config holds the complete application configuration.
type Config struct {
	Refactor RefactorConfig `mapstructure:"refactor"`
	Log      LogConfig      `mapstructure:"log"`
}

// RefactorConfig holds the inputs of one import rewrite run.
type RefactorConfig struct {
	MapFile         string `mapstructure:"map_file"`
	Pattern         string `mapstructure:"pattern"`
	OriginalBase    string `mapstructure:"original_base"`
	DestinationBase string `mapstructure:"destination_base"`
	DryRun          bool   `mapstructure:"dry_run"`
	Diff            bool   `mapstructure:"diff"`
	ReportPath      string `mapstructure:"report_path"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("refactor.map_file", "")
	v.SetDefault("refactor.pattern", DefaultPattern)
	v.SetDefault("refactor.original_base", DefaultOriginalBase)
	v.SetDefault("refactor.destination_base", DefaultDestinationBase)
	v.SetDefault("refactor.dry_run", false)
	v.SetDefault("refactor.diff", false)
	v.SetDefault("refactor.report_path", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "stderr")
}

// BindEnv makes v consult IMPORTMOVER_* environment variables for every key.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// New decodes and validates the configuration held by v.
func New(v *viper.Viper) (*Config, error) {
	var config Config

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Refactor.MapFile == "" {
		return errors.New("refactor.map_file is required")
	}

	if c.Refactor.Pattern == "" {
		return errors.New("refactor.pattern is required")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error; got %q", c.Log.Level)
	}

	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text; got %q", c.Log.Format)
	}

	switch c.Log.Output {
	case "stdout", "stderr":
	default:
		return fmt.Errorf("log.output must be stdout or stderr; got %q", c.Log.Output)
	}

	return nil
}
