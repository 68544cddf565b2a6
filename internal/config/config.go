// Package config loads bpetrain's configuration from defaults, an optional
// config file, environment variables, and command-line flags, in that order
// of increasing precedence.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the fully resolved configuration for a bpetrain invocation.
type Config struct {
	Train    TrainConfig `mapstructure:"train"`
	LogLevel string      `mapstructure:"log_level"`
}

// TrainConfig holds the options for the `train` subcommand (spec.md §6).
type TrainConfig struct {
	VocabSize            int    `mapstructure:"vocab_size"`
	ModelPrefix          string `mapstructure:"model_prefix"`
	KeepExtraWhitespaces bool   `mapstructure:"keep_extra_whitespaces"`
	Slow                 bool   `mapstructure:"slow"`
}

// LoadOptions configures Load.
type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

// DefaultConfig returns bpetrain's built-in defaults.
func DefaultConfig() Config {
	return Config{
		Train: TrainConfig{
			VocabSize:            8000,
			ModelPrefix:          "",
			KeepExtraWhitespaces: false,
			Slow:                 false,
		},
		LogLevel: "info",
	}
}

// RegisterFlags registers the pflag set shared by bpetrain's commands.
func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.Int("vocab-size", defaults.Train.VocabSize, "Target total vocabulary size")
	fs.String("model-prefix", defaults.Train.ModelPrefix, "Output path prefix for <prefix>.vocab and <prefix>.model")
	fs.Bool("keep-extra-whitespaces", defaults.Train.KeepExtraWhitespaces, "Do not collapse repeated whitespace runs")
	fs.Bool("slow", defaults.Train.Slow, "Use the reference SlowOracle instead of the fast trainer (debug builds only)")
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
}

// Load resolves Config from defaults, an optional config file, environment
// variables prefixed BPETRAIN_, and bound pflags, in increasing precedence.
func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := v.BindPFlags(opts.Cmd.Flags()); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}
	registerAliases(v)

	v.SetEnvPrefix("BPETRAIN")
	replacer := strings.NewReplacer("-", "_", ".", "_", "__", "_")
	v.SetEnvKeyReplacer(replacer)
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("bpetrain")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("train.vocab_size", c.Train.VocabSize)
	v.SetDefault("train.model_prefix", c.Train.ModelPrefix)
	v.SetDefault("train.keep_extra_whitespaces", c.Train.KeepExtraWhitespaces)
	v.SetDefault("train.slow", c.Train.Slow)
	v.SetDefault("log_level", c.LogLevel)
}

// ParseLogLevel converts a case-insensitive level string to slog.Level. An
// empty string returns slog.LevelInfo. Unknown strings return an error.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", s)
	}
}

func registerAliases(v *viper.Viper) {
	v.RegisterAlias("train.vocab_size", "vocab-size")
	v.RegisterAlias("train.model_prefix", "model-prefix")
	v.RegisterAlias("train.keep_extra_whitespaces", "keep-extra-whitespaces")
	v.RegisterAlias("train.slow", "slow")
	v.RegisterAlias("log_level", "log-level")
}
