package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// loggerKey is used to store logger in context.
type loggerKey struct{}

// configKey is used to store config in context.
type configKey struct{}

var (
	configFileUsed string
	configWarnings []string
)

// findConfigFile finds the config file to use.
// Priority: explicit path > gotemplate.yaml > gotemplate.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range configFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
//
// Only what the user typed on the command line is fatal: an explicit config
// path that cannot be read or parsed, or an invalid flag value. A broken
// discovered config file, undecodable values or invalid values from the file
// or the environment are replaced by defaults and reported by GetWarnings.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")
	configFileUsed = ""
	configWarnings = nil

	// 1. Load defaults
	if err := loadDefaults(k); err != nil {
		return nil, err
	}

	// 2. Config file, when one is given or found in the working directory
	path := findConfigFile(cfgFile)
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if cfgFile != "" {
				return nil, fmt.Errorf("error reading config file %s: %w", path, err)
			}
			addWarning("ignoring config file %s: %v", path, err)
		} else {
			configFileUsed = path
		}
	}

	// 3. Environment variables: GOTEMPLATE_LOG_LEVEL -> log_level
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	base, err := decode(k)
	if err != nil {
		addWarning("ignoring config file and environment: %v", err)
		k = koanf.New(".")
		if err := loadDefaults(k); err != nil {
			return nil, err
		}
		base = Default()
	}
	for _, w := range base.sanitize() {
		addWarning("%s", w)
	}
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"log_level":  base.LogLevel,
		"log_format": base.LogFormat,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load sanitized config: %w", err)
	}

	// 4. Explicitly set flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	cfg, err := decode(k)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func loadDefaults(k *koanf.Koanf) error {
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"verbose":    false,
		"log_level":  DefaultLogLevel,
		"log_format": DefaultLogFormat,
	}, "."), nil); err != nil {
		return fmt.Errorf("failed to load defaults: %w", err)
	}
	return nil
}

func decode(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       normalizeStringHook,
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}

func addWarning(format string, args ...interface{}) {
	configWarnings = append(configWarnings, fmt.Sprintf(format, args...))
}

// normalizeStringHook trims and lowercases every string value, so "INFO" and
// " json" from the environment decode the same as their canonical forms.
func normalizeStringHook(from, to reflect.Kind, data interface{}) (interface{}, error) {
	if from != reflect.String || to != reflect.String {
		return data, nil
	}
	return strings.ToLower(strings.TrimSpace(reflect.ValueOf(data).String())), nil
}

// GetWarnings returns the problems LoadConfig recovered from, in load order.
func GetWarnings() []string {
	return configWarnings
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// WithConfig returns a copy of ctx carrying cfg.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *Config {
	if ctx != nil {
		if c, ok := ctx.Value(configKey{}).(*Config); ok {
			return c
		}
	}
	return Default()
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
			return l
		}
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}
