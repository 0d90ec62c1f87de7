package config

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gotemplate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.BoolP("verbose", "v", false, "verbose")
	flags.String("log-level", "", "log level")
	flags.String("log-format", "", "log format")
	return flags
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Empty(t, GetConfigFileUsed())
	assert.Empty(t, GetWarnings())
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, "log_level: info\nlog_format: text\n")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, path, GetConfigFileUsed())
}

func TestLoadConfig_DiscoversFileInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gotemplate.yml"), []byte("log_level: error\n"), 0600))
	t.Chdir(dir)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, "gotemplate.yml", GetConfigFileUsed())
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_FlagPrecedence(t *testing.T) {
	path := writeConfig(t, "log_level: info\n")
	t.Setenv("GOTEMPLATE_LOG_LEVEL", "warn")

	flags := newFlags()
	require.NoError(t, flags.Set("log-level", "error"))

	cfg, err := LoadConfig(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.LogLevel, "flag value should override config file and env var")
}

func TestLoadConfig_EnvPrecedenceOverFile(t *testing.T) {
	path := writeConfig(t, "log_level: info\n")
	t.Setenv("GOTEMPLATE_LOG_LEVEL", "debug")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel, "env var should override config file")
}

func TestLoadConfig_FlagNotSetUsesEnv(t *testing.T) {
	path := writeConfig(t, "log_format: text\n")
	t.Setenv("GOTEMPLATE_LOG_FORMAT", "json")

	cfg, err := LoadConfig(path, newFlags())
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.LogFormat, "env var should be used when flag is not set")
}

func TestLoadConfig_VerboseFlag(t *testing.T) {
	t.Chdir(t.TempDir())
	flags := newFlags()
	require.NoError(t, flags.Set("verbose", "true"))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.True(t, cfg.Verbose)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		env        map[string]string
		wantLevel  string
		wantFormat string
		warnSubstr string
	}{
		{
			name:       "unknown level in file",
			content:    "log_level: loud\nlog_format: text\n",
			wantLevel:  DefaultLogLevel,
			wantFormat: "text",
			warnSubstr: "invalid log_level",
		},
		{
			name:       "unknown format in file",
			content:    "log_level: info\nlog_format: xml\n",
			wantLevel:  "info",
			wantFormat: DefaultLogFormat,
			warnSubstr: "invalid log_format",
		},
		{
			name:       "unknown level in env",
			content:    "log_format: json\n",
			env:        map[string]string{"GOTEMPLATE_LOG_LEVEL": "loud"},
			wantLevel:  DefaultLogLevel,
			wantFormat: "json",
			warnSubstr: "invalid log_level",
		},
		{
			name:       "undecodable env value",
			content:    "log_level: info\n",
			env:        map[string]string{"GOTEMPLATE_VERBOSE": "maybe"},
			wantLevel:  DefaultLogLevel,
			wantFormat: DefaultLogFormat,
			warnSubstr: "unable to decode config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := LoadConfig(writeConfig(t, tt.content), nil)
			require.NoError(t, err)

			assert.Equal(t, tt.wantLevel, cfg.LogLevel)
			assert.Equal(t, tt.wantFormat, cfg.LogFormat)
			require.Len(t, GetWarnings(), 1)
			assert.Contains(t, GetWarnings()[0], tt.warnSubstr)
		})
	}
}

func TestLoadConfig_MalformedDiscoveredFileFallsBack(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gotemplate.yaml"), []byte("log_level: [\n"), 0600))
	t.Chdir(dir)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Empty(t, GetConfigFileUsed())
	require.Len(t, GetWarnings(), 1)
	assert.Contains(t, GetWarnings()[0], "ignoring config file gotemplate.yaml")
}

func TestLoadConfig_MalformedExplicitFile(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "log_level: [\n"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_InvalidFlag(t *testing.T) {
	t.Chdir(t.TempDir())
	flags := newFlags()
	require.NoError(t, flags.Set("log-format", "xml"))

	_, err := LoadConfig("", flags)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
	assert.Contains(t, err.Error(), "invalid log_format")
}

func TestLoadConfig_FlagOverridesInvalidEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GOTEMPLATE_LOG_LEVEL", "loud")
	flags := newFlags()
	require.NoError(t, flags.Set("log-level", "error"))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.LogLevel)
	assert.Len(t, GetWarnings(), 1)
}

func TestConfig_Level(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want slog.Level
	}{
		{name: "debug", cfg: Config{LogLevel: "debug"}, want: slog.LevelDebug},
		{name: "info uppercase", cfg: Config{LogLevel: "INFO"}, want: slog.LevelInfo},
		{name: "error", cfg: Config{LogLevel: "error"}, want: slog.LevelError},
		{name: "verbose wins", cfg: Config{LogLevel: "error", Verbose: true}, want: slog.LevelDebug},
		{name: "invalid falls back to warn", cfg: Config{LogLevel: "loud"}, want: slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Level())
		})
	}
}

func TestNewLogger_Format(t *testing.T) {
	t.Run("auto on a buffer is json", func(t *testing.T) {
		var buf bytes.Buffer
		NewLogger(&buf, &Config{LogLevel: "info", LogFormat: "auto"}).Info("hi")

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, "hi", rec["msg"])
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		NewLogger(&buf, &Config{LogLevel: "info", LogFormat: "text"}).Info("hi")
		assert.Contains(t, buf.String(), "msg=hi")
	})

	t.Run("level filters", func(t *testing.T) {
		var buf bytes.Buffer
		NewLogger(&buf, &Config{LogLevel: "warn", LogFormat: "json"}).Info("hidden")
		assert.Empty(t, buf.String())
	})
}

func TestContextAccessors(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, Default(), GetConfig(ctx))
	assert.NotNil(t, GetLogger(ctx))

	cfg := &Config{LogLevel: "debug", LogFormat: "text"}
	logger := slog.New(slog.DiscardHandler)
	ctx = WithLogger(WithConfig(ctx, cfg), logger)

	assert.Same(t, cfg, GetConfig(ctx))
	assert.Same(t, logger, GetLogger(ctx))
}

func TestLoadConfig_NormalizesCase(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GOTEMPLATE_LOG_LEVEL", " INFO ")
	t.Setenv("GOTEMPLATE_LOG_FORMAT", "Text")
	t.Setenv("GOTEMPLATE_VERBOSE", "true")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.True(t, cfg.Verbose)
}

func TestNormalizeStringHook_NamedString(t *testing.T) {
	type level string

	got, err := normalizeStringHook(reflect.String, reflect.String, level(" DEBUG "))
	require.NoError(t, err)
	assert.Equal(t, "debug", got)
}
