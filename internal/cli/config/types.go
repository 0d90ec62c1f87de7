// Package config provides configuration management for the gotemplate CLI.
//
// Configuration only drives diagnostics (log level and format). The greeting
// written to stdout is fixed and is never influenced by anything loaded here.
package config

// Config holds all CLI configuration options.
type Config struct {
	Verbose   bool   `koanf:"verbose" yaml:"verbose"`
	LogLevel  string `koanf:"log_level" yaml:"log_level"`
	LogFormat string `koanf:"log_format" yaml:"log_format"`
}

// Default configuration values.
const (
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "auto" // Auto-detect: TTY=text, non-TTY=json
	EnvPrefix        = "GOTEMPLATE_"
)

// Config file names searched in the working directory, in order.
var configFileNames = []string{"gotemplate.yaml", "gotemplate.yml"}

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
	}
}
