package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Preferences holds the ambient, run-wide settings for a debugging session.
type Preferences struct {
	// ContextLines is the number of source lines printed above and below
	// the current line when reporting a stop.
	ContextLines int `mapstructure:"context_lines" yaml:"context_lines"`

	// Color enables ANSI colouring of the error messages the terminal
	// prints.
	Color bool `mapstructure:"color" yaml:"color"`

	// LogLevel is unused directly by the logger package (which is always
	// informational) but is retained for forward compatibility with a
	// future -v/-vv flag.
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

func defaults() Preferences {
	return Preferences{
		ContextLines: 2,
		Color:        true,
		LogLevel:     "info",
	}
}

// Load reads preferences from (in increasing priority) built-in defaults,
// $HOME/.dbgrc.yaml, and DBG_-prefixed environment variables.
func Load() (Preferences, error) {
	prefs := defaults()

	v := viper.New()
	v.SetDefault("context_lines", prefs.ContextLines)
	v.SetDefault("color", prefs.Color)
	v.SetDefault("log_level", prefs.LogLevel)

	v.SetConfigName(".dbgrc")
	v.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("DBG")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return prefs, err
		}
	}

	if err := v.Unmarshal(&prefs); err != nil {
		return prefs, err
	}
	return prefs, nil
}

// WriteDefault writes the default preferences, serialized as YAML, to path,
// unless a file is already there.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	b, err := yaml.Marshal(defaults())
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Clean(path), b, 0o644)
}
