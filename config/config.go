// Package config loads runtime settings for the svelab tool from a .env
// file, SVELAB_* environment variables and an optional svelab config file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "SVELAB"

const (
	KeyLogLevel        = "log_level"
	KeyColor           = "color"
	KeyMaxIncludeDepth = "max_include_depth"
	KeyTop             = "top"
	KeyIncludeDirs     = "include_dirs"
)

type Config struct {
	LogLevel        string   `mapstructure:"log_level"`
	Color           bool     `mapstructure:"color"`
	MaxIncludeDepth int      `mapstructure:"max_include_depth"`
	Top             string   `mapstructure:"top"`
	IncludeDirs     []string `mapstructure:"include_dirs"`
}

// Options control where Load looks.
type Options struct {
	// EnvFile is loaded before reading the environment. Defaults to ".env".
	// A missing env file is not an error.
	EnvFile string

	// ConfigFile names an explicit config file. When empty, svelab.{yaml,json,toml}
	// is searched for in SearchPaths.
	ConfigFile  string
	SearchPaths []string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyColor, true)
	v.SetDefault(KeyMaxIncludeDepth, 16)
	v.SetDefault(KeyTop, "")
	v.SetDefault(KeyIncludeDirs, []string{})
}

// New returns a viper instance with the defaults and environment binding
// in place but no file read yet. The CLI binds its flags to it.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the env file and the config file into v and decodes the result.
func Load(v *viper.Viper, opts Options) (*Config, error) {
	envfile := opts.EnvFile
	if envfile == "" {
		envfile = ".env"
	}
	if err := godotenv.Load(envfile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading env file %s: %w", envfile, err)
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("svelab")
		for _, p := range opts.SearchPaths {
			v.AddConfigPath(p)
		}
	}
	if opts.ConfigFile != "" || len(opts.SearchPaths) > 0 {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if opts.ConfigFile != "" || !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config: %w", err)
			}
		} else {
			slog.Debug("loaded config file", "path", v.ConfigFileUsed())
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if cfg.MaxIncludeDepth <= 0 {
		return nil, fmt.Errorf("%s must be positive, got %d", KeyMaxIncludeDepth, cfg.MaxIncludeDepth)
	}
	if _, err := cfg.Level(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, fmt.Errorf("invalid %s %q: %w", KeyLogLevel, c.LogLevel, err)
	}
	return level, nil
}
