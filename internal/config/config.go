// Package config loads chitfund settings from the environment, with command
// line flags taking precedence.
package config

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/mmynk/chitfund/pkg/logging"
)

// Config holds application configuration.
type Config struct {
	DBPath          string `env:"CHITFUND_DB_PATH" envDefault:"data/chitfund.db"`
	LogLevel        string `env:"CHITFUND_LOG_LEVEL" envDefault:"info"`
	Locale          string `env:"CHITFUND_LOCALE" envDefault:"en"`
	MetricsTextfile string `env:"CHITFUND_METRICS_TEXTFILE"`
	NoColor         bool   `env:"NO_COLOR"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ParseConfig reads the environment, then applies flags from args.
// It returns the config and the remaining positional arguments.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, []string, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, nil, err
	}

	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the sqlite database (default: CHITFUND_DB_PATH or data/chitfund.db)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn (or warning), error")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "BCP 47 locale for amount formatting")
	fs.StringVar(&cfg.MetricsTextfile, "metrics-textfile", cfg.MetricsTextfile, "write Prometheus metrics to this file on exit")
	fs.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "disable colored log output")
	if err := fs.Parse(args); err != nil {
		return Config{}, nil, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, nil, err
	}
	return cfg, fs.Args(), nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("database path is required")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
