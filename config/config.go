// Package config loads service configuration from an optional YAML file
// with environment-variable overrides (prefix REMINDER_, e.g.
// REMINDER_HTTP_PORT, REMINDER_SCHEDULER_INTERVAL).
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	HTTP      HTTPConfig      `koanf:"http"`
	Database  DatabaseConfig  `koanf:"database"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
}

type HTTPConfig struct {
	Port int `koanf:"port"`
}

type DatabaseConfig struct {
	Path string `koanf:"path"`
}

type SchedulerConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Interval time.Duration `koanf:"interval"`
	Tenants  []string      `koanf:"tenants"`
}

func defaults() Config {
	return Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Path: "reminders.db"},
		Scheduler: SchedulerConfig{
			Enabled:  true,
			Interval: 1 * time.Hour,
		},
	}
}

// Load reads configuration from path (skipped when the file does not
// exist) and applies environment overrides on top of the defaults.
func Load(path string) (Config, error) {
	cfg := defaults()
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return cfg, fmt.Errorf("load config file %s: %w", path, err)
			}
		}
	}

	// REMINDER_SCHEDULER_INTERVAL=15m -> scheduler.interval
	err := k.Load(env.Provider("REMINDER_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "REMINDER_")), "_", ".")
	}), nil)
	if err != nil {
		return cfg, fmt.Errorf("load env config: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}
