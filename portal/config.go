package portal

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds the runtime settings of the portal.
type Config struct {
	DBPath       string `env:"PORTAL_DB" envDefault:"portal.db"`
	FixturesPath string `env:"PORTAL_FIXTURES"`
	LogLevel     string `env:"PORTAL_LOG_LEVEL" envDefault:"warn"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Level maps LogLevel onto a slog level. Unknown names fall back to warn.
func (c Config) Level() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
