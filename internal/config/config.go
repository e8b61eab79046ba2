// Package config loads PyRouteCH's settings from an optional YAML file and
// lets command-line flags override them, the same layering the CLI and HTTP
// surface both depend on.
package config

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds every setting the planner, CLI and HTTP surface need.
type Config struct {
	GTFSDir          string `yaml:"gtfs_dir" validate:"required"`
	DefaultMaxRoutes int    `yaml:"default_max_routes" validate:"gt=0"`
	MinTransferSec   int    `yaml:"min_transfer_sec" validate:"gte=0"`
	LabelsPerStop    int    `yaml:"labels_per_stop" validate:"gt=0"`
	LookbackSec      int    `yaml:"lookback_sec" validate:"gte=0"`
	LogLevel         string `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogJSON          bool   `yaml:"log_json"`
	Port             int    `yaml:"port" validate:"gt=0"`
}

// Default returns the baseline configuration used when no file is present
// and no flags override it.
func Default() Config {
	return Config{
		GTFSDir:          "data",
		DefaultMaxRoutes: 5,
		MinTransferSec:   0,
		LabelsPerStop:    4,
		LookbackSec:      0,
		LogLevel:         "info",
		LogJSON:          false,
		Port:             4000,
	}
}

// LoadFile reads and validates a YAML config file, falling back silently to
// Default() when path is empty or the file doesn't exist — a config file is
// an optional convenience, not a requirement.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("validating config file %s: %w", path, err)
	}
	return cfg, nil
}

// RegisterFlags binds cfg's fields to fs so command-line flags override
// whatever LoadFile produced; cfg's current values become each flag's
// default.
func RegisterFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.GTFSDir, "gtfs-dir", cfg.GTFSDir, "directory containing the static GTFS feed")
	fs.IntVar(&cfg.DefaultMaxRoutes, "max-routes", cfg.DefaultMaxRoutes, "default number of journeys to return")
	fs.IntVar(&cfg.MinTransferSec, "min-transfer-sec", cfg.MinTransferSec, "minimum transfer time between different trips, in seconds")
	fs.IntVar(&cfg.LabelsPerStop, "labels-per-stop", cfg.LabelsPerStop, "number of labels kept per stop during search")
	fs.IntVar(&cfg.LookbackSec, "lookback-sec", cfg.LookbackSec, "how far before the query time to consider a still-running trip")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, or error")
	fs.BoolVar(&cfg.LogJSON, "log-json", cfg.LogJSON, "emit logs as JSON instead of text")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "HTTP server port")
}

// SlogLevel converts LogLevel to the slog.Level the logging package expects.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
