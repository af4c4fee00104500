// Package config reads runtime settings from the environment and
// optional .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"digital.vasic.challengegame/pkg/logging"
)

// Store kinds.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// Log formats.
const (
	LogConsole = "console"
	LogJSON    = "json"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all runtime settings.
type Config struct {
	BankPath         string `env:"GAME_BANK"`
	AchievementsPath string `env:"GAME_ACHIEVEMENTS"`
	MapID            string `env:"GAME_MAP" envDefault:"main"`

	StoreKind string `env:"GAME_STORE" envDefault:"memory"`
	StorePath string `env:"GAME_STORE_PATH"`
	StoreSlot string `env:"GAME_STORE_SLOT" envDefault:"default"`

	HistoryPath string `env:"GAME_HISTORY"`
	ReportDir   string `env:"GAME_REPORT_DIR"`

	LogLevel  string `env:"GAME_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"GAME_LOG_FORMAT" envDefault:"console"`
	LogPath   string `env:"GAME_LOG_PATH"`

	MonitorAddr string `env:"GAME_MONITOR_ADDR" envDefault:"127.0.0.1:8080"`
}

// Load reads the given .env files (default ".env"), then parses
// the environment. Missing .env files are ignored; variables
// already set in the environment win over file values.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}

// Level returns the parsed log level.
func (c *Config) Level() (logging.LogLevel, error) {
	return logging.ParseLevel(c.LogLevel)
}

// Validate checks values that the environment parser cannot.
func (c *Config) Validate() error {
	var errs []error
	switch c.StoreKind {
	case StoreMemory:
	case StoreFile, StoreSQLite:
		if c.StorePath == "" {
			errs = append(errs, fmt.Errorf("%w: GAME_STORE_PATH is required for %s store", ErrInvalid, c.StoreKind))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: unknown store kind %q", ErrInvalid, c.StoreKind))
	}
	if c.StoreKind == StoreSQLite && c.StoreSlot == "" {
		errs = append(errs, fmt.Errorf("%w: GAME_STORE_SLOT must not be empty", ErrInvalid))
	}
	switch c.LogFormat {
	case LogConsole, LogJSON:
	default:
		errs = append(errs, fmt.Errorf("%w: unknown log format %q", ErrInvalid, c.LogFormat))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalid, err))
	}
	if c.MapID == "" {
		errs = append(errs, fmt.Errorf("%w: GAME_MAP must not be empty", ErrInvalid))
	}
	return errors.Join(errs...)
}
