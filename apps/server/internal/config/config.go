// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	ModeMemory   = "memory"
	ModeSQLite   = "sqlite"
	ModePostgres = "postgres"
	ModeOff      = "off"
)

type Config struct {
	Addr string `env:"ADDR" envDefault:":8080"`

	AuthMode          string        `env:"AUTH_MODE" envDefault:"memory"`
	AuthDSN           string        `env:"AUTH_DATABASE_DSN"`
	AuthLocalDBPath   string        `env:"AUTH_LOCAL_DATABASE_PATH"`
	AuthSessionTTL    time.Duration `env:"AUTH_SESSION_TTL" envDefault:"720h"`
	CardsMode         string        `env:"CARDS_MODE" envDefault:"memory"`
	CardsDSN          string        `env:"CARDS_DATABASE_DSN"`
	CardsLocalDBPath  string        `env:"CARDS_LOCAL_DATABASE_PATH"`
	LedgerMode        string        `env:"LEDGER_MODE" envDefault:"memory"`
	LedgerLocalDBPath string        `env:"LEDGER_LOCAL_DATABASE_PATH"`
	WarMaxRounds      int           `env:"WAR_MAX_ROUNDS" envDefault:"10000"`
	WarFaceDown       int           `env:"WAR_FACE_DOWN" envDefault:"3"`

	// Shared fallbacks when a store-specific setting is empty.
	DatabaseURL       string `env:"DATABASE_URL"`
	LocalDatabasePath string `env:"LOCAL_DATABASE_PATH"`
}

// Load parses the environment and normalizes store modes.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	var err error
	if cfg.AuthMode, err = NormalizeMode("AUTH_MODE", cfg.AuthMode, false); err != nil {
		return Config{}, err
	}
	if cfg.CardsMode, err = NormalizeMode("CARDS_MODE", cfg.CardsMode, false); err != nil {
		return Config{}, err
	}
	if cfg.LedgerMode, err = NormalizeMode("LEDGER_MODE", cfg.LedgerMode, true); err != nil {
		return Config{}, err
	}
	if cfg.LedgerMode == ModePostgres {
		return Config{}, fmt.Errorf("invalid LEDGER_MODE %q (supported: %s, %s, %s)",
			cfg.LedgerMode, ModeMemory, ModeSQLite, ModeOff)
	}
	if cfg.AuthSessionTTL <= 0 {
		return Config{}, fmt.Errorf("AUTH_SESSION_TTL must be > 0")
	}
	if cfg.WarMaxRounds <= 0 || cfg.WarFaceDown <= 0 {
		return Config{}, fmt.Errorf("WAR_MAX_ROUNDS and WAR_FACE_DOWN must be > 0")
	}
	if cfg.AuthDSN == "" {
		cfg.AuthDSN = cfg.DatabaseURL
	}
	if cfg.CardsDSN == "" {
		cfg.CardsDSN = cfg.DatabaseURL
	}
	if cfg.AuthLocalDBPath == "" {
		cfg.AuthLocalDBPath = cfg.LocalDatabasePath
	}
	if cfg.CardsLocalDBPath == "" {
		cfg.CardsLocalDBPath = cfg.LocalDatabasePath
	}
	if cfg.LedgerLocalDBPath == "" {
		cfg.LedgerLocalDBPath = cfg.LocalDatabasePath
	}
	return cfg, nil
}

// NormalizeMode maps the accepted spellings of a store mode onto one of the
// Mode constants.
func NormalizeMode(name, raw string, allowOff bool) (string, error) {
	mode := strings.ToLower(strings.TrimSpace(raw))
	switch mode {
	case "", ModeMemory, "mem":
		return ModeMemory, nil
	case ModeSQLite, "local", "sqlite3":
		return ModeSQLite, nil
	case ModePostgres, "postgresql", "db", "pg":
		return ModePostgres, nil
	case ModeOff, "none", "disabled":
		if allowOff {
			return ModeOff, nil
		}
	}
	return "", fmt.Errorf("invalid %s %q", name, raw)
}
