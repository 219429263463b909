package auth

import (
	"fmt"

	"war-lite/apps/server/internal/config"
)

func NewServiceFromConfig(cfg config.Config) (Service, error) {
	switch cfg.AuthMode {
	case config.ModeMemory:
		return NewManagerWithTTL(cfg.AuthSessionTTL), nil
	case config.ModeSQLite:
		path, err := LocalDatabasePath(cfg.AuthLocalDBPath)
		if err != nil {
			return nil, err
		}
		return NewSQLiteManager(path, cfg.AuthSessionTTL)
	case config.ModePostgres:
		return NewPostgresManager(cfg.AuthDSN, cfg.AuthSessionTTL)
	default:
		return nil, fmt.Errorf("invalid AUTH_MODE %q (supported: %s, %s, %s)",
			cfg.AuthMode, config.ModeMemory, config.ModeSQLite, config.ModePostgres)
	}
}
