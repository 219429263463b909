package cards

import (
	"fmt"

	"war-lite/apps/server/internal/config"
)

func NewStoreFromConfig(cfg config.Config) (Store, error) {
	switch cfg.CardsMode {
	case config.ModeMemory:
		return NewMemoryStore(), nil
	case config.ModeSQLite:
		path, err := LocalDatabasePath(cfg.CardsLocalDBPath)
		if err != nil {
			return nil, err
		}
		return NewSQLiteStore(path)
	case config.ModePostgres:
		return NewPostgresStore(cfg.CardsDSN)
	default:
		return nil, fmt.Errorf("invalid CARDS_MODE %q (supported: %s, %s, %s)",
			cfg.CardsMode, config.ModeMemory, config.ModeSQLite, config.ModePostgres)
	}
}
