package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"war-lite/apps/server/internal/config"
)

const (
	defaultRecentLimit = 200
	defaultListLimit   = 20
	maxListLimit       = 100
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidRecord = errors.New("invalid game record")
)

// Outcome is a finished game seen from the recorded player's side.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
)

type GameRecord struct {
	GameID   string         `json:"game_id"`
	PlayerID uint64         `json:"player_id"`
	Outcome  Outcome        `json:"outcome"`
	Rounds   int            `json:"rounds"`
	Wars     int            `json:"wars"`
	PlayedAt time.Time      `json:"played_at"`
	Summary  map[string]any `json:"summary"`
}

type Stats struct {
	Games  int `json:"games"`
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`
}

type Service interface {
	Close() error
	// RecordGame stores rec, replacing an earlier record with the same player and game ID.
	RecordGame(ctx context.Context, rec GameRecord) error
	ListRecent(ctx context.Context, playerID uint64, limit int) ([]GameRecord, error)
	GetGame(ctx context.Context, playerID uint64, gameID string) (GameRecord, error)
	Stats(ctx context.Context, playerID uint64) (Stats, error)
}

func NewServiceFromConfig(cfg config.Config) (Service, error) {
	switch cfg.LedgerMode {
	case config.ModeOff:
		return &noopService{}, nil
	case config.ModeMemory:
		return NewMemoryService(defaultRecentLimit), nil
	case config.ModeSQLite:
		path, err := localDatabasePath(cfg.LedgerLocalDBPath)
		if err != nil {
			return nil, err
		}
		return NewSQLiteService(path, defaultRecentLimit)
	default:
		return nil, fmt.Errorf("invalid LEDGER_MODE %q (supported: %s, %s, %s)",
			cfg.LedgerMode, config.ModeOff, config.ModeMemory, config.ModeSQLite)
	}
}

func validateRecord(rec GameRecord) error {
	if rec.PlayerID == 0 || strings.TrimSpace(rec.GameID) == "" {
		return fmt.Errorf("%w: missing player or game id", ErrInvalidRecord)
	}
	switch rec.Outcome {
	case OutcomeWin, OutcomeLoss, OutcomeDraw:
	default:
		return fmt.Errorf("%w: outcome %q", ErrInvalidRecord, rec.Outcome)
	}
	return nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > maxListLimit {
		return defaultListLimit
	}
	return limit
}

func (s *Stats) add(o Outcome) {
	s.Games++
	switch o {
	case OutcomeWin:
		s.Wins++
	case OutcomeLoss:
		s.Losses++
	case OutcomeDraw:
		s.Draws++
	}
}

type noopService struct{}

func (n *noopService) Close() error { return nil }

func (n *noopService) RecordGame(_ context.Context, _ GameRecord) error { return nil }

func (n *noopService) ListRecent(_ context.Context, _ uint64, _ int) ([]GameRecord, error) {
	return []GameRecord{}, nil
}

func (n *noopService) GetGame(_ context.Context, _ uint64, _ string) (GameRecord, error) {
	return GameRecord{}, ErrNotFound
}

func (n *noopService) Stats(_ context.Context, _ uint64) (Stats, error) { return Stats{}, nil }

// MemoryService keeps the most recent games per player in process memory.
type MemoryService struct {
	mu          sync.Mutex
	recentLimit int
	byPlayer    map[uint64][]GameRecord // newest last
}

func NewMemoryService(recentLimit int) *MemoryService {
	if recentLimit <= 0 {
		recentLimit = defaultRecentLimit
	}
	return &MemoryService{
		recentLimit: recentLimit,
		byPlayer:    make(map[uint64][]GameRecord),
	}
}

func (m *MemoryService) Close() error { return nil }

func (m *MemoryService) RecordGame(_ context.Context, rec GameRecord) error {
	if err := validateRecord(rec); err != nil {
		return err
	}
	if rec.PlayedAt.IsZero() {
		rec.PlayedAt = time.Now().UTC()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	games := m.byPlayer[rec.PlayerID]
	for i := range games {
		if games[i].GameID == rec.GameID {
			games = append(games[:i], games[i+1:]...)
			break
		}
	}
	games = append(games, rec)
	sort.SliceStable(games, func(i, j int) bool { return games[i].PlayedAt.Before(games[j].PlayedAt) })
	if len(games) > m.recentLimit {
		games = games[len(games)-m.recentLimit:]
	}
	m.byPlayer[rec.PlayerID] = games
	return nil
}

func (m *MemoryService) ListRecent(_ context.Context, playerID uint64, limit int) ([]GameRecord, error) {
	limit = clampLimit(limit)
	m.mu.Lock()
	defer m.mu.Unlock()

	games := m.byPlayer[playerID]
	out := make([]GameRecord, 0, limit)
	for i := len(games) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, games[i])
	}
	return out, nil
}

func (m *MemoryService) GetGame(_ context.Context, playerID uint64, gameID string) (GameRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.byPlayer[playerID] {
		if g.GameID == gameID {
			return g, nil
		}
	}
	return GameRecord{}, ErrNotFound
}

func (m *MemoryService) Stats(_ context.Context, playerID uint64) (Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var st Stats
	for _, g := range m.byPlayer[playerID] {
		st.add(g.Outcome)
	}
	return st, nil
}
