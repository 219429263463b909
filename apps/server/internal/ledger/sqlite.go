package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const defaultLocalDBName = "war_local.db"

type SQLiteService struct {
	db          *sql.DB
	recentLimit int
}

func NewSQLiteService(dbPath string, recentLimit int) (*SQLiteService, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if recentLimit <= 0 {
		recentLimit = defaultRecentLimit
	}
	if dbPath != ":memory:" {
		parent := filepath.Dir(dbPath)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSQLiteLedgerSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteService{
		db:          db,
		recentLimit: recentLimit,
	}, nil
}

func (s *SQLiteService) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteService) RecordGame(ctx context.Context, rec GameRecord) error {
	if err := validateRecord(rec); err != nil {
		return err
	}
	if rec.PlayedAt.IsZero() {
		rec.PlayedAt = time.Now().UTC()
	}
	summary := rec.Summary
	if summary == nil {
		summary = map[string]any{}
	}
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	nowMs := time.Now().UTC().UnixMilli()
	if _, err := tx.ExecContext(ctx, `
INSERT INTO game_history (
    player_id, game_id, outcome, rounds, wars, played_at_ms, summary_json, created_at_ms, updated_at_ms
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (player_id, game_id) DO UPDATE SET
    outcome = excluded.outcome,
    rounds = excluded.rounds,
    wars = excluded.wars,
    played_at_ms = excluded.played_at_ms,
    summary_json = excluded.summary_json,
    updated_at_ms = excluded.updated_at_ms
`, rec.PlayerID, rec.GameID, string(rec.Outcome), rec.Rounds, rec.Wars,
		rec.PlayedAt.UTC().UnixMilli(), string(summaryJSON), nowMs, nowMs); err != nil {
		return err
	}

	// keep only the newest recentLimit games per player
	if _, err := tx.ExecContext(ctx, `
DELETE FROM game_history
WHERE player_id = ?
  AND id NOT IN (
    SELECT id FROM game_history
    WHERE player_id = ?
    ORDER BY played_at_ms DESC, id DESC
    LIMIT ?
  )
`, rec.PlayerID, rec.PlayerID, s.recentLimit); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteService) ListRecent(ctx context.Context, playerID uint64, limit int) ([]GameRecord, error) {
	if playerID == 0 {
		return []GameRecord{}, nil
	}
	limit = clampLimit(limit)

	rows, err := s.db.QueryContext(ctx, `
SELECT player_id, game_id, outcome, rounds, wars, played_at_ms, summary_json
FROM game_history
WHERE player_id = ?
ORDER BY played_at_ms DESC, id DESC
LIMIT ?
`, playerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]GameRecord, 0, limit)
	for rows.Next() {
		item, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *SQLiteService) GetGame(ctx context.Context, playerID uint64, gameID string) (GameRecord, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT player_id, game_id, outcome, rounds, wars, played_at_ms, summary_json
FROM game_history
WHERE player_id = ?
  AND game_id = ?
`, playerID, strings.TrimSpace(gameID))
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return GameRecord{}, ErrNotFound
	}
	return rec, err
}

func (s *SQLiteService) Stats(ctx context.Context, playerID uint64) (Stats, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT outcome, COUNT(*)
FROM game_history
WHERE player_id = ?
GROUP BY outcome
`, playerID)
	if err != nil {
		return Stats{}, err
	}
	defer rows.Close()

	var st Stats
	for rows.Next() {
		var (
			outcome string
			n       int
		)
		if err := rows.Scan(&outcome, &n); err != nil {
			return Stats{}, err
		}
		for i := 0; i < n; i++ {
			st.add(Outcome(outcome))
		}
	}
	return st, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (GameRecord, error) {
	var (
		rec         GameRecord
		outcome     string
		playedAtMs  int64
		summaryJSON string
	)
	if err := row.Scan(&rec.PlayerID, &rec.GameID, &outcome, &rec.Rounds, &rec.Wars, &playedAtMs, &summaryJSON); err != nil {
		return GameRecord{}, err
	}
	rec.Outcome = Outcome(outcome)
	rec.PlayedAt = time.UnixMilli(playedAtMs).UTC()
	if summaryJSON != "" {
		if err := json.Unmarshal([]byte(summaryJSON), &rec.Summary); err != nil {
			return GameRecord{}, fmt.Errorf("decode summary of game %s: %w", rec.GameID, err)
		}
	}
	if rec.Summary == nil {
		rec.Summary = map[string]any{}
	}
	return rec, nil
}

func ensureSQLiteLedgerSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS game_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    player_id INTEGER NOT NULL,
    game_id TEXT NOT NULL,
    outcome TEXT NOT NULL,
    rounds INTEGER NOT NULL,
    wars INTEGER NOT NULL,
    played_at_ms INTEGER NOT NULL,
    summary_json TEXT NOT NULL DEFAULT '{}',
    created_at_ms INTEGER NOT NULL,
    updated_at_ms INTEGER NOT NULL,
    UNIQUE (player_id, game_id)
)`,
		`CREATE INDEX IF NOT EXISTS idx_game_history_recent ON game_history(player_id, played_at_ms DESC)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func localDatabasePath(path string) (string, error) {
	if p := strings.TrimSpace(path); p != "" {
		return filepath.Clean(p), nil
	}
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userConfigDir, "WarLite", defaultLocalDBName), nil
}
