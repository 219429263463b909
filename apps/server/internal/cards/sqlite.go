package cards

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"war-lite/card"
)

const defaultLocalDBName = "war_local.db"

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("empty sqlite database path")
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
	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS cards (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    suit INTEGER NOT NULL,
    rank TEXT NOT NULL,
    created_at_ms INTEGER NOT NULL
)`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) Create(ctx context.Context, c card.Card) (StoredCard, error) {
	if err := validate(c); err != nil {
		return StoredCard{}, err
	}
	res, err := s.db.ExecContext(ctx, `
INSERT INTO cards (suit, rank, created_at_ms)
VALUES (?, ?, ?)
`, c.Suit().Code(), c.Rank().String(), time.Now().UTC().UnixMilli())
	if err != nil {
		return StoredCard{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return StoredCard{}, err
	}
	return StoredCard{ID: id, Card: c}, nil
}

func (s *SQLiteStore) CreateMany(ctx context.Context, cs []card.Card) error {
	for _, c := range cs {
		if err := validate(c); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO cards (suit, rank, created_at_ms)
VALUES (?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	nowMs := time.Now().UTC().UnixMilli()
	for _, c := range cs {
		if _, err := stmt.ExecContext(ctx, c.Suit().Code(), c.Rank().String(), nowMs); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) List(ctx context.Context) ([]StoredCard, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, suit, rank FROM cards ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCards(rows)
}

func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func scanCards(rows *sql.Rows) ([]StoredCard, error) {
	var out []StoredCard
	for rows.Next() {
		var (
			id       int64
			suitCode int
			rank     string
		)
		if err := rows.Scan(&id, &suitCode, &rank); err != nil {
			return nil, err
		}
		c, err := decodeRow(suitCode, rank)
		if err != nil {
			return nil, fmt.Errorf("card row %d: %w", id, err)
		}
		out = append(out, StoredCard{ID: id, Card: c})
	}
	return out, rows.Err()
}

// LocalDatabasePath returns path when set, otherwise the per-user default.
func LocalDatabasePath(path string) (string, error) {
	if p := strings.TrimSpace(path); p != "" {
		return filepath.Clean(p), nil
	}
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userConfigDir, "WarLite", defaultLocalDBName), nil
}
