// Package scores persists finished sessions in a local SQLite table.
package scores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/plus3/blockfall/game"
)

// Entry is one finished session.
type Entry struct {
	ID       uuid.UUID
	Score    uint
	Lines    int
	Pieces   int
	Ticks    uint64
	PlayedAt time.Time
}

// EntryFor summarizes s as it stands at playedAt.
func EntryFor(s *game.Session, playedAt time.Time) Entry {
	stats := s.Stats()
	return Entry{
		ID:       uuid.New(),
		Score:    s.Score(),
		Lines:    stats.Lines,
		Pieces:   stats.Locked,
		Ticks:    s.Ticks(),
		PlayedAt: playedAt,
	}
}

// Store is a high-score table backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open creates the database file (and its directory) if needed and ensures
// the schema exists.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func createSchema(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS scores (
			id TEXT PRIMARY KEY,
			score INTEGER NOT NULL,
			lines INTEGER NOT NULL,
			pieces INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			played_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_scores_score ON scores(score DESC, played_at);`,
	}
	for _, query := range schema {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the database handle.
func (st *Store) Close() error {
	return st.db.Close()
}

// Record inserts e.
func (st *Store) Record(ctx context.Context, e Entry) error {
	if e.ID == uuid.Nil {
		return fmt.Errorf("failed to record score: missing id")
	}
	_, err := st.db.ExecContext(ctx,
		`INSERT INTO scores (id, score, lines, pieces, ticks, played_at) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID.String(), int64(e.Score), e.Lines, e.Pieces, int64(e.Ticks), e.PlayedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to record score: %w", err)
	}
	return nil
}

// Top returns the n best entries, highest score first; ties go to the
// earlier session.
func (st *Store) Top(ctx context.Context, n int) ([]Entry, error) {
	rows, err := st.db.QueryContext(ctx,
		`SELECT id, score, lines, pieces, ticks, played_at FROM scores
		 ORDER BY score DESC, played_at ASC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Best returns the highest recorded score, or 0 when the table is empty.
func (st *Store) Best(ctx context.Context) (uint, error) {
	var best sql.NullInt64
	err := st.db.QueryRowContext(ctx, `SELECT MAX(score) FROM scores`).Scan(&best)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to query best score: %w", err)
	}
	return uint(best.Int64), nil
}

// Count returns how many sessions are recorded.
func (st *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := st.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scores`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count scores: %w", err)
	}
	return n, nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var (
		e        Entry
		id       string
		score    int64
		ticks    int64
		playedAt int64
	)
	if err := rows.Scan(&id, &score, &e.Lines, &e.Pieces, &ticks, &playedAt); err != nil {
		return Entry{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Entry{}, err
	}
	e.ID = parsed
	e.Score = uint(score)
	e.Ticks = uint64(ticks)
	e.PlayedAt = time.Unix(0, playedAt)
	return e, nil
}
