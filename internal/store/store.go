// Package store persists fetched play events in a local SQLite
// database. Spotify only serves a short recently-played horizon, so
// accumulating plays across runs is the only way to build up a longer
// history.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jfmyers9/spins/internal/history"
)

// Store is a persistent play-history cache backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open creates or opens the play-history database at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single connection keeps in-memory databases consistent and is
	// plenty for a single interactive process.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA journal_mode = WAL",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	// The provider's played-at timestamp uniquely identifies a play,
	// so it doubles as the primary key and the dedupe criterion.
	schema := `
		CREATE TABLE IF NOT EXISTS plays (
			played_at_ms INTEGER PRIMARY KEY,
			kind TEXT NOT NULL,
			name TEXT NOT NULL,
			performers TEXT NOT NULL,
			show_name TEXT,
			duration_ms INTEGER NOT NULL,
			created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
		);

		CREATE INDEX IF NOT EXISTS idx_plays_kind ON plays(kind, played_at_ms);
	`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record inserts the events, skipping plays already cached.
// Returns the number of newly inserted rows.
func (s *Store) Record(ctx context.Context, events []history.PlayEvent) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO plays (played_at_ms, kind, name, performers, show_name, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, event := range events {
		performers, err := json.Marshal(event.Performers)
		if err != nil {
			return 0, fmt.Errorf("failed to encode performers: %w", err)
		}

		result, err := stmt.ExecContext(ctx,
			event.PlayedAt.UnixMilli(),
			string(event.Kind),
			event.Name,
			string(performers),
			event.ShowName,
			event.Duration.Milliseconds(),
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert play: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to get rows affected: %w", err)
		}
		inserted += int(rows)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return inserted, nil
}

// ListSince returns all cached plays at or after the cutoff, newest
// first to match the fetcher's ordering.
func (s *Store) ListSince(ctx context.Context, cutoff time.Time) ([]history.PlayEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT played_at_ms, kind, name, performers, COALESCE(show_name, ''), duration_ms
		FROM plays
		WHERE played_at_ms >= ?
		ORDER BY played_at_ms DESC
	`, cutoff.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to query plays: %w", err)
	}
	defer rows.Close()

	var events []history.PlayEvent
	for rows.Next() {
		var playedAtMs, durationMs int64
		var kind, name, performersJSON, showName string

		if err := rows.Scan(&playedAtMs, &kind, &name, &performersJSON, &showName, &durationMs); err != nil {
			return nil, fmt.Errorf("failed to scan play: %w", err)
		}

		var performers []string
		if err := json.Unmarshal([]byte(performersJSON), &performers); err != nil {
			return nil, fmt.Errorf("failed to decode performers: %w", err)
		}

		events = append(events, history.PlayEvent{
			Kind:       history.Kind(kind),
			Name:       name,
			Performers: performers,
			ShowName:   showName,
			Duration:   time.Duration(durationMs) * time.Millisecond,
			PlayedAt:   time.UnixMilli(playedAtMs).UTC(),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plays: %w", err)
	}

	return events, nil
}

// Count returns the number of cached plays.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM plays").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count plays: %w", err)
	}
	return count, nil
}
