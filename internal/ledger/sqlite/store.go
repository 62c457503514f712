// Package sqlite provides the SQLite-backed score ledger.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/xoldn/intuition/internal/ledger"
	"github.com/xoldn/intuition/internal/ledger/sqlite/migrations"
)

// Store persists score records in SQLite. Same-key increments serialize in
// the database via a single upsert statement, so concurrent resolutions for
// one player never lose an update.
type Store struct {
	sqlDB *sql.DB
}

// Open opens the ledger database at path and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) RecordOutcome(ctx context.Context, playerID, displayName string, wasCorrect bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return fmt.Errorf("player id is required")
	}

	correct, wrong := 0, 0
	if wasCorrect {
		correct = 1
	} else {
		wrong = 1
	}

	name := strings.TrimSpace(displayName)
	insertName := name
	if insertName == "" {
		insertName = ledger.DefaultDisplayName
	}

	// An empty submitted name keeps the stored one; a non-empty name wins.
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO players (player_id, display_name, correct, wrong, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(player_id) DO UPDATE SET
		   correct      = players.correct + excluded.correct,
		   wrong        = players.wrong + excluded.wrong,
		   display_name = CASE WHEN ? = '' THEN players.display_name ELSE ? END,
		   updated_at   = excluded.updated_at`,
		playerID,
		insertName,
		correct,
		wrong,
		nowMillis(),
		name,
		name,
	)
	if err != nil {
		return fmt.Errorf("%w: record outcome: %v", ledger.ErrUnavailable, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, playerID string) (ledger.Record, error) {
	if err := ctx.Err(); err != nil {
		return ledger.Record{}, err
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT player_id, display_name, correct, wrong FROM players WHERE player_id = ?`,
		playerID,
	)

	var r ledger.Record
	err := row.Scan(&r.PlayerID, &r.DisplayName, &r.Correct, &r.Wrong)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.Record{PlayerID: playerID, DisplayName: ledger.DefaultDisplayName}, nil
		}
		return ledger.Record{}, fmt.Errorf("%w: get record: %v", ledger.ErrUnavailable, err)
	}
	return r, nil
}

func (s *Store) SetDisplayName(ctx context.Context, playerID, displayName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name := strings.TrimSpace(displayName)
	if name == "" {
		return nil
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE players SET display_name = ?, updated_at = ? WHERE player_id = ?`,
		name,
		nowMillis(),
		playerID,
	)
	if err != nil {
		return fmt.Errorf("%w: set display name: %v", ledger.ErrUnavailable, err)
	}
	return nil
}

func (s *Store) SetTotals(ctx context.Context, playerID, displayName string, correct, wrong int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return fmt.Errorf("player id is required")
	}
	if correct < 0 || wrong < 0 {
		return fmt.Errorf("counters must be non-negative")
	}

	name := strings.TrimSpace(displayName)
	if name == "" {
		name = ledger.DefaultDisplayName
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO players (player_id, display_name, correct, wrong, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(player_id) DO UPDATE SET
		   display_name = excluded.display_name,
		   correct      = excluded.correct,
		   wrong        = excluded.wrong,
		   updated_at   = excluded.updated_at`,
		playerID,
		name,
		correct,
		wrong,
		nowMillis(),
	)
	if err != nil {
		return fmt.Errorf("%w: set totals: %v", ledger.ErrUnavailable, err)
	}
	return nil
}

func (s *Store) Leaderboard(ctx context.Context, n, minAttempts int) ([]ledger.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, fmt.Errorf("leaderboard size must be greater than zero")
	}

	// rowid keeps ties in insertion order, matching the in-memory store.
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT player_id, display_name, correct, wrong
		   FROM players
		  WHERE correct + wrong >= ?
		  ORDER BY correct - wrong DESC, rowid ASC
		  LIMIT ?`,
		minAttempts,
		n,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: leaderboard: %v", ledger.ErrUnavailable, err)
	}
	defer rows.Close()

	var records []ledger.Record
	for rows.Next() {
		var r ledger.Record
		if err := rows.Scan(&r.PlayerID, &r.DisplayName, &r.Correct, &r.Wrong); err != nil {
			return nil, fmt.Errorf("%w: leaderboard: %v", ledger.ErrUnavailable, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: leaderboard: %v", ledger.ErrUnavailable, err)
	}
	return records, nil
}

func nowMillis() int64 {
	return time.Now().UTC().UnixMilli()
}

var _ ledger.Store = (*Store)(nil)
