package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/playperu/flagquiz/internal/flagquiz"
)

// Fixed-width UTC timestamps so updated_at compares lexically.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore keeps game snapshots as JSONB documents in the games table
// created by the migrations package.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

func (s *SQLiteStore) Load(ctx context.Context, id string) (flagquiz.Snapshot, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM games WHERE id = ?`, id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return flagquiz.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return flagquiz.Snapshot{}, fmt.Errorf("loading game %s: %w", id, err)
	}

	var snap flagquiz.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return flagquiz.Snapshot{}, fmt.Errorf("decoding game %s: %w", id, err)
	}
	return snap, nil
}

func (s *SQLiteStore) Save(ctx context.Context, id string, snap flagquiz.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding game %s: %w", id, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO games (id, state, data, updated_at) VALUES (?, ?, jsonb(?), ?)
		 ON CONFLICT(id) DO UPDATE SET
			state = excluded.state,
			data = excluded.data,
			updated_at = excluded.updated_at`,
		id, snap.State.String(), string(data), s.now().UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("saving game %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting game %s: %w", id, err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Prune(ctx context.Context, before time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM games WHERE updated_at < ?`, before.UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("pruning games: %w", err)
	}
	n, _ := result.RowsAffected()
	return int(n), nil
}

func (s *SQLiteStore) Check(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
