package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yaremchuk/theatre-boxoffice/internal/model"
)

// MySQLStore persists seance state in a single upsert table.  The state
// document stays opaque JSON on purpose: the inventory core is the policy
// layer and the database is a dumb ledger, mirroring how the store/commit
// split works in memory.
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore binds the store to an open DB handle and ensures the
// backing table exists.
func NewMySQLStore(ctx context.Context, db *sql.DB) (*MySQLStore, error) {
	const ddl = `CREATE TABLE IF NOT EXISTS seance_states (
        seance_id  VARCHAR(128) NOT NULL PRIMARY KEY,
        state      MEDIUMTEXT   NOT NULL,
        updated_at TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
    )`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return nil, fmt.Errorf("create seance_states table: %w", err)
	}
	return &MySQLStore{db: db}, nil
}

// Load reads the state row for a seance.  sql.ErrNoRows maps to
// ErrSeanceStateNotFound.
func (s *MySQLStore) Load(ctx context.Context, seanceID string) (*SeanceState, error) {
	const q = `SELECT state FROM seance_states WHERE seance_id = ?`
	var raw string
	if err := s.db.QueryRowContext(ctx, q, seanceID).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeanceStateNotFound
		}
		return nil, fmt.Errorf("select seance state: %w", err)
	}
	st := NewSeanceState()
	if err := json.Unmarshal([]byte(raw), st); err != nil {
		return nil, fmt.Errorf("decode seance state %s: %w", seanceID, err)
	}
	if st.SeatStatuses == nil {
		st.SeatStatuses = make(map[string]model.Place)
	}
	return st, nil
}

// Save upserts the state row for a seance.
func (s *MySQLStore) Save(ctx context.Context, seanceID string, state *SeanceState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode seance state: %w", err)
	}
	const q = `INSERT INTO seance_states (seance_id, state) VALUES (?, ?)
               ON DUPLICATE KEY UPDATE state = VALUES(state)`
	if _, err := s.db.ExecContext(ctx, q, seanceID, string(raw)); err != nil {
		return fmt.Errorf("upsert seance state: %w", err)
	}
	return nil
}
