package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/keeperbot/core/telegram/state"
)

// PostgresSessions persists conversational sessions, one row per user.
// Set has REPLACE semantics: concurrent writers for the same user resolve
// last-write-wins through the upsert.
type PostgresSessions struct {
	db *sqlx.DB
}

// NewPostgresSessions builds a session store over the shared pool.
func NewPostgresSessions(db *sqlx.DB) *PostgresSessions {
	return &PostgresSessions{db: db}
}

var _ state.Store = (*PostgresSessions)(nil)

// Get returns the user's session, or nil when the user is idle.
func (r *PostgresSessions) Get(ctx context.Context, userID int64) (*state.Session, error) {
	query := `SELECT step, folder_id FROM user_sessions WHERE user_id = $1`

	var row struct {
		Step     string        `db:"step"`
		FolderID sql.NullInt64 `db:"folder_id"`
	}
	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	sess := &state.Session{Step: state.Step(row.Step)}
	if row.FolderID.Valid {
		id := row.FolderID.Int64
		sess.FolderID = &id
	}
	return sess, nil
}

// Set upserts the session for a user.
func (r *PostgresSessions) Set(ctx context.Context, userID int64, step state.Step, folderID *int64) error {
	query := `INSERT INTO user_sessions (user_id, step, folder_id, updated_at)
	          VALUES ($1, $2, $3, now())
	          ON CONFLICT (user_id) DO UPDATE
	          SET step = EXCLUDED.step, folder_id = EXCLUDED.folder_id, updated_at = now()`

	var fid sql.NullInt64
	if folderID != nil {
		fid = sql.NullInt64{Int64: *folderID, Valid: true}
	}
	if _, err := r.db.ExecContext(ctx, query, userID, string(step), fid); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Clear removes the session, returning the user to idle.
func (r *PostgresSessions) Clear(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
