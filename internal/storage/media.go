package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/keeperbot/internal/models"
)

// PostgresMedia is the sqlx-backed MediaRepository implementation.
type PostgresMedia struct {
	db *sqlx.DB
}

// NewPostgresMedia builds a media repository over the shared pool.
func NewPostgresMedia(db *sqlx.DB) *PostgresMedia {
	return &PostgresMedia{db: db}
}

// Add stores one media reference under the folder. A vanished folder
// surfaces as a foreign key violation, wrapped like any other store failure:
// an orphaned pending reference is a caller bug, not something to swallow.
func (r *PostgresMedia) Add(ctx context.Context, folderID int64, kind models.MediaKind, fileID string) error {
	query := `INSERT INTO messages (folder_id, message_type, file_id)
	          VALUES ($1, $2, $3)`

	if _, err := r.db.ExecContext(ctx, query, folderID, kind, fileID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ListByFolder returns the folder's media references in insertion order.
func (r *PostgresMedia) ListByFolder(ctx context.Context, folderID int64) ([]models.Media, error) {
	query := `SELECT id, folder_id, message_type, file_id, created_at FROM messages
	          WHERE folder_id = $1
	          ORDER BY id`

	var items []models.Media
	if err := r.db.SelectContext(ctx, &items, query, folderID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return items, nil
}

// Count returns the total number of stored media references.
func (r *PostgresMedia) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM messages`); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
