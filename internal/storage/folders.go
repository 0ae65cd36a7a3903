package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/keeperbot/internal/models"
)

// PostgresFolders is the sqlx-backed FolderRepository implementation.
type PostgresFolders struct {
	db *sqlx.DB
}

// NewPostgresFolders builds a folder repository over the shared pool.
func NewPostgresFolders(db *sqlx.DB) *PostgresFolders {
	return &PostgresFolders{db: db}
}

// Create inserts a folder for the user. Duplicate names are permitted.
func (r *PostgresFolders) Create(ctx context.Context, userID int64, name string) (*models.Folder, error) {
	query := `INSERT INTO folders (user_id, folder_name)
	          VALUES ($1, $2)
	          RETURNING id, created_at`

	folder := &models.Folder{UserID: userID, Name: name}
	err := r.db.QueryRowxContext(ctx, query, userID, name).Scan(&folder.ID, &folder.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return folder, nil
}

// FindByName resolves a folder by its per-user name. When duplicates exist
// the oldest one wins, deterministically.
func (r *PostgresFolders) FindByName(ctx context.Context, userID int64, name string) (*models.Folder, error) {
	query := `SELECT id, user_id, folder_name, created_at FROM folders
	          WHERE user_id = $1 AND folder_name = $2
	          ORDER BY id
	          LIMIT 1`

	folder := &models.Folder{}
	err := r.db.GetContext(ctx, folder, query, userID, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return folder, nil
}

// Delete removes the folder's media references and the folder row inside one
// transaction, so a partial delete can never be observed.
func (r *PostgresFolders) Delete(ctx context.Context, folderID int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE folder_id = $1`, folderID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM folders WHERE id = $1`, folderID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Count returns the total number of folders across all users.
func (r *PostgresFolders) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM folders`); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
