// Package storage provides the Postgres persistence layer: folders, media
// references, feedback, and the conversational session store.
package storage

import (
	"context"
	"errors"

	"github.com/m3rciful/keeperbot/internal/models"
)

// ErrNotFound is returned by lookups that legitimately miss. Callers match it
// with errors.Is; it is a normal branch, not a failure.
var ErrNotFound = errors.New("not found")

// FolderRepository persists folders scoped to their owning user.
type FolderRepository interface {
	Create(ctx context.Context, userID int64, name string) (*models.Folder, error)
	FindByName(ctx context.Context, userID int64, name string) (*models.Folder, error)
	// Delete removes the folder and every media reference it contains in a
	// single atomic unit. A partial delete is never observable.
	Delete(ctx context.Context, folderID int64) error
	Count(ctx context.Context) (int64, error)
}

// MediaRepository persists media references owned by folders.
type MediaRepository interface {
	Add(ctx context.Context, folderID int64, kind models.MediaKind, fileID string) error
	// ListByFolder returns the folder's references in insertion order. An
	// empty slice is a valid result, distinct from an error.
	ListByFolder(ctx context.Context, folderID int64) ([]models.Media, error)
	Count(ctx context.Context) (int64, error)
}

// FeedbackRepository stores free-text feedback messages.
type FeedbackRepository interface {
	Add(ctx context.Context, userID int64, text string) (*models.Feedback, error)
}
