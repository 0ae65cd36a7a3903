// Package service holds the archive service: folder and media orchestration
// on top of the storage repositories, with structured logging at the
// operation level.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/m3rciful/keeperbot/core/logger"
	"github.com/m3rciful/keeperbot/internal/models"
	"github.com/m3rciful/keeperbot/internal/storage"
	"log/slog"
)

// Archive exposes the folder/media operations the workflow drives.
type Archive struct {
	folders  storage.FolderRepository
	media    storage.MediaRepository
	feedback storage.FeedbackRepository
}

// NewArchive wires the archive service over its repositories.
func NewArchive(folders storage.FolderRepository, media storage.MediaRepository, feedback storage.FeedbackRepository) *Archive {
	return &Archive{folders: folders, media: media, feedback: feedback}
}

// Stats aggregates totals for the admin surface.
type Stats struct {
	Folders int64
	Media   int64
}

// CreateFolder inserts a folder for the user and returns it.
func (a *Archive) CreateFolder(ctx context.Context, userID int64, name string) (*models.Folder, error) {
	folder, err := a.folders.Create(ctx, userID, name)
	if err != nil {
		logger.Error(ctx, "service.folders", "folder.create",
			slog.String("status", "fail"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("create folder: %w", err)
	}
	logger.Info(ctx, "service.folders", "folder.create",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.Int64("folder_id", folder.ID),
	)
	return folder, nil
}

// FindFolder resolves a folder by name for the user. A miss is a normal
// branch reported as storage.ErrNotFound.
func (a *Archive) FindFolder(ctx context.Context, userID int64, name string) (*models.Folder, error) {
	folder, err := a.folders.FindByName(ctx, userID, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			logger.Debug(ctx, "service.folders", "folder.lookup",
				slog.String("status", "skip"),
				slog.Int64("user_id", userID),
			)
			return nil, err
		}
		logger.Error(ctx, "service.folders", "folder.lookup",
			slog.String("status", "fail"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("find folder: %w", err)
	}
	return folder, nil
}

// DeleteFolder removes the folder and all of its media references atomically.
func (a *Archive) DeleteFolder(ctx context.Context, folderID int64) error {
	if err := a.folders.Delete(ctx, folderID); err != nil {
		logger.Error(ctx, "service.folders", "folder.delete",
			slog.String("status", "fail"),
			slog.Int64("folder_id", folderID),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("delete folder: %w", err)
	}
	logger.Info(ctx, "service.folders", "folder.delete",
		slog.String("status", "ok"),
		slog.Int64("folder_id", folderID),
	)
	return nil
}

// AddMedia stores one media reference under the folder.
func (a *Archive) AddMedia(ctx context.Context, folderID int64, kind models.MediaKind, fileID string) error {
	if err := a.media.Add(ctx, folderID, kind, fileID); err != nil {
		logger.Error(ctx, "service.media", "media.add",
			slog.String("status", "fail"),
			slog.Int64("folder_id", folderID),
			slog.String("media_kind", string(kind)),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("add media: %w", err)
	}
	logger.Debug(ctx, "service.media", "media.add",
		slog.String("status", "ok"),
		slog.Int64("folder_id", folderID),
		slog.String("media_kind", string(kind)),
	)
	return nil
}

// ListMedia returns the folder's media references in insertion order.
func (a *Archive) ListMedia(ctx context.Context, folderID int64) ([]models.Media, error) {
	items, err := a.media.ListByFolder(ctx, folderID)
	if err != nil {
		logger.Error(ctx, "service.media", "media.list",
			slog.String("status", "fail"),
			slog.Int64("folder_id", folderID),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("list media: %w", err)
	}
	return items, nil
}

// SaveFeedback stores a free-text feedback message.
func (a *Archive) SaveFeedback(ctx context.Context, userID int64, text string) (*models.Feedback, error) {
	fb, err := a.feedback.Add(ctx, userID, text)
	if err != nil {
		logger.Error(ctx, "service.feedback", "feedback.save",
			slog.String("status", "fail"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("save feedback: %w", err)
	}
	logger.Info(ctx, "service.feedback", "feedback.save",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
	)
	return fb, nil
}

// CollectStats aggregates folder and media totals.
func (a *Archive) CollectStats(ctx context.Context) (*Stats, error) {
	folders, err := a.folders.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count folders: %w", err)
	}
	media, err := a.media.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count media: %w", err)
	}
	return &Stats{Folders: folders, Media: media}, nil
}
