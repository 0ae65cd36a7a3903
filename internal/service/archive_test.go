package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/m3rciful/keeperbot/internal/models"
	"github.com/m3rciful/keeperbot/internal/storage"
)

type stubFolders struct {
	storage.FolderRepository

	findErr error
	count   int64
}

func (s *stubFolders) FindByName(context.Context, int64, string) (*models.Folder, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return &models.Folder{ID: 1, Name: "MyFolder"}, nil
}

func (s *stubFolders) Count(context.Context) (int64, error) { return s.count, nil }

type stubMedia struct {
	storage.MediaRepository

	addErr error
	count  int64
}

func (s *stubMedia) Add(context.Context, int64, models.MediaKind, string) error {
	return s.addErr
}

func (s *stubMedia) Count(context.Context) (int64, error) { return s.count, nil }

func TestFindFolderPassesThroughNotFound(t *testing.T) {
	svc := NewArchive(&stubFolders{findErr: storage.ErrNotFound}, &stubMedia{}, nil)

	_, err := svc.FindFolder(context.Background(), 42, "ghost")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestFindFolderWrapsStoreFailure(t *testing.T) {
	svc := NewArchive(&stubFolders{findErr: errors.New("db down")}, &stubMedia{}, nil)

	_, err := svc.FindFolder(context.Background(), 42, "MyFolder")
	require.Error(t, err)
	require.NotErrorIs(t, err, storage.ErrNotFound)
	require.Contains(t, err.Error(), "find folder")
}

func TestAddMediaWrapsStoreFailure(t *testing.T) {
	svc := NewArchive(&stubFolders{}, &stubMedia{addErr: errors.New("db down")}, nil)

	err := svc.AddMedia(context.Background(), 1, models.MediaPhoto, "ph-1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "add media")
}

func TestCollectStats(t *testing.T) {
	svc := NewArchive(&stubFolders{count: 3}, &stubMedia{count: 17}, nil)

	stats, err := svc.CollectStats(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(3), stats.Folders)
	require.Equal(t, int64(17), stats.Media)
}
