package storage

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func newFoldersWithMock(t *testing.T) (*PostgresFolders, sqlmock.Sqlmock, *sqlx.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return NewPostgresFolders(sqlxDB), mock, sqlxDB
}

func TestFoldersCreate_Success(t *testing.T) {
	repo, mock, db := newFoldersWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+folders\s*\(user_id,\s*folder_name\)\s*VALUES\s*\(\$1,\s*\$2\)\s*RETURNING\s+id,\s*created_at\s*$`

	created := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(11), created)
	mock.ExpectQuery(q).
		WithArgs(int64(42), "MyFolder").
		WillReturnRows(rows)

	folder, err := repo.Create(context.Background(), 42, "MyFolder")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if folder.ID != 11 || folder.UserID != 42 || folder.Name != "MyFolder" {
		t.Fatalf("unexpected folder: %+v", folder)
	}
	if !folder.CreatedAt.Equal(created) {
		t.Fatalf("unexpected created_at: %v", folder.CreatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFoldersCreate_DBError(t *testing.T) {
	repo, mock, db := newFoldersWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+folders`).
		WithArgs(int64(42), "MyFolder").
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), 42, "MyFolder")
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestFoldersFindByName_Found(t *testing.T) {
	repo, mock, db := newFoldersWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*user_id,\s*folder_name,\s*created_at\s+FROM\s+folders\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+folder_name\s*=\s*\$2\s+ORDER\s+BY\s+id\s+LIMIT\s+1\s*$`

	rows := sqlmock.NewRows([]string{"id", "user_id", "folder_name", "created_at"}).
		AddRow(int64(11), int64(42), "MyFolder", time.Now())
	mock.ExpectQuery(q).
		WithArgs(int64(42), "MyFolder").
		WillReturnRows(rows)

	folder, err := repo.FindByName(context.Background(), 42, "MyFolder")
	if err != nil {
		t.Fatalf("FindByName error: %v", err)
	}
	if folder.ID != 11 || folder.Name != "MyFolder" {
		t.Fatalf("unexpected folder: %+v", folder)
	}
}

func TestFoldersFindByName_NotFound(t *testing.T) {
	repo, mock, db := newFoldersWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*user_id,\s*folder_name`).
		WithArgs(int64(42), "ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByName(context.Background(), 42, "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFoldersDelete_Success(t *testing.T) {
	repo, mock, db := newFoldersWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+messages\s+WHERE\s+folder_id\s*=\s*\$1\s*$`).
		WithArgs(int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+folders\s+WHERE\s+id\s*=\s*\$1\s*$`).
		WithArgs(int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Delete(context.Background(), 11); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFoldersDelete_NotFound(t *testing.T) {
	repo, mock, db := newFoldersWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+messages`).
		WithArgs(int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+folders`).
		WithArgs(int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 11)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFoldersDelete_RollsBackOnFailure(t *testing.T) {
	repo, mock, db := newFoldersWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+messages`).
		WithArgs(int64(11)).
		WillReturnError(errors.New("db down"))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 11)
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFoldersCount(t *testing.T) {
	repo, mock, db := newFoldersWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+COUNT\(\*\)\s+FROM\s+folders\s*$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(5)))

	n, err := repo.Count(context.Background())
	if err != nil {
		t.Fatalf("Count error: %v", err)
	}
	if n != 5 {
		t.Fatalf("expected 5 folders, got %d", n)
	}
}
