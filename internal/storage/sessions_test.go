package storage

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/keeperbot/core/telegram/state"
)

func newSessionsWithMock(t *testing.T) (*PostgresSessions, sqlmock.Sqlmock, *sqlx.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return NewPostgresSessions(sqlxDB), mock, sqlxDB
}

func TestSessionsGet_WithFolder(t *testing.T) {
	repo, mock, db := newSessionsWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+step,\s*folder_id\s+FROM\s+user_sessions\s+WHERE\s+user_id\s*=\s*\$1\s*$`

	rows := sqlmock.NewRows([]string{"step", "folder_id"}).AddRow("recording", int64(11))
	mock.ExpectQuery(q).
		WithArgs(int64(42)).
		WillReturnRows(rows)

	sess, err := repo.Get(context.Background(), 42)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if sess == nil || sess.Step != state.Step("recording") {
		t.Fatalf("unexpected session: %+v", sess)
	}
	if sess.FolderID == nil || *sess.FolderID != 11 {
		t.Fatalf("unexpected folder id: %v", sess.FolderID)
	}
}

func TestSessionsGet_NullFolder(t *testing.T) {
	repo, mock, db := newSessionsWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"step", "folder_id"}).AddRow("waiting_folder_name", nil)
	mock.ExpectQuery(`(?s)^SELECT\s+step,\s*folder_id\s+FROM\s+user_sessions`).
		WithArgs(int64(42)).
		WillReturnRows(rows)

	sess, err := repo.Get(context.Background(), 42)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if sess == nil || sess.Step != state.Step("waiting_folder_name") || sess.FolderID != nil {
		t.Fatalf("unexpected session: %+v", sess)
	}
}

func TestSessionsGet_Idle(t *testing.T) {
	repo, mock, db := newSessionsWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+step,\s*folder_id\s+FROM\s+user_sessions`).
		WithArgs(int64(42)).
		WillReturnError(sql.ErrNoRows)

	sess, err := repo.Get(context.Background(), 42)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if sess != nil {
		t.Fatalf("expected nil session for idle user, got %+v", sess)
	}
}

func TestSessionsSet_Upsert(t *testing.T) {
	repo, mock, db := newSessionsWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+user_sessions\s*\(user_id,\s*step,\s*folder_id,\s*updated_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*now\(\)\)\s*ON\s+CONFLICT\s*\(user_id\)\s+DO\s+UPDATE\s+SET\s+step\s*=\s*EXCLUDED\.step,\s*folder_id\s*=\s*EXCLUDED\.folder_id,\s*updated_at\s*=\s*now\(\)\s*$`

	mock.ExpectExec(q).
		WithArgs(int64(42), "recording", int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	folderID := int64(11)
	if err := repo.Set(context.Background(), 42, state.Step("recording"), &folderID); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSessionsSet_NoFolder(t *testing.T) {
	repo, mock, db := newSessionsWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+user_sessions`).
		WithArgs(int64(42), "waiting_folder_name", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Set(context.Background(), 42, state.Step("waiting_folder_name"), nil); err != nil {
		t.Fatalf("Set error: %v", err)
	}
}

func TestSessionsClear(t *testing.T) {
	repo, mock, db := newSessionsWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+user_sessions\s+WHERE\s+user_id\s*=\s*\$1\s*$`).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Clear(context.Background(), 42); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
}
