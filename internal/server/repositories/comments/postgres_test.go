package comments

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/vmelnikov/picshare/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+comments\s*\(photo_id,\s*user_id,\s*text\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+id,\s*created_at\s*$`

	created := time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(3), created)
	mock.ExpectQuery(q).
		WithArgs(int64(1), int64(2), "nice shot").
		WillReturnRows(rows)

	c := &models.Comment{PhotoID: 1, UserID: 2, Text: "nice shot"}
	got, err := repo.Create(context.Background(), c)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 3 || !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected comment: %+v", got)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+comments`).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.Comment{PhotoID: 1, UserID: 2, Text: "x"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestListByPhoto(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+comments\.id.*FROM\s+comments\s+JOIN\s+users\s+ON\s+comments\.user_id\s*=\s*users\.id\s+WHERE\s+comments\.photo_id\s*=\s*\$1\s+ORDER\s+BY\s+comments\.created_at\s*$`

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "photo_id", "user_id", "text", "created_at", "username"}).
		AddRow(int64(1), int64(9), int64(2), "first", now.Add(-time.Minute), "alice").
		AddRow(int64(2), int64(9), int64(3), "second", now, "bob")
	mock.ExpectQuery(q).WithArgs(int64(9)).WillReturnRows(rows)

	list, err := repo.ListByPhoto(context.Background(), 9)
	if err != nil {
		t.Fatalf("ListByPhoto error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(list))
	}
	if list[0].Username != "alice" || list[1].Username != "bob" {
		t.Fatalf("unexpected authors: %+v", list)
	}
}

func TestListByPhoto_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "photo_id", "user_id", "text", "created_at", "username"})
	mock.ExpectQuery(`(?s)^SELECT\s+comments\.id`).WithArgs(int64(9)).WillReturnRows(rows)

	list, err := repo.ListByPhoto(context.Background(), 9)
	if err != nil {
		t.Fatalf("ListByPhoto error: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected no comments, got %d", len(list))
	}
}
