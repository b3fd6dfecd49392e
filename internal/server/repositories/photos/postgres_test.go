package photos

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/vmelnikov/picshare/internal/common"
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

	q := `(?s)^INSERT\s+INTO\s+photos\s*\(user_id,\s*image_key,\s*text\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+id,\s*created_at\s*$`

	created := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(10), created)
	mock.ExpectQuery(q).
		WithArgs(int64(1), "users/2025/3/4/k", "hello").
		WillReturnRows(rows)

	p := &models.Photo{UserID: 1, ImageKey: "users/2025/3/4/k", Text: "hello"}
	got, err := repo.Create(context.Background(), p)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 10 || !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected photo: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*user_id`).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 404)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected common.ErrNotFound, got %v", err)
	}
}

func TestFeed_JoinsAuthors(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+photos\.id.*FROM\s+photos\s+JOIN\s+users\s+ON\s+photos\.user_id\s*=\s*users\.id\s+ORDER\s+BY\s+photos\.created_at\s+DESC\s*$`

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "image_key", "text", "likes", "created_at", "username", "avatar_key"}).
		AddRow(int64(2), int64(1), "k2", "second", int64(3), now, "alice", "ak").
		AddRow(int64(1), int64(1), "k1", "first", int64(0), now.Add(-time.Hour), "alice", "ak")
	mock.ExpectQuery(q).WillReturnRows(rows)

	items, err := repo.Feed(context.Background())
	if err != nil {
		t.Fatalf("Feed error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ID != 2 || items[0].Username != "alice" || items[0].Likes != 3 {
		t.Fatalf("unexpected first item: %+v", items[0])
	}
}

func TestIncrementLikes(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+photos\s+SET\s+likes\s*=\s*likes\s*\+\s*1\s+WHERE\s+id\s*=\s*\$1\s+RETURNING\s+likes\s*$`

	rows := sqlmock.NewRows([]string{"likes"}).AddRow(int64(4))
	mock.ExpectQuery(q).WithArgs(int64(2)).WillReturnRows(rows)

	likes, err := repo.IncrementLikes(context.Background(), 2)
	if err != nil {
		t.Fatalf("IncrementLikes error: %v", err)
	}
	if likes != 4 {
		t.Fatalf("expected 4 likes, got %d", likes)
	}
}

func TestIncrementLikes_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^UPDATE\s+photos\s+SET\s+likes`).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.IncrementLikes(context.Background(), 404)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected common.ErrNotFound, got %v", err)
	}
}
