package comments

import (
	"context"
	"fmt"

	"github.com/vmelnikov/picshare/internal/dbx"
	"github.com/vmelnikov/picshare/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {

	query :=
		`INSERT INTO comments (photo_id, user_id, text)
         VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		comment.PhotoID, comment.UserID, comment.Text).Scan(&comment.ID, &comment.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return comment, nil
}

func (r *PostgresRepository) ListByPhoto(ctx context.Context, photoID int64) ([]*models.CommentWithAuthor, error) {
	query :=
		`SELECT comments.id, comments.photo_id, comments.user_id, comments.text, comments.created_at, users.username
		 FROM comments
		 JOIN users ON comments.user_id = users.id
		 WHERE comments.photo_id = $1
		 ORDER BY comments.created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, photoID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var list []*models.CommentWithAuthor
	for rows.Next() {
		c := &models.CommentWithAuthor{}
		if err := rows.Scan(&c.ID, &c.PhotoID, &c.UserID, &c.Text, &c.CreatedAt, &c.Username); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return list, nil
}
