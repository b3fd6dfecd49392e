package photos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vmelnikov/picshare/internal/common"
	"github.com/vmelnikov/picshare/internal/dbx"
	"github.com/vmelnikov/picshare/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, photo *models.Photo) (*models.Photo, error) {

	query :=
		`INSERT INTO photos (user_id, image_key, text)
         VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		photo.UserID, photo.ImageKey, photo.Text).Scan(&photo.ID, &photo.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return photo, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Photo, error) {
	query :=
		`SELECT id, user_id, COALESCE(image_key, ''), COALESCE(text, ''), likes, created_at FROM photos
		 WHERE id = $1
		 `

	photo := &models.Photo{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&photo.ID, &photo.UserID, &photo.ImageKey, &photo.Text, &photo.Likes, &photo.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return photo, nil
}

func (r *PostgresRepository) Feed(ctx context.Context) ([]*models.FeedItem, error) {
	query :=
		`SELECT photos.id, photos.user_id, COALESCE(photos.image_key, ''), COALESCE(photos.text, ''),
		        photos.likes, photos.created_at, users.username, COALESCE(users.avatar_key, '')
		 FROM photos
		 JOIN users ON photos.user_id = users.id
		 ORDER BY photos.created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var items []*models.FeedItem
	for rows.Next() {
		item := &models.FeedItem{}
		if err := rows.Scan(&item.ID, &item.UserID, &item.ImageKey, &item.Text,
			&item.Likes, &item.CreatedAt, &item.Username, &item.AuthorAvatarKey); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return items, nil
}

func (r *PostgresRepository) IncrementLikes(ctx context.Context, id int64) (int64, error) {
	query :=
		`UPDATE photos SET likes = likes + 1
		 WHERE id = $1
		 RETURNING likes
		 `

	var likes int64
	err := r.db.QueryRowContext(ctx, query, id).Scan(&likes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}

	return likes, nil
}
