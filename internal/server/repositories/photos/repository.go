package photos

import (
	"context"

	"github.com/vmelnikov/picshare/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, photo *models.Photo) (*models.Photo, error)
	GetByID(ctx context.Context, id int64) (*models.Photo, error)
	// Feed returns every photo joined with its author, newest first.
	Feed(ctx context.Context) ([]*models.FeedItem, error)
	// IncrementLikes bumps the like counter and returns the new value.
	IncrementLikes(ctx context.Context, id int64) (int64, error)
}
