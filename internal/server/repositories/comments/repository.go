package comments

import (
	"context"

	"github.com/vmelnikov/picshare/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	// ListByPhoto returns a photo's comments joined with author usernames,
	// oldest first.
	ListByPhoto(ctx context.Context, photoID int64) ([]*models.CommentWithAuthor, error)
}
