package users

import (
	"context"

	"github.com/vmelnikov/picshare/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	UpdateAvatarKey(ctx context.Context, id int64, key string) error
	Delete(ctx context.Context, id int64) error
}
