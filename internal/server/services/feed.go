package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vmelnikov/picshare/internal/common"
	"github.com/vmelnikov/picshare/internal/server/auth"
	"github.com/vmelnikov/picshare/internal/server/models"
	"github.com/vmelnikov/picshare/internal/server/repositories/repomanager"
)

// MediaStore is the media dependency of the feed: storing uploaded bytes and
// resolving stored keys to URLs. Satisfied by *MediaService.
type MediaStore interface {
	MediaResolver
	Store(ctx context.Context, data []byte, contentType string) (string, error)
}

// FeedEntry is one feed item with storage keys already resolved to URLs.
type FeedEntry struct {
	ID        int64
	URL       string
	Text      string
	Username  string
	AvatarURL string
	Likes     int64
}

// FeedService implements the photo feed: uploads, listing, comments, likes,
// and avatar updates.
type FeedService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	media       MediaStore
}

func NewFeedService(db *sql.DB, m repomanager.RepositoryManager, media MediaStore) *FeedService {
	return &FeedService{
		db:          db,
		repomanager: m,
		media:       media,
	}
}

// Feed returns every photo, newest first, with image and avatar URLs resolved.
func (s *FeedService) Feed(ctx context.Context) ([]*FeedEntry, error) {
	items, err := s.repomanager.Photos(s.db).Feed(ctx)
	if err != nil {
		return nil, fmt.Errorf("error fetching feed: %w", err)
	}

	entries := make([]*FeedEntry, 0, len(items))
	for _, item := range items {
		entry := &FeedEntry{
			ID:       item.ID,
			Text:     item.Text,
			Username: item.Username,
			Likes:    item.Likes,
		}
		if entry.URL, err = s.media.ResolveURL(ctx, item.ImageKey); err != nil {
			return nil, fmt.Errorf("error resolving image: %w", err)
		}
		if entry.AvatarURL, err = s.media.ResolveURL(ctx, item.AuthorAvatarKey); err != nil {
			return nil, fmt.Errorf("error resolving avatar: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// UploadPhoto stores the image (when present) and creates the photo row.
// A post with neither text nor image is a validation error.
func (s *FeedService) UploadPhoto(ctx context.Context, id auth.Identity, text string, image []byte, contentType string) (*FeedEntry, error) {
	if text == "" && len(image) == 0 {
		return nil, common.ErrValidation
	}

	var imageKey string
	if len(image) > 0 {
		key, err := s.media.Store(ctx, image, contentType)
		if err != nil {
			return nil, fmt.Errorf("error storing image: %w", err)
		}
		imageKey = key
	}

	photo := &models.Photo{UserID: id.UserID, ImageKey: imageKey, Text: text}
	photo, err := s.repomanager.Photos(s.db).Create(ctx, photo)
	if err != nil {
		return nil, fmt.Errorf("error creating photo: %w", err)
	}

	entry := &FeedEntry{ID: photo.ID, Text: photo.Text, Username: id.Username}
	if entry.URL, err = s.media.ResolveURL(ctx, imageKey); err != nil {
		return nil, fmt.Errorf("error resolving image: %w", err)
	}
	return entry, nil
}

// AddComment attaches a comment to an existing photo.
func (s *FeedService) AddComment(ctx context.Context, photoID, userID int64, text string) (*models.Comment, error) {
	if text == "" {
		return nil, common.ErrValidation
	}

	if _, err := s.repomanager.Photos(s.db).GetByID(ctx, photoID); err != nil {
		return nil, err
	}

	comment := &models.Comment{PhotoID: photoID, UserID: userID, Text: text}
	comment, err := s.repomanager.Comments(s.db).Create(ctx, comment)
	if err != nil {
		return nil, fmt.Errorf("error creating comment: %w", err)
	}
	return comment, nil
}

// Comments lists a photo's comments with author usernames.
func (s *FeedService) Comments(ctx context.Context, photoID int64) ([]*models.CommentWithAuthor, error) {
	if _, err := s.repomanager.Photos(s.db).GetByID(ctx, photoID); err != nil {
		return nil, err
	}

	list, err := s.repomanager.Comments(s.db).ListByPhoto(ctx, photoID)
	if err != nil {
		return nil, fmt.Errorf("error fetching comments: %w", err)
	}
	return list, nil
}

// Like increments a photo's like counter and returns the new count.
func (s *FeedService) Like(ctx context.Context, photoID int64) (int64, error) {
	return s.repomanager.Photos(s.db).IncrementLikes(ctx, photoID)
}

// UploadAvatar stores the avatar image and points the user row at it,
// returning the resolved URL.
func (s *FeedService) UploadAvatar(ctx context.Context, userID int64, image []byte, contentType string) (string, error) {
	if len(image) == 0 {
		return "", common.ErrValidation
	}

	key, err := s.media.Store(ctx, image, contentType)
	if err != nil {
		return "", fmt.Errorf("error storing avatar: %w", err)
	}

	if err := s.repomanager.Users(s.db).UpdateAvatarKey(ctx, userID, key); err != nil {
		return "", err
	}

	return s.media.ResolveURL(ctx, key)
}
