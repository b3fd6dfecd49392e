package models

import "time"

// Photo is a feed post: an optional stored image plus an optional caption.
// At least one of ImageKey/Text is always set.
type Photo struct {
	ID        int64
	UserID    int64
	ImageKey  string
	Text      string
	Likes     int64
	CreatedAt time.Time
}

// FeedItem is a photo joined with its author, as returned by the feed query.
type FeedItem struct {
	Photo
	Username        string
	AuthorAvatarKey string
}
