package models

import "time"

type Comment struct {
	ID        int64
	PhotoID   int64
	UserID    int64
	Text      string
	CreatedAt time.Time
}

// CommentWithAuthor is a comment joined with the author's username.
type CommentWithAuthor struct {
	Comment
	Username string
}
