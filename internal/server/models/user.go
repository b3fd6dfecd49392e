// Package models holds the server-side data structures persisted in Postgres.
package models

import "time"

// User is an account row. PasswordHash is a bcrypt hash and is never exposed
// through the API. AvatarKey points at the avatar object in media storage and
// is empty until the user uploads one.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	AvatarKey    string
	CreatedAt    time.Time
}
