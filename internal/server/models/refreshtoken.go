package models

import "time"

// RefreshToken is a registry row for an outstanding refresh token. Only the
// SHA-256 hash of the token string is stored.
type RefreshToken struct {
	ID        int64
	UserID    int64
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}
