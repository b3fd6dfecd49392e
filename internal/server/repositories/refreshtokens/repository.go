// Package refreshtokens implements the registry of outstanding refresh
// tokens. A refresh token is accepted only while it is present here; a token
// with a perfectly valid signature that is not registered must be rejected,
// since it is indistinguishable from a forged one.
//
// Tokens are stored by SHA-256 hash so a registry dump alone cannot be
// replayed.
package refreshtokens

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Repository defines operations for registering, revoking, and checking
// refresh tokens.
type Repository interface {
	// Register records token as outstanding for userID until expiresAt.
	// Registering a token twice is a no-op.
	Register(ctx context.Context, userID int64, token string, expiresAt time.Time) error

	// Revoke removes a token from the registry. Revoking an absent token is
	// a no-op success, so logout retries stay idempotent.
	Revoke(ctx context.Context, token string) error

	// IsOutstanding reports whether the token is currently registered and
	// not past its stored expiry.
	IsOutstanding(ctx context.Context, token string) (bool, error)

	// RevokeAllForUser drops every outstanding token of a user, e.g. on
	// account deletion.
	RevokeAllForUser(ctx context.Context, userID int64) error
}

// HashToken returns the hex SHA-256 digest under which a token is stored.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
