// Package auth implements issuing and verification of the signed tokens used
// by the API: short-lived access tokens and long-lived, revocable refresh
// tokens. Both are HS256 JWTs, signed with separate secrets so that a leaked
// access key does not compromise refresh tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vmelnikov/picshare/internal/common"
)

// Identity is the minimal identity payload embedded in every token.
type Identity struct {
	UserID   int64
	Email    string
	Username string
}

// Claims — identity claims plus the standard registered set.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"uid"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// TokenExpiredError reports a token whose signature verified but whose expiry
// has passed. It matches common.ErrTokenExpired under errors.Is; callers use
// ExpiredAt to tell the client when the token died.
type TokenExpiredError struct {
	ExpiredAt time.Time
}

func (e *TokenExpiredError) Error() string {
	return fmt.Sprintf("token expired at %s", e.ExpiredAt.Format(time.RFC3339))
}

func (e *TokenExpiredError) Is(target error) bool {
	return target == common.ErrTokenExpired
}

// Manager issues and verifies access and refresh tokens. Secrets are fixed at
// construction; an unset secret is a configuration error and must prevent
// startup, not fail lazily per request.
type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) (*Manager, error) {
	if accessSecret == "" {
		return nil, errors.New("access token secret is not set")
	}
	if refreshSecret == "" {
		return nil, errors.New("refresh token secret is not set")
	}
	return &Manager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

// IssueAccess mints an access token for id, valid for the configured TTL.
func (m *Manager) IssueAccess(id Identity) (string, error) {
	return m.sign(id, m.accessSecret, m.accessTTL)
}

// IssueRefresh mints a refresh token for id and returns it together with its
// expiry time, so the caller can record the token in the revocation registry.
func (m *Manager) IssueRefresh(id Identity) (string, time.Time, error) {
	expiresAt := time.Now().Add(m.refreshTTL)
	token, err := m.signUntil(id, m.refreshSecret, expiresAt)
	return token, expiresAt, err
}

// VerifyAccess validates an access token's signature and expiry and extracts
// the identity claim. It returns common.ErrMissingToken for an empty token,
// *TokenExpiredError when only the expiry failed, and common.ErrInvalidToken
// for any signature or format problem.
func (m *Manager) VerifyAccess(token string) (Identity, error) {
	return m.verify(token, m.accessSecret)
}

// VerifyRefresh validates a refresh token the same way. Registry membership
// is checked by the caller and remains the authoritative gate.
func (m *Manager) VerifyRefresh(token string) (Identity, error) {
	return m.verify(token, m.refreshSecret)
}

func (m *Manager) sign(id Identity, secret []byte, ttl time.Duration) (string, error) {
	token, err := m.signUntil(id, secret, time.Now().Add(ttl))
	return token, err
}

func (m *Manager) signUntil(id Identity, secret []byte, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:   id.UserID,
		Email:    id.Email,
		Username: id.Username,
	})

	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

func (m *Manager) verify(tokenString string, secret []byte) (Identity, error) {
	if tokenString == "" {
		return Identity{}, common.ErrMissingToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		// Expired-vs-invalid is a deliberate contract: clients use the
		// expired signal to run the refresh flow instead of logging out.
		if errors.Is(err, jwt.ErrTokenExpired) && claims.ExpiresAt != nil {
			return Identity{}, &TokenExpiredError{ExpiredAt: claims.ExpiresAt.Time}
		}
		return Identity{}, common.ErrInvalidToken
	}
	if !token.Valid {
		return Identity{}, common.ErrInvalidToken
	}

	return Identity{UserID: claims.UserID, Email: claims.Email, Username: claims.Username}, nil
}
