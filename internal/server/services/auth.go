// Package services contains server-side business logic. This file implements
// AuthService, which handles signup, login, issuing/refreshing JWTs, and the
// refresh-token revocation registry.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vmelnikov/picshare/internal/common"
	"github.com/vmelnikov/picshare/internal/dbx"
	"github.com/vmelnikov/picshare/internal/server/auth"
	"github.com/vmelnikov/picshare/internal/server/models"
	"github.com/vmelnikov/picshare/internal/server/password"
	"github.com/vmelnikov/picshare/internal/server/repositories/refreshtokens"
	"github.com/vmelnikov/picshare/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Profile is the authenticated user's own view: username plus a resolved
// avatar URL (empty when no avatar is set).
type Profile struct {
	Username  string
	AvatarURL string
}

// AuthService provides authentication-related operations:
// - Signup: create users
// - Login: verify credentials and mint token pairs
// - Refresh: mint new access tokens for outstanding refresh tokens
// - Logout: revoke refresh tokens
// - DeleteAccount / Profile lookups for the account routes
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	registry    refreshtokens.Repository
	tokens      *auth.Manager
	hasher      *password.Hasher
	media       MediaResolver
}

// MediaResolver turns a storage key into a client-usable URL. Satisfied by
// *MediaService.
type MediaResolver interface {
	ResolveURL(ctx context.Context, key string) (string, error)
}

// NewAuthService constructs an AuthService. The registry is injected
// separately from the repomanager so deployments can choose between the
// durable Postgres registry and the in-memory one.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, registry refreshtokens.Repository,
	tokens *auth.Manager, hasher *password.Hasher, media MediaResolver) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		registry:    registry,
		tokens:      tokens,
		hasher:      hasher,
		media:       media,
	}
}

// Signup creates a new user. A taken email yields common.ErrAlreadyExists.
func (s *AuthService) Signup(ctx context.Context, username, email, plaintext string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil, common.ErrAlreadyExists
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("error checking email: %w", err)
	}

	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{Username: username, Email: email, PasswordHash: hash}
	u, err := repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login verifies the credentials and, on success, returns a new TokenPair.
// Unknown email and wrong password are indistinguishable to the caller, so
// responses cannot be used to enumerate accounts.
func (s *AuthService) Login(ctx context.Context, email, plaintext string) (*TokenPair, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, common.ErrInternal
	}

	if !s.hasher.Verify(plaintext, user.PasswordHash) {
		return nil, common.ErrUnauthorized
	}

	return s.generateTokenPair(ctx, user)
}

// Refresh validates refreshToken and mints a new access token. Registry
// membership is the authoritative gate and is checked before the signature:
// a token that was never issued, or has been revoked, is invalid no matter
// what it carries.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	outstanding, err := s.registry.IsOutstanding(ctx, refreshToken)
	if err != nil {
		return "", fmt.Errorf("error checking refresh token: %w", err)
	}
	if !outstanding {
		return "", common.ErrInvalidToken
	}

	id, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return "", err
	}

	accessToken, err := s.tokens.IssueAccess(id)
	if err != nil {
		return "", common.ErrInternal
	}
	return accessToken, nil
}

// Logout revokes the refresh token. Revoking an unknown token succeeds, so
// repeated logouts are harmless.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.registry.Revoke(ctx, refreshToken)
}

// DeleteAccount removes the user row (owned photos and comments cascade) and
// revokes every refresh token the user still holds.
func (s *AuthService) DeleteAccount(ctx context.Context, userID int64) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Users(tx).Delete(ctx, userID)
	})
	if err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}

	if err := s.registry.RevokeAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("error revoking tokens: %w", err)
	}
	return nil
}

// Profile returns the user's username and resolved avatar URL.
func (s *AuthService) Profile(ctx context.Context, userID int64) (*Profile, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	avatarURL := ""
	if user.AvatarKey != "" {
		avatarURL, err = s.media.ResolveURL(ctx, user.AvatarKey)
		if err != nil {
			return nil, fmt.Errorf("error resolving avatar: %w", err)
		}
	}

	return &Profile{Username: user.Username, AvatarURL: avatarURL}, nil
}

// generateTokenPair mints both tokens and records the refresh token in the
// registry. The token pair is returned only after registration succeeds, so
// there is no window where a handed-out refresh token is unregistered.
func (s *AuthService) generateTokenPair(ctx context.Context, user *models.User) (*TokenPair, error) {
	id := auth.Identity{UserID: user.ID, Email: user.Email, Username: user.Username}

	accessToken, err := s.tokens.IssueAccess(id)
	if err != nil {
		return nil, common.ErrInternal
	}

	refreshToken, expiresAt, err := s.tokens.IssueRefresh(id)
	if err != nil {
		return nil, common.ErrInternal
	}

	if err := s.registry.Register(ctx, user.ID, refreshToken, expiresAt); err != nil {
		return nil, common.ErrInternal
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
