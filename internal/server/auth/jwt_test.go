package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/vmelnikov/picshare/internal/common"
)

func newTestManager(t *testing.T, accessTTL, refreshTTL time.Duration) *Manager {
	t.Helper()
	m, err := NewManager("access-secret", "refresh-secret", accessTTL, refreshTTL)
	if err != nil {
		t.Fatalf("NewManager error: %v", err)
	}
	return m
}

func TestNewManager_MissingSecrets(t *testing.T) {
	t.Parallel()

	if _, err := NewManager("", "r", time.Hour, time.Hour); err == nil {
		t.Fatal("expected error for empty access secret, got nil")
	}
	if _, err := NewManager("a", "", time.Hour, time.Hour); err == nil {
		t.Fatal("expected error for empty refresh secret, got nil")
	}
}

func TestIssueAndVerifyAccess_Success(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, time.Hour, 720*time.Hour)
	id := Identity{UserID: 42, Email: "a@x.com", Username: "alice"}

	tok, err := m.IssueAccess(id)
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}

	got, err := m.VerifyAccess(tok)
	if err != nil {
		t.Fatalf("VerifyAccess error: %v", err)
	}
	if got != id {
		t.Fatalf("identity mismatch: got %+v want %+v", got, id)
	}
}

func TestVerifyAccess_Expired(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, -1*time.Second, 720*time.Hour)
	tok, err := m.IssueAccess(Identity{UserID: 1, Email: "a@x.com", Username: "a"})
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}

	_, err = m.VerifyAccess(tok)
	if err == nil {
		t.Fatal("expected error for expired token, got nil")
	}
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}

	var expired *TokenExpiredError
	if !errors.As(err, &expired) {
		t.Fatalf("expected *TokenExpiredError, got %T", err)
	}
	if expired.ExpiredAt.IsZero() || expired.ExpiredAt.After(time.Now()) {
		t.Fatalf("unexpected ExpiredAt: %v", expired.ExpiredAt)
	}
}

func TestVerifyAccess_ExpiredIsNotInvalid(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, -1*time.Second, time.Hour)
	tok, err := m.IssueAccess(Identity{UserID: 1})
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}

	_, err = m.VerifyAccess(tok)
	if errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expired token must not map to ErrInvalidToken: %v", err)
	}
}

func TestVerifyAccess_WrongSecret(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, time.Hour, time.Hour)
	other, err := NewManager("different-secret", "refresh-secret", time.Hour, time.Hour)
	if err != nil {
		t.Fatalf("NewManager error: %v", err)
	}

	tok, err := other.IssueAccess(Identity{UserID: 7})
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}

	_, err = m.VerifyAccess(tok)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestVerifyAccess_RefreshSecretRejected(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, time.Hour, time.Hour)
	refresh, _, err := m.IssueRefresh(Identity{UserID: 7})
	if err != nil {
		t.Fatalf("IssueRefresh error: %v", err)
	}

	if _, err := m.VerifyAccess(refresh); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("refresh token must not verify as access token, got %v", err)
	}
}

func TestVerifyAccess_Tampered(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, time.Hour, time.Hour)
	tok, err := m.IssueAccess(Identity{UserID: 9, Username: "bob"})
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}

	truncated := tok[:len(tok)-1]
	if _, err := m.VerifyAccess(truncated); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken for truncated token, got %v", err)
	}
}

func TestVerifyAccess_MissingAndMalformed(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, time.Hour, time.Hour)

	if _, err := m.VerifyAccess(""); !errors.Is(err, common.ErrMissingToken) {
		t.Fatalf("expected common.ErrMissingToken, got %v", err)
	}
	if _, err := m.VerifyAccess("not.a.jwt"); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestIssueRefresh_ReportsExpiry(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, time.Hour, 720*time.Hour)
	before := time.Now()

	tok, expiresAt, err := m.IssueRefresh(Identity{UserID: 3, Email: "c@x.com", Username: "carol"})
	if err != nil {
		t.Fatalf("IssueRefresh error: %v", err)
	}
	if tok == "" {
		t.Fatal("expected non-empty refresh token")
	}

	wantMin := before.Add(720 * time.Hour)
	if expiresAt.Before(wantMin.Add(-time.Minute)) || expiresAt.After(wantMin.Add(time.Minute)) {
		t.Fatalf("unexpected expiry: %v", expiresAt)
	}

	id, err := m.VerifyRefresh(tok)
	if err != nil {
		t.Fatalf("VerifyRefresh error: %v", err)
	}
	if id.UserID != 3 || id.Username != "carol" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}
