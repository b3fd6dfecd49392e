package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vmelnikov/picshare/internal/dbx"
)

// PostgresRepository keeps the registry in the refresh_tokens table, so
// outstanding tokens survive restarts and are shared across instances.
// Register and Revoke rely on single-statement INSERT/DELETE atomicity; no
// application-side locking is needed.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Register(ctx context.Context, userID int64, token string, expiresAt time.Time) error {

	query :=
		`INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
         VALUES ($1, $2, $3)
		 ON CONFLICT (token_hash) DO NOTHING
		 `

	_, err := r.db.ExecContext(ctx, query, userID, HashToken(token), expiresAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Revoke(ctx context.Context, token string) error {

	query :=
		`DELETE FROM refresh_tokens
		 WHERE token_hash = $1
		 `

	_, err := r.db.ExecContext(ctx, query, HashToken(token))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) IsOutstanding(ctx context.Context, token string) (bool, error) {

	query :=
		`SELECT expires_at FROM refresh_tokens
		 WHERE token_hash = $1
		 `

	var expiresAt time.Time
	err := r.db.QueryRowContext(ctx, query, HashToken(token)).Scan(&expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("db error: %w", err)
	}

	if expiresAt.Before(time.Now()) {
		return false, nil
	}

	return true, nil
}

func (r *PostgresRepository) RevokeAllForUser(ctx context.Context, userID int64) error {

	query :=
		`DELETE FROM refresh_tokens
		 WHERE user_id = $1
		 `

	_, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
