package repos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// TokenRepo is the refresh-token blacklist.
type TokenRepo struct{ q sqlx.ExtContext }

func NewTokenRepo(q sqlx.ExtContext) *TokenRepo { return &TokenRepo{q: q} }

// Revoke blacklists jti until expires; revoking twice is a no-op. Entries
// already past expiry are pruned on the way.
func (r *TokenRepo) Revoke(ctx context.Context, jti string, expires time.Time) error {
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := r.q.ExecContext(ctx, `DELETE FROM revoked_tokens WHERE expires_at < ?`, now); err != nil {
		return err
	}
	_, err := r.q.ExecContext(ctx, `INSERT OR IGNORE INTO revoked_tokens(jti, expires_at) VALUES(?,?)`,
		jti, expires.UTC().Format(time.RFC3339))
	return err
}

func (r *TokenRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var n int
	if err := sqlx.GetContext(ctx, r.q, &n, `SELECT COUNT(*) FROM revoked_tokens WHERE jti=?`, jti); err != nil {
		return false, err
	}
	return n > 0, nil
}
