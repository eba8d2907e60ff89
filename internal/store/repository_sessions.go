package store

import (
	"context"
	"time"
)

func (s *Store) CreateSession(ctx context.Context, tokenHash string, accountID int64, expiresAt time.Time) error {
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO sessions (token_hash, account_id, expires_at) VALUES ($1,$2,$3)`,
		tokenHash, accountID, expiresAt,
	)
	return mapConstraint(err)
}

// GetSessionAccount resolves an unexpired session to its account.
func (s *Store) GetSessionAccount(ctx context.Context, tokenHash string) (*Account, error) {
	return scanAccount(s.Pool.QueryRow(ctx,
		`SELECT a.id, a.email, a.phone, a.full_name, a.age, a.role, a.password_hash, a.created_at
		 FROM sessions s
		 JOIN accounts a ON a.id = s.account_id
		 WHERE s.token_hash = $1 AND s.expires_at > now()`,
		tokenHash,
	))
}

func (s *Store) DeleteSession(ctx context.Context, tokenHash string) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM sessions WHERE token_hash = $1`, tokenHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
