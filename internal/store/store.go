package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps DB access.
type Store struct {
	Pool   *pgxpool.Pool
	policy TxPolicy
}

func New(dsn string) (*Store, error) {
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool, policy: DefaultTxPolicy()}, nil
}

// SetTxPolicy replaces the lock/statement timeouts and retry budget used by
// InTx. Zero fields keep their defaults.
func (s *Store) SetTxPolicy(p TxPolicy) {
	def := DefaultTxPolicy()
	if p.MaxRetries < 0 {
		p.MaxRetries = 0
	}
	if p.LockTimeout <= 0 {
		p.LockTimeout = def.LockTimeout
	}
	if p.StatementTimeout <= 0 {
		p.StatementTimeout = def.StatementTimeout
	}
	if p.Backoff <= 0 {
		p.Backoff = def.Backoff
	}
	s.policy = p
}

func (s *Store) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

// HashToken is what sessions are keyed by; raw tokens are never stored.
func HashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.Pool.Ping(ctx)
}
