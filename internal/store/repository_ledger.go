package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// GetBalance returns the account's ledger row, creating a zero balance on
// first access. Concurrent first reads create exactly one row.
func (s *Store) GetBalance(ctx context.Context, accountID int64) (Balance, error) {
	if _, err := s.Pool.Exec(ctx,
		`INSERT INTO ledger (account_id, balance) VALUES ($1, 0) ON CONFLICT (account_id) DO NOTHING`,
		accountID,
	); err != nil {
		return Balance{}, mapConstraint(err)
	}
	var (
		amount    pgtype.Numeric
		updatedAt time.Time
	)
	if err := s.Pool.QueryRow(ctx,
		`SELECT balance, updated_at FROM ledger WHERE account_id = $1`, accountID,
	).Scan(&amount, &updatedAt); err != nil {
		return Balance{}, mapNotFound(err)
	}
	return Balance{AccountID: accountID, Amount: numericVal(amount), UpdatedAt: updatedAt}, nil
}

// CountLedgerRows is used by tests and the admin surface to check the 1:1
// account/ledger relationship.
func (s *Store) CountLedgerRows(ctx context.Context, accountID int64) (int, error) {
	var n int
	err := s.Pool.QueryRow(ctx, `SELECT count(*) FROM ledger WHERE account_id = $1`, accountID).Scan(&n)
	return n, err
}
