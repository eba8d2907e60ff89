package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const selectAccountColumns = `SELECT id, email, phone, full_name, age, role, password_hash, created_at FROM accounts`

type AccountSummary struct {
	Account
	Balance decimal.Decimal `json:"balance"`
}

// CreateAccountWithLedger inserts the account and its zero-balance ledger
// row in one transaction; either both exist afterwards or neither does.
func (s *Store) CreateAccountWithLedger(ctx context.Context, in NewAccount) (*Account, error) {
	if in.Role == "" {
		in.Role = RoleUser
	}
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	acc := &Account{
		Email:        in.Email,
		Phone:        in.Phone,
		FullName:     in.FullName,
		Age:          in.Age,
		Role:         in.Role,
		PasswordHash: in.PasswordHash,
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO accounts (email, phone, full_name, age, role, password_hash)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 RETURNING id, created_at`,
		in.Email, in.Phone, in.FullName, in.Age, in.Role, in.PasswordHash,
	).Scan(&acc.ID, &acc.CreatedAt)
	if err != nil {
		return nil, mapConstraint(err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO ledger (account_id, balance) VALUES ($1, 0)`, acc.ID); err != nil {
		return nil, mapConstraint(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return acc, nil
}

func (s *Store) GetAccountByEmail(ctx context.Context, email string) (*Account, error) {
	return scanAccount(s.Pool.QueryRow(ctx, selectAccountColumns+` WHERE email = $1`, email))
}

func (s *Store) GetAccountByID(ctx context.Context, id int64) (*Account, error) {
	return scanAccount(s.Pool.QueryRow(ctx, selectAccountColumns+` WHERE id = $1`, id))
}

func (s *Store) SetAccountRole(ctx context.Context, id int64, role string) error {
	tag, err := s.Pool.Exec(ctx, `UPDATE accounts SET role = $2 WHERE id = $1`, id, role)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListAccounts(ctx context.Context, limit, offset int) ([]AccountSummary, error) {
	limit, offset = clampPage(limit, offset, 50, 500)
	rows, err := s.Pool.Query(ctx,
		`SELECT a.id, a.email, a.phone, a.full_name, a.age, a.role, a.created_at, COALESCE(l.balance, 0)
		 FROM accounts a
		 LEFT JOIN ledger l ON l.account_id = a.id
		 ORDER BY a.id ASC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []AccountSummary{}
	for rows.Next() {
		var (
			it  AccountSummary
			bal pgtype.Numeric
		)
		if err := rows.Scan(&it.ID, &it.Email, &it.Phone, &it.FullName, &it.Age, &it.Role, &it.CreatedAt, &bal); err != nil {
			return nil, err
		}
		it.Balance = numericVal(bal)
		out = append(out, it)
	}
	return out, rows.Err()
}

func scanAccount(row pgx.Row) (*Account, error) {
	var a Account
	if err := row.Scan(&a.ID, &a.Email, &a.Phone, &a.FullName, &a.Age, &a.Role, &a.PasswordHash, &a.CreatedAt); err != nil {
		return nil, mapNotFound(err)
	}
	return &a, nil
}
