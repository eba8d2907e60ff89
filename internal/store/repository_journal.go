package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

func (s *Store) ListJournal(ctx context.Context, f JournalFilter, limit, offset int) ([]JournalEntry, error) {
	limit, offset = clampPage(limit, offset, 50, 500)
	rows, err := s.Pool.Query(ctx,
		`SELECT id, account_id, type, amount, balance_after, ref_type, ref_id, created_at
		 FROM ledger_journal
		 WHERE ($1::bigint IS NULL OR account_id = $1)
		   AND ($2::text IS NULL OR type = $2)
		   AND ($3::timestamptz IS NULL OR created_at >= $3)
		   AND ($4::timestamptz IS NULL OR created_at < $4)
		 ORDER BY created_at DESC, id DESC
		 LIMIT $5 OFFSET $6`,
		int8PtrParam(f.AccountID), textParam(f.Type), timeParam(f.From), timeParam(f.To), limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []JournalEntry{}
	for rows.Next() {
		var (
			e             JournalEntry
			amount, after pgtype.Numeric
		)
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Type, &amount, &after, &e.RefType, &e.RefID, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Amount = numericVal(amount)
		e.BalanceAfter = numericVal(after)
		out = append(out, e)
	}
	return out, rows.Err()
}
