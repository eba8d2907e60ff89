package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const selectPlayColumns = `SELECT id, ref_id, account_id, game, wager, player_input, outcome, result,
	win_loss, balance_before, balance_after, request_id, played_at FROM play_history`

// ListPlays returns an account's plays for one game, newest first. Rows
// sharing a timestamp come back in reverse insertion order.
func (s *Store) ListPlays(ctx context.Context, accountID int64, game string, limit, offset int) ([]PlayRecord, error) {
	limit, offset = clampPage(limit, offset, 20, 100)
	rows, err := s.Pool.Query(ctx,
		selectPlayColumns+` WHERE account_id = $1 AND game = $2
		 ORDER BY played_at DESC, id DESC
		 LIMIT $3 OFFSET $4`,
		accountID, game, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	return collectPlays(rows)
}

func listPlaysAsc(ctx context.Context, q querier, accountID int64, game string) ([]PlayRecord, error) {
	rows, err := q.Query(ctx,
		selectPlayColumns+` WHERE account_id = $1 AND game = $2 ORDER BY played_at ASC, id ASC`,
		accountID, game,
	)
	if err != nil {
		return nil, err
	}
	return collectPlays(rows)
}

func collectPlays(rows pgx.Rows) ([]PlayRecord, error) {
	defer rows.Close()
	out := []PlayRecord{}
	for rows.Next() {
		p, err := scanPlay(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func scanPlay(row pgx.Row) (*PlayRecord, error) {
	var (
		p                             PlayRecord
		wager, winLoss, before, after pgtype.Numeric
		requestID                     pgtype.Text
	)
	if err := row.Scan(&p.ID, &p.RefID, &p.AccountID, &p.Game, &wager, &p.PlayerInput, &p.Outcome, &p.Result,
		&winLoss, &before, &after, &requestID, &p.PlayedAt); err != nil {
		return nil, err
	}
	p.Wager = numericVal(wager)
	p.WinLoss = numericVal(winLoss)
	p.BalanceBefore = numericVal(before)
	p.BalanceAfter = numericVal(after)
	p.RequestID = textVal(requestID)
	return &p, nil
}
