package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

// GetStats returns the running totals for one account and game. An account
// that never played gets a zero row rather than ErrNotFound.
func (s *Store) GetStats(ctx context.Context, accountID int64, game string) (*GameStats, error) {
	return getStats(ctx, s.Pool, accountID, game, false)
}

// ListStatsKeys lists every (account, game) pair that has plays or a stats
// row, for the reconcile job.
func (s *Store) ListStatsKeys(ctx context.Context) ([]StatsKey, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT account_id, game FROM play_history
		 UNION
		 SELECT account_id, game FROM aggregate_stats
		 ORDER BY 1, 2`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []StatsKey{}
	for rows.Next() {
		var k StatsKey
		if err := rows.Scan(&k.AccountID, &k.Game); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

// RebuildStats recomputes the stats row from play_history and overwrites it
// when it drifted. The caller must hold the account's ledger lock.
func (t *ledgerTx) RebuildStats(ctx context.Context, accountID int64, game string) (bool, error) {
	plays, err := listPlaysAsc(ctx, t.tx, accountID, game)
	if err != nil {
		return false, err
	}
	fresh := &GameStats{AccountID: accountID, Game: game, ChoiceCounts: map[string]int64{}}
	for i := range plays {
		fresh.Add(&plays[i])
	}
	cur, err := getStats(ctx, t.tx, accountID, game, true)
	if err != nil {
		return false, err
	}
	if cur.Equal(fresh) {
		return false, nil
	}
	if fresh.GamesPlayed == 0 {
		_, err := t.tx.Exec(ctx, `DELETE FROM aggregate_stats WHERE account_id = $1 AND game = $2`, accountID, game)
		return err == nil, err
	}
	if err := putStats(ctx, t.tx, fresh); err != nil {
		return false, err
	}
	return true, nil
}

func getStats(ctx context.Context, q querier, accountID int64, game string, forUpdate bool) (*GameStats, error) {
	sql := `SELECT games_played, wins, losses, ties, total_wagered, total_won, total_lost, net_profit,
		choice_counts, first_played_at, last_played_at
		FROM aggregate_stats WHERE account_id = $1 AND game = $2`
	if forUpdate {
		sql += ` FOR UPDATE`
	}
	out := &GameStats{AccountID: accountID, Game: game, ChoiceCounts: map[string]int64{}}
	var (
		wagered, won, lost, net pgtype.Numeric
		first, last             pgtype.Timestamptz
		counts                  map[string]int64
	)
	err := q.QueryRow(ctx, sql, accountID, game).Scan(
		&out.GamesPlayed, &out.Wins, &out.Losses, &out.Ties,
		&wagered, &won, &lost, &net, &counts, &first, &last,
	)
	if err != nil {
		if mapNotFound(err) == ErrNotFound {
			return out, nil
		}
		return nil, err
	}
	out.TotalWagered = numericVal(wagered)
	out.TotalWon = numericVal(won)
	out.TotalLost = numericVal(lost)
	out.NetProfit = numericVal(net)
	if counts != nil {
		out.ChoiceCounts = counts
	}
	out.FirstPlayedAt = timePtrVal(first)
	out.LastPlayedAt = timePtrVal(last)
	return out, nil
}

func putStats(ctx context.Context, q querier, g *GameStats) error {
	counts := g.ChoiceCounts
	if counts == nil {
		counts = map[string]int64{}
	}
	_, err := q.Exec(ctx,
		`INSERT INTO aggregate_stats (account_id, game, games_played, wins, losses, ties,
			total_wagered, total_won, total_lost, net_profit, choice_counts, first_played_at, last_played_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		 ON CONFLICT (account_id, game) DO UPDATE SET
			games_played = EXCLUDED.games_played,
			wins = EXCLUDED.wins,
			losses = EXCLUDED.losses,
			ties = EXCLUDED.ties,
			total_wagered = EXCLUDED.total_wagered,
			total_won = EXCLUDED.total_won,
			total_lost = EXCLUDED.total_lost,
			net_profit = EXCLUDED.net_profit,
			choice_counts = EXCLUDED.choice_counts,
			first_played_at = EXCLUDED.first_played_at,
			last_played_at = EXCLUDED.last_played_at`,
		g.AccountID, g.Game, g.GamesPlayed, g.Wins, g.Losses, g.Ties,
		numericParam(g.TotalWagered), numericParam(g.TotalWon), numericParam(g.TotalLost), numericParam(g.NetProfit),
		counts, timeParam(g.FirstPlayedAt), timeParam(g.LastPlayedAt),
	)
	return err
}
