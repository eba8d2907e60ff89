package ledger

import (
	"context"

	"xbet/internal/game"
	"xbet/internal/store"

	"github.com/rs/zerolog/log"
)

const (
	historyDefaultLimit = 20
	historyMaxLimit     = 100
)

func (c *Coordinator) GetBalance(ctx context.Context, accountID int64) (store.Balance, error) {
	if accountID <= 0 {
		return store.Balance{}, ErrInvalidRequest
	}
	bal, err := c.store.GetBalance(ctx, accountID)
	return bal, mapStoreErr(err)
}

// History lists an account's plays for one game, newest first.
func (c *Coordinator) History(ctx context.Context, accountID int64, id game.ID, limit, offset int) ([]store.PlayRecord, error) {
	eng, err := game.Lookup(id)
	if err != nil {
		return nil, err
	}
	if offset < 0 {
		return nil, ErrInvalidRequest
	}
	if limit <= 0 {
		limit = historyDefaultLimit
	}
	if limit > historyMaxLimit {
		limit = historyMaxLimit
	}
	return c.store.ListPlays(ctx, accountID, string(eng.ID()), limit, offset)
}

func (c *Coordinator) Stats(ctx context.Context, accountID int64, id game.ID) (*store.GameStats, error) {
	eng, err := game.Lookup(id)
	if err != nil {
		return nil, err
	}
	return c.store.GetStats(ctx, accountID, string(eng.ID()))
}

// RebuildStats recomputes one stats row from the play log under the
// account's ledger lock so it cannot race a settlement.
func (c *Coordinator) RebuildStats(ctx context.Context, accountID int64, id game.ID) (bool, error) {
	eng, err := game.Lookup(id)
	if err != nil {
		return false, err
	}
	var changed bool
	err = c.store.InTx(ctx, func(tx store.LedgerTx) error {
		if _, err := tx.LockBalance(ctx, accountID); err != nil {
			return err
		}
		var err error
		changed, err = tx.RebuildStats(ctx, accountID, string(eng.ID()))
		return err
	})
	if err != nil {
		return false, mapStoreErr(err)
	}
	if changed {
		metricStatsRebuilt.Add(1)
	}
	return changed, nil
}

type ReconcileReport struct {
	Checked int `json:"checked"`
	Fixed   int `json:"fixed"`
	Failed  int `json:"failed"`
}

// ReconcileStats walks every stats key and repairs drifted rows. A failure
// on one key is logged and counted but does not stop the walk.
func (c *Coordinator) ReconcileStats(ctx context.Context) (ReconcileReport, error) {
	var rep ReconcileReport
	keys, err := c.store.ListStatsKeys(ctx)
	if err != nil {
		return rep, err
	}
	for _, k := range keys {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		rep.Checked++
		changed, err := c.RebuildStats(ctx, k.AccountID, game.ID(k.Game))
		if err != nil {
			rep.Failed++
			log.Warn().Err(err).Int64("account_id", k.AccountID).Str("game", k.Game).Msg("stats rebuild failed")
			continue
		}
		if changed {
			rep.Fixed++
		}
	}
	return rep, nil
}
