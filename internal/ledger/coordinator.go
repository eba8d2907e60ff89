// Package ledger settles wagers and transfers against per-account balances.
// Every balance mutation runs under the account's row lock and commits its
// balance change, play record, stats and journal entry together.
package ledger

import (
	"context"
	"errors"
	"sync"

	"xbet/internal/game"
	"xbet/internal/money"
	"xbet/internal/store"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Store is the persistence the coordinator needs. *store.Store satisfies it.
type Store interface {
	InTx(ctx context.Context, fn func(store.LedgerTx) error) error
	GetBalance(ctx context.Context, accountID int64) (store.Balance, error)
	ListPlays(ctx context.Context, accountID int64, game string, limit, offset int) ([]store.PlayRecord, error)
	GetStats(ctx context.Context, accountID int64, game string) (*store.GameStats, error)
	ListStatsKeys(ctx context.Context) ([]store.StatsKey, error)
}

type Policy struct {
	// AllowClientOutcome accepts a caller-supplied outcome instead of a
	// server draw. Off by default.
	AllowClientOutcome bool
	// MaxTransferAmount caps a single deposit or withdrawal. Zero means no cap.
	MaxTransferAmount decimal.Decimal
}

type Coordinator struct {
	store  Store
	policy Policy

	srcMu sync.Mutex
	src   game.Source
}

func NewCoordinator(st Store, src game.Source, p Policy) *Coordinator {
	if src == nil {
		src = game.CryptoSource{}
	}
	return &Coordinator{store: st, src: src, policy: p}
}

type WagerRequest struct {
	AccountID     int64
	Game          game.ID
	Wager         decimal.Decimal
	Input         string
	ClientOutcome string
	// RequestID makes the call idempotent per account: a repeat returns the
	// original settlement instead of playing again.
	RequestID string
}

type Settlement struct {
	Play          store.PlayRecord `json:"play"`
	Outcome       game.Outcome     `json:"outcome"`
	BalanceBefore decimal.Decimal  `json:"balance_before"`
	BalanceAfter  decimal.Decimal  `json:"balance_after"`
	Replayed      bool             `json:"replayed"`
}

// SettleWager admits, locks, checks funds, resolves, applies and records a
// single wager as one transaction.
func (c *Coordinator) SettleWager(ctx context.Context, req WagerRequest) (*Settlement, error) {
	out, err := c.settleWager(ctx, req)
	countOutcome(err, metricSettleTotal, metricSettleRejected, metricSettleErrors)
	if err != nil && Classify(err) == KindInternal {
		log.Error().Err(err).Int64("account_id", req.AccountID).Str("game", string(req.Game)).Msg("settle wager failed")
	}
	return out, err
}

func (c *Coordinator) settleWager(ctx context.Context, req WagerRequest) (*Settlement, error) {
	eng, input, err := c.admit(req)
	if err != nil {
		return nil, err
	}
	clientOutcome := game.Normalize(req.ClientOutcome)

	var (
		result  *Settlement
		outcome = clientOutcome
	)
	err = c.store.InTx(ctx, func(tx store.LedgerTx) error {
		result = nil
		bal, err := tx.LockBalance(ctx, req.AccountID)
		if err != nil {
			return err
		}

		if req.RequestID != "" {
			prev, err := tx.FindPlayByRequest(ctx, req.AccountID, req.RequestID)
			switch {
			case err == nil:
				if prev.Game != string(eng.ID()) || prev.PlayerInput != input || !prev.Wager.Equal(req.Wager) {
					return ErrRequestReused
				}
				result = replayed(prev)
				return nil
			case !errors.Is(err, store.ErrNotFound):
				return err
			}
		}

		if bal.Amount.LessThan(req.Wager) {
			return ErrInsufficientFunds
		}

		if outcome == "" {
			outcome = c.draw(eng)
		}
		res, err := eng.Settle(req.Wager, input, outcome)
		if err != nil {
			return err
		}

		after, err := tx.ApplyDelta(ctx, req.AccountID, res.Net)
		if err != nil {
			return err
		}

		play := &store.PlayRecord{
			AccountID:     req.AccountID,
			Game:          string(eng.ID()),
			Wager:         req.Wager,
			PlayerInput:   input,
			Outcome:       res.Value,
			Result:        string(res.Result),
			WinLoss:       res.Net,
			BalanceBefore: bal.Amount,
			BalanceAfter:  after.Amount,
			RequestID:     req.RequestID,
		}
		if err := tx.InsertPlay(ctx, play); err != nil {
			return err
		}
		if err := tx.BumpStats(ctx, play); err != nil {
			return err
		}
		if err := tx.InsertJournal(ctx, &store.JournalEntry{
			AccountID:    req.AccountID,
			Type:         store.JournalGame,
			Amount:       res.Net,
			BalanceAfter: after.Amount,
			RefType:      "play",
			RefID:        play.RefID,
		}); err != nil {
			return err
		}
		result = &Settlement{
			Play:          *play,
			Outcome:       res,
			BalanceBefore: bal.Amount,
			BalanceAfter:  after.Amount,
		}
		return nil
	})
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if result.Replayed {
		metricSettleReplays.Add(1)
	}
	log.Debug().
		Int64("account_id", req.AccountID).
		Str("game", result.Play.Game).
		Str("input", result.Play.PlayerInput).
		Str("outcome", result.Play.Outcome).
		Str("result", result.Play.Result).
		Str("balance_after", money.Format(result.BalanceAfter)).
		Bool("replayed", result.Replayed).
		Msg("wager settled")
	return result, nil
}

func (c *Coordinator) admit(req WagerRequest) (game.Engine, string, error) {
	if req.AccountID <= 0 {
		return nil, "", ErrInvalidRequest
	}
	eng, err := game.Lookup(req.Game)
	if err != nil {
		return nil, "", err
	}
	if money.Positive(req.Wager) != nil {
		return nil, "", ErrInvalidWager
	}
	input := game.Normalize(req.Input)
	if err := game.ValidateInput(eng, input); err != nil {
		return nil, "", err
	}
	if req.ClientOutcome != "" {
		if !c.policy.AllowClientOutcome {
			return nil, "", ErrClientOutcomeNotAllowed
		}
		if err := game.ValidateOutcome(eng, game.Normalize(req.ClientOutcome)); err != nil {
			return nil, "", err
		}
	}
	return eng, input, nil
}

func (c *Coordinator) draw(eng game.Engine) string {
	c.srcMu.Lock()
	defer c.srcMu.Unlock()
	return game.Draw(eng, c.src)
}

func replayed(p *store.PlayRecord) *Settlement {
	return &Settlement{
		Play: *p,
		Outcome: game.Outcome{
			Value:  p.Outcome,
			Result: game.Result(p.Result),
			Net:    p.WinLoss,
		},
		BalanceBefore: p.BalanceBefore,
		BalanceAfter:  p.BalanceAfter,
		Replayed:      true,
	}
}
