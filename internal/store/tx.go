package store

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var (
	metricTxRetries   = expvar.NewInt("store_tx_retries_total")
	metricTxConflicts = expvar.NewInt("store_tx_conflicts_total")
)

// TxPolicy bounds how long a ledger transaction may wait on row locks and
// how often a lost race is retried before ErrTxConflict is returned.
type TxPolicy struct {
	MaxRetries       int
	LockTimeout      time.Duration
	StatementTimeout time.Duration
	Backoff          time.Duration
}

func DefaultTxPolicy() TxPolicy {
	return TxPolicy{
		MaxRetries:       3,
		LockTimeout:      2 * time.Second,
		StatementTimeout: 5 * time.Second,
		Backoff:          20 * time.Millisecond,
	}
}

// LedgerTx is the set of writes available inside InTx. Every method runs on
// the same database transaction.
type LedgerTx interface {
	// LockBalance provisions the ledger row if missing, then holds it
	// exclusively until the transaction ends.
	LockBalance(ctx context.Context, accountID int64) (Balance, error)
	// ApplyDelta adds delta to the locked balance. A result below zero is
	// refused with ErrInsufficientFunds and the row is left untouched.
	ApplyDelta(ctx context.Context, accountID int64, delta decimal.Decimal) (Balance, error)
	FindPlayByRequest(ctx context.Context, accountID int64, requestID string) (*PlayRecord, error)
	InsertPlay(ctx context.Context, p *PlayRecord) error
	BumpStats(ctx context.Context, p *PlayRecord) error
	InsertJournal(ctx context.Context, e *JournalEntry) error
	// RebuildStats recomputes one stats row from the play log and reports
	// whether it changed.
	RebuildStats(ctx context.Context, accountID int64, game string) (bool, error)
}

// InTx runs fn inside one transaction with bounded lock waits. fn may be
// invoked more than once when a retryable conflict occurs, so it must not
// keep side effects outside the transaction.
func (s *Store) InTx(ctx context.Context, fn func(LedgerTx) error) error {
	p := s.policy
	var err error
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if attempt > 0 {
			metricTxRetries.Add(1)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * p.Backoff):
			}
		}
		err = s.runTx(ctx, p, fn)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !isRetryable(err) {
			if pgCode(err) == pgQueryCanceled {
				metricTxConflicts.Add(1)
				return fmt.Errorf("%w: %v", ErrTxConflict, err)
			}
			return err
		}
		log.Debug().Err(err).Int("attempt", attempt+1).Msg("ledger tx conflict, retrying")
	}
	metricTxConflicts.Add(1)
	return fmt.Errorf("%w: %v", ErrTxConflict, err)
}

func (s *Store) runTx(ctx context.Context, p TxPolicy, fn func(LedgerTx) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`SELECT set_config('lock_timeout', $1, true), set_config('statement_timeout', $2, true)`,
		durationSetting(p.LockTimeout), durationSetting(p.StatementTimeout),
	); err != nil {
		return err
	}
	if err := fn(&ledgerTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func durationSetting(d time.Duration) string {
	return strconv.FormatInt(d.Milliseconds(), 10) + "ms"
}

type ledgerTx struct {
	tx pgx.Tx
}

func (t *ledgerTx) LockBalance(ctx context.Context, accountID int64) (Balance, error) {
	if _, err := t.tx.Exec(ctx,
		`INSERT INTO ledger (account_id, balance) VALUES ($1, 0) ON CONFLICT (account_id) DO NOTHING`,
		accountID,
	); err != nil {
		return Balance{}, mapConstraint(err)
	}
	var (
		amount    pgtype.Numeric
		updatedAt time.Time
	)
	err := t.tx.QueryRow(ctx,
		`SELECT balance, updated_at FROM ledger WHERE account_id = $1 FOR UPDATE`,
		accountID,
	).Scan(&amount, &updatedAt)
	if err != nil {
		return Balance{}, mapNotFound(err)
	}
	return Balance{AccountID: accountID, Amount: numericVal(amount), UpdatedAt: updatedAt}, nil
}

func (t *ledgerTx) ApplyDelta(ctx context.Context, accountID int64, delta decimal.Decimal) (Balance, error) {
	var (
		amount    pgtype.Numeric
		updatedAt time.Time
	)
	err := t.tx.QueryRow(ctx,
		`UPDATE ledger SET balance = balance + $2, updated_at = clock_timestamp()
		 WHERE account_id = $1 AND balance + $2 >= 0
		 RETURNING balance, updated_at`,
		accountID, numericParam(delta),
	).Scan(&amount, &updatedAt)
	if err == nil {
		return Balance{AccountID: accountID, Amount: numericVal(amount), UpdatedAt: updatedAt}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Balance{}, err
	}
	var exists bool
	if err := t.tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM ledger WHERE account_id = $1)`, accountID,
	).Scan(&exists); err != nil {
		return Balance{}, err
	}
	if !exists {
		return Balance{}, ErrNotFound
	}
	return Balance{}, ErrInsufficientFunds
}

func (t *ledgerTx) FindPlayByRequest(ctx context.Context, accountID int64, requestID string) (*PlayRecord, error) {
	row := t.tx.QueryRow(ctx, selectPlayColumns+` WHERE account_id = $1 AND request_id = $2`, accountID, requestID)
	p, err := scanPlay(row)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return p, nil
}

func (t *ledgerTx) InsertPlay(ctx context.Context, p *PlayRecord) error {
	if p.RefID == "" {
		p.RefID = NewRefID("play")
	}
	// clock_timestamp, not now(): the row must be stamped after the account
	// lock was taken so history order follows the balance chain.
	err := t.tx.QueryRow(ctx,
		`INSERT INTO play_history (ref_id, account_id, game, wager, player_input, outcome, result,
			win_loss, balance_before, balance_after, request_id, played_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,clock_timestamp())
		 RETURNING id, played_at`,
		p.RefID, p.AccountID, p.Game, numericParam(p.Wager), p.PlayerInput, p.Outcome, p.Result,
		numericParam(p.WinLoss), numericParam(p.BalanceBefore), numericParam(p.BalanceAfter), textParam(p.RequestID),
	).Scan(&p.ID, &p.PlayedAt)
	return mapConstraint(err)
}

func (t *ledgerTx) BumpStats(ctx context.Context, p *PlayRecord) error {
	cur, err := getStats(ctx, t.tx, p.AccountID, p.Game, true)
	if err != nil {
		return err
	}
	cur.Add(p)
	return putStats(ctx, t.tx, cur)
}

func (t *ledgerTx) InsertJournal(ctx context.Context, e *JournalEntry) error {
	if e.ID == "" {
		e.ID = NewID()
	}
	err := t.tx.QueryRow(ctx,
		`INSERT INTO ledger_journal (id, account_id, type, amount, balance_after, ref_type, ref_id, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,clock_timestamp())
		 RETURNING created_at`,
		e.ID, e.AccountID, e.Type, numericParam(e.Amount), numericParam(e.BalanceAfter), e.RefType, e.RefID,
	).Scan(&e.CreatedAt)
	return err
}
