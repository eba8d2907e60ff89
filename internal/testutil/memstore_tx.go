package testutil

import (
	"context"
	"sort"

	"xbet/internal/store"

	"github.com/shopspring/decimal"
)

// InTx runs fn against staged state and publishes it only if fn and the
// commit step both succeed.
func (m *MemStore) InTx(ctx context.Context, fn func(store.LedgerTx) error) error {
	tx := &memTx{
		m:        m,
		held:     map[int64]bool{},
		balances: map[int64]store.Balance{},
		stats:    map[store.StatsKey]store.GameStats{},
	}
	defer tx.release()
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		return err
	}
	if err := m.fault("commit"); err != nil {
		return err
	}
	tx.commit()
	return nil
}

type memTx struct {
	m        *MemStore
	held     map[int64]bool
	balances map[int64]store.Balance
	plays    []store.PlayRecord
	stats    map[store.StatsKey]store.GameStats
	journal  []store.JournalEntry
}

func (t *memTx) LockBalance(ctx context.Context, accountID int64) (store.Balance, error) {
	if err := t.m.fault("lock"); err != nil {
		return store.Balance{}, err
	}
	if !t.held[accountID] {
		t.m.mu.Lock()
		_, err := t.m.ensureLedgerLocked(accountID)
		t.m.mu.Unlock()
		if err != nil {
			return store.Balance{}, err
		}
		t.m.rowLock(accountID).Lock()
		t.held[accountID] = true
	}
	return t.balance(accountID), nil
}

func (t *memTx) balance(accountID int64) store.Balance {
	if b, ok := t.balances[accountID]; ok {
		return b
	}
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	return t.m.ledgers[accountID]
}

func (t *memTx) ApplyDelta(_ context.Context, accountID int64, delta decimal.Decimal) (store.Balance, error) {
	if err := t.m.fault("apply"); err != nil {
		return store.Balance{}, err
	}
	if !t.held[accountID] {
		return store.Balance{}, store.ErrNotFound
	}
	cur := t.balance(accountID)
	next := cur.Amount.Add(delta)
	if next.IsNegative() {
		return store.Balance{}, store.ErrInsufficientFunds
	}
	b := store.Balance{AccountID: accountID, Amount: next, UpdatedAt: t.m.Now()}
	t.balances[accountID] = b
	return b, nil
}

func (t *memTx) FindPlayByRequest(_ context.Context, accountID int64, requestID string) (*store.PlayRecord, error) {
	if err := t.m.fault("find_play"); err != nil {
		return nil, err
	}
	for _, p := range t.plays {
		if p.AccountID == accountID && p.RequestID == requestID {
			out := p
			return &out, nil
		}
	}
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	for _, p := range t.m.plays {
		if p.AccountID == accountID && p.RequestID == requestID {
			out := p
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (t *memTx) InsertPlay(ctx context.Context, p *store.PlayRecord) error {
	if err := t.m.fault("insert_play"); err != nil {
		return err
	}
	if p.RequestID != "" {
		if _, err := t.FindPlayByRequest(ctx, p.AccountID, p.RequestID); err == nil {
			return store.ErrDuplicateRequest
		}
	}
	t.m.mu.Lock()
	t.m.nextID++
	p.ID = t.m.nextID
	t.m.mu.Unlock()
	if p.RefID == "" {
		p.RefID = store.NewRefID("play")
	}
	p.PlayedAt = t.m.Now()
	t.plays = append(t.plays, *p)
	return nil
}

func (t *memTx) currentStats(k store.StatsKey) store.GameStats {
	if g, ok := t.stats[k]; ok {
		return g
	}
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	return t.m.statsLocked(k)
}

func (t *memTx) BumpStats(_ context.Context, p *store.PlayRecord) error {
	if err := t.m.fault("bump_stats"); err != nil {
		return err
	}
	k := store.StatsKey{AccountID: p.AccountID, Game: p.Game}
	g := t.currentStats(k)
	g.Add(p)
	t.stats[k] = g
	return nil
}

func (t *memTx) InsertJournal(_ context.Context, e *store.JournalEntry) error {
	if err := t.m.fault("insert_journal"); err != nil {
		return err
	}
	if e.ID == "" {
		e.ID = store.NewID()
	}
	e.CreatedAt = t.m.Now()
	t.journal = append(t.journal, *e)
	return nil
}

func (t *memTx) RebuildStats(_ context.Context, accountID int64, game string) (bool, error) {
	if err := t.m.fault("rebuild_stats"); err != nil {
		return false, err
	}
	var plays []store.PlayRecord
	t.m.mu.Lock()
	for _, p := range t.m.plays {
		if p.AccountID == accountID && p.Game == game {
			plays = append(plays, p)
		}
	}
	t.m.mu.Unlock()
	for _, p := range t.plays {
		if p.AccountID == accountID && p.Game == game {
			plays = append(plays, p)
		}
	}
	sort.Slice(plays, func(i, j int) bool {
		if !plays[i].PlayedAt.Equal(plays[j].PlayedAt) {
			return plays[i].PlayedAt.Before(plays[j].PlayedAt)
		}
		return plays[i].ID < plays[j].ID
	})
	k := store.StatsKey{AccountID: accountID, Game: game}
	fresh := store.GameStats{AccountID: accountID, Game: game, ChoiceCounts: map[string]int64{}}
	for i := range plays {
		fresh.Add(&plays[i])
	}
	cur := t.currentStats(k)
	if cur.Equal(&fresh) {
		return false, nil
	}
	t.stats[k] = fresh
	return true, nil
}

func (t *memTx) commit() {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	for id, b := range t.balances {
		t.m.ledgers[id] = b
	}
	t.m.plays = append(t.m.plays, t.plays...)
	for k, g := range t.stats {
		if g.GamesPlayed == 0 {
			delete(t.m.stats, k)
			continue
		}
		t.m.stats[k] = g
	}
	t.m.journal = append(t.m.journal, t.journal...)
}

func (t *memTx) release() {
	for id := range t.held {
		t.m.rowLock(id).Unlock()
	}
}
