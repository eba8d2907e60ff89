package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"xbet/internal/store"

	"github.com/shopspring/decimal"
)

// MemStore is an in-memory stand-in for *store.Store. Transactions hold a
// per-account mutex in LockBalance and stage their writes until commit, so
// the locking and all-or-nothing behaviour match the Postgres store.
type MemStore struct {
	mu       sync.Mutex
	nextID   int64
	accounts map[int64]*store.Account
	byEmail  map[string]int64
	byPhone  map[string]int64
	ledgers  map[int64]store.Balance
	rowLocks map[int64]*sync.Mutex
	plays    []store.PlayRecord
	stats    map[store.StatsKey]store.GameStats
	journal  []store.JournalEntry
	sessions map[string]memSession
	reports  []store.Report

	faultMu sync.Mutex
	faults  map[string]error

	Now func() time.Time
}

type memSession struct {
	accountID int64
	expiresAt time.Time
}

func NewMemStore() *MemStore {
	return &MemStore{
		accounts: map[int64]*store.Account{},
		byEmail:  map[string]int64{},
		byPhone:  map[string]int64{},
		ledgers:  map[int64]store.Balance{},
		rowLocks: map[int64]*sync.Mutex{},
		stats:    map[store.StatsKey]store.GameStats{},
		sessions: map[string]memSession{},
		faults:   map[string]error{},
		Now:      time.Now,
	}
}

// FailOn makes the named step return err until cleared with a nil err.
// Steps: lock, apply, find_play, insert_play, bump_stats, insert_journal,
// rebuild_stats, commit, create_account, get_balance.
func (m *MemStore) FailOn(step string, err error) {
	m.faultMu.Lock()
	defer m.faultMu.Unlock()
	if err == nil {
		delete(m.faults, step)
		return
	}
	m.faults[step] = err
}

func (m *MemStore) fault(step string) error {
	m.faultMu.Lock()
	defer m.faultMu.Unlock()
	return m.faults[step]
}

func (m *MemStore) Ping(context.Context) error { return nil }

// AddAccount registers a plain user with a zero balance and returns it.
func (m *MemStore) AddAccount(email string) *store.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	acc := &store.Account{
		ID:        m.nextID,
		Email:     email,
		Phone:     fmt.Sprintf("0%09d", m.nextID),
		FullName:  email,
		Age:       30,
		Role:      store.RoleUser,
		CreatedAt: m.Now(),
	}
	m.putAccountLocked(acc)
	m.ledgers[acc.ID] = store.Balance{AccountID: acc.ID, UpdatedAt: acc.CreatedAt}
	return acc
}

// SetBalance overwrites a balance outside of any transaction.
func (m *MemStore) SetBalance(accountID int64, amount decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ledgers[accountID] = store.Balance{AccountID: accountID, Amount: amount, UpdatedAt: m.Now()}
}

// DropLedger removes the ledger row so lazy provisioning can be exercised.
func (m *MemStore) DropLedger(accountID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.ledgers, accountID)
}

func (m *MemStore) LedgerRows() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ledgers)
}

func (m *MemStore) PlayCount(accountID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, p := range m.plays {
		if p.AccountID == accountID {
			n++
		}
	}
	return n
}

func (m *MemStore) JournalCount(accountID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.journal {
		if e.AccountID == accountID {
			n++
		}
	}
	return n
}

// CorruptStats overwrites a stats row, for reconcile tests.
func (m *MemStore) CorruptStats(accountID int64, game string, wins int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := store.StatsKey{AccountID: accountID, Game: game}
	g := m.stats[k]
	g.AccountID, g.Game, g.Wins = accountID, game, wins
	m.stats[k] = g
}

func (m *MemStore) putAccountLocked(acc *store.Account) {
	m.accounts[acc.ID] = acc
	m.byEmail[acc.Email] = acc.ID
	m.byPhone[acc.Phone] = acc.ID
}

func (m *MemStore) rowLock(accountID int64) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.rowLocks[accountID]
	if !ok {
		l = &sync.Mutex{}
		m.rowLocks[accountID] = l
	}
	return l
}

// ensureLedgerLocked mirrors INSERT ... ON CONFLICT DO NOTHING.
func (m *MemStore) ensureLedgerLocked(accountID int64) (store.Balance, error) {
	if _, ok := m.accounts[accountID]; !ok {
		return store.Balance{}, store.ErrNotFound
	}
	bal, ok := m.ledgers[accountID]
	if !ok {
		bal = store.Balance{AccountID: accountID, UpdatedAt: m.Now()}
		m.ledgers[accountID] = bal
	}
	return bal, nil
}

func (m *MemStore) CreateAccountWithLedger(_ context.Context, in store.NewAccount) (*store.Account, error) {
	if err := m.fault("create_account"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[in.Email]; ok {
		return nil, store.ErrDuplicateEmail
	}
	if _, ok := m.byPhone[in.Phone]; ok {
		return nil, store.ErrDuplicatePhone
	}
	if in.Role == "" {
		in.Role = store.RoleUser
	}
	m.nextID++
	acc := &store.Account{
		ID:           m.nextID,
		Email:        in.Email,
		Phone:        in.Phone,
		FullName:     in.FullName,
		Age:          in.Age,
		Role:         in.Role,
		PasswordHash: in.PasswordHash,
		CreatedAt:    m.Now(),
	}
	m.putAccountLocked(acc)
	m.ledgers[acc.ID] = store.Balance{AccountID: acc.ID, UpdatedAt: acc.CreatedAt}
	out := *acc
	return &out, nil
}

func (m *MemStore) GetAccountByEmail(_ context.Context, email string) (*store.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byEmail[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := *m.accounts[id]
	return &out, nil
}

func (m *MemStore) GetAccountByID(_ context.Context, id int64) (*store.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := *acc
	return &out, nil
}

func (m *MemStore) SetAccountRole(_ context.Context, id int64, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return store.ErrNotFound
	}
	acc.Role = role
	return nil
}

func (m *MemStore) ListAccounts(_ context.Context, limit, offset int) ([]store.AccountSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int64, 0, len(m.accounts))
	for id := range m.accounts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := []store.AccountSummary{}
	for _, id := range page(ids, limit, offset) {
		out = append(out, store.AccountSummary{Account: *m.accounts[id], Balance: m.ledgers[id].Amount})
	}
	return out, nil
}

func (m *MemStore) CreateSession(_ context.Context, tokenHash string, accountID int64, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[accountID]; !ok {
		return store.ErrNotFound
	}
	m.sessions[tokenHash] = memSession{accountID: accountID, expiresAt: expiresAt}
	return nil
}

func (m *MemStore) GetSessionAccount(_ context.Context, tokenHash string) (*store.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[tokenHash]
	if !ok || !sess.expiresAt.After(m.Now()) {
		return nil, store.ErrNotFound
	}
	out := *m.accounts[sess.accountID]
	return &out, nil
}

func (m *MemStore) DeleteSession(_ context.Context, tokenHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[tokenHash]; !ok {
		return store.ErrNotFound
	}
	delete(m.sessions, tokenHash)
	return nil
}

func (m *MemStore) PurgeExpiredSessions(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	now := m.Now()
	for k, s := range m.sessions {
		if !s.expiresAt.After(now) {
			delete(m.sessions, k)
			n++
		}
	}
	return n, nil
}

func (m *MemStore) GetBalance(_ context.Context, accountID int64) (store.Balance, error) {
	if err := m.fault("get_balance"); err != nil {
		return store.Balance{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ensureLedgerLocked(accountID)
}

func (m *MemStore) ListPlays(_ context.Context, accountID int64, game string, limit, offset int) ([]store.PlayRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []store.PlayRecord{}
	for _, p := range m.plays {
		if p.AccountID == accountID && p.Game == game {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PlayedAt.Equal(out[j].PlayedAt) {
			return out[i].PlayedAt.After(out[j].PlayedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit <= 0 {
		limit = 20
	}
	return page(out, limit, offset), nil
}

func (m *MemStore) GetStats(_ context.Context, accountID int64, game string) (*store.GameStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g := m.statsLocked(store.StatsKey{AccountID: accountID, Game: game})
	return &g, nil
}

func (m *MemStore) ListStatsKeys(context.Context) ([]store.StatsKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[store.StatsKey]bool{}
	for _, p := range m.plays {
		seen[store.StatsKey{AccountID: p.AccountID, Game: p.Game}] = true
	}
	for k := range m.stats {
		seen[k] = true
	}
	out := make([]store.StatsKey, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AccountID != out[j].AccountID {
			return out[i].AccountID < out[j].AccountID
		}
		return out[i].Game < out[j].Game
	})
	return out, nil
}

func (m *MemStore) statsLocked(k store.StatsKey) store.GameStats {
	g, ok := m.stats[k]
	if !ok {
		return store.GameStats{AccountID: k.AccountID, Game: k.Game, ChoiceCounts: map[string]int64{}}
	}
	return cloneStats(g)
}

func (m *MemStore) ListJournal(_ context.Context, f store.JournalFilter, limit, offset int) ([]store.JournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []store.JournalEntry{}
	for i := len(m.journal) - 1; i >= 0; i-- {
		e := m.journal[i]
		if f.AccountID != nil && e.AccountID != *f.AccountID {
			continue
		}
		if f.Type != "" && e.Type != f.Type {
			continue
		}
		if f.From != nil && e.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !e.CreatedAt.Before(*f.To) {
			continue
		}
		out = append(out, e)
	}
	if limit <= 0 {
		limit = 50
	}
	return page(out, limit, offset), nil
}

func (m *MemStore) CreateReport(_ context.Context, r *store.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[r.AccountID]; !ok {
		return store.ErrNotFound
	}
	if r.Status == "" {
		r.Status = "pending"
	}
	r.ID = int64(len(m.reports) + 1)
	r.CreatedAt = m.Now()
	r.UpdatedAt = r.CreatedAt
	m.reports = append(m.reports, *r)
	return nil
}

func (m *MemStore) ListReports(_ context.Context, f store.ReportFilter, limit, offset int) ([]store.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []store.Report{}
	for i := len(m.reports) - 1; i >= 0; i-- {
		r := m.reports[i]
		if f.AccountID != nil && r.AccountID != *f.AccountID {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.Category != "" && r.Category != f.Category {
			continue
		}
		out = append(out, r)
	}
	if limit <= 0 {
		limit = 50
	}
	return page(out, limit, offset), nil
}

func (m *MemStore) UpdateReportStatus(_ context.Context, id int64, status string) (*store.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id <= 0 || int(id) > len(m.reports) {
		return nil, store.ErrNotFound
	}
	r := &m.reports[id-1]
	r.Status = status
	r.UpdatedAt = m.Now()
	out := *r
	return &out, nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return items[:0]
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

func cloneStats(g store.GameStats) store.GameStats {
	counts := make(map[string]int64, len(g.ChoiceCounts))
	for k, v := range g.ChoiceCounts {
		counts[k] = v
	}
	g.ChoiceCounts = counts
	return g
}
