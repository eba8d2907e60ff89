package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"xbet/internal/game"
	"xbet/internal/ledger"
	"xbet/internal/money"
	"xbet/internal/testutil"
)

type countingPurger struct {
	calls atomic.Int32
	err   error
}

func (c *countingPurger) PurgeExpiredSessions(context.Context) (int64, error) {
	c.calls.Add(1)
	return 2, c.err
}

func TestPurgeSessions(t *testing.T) {
	p := &countingPurger{}
	if n := PurgeSessions(context.Background(), p); n != 2 {
		t.Fatalf("purged = %d, want 2", n)
	}
	p.err = errors.New("db down")
	if n := PurgeSessions(context.Background(), p); n != 0 {
		t.Fatalf("purged on error = %d, want 0", n)
	}
}

func TestReconcileStatsFixesDrift(t *testing.T) {
	m := testutil.NewMemStore()
	c := ledger.NewCoordinator(m, game.CryptoSource{}, ledger.Policy{AllowClientOutcome: true})
	acc := m.AddAccount("a@gmail.com")
	m.SetBalance(acc.ID, money.Must("5.00"))
	if _, err := c.SettleWager(context.Background(), ledger.WagerRequest{
		AccountID: acc.ID, Game: game.RPS, Wager: money.Must("1.00"), Input: "rock", ClientOutcome: "paper",
	}); err != nil {
		t.Fatalf("settle: %v", err)
	}
	m.CorruptStats(acc.ID, "rps", 3)

	rep := ReconcileStats(context.Background(), c)
	if rep.Checked != 1 || rep.Fixed != 1 || rep.Failed != 0 {
		t.Fatalf("report = %+v", rep)
	}
}

func TestRunnerSchedulesPurge(t *testing.T) {
	p := &countingPurger{}
	r, err := Start(context.Background(), Schedule{SessionPurgeEvery: 20 * time.Millisecond}, p, nil)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for p.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if err := r.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if p.calls.Load() == 0 {
		t.Fatal("purge job never ran")
	}
}
