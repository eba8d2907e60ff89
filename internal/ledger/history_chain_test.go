package ledger_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"xbet/internal/game"
	"xbet/internal/ledger"
	"xbet/internal/money"
	"xbet/internal/store"
	"xbet/internal/testutil"
)

type chainStore interface {
	ListJournal(ctx context.Context, f store.JournalFilter, limit, offset int) ([]store.JournalEntry, error)
}

// playConcurrently settles n RPS wagers of 1.00 in parallel, cycling through
// loss, win and tie so the balance moves both ways.
func playConcurrently(t *testing.T, c *ledger.Coordinator, accountID int64, n int) {
	t.Helper()
	opponents := []string{"paper", "scissors", "rock"}
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := c.SettleWager(context.Background(), ledger.WagerRequest{
				AccountID: accountID, Game: game.RPS, Wager: money.Must("1.00"),
				Input: "rock", ClientOutcome: opponents[i%len(opponents)],
			})
			if err != nil {
				t.Errorf("settle %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()
}

// assertBalanceChain checks that newest-first history and journal rows link
// up: each row starts from the balance the next older row ended on.
func assertBalanceChain(t *testing.T, c *ledger.Coordinator, st chainStore, accountID int64, n int) {
	t.Helper()
	ctx := context.Background()
	hist, err := c.History(ctx, accountID, game.RPS, 100, 0)
	if err != nil || len(hist) != n {
		t.Fatalf("history = %d rows, %v; want %d", len(hist), err, n)
	}
	bal, err := c.GetBalance(ctx, accountID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !hist[0].BalanceAfter.Equal(bal.Amount) {
		t.Fatalf("newest balance_after = %s, ledger = %s", hist[0].BalanceAfter, bal.Amount)
	}
	for i := 0; i+1 < len(hist); i++ {
		if !hist[i].BalanceBefore.Equal(hist[i+1].BalanceAfter) {
			t.Fatalf("history row %d balance_before = %s, row %d balance_after = %s",
				i, hist[i].BalanceBefore, i+1, hist[i+1].BalanceAfter)
		}
	}

	journal, err := st.ListJournal(ctx, store.JournalFilter{AccountID: &accountID}, 100, 0)
	if err != nil {
		t.Fatalf("journal: %v", err)
	}
	for i := 0; i+1 < len(journal); i++ {
		if !journal[i].BalanceAfter.Sub(journal[i].Amount).Equal(journal[i+1].BalanceAfter) {
			t.Fatalf("journal row %d (%s %s) does not follow row %d (%s)",
				i, journal[i].Amount, journal[i].BalanceAfter, i+1, journal[i+1].BalanceAfter)
		}
	}
}

func TestConcurrentHistoryKeepsBalanceChain(t *testing.T) {
	c, m := newCoordinator(t, true)
	acc := m.AddAccount("chain@gmail.com")
	if _, err := c.Deposit(context.Background(), acc.ID, money.Must("50.00")); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	const n = 30
	playConcurrently(t, c, acc.ID, n)
	assertBalanceChain(t, c, m, acc.ID, n)
}

func TestPostgresConcurrentHistoryKeepsBalanceChain(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	st.SetTxPolicy(store.TxPolicy{MaxRetries: 5, LockTimeout: 10 * time.Second})
	ctx := context.Background()

	acc, err := st.CreateAccountWithLedger(ctx, store.NewAccount{
		Email: "chain@gmail.com", Phone: "0812345679", FullName: "Chain", Age: 40, PasswordHash: "x",
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	c := ledger.NewCoordinator(st, game.CryptoSource{}, ledger.Policy{AllowClientOutcome: true})
	if _, err := c.Deposit(ctx, acc.ID, money.Must("50.00")); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	const n = 30
	playConcurrently(t, c, acc.ID, n)
	assertBalanceChain(t, c, st, acc.ID, n)
}
