package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"xbet/internal/game"
	"xbet/internal/ledger"
	"xbet/internal/money"
	"xbet/internal/store"
	"xbet/internal/testutil"
)

func TestPostgresNoDoubleSpend(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	st.SetTxPolicy(store.TxPolicy{MaxRetries: 5, LockTimeout: 5 * time.Second})
	ctx := context.Background()

	acc, err := st.CreateAccountWithLedger(ctx, store.NewAccount{
		Email: "pg@gmail.com", Phone: "0812345678", FullName: "PG", Age: 40, PasswordHash: "x",
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	c := ledger.NewCoordinator(st, game.CryptoSource{}, ledger.Policy{AllowClientOutcome: true})
	if _, err := c.Deposit(ctx, acc.ID, money.Must("15.00")); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	const n = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok, nsf int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.SettleWager(ctx, ledger.WagerRequest{
				AccountID: acc.ID, Game: game.RPS, Wager: money.Must("3.00"), Input: "rock", ClientOutcome: "paper",
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ledger.ErrInsufficientFunds):
				nsf++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
	if ok != 5 || nsf != n-5 {
		t.Fatalf("ok=%d nsf=%d, want 5/%d", ok, nsf, n-5)
	}
	bal, err := c.GetBalance(ctx, acc.ID)
	if err != nil || !bal.Amount.IsZero() {
		t.Fatalf("balance = %+v, %v", bal, err)
	}
	stats, err := c.Stats(ctx, acc.ID, game.RPS)
	if err != nil || stats.GamesPlayed != 5 || stats.Losses != 5 {
		t.Fatalf("stats = %+v, %v", stats, err)
	}
	hist, err := c.History(ctx, acc.ID, game.RPS, 50, 0)
	if err != nil || len(hist) != 5 {
		t.Fatalf("history = %d, %v", len(hist), err)
	}
	if !hist[0].BalanceAfter.IsZero() {
		t.Fatalf("latest balance_after = %s, want 0", hist[0].BalanceAfter)
	}
}
