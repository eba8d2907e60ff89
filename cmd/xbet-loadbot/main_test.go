package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"xbet/internal/config"
	"xbet/internal/game"
	"xbet/internal/ledger"
	"xbet/internal/money"
	"xbet/internal/testutil"
	httptransport "xbet/internal/transport/http"
)

func TestPlayRoundsReconcileAgainstServer(t *testing.T) {
	m := testutil.NewMemStore()
	coord := ledger.NewCoordinator(m, nil, ledger.Policy{})
	srv := httptest.NewServer(httptransport.NewRouter(m, config.ServerConfig{
		AllowedEmailDomains: []string{"gmail.com"},
		SessionTTL:          time.Hour,
	}, coord))
	defer srv.Close()

	ctx := context.Background()
	c := &client{base: srv.URL, http: srv.Client()}
	if err := c.call(ctx, http.MethodPost, "/api/register", map[string]any{
		"email": "bot@gmail.com", "phone": "0811111111", "full_name": "Bot", "age": 30,
		"password": "secret123", "confirm_password": "secret123", "accept_terms": true,
	}, nil); err != nil {
		t.Fatalf("register: %v", err)
	}
	var login struct {
		Token string `json:"token"`
	}
	if err := c.call(ctx, http.MethodPost, "/api/login", map[string]string{"email": "bot@gmail.com", "password": "secret123"}, &login); err != nil {
		t.Fatalf("login: %v", err)
	}
	c.token = login.Token
	if err := c.call(ctx, http.MethodPost, "/api/deposit", map[string]string{"amount": "20.00"}, nil); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	eng, _ := game.Lookup(game.RPS)
	cfg := config.BotConfig{Wager: money.Must("1.00")}
	tl := &tally{}
	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			playRound(ctx, c, eng, cfg, tl)
		}()
	}
	wg.Wait()

	var end balanceResp
	if err := c.call(ctx, http.MethodGet, "/api/balance", nil, &end); err != nil {
		t.Fatalf("balance: %v", err)
	}
	if tl.failed != 0 {
		t.Fatalf("failed rounds = %d", tl.failed)
	}
	if want := money.Must("20.00").Add(tl.net); !end.Balance.Equal(want) {
		t.Fatalf("balance = %s, want %s", end.Balance, want)
	}
	if tl.settled+tl.rejected != 30 {
		t.Fatalf("settled=%d rejected=%d", tl.settled, tl.rejected)
	}
}

func TestCallReportsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		httptransport.WriteHTTPError(w, http.StatusUnprocessableEntity, "insufficient_funds")
	}))
	defer srv.Close()

	c := &client{base: srv.URL, http: srv.Client()}
	err := c.call(context.Background(), http.MethodGet, "/", nil, nil)
	apiErr, ok := err.(*apiError)
	if !ok || apiErr.Status != http.StatusUnprocessableEntity || apiErr.Code != "insufficient_funds" {
		t.Fatalf("err = %#v", err)
	}
}
