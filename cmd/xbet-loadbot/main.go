// Command xbet-loadbot logs in as one account and fires concurrent wagers at
// a running server, then checks that the final balance equals the starting
// balance plus every settled net amount.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"xbet/internal/config"
	"xbet/internal/game"
	"xbet/internal/logging"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type client struct {
	base  string
	token string
	http  *http.Client
}

type apiError struct {
	Status int
	Code   string
}

func (e *apiError) Error() string { return fmt.Sprintf("%d %s", e.Status, e.Code) }

func (c *client) call(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &apiError{Status: resp.StatusCode, Code: e.Error}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type balanceResp struct {
	Balance decimal.Decimal `json:"balance"`
}

type playResp struct {
	Play struct {
		WinLoss decimal.Decimal `json:"win_loss_amount"`
	} `json:"play"`
}

type tally struct {
	mu       sync.Mutex
	net      decimal.Decimal
	settled  int
	rejected int
	retried  int
	failed   int
}

func main() {
	if err := config.LoadDotenv(); err != nil {
		panic(err)
	}
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	if err := logging.Init(logCfg); err != nil {
		panic(err)
	}
	cfg, err := config.LoadBot()
	if err != nil {
		log.Fatal().Err(err).Msg("load bot config failed")
	}
	eng, err := game.Lookup(game.ID(cfg.Game))
	if err != nil {
		log.Fatal().Err(err).Str("game", cfg.Game).Msg("unknown game")
	}

	ctx := context.Background()
	c := &client{base: cfg.BaseURL, http: &http.Client{Timeout: 10 * time.Second}}

	var login struct {
		Token string `json:"token"`
	}
	if err := c.call(ctx, http.MethodPost, "/api/login", map[string]string{"email": cfg.Email, "password": cfg.Password}, &login); err != nil {
		log.Fatal().Err(err).Msg("login failed")
	}
	c.token = login.Token

	if cfg.Deposit.IsPositive() {
		if err := c.call(ctx, http.MethodPost, "/api/deposit", map[string]string{"amount": cfg.Deposit.StringFixed(2)}, nil); err != nil {
			log.Fatal().Err(err).Msg("deposit failed")
		}
	}
	var start balanceResp
	if err := c.call(ctx, http.MethodGet, "/api/balance", nil, &start); err != nil {
		log.Fatal().Err(err).Msg("read balance failed")
	}
	log.Info().Str("balance", start.Balance.StringFixed(2)).Int("rounds", cfg.Rounds).Int("concurrency", cfg.Concurrency).Msg("load bot starting")

	t := &tally{net: decimal.Zero}
	rounds := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < max(cfg.Concurrency, 1); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range rounds {
				playRound(ctx, c, eng, cfg, t)
			}
		}()
	}
	started := time.Now()
	for i := 0; i < cfg.Rounds; i++ {
		rounds <- i
	}
	close(rounds)
	wg.Wait()

	var end balanceResp
	if err := c.call(ctx, http.MethodGet, "/api/balance", nil, &end); err != nil {
		log.Fatal().Err(err).Msg("read balance failed")
	}
	want := start.Balance.Add(t.net)
	ev := log.Info()
	if !end.Balance.Equal(want) {
		ev = log.Error()
	}
	ev.Int("settled", t.settled).
		Int("rejected", t.rejected).
		Int("retried", t.retried).
		Int("failed", t.failed).
		Str("net", t.net.StringFixed(2)).
		Str("balance", end.Balance.StringFixed(2)).
		Str("expected", want.StringFixed(2)).
		Dur("took", time.Since(started)).
		Msg("load bot finished")
	if !end.Balance.Equal(want) {
		log.Fatal().Msg("balance does not reconcile with settled wagers")
	}
}

// playRound retries try_again responses with the same request id so a
// settlement is never applied twice.
func playRound(ctx context.Context, c *client, eng game.Engine, cfg config.BotConfig, t *tally) {
	inputs := eng.Inputs()
	req := map[string]string{
		"wager":      cfg.Wager.StringFixed(2),
		"choice":     inputs[rand.IntN(len(inputs))],
		"request_id": uuid.NewString(),
	}
	for attempt := 0; attempt < 5; attempt++ {
		var out playResp
		err := c.call(ctx, http.MethodPost, "/api/games/"+string(eng.ID())+"/play", req, &out)
		if err == nil {
			t.mu.Lock()
			t.net = t.net.Add(out.Play.WinLoss)
			t.settled++
			t.mu.Unlock()
			return
		}
		var apiErr *apiError
		ok := errors.As(err, &apiErr)
		if ok && apiErr.Status == http.StatusServiceUnavailable {
			t.mu.Lock()
			t.retried++
			t.mu.Unlock()
			time.Sleep(time.Duration(attempt+1) * 50 * time.Millisecond)
			continue
		}
		t.mu.Lock()
		if ok && apiErr.Status == http.StatusUnprocessableEntity {
			t.rejected++
		} else {
			t.failed++
			log.Warn().Err(err).Msg("play failed")
		}
		t.mu.Unlock()
		return
	}
	t.mu.Lock()
	t.failed++
	t.mu.Unlock()
}
