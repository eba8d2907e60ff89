package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	appaccount "xbet/internal/app/account"
	"xbet/internal/config"
	"xbet/internal/game"
	"xbet/internal/jobs"
	"xbet/internal/ledger"
	"xbet/internal/logging"
	"xbet/internal/store"
	httptransport "xbet/internal/transport/http"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	if err := logging.Init(cfg.Log); err != nil {
		panic(err)
	}
	defer logging.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.New(cfg.Server.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	defer st.Close()
	if err := st.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("db ping failed")
	}
	st.SetTxPolicy(txPolicy(cfg.Ledger))
	if err := st.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}

	accounts := appaccount.NewService(st, cfg.Server)
	admin, err := accounts.EnsureAdmin(ctx, cfg.Server.AdminEmail, cfg.Server.AdminPhone, cfg.Server.AdminPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("ensure admin failed")
	}
	if admin != nil {
		log.Info().Int64("account_id", admin.ID).Msg("admin account ready")
	}

	coord := ledger.NewCoordinator(st, game.CryptoSource{}, ledger.Policy{
		AllowClientOutcome: cfg.Ledger.AllowClientOutcome,
		MaxTransferAmount:  cfg.Ledger.MaxTransferAmount,
	})
	if cfg.Ledger.AllowClientOutcome {
		log.Warn().Msg("client supplied outcomes are accepted for settlement")
	}

	runner, err := jobs.Start(ctx, jobs.Schedule{
		SessionPurgeEvery:   cfg.Server.SessionPurgeEvery,
		StatsReconcileEvery: cfg.Server.StatsReconcileEvery,
	}, st, coord)
	if err != nil {
		log.Fatal().Err(err).Msg("job scheduler start failed")
	}

	r := httptransport.NewRouter(st, cfg.Server, coord)
	httptransport.LogRoutes(r)

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.HTTPAddr).Msg("http listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown requested")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	if err := runner.Stop(); err != nil {
		log.Error().Err(err).Msg("job scheduler shutdown failed")
	}
	log.Info().Msg("server stopped")
}

func txPolicy(cfg config.LedgerConfig) store.TxPolicy {
	return store.TxPolicy{
		MaxRetries:       cfg.TxMaxRetries,
		LockTimeout:      cfg.TxLockTimeout,
		StatementTimeout: cfg.TxStatementTimeout,
	}
}
