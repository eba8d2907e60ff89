package config

import (
	"testing"
	"time"
)

func TestLoadLedgerDefaults(t *testing.T) {
	cfg, err := LoadLedger()
	if err != nil {
		t.Fatalf("LoadLedger() error = %v", err)
	}
	if cfg.AllowClientOutcome {
		t.Fatal("client outcomes must be off by default")
	}
	if cfg.TxMaxRetries != 3 {
		t.Fatalf("TxMaxRetries = %d, want 3", cfg.TxMaxRetries)
	}
	if cfg.TxLockTimeout != 2*time.Second {
		t.Fatalf("TxLockTimeout = %v, want 2s", cfg.TxLockTimeout)
	}
	if cfg.MaxTransferAmount.StringFixed(2) != "1000000.00" {
		t.Fatalf("MaxTransferAmount = %s", cfg.MaxTransferAmount)
	}
}

func TestLoadLedgerOverrides(t *testing.T) {
	t.Setenv("ALLOW_CLIENT_OUTCOME", "true")
	t.Setenv("TX_MAX_RETRIES", "5")
	t.Setenv("MAX_TRANSFER_AMOUNT", "250.50")

	cfg, err := LoadLedger()
	if err != nil {
		t.Fatalf("LoadLedger() error = %v", err)
	}
	if !cfg.AllowClientOutcome || cfg.TxMaxRetries != 5 {
		t.Fatalf("unexpected ledger config: %+v", cfg)
	}
	if cfg.MaxTransferAmount.StringFixed(2) != "250.50" {
		t.Fatalf("MaxTransferAmount = %s, want 250.50", cfg.MaxTransferAmount)
	}
}

func TestLoadLedgerRejectsBadAmount(t *testing.T) {
	t.Setenv("MAX_TRANSFER_AMOUNT", "lots")

	if _, err := LoadLedger(); err == nil {
		t.Fatal("expected parse error for MAX_TRANSFER_AMOUNT")
	}
}
