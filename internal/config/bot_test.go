package config

import "testing"

func TestLoadBotRequiresCredentials(t *testing.T) {
	t.Setenv("BOT_EMAIL", "")
	t.Setenv("BOT_PASSWORD", "")

	if _, err := LoadBot(); err == nil {
		t.Fatal("LoadBot() expected error without credentials")
	}
}

func TestLoadBotDefaults(t *testing.T) {
	t.Setenv("BOT_EMAIL", "bot@gmail.com")
	t.Setenv("BOT_PASSWORD", "secret1")

	cfg, err := LoadBot()
	if err != nil {
		t.Fatalf("LoadBot() error = %v", err)
	}
	if cfg.BaseURL != "http://localhost:8080" {
		t.Fatalf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Game != "wheel" || cfg.Concurrency != 8 || cfg.Rounds != 100 {
		t.Fatalf("unexpected bot config: %+v", cfg)
	}
	if cfg.Wager.StringFixed(2) != "1.00" {
		t.Fatalf("Wager = %s, want 1.00", cfg.Wager)
	}
}
