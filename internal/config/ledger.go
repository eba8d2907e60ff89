package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
)

type LedgerConfig struct {
	// AllowClientOutcome lets callers supply the game outcome (e.g. from a
	// client-side animation). Off means outcomes are always drawn server-side.
	AllowClientOutcome bool `env:"ALLOW_CLIENT_OUTCOME" envDefault:"false"`

	TxMaxRetries       int           `env:"TX_MAX_RETRIES" envDefault:"3"`
	TxLockTimeout      time.Duration `env:"TX_LOCK_TIMEOUT" envDefault:"2s"`
	TxStatementTimeout time.Duration `env:"TX_STATEMENT_TIMEOUT" envDefault:"5s"`

	MaxTransferAmount decimal.Decimal `env:"MAX_TRANSFER_AMOUNT" envDefault:"1000000.00"`
}

func LoadLedger() (LedgerConfig, error) {
	var cfg LedgerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
