package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
)

// BotConfig drives cmd/xbet-loadbot.
type BotConfig struct {
	BaseURL     string          `env:"BOT_BASE_URL" envDefault:"http://localhost:8080"`
	Email       string          `env:"BOT_EMAIL,required,notEmpty"`
	Password    string          `env:"BOT_PASSWORD,required,notEmpty"`
	Game        string          `env:"BOT_GAME" envDefault:"wheel"`
	Wager       decimal.Decimal `env:"BOT_WAGER" envDefault:"1.00"`
	Deposit     decimal.Decimal `env:"BOT_DEPOSIT" envDefault:"0"`
	Concurrency int             `env:"BOT_CONCURRENCY" envDefault:"8"`
	Rounds      int             `env:"BOT_ROUNDS" envDefault:"100"`
}

func LoadBot() (BotConfig, error) {
	var cfg BotConfig
	err := env.Parse(&cfg)
	return cfg, err
}
