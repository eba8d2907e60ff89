package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type ServerConfig struct {
	PostgresDSN string `env:"POSTGRES_DSN,required,notEmpty"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`

	AdminEmail    string `env:"ADMIN_EMAIL" envDefault:"h2w@admin.com"`
	AdminPhone    string `env:"ADMIN_PHONE" envDefault:"0999999999"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	AllowedEmailDomains []string      `env:"ALLOWED_EMAIL_DOMAINS" envDefault:"gmail.com" envSeparator:","`
	SessionTTL          time.Duration `env:"SESSION_TTL" envDefault:"168h"`

	SessionPurgeEvery   time.Duration `env:"SESSION_PURGE_EVERY" envDefault:"10m"`
	StatsReconcileEvery time.Duration `env:"STATS_RECONCILE_EVERY" envDefault:"1h"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
