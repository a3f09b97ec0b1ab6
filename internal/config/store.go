package config

import "github.com/caarlos0/env/v11"

// StoreConfig controls the optional battle-history database. An empty
// DSN disables persistence entirely.
type StoreConfig struct {
	PostgresDSN string `env:"STORE_POSTGRES_DSN"`
	HistoryKeep int    `env:"STORE_HISTORY_KEEP" envDefault:"500"`
}

func LoadStore() (StoreConfig, error) {
	var cfg StoreConfig
	err := env.Parse(&cfg)
	return cfg, err
}
