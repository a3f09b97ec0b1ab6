package config

import "github.com/caarlos0/env/v11"

// StatusConfig controls the read-only status HTTP endpoint. An empty
// address leaves the server off.
type StatusConfig struct {
	Addr string `env:"STATUS_ADDR"`
}

func LoadStatus() (StatusConfig, error) {
	var cfg StatusConfig
	err := env.Parse(&cfg)
	return cfg, err
}
