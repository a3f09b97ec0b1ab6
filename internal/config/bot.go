package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
)

type BotConfig struct {
	BaseURL     string   `env:"ARENA_BASE_URL" envDefault:"https://dapp-backend-large.fractionai.xyz"`
	PrivateKeys []string `env:"PRIVATE_KEYS" envSeparator:","`

	// Fees are sampled by random index, so repeating a value weights it.
	EntryFees []float64 `env:"ENTRY_FEES" envSeparator:"," envDefault:"0.001,0.001,0.001,0.001,0.001,0.01,0.001,0.01,0.001,0.01,0.001,0.1,0.001,0.001,0.001,0.001,0.001,0.001,0.001,0.001"`

	PollInterval    time.Duration `env:"POLL_INTERVAL" envDefault:"15s"`
	BattleTimeout   time.Duration `env:"BATTLE_TIMEOUT" envDefault:"10m"`
	CycleCooldown   time.Duration `env:"CYCLE_COOLDOWN" envDefault:"5m"`
	PostBattleDelay time.Duration `env:"POST_BATTLE_DELAY" envDefault:"60s"`

	HTTPTimeout   time.Duration `env:"HTTP_TIMEOUT" envDefault:"20s"`
	RetryMax      int           `env:"TRANSIENT_RETRY_MAX" envDefault:"20"`
	RetryBackoff  time.Duration `env:"TRANSIENT_RETRY_BACKOFF" envDefault:"5s"`
	SessionTypeID int           `env:"SESSION_TYPE_ID" envDefault:"1"`

	SignInDomain    string `env:"SIGNIN_DOMAIN" envDefault:"dapp.fractionai.xyz"`
	SignInURI       string `env:"SIGNIN_URI" envDefault:"https://dapp.fractionai.xyz"`
	SignInStatement string `env:"SIGNIN_STATEMENT" envDefault:"Sign in with your wallet to Fraction AI."`
	SignInChainID   int    `env:"SIGNIN_CHAIN_ID" envDefault:"11155111"`

	// Legacy pre-authenticated account list, read only by the one-shot
	// stats report mode.
	AccountsFile string `env:"ACCOUNTS_FILE" envDefault:"account.json"`
}

var ErrNoEntryFees = errors.New("entry fee list must not be empty")

func LoadBot() (BotConfig, error) {
	var cfg BotConfig
	if err := env.Parse(&cfg); err != nil {
		return BotConfig{}, err
	}
	if len(cfg.EntryFees) == 0 {
		return BotConfig{}, ErrNoEntryFees
	}
	return cfg, nil
}
