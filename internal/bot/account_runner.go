package bot

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"arena-bot/internal/arena"
)

// AccountRunner drives one full pass over one account's agents and
// owns 401 recovery: at most one re-authentication per cycle followed
// by one retried pass. Nothing it hits escapes upward except
// cancellation and the quota pause signal.
type AccountRunner struct {
	gateway  Gateway
	auth     Authenticator
	agents   *AgentRunner
	observer Observer
}

func NewAccountRunner(gateway Gateway, auth Authenticator, agents *AgentRunner, observer Observer) *AccountRunner {
	if observer == nil {
		observer = NopObserver{}
	}
	return &AccountRunner{gateway: gateway, auth: auth, agents: agents, observer: observer}
}

func (r *AccountRunner) Run(ctx context.Context, acct *Account) (Step, error) {
	for attempt := 0; ; attempt++ {
		step, err := r.pass(ctx, acct)
		if err == nil {
			return step, nil
		}
		if ctx.Err() != nil {
			return Step{}, err
		}
		if !errors.Is(err, arena.ErrUnauthorized) {
			log.Error().Err(err).Str("wallet", acct.Identity.Address).Msg("account pass failed, skipping this cycle")
			return Step{}, nil
		}
		if attempt >= 1 {
			log.Error().Str("wallet", acct.Identity.Address).Msg("still unauthorized after re-authentication, skipping this cycle")
			return Step{}, nil
		}

		log.Warn().Str("wallet", acct.Identity.Address).Msg("auth token expired, refreshing")
		cred, aerr := r.auth.Reauthenticate(ctx, acct.Identity)
		if aerr != nil {
			log.Error().Err(aerr).Str("wallet", acct.Identity.Address).Msg("re-authentication failed, skipping this cycle")
			return Step{}, nil
		}
		acct.Credential = cred
		log.Info().Str("wallet", acct.Identity.Address).Int64("user_id", cred.UserID).Msg("access token regenerated")
	}
}

func (r *AccountRunner) pass(ctx context.Context, acct *Account) (Step, error) {
	stats, err := r.gateway.FetchUserStats(ctx, acct.Credential.UserID)
	if err != nil {
		if errors.Is(err, arena.ErrNotFound) || errors.Is(err, arena.ErrMalformed) {
			log.Error().Err(err).Str("wallet", acct.Identity.Address).Msg("no valid stats for account")
			return Step{}, nil
		}
		return Step{}, err
	}
	log.Info().
		Str("wallet", acct.Identity.Address).
		Float64("total_fractals", stats.UserFractals).
		Float64("daily_fractals", stats.DailyFractals).
		Int("current_rank", stats.FractalRank.CurrentRank).
		Msg("account stats")
	r.observer.OnUserStats(acct.Identity.Address, acct.Credential.UserID, stats)

	agents, err := r.gateway.ListAgents(ctx, acct.Credential.UserID, acct.Credential.AccessToken)
	if err != nil {
		if errors.Is(err, arena.ErrNotFound) || errors.Is(err, arena.ErrMalformed) {
			log.Error().Err(err).Str("wallet", acct.Identity.Address).Msg("no agent list for account")
			return Step{}, nil
		}
		return Step{}, err
	}

	for _, agent := range agents {
		step, err := r.agents.Run(ctx, acct, agent)
		if err != nil {
			return Step{}, err
		}
		if step.Paused() {
			return step, nil
		}
	}
	return Step{}, nil
}
