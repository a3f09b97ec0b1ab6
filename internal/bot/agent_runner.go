package bot

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"arena-bot/internal/arena"
)

// AgentRunner joins one agent into one battle and interprets the
// join-time failure modes: the hourly quota becomes a scheduled pause,
// anything else non-auth is logged and skipped.
type AgentRunner struct {
	gateway      Gateway
	orchestrator *Orchestrator
	fees         *FeePicker
	clock        Clock
	sleeper      Sleeper
	observer     Observer

	// Applied after a failed join before moving on.
	interActionDelay time.Duration
}

func NewAgentRunner(gateway Gateway, orchestrator *Orchestrator, fees *FeePicker, clock Clock, sleeper Sleeper, observer Observer, interActionDelay time.Duration) *AgentRunner {
	if observer == nil {
		observer = NopObserver{}
	}
	return &AgentRunner{
		gateway:          gateway,
		orchestrator:     orchestrator,
		fees:             fees,
		clock:            clock,
		sleeper:          sleeper,
		observer:         observer,
		interActionDelay: interActionDelay,
	}
}

// Run returns a pause step on quota exhaustion and propagates only
// auth errors (and cancellation); every other failure is absorbed
// here so one bad join never costs the rest of the cycle.
func (r *AgentRunner) Run(ctx context.Context, acct *Account, agent arena.Agent) (Step, error) {
	if agent.AutomationEnabled {
		log.Debug().Int64("agent_id", agent.ID).Str("agent", agent.Name).Msg("automation enabled remotely, skipping")
		return Step{}, nil
	}

	fee := r.fees.Pick()
	log.Info().Int64("agent_id", agent.ID).Str("agent", agent.Name).Float64("entry_fee", fee).Msg("joining space")

	handle, err := r.gateway.InitiateSession(ctx, acct.Credential.UserID, agent.ID, fee, acct.Credential.AccessToken)
	if err != nil {
		if errors.Is(err, arena.ErrUnauthorized) || ctx.Err() != nil {
			return Step{}, err
		}
		var remote *arena.RemoteError
		if errors.As(err, &remote) && isQuotaExceeded(remote.Message) {
			until := nextQuotaWake(r.clock.Now())
			log.Warn().Str("agent", agent.Name).Time("until", until).Msg("hourly session quota exceeded, pausing run")
			return Step{PauseUntil: until}, nil
		}
		log.Error().Err(err).Str("agent", agent.Name).Msg("error joining space")
		if serr := r.sleeper.Sleep(ctx, r.interActionDelay); serr != nil {
			return Step{}, serr
		}
		return Step{}, nil
	}

	log.Info().Str("agent", agent.Name).Float64("entry_fee", fee).Int64("matchmaking_id", handle.MatchmakingID).Msg("joined space")
	started := r.clock.Now()

	outcome, err := r.orchestrator.Run(ctx, handle, agent)
	if err != nil {
		if errors.Is(err, arena.ErrUnauthorized) || ctx.Err() != nil {
			return Step{}, err
		}
		log.Error().Err(err).Str("agent", agent.Name).Int64("matchmaking_id", handle.MatchmakingID).Msg("battle lost to transport failure")
		return Step{}, nil
	}

	r.observer.OnBattle(battleResult(acct, agent, handle, fee, outcome, started, r.clock.Now()))
	return Step{}, nil
}

func battleResult(acct *Account, agent arena.Agent, handle arena.MatchHandle, fee float64, outcome Outcome, started, finished time.Time) BattleResult {
	res := BattleResult{
		Wallet:        acct.Identity.Address,
		UserID:        acct.Credential.UserID,
		AgentID:       agent.ID,
		AgentName:     agent.Name,
		MatchmakingID: handle.MatchmakingID,
		EntryFee:      fee,
		StartedAt:     started,
		FinishedAt:    finished,
	}
	switch {
	case outcome.Kind == OutcomeTimedOut:
		res.Outcome = BattleTimedOut
	case outcome.Participant == nil:
		res.Outcome = BattleNoResult
	default:
		res.Outcome = BattleCompleted
		res.Rank = outcome.Participant.Rank
		res.Score = outcome.Participant.Score
		res.Reward = outcome.Participant.Reward
		if outcome.Participant.AgentData.Name != "" {
			res.AgentName = outcome.Participant.AgentData.Name
		}
	}
	return res
}
