package bot

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"arena-bot/internal/arena"
)

// Orchestrator walks a joined battle through its lifecycle: wait out
// the matchmaking queue, wait out the session itself, then read the
// final participant list. One timeout budget covers both waits.
type Orchestrator struct {
	gateway Gateway
	clock   Clock
	sleeper Sleeper

	pollInterval    time.Duration
	battleTimeout   time.Duration
	postBattleDelay time.Duration
}

func NewOrchestrator(gateway Gateway, clock Clock, sleeper Sleeper, pollInterval, battleTimeout, postBattleDelay time.Duration) *Orchestrator {
	return &Orchestrator{
		gateway:         gateway,
		clock:           clock,
		sleeper:         sleeper,
		pollInterval:    pollInterval,
		battleTimeout:   battleTimeout,
		postBattleDelay: postBattleDelay,
	}
}

// Run drives one battle to a terminal state. Timeout yields
// OutcomeTimedOut, not an error; only transport failures return err.
func (o *Orchestrator) Run(ctx context.Context, handle arena.MatchHandle, agent arena.Agent) (Outcome, error) {
	status, err := o.gateway.FetchSessionDetail(ctx, handle.MatchmakingID)
	if err != nil {
		return Outcome{}, err
	}
	start := o.clock.Now()

	for status.MatchmakingStatus == arena.MatchmakingQueued {
		if o.clock.Now().Sub(start) > o.battleTimeout {
			log.Error().Int64("matchmaking_id", handle.MatchmakingID).Msg("match did not start within the timeout, forfeiting attempt")
			return Outcome{Kind: OutcomeTimedOut}, nil
		}
		log.Info().Int64("matchmaking_id", handle.MatchmakingID).Msg("waiting for match to start")
		if err := o.sleeper.Sleep(ctx, o.pollInterval); err != nil {
			return Outcome{}, err
		}
		if status, err = o.gateway.FetchSessionDetail(ctx, handle.MatchmakingID); err != nil {
			return Outcome{}, err
		}
	}

	if status.MatchmakingStatus == arena.MatchmakingCompleted || status.Status == arena.MatchOnProgress {
		log.Info().Int64("matchmaking_id", handle.MatchmakingID).Msg("match started")
	}

	for status.Session.Status != arena.SessionCompleted {
		if o.clock.Now().Sub(start) > o.battleTimeout {
			log.Error().Int64("matchmaking_id", handle.MatchmakingID).Msg("match did not complete within the timeout, forfeiting attempt")
			return Outcome{Kind: OutcomeTimedOut}, nil
		}
		log.Info().Int64("matchmaking_id", handle.MatchmakingID).Msg("battle in progress")
		if err := o.sleeper.Sleep(ctx, o.pollInterval); err != nil {
			return Outcome{}, err
		}
		if status, err = o.gateway.FetchSessionDetail(ctx, handle.MatchmakingID); err != nil {
			return Outcome{}, err
		}
	}

	log.Info().Int64("matchmaking_id", handle.MatchmakingID).Msg("match completed, rewards distributed")
	if err := o.sleeper.Sleep(ctx, o.pollInterval); err != nil {
		return Outcome{}, err
	}

	outcome := Outcome{Kind: OutcomeCompleted, Participant: findParticipant(status.Participants, agent.ID)}
	if p := outcome.Participant; p != nil {
		log.Info().
			Str("agent", p.AgentData.Name).
			Int("rank", p.Rank).
			Float64("score", p.Score).
			Float64("reward", p.Reward).
			Msg("battle result")
	}

	// Deliberate throttle between consecutive battles, distinct from
	// the poll interval.
	if err := o.sleeper.Sleep(ctx, o.postBattleDelay); err != nil {
		return Outcome{}, err
	}
	return outcome, nil
}

func findParticipant(participants []arena.Participant, agentID int64) *arena.Participant {
	for i := range participants {
		if participants[i].AgentID == agentID {
			return &participants[i]
		}
	}
	return nil
}
