package bot

import (
	"context"
	"time"

	"arena-bot/internal/arena"
	"arena-bot/internal/wallet"
)

// Gateway is the remote surface the runners drive; implemented by
// arena.Client.
type Gateway interface {
	FetchUserStats(ctx context.Context, userID int64) (arena.UserStats, error)
	ListAgents(ctx context.Context, userID int64, token string) ([]arena.Agent, error)
	InitiateSession(ctx context.Context, userID, agentID int64, entryFee float64, token string) (arena.MatchHandle, error)
	FetchSessionDetail(ctx context.Context, matchmakingID int64) (arena.MatchStatus, error)
}

// Authenticator restores an expired credential; implemented by
// wallet.Authenticator.
type Authenticator interface {
	Reauthenticate(ctx context.Context, id wallet.Identity) (wallet.Credential, error)
}

// Account pairs an identity with its current credential. The
// credential is mutated only by this account's runner, never shared.
type Account struct {
	Identity   wallet.Identity
	Credential wallet.Credential
}

// Step is the signal a runner passes upward. A zero PauseUntil means
// continue normally; otherwise the scheduler suspends everything until
// that instant and restarts the account list from the top.
type Step struct {
	PauseUntil time.Time
}

func (s Step) Paused() bool { return !s.PauseUntil.IsZero() }

// Outcome classifies one battle. Timeout is an expected outcome that
// forfeits the attempt, not an error.
type OutcomeKind int

const (
	OutcomeCompleted OutcomeKind = iota
	OutcomeTimedOut
)

type Outcome struct {
	Kind OutcomeKind
	// Participant is this agent's final entry, nil when the agent is
	// absent from the snapshot (not an error) or on timeout.
	Participant *arena.Participant
}

// BattleResult is the flattened record handed to observers.
type BattleResult struct {
	Wallet        string
	UserID        int64
	AgentID       int64
	AgentName     string
	MatchmakingID int64
	EntryFee      float64
	Outcome       string
	Rank          int
	Score         float64
	Reward        float64
	StartedAt     time.Time
	FinishedAt    time.Time
}

const (
	BattleCompleted = "completed"
	BattleNoResult  = "no_result"
	BattleTimedOut  = "timed_out"
)

// Observer receives run milestones; implementations must be cheap and
// must not block the single driving goroutine.
type Observer interface {
	OnCycle(n int)
	OnUserStats(wallet string, userID int64, stats arena.UserStats)
	OnBattle(res BattleResult)
	OnPause(until time.Time)
	OnResume()
}

type NopObserver struct{}

func (NopObserver) OnCycle(int)                                {}
func (NopObserver) OnUserStats(string, int64, arena.UserStats) {}
func (NopObserver) OnBattle(BattleResult)                      {}
func (NopObserver) OnPause(time.Time)                          {}
func (NopObserver) OnResume()                                  {}
