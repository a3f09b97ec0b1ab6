package bot

import (
	"context"
	"sync"
	"time"

	"arena-bot/internal/arena"
	"arena-bot/internal/wallet"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeSleeper advances the fake clock instead of blocking, so waits
// are simulated rather than real.
type fakeSleeper struct {
	clock   *fakeClock
	slept   []time.Duration
	onSleep func(d time.Duration) error
}

func (s *fakeSleeper) Sleep(_ context.Context, d time.Duration) error {
	if s.onSleep != nil {
		if err := s.onSleep(d); err != nil {
			return err
		}
	}
	s.slept = append(s.slept, d)
	s.clock.advance(d)
	return nil
}

type fakeGateway struct {
	statsErrs  []error
	stats      arena.UserStats
	statsCalls int

	agentsErrs  []error
	agents      []arena.Agent
	agentsCalls int

	initiateErrs  []error
	handle        arena.MatchHandle
	initiatedWith []int64

	details     []arena.MatchStatus
	detailCalls int
}

func popErr(errs *[]error) error {
	if len(*errs) == 0 {
		return nil
	}
	err := (*errs)[0]
	*errs = (*errs)[1:]
	return err
}

func (g *fakeGateway) FetchUserStats(context.Context, int64) (arena.UserStats, error) {
	g.statsCalls++
	if err := popErr(&g.statsErrs); err != nil {
		return arena.UserStats{}, err
	}
	return g.stats, nil
}

func (g *fakeGateway) ListAgents(context.Context, int64, string) ([]arena.Agent, error) {
	g.agentsCalls++
	if err := popErr(&g.agentsErrs); err != nil {
		return nil, err
	}
	return g.agents, nil
}

func (g *fakeGateway) InitiateSession(_ context.Context, _ int64, agentID int64, _ float64, _ string) (arena.MatchHandle, error) {
	g.initiatedWith = append(g.initiatedWith, agentID)
	if err := popErr(&g.initiateErrs); err != nil {
		return arena.MatchHandle{}, err
	}
	return g.handle, nil
}

// FetchSessionDetail serves the scripted snapshots in order; the last
// one repeats.
func (g *fakeGateway) FetchSessionDetail(context.Context, int64) (arena.MatchStatus, error) {
	i := g.detailCalls
	g.detailCalls++
	if i >= len(g.details) {
		i = len(g.details) - 1
	}
	return g.details[i], nil
}

type fakeAuth struct {
	cred  wallet.Credential
	err   error
	calls int
}

func (a *fakeAuth) Reauthenticate(context.Context, wallet.Identity) (wallet.Credential, error) {
	a.calls++
	if a.err != nil {
		return wallet.Credential{}, a.err
	}
	return a.cred, nil
}

type recordingObserver struct {
	NopObserver
	cycles  []int
	battles []BattleResult
	pauses  []time.Time
	resumes int
}

func (o *recordingObserver) OnCycle(n int)           { o.cycles = append(o.cycles, n) }
func (o *recordingObserver) OnBattle(r BattleResult) { o.battles = append(o.battles, r) }
func (o *recordingObserver) OnPause(t time.Time)     { o.pauses = append(o.pauses, t) }
func (o *recordingObserver) OnResume()               { o.resumes++ }

func queuedStatus() arena.MatchStatus {
	var s arena.MatchStatus
	s.MatchmakingStatus = arena.MatchmakingQueued
	return s
}

func completedStatus(participants ...arena.Participant) arena.MatchStatus {
	var s arena.MatchStatus
	s.MatchmakingStatus = arena.MatchmakingCompleted
	s.Session.Status = arena.SessionCompleted
	s.Participants = participants
	return s
}

func participant(agentID int64, rank int, score, reward float64, name string) arena.Participant {
	var p arena.Participant
	p.AgentID = agentID
	p.Rank = rank
	p.Score = score
	p.Reward = reward
	p.AgentData.Name = name
	return p
}
