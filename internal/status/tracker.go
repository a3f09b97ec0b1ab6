package status

import (
	"sync"
	"time"

	"arena-bot/internal/arena"
	"arena-bot/internal/bot"
)

// AgentStatus is the last known result for one agent.
type AgentStatus struct {
	AgentID    int64     `json:"agent_id"`
	AgentName  string    `json:"agent_name"`
	Outcome    string    `json:"outcome"`
	Rank       int       `json:"rank"`
	Reward     float64   `json:"reward"`
	FinishedAt time.Time `json:"finished_at"`
}

type AccountStatus struct {
	Wallet        string        `json:"wallet"`
	UserID        int64         `json:"user_id"`
	UserFractals  float64       `json:"user_fractals"`
	DailyFractals float64       `json:"daily_fractals"`
	CurrentRank   int           `json:"current_rank"`
	Agents        []AgentStatus `json:"agents"`
}

// Snapshot is what the status endpoint serves; copied out under the
// lock so handlers never see a half-updated view.
type Snapshot struct {
	StartedAt   time.Time       `json:"started_at"`
	Cycle       int             `json:"cycle"`
	PausedUntil *time.Time      `json:"paused_until,omitempty"`
	Accounts    []AccountStatus `json:"accounts"`
}

// Tracker is the bot.Observer that feeds the status server. Updates
// come from the single scheduler goroutine; reads from HTTP handlers.
type Tracker struct {
	mu          sync.Mutex
	startedAt   time.Time
	cycle       int
	pausedUntil *time.Time
	order       []string
	byWallet    map[string]*AccountStatus
}

func NewTracker(startedAt time.Time) *Tracker {
	return &Tracker{
		startedAt: startedAt,
		byWallet:  map[string]*AccountStatus{},
	}
}

func (t *Tracker) OnCycle(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cycle = n
}

func (t *Tracker) OnUserStats(wallet string, userID int64, stats arena.UserStats) {
	t.mu.Lock()
	defer t.mu.Unlock()
	acct := t.account(wallet)
	acct.UserID = userID
	acct.UserFractals = stats.UserFractals
	acct.DailyFractals = stats.DailyFractals
	acct.CurrentRank = stats.FractalRank.CurrentRank
}

func (t *Tracker) OnBattle(res bot.BattleResult) {
	t.mu.Lock()
	defer t.mu.Unlock()
	acct := t.account(res.Wallet)
	status := AgentStatus{
		AgentID:    res.AgentID,
		AgentName:  res.AgentName,
		Outcome:    res.Outcome,
		Rank:       res.Rank,
		Reward:     res.Reward,
		FinishedAt: res.FinishedAt,
	}
	for i := range acct.Agents {
		if acct.Agents[i].AgentID == res.AgentID {
			acct.Agents[i] = status
			return
		}
	}
	acct.Agents = append(acct.Agents, status)
}

func (t *Tracker) OnPause(until time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pausedUntil = &until
}

func (t *Tracker) OnResume() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pausedUntil = nil
}

func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := Snapshot{
		StartedAt: t.startedAt,
		Cycle:     t.cycle,
		Accounts:  make([]AccountStatus, 0, len(t.order)),
	}
	if t.pausedUntil != nil {
		until := *t.pausedUntil
		out.PausedUntil = &until
	}
	for _, wallet := range t.order {
		acct := *t.byWallet[wallet]
		acct.Agents = append([]AgentStatus(nil), acct.Agents...)
		out.Accounts = append(out.Accounts, acct)
	}
	return out
}

// account returns the tracked entry for wallet, creating it in
// first-seen order when absent. Callers hold the lock.
func (t *Tracker) account(wallet string) *AccountStatus {
	if acct, ok := t.byWallet[wallet]; ok {
		return acct
	}
	acct := &AccountStatus{Wallet: wallet}
	t.byWallet[wallet] = acct
	t.order = append(t.order, wallet)
	return acct
}
