package store

import "time"

// BattleRecord is one finished (or forfeited) battle as persisted.
type BattleRecord struct {
	ID            string    `json:"id"`
	Wallet        string    `json:"wallet"`
	UserID        int64     `json:"user_id"`
	AgentID       int64     `json:"agent_id"`
	AgentName     string    `json:"agent_name"`
	MatchmakingID int64     `json:"matchmaking_id"`
	EntryFee      float64   `json:"entry_fee"`
	Outcome       string    `json:"outcome"`
	Rank          int       `json:"rank"`
	Score         float64   `json:"score"`
	Reward        float64   `json:"reward"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
}
