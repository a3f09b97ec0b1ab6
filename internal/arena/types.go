package arena

// Match and session states reported by the arena backend.
const (
	MatchmakingQueued    = "QUEUED"
	MatchmakingCompleted = "COMPLETED"
	MatchOnProgress      = "ON_PROGRESS"
	SessionCompleted     = "COMPLETED"
)

type UserStats struct {
	UserFractals  float64 `json:"userFractals"`
	DailyFractals float64 `json:"dailyFractals"`
	FractalRank   struct {
		CurrentRank int `json:"currentRank"`
	} `json:"fractalRank"`
}

// Agent is remote-owned; AutomationEnabled means the arena runs it
// itself and the bot must leave it alone.
type Agent struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	AutomationEnabled bool   `json:"automationEnabled"`
}

// MatchHandle is the result of a successful initiate call. It is only
// valid for the battle it was issued for.
type MatchHandle struct {
	MatchmakingID int64 `json:"matchmakingId"`
}

type Participant struct {
	AgentID   int64   `json:"agent"`
	Rank      int     `json:"rank"`
	Score     float64 `json:"score"`
	Reward    float64 `json:"reward"`
	AgentData struct {
		Name string `json:"name"`
	} `json:"agentData"`
}

// MatchStatus is a polled snapshot; callers replace it wholesale on
// each poll and never mutate it.
type MatchStatus struct {
	MatchmakingStatus string `json:"matchmakingStatus"`
	Status            string `json:"status"`
	Session           struct {
		Status string `json:"status"`
	} `json:"session"`
	Participants []Participant `json:"participants"`
}

// AuthResult is the verified sign-in payload.
type AuthResult struct {
	AccessToken string `json:"accessToken"`
	User        struct {
		ID int64 `json:"id"`
	} `json:"user"`
}
