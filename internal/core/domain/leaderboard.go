package domain

import "time"

// LeaderboardEntry is the single per-user row of the global ranking.
// Score is a running maximum over the user's completed scans; Level
// tracks the most recent composite score and may go down. Ranks always
// form a dense 1..N sequence over score descending, user id ascending.
// Entries are written exclusively by the ranking engine.
type LeaderboardEntry struct {
	UserID                string    `json:"user_id"`
	Score                 float64   `json:"score"`
	Level                 float64   `json:"level"`
	StreakDays            int       `json:"streak_days"`
	ImprovementPercentage float64   `json:"improvement_percentage"`
	ScansCount            int       `json:"scans_count"`
	Rank                  int       `json:"rank"`
	LastScanAt            time.Time `json:"last_scan_at"`
	CreatedAt             time.Time `json:"created_at"`
}

// ScorePoint is one completed scan in a user's score history.
type ScorePoint struct {
	Score      float64   `json:"score"`
	RecordedAt time.Time `json:"recorded_at"`
}

// RankAssignment pairs a user with a freshly computed rank during a
// global recomputation.
type RankAssignment struct {
	UserID string
	Rank   int
}

// LeaderboardPage is the paged read model for the global board.
type LeaderboardPage struct {
	Entries    []LeaderboardEntry `json:"entries"`
	TotalUsers int                `json:"total_users"`
}

// RankView answers a get-my-rank query. Ranked=false is the valid
// "complete a scan to join" state, not an error.
type RankView struct {
	Ranked     bool              `json:"ranked"`
	Entry      *LeaderboardEntry `json:"entry,omitempty"`
	TotalUsers int               `json:"total_users"`
}
