package domain

import "time"

type ScanStatus string

const (
	StatusPending    ScanStatus = "pending"
	StatusProcessing ScanStatus = "processing"
	StatusCompleted  ScanStatus = "completed"
	StatusFailed     ScanStatus = "failed"
)

// ScanImages holds the storage keys of the three capture angles.
type ScanImages struct {
	Front string `json:"front"`
	Left  string `json:"left"`
	Right string `json:"right"`
}

// Scan is the unit of work of the whole system: three uploaded photos,
// a processing status and, once completed, the structured analysis.
// Analysis is non-nil iff Status is completed; Error is non-empty iff
// Status is failed.
type Scan struct {
	ID         string        `json:"id"`
	UserID     string        `json:"user_id"`
	Images     ScanImages    `json:"images"`
	Status     ScanStatus    `json:"status"`
	Analysis   *ScanAnalysis `json:"analysis,omitempty"`
	Error      string        `json:"error,omitempty"`
	IsUnlocked bool          `json:"is_unlocked"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// ScanSummary is the history-row projection: enough for a progress chart,
// nothing more.
type ScanSummary struct {
	ID           string     `json:"id"`
	Status       ScanStatus `json:"status"`
	OverallScore *float64   `json:"overall_score,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// LockedAnalysis is what an unpaid viewer gets instead of the full result.
type LockedAnalysis struct {
	OverallScore float64 `json:"overall_score"`
	Locked       bool    `json:"locked"`
}

// ScanProjection is the read model returned to clients. Exactly one of
// Analysis and Locked is set for a completed scan, depending on the
// viewer's paid flag.
type ScanProjection struct {
	ID        string          `json:"id"`
	Status    ScanStatus      `json:"status"`
	Images    ScanImages      `json:"images"`
	Analysis  *ScanAnalysis   `json:"analysis,omitempty"`
	Locked    *LockedAnalysis `json:"locked_analysis,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// AnalysisOutcome is the result of a trigger-analysis call.
type AnalysisOutcome struct {
	ScanID string     `json:"scan_id"`
	Status ScanStatus `json:"status"`
	Error  string     `json:"error,omitempty"`
}

// ScanCompletedEvent is published after a scan reaches completed status
// and drives the asynchronous leaderboard update.
type ScanCompletedEvent struct {
	ScanID       string    `json:"scan_id"`
	UserID       string    `json:"user_id"`
	OverallScore float64   `json:"overall_score"`
	CompletedAt  time.Time `json:"completed_at"`
}

// Identity is the caller as asserted by the upstream identity provider.
type Identity struct {
	UserID string
	Paid   bool
}
