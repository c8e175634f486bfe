package ports

import (
	"context"

	"github.com/Shashank2985/Cannon/internal/core/domain"
)

// ScanRepository persists and reads scan state. Status transitions are
// monotonic: pending -> processing -> completed|failed, with failed
// re-claimable for an explicit client retry.
type ScanRepository interface {
	Create(ctx context.Context, scan *domain.Scan) error
	GetForUser(ctx context.Context, scanID, userID string) (*domain.Scan, error)
	GetLatest(ctx context.Context, userID string) (*domain.Scan, error)
	ListHistory(ctx context.Context, userID string, limit int) ([]domain.ScanSummary, error)
	// ClaimForProcessing transitions pending|failed -> processing in a
	// single compare-and-swap; a concurrent duplicate trigger loses the
	// race and gets ErrConflict.
	ClaimForProcessing(ctx context.Context, scanID, userID string) error
	// SaveAnalysis attaches the validated result and sets completed in
	// one write, keeping result-iff-completed intact.
	SaveAnalysis(ctx context.Context, scanID string, analysis *domain.ScanAnalysis) error
	MarkFailed(ctx context.Context, scanID, errMessage string) error
	// ListCompletedScores returns the user's completed composite scores,
	// newest first.
	ListCompletedScores(ctx context.Context, userID string) ([]domain.ScorePoint, error)
}

// LeaderboardRepository is written exclusively by the ranking engine.
type LeaderboardRepository interface {
	// GetByUserID returns (nil, nil) when the user has no entry yet.
	GetByUserID(ctx context.Context, userID string) (*domain.LeaderboardEntry, error)
	Upsert(ctx context.Context, entry *domain.LeaderboardEntry) error
	// ListForRerank returns every entry ordered score descending, user id
	// ascending - the deterministic tie-break of the global ranking.
	ListForRerank(ctx context.Context) ([]domain.LeaderboardEntry, error)
	// UpdateRanks persists a full rank assignment in one transaction.
	UpdateRanks(ctx context.Context, assignments []domain.RankAssignment) error
	ListRanked(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
	Count(ctx context.Context) (int, error)
}

// ImageStorage stores the raw capture bytes and hands back opaque keys.
type ImageStorage interface {
	Put(ctx context.Context, data []byte, userID, kind string) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Remove(ctx context.Context, key string) error
}

// AnalysisEngine turns the three capture angles into a structured result.
// One atomic call; its internal pipeline is not this core's business.
type AnalysisEngine interface {
	Analyze(ctx context.Context, front, left, right []byte) (*domain.ScanAnalysis, error)
}

// EventQueue publishes/consumes scan completion events.
type EventQueue interface {
	PublishScanCompleted(ctx context.Context, evt domain.ScanCompletedEvent) error
	SubscribeScanCompleted(ctx context.Context, handler func(context.Context, domain.ScanCompletedEvent) error) error
}
