package ports

import (
	"context"

	"github.com/Shashank2985/Cannon/internal/core/domain"
)

// ScanSubmitter is the inbound contract for the three-image upload.
type ScanSubmitter interface {
	Submit(ctx context.Context, identity domain.Identity, front, left, right []byte) (*domain.Scan, error)
}

// ScanAnalyzer is the inbound contract for triggering analysis on an
// uploaded scan.
type ScanAnalyzer interface {
	Analyze(ctx context.Context, scanID, callerID string) (domain.AnalysisOutcome, error)
}

// ScanReader is the inbound read model for scan projections.
type ScanReader interface {
	Latest(ctx context.Context, identity domain.Identity) (*domain.ScanProjection, error)
	History(ctx context.Context, userID string, limit int) ([]domain.ScanSummary, error)
	GetByID(ctx context.Context, scanID string, identity domain.Identity) (*domain.ScanProjection, error)
}

// RankingService is the inbound contract of the leaderboard ranking
// engine.
type RankingService interface {
	RecordScan(ctx context.Context, userID string, overallScore float64) error
	Leaderboard(ctx context.Context, limit int) (*domain.LeaderboardPage, error)
	MyRank(ctx context.Context, userID string) (*domain.RankView, error)
}
