package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Shashank2985/Cannon/internal/core/domain"
	"github.com/Shashank2985/Cannon/internal/core/ports"
	"github.com/Shashank2985/Cannon/internal/core/scoring"
)

type AnalyzeScanUseCase struct {
	repo    ports.ScanRepository
	storage ports.ImageStorage
	engine  ports.AnalysisEngine
	queue   ports.EventQueue
}

func NewAnalyzeScanUseCase(
	repo ports.ScanRepository,
	storage ports.ImageStorage,
	engine ports.AnalysisEngine,
	queue ports.EventQueue,
) *AnalyzeScanUseCase {
	return &AnalyzeScanUseCase{
		repo:    repo,
		storage: storage,
		engine:  engine,
		queue:   queue,
	}
}

// Analyze runs one scan through the engine. The claim is a compare-and-swap:
// only a pending or previously failed scan can enter processing, so a
// concurrent duplicate trigger surfaces as ErrConflict instead of a double
// engine invocation. Every failure past the claim is persisted on the scan;
// completion is the source of truth and the leaderboard update that follows
// is a lagging projection published to the queue.
func (uc *AnalyzeScanUseCase) Analyze(ctx context.Context, scanID, callerID string) (domain.AnalysisOutcome, error) {
	if err := uc.repo.ClaimForProcessing(ctx, scanID, callerID); err != nil {
		return domain.AnalysisOutcome{}, fmt.Errorf("claim scan for processing: %w", err)
	}

	scan, err := uc.repo.GetForUser(ctx, scanID, callerID)
	if err != nil {
		// The claim already moved the scan into processing; the fetch
		// failure must go through fail so the scan stays re-claimable.
		return uc.fail(ctx, scanID, fmt.Errorf("fetch claimed scan: %w", err))
	}

	analysis, err := uc.runPipeline(ctx, scan)
	if err != nil {
		return uc.fail(ctx, scanID, err)
	}

	if err := uc.repo.SaveAnalysis(ctx, scanID, analysis); err != nil {
		return uc.fail(ctx, scanID, fmt.Errorf("persist analysis: %w", err))
	}

	uc.publishCompleted(ctx, scan, analysis)

	return domain.AnalysisOutcome{ScanID: scanID, Status: domain.StatusCompleted}, nil
}

func (uc *AnalyzeScanUseCase) runPipeline(ctx context.Context, scan *domain.Scan) (*domain.ScanAnalysis, error) {
	front, left, right, err := uc.fetchImages(ctx, scan)
	if err != nil {
		return nil, err
	}

	analysis, err := uc.engine.Analyze(ctx, front, left, right)
	if err != nil {
		return nil, fmt.Errorf("invoke analysis engine: %w", err)
	}

	if err := analysis.Validate(); err != nil {
		return nil, err
	}
	return analysis, nil
}

func (uc *AnalyzeScanUseCase) fetchImages(ctx context.Context, scan *domain.Scan) (front, left, right []byte, err error) {
	keys := []struct {
		kind string
		key  string
		dst  *[]byte
	}{
		{kind: "front", key: scan.Images.Front, dst: &front},
		{kind: "left", key: scan.Images.Left, dst: &left},
		{kind: "right", key: scan.Images.Right, dst: &right},
	}
	for _, k := range keys {
		data, getErr := uc.storage.Get(ctx, k.key)
		if getErr != nil {
			return nil, nil, nil, domain.WrapError(domain.ErrStorage, fmt.Sprintf("retrieve %s image", k.kind), getErr)
		}
		*k.dst = data
	}
	return front, left, right, nil
}

// fail records the failure on the scan. The write runs on a detached
// context: the caller abandoning the request must not leave the scan
// stuck in processing, where no retry can claim it. If even that write
// fails the original error still wins.
func (uc *AnalyzeScanUseCase) fail(ctx context.Context, scanID string, cause error) (domain.AnalysisOutcome, error) {
	markCtx := context.WithoutCancel(ctx)
	if markErr := uc.repo.MarkFailed(markCtx, scanID, cause.Error()); markErr != nil {
		return domain.AnalysisOutcome{}, fmt.Errorf("%w; mark failed status: %v", cause, markErr)
	}
	return domain.AnalysisOutcome{
		ScanID: scanID,
		Status: domain.StatusFailed,
		Error:  cause.Error(),
	}, nil
}

// publishCompleted hands the leaderboard update to the queue. Completion
// already happened; a publish failure is logged and recovered out-of-band,
// never reverted onto the scan.
func (uc *AnalyzeScanUseCase) publishCompleted(ctx context.Context, scan *domain.Scan, analysis *domain.ScanAnalysis) {
	evt := domain.ScanCompletedEvent{
		ScanID:       scan.ID,
		UserID:       scan.UserID,
		OverallScore: scoring.CompositeScore(analysis),
		CompletedAt:  time.Now().UTC(),
	}
	if err := uc.queue.PublishScanCompleted(ctx, evt); err != nil {
		slog.Error("publish scan completed event",
			"scan_id", scan.ID,
			"user_id", scan.UserID,
			"error", err,
		)
	}
}
