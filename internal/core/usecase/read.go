package usecase

import (
	"context"
	"fmt"

	"github.com/Shashank2985/Cannon/internal/core/domain"
	"github.com/Shashank2985/Cannon/internal/core/ports"
)

type ScanReadUseCase struct {
	repo         ports.ScanRepository
	historyLimit int
}

func NewScanReadUseCase(repo ports.ScanRepository, historyLimit int) *ScanReadUseCase {
	if historyLimit <= 0 {
		historyLimit = 10
	}
	return &ScanReadUseCase{repo: repo, historyLimit: historyLimit}
}

func (uc *ScanReadUseCase) Latest(ctx context.Context, identity domain.Identity) (*domain.ScanProjection, error) {
	scan, err := uc.repo.GetLatest(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("fetch latest scan: %w", err)
	}
	return project(scan, identity.Paid), nil
}

func (uc *ScanReadUseCase) GetByID(ctx context.Context, scanID string, identity domain.Identity) (*domain.ScanProjection, error) {
	scan, err := uc.repo.GetForUser(ctx, scanID, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("fetch scan by id: %w", err)
	}
	return project(scan, identity.Paid), nil
}

func (uc *ScanReadUseCase) History(ctx context.Context, userID string, limit int) ([]domain.ScanSummary, error) {
	if limit <= 0 || limit > uc.historyLimit {
		limit = uc.historyLimit
	}
	summaries, err := uc.repo.ListHistory(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list scan history: %w", err)
	}
	return summaries, nil
}

// project applies the paid/unpaid view. Unpaid viewers of a completed scan
// see the composite score behind a locked flag and nothing of the nested
// metrics.
func project(scan *domain.Scan, paid bool) *domain.ScanProjection {
	p := &domain.ScanProjection{
		ID:        scan.ID,
		Status:    scan.Status,
		Images:    scan.Images,
		CreatedAt: scan.CreatedAt,
	}
	if scan.Status != domain.StatusCompleted || scan.Analysis == nil {
		return p
	}
	if paid {
		p.Analysis = scan.Analysis
		return p
	}
	p.Locked = &domain.LockedAnalysis{
		OverallScore: scan.Analysis.Metrics.OverallScore,
		Locked:       true,
	}
	return p
}
