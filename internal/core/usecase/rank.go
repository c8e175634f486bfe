package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Shashank2985/Cannon/internal/core/domain"
	"github.com/Shashank2985/Cannon/internal/core/ports"
	"github.com/Shashank2985/Cannon/internal/core/scoring"
)

// RankingUseCase owns the leaderboard. RecordScan's read-all/recompute/
// write-all sequence is the one shared-resource hazard of the system, so
// the whole thing runs under a single mutex: concurrent completions from
// different users queue up here instead of racing on ranks.
type RankingUseCase struct {
	mu    sync.Mutex
	board ports.LeaderboardRepository
	scans ports.ScanRepository
}

func NewRankingUseCase(board ports.LeaderboardRepository, scans ports.ScanRepository) *RankingUseCase {
	return &RankingUseCase{board: board, scans: scans}
}

// RecordScan folds one completed scan into the user's entry and recomputes
// every rank. Score is a running maximum; level tracks the latest scan and
// may go down.
func (uc *RankingUseCase) RecordScan(ctx context.Context, userID string, overallScore float64) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	lbScore := scoring.LeaderboardScore(overallScore)
	now := time.Now().UTC()

	entry, err := uc.board.GetByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("fetch leaderboard entry: %w", err)
	}

	if entry == nil {
		entry = &domain.LeaderboardEntry{
			UserID:     userID,
			Score:      lbScore,
			Level:      overallScore,
			StreakDays: 1,
			ScansCount: 1,
			LastScanAt: now,
			CreatedAt:  now,
		}
	} else {
		history, err := uc.scans.ListCompletedScores(ctx, userID)
		if err != nil {
			return fmt.Errorf("list completed scores: %w", err)
		}
		if lbScore > entry.Score {
			entry.Score = lbScore
		}
		entry.Level = overallScore
		entry.ScansCount++
		entry.ImprovementPercentage = scoring.ImprovementPercentage(history)
		entry.LastScanAt = now
	}

	if err := uc.board.Upsert(ctx, entry); err != nil {
		return fmt.Errorf("upsert leaderboard entry: %w", err)
	}

	return uc.rerank(ctx)
}

// rerank reassigns dense 1..N ranks over score descending with user id as
// the tie-break. Full recomputation on every write, O(N), chosen for
// simplicity; the repository ordering makes it deterministic.
func (uc *RankingUseCase) rerank(ctx context.Context) error {
	entries, err := uc.board.ListForRerank(ctx)
	if err != nil {
		return fmt.Errorf("list entries for rerank: %w", err)
	}

	assignments := make([]domain.RankAssignment, len(entries))
	for i, e := range entries {
		assignments[i] = domain.RankAssignment{UserID: e.UserID, Rank: i + 1}
	}

	if err := uc.board.UpdateRanks(ctx, assignments); err != nil {
		return fmt.Errorf("persist rank assignments: %w", err)
	}
	return nil
}

func (uc *RankingUseCase) Leaderboard(ctx context.Context, limit int) (*domain.LeaderboardPage, error) {
	entries, err := uc.board.ListRanked(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list ranked entries: %w", err)
	}
	total, err := uc.board.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count leaderboard entries: %w", err)
	}
	return &domain.LeaderboardPage{Entries: entries, TotalUsers: total}, nil
}

func (uc *RankingUseCase) MyRank(ctx context.Context, userID string) (*domain.RankView, error) {
	total, err := uc.board.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count leaderboard entries: %w", err)
	}
	entry, err := uc.board.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch leaderboard entry: %w", err)
	}
	if entry == nil {
		return &domain.RankView{Ranked: false, TotalUsers: total}, nil
	}
	return &domain.RankView{Ranked: true, Entry: entry, TotalUsers: total}, nil
}
