// Package scoring holds the pure numeric derivations feeding the
// leaderboard. Nothing here touches I/O; every function is deterministic
// over its inputs.
package scoring

import "github.com/Shashank2985/Cannon/internal/core/domain"

// CompositeScore is the single 0-10 score the engine declares for a scan.
func CompositeScore(a *domain.ScanAnalysis) float64 {
	if a == nil {
		return 0
	}
	return a.Metrics.OverallScore
}

// LeaderboardScore scales a composite score onto the 0-100 board scale.
func LeaderboardScore(overallScore float64) float64 {
	return overallScore * 10
}

// ImprovementPercentage compares a user's newest completed score against
// their oldest one. History must be ordered newest-first. Fewer than two
// entries, or an oldest score of zero, means no measurable improvement:
// the result is 0, never an error or infinity.
func ImprovementPercentage(history []domain.ScorePoint) float64 {
	if len(history) < 2 {
		return 0
	}
	first := history[len(history)-1].Score
	latest := history[0].Score
	if first <= 0 {
		return 0
	}
	return (latest - first) / first * 100
}
