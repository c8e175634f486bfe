package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Shashank2985/Cannon/internal/core/domain"
)

type LeaderboardRepository struct {
	db *sql.DB
}

func NewLeaderboardRepository(db *sql.DB) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

func (r *LeaderboardRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083002)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS leaderboard_entries (
	user_id TEXT PRIMARY KEY,
	score DOUBLE PRECISION NOT NULL DEFAULT 0,
	level DOUBLE PRECISION NOT NULL DEFAULT 0,
	streak_days INTEGER NOT NULL DEFAULT 0,
	improvement_percentage DOUBLE PRECISION NOT NULL DEFAULT 0,
	scans_count INTEGER NOT NULL DEFAULT 0,
	rank INTEGER NOT NULL DEFAULT 0,
	last_scan_at TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_leaderboard_score ON leaderboard_entries(score DESC, user_id ASC);
CREATE INDEX IF NOT EXISTS idx_leaderboard_rank ON leaderboard_entries(rank ASC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

const entryColumns = `user_id, score, level, streak_days, improvement_percentage, scans_count, rank, last_scan_at, created_at`

func (r *LeaderboardRepository) GetByUserID(ctx context.Context, userID string) (*domain.LeaderboardEntry, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+entryColumns+`
FROM leaderboard_entries
WHERE user_id = $1
`, userID)

	var entry domain.LeaderboardEntry
	err := row.Scan(
		&entry.UserID, &entry.Score, &entry.Level, &entry.StreakDays,
		&entry.ImprovementPercentage, &entry.ScansCount, &entry.Rank,
		&entry.LastScanAt, &entry.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("leaderboard entry row: %w", err)
	}
	return &entry, nil
}

func (r *LeaderboardRepository) Upsert(ctx context.Context, entry *domain.LeaderboardEntry) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO leaderboard_entries (
	user_id, score, level, streak_days, improvement_percentage, scans_count, rank, last_scan_at, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (user_id) DO UPDATE SET
	score = EXCLUDED.score,
	level = EXCLUDED.level,
	streak_days = EXCLUDED.streak_days,
	improvement_percentage = EXCLUDED.improvement_percentage,
	scans_count = EXCLUDED.scans_count,
	last_scan_at = EXCLUDED.last_scan_at
`,
		entry.UserID, entry.Score, entry.Level, entry.StreakDays,
		entry.ImprovementPercentage, entry.ScansCount, entry.Rank,
		entry.LastScanAt, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert leaderboard entry: %w", err)
	}
	return nil
}

func (r *LeaderboardRepository) ListForRerank(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+entryColumns+`
FROM leaderboard_entries
ORDER BY score DESC, user_id ASC
`)
	if err != nil {
		return nil, fmt.Errorf("query rerank entries: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

// UpdateRanks rewrites the full rank column in one transaction so
// readers never observe a half-applied ordering.
func (r *LeaderboardRepository) UpdateRanks(ctx context.Context, assignments []domain.RankAssignment) error {
	if len(assignments) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rank tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, `UPDATE leaderboard_entries SET rank = $2 WHERE user_id = $1`)
	if err != nil {
		return fmt.Errorf("prepare rank update: %w", err)
	}
	defer stmt.Close()

	for _, a := range assignments {
		if _, err := stmt.ExecContext(ctx, a.UserID, a.Rank); err != nil {
			return fmt.Errorf("update rank for %s: %w", a.UserID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rank tx: %w", err)
	}
	return nil
}

func (r *LeaderboardRepository) ListRanked(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+entryColumns+`
FROM leaderboard_entries
WHERE rank > 0
ORDER BY rank ASC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("query ranked entries: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

func (r *LeaderboardRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leaderboard_entries`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count leaderboard entries: %w", err)
	}
	return count, nil
}

func collectEntries(rows *sql.Rows) ([]domain.LeaderboardEntry, error) {
	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var entry domain.LeaderboardEntry
		err := rows.Scan(
			&entry.UserID, &entry.Score, &entry.Level, &entry.StreakDays,
			&entry.ImprovementPercentage, &entry.ScansCount, &entry.Rank,
			&entry.LastScanAt, &entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("leaderboard entry row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leaderboard entries: %w", err)
	}
	return entries, nil
}
