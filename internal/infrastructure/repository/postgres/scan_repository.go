package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Shashank2985/Cannon/internal/core/domain"
)

type ScanRepository struct {
	db *sql.DB
}

func NewScanRepository(db *sql.DB) *ScanRepository {
	return &ScanRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *ScanRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083001)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS scans (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	front_image_key TEXT NOT NULL,
	left_image_key TEXT NOT NULL,
	right_image_key TEXT NOT NULL,
	status TEXT NOT NULL,
	analysis JSONB,
	error_message TEXT,
	is_unlocked BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_scans_user_created ON scans(user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_scans_user_status ON scans(user_id, status);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *ScanRepository) Create(ctx context.Context, scan *domain.Scan) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO scans (
	id, user_id, front_image_key, left_image_key, right_image_key, status, error_message, is_unlocked, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
`,
		scan.ID, scan.UserID, scan.Images.Front, scan.Images.Left, scan.Images.Right,
		string(scan.Status), scan.Error, scan.IsUnlocked, scan.CreatedAt, scan.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert scan: %w", err)
	}
	return nil
}

const scanColumns = `id, user_id, front_image_key, left_image_key, right_image_key, status, analysis, error_message, is_unlocked, created_at, updated_at`

func (r *ScanRepository) GetForUser(ctx context.Context, scanID, userID string) (*domain.Scan, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+scanColumns+`
FROM scans
WHERE id = $1 AND user_id = $2
`, scanID, userID)
	return scanRow(row)
}

func (r *ScanRepository) GetLatest(ctx context.Context, userID string) (*domain.Scan, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+scanColumns+`
FROM scans
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT 1
`, userID)
	return scanRow(row)
}

func scanRow(row *sql.Row) (*domain.Scan, error) {
	var scan domain.Scan
	var status string
	var analysisRaw []byte
	var errMessage sql.NullString

	err := row.Scan(
		&scan.ID, &scan.UserID, &scan.Images.Front, &scan.Images.Left, &scan.Images.Right,
		&status, &analysisRaw, &errMessage, &scan.IsUnlocked, &scan.CreatedAt, &scan.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrScanNotFound
		}
		return nil, fmt.Errorf("scan row: %w", err)
	}

	scan.Status = domain.ScanStatus(status)
	scan.Error = errMessage.String
	if len(analysisRaw) > 0 {
		var analysis domain.ScanAnalysis
		if err := json.Unmarshal(analysisRaw, &analysis); err != nil {
			return nil, fmt.Errorf("unmarshal analysis: %w", err)
		}
		scan.Analysis = &analysis
	}
	return &scan, nil
}

func (r *ScanRepository) ListHistory(ctx context.Context, userID string, limit int) ([]domain.ScanSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, status, analysis->'metrics'->>'overall_score', created_at
FROM scans
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query scan history: %w", err)
	}
	defer rows.Close()

	summaries := make([]domain.ScanSummary, 0, limit)
	for rows.Next() {
		var s domain.ScanSummary
		var status string
		var score sql.NullFloat64
		if err := rows.Scan(&s.ID, &status, &score, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		s.Status = domain.ScanStatus(status)
		if score.Valid {
			v := score.Float64
			s.OverallScore = &v
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scan history: %w", err)
	}
	return summaries, nil
}

// ClaimForProcessing is the compare-and-swap gate in front of the
// analysis pipeline: only one caller can move a scan out of a
// triggerable state.
func (r *ScanRepository) ClaimForProcessing(ctx context.Context, scanID, userID string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE scans
SET status = $3, updated_at = $4
WHERE id = $1 AND user_id = $2 AND status IN ('pending', 'failed')
`, scanID, userID, string(domain.StatusProcessing), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("claim scan: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("claim scan rows affected: %w", err)
	}
	if affected == 1 {
		return nil
	}

	// Zero rows is either a missing scan or a lost race; one more read
	// tells them apart.
	var status string
	err = r.db.QueryRowContext(ctx, `
SELECT status FROM scans WHERE id = $1 AND user_id = $2
`, scanID, userID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrScanNotFound
	}
	if err != nil {
		return fmt.Errorf("claim scan status check: %w", err)
	}
	return domain.WrapError(domain.ErrConflict, "claim scan", fmt.Errorf("scan is %s", status))
}

func (r *ScanRepository) SaveAnalysis(ctx context.Context, scanID string, analysis *domain.ScanAnalysis) error {
	analysisJSON, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
UPDATE scans
SET status = $2, analysis = $3, error_message = NULL, updated_at = $4
WHERE id = $1
`, scanID, string(domain.StatusCompleted), analysisJSON, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save analysis: %w", err)
	}
	return nil
}

func (r *ScanRepository) MarkFailed(ctx context.Context, scanID, errMessage string) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE scans
SET status = $2, analysis = NULL, error_message = $3, updated_at = $4
WHERE id = $1
`, scanID, string(domain.StatusFailed), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("mark scan failed: %w", err)
	}
	return nil
}

func (r *ScanRepository) ListCompletedScores(ctx context.Context, userID string) ([]domain.ScorePoint, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT (analysis->'metrics'->>'overall_score')::DOUBLE PRECISION, updated_at
FROM scans
WHERE user_id = $1 AND status = 'completed' AND analysis IS NOT NULL
ORDER BY created_at DESC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("query completed scores: %w", err)
	}
	defer rows.Close()

	var points []domain.ScorePoint
	for rows.Next() {
		var p domain.ScorePoint
		if err := rows.Scan(&p.Score, &p.RecordedAt); err != nil {
			return nil, fmt.Errorf("completed score row: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate completed scores: %w", err)
	}
	return points, nil
}
