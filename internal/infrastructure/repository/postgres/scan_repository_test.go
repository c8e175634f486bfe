package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Shashank2985/Cannon/internal/core/domain"
)

func TestScanRepositoryGetForUserReturnsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewScanRepository(db)
	mock.ExpectQuery("FROM scans").
		WithArgs("missing", "u-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = repo.GetForUser(context.Background(), "missing", "u-1")
	if !errors.Is(err, domain.ErrScanNotFound) {
		t.Fatalf("expected ErrScanNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestScanRepositoryGetForUserDecodesAnalysis(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewScanRepository(db)
	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "front_image_key", "left_image_key", "right_image_key",
		"status", "analysis", "error_message", "is_unlocked", "created_at", "updated_at",
	}).AddRow(
		"s-1", "u-1", "k-f", "k-l", "k-r",
		string(domain.StatusCompleted), []byte(`{"metrics":{"overall_score":7.5}}`), nil, true, now, now,
	)
	mock.ExpectQuery("FROM scans").
		WithArgs("s-1", "u-1").
		WillReturnRows(rows)

	scan, err := repo.GetForUser(context.Background(), "s-1", "u-1")
	if err != nil {
		t.Fatalf("GetForUser() error = %v", err)
	}
	if scan.Analysis == nil {
		t.Fatalf("expected decoded analysis")
	}
	if scan.Analysis.Metrics.OverallScore != 7.5 {
		t.Fatalf("overall score = %v", scan.Analysis.Metrics.OverallScore)
	}
	if scan.Status != domain.StatusCompleted {
		t.Fatalf("status = %s", scan.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestScanRepositoryClaimForProcessingConflictOnLostRace(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewScanRepository(db)
	mock.ExpectExec("UPDATE scans").
		WithArgs("s-1", "u-1", string(domain.StatusProcessing), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT status FROM scans").
		WithArgs("s-1", "u-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("processing"))

	err = repo.ClaimForProcessing(context.Background(), "s-1", "u-1")
	if !domain.IsKind(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestScanRepositoryClaimForProcessingNotFoundWhenRowMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewScanRepository(db)
	mock.ExpectExec("UPDATE scans").
		WithArgs("ghost", "u-1", string(domain.StatusProcessing), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT status FROM scans").
		WithArgs("ghost", "u-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}))

	err = repo.ClaimForProcessing(context.Background(), "ghost", "u-1")
	if !errors.Is(err, domain.ErrScanNotFound) {
		t.Fatalf("expected ErrScanNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestScanRepositoryClaimForProcessingSucceedsOnPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewScanRepository(db)
	mock.ExpectExec("UPDATE scans").
		WithArgs("s-1", "u-1", string(domain.StatusProcessing), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.ClaimForProcessing(context.Background(), "s-1", "u-1"); err != nil {
		t.Fatalf("ClaimForProcessing() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestScanRepositoryListHistoryMapsNullScores(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewScanRepository(db)
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "status", "overall_score", "created_at"}).
		AddRow("s-2", string(domain.StatusCompleted), "8.1", now).
		AddRow("s-1", string(domain.StatusFailed), nil, now.Add(-time.Hour))
	mock.ExpectQuery("FROM scans").
		WithArgs("u-1", 10).
		WillReturnRows(rows)

	history, err := repo.ListHistory(context.Background(), "u-1", 10)
	if err != nil {
		t.Fatalf("ListHistory() error = %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(history))
	}
	if history[0].OverallScore == nil || *history[0].OverallScore != 8.1 {
		t.Fatalf("completed row score = %v", history[0].OverallScore)
	}
	if history[1].OverallScore != nil {
		t.Fatalf("failed row must not carry a score")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
