package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Shashank2985/Cannon/internal/core/domain"
)

func TestLeaderboardRepositoryGetByUserIDReturnsNilWhenAbsent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewLeaderboardRepository(db)
	mock.ExpectQuery("FROM leaderboard_entries").
		WithArgs("u-new").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	entry, err := repo.GetByUserID(context.Background(), "u-new")
	if err != nil {
		t.Fatalf("GetByUserID() error = %v", err)
	}
	if entry != nil {
		t.Fatalf("expected nil entry for absent user, got %+v", entry)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestLeaderboardRepositoryUpdateRanksRunsSingleTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewLeaderboardRepository(db)
	mock.ExpectBegin()
	mock.ExpectPrepare("UPDATE leaderboard_entries")
	mock.ExpectExec("UPDATE leaderboard_entries").
		WithArgs("u-1", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE leaderboard_entries").
		WithArgs("u-2", 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = repo.UpdateRanks(context.Background(), []domain.RankAssignment{
		{UserID: "u-1", Rank: 1},
		{UserID: "u-2", Rank: 2},
	})
	if err != nil {
		t.Fatalf("UpdateRanks() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestLeaderboardRepositoryUpdateRanksNoopOnEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewLeaderboardRepository(db)
	if err := repo.UpdateRanks(context.Background(), nil); err != nil {
		t.Fatalf("UpdateRanks() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestLeaderboardRepositoryListRankedOrdersByRank(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewLeaderboardRepository(db)
	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"user_id", "score", "level", "streak_days", "improvement_percentage",
		"scans_count", "rank", "last_scan_at", "created_at",
	}).
		AddRow("u-2", 81.0, 8.1, 3, 12.5, 4, 1, now, now).
		AddRow("u-1", 75.0, 7.5, 1, 0.0, 1, 2, now, now)
	mock.ExpectQuery("FROM leaderboard_entries").
		WithArgs(100).
		WillReturnRows(rows)

	entries, err := repo.ListRanked(context.Background(), 100)
	if err != nil {
		t.Fatalf("ListRanked() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].UserID != "u-2" || entries[0].Rank != 1 {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
