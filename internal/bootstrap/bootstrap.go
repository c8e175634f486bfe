package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/Shashank2985/Cannon/internal/config"
	"github.com/Shashank2985/Cannon/internal/core/ports"
	"github.com/Shashank2985/Cannon/internal/core/usecase"
	"github.com/Shashank2985/Cannon/internal/infrastructure/engine/visionapi"
	"github.com/Shashank2985/Cannon/internal/infrastructure/queue/nats"
	"github.com/Shashank2985/Cannon/internal/infrastructure/repository/postgres"
	"github.com/Shashank2985/Cannon/internal/infrastructure/resilience"
	"github.com/Shashank2985/Cannon/internal/infrastructure/storage/localfs"
	"github.com/Shashank2985/Cannon/internal/infrastructure/storage/s3"
)

type App struct {
	Config config.Config

	Queue     ports.EventQueue
	ScanRepo  ports.ScanRepository
	Submitter ports.ScanSubmitter
	Analyzer  ports.ScanAnalyzer
	Reader    ports.ScanReader
	Ranking   ports.RankingService

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	scanRepo := postgres.NewScanRepository(db)
	if err := scanRepo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure scan schema: %w", err)
	}
	boardRepo := postgres.NewLeaderboardRepository(db)
	if err := boardRepo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure leaderboard schema: %w", err)
	}

	storage, err := newImageStorage(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init image storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init event queue: %w", err)
	}

	engine := visionapi.New(
		cfg.EngineURL,
		cfg.EngineModel,
		time.Duration(cfg.EngineTimeoutSeconds)*time.Second,
		executor,
	)

	submitUC := usecase.NewSubmitScanUseCase(scanRepo, storage)
	analyzeUC := usecase.NewAnalyzeScanUseCase(scanRepo, storage, engine, queue)
	readUC := usecase.NewScanReadUseCase(scanRepo, cfg.HistoryLimit)
	rankingUC := usecase.NewRankingUseCase(boardRepo, scanRepo)

	return &App{
		Config: cfg,

		Queue:     queue,
		ScanRepo:  scanRepo,
		Submitter: submitUC,
		Analyzer:  analyzeUC,
		Reader:    readUC,
		Ranking:   rankingUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func newImageStorage(ctx context.Context, cfg config.Config) (ports.ImageStorage, error) {
	switch cfg.StorageBackend {
	case "s3":
		return s3.New(ctx, cfg.S3Bucket, cfg.S3Region)
	case "", "local":
		return localfs.New(cfg.StoragePath)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
