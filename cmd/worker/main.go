package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Shashank2985/Cannon/internal/bootstrap"
	"github.com/Shashank2985/Cannon/internal/config"
	"github.com/Shashank2985/Cannon/internal/core/domain"
	"github.com/Shashank2985/Cannon/internal/observability/logging"
	"github.com/Shashank2985/Cannon/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger("worker", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics("worker")
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: workerMetrics.Handler(),
	}
	go func() {
		slog.Info("worker metrics listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("worker metrics server error: %v", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	slog.Info("worker subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeScanCompleted(ctx, func(handlerCtx context.Context, evt domain.ScanCompletedEvent) error {
		updateCtx, cancel := context.WithTimeout(handlerCtx, time.Minute)
		defer cancel()

		if !evt.CompletedAt.IsZero() {
			workerMetrics.ObserveQueueLag("worker", time.Since(evt.CompletedAt))
		}

		workerMetrics.StartUpdate()
		start := time.Now()
		recordErr := app.Ranking.RecordScan(updateCtx, evt.UserID, evt.OverallScore)
		workerMetrics.FinishUpdate("worker", time.Since(start), recordErr)
		if recordErr != nil {
			return recordErr
		}

		if page, err := app.Ranking.Leaderboard(updateCtx, 1); err == nil {
			workerMetrics.ObserveBoardSize("worker", page.TotalUsers)
		}
		return nil
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}
}
