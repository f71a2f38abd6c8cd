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

	"github.com/tnso721607-maker/tenderquote/internal/bootstrap"
	"github.com/tnso721607-maker/tenderquote/internal/config"
	"github.com/tnso721607-maker/tenderquote/internal/observability/logging"
	"github.com/tnso721607-maker/tenderquote/internal/observability/metrics"
)

const serviceName = "tenderquote-worker"

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger(serviceName, cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	go serveMetrics(cfg.WorkerMetricsPort, workerMetrics)

	slog.Info("worker_subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeQuotationRequested(ctx, func(handlerCtx context.Context, quotationID string) error {
		buildCtx, cancel := context.WithTimeout(handlerCtx, time.Duration(cfg.BuildTimeoutSeconds)*time.Second)
		defer cancel()

		start := time.Now()
		if q, err := app.QuotationRead.GetByID(buildCtx, quotationID); err == nil {
			workerMetrics.RecordQueueLag(serviceName, start.Sub(q.CreatedAt))
		}

		workerMetrics.BuildStarted()
		buildErr := app.BuildUC.BuildByID(buildCtx, quotationID)
		status := "ready"
		if buildErr != nil {
			status = "failed"
		}
		workerMetrics.BuildFinished(serviceName, status, time.Since(start))

		if buildErr == nil {
			recordResolvedItems(buildCtx, app, workerMetrics, quotationID)
		}
		return buildErr
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}
}

func serveMetrics(port string, workerMetrics *metrics.WorkerMetrics) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", workerMetrics.Handler())
	if err := http.ListenAndServe(":"+port, mux); err != nil && err != http.ErrServerClosed {
		slog.Error("worker_metrics_server_error", "error", err)
	}
}

func recordResolvedItems(ctx context.Context, app *bootstrap.App, workerMetrics *metrics.WorkerMetrics, quotationID string) {
	q, err := app.QuotationRead.GetByID(ctx, quotationID)
	if err != nil {
		return
	}
	counts := make(map[string]int)
	for _, item := range q.Items {
		counts[string(item.Status)]++
	}
	workerMetrics.RecordResolvedItems(serviceName, counts)
}
