// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"wealth-planner/internal/common/camunda"
	"wealth-planner/internal/common/config"
	"wealth-planner/internal/common/logger"
	"wealth-planner/internal/common/observability"
	"wealth-planner/internal/planner"
	"wealth-planner/internal/web"
	"wealth-planner/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	gfp "wealth-planner/internal/workers/planning/generate-financial-plan"
	sfr "wealth-planner/internal/workers/planning/search-financial-resources"
	vfp "wealth-planner/internal/workers/planning/validate-financial-profile"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	if err := config.ValidateForWorkers(cfg); err != nil {
		zapLog.Fatal("worker configuration invalid", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()
	// in-flight jobs are cancelled only if shutdown outlasts its deadline
	jobCtx, cancelJobs := context.WithCancel(ctx)
	defer cancelJobs()

	client, err := camunda.NewClient(ctx, cfg.Camunda.BrokerAddress, log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	h := planner.NewHandlers(cfg, log)
	activities := registry.Planning()

	var workers []worker.JobWorker
	for _, w := range []struct {
		taskType string
		handle   camunda.HandlerFunc
	}{
		{vfp.TaskType, h.Validator.Handle},
		{sfr.TaskType, h.Searcher.Handle},
		{gfp.TaskType, h.Generator.Handle},
	} {
		if a, ok := activities.Lookup(w.taskType); ok {
			zapLog.Info("registering activity", zap.String("taskType", w.taskType), zap.String("id", a.ID),
				zap.Strings("errorCodes", a.ErrorCodes))
		}
		jw := camunda.StartWorker(jobCtx, client.Zeebe(), w.taskType, config.GetWorkerConfig(cfg, w.taskType), w.handle, obs, log)
		if jw != nil {
			workers = append(workers, jw)
		}
	}
	zapLog.Info("planning workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	health := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           web.NewOperationalRouter(log, web.WithReadiness(client.HealthCheck)),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", health.Addr))
		if err := health.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	closed := make(chan struct{})
	go func() {
		for _, jw := range workers {
			jw.Close()
			jw.AwaitClose()
		}
		close(closed)
	}()
	select {
	case <-closed:
	case <-shutdownCtx.Done():
		zapLog.Warn("Workers did not drain in time, cancelling in-flight jobs")
		cancelJobs()
		<-closed
	}
	if err := health.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := client.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}
