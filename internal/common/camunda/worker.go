// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"time"

	"wealth-planner/internal/common/config"
	"wealth-planner/internal/common/logger"
	"wealth-planner/internal/common/metrics"
	"wealth-planner/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// HandlerFunc processes one job. ctx carries the job span and is cancelled with the worker's parent.
type HandlerFunc func(ctx context.Context, client worker.JobClient, job entities.Job)

// Instrument wraps handler in a job span and records duration for every job it processes.
func Instrument(parent context.Context, taskType string, handler HandlerFunc, obs *observability.Observability) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		ctx, span := obs.StartSpan(parent, "job."+taskType)
		defer func() {
			span.End()
			d := time.Since(start)
			metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(d.Seconds())
			obs.RecordJobProcessed(ctx, taskType, "handled")
			obs.RecordJobDuration(ctx, taskType, d, "handled")
		}()
		handler(ctx, client, job)
	}
}

// StartWorker opens a job worker for taskType unless it is disabled.
// The returned worker is nil when nothing was opened.
func StartWorker(ctx context.Context, client zbc.Client, taskType string, wcfg config.WorkerConfig, handler HandlerFunc, obs *observability.Observability, log logger.Logger) worker.JobWorker {
	if !wcfg.Enabled {
		log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return nil
	}

	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(Instrument(ctx, taskType, handler, obs)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return jobWorker
}
