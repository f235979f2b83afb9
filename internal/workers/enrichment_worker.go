package workers

import (
	"context"
	"time"

	"github.com/gitkudos/gitkudos/internal/models"
	"github.com/gitkudos/gitkudos/internal/repositories"
	"github.com/gitkudos/gitkudos/internal/services"
	"github.com/gitkudos/gitkudos/pkg/logger"
)

const idlePollInterval = 5 * time.Second

// EnrichmentWorker polls pending linked-issue jobs and resolves them off the
// webhook request path. A failed job is recorded and left behind; the next
// delivery of the same pull request queues a fresh one.
type EnrichmentWorker struct {
	*BaseWorker
	jobRepo           *repositories.EnrichmentJobRepository
	enrichmentService *services.EnrichmentService
}

// NewEnrichmentWorker creates a new EnrichmentWorker
func NewEnrichmentWorker(workerID string, jobRepo *repositories.EnrichmentJobRepository, enrichmentService *services.EnrichmentService) *EnrichmentWorker {
	return &EnrichmentWorker{
		BaseWorker:        NewBaseWorker(workerID),
		jobRepo:           jobRepo,
		enrichmentService: enrichmentService,
	}
}

// Start begins the enrichment worker process
func (w *EnrichmentWorker) Start(ctx context.Context) error {
	w.Running = true
	logger.Infof("Enrichment worker %s started", w.WorkerID)

	for {
		select {
		case <-ctx.Done():
			logger.Infof("Enrichment worker %s stopping due to context cancellation", w.WorkerID)
			return ctx.Err()
		case <-w.StopChan:
			logger.Infof("Enrichment worker %s stopping", w.WorkerID)
			return nil
		default:
			job, err := w.jobRepo.GetNextPending()
			if err != nil {
				logger.WithError(err).Errorf("Enrichment worker %s error getting job", w.WorkerID)
				w.sleep(ctx, idlePollInterval)
				continue
			}

			if job == nil {
				w.sleep(ctx, idlePollInterval)
				continue
			}

			w.processJob(ctx, job)
		}
	}
}

func (w *EnrichmentWorker) processJob(ctx context.Context, job *models.EnrichmentJob) {
	logger.WithFields(map[string]interface{}{
		"worker":       w.WorkerID,
		"job":          job.ID,
		"pull_request": job.PullRequestID,
	}).Infof("resolving linked issues")

	if err := w.enrichmentService.Resolve(ctx, job); err != nil {
		// Enrichment is best effort: record the failure, keep the PR as is.
		logger.WithError(err).Warnf("Enrichment worker %s job %s failed", w.WorkerID, job.ID)
		job.MarkFailed(err.Error())
	} else {
		job.MarkCompleted()
	}

	if err := w.jobRepo.Update(job); err != nil {
		logger.WithError(err).Errorf("Enrichment worker %s error updating job %s", w.WorkerID, job.ID)
	}
}

func (w *EnrichmentWorker) sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-w.StopChan:
	case <-time.After(d):
	}
}
