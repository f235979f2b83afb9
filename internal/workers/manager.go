package workers

import (
	"context"
	"fmt"
	"sync"

	"github.com/gitkudos/gitkudos/internal/repositories"
	"github.com/gitkudos/gitkudos/internal/services"
	"github.com/gitkudos/gitkudos/pkg/config"
	"github.com/gitkudos/gitkudos/pkg/logger"
)

// WorkerManager manages the background enrichment workers
type WorkerManager struct {
	workers []Worker
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewWorkerManager creates a new worker manager
func NewWorkerManager(cfg config.EnrichmentConfig, jobRepo *repositories.EnrichmentJobRepository, enrichmentService *services.EnrichmentService) *WorkerManager {
	ctx, cancel := context.WithCancel(context.Background())

	count := cfg.Workers
	if count < 1 {
		count = 1
	}

	workers := make([]Worker, 0, count)
	for i := 0; i < count; i++ {
		workers = append(workers, NewEnrichmentWorker(fmt.Sprintf("enrichment-%d", i+1), jobRepo, enrichmentService))
	}

	return &WorkerManager{
		workers: workers,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// StartAll starts all workers
func (wm *WorkerManager) StartAll() {
	logger.Infof("Starting %d enrichment workers", len(wm.workers))

	for _, worker := range wm.workers {
		wm.wg.Add(1)
		go func(w Worker) {
			defer wm.wg.Done()
			if err := w.Start(wm.ctx); err != nil && err != context.Canceled {
				logger.WithError(err).Errorf("Worker %s exited with error", w.GetWorkerID())
			}
		}(worker)
	}
}

// StopAll stops all workers and waits for them to finish
func (wm *WorkerManager) StopAll() {
	wm.cancel()
	for _, worker := range wm.workers {
		if err := worker.Stop(); err != nil {
			logger.WithError(err).Errorf("Failed to stop worker %s", worker.GetWorkerID())
		}
	}
	wm.wg.Wait()
}
