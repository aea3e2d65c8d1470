package scheduler

import (
	"context"
	"fmt"

	"comercial_backend/internal/events"
	"comercial_backend/platform/config"
	"comercial_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// EmbeddingApplier computes and stores an entity's embedding.
type EmbeddingApplier interface {
	Apply(ctx context.Context, tenantID uuid.UUID, kind events.EntityKind, entityID uuid.UUID, text string) error
}

type Worker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	applier EmbeddingApplier
	log     *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, applier EmbeddingApplier, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:  server,
		mux:     mux,
		applier: applier,
		log:     log,
	}

	mux.HandleFunc(TaskEmbeddingRefresh, w.handleEmbeddingRefresh)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleEmbeddingRefresh(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseEmbeddingRefreshPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	tenantID, err := uuid.Parse(payload.TenantID)
	if err != nil {
		return fmt.Errorf("%w: tenant id: %v", asynq.SkipRetry, err)
	}

	entityID, err := uuid.Parse(payload.EntityID)
	if err != nil {
		return fmt.Errorf("%w: entity id: %v", asynq.SkipRetry, err)
	}

	return w.applier.Apply(ctx, tenantID, events.EntityKind(payload.Kind), entityID, payload.Text)
}
