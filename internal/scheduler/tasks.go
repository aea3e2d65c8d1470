package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// TaskEmbeddingRefresh recomputes and stores one entity's embedding.
const TaskEmbeddingRefresh = "embedding.refresh"

type EmbeddingRefreshPayload struct {
	TenantID string `json:"tenantId"`
	Kind     string `json:"kind"`
	EntityID string `json:"entityId"`
	Text     string `json:"text"`
}

func NewEmbeddingRefreshTask(payload EmbeddingRefreshPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskEmbeddingRefresh, data), nil
}

func ParseEmbeddingRefreshPayload(task *asynq.Task) (EmbeddingRefreshPayload, error) {
	var payload EmbeddingRefreshPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return EmbeddingRefreshPayload{}, err
	}
	return payload, nil
}
